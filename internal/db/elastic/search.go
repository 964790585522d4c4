package elastic

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/kailas-cloud/esgrid/internal/db"
)

type searchResponse struct {
	Hits struct {
		Total *struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string              `json:"_id"`
			Source jsoniter.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]jsoniter.RawMessage `json:"aggregations"`
}

// Search executes a compiled search request against index.
func (s *Store) Search(ctx context.Context, index string, req *db.SearchRequest) (*db.SearchResult, error) {
	body, err := json.Marshal(req.Body())
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(index),
		s.es.Search.WithBody(bytes.NewReader(body)),
		s.es.Search.WithTrackTotalHits(req.TrackTotalHits),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	defer drain(res)

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			return nil, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
		}
		return nil, &db.Error{Op: db.OpSearch, Err: responseError(res)}
	}

	var sr searchResponse
	if err := decode(res, &sr); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	out := &db.SearchResult{Hits: make([]db.Hit, 0, len(sr.Hits.Hits))}
	if sr.Hits.Total != nil {
		out.Total = sr.Hits.Total.Value
	}
	for _, h := range sr.Hits.Hits {
		out.Hits = append(out.Hits, db.Hit{ID: h.ID, Source: stdjson.RawMessage(h.Source)})
	}
	if len(sr.Aggregations) > 0 {
		out.Aggregations = make(map[string]stdjson.RawMessage, len(sr.Aggregations))
		for name, raw := range sr.Aggregations {
			out.Aggregations[name] = stdjson.RawMessage(raw)
		}
	}
	return out, nil
}

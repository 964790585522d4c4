package elastic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/esgrid/internal/db"
)

// IndexDocument writes body under id. With create set the write uses op_type=create
// and an existing id fails with db.ErrConflict.
func (s *Store) IndexDocument(ctx context.Context, index, id string, body []byte, create bool) error {
	opts := []func(*esapi.IndexRequest){
		s.es.Index.WithDocumentID(id),
		s.es.Index.WithContext(ctx),
	}
	if create {
		opts = append(opts, s.es.Index.WithOpType("create"))
	}

	res, err := s.es.Index(index, bytes.NewReader(body), opts...)
	if err != nil {
		return &db.Error{Op: db.OpIndex, Err: err}
	}
	defer drain(res)

	if res.IsError() {
		if res.StatusCode == http.StatusConflict {
			return db.ErrConflict
		}
		return &db.Error{Op: db.OpIndex, Err: responseError(res)}
	}
	return nil
}

// DeleteDocument removes a document. A missing document returns db.ErrDocumentNotFound;
// a missing index is an error wrapping db.ErrIndexNotFound.
func (s *Store) DeleteDocument(ctx context.Context, index, id string) error {
	res, err := s.es.Delete(index, id, s.es.Delete.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	defer drain(res)

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			return deleteNotFound(res)
		}
		return &db.Error{Op: db.OpDelete, Err: responseError(res)}
	}
	return nil
}

// deleteNotFound tells a missing document (result "not_found") from a 404 that
// carries an error object, such as index_not_found_exception.
func deleteNotFound(res *esapi.Response) error {
	var body struct {
		Result string       `json:"result"`
		Error  *engineError `json:"error"`
	}
	raw, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == nil {
		return db.ErrDocumentNotFound
	}
	return &db.Error{Op: db.OpDelete, Err: fmt.Errorf("%w: %s", db.ErrIndexNotFound, body.Error)}
}

type bulkAction struct {
	Index struct {
		ID string `json:"_id"`
	} `json:"index"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string       `json:"_id"`
		Status int          `json:"status"`
		Error  *engineError `json:"error"`
	} `json:"items"`
}

// Bulk indexes items in one NDJSON request and reports per-item outcomes.
// A transport or request-level failure returns an error; item failures do not.
func (s *Store) Bulk(ctx context.Context, index string, items []db.BulkItem) ([]db.BulkItemResult, error) {
	if len(items) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	for i := range items {
		var action bulkAction
		action.Index.ID = items[i].ID
		line, err := json.Marshal(action)
		if err != nil {
			return nil, &db.Error{Op: db.OpBulk, Err: err}
		}
		buf.Write(line)
		buf.WriteByte('\n')
		buf.Write(items[i].Body)
		buf.WriteByte('\n')
	}

	res, err := s.es.Bulk(&buf, s.es.Bulk.WithIndex(index), s.es.Bulk.WithContext(ctx))
	if err != nil {
		return nil, &db.Error{Op: db.OpBulk, Err: err}
	}
	defer drain(res)

	if res.IsError() {
		return nil, &db.Error{Op: db.OpBulk, Err: responseError(res)}
	}

	var br bulkResponse
	if err := decode(res, &br); err != nil {
		return nil, &db.Error{Op: db.OpBulk, Err: err}
	}

	results := make([]db.BulkItemResult, 0, len(items))
	for i, it := range br.Items {
		for _, r := range it {
			id := r.ID
			if id == "" && i < len(items) {
				id = items[i].ID
			}
			out := db.BulkItemResult{ID: id}
			if r.Error != nil || r.Status >= http.StatusMultipleChoices {
				out.Err = fmt.Errorf("[%d] %s", r.Status, r.Error.String())
			}
			results = append(results, out)
		}
	}
	return results, nil
}

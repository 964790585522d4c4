package elastic

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kailas-cloud/esgrid/internal/db"
)

// IndexExists reports whether the index exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := s.es.Indices.Exists([]string{name}, s.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, &db.Error{Op: db.OpIndexExists, Err: err}
	}
	defer drain(res)

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &db.Error{Op: db.OpIndexExists, Err: fmt.Errorf("status %d", res.StatusCode)}
	}
}

// CreateIndex creates an index with settings and mappings.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	body, err := json.Marshal(def.Body())
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}

	res, err := s.es.Indices.Create(def.Name,
		s.es.Indices.Create.WithBody(bytes.NewReader(body)),
		s.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	defer drain(res)

	if res.IsError() {
		rerr := responseError(res)
		if res.StatusCode == http.StatusBadRequest && strings.Contains(rerr.Error(), "resource_already_exists_exception") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: rerr}
	}
	return nil
}

// Refresh makes all writes to the index visible to search.
func (s *Store) Refresh(ctx context.Context, index string) error {
	res, err := s.es.Indices.Refresh(
		s.es.Indices.Refresh.WithIndex(index),
		s.es.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return &db.Error{Op: db.OpRefresh, Err: err}
	}
	defer drain(res)

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpRefresh, Err: responseError(res)}
	}
	return nil
}

// Package chi serves the grid API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esgrid/internal/db"
	"github.com/kailas-cloud/esgrid/internal/domain"
	"github.com/kailas-cloud/esgrid/internal/domain/bulk"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
	griduc "github.com/kailas-cloud/esgrid/internal/usecase/grid"
	healthuc "github.com/kailas-cloud/esgrid/internal/usecase/health"
	tickeruc "github.com/kailas-cloud/esgrid/internal/usecase/ticker"
)

const maxBodyBytes = 4 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers of the grid API.
type Server struct {
	grid          *griduc.Service
	ticker        *tickeruc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	grid *griduc.Service,
	ticker *tickeruc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		grid:   grid,
		ticker: ticker,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownField, http.StatusBadRequest, CodeUnknownField),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists),
		sentinelHandler(domain.ErrIdentityExhausted, http.StatusServiceUnavailable, CodeIdentityExhausted),
		engineErrorHandler,
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/inventory/query", s.QueryInventory)
		r.Post("/inventory/batch", s.BatchInventory)
		r.Post("/inventory", s.CreateItem)
		r.Get("/inventory/{id}", s.GetItem)
		r.Put("/inventory/{id}", s.UpdateItem)
		r.Delete("/inventory/{id}", s.DeleteItem)
		r.Get("/stocks/stream", s.StreamStocks)
	})
}

// QueryInventory handles POST /api/v1/inventory/query.
func (s *Server) QueryInventory(w http.ResponseWriter, r *http.Request) {
	var dm DataManagerRequest
	if !s.decode(w, r, &dm) {
		return
	}

	req, err := requestFromDTO(&dm)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	env, err := s.grid.Query(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	rows := env.Rows()
	if rows == nil {
		rows = []dominv.Item{}
	}
	if !dm.RequiresCounts {
		writeJSON(w, http.StatusOK, rows)
		return
	}
	writeJSON(w, http.StatusOK, QueryResponse{
		Result:     rows,
		Count:      env.TotalCount(),
		Aggregates: env.Aggregates(),
	})
}

// GetItem handles GET /api/v1/inventory/{id}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := s.grid.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /api/v1/inventory.
func (s *Server) CreateItem(w http.ResponseWriter, r *http.Request) {
	var item dominv.Item
	if !s.decode(w, r, &item) {
		return
	}

	stored, err := s.grid.Create(r.Context(), item)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/inventory/"+stored.DocumentID())
	writeJSON(w, http.StatusCreated, stored)
}

// UpdateItem handles PUT /api/v1/inventory/{id}.
func (s *Server) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var item dominv.Item
	if !s.decode(w, r, &item) {
		return
	}

	stored, err := s.grid.Update(r.Context(), id, item)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// DeleteItem handles DELETE /api/v1/inventory/{id}.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.grid.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchInventory handles POST /api/v1/inventory/batch.
func (s *Server) BatchInventory(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.grid.Batch(r.Context(), griduc.Batch{
		Added:   req.Added,
		Changed: req.Changed,
		Deleted: ids(req.Deleted),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	deleted := make(map[int]struct{}, len(res.Deleted))
	for _, id := range res.Deleted {
		deleted[id] = struct{}{}
	}

	resp := BatchResponse{
		Added:   nonNil(res.Added),
		Changed: nonNil(res.Changed),
		Deleted: []dominv.Item{},
		Results: make([]BatchItemResult, len(res.Results)),
	}
	for _, it := range req.Deleted {
		if _, ok := deleted[it.ItemID]; ok {
			resp.Deleted = append(resp.Deleted, it)
		}
	}
	for i, item := range res.Results {
		resp.Results[i] = batchResultToDTO(item)
		if item.Status() == bulk.StatusOK {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads a JSON body. Numbers stay json.Number so integral filter values
// keep their precision.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// pathID binds the {id} path parameter.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	var id int
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter id: "+err.Error())
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// Client errors carry their full message.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

// engineErrorHandler reports search engine failures as a bad gateway without their details.
func engineErrorHandler(w http.ResponseWriter, err error) bool {
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		return false
	}
	writeError(w, http.StatusBadGateway, CodeEngineError, "search engine error")
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func batchResultToDTO(r bulk.Result) BatchItemResult {
	out := BatchItemResult{ID: r.ID(), Status: string(r.Status())}
	if r.Err() != nil {
		out.Error = r.Err().Error()
	}
	return out
}

func nonNil(items []dominv.Item) []dominv.Item {
	if items == nil {
		return []dominv.Item{}
	}
	return items
}

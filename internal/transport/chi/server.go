// Package chi exposes the search service over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pulseworks/searchd/internal/domain"
	healthuc "github.com/pulseworks/searchd/internal/usecase/health"
	searchuc "github.com/pulseworks/searchd/internal/usecase/search"
	"github.com/pulseworks/searchd/internal/version"
)

// Error codes on the wire.
const (
	codeValidationError    = "validation_error"
	codeBackendUnavailable = "backend_unavailable"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers for the search service.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		backendUnavailableHandler,
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationError),
	}
	return s
}

// Routes mounts all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Post("/query", s.QueryDocuments)
	r.Post("/upsert", s.UpsertDocuments)
	r.Get("/stats", s.GetStats)
	r.Get("/schema/query", s.QuerySchema)
	r.Get("/schema/upsert", s.UpsertSchema)
	r.Get("/metrics", s.Metrics)
}

// queryRequest is the POST /query body. filters and context are accepted for
// compatibility with existing callers but not interpreted by any backend.
type queryRequest struct {
	Query   string         `json:"query"`
	Limit   *int           `json:"limit,omitempty"`
	Filters map[string]any `json:"filters,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

type searchResultItem struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type queryResponse struct {
	Results []searchResultItem `json:"results"`
	Total   int                `json:"total"`
	Query   string             `json:"query"`
	Backend string             `json:"backend"`
	TookMs  int64              `json:"took_ms"`
}

type documentPayload struct {
	ID       string         `json:"id,omitempty"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Documents []documentPayload `json:"documents"`
	IndexName string            `json:"index_name,omitempty"`
}

type upsertResponse struct {
	Status             string `json:"status"`
	DocumentsProcessed int    `json:"documents_processed"`
	IndexName          string `json:"index_name"`
	Backend            string `json:"backend"`
	Message            string `json:"message"`
}

type statsResponse struct {
	Backend       string `json:"backend"`
	DocumentCount int    `json:"document_count"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Backend string `json:"backend,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// QueryDocuments handles POST /query.
func (s *Server) QueryDocuments(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationError, "Invalid request body: "+err.Error())
		return
	}

	resp, err := s.search.Query(r.Context(), searchuc.QueryRequest{
		Query: req.Query,
		Limit: req.Limit,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchResultItem, len(resp.Results))
	for i, res := range resp.Results {
		items[i] = searchResultItem{
			ID:       res.ID,
			Content:  res.Content,
			Score:    res.Score,
			Metadata: res.Metadata,
		}
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Results: items,
		Total:   resp.Total,
		Query:   resp.Query,
		Backend: resp.Backend,
		TookMs:  resp.TookMs,
	})
}

// UpsertDocuments handles POST /upsert. Zero documents is valid and reports
// documents_processed: 0.
func (s *Server) UpsertDocuments(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationError, "Invalid request body: "+err.Error())
		return
	}

	docs := make([]domain.Document, len(req.Documents))
	for i, d := range req.Documents {
		docs[i] = domain.Document{
			ID:       d.ID,
			Content:  d.Content,
			Metadata: d.Metadata,
		}
	}

	resp, err := s.search.Upsert(r.Context(), searchuc.UpsertRequest{
		Documents: docs,
		IndexName: req.IndexName,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, upsertResponse{
		Status:             resp.Status,
		DocumentsProcessed: resp.DocumentsProcessed,
		IndexName:          resp.IndexName,
		Backend:            resp.Backend,
		Message:            resp.Message,
	})
}

// GetStats handles GET /stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.search.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Backend:       resp.Backend,
		DocumentCount: resp.DocumentCount,
	})
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

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// QuerySchema handles GET /schema/query.
func (s *Server) QuerySchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, querySchema)
}

// UpsertSchema handles GET /schema/upsert.
func (s *Server) UpsertSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, upsertSchema)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// backendUnavailableHandler surfaces the backend name and reason so callers
// know the preferred backend is inert rather than silently degraded.
func backendUnavailableHandler(w http.ResponseWriter, err error) bool {
	var bue *domain.BackendUnavailableError
	if !errors.As(err, &bue) {
		if !errors.Is(err, domain.ErrBackendUnavailable) {
			return false
		}
		writeError(w, http.StatusServiceUnavailable, codeBackendUnavailable, domain.ErrBackendUnavailable.Error())
		return true
	}
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{
		Code:    codeBackendUnavailable,
		Message: domain.ErrBackendUnavailable.Error(),
		Backend: bue.Backend,
		Reason:  bue.Reason,
	})
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// handleDomainError maps sentinel errors to the wire taxonomy. Anything
// unmatched is an internal error: logged with detail, returned generic.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Warn("request failed", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

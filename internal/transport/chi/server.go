package chi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/perjolt/gensum/internal/domain"
	healthuc "github.com/perjolt/gensum/internal/usecase/health"
	summaryuc "github.com/perjolt/gensum/internal/usecase/summary"
)

// Server exposes the summary API over HTTP.
type Server struct {
	summary *summaryuc.Service
	health  *healthuc.Service
	logger  *zap.Logger
	// exposeDetails controls whether error responses carry the
	// errorType/stack debug block. Enabled outside prod only.
	exposeDetails bool
}

// NewServer creates an HTTP API server.
func NewServer(
	summary *summaryuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	exposeDetails bool,
) *Server {
	return &Server{
		summary:       summary,
		health:        health,
		logger:        logger,
		exposeDetails: exposeDetails,
	}
}

// Routes mounts the API handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/generate-summary", s.GenerateSummary)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// generateSummaryRequest is the POST /api/generate-summary body. Context is
// captured raw so that "absent", "null" and "not an array" are told apart.
type generateSummaryRequest struct {
	Query   string          `json:"query"`
	Context json.RawMessage `json:"context"`
}

type searchResultDTO struct {
	Content  string       `json:"content"`
	Metadata *metadataDTO `json:"metadata"`
	Score    float64      `json:"score"`
}

type metadataDTO struct {
	Title   string `json:"title"`
	Section string `json:"section"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
	Status  string `json:"status"`
}

type errorResponse struct {
	Error   string        `json:"error"`
	Status  string        `json:"status,omitempty"`
	Details *errorDetails `json:"details,omitempty"`
}

type errorDetails struct {
	ErrorType string `json:"errorType"`
	Stack     string `json:"stack,omitempty"`
}

// GenerateSummary handles POST /api/generate-summary.
func (s *Server) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req generateSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	results, ok := contextFromJSON(req.Context)
	if !ok {
		writeError(w, http.StatusBadRequest, "Valid context array is required")
		return
	}

	text, err := s.summary.Summarize(r.Context(), req.Query, results)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Summary: text,
		Status:  "success",
	})
}

// contextFromJSON decodes the raw context field. Reports false when the field
// is absent, null, or anything other than a JSON array of result objects.
func contextFromJSON(raw json.RawMessage) ([]domain.SearchResult, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false
	}
	if trimmed[0] != '[' {
		return nil, false
	}

	var items []searchResultDTO
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}

	results := make([]domain.SearchResult, len(items))
	for i, item := range items {
		results[i] = domain.SearchResult{
			Content: item.Content,
			Score:   item.Score,
		}
		if item.Metadata != nil {
			results[i].Metadata = domain.Metadata{
				Title:   item.Metadata.Title,
				Section: item.Metadata.Section,
			}
		}
	}
	return results, true
}

// handleServiceError collapses every non-validation failure to 500, carrying
// the upstream message verbatim. Kind details appear only when the server is
// configured to expose them.
func (s *Server) handleServiceError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	s.logger.Error("summary generation failed",
		zap.String("kind", string(kind)),
		zap.Error(err),
	)

	resp := errorResponse{
		Error:  err.Error(),
		Status: "error",
	}
	if s.exposeDetails {
		resp.Details = &errorDetails{ErrorType: string(kind)}
	}

	writeJSON(w, http.StatusInternalServerError, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
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

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// Package chi is the HTTP transport for the recommendation engine: JSON
// handlers, domain-error to status mapping, and the CORS middleware the web
// frontend relies on.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/roam-cloud/tripdex/internal/domain"
	"github.com/roam-cloud/tripdex/internal/engine"
	"github.com/roam-cloud/tripdex/internal/logger"
	"github.com/roam-cloud/tripdex/internal/version"
)

// statusMapping ties a domain sentinel to its HTTP representation.
type statusMapping struct {
	sentinel error
	status   int
	code     string
}

// Server handles the tripdex HTTP API.
type Server struct {
	engine      *engine.Engine
	defaultTopK int
	logger      *zap.Logger
	mappings    []statusMapping
}

// NewServer creates the API server.
func NewServer(eng *engine.Engine, defaultTopK int, log *zap.Logger) *Server {
	if defaultTopK < 1 {
		defaultTopK = 5
	}
	return &Server{
		engine:      eng,
		defaultTopK: defaultTopK,
		logger:      log,
		mappings: []statusMapping{
			{domain.ErrSpotNotFound, http.StatusNotFound, "spot_not_found"},
			{domain.ErrEmptyQuery, http.StatusBadRequest, "empty_query"},
			{domain.ErrInvalidTopK, http.StatusBadRequest, "invalid_top_k"},
			{domain.ErrBadCatalog, http.StatusBadRequest, "invalid_catalog"},
			{domain.ErrNotLoaded, http.StatusInternalServerError, "index_not_ready"},
		},
	}
}

// Routes mounts all API handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/recommend", s.handleRecommend)
	r.Get("/api/all-spots", s.handleAllSpots)
	r.Post("/api/add-place", s.handleAddPlace)
	r.Delete("/api/remove-place/{id}", s.handleRemovePlace)
	r.Get("/api/health", s.handleHealth)
}

// recommendRequest is the POST /api/recommend body. TopK nil means "use the
// server default"; an explicit value below 1 is rejected.
type recommendRequest struct {
	Query   string `json:"query"`
	TopK    *int   `json:"top_k"`
	Explain bool   `json:"explain"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON in request body")
		return
	}

	topK := s.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	rec, err := s.engine.Recommend(r.Context(), req.Query, topK, req.Explain)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*engine.Recommendation
	}{true, rec})
}

func (s *Server) handleAllSpots(w http.ResponseWriter, r *http.Request) {
	spots := s.engine.AllSpots()
	writeJSON(w, http.StatusOK, struct {
		Success    bool                 `json:"success"`
		Spots      []engine.SpotSummary `json:"spots"`
		TotalSpots int                  `json:"total_spots"`
	}{true, spots, len(spots)})
}

func (s *Server) handleAddPlace(w http.ResponseWriter, r *http.Request) {
	var spot domain.Spot
	if err := json.NewDecoder(r.Body).Decode(&spot); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON in request body")
		return
	}
	if spot.Name == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_catalog", "name is required")
		return
	}

	added, err := s.engine.AddSpot(spot)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Place   domain.Spot `json:"place"`
	}{true, "place " + strconv.Quote(added.Name) + " added successfully", added})
}

func (s *Server) handleRemovePlace(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", "invalid place id format")
		return
	}

	if err := s.engine.RemoveSpot(id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, "place with id " + strconv.Itoa(id) + " removed successfully"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Version string `json:"version"`
		Spots   int    `json:"spots"`
	}{"healthy", "tripdex", version.Version, s.engine.Index().Total()})
}

// writeDomainError maps sentinels to HTTP statuses; anything unmatched is a
// 500 with the details kept server-side.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, m := range s.mappings {
		if errors.Is(err, m.sentinel) {
			s.writeError(w, m.status, m.code, err.Error())
			return
		}
	}
	logger.FromContext(r.Context()).Error("unhandled error", zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

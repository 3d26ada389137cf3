// Package httpapi exposes the gateway over HTTP: lookup and market routes,
// admin invalidation, health, and metrics.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/isogloss/tarkov-search/internal/admin"
	"github.com/isogloss/tarkov-search/internal/platform/observability"
	"github.com/isogloss/tarkov-search/internal/platform/resilience"
	"github.com/isogloss/tarkov-search/internal/search"
	"github.com/isogloss/tarkov-search/internal/upstream"
)

// adminTokenHeader carries the shared secret for admin operations.
const adminTokenHeader = "X-Admin-Token"

// Server wires the domain service, admin controller, and rate limiter
// into an http.Handler.
type Server struct {
	service *search.Service
	admin   *admin.Controller
	limiter *resilience.ClientLimiter
	logger  *observability.Logger
	metrics *observability.Metrics
	tracer  *observability.TracerProvider
}

// ServerConfig holds server dependencies.
type ServerConfig struct {
	Service *search.Service
	Admin   *admin.Controller
	Limiter *resilience.ClientLimiter
	Logger  *observability.Logger
	Metrics *observability.Metrics
	Tracer  *observability.TracerProvider
}

// NewServer creates the HTTP server surface.
func NewServer(cfg ServerConfig) *Server {
	return &Server{
		service: cfg.Service,
		admin:   cfg.Admin,
		limiter: cfg.Limiter,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		tracer:  cfg.Tracer,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API routes are rate limited per client identity.
	api := http.NewServeMux()
	api.HandleFunc("GET /api/player/{name}", s.handlePlayer)
	api.HandleFunc("GET /api/item/{id}", s.handleItem)
	api.HandleFunc("GET /api/items", s.handleItems)
	api.HandleFunc("GET /api/bans/{name}", s.handleBanStatus)
	api.HandleFunc("GET /api/stats", s.handleStats)
	api.HandleFunc("GET /api/market/history/{id}", s.handlePriceHistory)
	mux.Handle("/api/", s.rateLimit(api))

	// Admin routes are gated by the shared secret, not the rate limiter.
	mux.HandleFunc("DELETE /admin/cache", s.handleClearAll)
	mux.HandleFunc("DELETE /admin/cache/{key}", s.handleClearKey)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return s.traceRequests(mux)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	player, err := s.service.Player(r.Context(), name)
	if err != nil {
		s.respondServiceError(w, r, "player lookup", err)
		return
	}

	respondData(w, player)
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := s.service.Item(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, "item lookup", err)
		return
	}

	respondData(w, item)
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	items, err := s.service.Items(r.Context(), query, limit, offset)
	if err != nil {
		s.respondServiceError(w, r, "item search", err)
		return
	}

	respondList(w, items, len(items))
}

func (s *Server) handleBanStatus(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	status, err := s.service.BanStatus(r.Context(), name)
	if err != nil {
		s.respondServiceError(w, r, "ban status", err)
		return
	}

	respondData(w, status)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.respondServiceError(w, r, "global stats", err)
		return
	}

	respondData(w, stats)
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	days := queryInt(r, "days", 7)

	history, err := s.service.PriceHistory(r.Context(), id, days)
	if err != nil {
		s.respondServiceError(w, r, "price history", err)
		return
	}

	respondData(w, history)
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	removed, err := s.admin.ClearAll(r.Header.Get(adminTokenHeader))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordAdminInvalidation(r.Context(), "all", removed)
	}
	if s.logger != nil {
		s.logger.LogInfo(r.Context(), "admin cleared cache", "removed", removed)
	}

	respondData(w, map[string]int{"removed": removed})
}

func (s *Server) handleClearKey(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	existed, err := s.admin.ClearKey(r.Header.Get(adminTokenHeader), key)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	removed := 0
	if existed {
		removed = 1
	}
	if s.metrics != nil {
		s.metrics.RecordAdminInvalidation(r.Context(), "key", removed)
	}

	respondData(w, map[string]bool{"existed": existed})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// respondServiceError maps service errors onto the HTTP error taxonomy:
// validation failures are the caller's fault, not-found is a distinct
// outcome, and anything else is a hard upstream failure.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, search.ErrInvalidName),
		errors.Is(err, search.ErrInvalidItemID),
		errors.Is(err, search.ErrInvalidQuery):
		respondError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, upstream.ErrNotFound):
		respondError(w, http.StatusNotFound, fmt.Sprintf("%s: not found", operation))

	default:
		if s.logger != nil {
			s.logger.LogError(r.Context(), "upstream failure", err, "operation", operation)
		}
		if s.metrics != nil {
			s.metrics.RecordError(r.Context(), "upstream")
		}
		respondError(w, http.StatusBadGateway, fmt.Sprintf("%s: upstream unavailable, try again", operation))
	}
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

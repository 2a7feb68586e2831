package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/sessionkeeper/internal/httpapi/middleware"
	"github.com/hamed0406/sessionkeeper/internal/repo"
)

// Server exposes recorded cycles read-only. It never triggers a cycle.
type Server struct {
	Logger *zap.Logger
	Cycles repo.CycleStore
}

func NewServer(l *zap.Logger, cs repo.CycleStore) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Cycles: cs}
}

func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Authorization", "X-API-Key"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireKey(apiKeys))
		r.Get("/api/cycles", s.handleListCycles)
		r.Get("/api/cycles/latest", s.handleLatestCycle)
	})

	return r
}

func (s *Server) handleListCycles(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	cs, err := s.Cycles.List(r.Context(), limit)
	if err != nil {
		s.Logger.Warn("status_list_error", zap.Error(err))
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (s *Server) handleLatestCycle(w http.ResponseWriter, r *http.Request) {
	c, err := s.Cycles.Latest(r.Context())
	if err != nil {
		s.Logger.Warn("status_latest_error", zap.Error(err))
		http.Error(w, "latest error", http.StatusInternalServerError)
		return
	}
	if c == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no cycle yet"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

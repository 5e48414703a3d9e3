package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/web3-frozen/todo-board/internal/metrics"
	"github.com/web3-frozen/todo-board/internal/middleware"
	"github.com/web3-frozen/todo-board/internal/store"
)

// NewRouter wires the todo API together with the health and metrics
// endpoints.
func NewRouter(todos *TodoHandler, s store.Store, logger *slog.Logger, corsOrigin string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(corsOrigin))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := s.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", metrics.Handler())
	r.Mount("/api/todos", todos.Routes())
	return r
}

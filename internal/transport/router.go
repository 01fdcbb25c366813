package transport

import (
	"net/http"

	"dishpatch-be/internal/logger"
	appmw "dishpatch-be/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the middleware chain and mounts the order routes.
func NewRouter(h *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(appmw.CORS)
	r.Use(appmw.RateLimitMiddleware)
	r.Use(logger.LoggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Register(r)
	return r
}

// internal/api/router.go
//
// Root router for cmd/web.
//
// Middleware order
// ----------------
//  1. ForceHTTPS          – optional, redirects before any work is done.
//  2. RequestID           – every later layer can read the id.
//  3. Recover             – panics become a 500 envelope with that id.
//  4. requestinfo.Enrich  – UA and country for the access log.
//  5. AccessLog           – one line and one metrics sample per request.
//  6. CORS, Security      – response headers.
//
// Routes
// ------
//   /healthz   liveness, always 200
//   /readyz    200 once the catalog is loaded, 503 while it cannot load
//   /metrics   Prometheus exposition
//   /api/...   see handlers.go
//   /*         static front end when http.static_dir is set

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ambambokili/kili/internal/catalog"
	"github.com/ambambokili/kili/internal/middleware"
	"github.com/ambambokili/kili/internal/requestinfo"
	"github.com/ambambokili/kili/internal/respond"
)

// RouterOptions mirror the http section of the config.
type RouterOptions struct {
	ForceHTTPS  bool
	CORSOrigins []string
	StaticDir   string
}

// NewRouter assembles middleware, probes, metrics, and the API.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	if opts.ForceHTTPS {
		r.Use(middleware.ForceHTTPS)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover)
	r.Use(requestinfo.Enrich)
	r.Use(middleware.AccessLog)
	r.Use(middleware.CORS(opts.CORSOrigins))
	r.Use(middleware.Security(opts.ForceHTTPS))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", h.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		h.Routes(api)
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			respond.NotFound(w, "NOT_FOUND", "Not found.", middleware.RequestIDFromContext(r.Context()))
		})
	})

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}
	return r
}

// ready reports whether the catalog is (or can now be) loaded.
func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.EnsureLoaded(r.Context()); err != nil {
		respond.Unavailable(w, "CATALOG_UNAVAILABLE", catalog.UserMessage, middleware.RequestIDFromContext(r.Context()))
		return
	}
	snap := h.store.Snapshot()
	respond.JSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"videos":    snap.Len(),
		"loaded_at": snap.LoadedAt(),
	})
}

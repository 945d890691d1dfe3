package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"

	"velar-backend/internal/metrics"
)

// RouterOptions configures the HTTP shell around a Handler.
type RouterOptions struct {
	AllowedOrigins []string
	Metrics        *metrics.Recorder
	// Quiet disables the per-request access log.
	Quiet bool
}

// NewRouter wires middleware, CORS, metrics and compression around h.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Middleware
	if !opts.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match"},
		ExposedHeaders: []string{"ETag", "Content-Disposition"},
		MaxAge:         300,
	}))

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Velar analytics backend is running"))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	h.RegisterRoutes(r)

	return gzhttp.GzipHandler(r)
}

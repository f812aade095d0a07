package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	designerhttp "github.com/meridian-fc/meridian/internal/designer/http"
	documenthttp "github.com/meridian-fc/meridian/internal/document/http"
	"github.com/meridian-fc/meridian/internal/hierarchy"
	reporthttp "github.com/meridian-fc/meridian/internal/report/http"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	HierarchyHandler *hierarchy.Handler
	DesignerHandler  *designerhttp.Handler
	ReportHandler    *reporthttp.Handler
	DocumentHandler  *documenthttp.Handler
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/dimensions", params.HierarchyHandler.Routes)
		r.Route("/documents", params.DocumentHandler.Routes)
		r.Route("/designer", func(r chi.Router) {
			params.DesignerHandler.Routes(r)
			params.ReportHandler.Routes(r)
		})
	})

	return r
}

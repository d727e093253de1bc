package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"banner-editor/internal/http/handlers"
	"banner-editor/internal/infra"
	"banner-editor/internal/middleware"
)

// NewRouter wires the middleware chain and every v1 route. The country
// lookup may be nil when no GeoIP database is configured.
func NewRouter(app *handlers.App, logger infra.Logger, cfg *infra.Config, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
		middleware.I18N(cfg.DefaultLocale, lookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/balance", app.BalanceCheck)

	if cfg.StoragePath != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StoragePath)))
		r.Handle("/static/*", fs)
	}

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", app.SessionOpen)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.SessionGet)
			r.Delete("/", app.SessionClose)
			r.Get("/export", app.SessionExport)

			r.Post("/zoom", app.Zoom)
			r.Post("/drag", app.SelectionDrag)
			r.Delete("/selections", app.SelectionClear)
			r.Delete("/selections/{rect}", app.SelectionRemove)

			r.Post("/edits", app.EditExecute)
			r.Post("/undo", app.Undo)
			r.Post("/text-fix", app.TextFix)

			r.Post("/variations", app.VariationStart)
			r.Get("/variations", app.VariationStatus)
			r.Post("/variations/{idx}/retry", app.VariationRetry)
			r.Post("/variations/{idx}/adopt", app.VariationAdopt)

			r.Put("/regions", app.RegionsPut)
			r.Post("/regions/hit", app.RegionHit)
			r.Post("/regions/drag", app.RegionDrag)
			r.Post("/regions/save", app.RegionsSave)
		})
	})

	return r
}

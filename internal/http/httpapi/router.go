package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// NewRouter wires the HTTP surface. Identity resolution happens in
// middleware; handlers only see the resolved actor.
func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.I18N("pt", lookup),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	// Public catalog
	r.Get("/materials", app.MaterialsList)

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.AuthJWT(cfg.JWTSecret),
			middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
		)

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", app.SchedulesList)
			r.Post("/", app.SchedulesCreate)
			r.Get("/me", app.SchedulesMine)
			r.Get("/my-collections", app.SchedulesMyCollections)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/claim", app.SchedulesClaim)
				r.Post("/transition", app.SchedulesTransition)
				r.Post("/location", app.SchedulesLocationCreate)
				r.Get("/track", app.SchedulesTrack)
			})
		})
	})

	return r
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bicisena/bicisena-backend/api/controllers"
	"github.com/bicisena/bicisena-backend/api/middleware"
	"github.com/bicisena/bicisena-backend/internal/movements"
	"github.com/bicisena/bicisena-backend/internal/riders"
	"github.com/bicisena/bicisena-backend/pkg/config"
	"github.com/bicisena/bicisena-backend/pkg/db"
	"github.com/bicisena/bicisena-backend/pkg/logger"
	"github.com/bicisena/bicisena-backend/pkg/metrics"
)

// Params collects everything the router wires into handlers.
type Params struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Riders      riders.Service
	Movements   movements.Service
	HTTPMetrics *metrics.HTTPMetrics
	// Gatherer backs the metrics endpoint; nil disables it.
	Gatherer prometheus.Gatherer
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	r.Get("/", controllers.Root())

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB))
	})

	if cfg.Metrics.Enabled && p.Gatherer != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/usuario", func(r chi.Router) {
			r.Post("/registrar", controllers.RiderRegister(p.Riders, cfg.Media, logg))
			r.Post("/login", controllers.RiderLogin(p.Riders, logg))
			r.Get("/qr/{codigo}", controllers.RiderScan(p.Riders, logg))
		})

		r.Route("/registro/{codigo}", func(r chi.Router) {
			r.Get("/", controllers.MovementHistory(p.Movements, logg))
			r.Post("/{accion}", controllers.MovementRecord(p.Movements, logg))
		})
	})

	return r
}

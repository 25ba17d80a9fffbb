package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinistock/backend/api/controllers"
	"github.com/clinistock/backend/api/middleware"
	"github.com/clinistock/backend/internal/analytics"
	"github.com/clinistock/backend/internal/auth"
	"github.com/clinistock/backend/internal/clinics"
	"github.com/clinistock/backend/internal/medicines"
	"github.com/clinistock/backend/internal/sales"
	"github.com/clinistock/backend/internal/settings"
	"github.com/clinistock/backend/internal/transfers"
	"github.com/clinistock/backend/pkg/auth/session"
	"github.com/clinistock/backend/pkg/config"
	"github.com/clinistock/backend/pkg/logger"
	"github.com/clinistock/backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth      auth.Service
	Register  auth.RegisterService
	Medicines medicines.Service
	Sales     sales.Service
	Transfers transfers.Service
	Analytics analytics.Service
	Clinics   clinics.Service
	Settings  settings.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessionVerifier session.AccessSessionChecker,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(svcs.Auth, logg))
		r.Post("/refresh", controllers.Refresh(svcs.Auth, logg))
		r.Post("/logout", controllers.Logout(svcs.Auth, logg))
		r.With(
			middleware.Auth(cfg.JWT, sessionVerifier, logg),
			middleware.RequireAdmin(logg),
		).Post("/register", controllers.Register(svcs.Register, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionVerifier, logg))

		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", controllers.ListMedicines(svcs.Medicines, logg))
			r.Post("/", controllers.CreateMedicine(svcs.Medicines, logg))
			r.Get("/{id}", controllers.GetMedicine(svcs.Medicines, logg))
			r.Put("/{id}", controllers.UpdateMedicine(svcs.Medicines, logg))
			r.Delete("/{id}", controllers.DeleteMedicine(svcs.Medicines, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.ListSales(svcs.Sales, logg))
			r.Post("/", controllers.RecordSale(svcs.Sales, logg))
			r.Get("/today", controllers.SalesToday(svcs.Sales, logg))
			r.Get("/by-date", controllers.SalesByDate(svcs.Sales, logg))
			r.Get("/by-month", controllers.SalesByMonth(svcs.Sales, logg))
			r.Put("/{id}", controllers.EditSale(svcs.Sales, logg))
			r.Delete("/{id}", controllers.DeleteSale(svcs.Sales, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/", controllers.AnalyticsRange(svcs.Analytics, logg))
			r.Get("/monthly", controllers.AnalyticsMonthly(svcs.Analytics, logg))
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", controllers.CreateTransfer(svcs.Transfers, logg))
			r.Get("/history", controllers.TransferHistory(svcs.Transfers, logg))
			r.With(middleware.RequireAdmin(logg)).Put("/{id}", controllers.UpdateTransfer(svcs.Transfers, logg))
			r.With(middleware.RequireAdmin(logg)).Delete("/{id}", controllers.DeleteTransfer(svcs.Transfers, logg))
		})

		r.Get("/clinics", controllers.ListClinics(svcs.Clinics, logg))

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.GetSettings(svcs.Settings, logg))
			r.With(middleware.RequireAdmin(logg)).Put("/", controllers.UpdateSettings(svcs.Settings, logg))
		})
	})

	return r
}

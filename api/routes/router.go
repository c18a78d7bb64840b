package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/basabecode/tupijama.com-sub001/api/controllers"
	"github.com/basabecode/tupijama.com-sub001/api/middleware"
	"github.com/basabecode/tupijama.com-sub001/pkg/auth/session"
	"github.com/basabecode/tupijama.com-sub001/pkg/config"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
	"github.com/basabecode/tupijama.com-sub001/pkg/metrics"
)

// Deps bundles everything the router needs. MetricsHandler is optional;
// when nil the /metrics endpoint is not mounted.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.AccessSessionChecker
	Metrics  *metrics.HTTPMetrics

	Health   *controllers.HealthController
	Auth     *controllers.AuthController
	Orders   *controllers.OrdersController
	Products *controllers.ProductsController
	Storage  *controllers.StorageController
	Pages    *controllers.PagesController
}

// New wires the middleware stack and every route group.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.CORS(deps.Config.CORS))

	r.Get("/health/live", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	requireAuth := middleware.Auth(deps.Config.JWT, deps.Sessions, deps.Logger)
	requireAdmin := middleware.RequireAdmin(deps.Logger)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", deps.Auth.Login)
			auth.Post("/refresh", deps.Auth.Refresh)
			auth.With(requireAuth).Post("/logout", deps.Auth.Logout)
		})

		api.Route("/products", func(products chi.Router) {
			products.Get("/", deps.Products.List)
			products.Get("/{productID}", deps.Products.Detail)
			products.With(requireAuth, requireAdmin).Post("/", deps.Products.Create)
			products.With(requireAuth, requireAdmin).Patch("/{productID}", deps.Products.Update)
		})

		api.Route("/orders", func(orders chi.Router) {
			orders.Use(requireAuth)
			orders.Get("/", deps.Orders.List)
			orders.Get("/{orderID}", deps.Orders.Detail)
			orders.Post("/", deps.Orders.Create)
		})

		api.Route("/storage", func(storage chi.Router) {
			storage.Use(requireAuth, requireAdmin)
			storage.Post("/init", deps.Storage.Init)
			storage.Post("/upload", deps.Storage.Upload)
		})
	})

	r.Get("/login", deps.Pages.Login)
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(middleware.AdminPage(deps.Config.JWT, deps.Logger))
		admin.Get("/", deps.Pages.AdminDashboard)
	})

	return r
}

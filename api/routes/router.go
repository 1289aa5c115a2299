package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rlmonteiro/essencia-backend/api/controllers"
	"github.com/rlmonteiro/essencia-backend/api/middleware"
	authsvc "github.com/rlmonteiro/essencia-backend/internal/auth"
	cartsvc "github.com/rlmonteiro/essencia-backend/internal/cart"
	catalogsvc "github.com/rlmonteiro/essencia-backend/internal/catalog"
	checkoutsvc "github.com/rlmonteiro/essencia-backend/internal/checkout"
	searchsvc "github.com/rlmonteiro/essencia-backend/internal/search"
	"github.com/rlmonteiro/essencia-backend/pkg/config"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
	"github.com/rlmonteiro/essencia-backend/pkg/metrics"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	DB    controllers.Pinger
	Redis controllers.Pinger

	Catalog  catalogsvc.Service
	Search   searchsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Auth     authsvc.Service

	MetricsRegistry *prometheus.Registry
	HTTPMetrics     *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/courses", controllers.ListCourses(deps.Catalog, logg))
		r.Get("/courses/{courseId}", controllers.GetCourse(deps.Catalog, logg))
		r.Get("/products", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/products/{productId}", controllers.GetProduct(deps.Catalog, logg))
		r.Get("/publications", controllers.ListPublications(deps.Catalog, logg))
		r.Get("/publications/{publicationId}", controllers.GetPublication(deps.Catalog, logg))

		r.Get("/search", controllers.Search(deps.Search, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, logg))
				r.Delete("/", controllers.ClearCart(deps.Cart, logg))
				r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
				r.Patch("/items/{itemId}", controllers.UpdateCartItem(deps.Cart, logg))
				r.Delete("/items/{itemId}", controllers.RemoveCartItem(deps.Cart, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutState(deps.Checkout, logg))
				r.Post("/begin", controllers.CheckoutBegin(deps.Checkout, logg))
				r.Post("/address", controllers.CheckoutAddress(deps.Checkout, logg))
				r.Post("/payment", controllers.CheckoutPayment(deps.Checkout, logg))
				r.Post("/back", controllers.CheckoutBack(deps.Checkout, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminAuthLogin(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.JWT, logg))

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", controllers.AdminListCourses(deps.Catalog, logg))
				r.Post("/", controllers.AdminCreateCourse(deps.Catalog, logg))
				r.Patch("/{courseId}", controllers.AdminUpdateCourse(deps.Catalog, logg))
				r.Delete("/{courseId}", controllers.AdminDeleteCourse(deps.Catalog, logg))
			})
			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(deps.Catalog, logg))
				r.Post("/", controllers.AdminCreateProduct(deps.Catalog, logg))
				r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.Catalog, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.Catalog, logg))
			})
			r.Route("/publications", func(r chi.Router) {
				r.Get("/", controllers.AdminListPublications(deps.Catalog, logg))
				r.Post("/", controllers.AdminCreatePublication(deps.Catalog, logg))
				r.Patch("/{publicationId}", controllers.AdminUpdatePublication(deps.Catalog, logg))
				r.Delete("/{publicationId}", controllers.AdminDeletePublication(deps.Catalog, logg))
			})
		})
	})

	return r
}

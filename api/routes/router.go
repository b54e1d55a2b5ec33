package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropshoplabs/dropshop-backend/api/controllers"
	"github.com/dropshoplabs/dropshop-backend/api/middleware"
	authsvc "github.com/dropshoplabs/dropshop-backend/internal/auth"
	cartsvc "github.com/dropshoplabs/dropshop-backend/internal/cart"
	checkoutsvc "github.com/dropshoplabs/dropshop-backend/internal/checkout"
	ordersvc "github.com/dropshoplabs/dropshop-backend/internal/orders"
	productsvc "github.com/dropshoplabs/dropshop-backend/internal/products"
	"github.com/dropshoplabs/dropshop-backend/pkg/config"
	"github.com/dropshoplabs/dropshop-backend/pkg/db"
	"github.com/dropshoplabs/dropshop-backend/pkg/logger"
	"github.com/dropshoplabs/dropshop-backend/pkg/redis"
	"github.com/dropshoplabs/dropshop-backend/pkg/storage/gcs"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     *redis.Client
	GCS       gcs.Pinger
	Registry  *prometheus.Registry
	Auth      authsvc.Service
	Products  productsvc.Service
	Cart      cartsvc.Service
	Checkout  checkoutsvc.Service
	Orders    ordersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.GCS))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/me", controllers.AuthMe(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(logg))
		})
	})

	// Storefront browsing and the cart are anonymous; the cart is keyed by
	// the X-Session-Id header.
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg))
			r.Get("/categories", controllers.ProductCategories(deps.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Products, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, deps.Products, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateItem(deps.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
				r.Delete("/", controllers.CartClear(deps.Cart, logg))
			})

			r.Get("/checkout/quote", controllers.CheckoutQuote(deps.Checkout, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			// Tracking is anonymous; the random order number is the
			// lookup capability.
			r.Get("/track/{orderNumber}", controllers.OrderTrack(deps.Orders, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Get("/", controllers.OrderList(deps.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Get("/dashboard", controllers.AdminDashboard(deps.Orders, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(deps.Orders, logg))
			r.Put("/{orderId}/status", controllers.AdminOrderSetStatus(deps.Orders, logg))
			r.Post("/{orderId}/status/advance", controllers.AdminOrderAdvanceStatus(deps.Orders, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(deps.Products, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(deps.Products, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(deps.Products, logg))
			r.Post("/{productId}/images", controllers.AdminProductUploadImage(deps.Products, cfg.Media, logg))
			r.Delete("/{productId}/images", controllers.AdminProductDeleteImage(deps.Products, logg))
		})
	})

	return r
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/onix-commerce/onix-backend/api/controllers"
	cartcontrollers "github.com/onix-commerce/onix-backend/api/controllers/cart"
	ordercontrollers "github.com/onix-commerce/onix-backend/api/controllers/orders"
	webhookcontrollers "github.com/onix-commerce/onix-backend/api/controllers/webhooks"
	"github.com/onix-commerce/onix-backend/api/middleware"
	"github.com/onix-commerce/onix-backend/api/responses"
	"github.com/onix-commerce/onix-backend/internal/auth"
	"github.com/onix-commerce/onix-backend/internal/cart"
	"github.com/onix-commerce/onix-backend/internal/categories"
	"github.com/onix-commerce/onix-backend/internal/checkout"
	"github.com/onix-commerce/onix-backend/internal/orders"
	"github.com/onix-commerce/onix-backend/internal/payments"
	product "github.com/onix-commerce/onix-backend/internal/products"
	"github.com/onix-commerce/onix-backend/internal/users"
	stripewebhook "github.com/onix-commerce/onix-backend/internal/webhooks/stripe"
	"github.com/onix-commerce/onix-backend/pkg/auth/session"
	"github.com/onix-commerce/onix-backend/pkg/config"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	"github.com/onix-commerce/onix-backend/pkg/logger"
	"github.com/onix-commerce/onix-backend/pkg/metrics"
	"github.com/onix-commerce/onix-backend/pkg/redis"
	"github.com/onix-commerce/onix-backend/pkg/stripe"
)

// Dependencies collects everything the router hands to middleware and controllers.
type Dependencies struct {
	DB    controllers.Pinger
	Redis *redis.Client

	Sessions session.AccessSessionChecker
	Users    middleware.UserLookup

	Auth       auth.Service
	Profile    users.Service
	Categories categories.Service
	Products   product.Service
	Cart       cart.Service
	Checkout   checkout.Service
	Payments   payments.Service
	Orders     orders.Service

	Stripe           *stripe.Client
	StripeWebhook    *stripewebhook.Service
	StripeEventDedup *stripewebhook.EventDedup

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg, deps.HTTPMetrics),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.SecureHeaders(cfg.FeatureFlags.SecureHeaders, cfg.App.IsProd()),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window, logg),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "endpoint not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeMethod, "method not allowed"))
	})

	r.Get("/health/live", controllers.HealthLive())
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	authenticate := middleware.Auth(cfg.JWT, deps.Sessions, deps.Users, logg)
	idempotent := middleware.Idempotency(deps.Redis, middleware.IdempotencyRules(cfg.Checkout.IdempotencyTTL), logg)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", controllers.Health(deps.DB, redisPinger(deps.Redis), logg))

		r.With(middleware.AuthRateLimit(middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit), deps.Redis, logg)).
			Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(middleware.LoginRateLimitPolicy(cfg.AuthRateLimit), deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))

		r.Post("/webhooks/stripe", webhookcontrollers.StripeWebhook(deps.StripeWebhook, deps.Stripe, deps.StripeEventDedup, logg))

		r.Get("/categories", controllers.CategoriesList(deps.Categories, logg))
		r.Get("/categories/tree", controllers.CategoriesTree(deps.Categories, logg))
		r.Get("/products", controllers.ProductsList(deps.Products, logg))
		r.Get("/products/{id}", controllers.ProductGet(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))

			r.Get("/profile", controllers.ProfileGet(deps.Profile, logg))
			r.Put("/profile", controllers.ProfileUpdate(deps.Profile, logg))
			r.Delete("/profile", controllers.ProfileDelete(deps.Profile, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(deps.Cart, logg))
				r.Post("/", cartcontrollers.CartAdd(deps.Cart, logg))
				r.Delete("/clear", cartcontrollers.CartClear(deps.Cart, logg))
				r.Put("/{id}", cartcontrollers.CartUpdate(deps.Cart, logg))
				r.Delete("/{id}", cartcontrollers.CartRemove(deps.Cart, logg))
			})

			r.With(idempotent).Post("/create-payment-intent", controllers.CreatePaymentIntent(deps.Payments, logg))
			r.With(idempotent).Post("/confirm-payment", controllers.ConfirmPayment(deps.Checkout, logg))

			r.Get("/orders", ordercontrollers.List(deps.Orders, logg))
			r.Get("/orders/{id}", ordercontrollers.Detail(deps.Orders, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(cfg.FeatureFlags.EnforceAdminRole, logg))
				r.Post("/products", controllers.AdminProductCreate(deps.Products, logg))
				r.Put("/products/{id}", controllers.AdminProductUpdate(deps.Products, logg))
				r.Delete("/products/{id}", controllers.AdminProductDelete(deps.Products, logg))
			})
		})
	})

	return r
}

// redisPinger keeps a nil client from turning into a non-nil interface.
func redisPinger(c *redis.Client) controllers.Pinger {
	if c == nil {
		return nil
	}
	return c
}

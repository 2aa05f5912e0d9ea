package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/onix-commerce/onix-backend/api/routes"
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
	"github.com/onix-commerce/onix-backend/pkg/db"
	"github.com/onix-commerce/onix-backend/pkg/logger"
	"github.com/onix-commerce/onix-backend/pkg/metrics"
	"github.com/onix-commerce/onix-backend/pkg/redis"
	"github.com/onix-commerce/onix-backend/pkg/stripe"
)

const stripeEventScope = "stripe-webhook"

// Infra holds the long-lived clients opened by cmd/api.
type Infra struct {
	DB     *db.Client
	Redis  *redis.Client
	Stripe *stripe.Client // nil when Stripe is not configured
	// PaymentIntents overrides the client derived from Stripe.
	PaymentIntents stripe.PaymentIntentClient
	// Registry defaults to a fresh registry with Go and process collectors.
	Registry *prometheus.Registry
	Now      func() time.Time
}

// NewHandler builds repositories and services on top of infra and returns
// the routed HTTP handler.
func NewHandler(cfg *config.Config, infra Infra, logg *logger.Logger) (http.Handler, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if infra.DB == nil {
		return nil, errors.New("database client is required")
	}
	if infra.Redis == nil {
		return nil, errors.New("redis client is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	registry := infra.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	conn := infra.DB.DB()
	usersRepo := users.NewRepository(conn)
	categoriesRepo := categories.NewRepository(conn)
	productsRepo := product.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)

	sessions, err := session.NewManager(infra.Redis, cfg.JWT)
	if err != nil {
		return nil, err
	}

	authSvc, err := auth.NewService(auth.ServiceParams{
		Users:          usersRepo,
		Tx:             infra.DB,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Now:            infra.Now,
	})
	if err != nil {
		return nil, err
	}
	profileSvc, err := users.NewService(users.ServiceParams{Repo: usersRepo, Tx: infra.DB, Sessions: sessions})
	if err != nil {
		return nil, err
	}
	categoriesSvc, err := categories.NewService(categoriesRepo)
	if err != nil {
		return nil, err
	}
	productsSvc, err := product.NewService(product.ServiceParams{
		Repo:       productsRepo,
		Tx:         infra.DB,
		Categories: categoriesRepo,
		Resolver:   categoriesSvc,
	})
	if err != nil {
		return nil, err
	}
	cartSvc, err := cart.NewService(cart.ServiceParams{Repo: cartRepo, Products: productsRepo, Tx: infra.DB})
	if err != nil {
		return nil, err
	}
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Tx:      infra.DB,
		Cart:    cartRepo,
		Orders:  ordersRepo,
		Metrics: metrics.NewCheckoutMetrics(registry),
		Config:  cfg.Checkout,
		Now:     infra.Now,
	})
	if err != nil {
		return nil, err
	}

	intents := infra.PaymentIntents
	if intents == nil {
		intents = stripe.NewPaymentIntentClient(infra.Stripe)
	}
	paymentsSvc, err := payments.NewService(payments.ServiceParams{
		Cart:     cartRepo,
		Users:    usersRepo,
		Stripe:   intents,
		Currency: cfg.Stripe.Currency,
	})
	if err != nil {
		return nil, err
	}
	ordersSvc, err := orders.NewService(ordersRepo)
	if err != nil {
		return nil, err
	}

	webhookSvc, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Orders:            ordersRepo,
		TransactionRunner: infra.DB,
		Logger:            logg,
	})
	if err != nil {
		return nil, err
	}
	dedup, err := stripewebhook.NewEventDedup(infra.Redis, cfg.Checkout.WebhookDedupTTL, stripeEventScope)
	if err != nil {
		return nil, err
	}

	return routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:               infra.DB,
		Redis:            infra.Redis,
		Sessions:         sessions,
		Users:            usersRepo,
		Auth:             authSvc,
		Profile:          profileSvc,
		Categories:       categoriesSvc,
		Products:         productsSvc,
		Cart:             cartSvc,
		Checkout:         checkoutSvc,
		Payments:         paymentsSvc,
		Orders:           ordersSvc,
		Stripe:           infra.Stripe,
		StripeWebhook:    webhookSvc,
		StripeEventDedup: dedup,
		HTTPMetrics:      metrics.NewHTTPMetrics(registry),
		Gatherer:         registry,
	}), nil
}

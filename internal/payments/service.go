package payments

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/onix-commerce/onix-backend/internal/cart"
	"github.com/onix-commerce/onix-backend/pkg/db/models"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	pkgstripe "github.com/onix-commerce/onix-backend/pkg/stripe"
	"github.com/onix-commerce/onix-backend/pkg/types"
)

const (
	msgCartEmpty           = "cart is empty"
	msgProviderUnavailable = "payment provider unavailable"
	defaultCurrency        = "eur"
)

// IntentResult is handed to the storefront to finish payment client-side.
// Amount is in major units (euros) and always equals AmountMinor / 100.
type IntentResult struct {
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
	AmountMinor  int64   `json:"amount_minor"`
	Currency     string  `json:"currency"`
}

// Service creates Stripe payment intents for the caller's cart.
type Service interface {
	CreateIntent(ctx context.Context, userID uuid.UUID) (*IntentResult, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type cartLoader interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
}

type ServiceParams struct {
	Cart     cartLoader
	Users    userLookup
	Stripe   pkgstripe.PaymentIntentClient
	Currency string
}

type service struct {
	cart     cartLoader
	users    userLookup
	stripe   pkgstripe.PaymentIntentClient
	currency string
}

// NewService accepts a nil Stripe client; intents then fail as a dependency
// error.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repository required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user lookup required")
	}
	currency := strings.ToLower(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	return &service{cart: params.Cart, users: params.Users, stripe: params.Stripe, currency: currency}, nil
}

func (s *service) CreateIntent(ctx context.Context, userID uuid.UUID) (*IntentResult, error) {
	items, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgCartEmpty)
	}
	amount := types.MinorUnits(cart.Total(items))
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart total must be positive")
	}
	if s.stripe == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, msgProviderUnavailable)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	intent, err := s.stripe.CreatePaymentIntent(ctx, pkgstripe.PaymentIntentRequest{
		AmountMinor: amount,
		Currency:    s.currency,
		Metadata: map[string]string{
			"user_id":    userID.String(),
			"user_email": user.Email,
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgProviderUnavailable)
	}
	return &IntentResult{
		ClientSecret: intent.ClientSecret,
		Amount:       types.Money(decimal.New(amount, -2)),
		AmountMinor:  amount,
		Currency:     s.currency,
	}, nil
}

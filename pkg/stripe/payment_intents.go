package stripe

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"
)

// PaymentIntentRequest describes a card payment for the caller's cart.
type PaymentIntentRequest struct {
	AmountMinor int64
	Currency    string
	Metadata    map[string]string
}

// PaymentIntentClient is the subset of Stripe used by the payments service.
type PaymentIntentClient interface {
	CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*stripe.PaymentIntent, error)
}

type paymentIntentWrapper struct{}

// NewPaymentIntentClient returns nil when Stripe is not configured so callers
// can report the dependency as unavailable.
func NewPaymentIntentClient(api *Client) PaymentIntentClient {
	if api == nil {
		return nil
	}
	return &paymentIntentWrapper{}
}

func (w *paymentIntentWrapper) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*stripe.PaymentIntent, error) {
	params, err := BuildPaymentIntentParams(req)
	if err != nil {
		return nil, err
	}
	params.Context = ctx
	return paymentintent.New(params)
}

// BuildPaymentIntentParams maps a request onto Stripe params with automatic
// payment methods enabled.
func BuildPaymentIntentParams(req PaymentIntentRequest) (*stripe.PaymentIntentParams, error) {
	if req.AmountMinor <= 0 {
		return nil, errors.New("payment intent amount must be positive")
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		return nil, errors.New("payment intent currency is required")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	return params, nil
}

package stripe

import (
	"context"
	"testing"

	"github.com/onix-commerce/onix-backend/pkg/config"
)

func TestNewClientValidatesKeyForEnvironment(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     config.StripeConfig
		wantErr bool
	}{
		{name: "test key", cfg: config.StripeConfig{APIKey: "sk_test_abc", Env: "test"}},
		{name: "restricted live key", cfg: config.StripeConfig{APIKey: "rk_live_abc", Env: "live"}},
		{name: "missing key", cfg: config.StripeConfig{Env: "test"}, wantErr: true},
		{name: "live key in test", cfg: config.StripeConfig{APIKey: "sk_live_abc", Env: "test"}, wantErr: true},
		{name: "unknown env", cfg: config.StripeConfig{APIKey: "sk_test_abc", Env: "staging"}, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tc.cfg, nil)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.API() == nil {
				t.Fatal("expected api client")
			}
		})
	}
}

func TestClientAccessorsNilSafe(t *testing.T) {
	t.Parallel()

	var c *Client
	if c.API() != nil || c.Environment() != "" || c.SigningSecret() != "" {
		t.Fatal("nil client accessors should return zero values")
	}
}

func TestBuildPaymentIntentParams(t *testing.T) {
	t.Parallel()

	params, err := BuildPaymentIntentParams(PaymentIntentRequest{
		AmountMinor: 4599,
		Currency:    " EUR ",
		Metadata:    map[string]string{"user_id": "u-1", "user_email": "ana@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *params.Amount != 4599 || *params.Currency != "eur" {
		t.Fatalf("unexpected amount/currency %d %s", *params.Amount, *params.Currency)
	}
	if params.AutomaticPaymentMethods == nil || !*params.AutomaticPaymentMethods.Enabled {
		t.Fatal("expected automatic payment methods enabled")
	}
	if params.Metadata["user_email"] != "ana@example.com" {
		t.Fatalf("metadata not set: %v", params.Metadata)
	}

	if _, err := BuildPaymentIntentParams(PaymentIntentRequest{AmountMinor: 0, Currency: "eur"}); err == nil {
		t.Fatal("expected zero amount to be rejected")
	}
	if _, err := BuildPaymentIntentParams(PaymentIntentRequest{AmountMinor: 10}); err == nil {
		t.Fatal("expected missing currency to be rejected")
	}
}

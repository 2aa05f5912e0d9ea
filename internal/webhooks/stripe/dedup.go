package stripewebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onix-commerce/onix-backend/pkg/redis"
)

// EventDedup remembers delivered Stripe event IDs so retries are applied once.
type EventDedup struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

func NewEventDedup(store redis.IdempotencyStore, ttl time.Duration, scope string) (*EventDedup, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &EventDedup{store: store, ttl: ttl, scope: scope}, nil
}

// CheckAndMark claims eventID and reports whether it had been claimed before.
func (d *EventDedup) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	claimed, err := d.store.SetNX(ctx, d.store.IdempotencyKey(d.scope, eventID), time.Now().UTC().Format(time.RFC3339), d.ttl)
	if err != nil {
		return false, fmt.Errorf("claim stripe event: %w", err)
	}
	return !claimed, nil
}

// Release forgets eventID so a failed delivery can be retried.
func (d *EventDedup) Release(ctx context.Context, eventID string) error {
	if eventID == "" {
		return errors.New("event id is required")
	}
	return d.store.Del(ctx, d.store.IdempotencyKey(d.scope, eventID))
}

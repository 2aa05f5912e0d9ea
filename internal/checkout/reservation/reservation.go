// Package reservation takes stock for checkout lines inside the caller's
// transaction.
package reservation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/onix-commerce/onix-backend/internal/products"
)

const (
	ReasonInvalidQty   = "invalid quantity"
	ReasonInsufficient = "insufficient stock"
)

// Request asks for Qty units of a product, or of a variant when VariantID is set.
type Request struct {
	CartItemID uuid.UUID
	ProductID  uuid.UUID
	VariantID  *uuid.UUID
	Qty        int
}

// Result reports the outcome for the request at the same index.
type Result struct {
	CartItemID uuid.UUID
	ProductID  uuid.UUID
	Reserved   bool
	Reason     string
}

// ReserveStock decrements stock for every request with a conditional update,
// so two concurrent checkouts cannot both take the last unit. Requests that
// cannot be served are reported with a reason rather than an error; the
// caller decides whether to roll back.
func ReserveStock(ctx context.Context, tx *gorm.DB, requests []Request) ([]Result, error) {
	repo := product.NewRepository(tx)
	results := make([]Result, len(requests))
	for i, req := range requests {
		results[i] = Result{CartItemID: req.CartItemID, ProductID: req.ProductID}
		if req.Qty <= 0 {
			results[i].Reason = ReasonInvalidQty
			continue
		}

		var err error
		if req.VariantID != nil {
			err = repo.DecrementVariantStock(ctx, *req.VariantID, req.Qty)
		} else {
			err = repo.DecrementStock(ctx, req.ProductID, req.Qty)
		}
		switch {
		case errors.Is(err, product.ErrStockUnavailable):
			results[i].Reason = ReasonInsufficient
		case err != nil:
			return nil, err
		default:
			results[i].Reserved = true
		}
	}
	return results, nil
}

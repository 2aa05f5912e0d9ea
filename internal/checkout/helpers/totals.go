package helpers

import (
	"github.com/shopspring/decimal"

	"github.com/onix-commerce/onix-backend/pkg/db/models"
)

// OrderTotals holds the money columns of a new order.
type OrderTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals sums the captured line prices. Tax, shipping and discount are
// not charged yet.
func ComputeTotals(items []models.CartItem) OrderTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal())
	}
	subtotal = subtotal.Round(2)
	return OrderTotals{
		Subtotal: subtotal,
		Tax:      decimal.Zero,
		Shipping: decimal.Zero,
		Discount: decimal.Zero,
		Total:    subtotal,
	}
}

// Snapshot freezes the product description for an order line.
func Snapshot(item models.CartItem) models.ProductSnapshot {
	snap := models.ProductSnapshot{Price: item.Price}
	if p := item.Product; p != nil {
		snap.Name = p.Name
		snap.SKU = p.SKU
		if p.Description != nil {
			snap.Description = *p.Description
		}
		if p.ShortDescription != nil {
			snap.ShortDescription = *p.ShortDescription
		}
		if p.ImageURL != nil {
			snap.ImageURL = *p.ImageURL
		}
	}
	if v := item.Variant; v != nil {
		snap.VariantName = v.Name
		if v.SKU != "" {
			snap.SKU = v.SKU
		}
	}
	return snap
}

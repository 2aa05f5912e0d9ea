package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/onix-commerce/onix-backend/pkg/db/models"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
)

const orderNumberPrefix = "ORD-"

// InsufficientStock is the error returned for a line that cannot be served.
func InsufficientStock(productName string) error {
	return pkgerrors.New(pkgerrors.CodeOutOfStock, "insufficient stock for "+productName)
}

// ValidateStock checks every line against the stock loaded with the cart.
func ValidateStock(items []models.CartItem) error {
	for _, item := range items {
		if item.Product == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if item.Variant != nil {
			if item.Variant.StockQuantity < item.Quantity {
				return InsufficientStock(LineName(item))
			}
			continue
		}
		if !item.Product.HasStockFor(item.Quantity) {
			return InsufficientStock(LineName(item))
		}
	}
	return nil
}

// LineName is the product name shown in stock errors.
func LineName(item models.CartItem) string {
	if item.Product == nil {
		return item.ProductID.String()
	}
	if item.Variant != nil {
		return item.Product.Name + " (" + item.Variant.Name + ")"
	}
	return item.Product.Name
}

// NewOrderNumber builds ORD-YYYYMMDD-XXXXXXXX with eight random hex digits.
func NewOrderNumber(now time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return orderNumberPrefix + now.UTC().Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

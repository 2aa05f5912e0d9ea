package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	product "github.com/onix-commerce/onix-backend/internal/products"
	"github.com/onix-commerce/onix-backend/pkg/db/models"
	"github.com/onix-commerce/onix-backend/pkg/types"
)

// ItemDTO is one cart line as returned to the shopper.
type ItemDTO struct {
	ID               uuid.UUID           `json:"id"`
	UserID           uuid.UUID           `json:"user_id"`
	ProductID        uuid.UUID           `json:"product_id"`
	ProductVariantID *uuid.UUID          `json:"product_variant_id"`
	Product          *product.ProductDTO `json:"product"`
	Variant          *product.VariantDTO `json:"variant,omitempty"`
	Quantity         int                 `json:"quantity"`
	Price            float64             `json:"price"`
	Subtotal         float64             `json:"subtotal"`
	CreatedAt        time.Time           `json:"created_at"`
}

// CartDTO is the GET /cart payload. Count is the number of lines.
type CartDTO struct {
	Items []ItemDTO `json:"items"`
	Total float64   `json:"total"`
	Count int       `json:"count"`
}

func NewItemDTO(item *models.CartItem) ItemDTO {
	dto := ItemDTO{
		ID:               item.ID,
		UserID:           item.UserID,
		ProductID:        item.ProductID,
		ProductVariantID: item.ProductVariantID,
		Product:          product.NewProductDTO(item.Product),
		Quantity:         item.Quantity,
		Price:            types.Money(item.Price),
		Subtotal:         types.Money(item.Subtotal()),
		CreatedAt:        item.CreatedAt,
	}
	if item.Variant != nil && item.Product != nil {
		v := product.NewVariantDTO(*item.Variant, item.Product.Price)
		dto.Variant = &v
	}
	return dto
}

func NewCartDTO(items []models.CartItem) *CartDTO {
	out := &CartDTO{Items: make([]ItemDTO, 0, len(items)), Count: len(items)}
	for i := range items {
		out.Items = append(out.Items, NewItemDTO(&items[i]))
	}
	out.Total = types.Money(Total(items))
	return out
}

// Total sums price times quantity over all lines.
func Total(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/onix-commerce/onix-backend/pkg/db/models"
	"github.com/onix-commerce/onix-backend/pkg/enums"
	"github.com/onix-commerce/onix-backend/pkg/types"
)

// OrderDTO keeps the storefront's key names for money and lines
// (tax_amount, total_amount, order_items).
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	UserID          uuid.UUID           `json:"user_id"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"payment_status"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	PaymentIntentID *string             `json:"payment_intent_id"`
	Subtotal        float64             `json:"subtotal"`
	Tax             float64             `json:"tax_amount"`
	Shipping        float64             `json:"shipping_amount"`
	Discount        float64             `json:"discount_amount"`
	Total           float64             `json:"total_amount"`
	ShippingAddress types.Address       `json:"shipping_address"`
	BillingAddress  types.Address       `json:"billing_address"`
	Notes           *string             `json:"notes"`
	TrackingNumber  *string             `json:"tracking_number"`
	ShippedAt       *time.Time          `json:"shipped_at"`
	DeliveredAt     *time.Time          `json:"delivered_at"`
	Items           []OrderItemDTO      `json:"order_items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type OrderItemDTO struct {
	ID               uuid.UUID   `json:"id"`
	ProductID        uuid.UUID   `json:"product_id"`
	ProductVariantID *uuid.UUID  `json:"product_variant_id"`
	Quantity         int         `json:"quantity"`
	Price            float64     `json:"price"`
	Total            float64     `json:"total"`
	ProductSnapshot  SnapshotDTO `json:"product_snapshot"`
}

// SnapshotDTO is the frozen product description of an order line.
type SnapshotDTO struct {
	Name             string  `json:"name"`
	SKU              string  `json:"sku,omitempty"`
	Description      string  `json:"description,omitempty"`
	ShortDescription string  `json:"short_description,omitempty"`
	ImageURL         string  `json:"image_url,omitempty"`
	Price            float64 `json:"price"`
	VariantName      string  `json:"variant_name,omitempty"`
}

func NewOrderDTO(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		PaymentMethod:   o.PaymentMethod,
		PaymentIntentID: o.PaymentIntentID,
		Subtotal:        types.Money(o.Subtotal),
		Tax:             types.Money(o.Tax),
		Shipping:        types.Money(o.Shipping),
		Discount:        types.Money(o.Discount),
		Total:           types.Money(o.Total),
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		Notes:           o.Notes,
		TrackingNumber:  o.TrackingNumber,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		Items:           make([]OrderItemDTO, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, newOrderItemDTO(item))
	}
	return dto
}

func newOrderItemDTO(item models.OrderItem) OrderItemDTO {
	snap := item.ProductSnapshot
	return OrderItemDTO{
		ID:               item.ID,
		ProductID:        item.ProductID,
		ProductVariantID: item.ProductVariantID,
		Quantity:         item.Quantity,
		Price:            types.Money(item.Price),
		Total:            types.Money(item.Total),
		ProductSnapshot: SnapshotDTO{
			Name:             snap.Name,
			SKU:              snap.SKU,
			Description:      snap.Description,
			ShortDescription: snap.ShortDescription,
			ImageURL:         snap.ImageURL,
			Price:            types.Money(snap.Price),
			VariantName:      snap.VariantName,
		},
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductSnapshot freezes the display fields of a product at purchase time.
type ProductSnapshot struct {
	Name             string          `json:"name"`
	SKU              string          `json:"sku,omitempty"`
	Description      string          `json:"description,omitempty"`
	ShortDescription string          `json:"short_description,omitempty"`
	ImageURL         string          `json:"image_url,omitempty"`
	Price            decimal.Decimal `json:"price"`
	VariantName      string          `json:"variant_name,omitempty"`
}

// OrderItem is an immutable purchased line.
type OrderItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductVariantID *uuid.UUID      `gorm:"column:product_variant_id;type:uuid"`
	Quantity         int             `gorm:"column:quantity;not null"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Total            decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`
	ProductSnapshot  ProductSnapshot `gorm:"column:product_snapshot;type:jsonb;serializer:json"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

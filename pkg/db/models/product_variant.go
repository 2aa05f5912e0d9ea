package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant is a purchasable option of a product (size, metal, ...).
type ProductVariant struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ProductID     uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index"`
	Name          string            `gorm:"column:name;type:varchar(100);not null"`
	SKU           string            `gorm:"column:sku;type:varchar(100);not null;uniqueIndex"`
	Price         *decimal.Decimal  `gorm:"column:price;type:numeric(10,2)"`
	StockQuantity int               `gorm:"column:stock_quantity;not null"`
	Attributes    map[string]string `gorm:"column:attributes;type:jsonb;serializer:json"`
	IsActive      bool              `gorm:"column:is_active;not null"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductVariant) TableName() string { return "product_variants" }

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// EffectivePrice falls back to the parent product price when no override exists.
func (v ProductVariant) EffectivePrice(productPrice decimal.Decimal) decimal.Decimal {
	if v.Price != nil {
		return *v.Price
	}
	return productPrice
}

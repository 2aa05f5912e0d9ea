package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultLowStockThreshold marks a product as running low.
const DefaultLowStockThreshold = 5

// Product is a sellable catalog entry.
type Product struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name              string           `gorm:"column:name;type:varchar(200);not null"`
	Slug              string           `gorm:"column:slug;type:varchar(200);not null;uniqueIndex"`
	Description       *string          `gorm:"column:description"`
	ShortDescription  *string          `gorm:"column:short_description;type:varchar(500)"`
	SKU               string           `gorm:"column:sku;type:varchar(100);not null;uniqueIndex"`
	Price             decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	ComparePrice      *decimal.Decimal `gorm:"column:compare_price;type:numeric(10,2)"`
	CostPrice         *decimal.Decimal `gorm:"column:cost_price;type:numeric(10,2)"`
	TrackInventory    bool             `gorm:"column:track_inventory;not null"`
	StockQuantity     int              `gorm:"column:stock_quantity;not null"`
	LowStockThreshold int              `gorm:"column:low_stock_threshold;not null"`
	Weight            *decimal.Decimal `gorm:"column:weight;type:numeric(8,2)"`
	Dimensions        *string          `gorm:"column:dimensions;type:varchar(100)"`
	ImageURL          *string          `gorm:"column:image_url;type:varchar(500)"`
	GalleryImages     []string         `gorm:"column:gallery_images;type:jsonb;serializer:json"`
	CategoryID        *uuid.UUID       `gorm:"column:category_id;type:uuid;index"`
	VendorID          *uuid.UUID       `gorm:"column:vendor_id;type:uuid;index"`
	IsActive          bool             `gorm:"column:is_active;not null;index"`
	IsFeatured        bool             `gorm:"column:is_featured;not null"`
	MetaTitle         *string          `gorm:"column:meta_title;type:varchar(200)"`
	MetaDescription   *string          `gorm:"column:meta_description;type:varchar(500)"`
	Tags              []string         `gorm:"column:tags;type:jsonb;serializer:json"`
	Category          *Category        `gorm:"foreignKey:CategoryID"`
	Variants          []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.LowStockThreshold == 0 {
		p.LowStockThreshold = DefaultLowStockThreshold
	}
	return nil
}

// InStock reports whether at least one unit can be sold.
func (p Product) InStock() bool {
	return !p.TrackInventory || p.StockQuantity > 0
}

// IsLowStock reports whether tracked stock is at or under the threshold.
func (p Product) IsLowStock() bool {
	return p.TrackInventory && p.StockQuantity <= p.LowStockThreshold
}

// HasStockFor reports whether qty units can be taken from stock.
func (p Product) HasStockFor(qty int) bool {
	return !p.TrackInventory || p.StockQuantity >= qty
}

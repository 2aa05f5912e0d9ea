package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/onix-commerce/onix-backend/internal/categories"
	"github.com/onix-commerce/onix-backend/pkg/db/models"
	"github.com/onix-commerce/onix-backend/pkg/pagination"
	"github.com/onix-commerce/onix-backend/pkg/types"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID                uuid.UUID           `json:"id"`
	Name              string              `json:"name"`
	Slug              string              `json:"slug"`
	Description       *string             `json:"description"`
	ShortDescription  *string             `json:"short_description"`
	SKU               string              `json:"sku"`
	Price             float64             `json:"price"`
	ComparePrice      *float64            `json:"compare_price"`
	TrackInventory    bool                `json:"track_inventory"`
	StockQuantity     int                 `json:"stock_quantity"`
	LowStockThreshold int                 `json:"low_stock_threshold"`
	Weight            *float64            `json:"weight"`
	Dimensions        *string             `json:"dimensions"`
	ImageURL          *string             `json:"image_url"`
	GalleryImages     []string            `json:"gallery_images"`
	CategoryID        *uuid.UUID          `json:"category_id"`
	Category          *categories.Summary `json:"category"`
	VendorID          *uuid.UUID          `json:"vendor_id"`
	IsActive          bool                `json:"is_active"`
	IsFeatured        bool                `json:"is_featured"`
	MetaTitle         *string             `json:"meta_title"`
	MetaDescription   *string             `json:"meta_description"`
	Tags              []string            `json:"tags"`
	Variants          []VariantDTO        `json:"variants"`
	InStock           bool                `json:"in_stock"`
	IsLowStock        bool                `json:"is_low_stock"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// VariantDTO exposes a purchasable option with its effective price.
type VariantDTO struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	SKU           string            `json:"sku"`
	Price         float64           `json:"price"`
	StockQuantity int               `json:"stock_quantity"`
	Attributes    map[string]string `json:"attributes"`
	IsActive      bool              `json:"is_active"`
}

// ListResult is the paginated browse response.
type ListResult struct {
	Products   []ProductDTO    `json:"products"`
	Pagination pagination.Meta `json:"pagination"`
}

// NewProductDTO builds a DTO from the persisted model. Category and variants
// are included when preloaded.
func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:                p.ID,
		Name:              p.Name,
		Slug:              p.Slug,
		Description:       p.Description,
		ShortDescription:  p.ShortDescription,
		SKU:               p.SKU,
		Price:             types.Money(p.Price),
		ComparePrice:      types.MoneyPtr(p.ComparePrice),
		TrackInventory:    p.TrackInventory,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		Weight:            types.MoneyPtr(p.Weight),
		Dimensions:        p.Dimensions,
		ImageURL:          p.ImageURL,
		GalleryImages:     append([]string{}, p.GalleryImages...),
		CategoryID:        p.CategoryID,
		Category:          categories.NewSummary(p.Category),
		VendorID:          p.VendorID,
		IsActive:          p.IsActive,
		IsFeatured:        p.IsFeatured,
		MetaTitle:         p.MetaTitle,
		MetaDescription:   p.MetaDescription,
		Tags:              append([]string{}, p.Tags...),
		Variants:          make([]VariantDTO, 0, len(p.Variants)),
		InStock:           p.InStock(),
		IsLowStock:        p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	for _, v := range p.Variants {
		dto.Variants = append(dto.Variants, NewVariantDTO(v, p.Price))
	}
	return dto
}

// NewVariantDTO resolves the variant price against its product.
func NewVariantDTO(v models.ProductVariant, productPrice decimal.Decimal) VariantDTO {
	attrs := map[string]string{}
	for k, val := range v.Attributes {
		attrs[k] = val
	}
	return VariantDTO{
		ID:            v.ID,
		Name:          v.Name,
		SKU:           v.SKU,
		Price:         types.Money(v.EffectivePrice(productPrice)),
		StockQuantity: v.StockQuantity,
		Attributes:    attrs,
		IsActive:      v.IsActive,
	}
}

package product

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
)

const (
	skuPrefix       = "ONX-"
	maxSlugAttempts = 50
	maxSKUAttempts  = 5
	fallbackSlug    = "product"
)

// CreateInput is the admin payload for a new product.
type CreateInput struct {
	Name              string           `json:"name" validate:"required,max=200"`
	Description       *string          `json:"description"`
	ShortDescription  *string          `json:"short_description" validate:"omitempty,max=500"`
	SKU               *string          `json:"sku" validate:"omitempty,max=100"`
	Price             *decimal.Decimal `json:"price" validate:"required"`
	ComparePrice      *decimal.Decimal `json:"compare_price"`
	StockQuantity     *int             `json:"stock_quantity" validate:"required,min=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
	TrackInventory    *bool            `json:"track_inventory"`
	CategoryID        string           `json:"category_id" validate:"required"`
	ImageURL          *string          `json:"image_url" validate:"omitempty,max=500"`
	GalleryImages     []string         `json:"gallery_images"`
	Tags              []string         `json:"tags"`
	IsFeatured        bool             `json:"is_featured"`
	MetaTitle         *string          `json:"meta_title" validate:"omitempty,max=200"`
	MetaDescription   *string          `json:"meta_description" validate:"omitempty,max=500"`
}

// UpdateInput is a partial admin update; nil fields are untouched.
type UpdateInput struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description       *string          `json:"description"`
	ShortDescription  *string          `json:"short_description" validate:"omitempty,max=500"`
	Price             *decimal.Decimal `json:"price"`
	ComparePrice      *decimal.Decimal `json:"compare_price"`
	StockQuantity     *int             `json:"stock_quantity" validate:"omitempty,min=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
	ImageURL          *string          `json:"image_url" validate:"omitempty,max=500"`
	IsActive          *bool            `json:"is_active"`
	IsFeatured        *bool            `json:"is_featured"`
	CategoryID        *string          `json:"category_id"`
	Tags              *[]string        `json:"tags"`
}

func validatePrice(field string, price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" must be non-negative")
	}
	return nil
}

// normalizeImageURL accepts empty values and absolute http(s) URLs only.
func normalizeImageURL(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid image url")
	}
	return &trimmed, nil
}

// uniqueSlug derives a slug from name and appends -2, -3, ... until it no
// longer collides with another product.
func (s *service) uniqueSlug(ctx context.Context, repo *Repository, name string, exclude uuid.UUID) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = fallbackSlug
	}
	candidate := base
	for attempt := 2; attempt <= maxSlugAttempts+1; attempt++ {
		taken, err := repo.SlugExists(ctx, candidate, exclude)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check slug")
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not allocate product slug")
}

func (s *service) generateSKU(ctx context.Context, repo *Repository) (string, error) {
	for attempt := 0; attempt < maxSKUAttempts; attempt++ {
		candidate, err := randomSKU()
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate sku")
		}
		taken, err := repo.SKUExists(ctx, candidate)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check sku")
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not allocate product sku")
}

func randomSKU() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return skuPrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

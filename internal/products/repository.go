package product

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/onix-commerce/onix-backend/pkg/db/models"
	"github.com/onix-commerce/onix-backend/pkg/pagination"
)

// ErrStockUnavailable is returned when a conditional decrement matched no row.
var ErrStockUnavailable = errors.New("stock unavailable")

// Repository persists catalog products and their variants.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListFilter narrows a catalog listing. A nil CategoryID means any category.
type ListFilter struct {
	CategoryID   *uuid.UUID
	Search       string
	FeaturedOnly bool
	Page         pagination.Params
}

// ListActive returns one page of active products, newest first, together with
// the total number of matching rows.
func (r *Repository) ListActive(ctx context.Context, filter ListFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		query = query.Where(
			"(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\\')",
			pattern, pattern,
		)
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	var rows []models.Product
	err := query.
		Preload("Category").
		Order("created_at DESC").
		Order("id").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindActiveByID loads an active product with its category and active variants.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("name")
		}).
		Where("id = ? AND is_active = ?", id, true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID loads a product regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("name")
		}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindActiveVariant loads an active variant belonging to productID.
func (r *Repository) FindActiveVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	var v models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ? AND is_active = ?", variantID, productID, true).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SlugExists reports whether another product already uses slug.
func (r *Repository) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	return r.exists(ctx, "slug", slug, exclude)
}

// SKUExists reports whether a product already uses sku.
func (r *Repository) SKUExists(ctx context.Context, sku string) (bool, error) {
	return r.exists(ctx, "sku", sku, uuid.Nil)
}

func (r *Repository) exists(ctx context.Context, column, value string, exclude uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where(column+" = ?", value)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

// UpdateColumns applies a column patch. Missing rows surface as
// gorm.ErrRecordNotFound.
func (r *Repository) UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]any) error {
	if len(columns) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate hides the product from the storefront. Order history keeps
// pointing at the row.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.UpdateColumns(ctx, id, map[string]any{"is_active": false})
}

// DecrementStock takes qty units from a tracked product in one conditional
// update. Untracked products are left alone.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND (track_inventory = ? OR stock_quantity >= ?)", id, false, qty).
		Update("stock_quantity", gorm.Expr(
			"CASE WHEN track_inventory THEN stock_quantity - ? ELSE stock_quantity END", qty,
		))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockUnavailable
	}
	return nil
}

// DecrementVariantStock is DecrementStock for a variant row.
func (r *Repository) DecrementVariantStock(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockUnavailable
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

package product

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/onix-commerce/onix-backend/pkg/db"
	"github.com/onix-commerce/onix-backend/pkg/db/models"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	"github.com/onix-commerce/onix-backend/pkg/pagination"
)

const msgProductNotFound = "product not found"

// ListInput carries the storefront browse query. Category may be a UUID or a
// slug.
type ListInput struct {
	Page     pagination.Params
	Category string
	Search   string
	Featured bool
}

// Service exposes catalog reads and admin product management.
type Service interface {
	List(ctx context.Context, in ListInput) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, vendorID uuid.UUID, in CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type categoryFinder interface {
	FindActiveBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type categoryResolver interface {
	Resolve(ctx context.Context, ref string) (*models.Category, error)
}

type ServiceParams struct {
	Repo       *Repository
	Tx         txRunner
	Categories categoryFinder
	Resolver   categoryResolver
}

type service struct {
	repo       *Repository
	tx         txRunner
	categories categoryFinder
	resolver   categoryResolver
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repository required")
	case params.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	case params.Categories == nil || params.Resolver == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "category lookup required")
	}
	return &service{
		repo:       params.Repo,
		tx:         params.Tx,
		categories: params.Categories,
		resolver:   params.Resolver,
	}, nil
}

func (s *service) List(ctx context.Context, in ListInput) (*ListResult, error) {
	page := in.Page.Normalize()
	filter := ListFilter{Search: in.Search, FeaturedOnly: in.Featured, Page: page}

	if ref := strings.TrimSpace(in.Category); ref != "" {
		if id, err := uuid.Parse(ref); err == nil {
			filter.CategoryID = &id
		} else {
			category, err := s.categories.FindActiveBySlug(ctx, ref)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return emptyList(page), nil
			}
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
			}
			filter.CategoryID = &category.ID
		}
	}

	rows, total, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	out := &ListResult{
		Products:   make([]ProductDTO, 0, len(rows)),
		Pagination: pagination.NewMeta(page, total),
	}
	for i := range rows {
		out.Products = append(out.Products, *NewProductDTO(&rows[i]))
	}
	return out, nil
}

func emptyList(page pagination.Params) *ListResult {
	return &ListResult{Products: []ProductDTO{}, Pagination: pagination.NewMeta(page, 0)}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	p, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return NewProductDTO(p), nil
}

func (s *service) Create(ctx context.Context, vendorID uuid.UUID, in CreateInput) (*ProductDTO, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if in.Price == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price is required")
	}
	if in.StockQuantity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity is required")
	}
	if err := validatePrice("price", in.Price); err != nil {
		return nil, err
	}
	if err := validatePrice("compare_price", in.ComparePrice); err != nil {
		return nil, err
	}
	if *in.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity must be non-negative")
	}
	imageURL, err := normalizeImageURL(in.ImageURL)
	if err != nil {
		return nil, err
	}
	category, err := s.resolver.Resolve(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:             name,
		Description:      trimmedPtr(in.Description),
		ShortDescription: trimmedPtr(in.ShortDescription),
		Price:            in.Price.Round(2),
		ComparePrice:     roundedPtr(in.ComparePrice),
		TrackInventory:   true,
		StockQuantity:    *in.StockQuantity,
		ImageURL:         imageURL,
		GalleryImages:    cleanList(in.GalleryImages),
		CategoryID:       &category.ID,
		IsActive:         true,
		IsFeatured:       in.IsFeatured,
		MetaTitle:        trimmedPtr(in.MetaTitle),
		MetaDescription:  trimmedPtr(in.MetaDescription),
		Tags:             cleanList(in.Tags),
	}
	if vendorID != uuid.Nil {
		p.VendorID = &vendorID
	}
	if in.TrackInventory != nil {
		p.TrackInventory = *in.TrackInventory
	}
	if in.LowStockThreshold != nil {
		p.LowStockThreshold = *in.LowStockThreshold
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		slugValue, err := s.uniqueSlug(ctx, repo, name, uuid.Nil)
		if err != nil {
			return err
		}
		p.Slug = slugValue

		if sku := trimmedPtr(in.SKU); sku != nil {
			taken, err := repo.SKUExists(ctx, *sku)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check sku")
			}
			if taken {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
			}
			p.SKU = *sku
		} else {
			generated, err := s.generateSKU(ctx, repo)
			if err != nil {
				return err
			}
			p.SKU = generated
		}

		if err := repo.Create(ctx, p); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.Category = category
	return NewProductDTO(p), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*ProductDTO, error) {
	if err := validatePrice("price", in.Price); err != nil {
		return nil, err
	}
	if err := validatePrice("compare_price", in.ComparePrice); err != nil {
		return nil, err
	}
	if in.StockQuantity != nil && *in.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity must be non-negative")
	}

	cols := map[string]any{}
	if in.ImageURL != nil {
		imageURL, err := normalizeImageURL(in.ImageURL)
		if err != nil {
			return nil, err
		}
		cols["image_url"] = imageURL
	}
	if in.CategoryID != nil {
		category, err := s.resolver.Resolve(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		cols["category_id"] = category.ID
	}
	if in.Description != nil {
		cols["description"] = trimmedPtr(in.Description)
	}
	if in.ShortDescription != nil {
		cols["short_description"] = trimmedPtr(in.ShortDescription)
	}
	if in.Price != nil {
		cols["price"] = in.Price.Round(2)
	}
	if in.ComparePrice != nil {
		cols["compare_price"] = in.ComparePrice.Round(2)
	}
	if in.StockQuantity != nil {
		cols["stock_quantity"] = *in.StockQuantity
	}
	if in.LowStockThreshold != nil {
		cols["low_stock_threshold"] = *in.LowStockThreshold
	}
	if in.IsActive != nil {
		cols["is_active"] = *in.IsActive
	}
	if in.IsFeatured != nil {
		cols["is_featured"] = *in.IsFeatured
	}
	if in.Tags != nil {
		encoded, err := json.Marshal(cleanList(*in.Tags))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode tags")
		}
		cols["tags"] = string(encoded)
	}

	var out *ProductDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			return mapLookupError(err)
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
			}
			slugValue, err := s.uniqueSlug(ctx, repo, name, id)
			if err != nil {
				return err
			}
			cols["name"] = name
			cols["slug"] = slugValue
		}
		if err := repo.UpdateColumns(ctx, id, cols); err != nil {
			return mapLookupError(err)
		}
		updated, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}
		out = NewProductDTO(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return mapLookupError(err)
	}
	return nil
}

func roundedPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := d.Round(2)
	return &v
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotFound)
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
}

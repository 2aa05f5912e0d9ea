package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	product "github.com/onix-commerce/onix-backend/internal/products"
	"github.com/onix-commerce/onix-backend/pkg/db"
	"github.com/onix-commerce/onix-backend/pkg/db/models"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
)

const (
	msgItemNotFound      = "cart item not found"
	msgProductNotFound   = "product not found"
	msgVariantNotFound   = "variant not found"
	msgInsufficientStock = "insufficient stock"
	msgInvalidQuantity   = "quantity must be at least 1"
)

// AddInput is the POST /cart body. A missing quantity means one unit.
type AddInput struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  *int       `json:"quantity"`
}

// UpdateInput is the PUT /cart/{id} body.
type UpdateInput struct {
	Quantity int `json:"quantity" validate:"required"`
}

// Service manages the authenticated shopper's cart.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Add(ctx context.Context, userID uuid.UUID, in AddInput) (*ItemDTO, error)
	Update(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*ItemDTO, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type ServiceParams struct {
	Repo     *Repository
	Products *product.Repository
	Tx       txRunner
}

type service struct {
	repo     *Repository
	products *product.Repository
	tx       txRunner
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repository required")
	case params.Products == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repository required")
	case params.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: params.Repo, products: params.Products, tx: params.Tx}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return NewCartDTO(items), nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, in AddInput) (*ItemDTO, error) {
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidQuantity)
	}
	if in.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}

	var out *ItemDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		products := s.products.WithTx(tx)

		p, err := products.FindActiveByID(ctx, in.ProductID)
		if err != nil {
			return notFoundOr(err, msgProductNotFound, "load product")
		}
		var variant *models.ProductVariant
		if in.VariantID != nil {
			variant, err = products.FindActiveVariant(ctx, p.ID, *in.VariantID)
			if err != nil {
				return notFoundOr(err, msgVariantNotFound, "load variant")
			}
		}

		existing, err := repo.FindLine(ctx, userID, p.ID, in.VariantID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
		}

		total := quantity
		if existing != nil {
			total += existing.Quantity
		}
		if !hasStock(p, variant, total) {
			return pkgerrors.New(pkgerrors.CodeOutOfStock, msgInsufficientStock)
		}

		price := unitPrice(p, variant)
		var lineID uuid.UUID
		if existing != nil {
			if err := repo.SetQuantity(ctx, existing.ID, total, price); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
			}
			lineID = existing.ID
		} else {
			item := &models.CartItem{
				UserID:           userID,
				ProductID:        p.ID,
				ProductVariantID: in.VariantID,
				Quantity:         total,
				Price:            price,
			}
			if err := repo.Create(ctx, item); err != nil {
				if db.IsUniqueViolation(err, "") {
					return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart line changed concurrently, retry")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart line")
			}
			lineID = item.ID
		}

		stored, err := repo.FindForUser(ctx, lineID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart line")
		}
		dto := NewItemDTO(stored)
		out = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*ItemDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidQuantity)
	}

	var out *ItemDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindForUser(ctx, itemID, userID)
		if err != nil {
			return notFoundOr(err, msgItemNotFound, "load cart line")
		}
		if item.Product == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotFound)
		}
		if !hasStock(item.Product, item.Variant, quantity) {
			return pkgerrors.New(pkgerrors.CodeOutOfStock, msgInsufficientStock)
		}
		if err := repo.SetQuantity(ctx, item.ID, quantity, item.Price); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
		}
		item.Quantity = quantity
		dto := NewItemDTO(item)
		out = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.repo.DeleteForUser(ctx, itemID, userID); err != nil {
		return notFoundOr(err, msgItemNotFound, "delete cart line")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.repo.ClearForUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

// hasStock checks qty against the variant when one is chosen, otherwise the
// product. Variant stock is always tracked.
func hasStock(p *models.Product, variant *models.ProductVariant, qty int) bool {
	if variant != nil {
		return variant.StockQuantity >= qty
	}
	return p.HasStockFor(qty)
}

func unitPrice(p *models.Product, variant *models.ProductVariant) decimal.Decimal {
	if variant != nil {
		return variant.EffectivePrice(p.Price)
	}
	return p.Price
}

func notFoundOr(err error, notFoundMsg, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}

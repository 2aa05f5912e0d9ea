package categories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onix-commerce/onix-backend/pkg/db/models"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
)

const msgInvalidCategory = "invalid category"

type Service interface {
	List(ctx context.Context) ([]CategoryOption, error)
	Tree(ctx context.Context) ([]*CategoryNode, error)
	// Resolve accepts a UUID, a slug or a display name.
	Resolve(ctx context.Context, ref string) (*models.Category, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryOption, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryOption, 0, len(rows))
	for _, c := range rows {
		out = append(out, NewOption(c))
	}
	return out, nil
}

func (s *service) Tree(ctx context.Context) ([]*CategoryNode, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return BuildTree(rows), nil
}

func (s *service) Resolve(ctx context.Context, ref string) (*models.Category, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidCategory)
	}

	if id, err := uuid.Parse(ref); err == nil {
		c, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, mapResolveError(err)
		}
		if !c.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidCategory)
		}
		return c, nil
	}

	c, err := s.repo.FindActiveBySlug(ctx, ref)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapResolveError(err)
	}
	c, err = s.repo.FindActiveByName(ctx, ref)
	if err != nil {
		return nil, mapResolveError(err)
	}
	return c, nil
}

func mapResolveError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeValidation, msgInvalidCategory)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve category")
}

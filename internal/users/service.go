package users

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
)

const (
	msgUserNotFound       = "user not found"
	msgInvalidEmailFormat = "invalid email format"
	msgEmailInUse         = "email already in use"
)

var emailValidator = validator.New()

// ValidEmail reports whether s is a syntactically valid address.
func ValidEmail(s string) bool {
	return emailValidator.Var(s, "required,email") == nil
}

// ProfilePatch lists the fields a user may change on their own profile.
// Nil fields are left untouched.
type ProfilePatch struct {
	FirstName  *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	Country    *string `json:"country,omitempty" validate:"omitempty,max=100"`
	Email      *string `json:"email,omitempty"`
}

// columns maps the set fields onto user columns. Email is handled by the
// service because it needs a uniqueness check.
func (p ProfilePatch) columns() map[string]any {
	cols := map[string]any{}
	setString := func(col string, v *string) {
		if v != nil {
			cols[col] = strings.TrimSpace(*v)
		}
	}
	setString("first_name", p.FirstName)
	setString("last_name", p.LastName)
	setString("phone", p.Phone)
	setString("address", p.Address)
	setString("city", p.City)
	setString("postal_code", p.PostalCode)
	setString("country", p.Country)
	return cols
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionRevoker interface {
	Revoke(ctx context.Context, accessID string) error
}

// Service covers the authenticated profile endpoints.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*UserDTO, error)
	Deactivate(ctx context.Context, userID uuid.UUID, accessID string) error
}

type ServiceParams struct {
	Repo     *Repository
	Tx       txRunner
	Sessions sessionRevoker
}

type service struct {
	repo     *Repository
	tx       txRunner
	sessions sessionRevoker
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: params.Repo, tx: params.Tx, sessions: params.Sessions}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*UserDTO, error) {
	cols := patch.columns()
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if !ValidEmail(email) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidEmailFormat)
		}
		cols["email"] = email
	}

	var out *UserDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if email, ok := cols["email"].(string); ok {
			taken, err := repo.EmailTaken(ctx, email, userID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
			}
			if taken {
				return pkgerrors.New(pkgerrors.CodeConflict, msgEmailInUse)
			}
		}
		if err := repo.UpdateColumns(ctx, userID, cols); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
		}
		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			return mapLookupError(err)
		}
		out = FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Deactivate(ctx context.Context, userID uuid.UUID, accessID string) error {
	if err := s.repo.Deactivate(ctx, userID); err != nil {
		return mapLookupError(err)
	}
	if s.sessions != nil && accessID != "" {
		if err := s.sessions.Revoke(ctx, accessID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
		}
	}
	return nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, msgUserNotFound)
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
}

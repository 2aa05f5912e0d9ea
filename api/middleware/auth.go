package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onix-commerce/onix-backend/api/responses"
	pkgAuth "github.com/onix-commerce/onix-backend/pkg/auth"
	"github.com/onix-commerce/onix-backend/pkg/auth/session"
	"github.com/onix-commerce/onix-backend/pkg/config"
	"github.com/onix-commerce/onix-backend/pkg/db/models"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	"github.com/onix-commerce/onix-backend/pkg/logger"
)

const (
	msgTokenRequired = "authorization token required"
	msgTokenExpired  = "token has expired"
	msgTokenInvalid  = "invalid token"
	msgSessionGone   = "session revoked"
	msgDeactivated   = "account deactivated"
)

// UserLookup resolves the account behind a token so deactivated users are
// rejected even while their token is still valid.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Auth validates a bearer token and seeds the request context with the claims.
// sessions and users are optional; nil skips the corresponding check.
func Auth(cfg config.JWTConfig, sessions session.AccessSessionChecker, users UserLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, msgTokenRequired))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				msg := msgTokenInvalid
				if pkgAuth.IsExpired(err) {
					msg = msgTokenExpired
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msg))
				return
			}
			if claims.ID == "" || claims.UserID == uuid.Nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, msgTokenInvalid))
				return
			}

			if sessions != nil {
				ok, err := sessions.HasSession(ctx, claims.ID)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, msgSessionGone))
					return
				}
			}

			if users != nil {
				user, err := users.FindByID(ctx, claims.UserID)
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, msgTokenInvalid))
					return
				case err != nil:
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
					return
				case !user.IsActive:
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, msgDeactivated))
					return
				}
			}

			ctx = WithUserID(ctx, claims.UserID.String())
			ctx = WithRole(ctx, string(claims.Role))
			ctx = WithAccessID(ctx, claims.ID)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	raw := strings.TrimSpace(header)
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

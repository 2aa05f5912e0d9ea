package middleware

import (
	"net/http"

	"github.com/onix-commerce/onix-backend/api/responses"
	"github.com/onix-commerce/onix-backend/pkg/enums"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	"github.com/onix-commerce/onix-backend/pkg/logger"
)

func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return requireRole(role, "role required", logg)
}

func requireRole(role, message string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards the admin catalog. With enforcement disabled any
// authenticated caller passes, which matches the legacy storefront behaviour.
func RequireAdmin(enforce bool, logg *logger.Logger) func(http.Handler) http.Handler {
	if !enforce {
		return func(next http.Handler) http.Handler { return next }
	}
	return requireRole(string(enums.UserRoleAdmin), "admin access required", logg)
}

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/onix-commerce/onix-backend/api/responses"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	"github.com/onix-commerce/onix-backend/pkg/logger"
)

// RateLimit applies a coarse in-process per-IP limit across the API.
// A non-positive limit or window disables it.
func RateLimit(requests int, window time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if logg != nil {
				ctx := logg.WithFields(r.Context(), map[string]any{"ip": clientIP(r)})
				logg.Warn(ctx, "rate_limit.blocked")
			}
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
		}),
	)
}

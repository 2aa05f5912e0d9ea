package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/onix-commerce/onix-backend/api/responses"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	"github.com/onix-commerce/onix-backend/pkg/logger"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *db.Client and *redis.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports that the process is serving requests.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// Health pings the database and, when configured, Redis. Either failing
// answers 503.
func Health(database, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if database == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database unavailable"))
			return
		}
		if err := database.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}

		payload := map[string]string{"status": "healthy", "database": "connected"}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unavailable"))
				return
			}
			payload["cache"] = "connected"
		}
		responses.WriteSuccess(w, payload)
	}
}

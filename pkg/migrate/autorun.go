package migrate

import (
	"context"
	"fmt"

	"github.com/onix-commerce/onix-backend/pkg/config"
	"github.com/onix-commerce/onix-backend/pkg/db"
	"github.com/onix-commerce/onix-backend/pkg/logger"
)

// MaybeRunDev prepares the schema on startup. SQLite databases are always
// bootstrapped from the models; Postgres runs goose only in dev with the
// auto-migrate flag enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.DB.IsSQLite() && (!cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate) {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver, "dir": DefaultDir})
	logg.Info(ctx, "preparing schema on startup")

	if err := Run(ctx, client.DB(), DefaultDir, CmdUp); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	logg.Info(ctx, "schema ready")
	return nil
}

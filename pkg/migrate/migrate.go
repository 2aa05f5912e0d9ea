package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

const DefaultDir = "pkg/migrate/migrations"

// Commands accepted by Run.
const (
	CmdUp      = "up"
	CmdDown    = "down"
	CmdStatus  = "status"
	CmdVersion = "version"
	CmdSeed    = "seed"
)

// Run applies a migration command to conn. The goose SQL files are
// Postgres-only, so a sqlite handle is built from the models instead and
// accepts only up and seed. CmdVersion takes the target version as its
// single argument.
func Run(ctx context.Context, conn *gorm.DB, dir string, command string, args ...string) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}

	if conn.Dialector.Name() == "sqlite" {
		switch command {
		case CmdUp, CmdSeed:
			return Bootstrap(ctx, conn)
		default:
			return fmt.Errorf("command %q is not supported for sqlite", command)
		}
	}

	if command == CmdSeed {
		return SeedCategories(ctx, conn)
	}

	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	switch command {
	case CmdUp, CmdDown, CmdStatus:
		if err := goose.RunContext(ctx, command, sqlDB, dir, args...); err != nil {
			return fmt.Errorf("goose %s: %w", command, err)
		}
		return nil
	case CmdVersion:
		if len(args) != 1 {
			return fmt.Errorf("version requires exactly one target version")
		}
		return migrateToVersion(ctx, sqlDB, dir, args[0])
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}

// migrateToVersion moves up or down to target from the current DB version.
func migrateToVersion(ctx context.Context, db *sql.DB, dir string, targetVersion string) error {
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	current, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
	}
	return nil
}

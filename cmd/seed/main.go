package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/onix-commerce/onix-backend/pkg/config"
	"github.com/onix-commerce/onix-backend/pkg/db"
	"github.com/onix-commerce/onix-backend/pkg/db/models"
	"github.com/onix-commerce/onix-backend/pkg/enums"
	"github.com/onix-commerce/onix-backend/pkg/logger"
	"github.com/onix-commerce/onix-backend/pkg/migrate"
	"github.com/onix-commerce/onix-backend/pkg/security"
)

const (
	defaultAdminEmail  = "admin@onix.com"
	envAdminPassword   = "ONIX_SEED_ADMIN_PASSWORD"
	tempPasswordLength = 16
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})
	_ = godotenv.Load()

	email := flag.String("email", defaultAdminEmail, "admin email")
	password := flag.String("password", "", "admin password (falls back to "+envAdminPassword+", then a generated one)")
	categories := flag.Bool("categories", true, "also seed the default categories")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if *categories {
		if err := migrate.SeedCategories(ctx, dbClient.DB()); err != nil {
			logg.Error(ctx, "failed to seed categories", err)
			os.Exit(1)
		}
	}

	secret := strings.TrimSpace(*password)
	generated := false
	if secret == "" {
		secret = strings.TrimSpace(os.Getenv(envAdminPassword))
	}
	if secret == "" {
		secret, err = security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			logg.Error(ctx, "failed to generate admin password", err)
			os.Exit(1)
		}
		generated = true
	}

	created, err := seedAdmin(ctx, dbClient, cfg.Password, *email, secret)
	if err != nil {
		logg.Error(ctx, "failed to seed admin", err)
		os.Exit(1)
	}

	ctx = logg.WithField(ctx, "email", *email)
	if !created {
		logg.Info(ctx, "admin already exists; left untouched")
		return
	}
	logg.Info(ctx, "admin user created")
	if generated {
		fmt.Printf("generated admin password: %s\n", secret)
	}
}

// seedAdmin inserts the admin account unless the email is already taken.
func seedAdmin(ctx context.Context, client *db.Client, pwCfg config.PasswordConfig, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, errors.New("email is required")
	}
	if err := security.CheckLength(password, pwCfg); err != nil {
		return false, err
	}

	created := false
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		var existing models.User
		err := tx.WithContext(ctx).Where("email = ?", email).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := security.HashPassword(password, pwCfg)
		if err != nil {
			return err
		}
		admin := &models.User{
			Email:         email,
			PasswordHash:  hash,
			FirstName:     "Admin",
			LastName:      "Onix",
			Role:          enums.UserRoleAdmin,
			EmailVerified: true,
			IsActive:      true,
		}
		if err := tx.WithContext(ctx).Create(admin).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

package migrate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/onix-commerce/onix-backend/pkg/db/models"
)

// DefaultCategories mirrors the seed_categories migration so the sqlite
// bootstrap path ends up with the same catalog.
var DefaultCategories = []models.Category{
	{ID: uuid.MustParse("6f1c2a3e-0001-4c1a-9a55-6b0d8f1e0001"), Name: "Anillos", Slug: "anillos", Description: strPtr("Anillos de plata, oro y piedras"), IsActive: true, SortOrder: 1},
	{ID: uuid.MustParse("6f1c2a3e-0002-4c1a-9a55-6b0d8f1e0002"), Name: "Collares", Slug: "collares", Description: strPtr("Collares y colgantes"), IsActive: true, SortOrder: 2},
	{ID: uuid.MustParse("6f1c2a3e-0003-4c1a-9a55-6b0d8f1e0003"), Name: "Pulseras", Slug: "pulseras", Description: strPtr("Pulseras y brazaletes"), IsActive: true, SortOrder: 3},
	{ID: uuid.MustParse("6f1c2a3e-0004-4c1a-9a55-6b0d8f1e0004"), Name: "Pendientes", Slug: "pendientes", Description: strPtr("Pendientes y aros"), IsActive: true, SortOrder: 4},
	{ID: uuid.MustParse("6f1c2a3e-0005-4c1a-9a55-6b0d8f1e0005"), Name: "Broches", Slug: "broches", Description: strPtr("Broches y alfileres"), IsActive: true, SortOrder: 5},
}

// Bootstrap creates the schema from the models and seeds the default
// categories. Used for sqlite, where the Postgres SQL files do not apply.
func Bootstrap(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	if err := conn.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return SeedCategories(ctx, conn)
}

// SeedCategories inserts the default categories, skipping existing slugs.
func SeedCategories(ctx context.Context, conn *gorm.DB) error {
	rows := make([]models.Category, len(DefaultCategories))
	copy(rows, DefaultCategories)
	err := conn.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}

func strPtr(s string) *string { return &s }

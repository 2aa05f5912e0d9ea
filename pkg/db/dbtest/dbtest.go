// Package dbtest opens throwaway in-memory SQLite databases carrying the full
// schema, for repository and service tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/onix-commerce/onix-backend/pkg/db"
	"github.com/onix-commerce/onix-backend/pkg/db/models"
	"github.com/onix-commerce/onix-backend/pkg/enums"
)

// New returns a migrated client bound to a private in-memory database.
func New(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:onix_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db.NewFromConn(conn)
}

// MustCreateUser inserts an active customer.
func MustCreateUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("onix_%s@example.com", uuid.NewString()[:8]),
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "Shopper",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// MustCreateCategory inserts an active category with the given slug.
func MustCreateCategory(t *testing.T, conn *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: slug, IsActive: true}
	if err := conn.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

// MustCreateProduct inserts an active, inventory-tracked product.
func MustCreateProduct(t *testing.T, conn *gorm.DB, name string, price string, stock int, categoryID *uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:           name,
		Slug:           fmt.Sprintf("p-%s", uuid.NewString()[:8]),
		SKU:            fmt.Sprintf("SKU-%s", uuid.NewString()[:8]),
		Price:          decimal.RequireFromString(price),
		TrackInventory: true,
		StockQuantity:  stock,
		CategoryID:     categoryID,
		IsActive:       true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

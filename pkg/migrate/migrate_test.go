package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/onix-commerce/onix-backend/pkg/db/models"
	"github.com/onix-commerce/onix-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
	if err := migrate.ValidateSchema("migrations"); err != nil {
		t.Fatalf("ValidateSchema: %v", err)
	}
}

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestValidateSchemaRequiresEveryModelTable(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250301090000_create_users_table.sql",
		"-- +goose Up\nCREATE TABLE IF NOT EXISTS users (id uuid);\n-- +goose Down\nDROP TABLE users;\n")

	err := migrate.ValidateSchema(dir)
	if err == nil || !strings.Contains(err.Error(), "no migration creates table categories") {
		t.Fatalf("expected missing categories table, got %v", err)
	}
}

func TestValidateSchemaRejectsSeedBeforeTable(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250301090000_seed_categories.sql",
		"-- +goose Up\nINSERT INTO categories (id) VALUES ('x');\n-- +goose Down\nDELETE FROM categories;\n")
	writeMigration(t, dir, "20250301090100_create_categories.sql",
		"-- +goose Up\nCREATE TABLE categories (id uuid);\n-- +goose Down\nDROP TABLE categories;\n")

	err := migrate.ValidateSchema(dir)
	if err == nil || !strings.Contains(err.Error(), "inserts into categories before it is created") {
		t.Fatalf("expected ordering error, got %v", err)
	}
}

func TestValidateDirRejectsDownBeforeUp(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250301090000_backwards.sql", "-- +goose Down\n-- +goose Up\n")

	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected Down-before-Up to fail")
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_order_number",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_payment_intent_id",
		"'partially_refunded'",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSeedMigrationMatchesDefaultCategories(t *testing.T) {
	matches, _ := filepath.Glob(filepath.Join("migrations", "*_seed_categories.sql"))
	if len(matches) != 1 {
		t.Fatalf("expected one seed migration, got %v", matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read seed: %v", err)
	}
	for _, c := range migrate.DefaultCategories {
		if !strings.Contains(string(data), c.ID.String()) || !strings.Contains(string(data), "'"+c.Slug+"'") {
			t.Errorf("seed migration missing category %s", c.Slug)
		}
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected empty dir to fail")
	}

	if err := os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to fail")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Product Reviews!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_product_reviews.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:migrate_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return conn
}

func TestRunBootstrapsSQLiteOnUp(t *testing.T) {
	conn := openSQLite(t)
	ctx := context.Background()

	// the goose dir is never read for sqlite
	if err := migrate.Run(ctx, conn, "", migrate.CmdUp); err != nil {
		t.Fatalf("run up: %v", err)
	}
	if err := migrate.Run(ctx, conn, "", migrate.CmdSeed); err != nil {
		t.Fatalf("run seed: %v", err)
	}

	var count int64
	if err := conn.Model(&models.Category{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != int64(len(migrate.DefaultCategories)) {
		t.Fatalf("expected %d categories, got %d", len(migrate.DefaultCategories), count)
	}
}

func TestRunRejectsGooseOnlyCommandsForSQLite(t *testing.T) {
	conn := openSQLite(t)

	for _, cmd := range []string{migrate.CmdDown, migrate.CmdStatus, migrate.CmdVersion} {
		err := migrate.Run(context.Background(), conn, "migrations", cmd, "20250301090000")
		if err == nil || !strings.Contains(err.Error(), "not supported for sqlite") {
			t.Errorf("%s: expected sqlite rejection, got %v", cmd, err)
		}
	}
}

func TestRunRequiresDB(t *testing.T) {
	if err := migrate.Run(context.Background(), nil, "migrations", migrate.CmdUp); err == nil {
		t.Fatal("expected nil db to fail")
	}
}

func TestBootstrapSeedsCategoriesOnce(t *testing.T) {
	conn := openSQLite(t)
	ctx := context.Background()

	if err := migrate.Bootstrap(ctx, conn); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := migrate.Bootstrap(ctx, conn); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}

	var count int64
	if err := conn.Model(&models.Category{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != int64(len(migrate.DefaultCategories)) {
		t.Fatalf("expected %d categories, got %d", len(migrate.DefaultCategories), count)
	}
}

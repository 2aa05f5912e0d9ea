package product

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/onix-commerce/onix-backend/internal/categories"
	"github.com/onix-commerce/onix-backend/pkg/db/dbtest"
	"github.com/onix-commerce/onix-backend/pkg/db/models"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	"github.com/onix-commerce/onix-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client := dbtest.New(t)
	catRepo := categories.NewRepository(client.DB())
	resolver, err := categories.NewService(catRepo)
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		Repo:       NewRepository(client.DB()),
		Tx:         client,
		Categories: catRepo,
		Resolver:   resolver,
	})
	require.NoError(t, err)
	return svc, client.DB()
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
func ageProduct(t *testing.T, conn *gorm.DB, id uuid.UUID, age time.Duration) {
	t.Helper()
	require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", id).
		Update("created_at", time.Now().Add(-age)).Error)
}

func TestListFiltersAndOrdering(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	rings := dbtest.MustCreateCategory(t, conn, "Anillos", "anillos")
	necklaces := dbtest.MustCreateCategory(t, conn, "Collares", "collares")

	oldRing := dbtest.MustCreateProduct(t, conn, "Anillo Plata", "40.00", 3, &rings.ID)
	newRing := dbtest.MustCreateProduct(t, conn, "Anillo Oro", "120.00", 2, &rings.ID)
	necklace := dbtest.MustCreateProduct(t, conn, "Collar Perlas", "80.00", 5, &necklaces.ID)
	hidden := dbtest.MustCreateProduct(t, conn, "Anillo Retirado", "10.00", 5, &rings.ID)
	require.NoError(t, conn.Model(hidden).Update("is_active", false).Error)
	require.NoError(t, conn.Model(necklace).Updates(map[string]any{
		"is_featured": true,
		"description": "Perlas cultivadas de agua dulce",
	}).Error)
	ageProduct(t, conn, oldRing.ID, 2*time.Hour)
	ageProduct(t, conn, newRing.ID, time.Hour)

	all, err := svc.List(ctx, ListInput{})
	require.NoError(t, err)
	require.Len(t, all.Products, 3)
	assert.Equal(t, necklace.ID, all.Products[0].ID)
	assert.Equal(t, newRing.ID, all.Products[1].ID)
	assert.Equal(t, oldRing.ID, all.Products[2].ID)
	assert.Equal(t, int64(3), all.Pagination.Total)
	assert.Equal(t, pagination.DefaultPerPage, all.Pagination.PerPage)

	bySlug, err := svc.List(ctx, ListInput{Category: "anillos"})
	require.NoError(t, err)
	require.Len(t, bySlug.Products, 2)
	require.NotNil(t, bySlug.Products[0].Category)
	assert.Equal(t, "anillos", bySlug.Products[0].Category.Slug)

	byID, err := svc.List(ctx, ListInput{Category: necklaces.ID.String()})
	require.NoError(t, err)
	require.Len(t, byID.Products, 1)

	search, err := svc.List(ctx, ListInput{Search: "PERLAS"})
	require.NoError(t, err)
	require.Len(t, search.Products, 1)
	assert.Equal(t, necklace.ID, search.Products[0].ID)

	featured, err := svc.List(ctx, ListInput{Featured: true})
	require.NoError(t, err)
	require.Len(t, featured.Products, 1)

	paged, err := svc.List(ctx, ListInput{Page: pagination.Params{Page: 2, PerPage: 2}})
	require.NoError(t, err)
	require.Len(t, paged.Products, 1)
	assert.Equal(t, 2, paged.Pagination.Pages)
	assert.True(t, paged.Pagination.HasPrev)
	assert.False(t, paged.Pagination.HasNext)
}

func TestListUnknownCategorySlugIsEmpty(t *testing.T) {
	svc, conn := newTestService(t)
	dbtest.MustCreateProduct(t, conn, "Anillo", "10.00", 1, nil)

	out, err := svc.List(context.Background(), ListInput{Category: "no-such-category"})
	require.NoError(t, err)
	assert.Empty(t, out.Products)
	assert.NotNil(t, out.Products)
	assert.Equal(t, int64(0), out.Pagination.Total)
	assert.Equal(t, 0, out.Pagination.Pages)
}

func TestGetReturnsActiveVariantsOnly(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	p := dbtest.MustCreateProduct(t, conn, "Anillo Talla", "50.00", 4, nil)
	override := decimal.RequireFromString("65.00")
	require.NoError(t, conn.Create(&models.ProductVariant{ProductID: p.ID, Name: "Talla 14", SKU: "V-14", Price: &override, StockQuantity: 2, IsActive: true}).Error)
	require.NoError(t, conn.Create(&models.ProductVariant{ProductID: p.ID, Name: "Talla 12", SKU: "V-12", StockQuantity: 1, IsActive: true}).Error)
	retired := &models.ProductVariant{ProductID: p.ID, Name: "Talla 10", SKU: "V-10", StockQuantity: 1, IsActive: true}
	require.NoError(t, conn.Create(retired).Error)
	require.NoError(t, conn.Model(retired).Update("is_active", false).Error)

	out, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, out.Variants, 2)
	assert.Equal(t, "Talla 12", out.Variants[0].Name)
	assert.Equal(t, 50.0, out.Variants[0].Price)
	assert.Equal(t, 65.0, out.Variants[1].Price)
	assert.True(t, out.InStock)
	assert.True(t, out.IsLowStock)

	_, err = svc.Get(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "product not found", pkgerrors.PublicMessage(err))
}

func TestCreateGeneratesUniqueSlugAndSKU(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	dbtest.MustCreateCategory(t, conn, "Anillos", "anillos")
	vendor := dbtest.MustCreateUser(t, conn)

	in := CreateInput{
		Name:          "Anillo Diseño Único",
		Price:         decPtr("99.90"),
		StockQuantity: intPtr(5),
		CategoryID:    "anillos",
		ImageURL:      strPtr("https://cdn.example.com/anillo.jpg"),
		Tags:          []string{" oro ", ""},
	}
	first, err := svc.Create(ctx, vendor.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "anillo-diseno-unico", first.Slug)
	assert.True(t, strings.HasPrefix(first.SKU, "ONX-"))
	assert.Len(t, first.SKU, len("ONX-")+8)
	require.NotNil(t, first.VendorID)
	assert.Equal(t, vendor.ID, *first.VendorID)
	require.NotNil(t, first.Category)
	assert.Equal(t, "anillos", first.Category.Slug)
	assert.Equal(t, []string{"oro"}, first.Tags)
	assert.True(t, first.IsActive)
	assert.True(t, first.TrackInventory)
	assert.Equal(t, models.DefaultLowStockThreshold, first.LowStockThreshold)

	second, err := svc.Create(ctx, vendor.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "anillo-diseno-unico-2", second.Slug)
	assert.NotEqual(t, first.SKU, second.SKU)

	third, err := svc.Create(ctx, vendor.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "anillo-diseno-unico-3", third.Slug)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	category := dbtest.MustCreateCategory(t, conn, "Broches", "broches")

	base := func() CreateInput {
		return CreateInput{Name: "Broche", Price: decPtr("15"), StockQuantity: intPtr(1), CategoryID: category.ID.String()}
	}

	cases := map[string]struct {
		mutate func(*CreateInput)
		msg    string
	}{
		"unknown category": {func(in *CreateInput) { in.CategoryID = "zapatos" }, "invalid category"},
		"relative image":   {func(in *CreateInput) { in.ImageURL = strPtr("/img/broche.png") }, "invalid image url"},
		"ftp image":        {func(in *CreateInput) { in.ImageURL = strPtr("ftp://host/broche.png") }, "invalid image url"},
		"negative price":   {func(in *CreateInput) { in.Price = decPtr("-1") }, "price must be non-negative"},
		"negative stock":   {func(in *CreateInput) { in.StockQuantity = intPtr(-2) }, "stock_quantity must be non-negative"},
		"missing price":    {func(in *CreateInput) { in.Price = nil }, "price is required"},
		"blank name":       {func(in *CreateInput) { in.Name = "   " }, "name is required"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := base()
			tc.mutate(&in)
			_, err := svc.Create(ctx, uuid.Nil, in)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
			assert.Equal(t, tc.msg, pkgerrors.PublicMessage(err))
		})
	}

	var count int64
	require.NoError(t, conn.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRejectsDuplicateSKU(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	category := dbtest.MustCreateCategory(t, conn, "Pulseras", "pulseras")

	in := CreateInput{Name: "Pulsera", SKU: strPtr("PUL-001"), Price: decPtr("20"), StockQuantity: intPtr(2), CategoryID: category.Name}
	_, err := svc.Create(ctx, uuid.Nil, in)
	require.NoError(t, err)

	_, err = svc.Create(ctx, uuid.Nil, in)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestUpdatePatchesFieldsAndRegeneratesSlug(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	rings := dbtest.MustCreateCategory(t, conn, "Anillos", "anillos")
	earrings := dbtest.MustCreateCategory(t, conn, "Pendientes", "pendientes")
	p := dbtest.MustCreateProduct(t, conn, "Aro", "30.00", 2, &rings.ID)

	out, err := svc.Update(ctx, p.ID, UpdateInput{
		Name:          strPtr("Aro Colgante"),
		Price:         decPtr("35.5"),
		StockQuantity: intPtr(9),
		IsFeatured:    boolPtr(true),
		CategoryID:    strPtr("pendientes"),
		Tags:          &[]string{"plata"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Aro Colgante", out.Name)
	assert.Equal(t, "aro-colgante", out.Slug)
	assert.Equal(t, 35.5, out.Price)
	assert.Equal(t, 9, out.StockQuantity)
	assert.True(t, out.IsFeatured)
	require.NotNil(t, out.CategoryID)
	assert.Equal(t, earrings.ID, *out.CategoryID)
	assert.Equal(t, []string{"plata"}, out.Tags)

	_, err = svc.Update(ctx, p.ID, UpdateInput{Price: decPtr("-0.01")})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Update(ctx, p.ID, UpdateInput{CategoryID: strPtr("zapatos")})
	require.Error(t, err)
	assert.Equal(t, "invalid category", pkgerrors.PublicMessage(err))

	_, err = svc.Update(ctx, uuid.New(), UpdateInput{IsActive: boolPtr(false)})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteHidesProduct(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	p := dbtest.MustCreateProduct(t, conn, "Broche Flor", "12.00", 1, nil)

	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err := svc.Get(ctx, p.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	var stored models.Product
	require.NoError(t, conn.First(&stored, "id = ?", p.ID).Error)
	assert.False(t, stored.IsActive)

	err = svc.Delete(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

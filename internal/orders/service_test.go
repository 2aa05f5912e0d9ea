package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/onix-commerce/onix-backend/pkg/db/dbtest"
	"github.com/onix-commerce/onix-backend/pkg/db/models"
	"github.com/onix-commerce/onix-backend/pkg/enums"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	"github.com/onix-commerce/onix-backend/pkg/types"
)

func seedOrder(t *testing.T, repo Repository, userID, productID uuid.UUID, number string, createdAt time.Time) *models.Order {
	t.Helper()
	pi := "pi_" + number
	order := &models.Order{
		OrderNumber:     number,
		UserID:          userID,
		Status:          enums.OrderStatusConfirmed,
		PaymentStatus:   enums.PaymentStatusPaid,
		PaymentMethod:   enums.PaymentMethodCreditCard,
		PaymentIntentID: &pi,
		Subtotal:        decimal.RequireFromString("20.00"),
		Total:           decimal.RequireFromString("20.00"),
		ShippingAddress: types.Address{Formatted: "Calle Mayor 1, Madrid"},
		BillingAddress:  types.Address{Formatted: "Calle Mayor 1, Madrid"},
		CreatedAt:       createdAt,
		Items: []models.OrderItem{{
			ProductID: productID,
			Quantity:  2,
			Price:     decimal.RequireFromString("10.00"),
			Total:     decimal.RequireFromString("20.00"),
			ProductSnapshot: models.ProductSnapshot{
				Name:  "Anillo",
				Price: decimal.RequireFromString("10.00"),
			},
		}},
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func setup(t *testing.T) (Service, Repository, *gorm.DB) {
	t.Helper()
	client := dbtest.New(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo, client.DB()
}

func TestListReturnsCallerOrdersNewestFirst(t *testing.T) {
	svc, repo, conn := setup(t)
	ctx := context.Background()
	user := dbtest.MustCreateUser(t, conn)
	other := dbtest.MustCreateUser(t, conn)
	p := dbtest.MustCreateProduct(t, conn, "Anillo", "10.00", 5, nil)

	now := time.Now().UTC()
	older := seedOrder(t, repo, user.ID, p.ID, "ORD-1", now.Add(-time.Hour))
	newer := seedOrder(t, repo, user.ID, p.ID, "ORD-2", now)
	seedOrder(t, repo, other.ID, p.ID, "ORD-3", now)

	out, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, newer.ID, out[0].ID)
	assert.Equal(t, older.ID, out[1].ID)
	require.Len(t, out[0].Items, 1)
	assert.Equal(t, "Anillo", out[0].Items[0].ProductSnapshot.Name)
	assert.Equal(t, 10.0, out[0].Items[0].ProductSnapshot.Price)
	assert.Equal(t, 20.0, out[0].Total)
	assert.Equal(t, "Calle Mayor 1, Madrid", out[0].ShippingAddress.Formatted)
}

func TestGetIsCallerScoped(t *testing.T) {
	svc, repo, conn := setup(t)
	ctx := context.Background()
	owner := dbtest.MustCreateUser(t, conn)
	stranger := dbtest.MustCreateUser(t, conn)
	p := dbtest.MustCreateProduct(t, conn, "Collar", "10.00", 5, nil)
	order := seedOrder(t, repo, owner.ID, p.ID, "ORD-9", time.Now())

	got, err := svc.Get(ctx, owner.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-9", got.OrderNumber)
	assert.Equal(t, enums.PaymentStatusPaid, got.PaymentStatus)

	_, err = svc.Get(ctx, stranger.ID, order.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "order not found", pkgerrors.PublicMessage(err))
}

func TestUpdateStatusesAndLookupByPaymentIntent(t *testing.T) {
	_, repo, conn := setup(t)
	ctx := context.Background()
	user := dbtest.MustCreateUser(t, conn)
	p := dbtest.MustCreateProduct(t, conn, "Broche", "10.00", 5, nil)
	order := seedOrder(t, repo, user.ID, p.ID, "ORD-5", time.Now())

	used, err := repo.PaymentIntentUsed(ctx, "pi_ORD-5")
	require.NoError(t, err)
	assert.True(t, used)

	require.NoError(t, repo.UpdateStatuses(ctx, order.ID, enums.OrderStatusRefunded, enums.PaymentStatusRefunded))
	found, err := repo.FindByPaymentIntent(ctx, "pi_ORD-5")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusRefunded, found.Status)
	assert.Equal(t, enums.PaymentStatusRefunded, found.PaymentStatus)

	assert.ErrorIs(t, repo.UpdateStatuses(ctx, uuid.New(), enums.OrderStatusCancelled, enums.PaymentStatusFailed), gorm.ErrRecordNotFound)
}

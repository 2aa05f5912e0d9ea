package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onix-commerce/onix-backend/internal/cart"
	"github.com/onix-commerce/onix-backend/internal/checkout/helpers"
	"github.com/onix-commerce/onix-backend/internal/checkout/reservation"
	"github.com/onix-commerce/onix-backend/internal/orders"
	"github.com/onix-commerce/onix-backend/pkg/config"
	"github.com/onix-commerce/onix-backend/pkg/db"
	"github.com/onix-commerce/onix-backend/pkg/db/models"
	"github.com/onix-commerce/onix-backend/pkg/enums"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	"github.com/onix-commerce/onix-backend/pkg/metrics"
	"github.com/onix-commerce/onix-backend/pkg/types"
)

const (
	msgIncompletePayment    = "incomplete payment data"
	msgCartEmpty            = "cart is empty"
	msgDuplicatePayment     = "payment already processed"
	msgOrderNumberCollision = "order number collision, retry"
	msgOrderCreated         = "order created successfully"

	defaultOrderNumberAttempts = 5
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reservationRunner interface {
	Reserve(ctx context.Context, tx *gorm.DB, requests []reservation.Request) ([]reservation.Result, error)
}

type reservationEngine struct{}

func (reservationEngine) Reserve(ctx context.Context, tx *gorm.DB, requests []reservation.Request) ([]reservation.Result, error) {
	return reservation.ReserveStock(ctx, tx, requests)
}

type checkoutMetrics interface {
	OrderCreated(total float64)
	Failed(reason string)
}

// ConfirmInput is the confirm-payment body.
type ConfirmInput struct {
	PaymentIntentID string         `json:"payment_intent_id"`
	ShippingAddress types.Address  `json:"shipping_address"`
	BillingAddress  *types.Address `json:"billing_address"`
	PaymentMethod   string         `json:"payment_method"`
	Notes           *string        `json:"notes"`
}

// ConfirmResult is returned with 201 once the order is committed.
type ConfirmResult struct {
	Message string           `json:"message"`
	Order   *orders.OrderDTO `json:"order"`
}

// Service turns a paid cart into an order.
type Service interface {
	ConfirmPayment(ctx context.Context, userID uuid.UUID, input ConfirmInput) (*ConfirmResult, error)
}

type ServiceParams struct {
	Tx          txRunner
	Cart        *cart.Repository
	Orders      orders.Repository
	Reservation reservationRunner
	Metrics     checkoutMetrics
	Config      config.CheckoutConfig
	Now         func() time.Time
}

type service struct {
	tx          txRunner
	cart        *cart.Repository
	orders      orders.Repository
	reservation reservationRunner
	metrics     checkoutMetrics
	now         func() time.Time
	attempts    int
	method      enums.PaymentMethod
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	case params.Cart == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repository required")
	case params.Orders == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	svc := &service{
		tx:          params.Tx,
		cart:        params.Cart,
		orders:      params.Orders,
		reservation: params.Reservation,
		metrics:     params.Metrics,
		now:         params.Now,
	}
	if svc.reservation == nil {
		svc.reservation = reservationEngine{}
	}
	if svc.metrics == nil {
		svc.metrics = (*metrics.CheckoutMetrics)(nil)
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	svc.attempts = params.Config.OrderNumberAttempts
	if svc.attempts <= 0 {
		svc.attempts = defaultOrderNumberAttempts
	}
	svc.method = enums.PaymentMethodCreditCard
	if raw := strings.TrimSpace(params.Config.DefaultPaymentMethod); raw != "" {
		method, err := enums.ParsePaymentMethod(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "default payment method")
		}
		svc.method = method
	}
	return svc, nil
}

func (s *service) ConfirmPayment(ctx context.Context, userID uuid.UUID, input ConfirmInput) (*ConfirmResult, error) {
	paymentIntentID := strings.TrimSpace(input.PaymentIntentID)
	if paymentIntentID == "" || input.ShippingAddress.IsEmpty() {
		s.metrics.Failed(metrics.ReasonInvalidInput)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgIncompletePayment)
	}
	method := s.method
	if raw := strings.TrimSpace(input.PaymentMethod); raw != "" {
		parsed, err := enums.ParsePaymentMethod(raw)
		if err != nil {
			s.metrics.Failed(metrics.ReasonInvalidInput)
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
		}
		method = parsed
	}
	billing := input.ShippingAddress
	if input.BillingAddress != nil && !input.BillingAddress.IsEmpty() {
		billing = *input.BillingAddress
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cart.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)

		items, err := cartRepo.ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, msgCartEmpty)
		}
		if err := helpers.ValidateStock(items); err != nil {
			return err
		}

		used, err := ordersRepo.PaymentIntentUsed(ctx, paymentIntentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check payment intent")
		}
		if used {
			return pkgerrors.New(pkgerrors.CodeConflict, msgDuplicatePayment)
		}

		number, err := s.allocateOrderNumber(ctx, ordersRepo)
		if err != nil {
			return err
		}

		totals := helpers.ComputeTotals(items)
		order := &models.Order{
			OrderNumber:     number,
			UserID:          userID,
			Status:          enums.OrderStatusConfirmed,
			PaymentStatus:   enums.PaymentStatusPaid,
			PaymentMethod:   method,
			PaymentIntentID: &paymentIntentID,
			Subtotal:        totals.Subtotal,
			Tax:             totals.Tax,
			Shipping:        totals.Shipping,
			Discount:        totals.Discount,
			Total:           totals.Total,
			ShippingAddress: input.ShippingAddress,
			BillingAddress:  billing,
			Notes:           trimmed(input.Notes),
			Items:           make([]models.OrderItem, 0, len(items)),
		}
		requests := make([]reservation.Request, 0, len(items))
		for _, item := range items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID:        item.ProductID,
				ProductVariantID: item.ProductVariantID,
				Quantity:         item.Quantity,
				Price:            item.Price,
				Total:            item.Subtotal().Round(2),
				ProductSnapshot:  helpers.Snapshot(item),
			})
			requests = append(requests, reservation.Request{
				CartItemID: item.ID,
				ProductID:  item.ProductID,
				VariantID:  item.ProductVariantID,
				Qty:        item.Quantity,
			})
		}

		if err := ordersRepo.Create(ctx, order); err != nil {
			switch {
			case db.IsUniqueViolation(err, "payment_intent"):
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgDuplicatePayment)
			case db.IsUniqueViolation(err, "order_number"):
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgOrderNumberCollision)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		results, err := s.reservation.Reserve(ctx, tx, requests)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserve stock")
		}
		for i, res := range results {
			if !res.Reserved {
				return helpers.InsufficientStock(helpers.LineName(items[i]))
			}
		}

		if _, err := cartRepo.ClearForUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		created = order
		return nil
	})
	if err != nil {
		s.metrics.Failed(failureReason(err))
		return nil, err
	}

	s.metrics.OrderCreated(types.Money(created.Total))
	return &ConfirmResult{Message: msgOrderCreated, Order: orders.NewOrderDTO(created)}, nil
}

func (s *service) allocateOrderNumber(ctx context.Context, repo orders.Repository) (string, error) {
	for attempt := 0; attempt < s.attempts; attempt++ {
		number, err := helpers.NewOrderNumber(s.now())
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}
		taken, err := repo.OrderNumberExists(ctx, number)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check order number")
		}
		if !taken {
			return number, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not allocate order number")
}

func failureReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return metrics.ReasonError
	}
	switch {
	case typed.Code() == pkgerrors.CodeOutOfStock:
		return metrics.ReasonInsufficientStock
	case typed.Code() == pkgerrors.CodeConflict && typed.Message() == msgOrderNumberCollision:
		return metrics.ReasonOrderNumberCollision
	case typed.Code() == pkgerrors.CodeConflict:
		return metrics.ReasonDuplicatePayment
	case typed.Code() == pkgerrors.CodeValidation && typed.Message() == msgCartEmpty:
		return metrics.ReasonEmptyCart
	case typed.Code() == pkgerrors.CodeValidation:
		return metrics.ReasonInvalidInput
	}
	return metrics.ReasonError
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

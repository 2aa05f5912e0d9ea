package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/onix-commerce/onix-backend/internal/orders"
	"github.com/onix-commerce/onix-backend/pkg/enums"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	"github.com/onix-commerce/onix-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	Orders            orders.Repository
	TransactionRunner txRunner
	Logger            *logger.Logger
}

// Service applies payment lifecycle events to the orders they reference.
type Service struct {
	orders   orders.Repository
	txRunner txRunner
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{orders: params.Orders, txRunner: params.TransactionRunner, logg: logg}, nil
}

// HandleEvent acknowledges unknown event types without doing anything.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent event")
		}
		return s.transition(ctx, intent.ID, func(current enums.OrderStatus) (enums.OrderStatus, enums.PaymentStatus) {
			return current, enums.PaymentStatusFailed
		})
	case stripe.EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode charge event")
		}
		if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
			return nil
		}
		full := charge.Refunded || (charge.Amount > 0 && charge.AmountRefunded >= charge.Amount)
		return s.transition(ctx, charge.PaymentIntent.ID, func(current enums.OrderStatus) (enums.OrderStatus, enums.PaymentStatus) {
			if !full {
				return current, enums.PaymentStatusPartiallyRefunded
			}
			if current.CanTransitionTo(enums.OrderStatusRefunded) {
				return enums.OrderStatusRefunded, enums.PaymentStatusRefunded
			}
			return current, enums.PaymentStatusRefunded
		})
	default:
		return nil
	}
}

type transitionFunc func(current enums.OrderStatus) (enums.OrderStatus, enums.PaymentStatus)

// transition moves the order owning paymentIntentID. Events for unknown
// intents and disallowed payment moves are ignored.
func (s *Service) transition(ctx context.Context, paymentIntentID string, next transitionFunc) error {
	if paymentIntentID == "" {
		return nil
	}
	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		order, err := repo.FindByPaymentIntent(ctx, paymentIntentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logg.Warn(ctx, "stripe event for unknown payment intent "+paymentIntentID)
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}

		status, payment := next(order.Status)
		if payment == order.PaymentStatus && status == order.Status {
			return nil
		}
		if payment != order.PaymentStatus && !order.PaymentStatus.CanTransitionTo(payment) {
			s.logg.Warn(ctx, "ignoring payment status "+string(order.PaymentStatus)+" -> "+string(payment)+" for order "+order.OrderNumber)
			return nil
		}
		if err := repo.UpdateStatuses(ctx, order.ID, status, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		return nil
	})
}

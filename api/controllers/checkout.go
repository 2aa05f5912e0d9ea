package controllers

import (
	"net/http"

	"github.com/onix-commerce/onix-backend/api/middleware"
	"github.com/onix-commerce/onix-backend/api/responses"
	"github.com/onix-commerce/onix-backend/api/validators"
	"github.com/onix-commerce/onix-backend/internal/checkout"
	"github.com/onix-commerce/onix-backend/internal/payments"
	pkgerrors "github.com/onix-commerce/onix-backend/pkg/errors"
	"github.com/onix-commerce/onix-backend/pkg/logger"
)

// CreatePaymentIntent prices the caller's cart and opens a Stripe payment intent.
func CreatePaymentIntent(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "payment provider unavailable"))
			return
		}
		userID, err := middleware.CurrentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateIntent(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ConfirmPayment converts the caller's cart into a confirmed order.
func ConfirmPayment(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		userID, err := middleware.CurrentUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkout.ConfirmInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ConfirmPayment(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil && result.Order != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"order_id":     result.Order.ID,
				"order_number": result.Order.OrderNumber,
			})
			logg.Info(ctx, "checkout.order_created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

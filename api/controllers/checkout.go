package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dropshoplabs/dropshop-backend/api/middleware"
	"github.com/dropshoplabs/dropshop-backend/api/responses"
	"github.com/dropshoplabs/dropshop-backend/api/validators"
	checkoutsvc "github.com/dropshoplabs/dropshop-backend/internal/checkout"
	"github.com/dropshoplabs/dropshop-backend/internal/pricing"
	"github.com/dropshoplabs/dropshop-backend/pkg/enums"
	pkgerrors "github.com/dropshoplabs/dropshop-backend/pkg/errors"
	"github.com/dropshoplabs/dropshop-backend/pkg/logger"
	"github.com/dropshoplabs/dropshop-backend/pkg/types"
)

type checkoutRequest struct {
	ShippingAddress types.Address `json:"shipping_address" validate:"required"`
	ShippingMethod  string        `json:"shipping_method" validate:"required"`
	PaymentMethod   string        `json:"payment_method" validate:"required"`
}

type quoteResponse struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type checkoutResponse struct {
	Order orderResponse `json:"order"`
	Quote quoteResponse `json:"quote"`
}

func newQuoteResponse(quote pricing.Quote) quoteResponse {
	return quoteResponse{
		Subtotal: quote.Subtotal,
		Shipping: quote.Shipping,
		Tax:      quote.Tax,
		Total:    quote.Total,
	}
}

// CheckoutQuote prices the session's cart for a shipping method without
// placing an order.
func CheckoutQuote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		method, err := enums.ParseShippingMethod(r.URL.Query().Get("shipping_method"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping method"))
			return
		}

		quote, err := svc.QuoteCart(r.Context(), middleware.SessionIDFromContext(r.Context()), method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

// Checkout turns the session's cart into an order for the signed-in shopper.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := contextUserID(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParseShippingMethod(payload.ShippingMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping method"))
			return
		}
		payment, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		result, err := svc.PlaceOrder(r.Context(), checkoutsvc.Input{
			SessionID:       middleware.SessionIDFromContext(r.Context()),
			UserID:          userID,
			UserEmail:       middleware.UserEmailFromContext(r.Context()),
			ShippingAddress: payload.ShippingAddress,
			ShippingMethod:  method,
			PaymentMethod:   payment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			Order: newOrderResponse(result.Order),
			Quote: newQuoteResponse(result.Quote),
		})
	}
}

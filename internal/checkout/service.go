package checkout

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dropshoplabs/dropshop-backend/internal/cart"
	"github.com/dropshoplabs/dropshop-backend/internal/orders"
	"github.com/dropshoplabs/dropshop-backend/internal/pricing"
	"github.com/dropshoplabs/dropshop-backend/pkg/db/models"
	"github.com/dropshoplabs/dropshop-backend/pkg/enums"
	pkgerrors "github.com/dropshoplabs/dropshop-backend/pkg/errors"
	"github.com/dropshoplabs/dropshop-backend/pkg/logger"
	"github.com/dropshoplabs/dropshop-backend/pkg/types"
)

// Input carries everything the shopper submits to place an order.
type Input struct {
	SessionID       string
	UserID          uuid.UUID
	UserEmail       string
	ShippingAddress types.Address
	ShippingMethod  enums.ShippingMethod
	PaymentMethod   enums.PaymentMethod
}

// Result is the placed order plus the quote it was priced from.
type Result struct {
	Order *models.Order `json:"order"`
	Quote pricing.Quote `json:"quote"`
}

// Service turns a session cart into a persisted order.
type Service interface {
	PlaceOrder(ctx context.Context, input Input) (*Result, error)
	QuoteCart(ctx context.Context, sessionID string, method enums.ShippingMethod) (pricing.Quote, error)
}

type service struct {
	carts    cart.Service
	orders   orders.Service
	validate *validator.Validate
	logg     *logger.Logger
}

// NewService builds the checkout service.
func NewService(carts cart.Service, orderSvc orders.Service, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:    carts,
		orders:   orderSvc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logg:     logg,
	}, nil
}

// QuoteCart prices the session's current cart without placing an order.
func (s *service) QuoteCart(ctx context.Context, sessionID string, method enums.ShippingMethod) (pricing.Quote, error) {
	snapshot, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.QuoteCart(snapshot, method)
}

func (s *service) PlaceOrder(ctx context.Context, input Input) (*Result, error) {
	if input.SessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.ShippingMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if err := s.validate.StructCtx(ctx, input.ShippingAddress); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "incomplete shipping address").
			WithDetails(addressFieldErrors(err))
	}

	snapshot, err := s.carts.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if snapshot.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	quote, err := pricing.QuoteCart(snapshot, input.ShippingMethod)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Create(ctx, orders.CreateInput{
		UserID:          input.UserID,
		UserEmail:       input.UserEmail,
		Lines:           snapshot.Lines,
		ShippingAddress: input.ShippingAddress,
		ShippingMethod:  input.ShippingMethod,
		PaymentMethod:   input.PaymentMethod,
		Subtotal:        quote.Subtotal,
		Shipping:        quote.Shipping,
		Tax:             quote.Tax,
		Total:           quote.Total,
	})
	if err != nil {
		return nil, err
	}

	// The order exists now; failing to clear the cart must not unwind it.
	if _, err := s.carts.Clear(ctx, input.SessionID); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, input.SessionID), "clearing cart after checkout failed")
	}

	return &Result{Order: order, Quote: quote}, nil
}

func addressFieldErrors(err error) map[string]string {
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	details := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		details[fe.Field()] = fe.Tag()
	}
	return details
}

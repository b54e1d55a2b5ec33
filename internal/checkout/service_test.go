package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropshoplabs/dropshop-backend/internal/cart"
	"github.com/dropshoplabs/dropshop-backend/internal/orders"
	"github.com/dropshoplabs/dropshop-backend/pkg/db/models"
	"github.com/dropshoplabs/dropshop-backend/pkg/enums"
	pkgerrors "github.com/dropshoplabs/dropshop-backend/pkg/errors"
	"github.com/dropshoplabs/dropshop-backend/pkg/logger"
	"github.com/dropshoplabs/dropshop-backend/pkg/pagination"
	"github.com/dropshoplabs/dropshop-backend/pkg/types"
)

type stubCartService struct {
	carts   map[string]cart.Cart
	cleared []string
}

func newStubCartService(carts ...cart.Cart) *stubCartService {
	s := &stubCartService{carts: map[string]cart.Cart{}}
	for _, c := range carts {
		s.carts[c.SessionID] = c
	}
	return s
}

func (s *stubCartService) Get(ctx context.Context, sessionID string) (cart.Cart, error) {
	if c, ok := s.carts[sessionID]; ok {
		return c, nil
	}
	return cart.New(sessionID), nil
}

func (s *stubCartService) AddLine(ctx context.Context, sessionID string, line cart.Line) (cart.Cart, error) {
	c := s.carts[sessionID].Add(line)
	s.carts[sessionID] = c
	return c, nil
}

func (s *stubCartService) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (cart.Cart, error) {
	c := s.carts[sessionID].SetQuantity(productID, quantity)
	s.carts[sessionID] = c
	return c, nil
}

func (s *stubCartService) RemoveLine(ctx context.Context, sessionID string, productID uuid.UUID) (cart.Cart, error) {
	c := s.carts[sessionID].Remove(productID)
	s.carts[sessionID] = c
	return c, nil
}

func (s *stubCartService) Clear(ctx context.Context, sessionID string) (cart.Cart, error) {
	s.cleared = append(s.cleared, sessionID)
	delete(s.carts, sessionID)
	return cart.New(sessionID), nil
}

type stubOrderService struct {
	createFn func(ctx context.Context, input orders.CreateInput) (*models.Order, error)
	created  []orders.CreateInput
}

func (s *stubOrderService) Create(ctx context.Context, input orders.CreateInput) (*models.Order, error) {
	s.created = append(s.created, input)
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &models.Order{
		ID:          uuid.New(),
		UserID:      input.UserID,
		OrderNumber: "ORD-TEST00001",
		Status:      enums.OrderStatusPending,
		Total:       input.Total,
	}, nil
}

func (s *stubOrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrderService) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrderService) Track(ctx context.Context, orderNumber string) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrderService) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrderService) List(ctx context.Context, params pagination.Params, filters orders.Filters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrderService) SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrderService) AdvanceStatus(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrderService) Revenue(ctx context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubOrderService) DashboardStats(ctx context.Context) (*orders.DashboardStats, error) {
	return &orders.DashboardStats{}, nil
}

func newTestCheckout(t *testing.T, carts cart.Service, orderSvc orders.Service) Service {
	t.Helper()
	svc, err := NewService(carts, orderSvc, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	return svc
}

func seededCart(sessionID string) cart.Cart {
	return cart.New(sessionID).
		Add(cart.Line{ProductID: uuid.New(), Name: "widget", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2}).
		Add(cart.Line{ProductID: uuid.New(), Name: "gadget", UnitPrice: decimal.RequireFromString("25.00"), Quantity: 1})
}

func validAddress() types.Address {
	return types.Address{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Address:   "1 Infinite Loop",
		City:      "Springfield",
		State:     "IL",
		ZipCode:   "62701",
		Country:   "US",
		Phone:     "+1-555-0100",
	}
}

func validInput() Input {
	return Input{
		SessionID:       "sess-1",
		UserID:          uuid.New(),
		UserEmail:       "shopper@example.com",
		ShippingAddress: validAddress(),
		ShippingMethod:  enums.ShippingMethodExpress,
		PaymentMethod:   enums.PaymentMethodCard,
	}
}

func TestPlaceOrder(t *testing.T) {
	carts := newStubCartService(seededCart("sess-1"))
	orderSvc := &stubOrderService{}
	svc := newTestCheckout(t, carts, orderSvc)

	result, err := svc.PlaceOrder(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, result.Quote.Subtotal.Equal(decimal.RequireFromString("45.00")))
	assert.True(t, result.Quote.Shipping.Equal(decimal.RequireFromString("15.99")))
	assert.True(t, result.Quote.Tax.Equal(decimal.RequireFromString("3.60")))
	assert.True(t, result.Quote.Total.Equal(decimal.RequireFromString("64.59")))
	assert.True(t, result.Order.Total.Equal(decimal.RequireFromString("64.59")))

	require.Len(t, orderSvc.created, 1)
	assert.Len(t, orderSvc.created[0].Lines, 2)
	assert.Equal(t, []string{"sess-1"}, carts.cleared)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	carts := newStubCartService()
	svc := newTestCheckout(t, carts, &stubOrderService{})

	_, err := svc.PlaceOrder(context.Background(), validInput())

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Empty(t, carts.cleared)
}

func TestPlaceOrderIncompleteAddress(t *testing.T) {
	carts := newStubCartService(seededCart("sess-1"))
	svc := newTestCheckout(t, carts, &stubOrderService{})

	input := validInput()
	input.ShippingAddress.City = ""
	input.ShippingAddress.ZipCode = ""

	_, err := svc.PlaceOrder(context.Background(), input)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "City")
	assert.Contains(t, details, "ZipCode")
}

func TestPlaceOrderRequiresAuthenticatedUser(t *testing.T) {
	svc := newTestCheckout(t, newStubCartService(seededCart("sess-1")), &stubOrderService{})

	input := validInput()
	input.UserID = uuid.Nil

	_, err := svc.PlaceOrder(context.Background(), input)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestPlaceOrderKeepsCartWhenCreateFails(t *testing.T) {
	carts := newStubCartService(seededCart("sess-1"))
	orderSvc := &stubOrderService{
		createFn: func(ctx context.Context, input orders.CreateInput) (*models.Order, error) {
			return nil, errors.New("db down")
		},
	}
	svc := newTestCheckout(t, carts, orderSvc)

	_, err := svc.PlaceOrder(context.Background(), validInput())

	require.Error(t, err)
	assert.Empty(t, carts.cleared)
}

func TestQuoteCart(t *testing.T) {
	svc := newTestCheckout(t, newStubCartService(seededCart("sess-1")), &stubOrderService{})

	quote, err := svc.QuoteCart(context.Background(), "sess-1", enums.ShippingMethodStandard)
	require.NoError(t, err)

	assert.True(t, quote.Subtotal.Equal(decimal.RequireFromString("45.00")))
	assert.True(t, quote.Shipping.IsZero())
	assert.True(t, quote.Tax.Equal(decimal.RequireFromString("3.60")))
	assert.True(t, quote.Total.Equal(decimal.RequireFromString("48.60")))
}

package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dropshoplabs/dropshop-backend/internal/cart"
	"github.com/dropshoplabs/dropshop-backend/pkg/db/models"
	"github.com/dropshoplabs/dropshop-backend/pkg/enums"
	"github.com/dropshoplabs/dropshop-backend/pkg/types"
)

// Filters describe the inputs supported by the admin order list.
type Filters struct {
	Status   *enums.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
	// Query matches against order number or customer email.
	Query string
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// CreateInput carries everything needed to persist a new order. Totals come
// from the pricing quote taken at checkout and are stored as given.
type CreateInput struct {
	UserID          uuid.UUID
	UserEmail       string
	Lines           []cart.Line
	ShippingAddress types.Address
	ShippingMethod  enums.ShippingMethod
	PaymentMethod   enums.PaymentMethod
	Subtotal        decimal.Decimal
	Shipping        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
}

// DashboardStats aggregates the admin dashboard figures. Revenue is derived
// from the orders table on every read rather than kept as a running counter.
type DashboardStats struct {
	TotalOrders      int64                       `json:"total_orders"`
	Revenue          decimal.Decimal             `json:"revenue"`
	CancellationLoss decimal.Decimal             `json:"cancellation_loss"`
	StatusCounts     map[enums.OrderStatus]int64 `json:"status_counts"`
}

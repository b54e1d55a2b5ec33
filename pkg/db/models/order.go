package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dropshoplabs/dropshop-backend/pkg/enums"
	"github.com/dropshoplabs/dropshop-backend/pkg/types"
)

// Order is the record created once per completed checkout. Totals are
// computed at creation and never recomputed from items afterwards.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null"`
	UserEmail       string               `gorm:"column:user_email;not null"`
	OrderNumber     string               `gorm:"column:order_number;not null;uniqueIndex:idx_orders_order_number"`
	Status          enums.OrderStatus    `gorm:"column:status;not null;default:'pending'"`
	ShippingAddress types.Address        `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	ShippingMethod  enums.ShippingMethod `gorm:"column:shipping_method;not null"`
	PaymentMethod   enums.PaymentMethod  `gorm:"column:payment_method;not null"`
	Subtotal        decimal.Decimal      `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Shipping        decimal.Decimal      `gorm:"column:shipping;type:numeric(12,2);not null"`
	Tax             decimal.Decimal      `gorm:"column:tax;type:numeric(12,2);not null"`
	Total           decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

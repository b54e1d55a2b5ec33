package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/dropshoplabs/dropshop-backend/pkg/types"
)

// Product represents the canonical catalog listing. Shopping flows read it;
// only admin operations mutate it.
type Product struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string           `gorm:"column:name;not null"`
	Description    string           `gorm:"column:description;not null"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice  *decimal.Decimal `gorm:"column:original_price;type:numeric(12,2)"`
	Category       string           `gorm:"column:category;not null"`
	Images         pq.StringArray   `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Badge          *string          `gorm:"column:badge"`
	Rating         float64          `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	Reviews        int              `gorm:"column:reviews;not null;default:0"`
	Features       pq.StringArray   `gorm:"column:features;type:text[];not null;default:ARRAY[]::text[]"`
	Specifications types.JSONMap    `gorm:"column:specifications;type:jsonb;serializer:json"`
	InStock        bool             `gorm:"column:in_stock;not null;default:true"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

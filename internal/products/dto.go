package products

import (
	"github.com/shopspring/decimal"

	"github.com/dropshoplabs/dropshop-backend/pkg/db/models"
	"github.com/dropshoplabs/dropshop-backend/pkg/types"
)

// Filters describe the inputs supported by the catalog list.
type Filters struct {
	Category    string
	InStockOnly bool
	// Query matches against product name.
	Query string
}

// ProductList wraps a page of products plus the next page cursor.
type ProductList struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// CreateInput carries the fields admins submit for a new listing.
type CreateInput struct {
	Name           string           `json:"name" validate:"required"`
	Description    string           `json:"description" validate:"required"`
	Price          decimal.Decimal  `json:"price" validate:"required"`
	OriginalPrice  *decimal.Decimal `json:"original_price,omitempty"`
	Category       string           `json:"category" validate:"required"`
	Images         []string         `json:"images,omitempty"`
	Badge          *string          `json:"badge,omitempty"`
	Features       []string         `json:"features,omitempty"`
	Specifications types.JSONMap    `json:"specifications,omitempty"`
	InStock        *bool            `json:"in_stock,omitempty"`
}

// UpdateInput carries a partial listing update; nil fields are untouched.
type UpdateInput struct {
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	OriginalPrice  *decimal.Decimal `json:"original_price,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Badge          *string          `json:"badge,omitempty"`
	Features       []string         `json:"features,omitempty"`
	Specifications types.JSONMap    `json:"specifications,omitempty"`
	InStock        *bool            `json:"in_stock,omitempty"`
}

package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is a single product entry in a cart. UnitPrice, OriginalUnitPrice,
// ImageURL and Category are copied from the catalog when the line is added
// and are not refreshed afterwards.
type Line struct {
	ProductID         uuid.UUID        `json:"product_id"`
	Name              string           `json:"name"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	OriginalUnitPrice *decimal.Decimal `json:"original_unit_price,omitempty"`
	Quantity          int              `json:"quantity"`
	ImageURL          string           `json:"image_url,omitempty"`
	Category          string           `json:"category,omitempty"`
}

// Subtotal returns unit price times quantity for the line.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the session-scoped shopping cart. It is a value type: every
// mutation returns a new Cart and never aliases the receiver's line slice,
// so snapshots handed to callers stay stable.
type Cart struct {
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an empty cart bound to the session.
func New(sessionID string) Cart {
	return Cart{SessionID: sessionID, UpdatedAt: time.Now().UTC()}
}

// Add merges the line into the cart. An existing line for the same product
// has its quantity incremented; otherwise the line is appended.
func (c Cart) Add(line Line) Cart {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}

	next := c.cloneLines()
	merged := false
	for i := range next {
		if next[i].ProductID == line.ProductID {
			next[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, line)
	}
	return c.with(next)
}

// SetQuantity replaces the quantity for a product. A quantity of zero or
// less removes the line.
func (c Cart) SetQuantity(productID uuid.UUID, quantity int) Cart {
	if quantity <= 0 {
		return c.Remove(productID)
	}

	next := c.cloneLines()
	for i := range next {
		if next[i].ProductID == productID {
			next[i].Quantity = quantity
			break
		}
	}
	return c.with(next)
}

// Remove drops the line for the product if present.
func (c Cart) Remove(productID uuid.UUID) Cart {
	next := make([]Line, 0, len(c.Lines))
	for _, line := range c.Lines {
		if line.ProductID == productID {
			continue
		}
		next = append(next, line)
	}
	return c.with(next)
}

// Clear returns an empty cart for the same session.
func (c Cart) Clear() Cart {
	return New(c.SessionID)
}

// Subtotal sums unit price times quantity over every line.
func (c Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range c.Lines {
		subtotal = subtotal.Add(line.Subtotal())
	}
	return subtotal
}

// TotalQuantity sums the quantities over every line.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) cloneLines() []Line {
	next := make([]Line, len(c.Lines))
	copy(next, c.Lines)
	return next
}

func (c Cart) with(lines []Line) Cart {
	return Cart{
		SessionID: c.SessionID,
		Lines:     lines,
		UpdatedAt: time.Now().UTC(),
	}
}

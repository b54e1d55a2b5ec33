package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dropshoplabs/dropshop-backend/internal/cart"
	"github.com/dropshoplabs/dropshop-backend/pkg/enums"
	pkgerrors "github.com/dropshoplabs/dropshop-backend/pkg/errors"
)

// taxRate is the flat sales tax applied to the merchandise subtotal.
// Shipping is not taxed.
var taxRate = decimal.RequireFromString("0.08")

// Quote is the full price breakdown for a cart. All amounts are rounded to
// cents and Total is always Subtotal + Shipping + Tax.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// QuoteCart computes the price breakdown for the cart under the chosen
// shipping method.
func QuoteCart(c cart.Cart, method enums.ShippingMethod) (Quote, error) {
	if !method.IsValid() {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
	}

	subtotal := c.Subtotal().Round(2)
	shipping := method.Fee()
	tax := subtotal.Mul(taxRate).Round(2)

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}, nil
}

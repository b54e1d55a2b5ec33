package enums

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ShippingMethod identifies the delivery speed chosen at checkout.
type ShippingMethod string

const (
	ShippingMethodStandard  ShippingMethod = "standard"
	ShippingMethodExpress   ShippingMethod = "express"
	ShippingMethodOvernight ShippingMethod = "overnight"
)

var validShippingMethods = []ShippingMethod{
	ShippingMethodStandard,
	ShippingMethodExpress,
	ShippingMethodOvernight,
}

var shippingFees = map[ShippingMethod]decimal.Decimal{
	ShippingMethodStandard:  decimal.Zero,
	ShippingMethodExpress:   decimal.RequireFromString("15.99"),
	ShippingMethodOvernight: decimal.RequireFromString("29.99"),
}

// String implements fmt.Stringer.
func (m ShippingMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ShippingMethod.
func (m ShippingMethod) IsValid() bool {
	for _, candidate := range validShippingMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// Fee returns the flat shipping charge for the method.
func (m ShippingMethod) Fee() decimal.Decimal {
	return shippingFees[m]
}

// ParseShippingMethod converts raw input into a ShippingMethod.
func ParseShippingMethod(value string) (ShippingMethod, error) {
	for _, candidate := range validShippingMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping method %q", value)
}

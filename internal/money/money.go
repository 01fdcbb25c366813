package money

import "fmt"

// Cents is a monetary amount in hundredths of the currency unit.
// Integer arithmetic keeps totals exact at two decimal places.
type Cents int64

// Mul returns the amount multiplied by a quantity.
func (c Cents) Mul(qty int) Cents {
	return c * Cents(qty)
}

// String renders the amount as a decimal with two fraction digits,
// e.g. 3150 -> "31.50".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

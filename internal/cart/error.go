package cart

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCartOwnership     = errors.New("cart does not belong to customer")
	ErrMissingRestaurant = errors.New("cart has no restaurant")
	ErrInvalidQuantity   = errors.New("invalid cart quantity")
)

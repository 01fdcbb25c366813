package checkout

import "errors"

var (
	// ErrInvalidPricing rejects carts whose computed total is not a
	// positive amount.
	ErrInvalidPricing = errors.New("invalid order pricing")

	// ErrRestaurantUnavailable is returned when a lookup that pricing
	// depends on cannot be served, circuit open included.
	ErrRestaurantUnavailable = errors.New("restaurant service unavailable")

	// ErrPaymentDeclined is terminal for the attempt; no order exists.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPaymentUnavailable covers exhausted retries or an open
	// breaker toward the payment provider.
	ErrPaymentUnavailable = errors.New("payment service unavailable")
)

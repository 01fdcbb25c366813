package order

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrNotCancellable     = errors.New("order can no longer be cancelled")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPaymentNotCaptured = errors.New("payment not captured")
	ErrConflict           = errors.New("order was modified concurrently")
)

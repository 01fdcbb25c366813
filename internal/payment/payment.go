package payment

import (
	"context"

	"dishpatch-be/internal/money"
)

// Gateway is the external payment processor. Charge must be idempotent
// under retry of the same idempotency key: the provider applies at most
// one capture per key.
type Gateway interface {
	Charge(ctx context.Context, customerID, paymentMethodID string, amount money.Cents, idempotencyKey string) (*Result, error)
	// Refund reverses a capture. A zero amount refunds in full.
	Refund(ctx context.Context, providerPaymentID string, amount money.Cents) (*Result, error)
}

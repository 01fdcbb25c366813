package payment

import (
	"time"

	"dishpatch-be/internal/money"
)

// Method is a stored payment instrument. It is created by the
// customer-facing payment-method flow and read-only here.
type Method struct {
	ID         string
	CustomerID string
	Provider   string
	Token      string
	CardBrand  string
	CardLast4  string
	IsDefault  bool
	CreatedAt  time.Time
}

// Payment is the persisted record of one charge attempt.
type Payment struct {
	ID                int64
	OrderID           string
	ProviderPaymentID string
	IdempotencyKey    string
	Amount            money.Cents
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Result is the provider's answer to a charge or refund.
type Result struct {
	ProviderPaymentID string      `json:"payment_id"`
	Status            string      `json:"status"`
	Amount            money.Cents `json:"amount"`
}

const (
	StatusCaptured      = "CAPTURED"
	StatusRefunded      = "REFUNDED"
	StatusRefundPending = "REFUND_PENDING"
)

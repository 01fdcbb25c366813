package order

import "fmt"

// transitions is the full status table. An order may only move to a
// status adjacent to its current one; CANCELLED is reachable from the
// pre-dispatch statuses only.
var transitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup: {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
}

// ParseStatus validates a wire-level status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReadyForPickup,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// CanTransitionTo reports whether next is adjacent to s in the table.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in s may still be cancelled.
func (s Status) Cancellable() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// Terminal reports whether s ends the order lifecycle.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Transition applies next to the order, enforcing the table and the
// payment gates. An illegal request leaves the order unchanged.
func (o *Order) Transition(next Status) error {
	if !o.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}

	if next == StatusConfirmed && o.PaymentStatus != PaymentCaptured {
		return ErrPaymentNotCaptured
	}

	// Cancelling a paid order requests the refund before the
	// transition commits; completion is reported later by the
	// payment provider.
	if next == StatusCancelled && (o.Status == StatusConfirmed || o.Status == StatusPreparing) {
		o.PaymentStatus = PaymentRefundPending
	}

	o.Status = next
	o.touch()
	return nil
}

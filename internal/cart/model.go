package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"dishpatch-be/internal/money"
)

// Item is one line of a cart at checkout time.
type Item struct {
	MenuItemID string      `json:"menu_item_id"`
	Name       string      `json:"name"`
	Quantity   int         `json:"quantity"`
	UnitPrice  money.Cents `json:"unit_price"`
}

// Snapshot is the immutable cart state handed to checkout. It is owned
// by the upstream cart service; the orchestrator never mutates it.
type Snapshot struct {
	CustomerID   string `json:"customer_id"`
	RestaurantID string `json:"restaurant_id"`
	Items        []Item `json:"items"`
}

// Subtotal sums unit price times quantity over all items.
func (s Snapshot) Subtotal() money.Cents {
	var total money.Cents
	for _, item := range s.Items {
		total += item.UnitPrice.Mul(item.Quantity)
	}
	return total
}

// Validate checks the snapshot against the given customer before any
// side effect is taken.
func (s Snapshot) Validate(customerID string) error {
	if len(s.Items) == 0 {
		return ErrEmptyCart
	}
	if s.CustomerID != customerID {
		return ErrCartOwnership
	}
	if s.RestaurantID == "" {
		return ErrMissingRestaurant
	}
	for _, item := range s.Items {
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Hash returns a stable digest of the snapshot contents, used to derive
// payment idempotency keys for one checkout attempt.
func (s Snapshot) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s", s.CustomerID, s.RestaurantID)
	for _, item := range s.Items {
		fmt.Fprintf(h, "|%s:%d:%d", item.MenuItemID, item.Quantity, item.UnitPrice)
	}
	return hex.EncodeToString(h.Sum(nil))
}

package restaurant

import (
	"context"

	"dishpatch-be/internal/money"
)

// MenuItem is one entry of a restaurant's menu snapshot. Price is the
// authoritative amount used for order pricing.
type MenuItem struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Price money.Cents `json:"price"`
}

// Info is the restaurant context fetched at checkout time.
type Info struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Menu []MenuItem `json:"menu"`
}

// PlaceholderName stands in for the restaurant display name when the
// lookup is degraded. Only non-pricing fields may fall back to it.
const PlaceholderName = "Restaurant"

// InfoClient looks up restaurant context. May fail transiently.
type InfoClient interface {
	Get(ctx context.Context, restaurantID string) (*Info, error)
}

// MenuClient looks up a single menu item's authoritative price and
// name. Unlike the display-name lookup, failures here affect pricing
// correctness and cannot be degraded.
type MenuClient interface {
	GetItem(ctx context.Context, restaurantID, menuItemID string) (*MenuItem, error)
}

package transport

import (
	"dishpatch-be/internal/cart"
	"dishpatch-be/internal/checkout"
	"dishpatch-be/internal/money"
)

// Money travels on the wire as integer cents.
type placeOrderRequest struct {
	CustomerID      string         `json:"customer_id"`
	RestaurantID    string         `json:"restaurant_id"`
	Items           []orderItemDTO `json:"items"`
	PaymentMethodID string         `json:"payment_method_id"`
	TipCents        int64          `json:"tip_cents"`
	DiscountCents   int64          `json:"discount_cents"`
	Attempt         int            `json:"attempt"`
}

type orderItemDTO struct {
	MenuItemID     string `json:"menu_item_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

func (req placeOrderRequest) toInput() checkout.PlaceOrderInput {
	items := make([]cart.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, cart.Item{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  money.Cents(it.UnitPriceCents),
		})
	}

	return checkout.PlaceOrderInput{
		CustomerID: req.CustomerID,
		Cart: cart.Snapshot{
			CustomerID:   req.CustomerID,
			RestaurantID: req.RestaurantID,
			Items:        items,
		},
		PaymentMethodID: req.PaymentMethodID,
		Tip:             money.Cents(req.TipCents),
		PromoDiscount:   money.Cents(req.DiscountCents),
		Attempt:         req.Attempt,
	}
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type advanceStatusRequest struct {
	Status string `json:"status"`
}

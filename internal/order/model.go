package order

import (
	"time"

	"dishpatch-be/internal/money"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusPreparing      Status = "PREPARING"
	StatusReadyForPickup Status = "READY_FOR_PICKUP"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentAuthorized    PaymentStatus = "AUTHORIZED"
	PaymentCaptured      PaymentStatus = "CAPTURED"
	PaymentFailed        PaymentStatus = "FAILED"
	PaymentRefundPending PaymentStatus = "REFUND_PENDING"
	PaymentRefunded      PaymentStatus = "REFUNDED"
)

// Item is one ordered line, priced at confirmation time.
type Item struct {
	MenuItemID string      `json:"menu_item_id"`
	Name       string      `json:"name"`
	Quantity   int         `json:"quantity"`
	UnitPrice  money.Cents `json:"unit_price"`
}

type Order struct {
	ID              string        `json:"id"`
	CustomerID      string        `json:"customer_id"`
	RestaurantID    string        `json:"restaurant_id"`
	RestaurantName  string        `json:"restaurant_name"`
	DasherID        *string       `json:"dasher_id,omitempty"`
	OrderTime       time.Time     `json:"order_time"`
	Status          Status        `json:"status"`
	Items           []Item        `json:"items"`
	TotalAmount     money.Cents   `json:"total_amount"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentMethodID string        `json:"payment_method_id"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// New builds a PENDING order and stamps createdAt/updatedAt. Timestamps
// are never set by the storage layer.
func New(customerID, restaurantID, restaurantName string, items []Item, total money.Cents, paymentMethodID string) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:              uuid.New().String(),
		CustomerID:      customerID,
		RestaurantID:    restaurantID,
		RestaurantName:  restaurantName,
		OrderTime:       now,
		Status:          StatusPending,
		Items:           items,
		TotalAmount:     total,
		PaymentStatus:   PaymentPending,
		PaymentMethodID: paymentMethodID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// touch bumps UpdatedAt, keeping it strictly increasing even when the
// clock has not advanced between mutations.
func (o *Order) touch() {
	now := time.Now().UTC()
	if !now.After(o.UpdatedAt) {
		now = o.UpdatedAt.Add(time.Microsecond)
	}
	o.UpdatedAt = now
}

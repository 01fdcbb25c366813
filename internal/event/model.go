package event

import (
	"time"

	"dishpatch-be/internal/money"
	"dishpatch-be/internal/order"

	"github.com/google/uuid"
)

type Type string

const (
	TypeOrderPlaced    Type = "ORDER_PLACED"
	TypeOrderCancelled Type = "ORDER_CANCELLED"
)

// OrderEvent is the append-only lifecycle record published for other
// services. It carries a denormalized snapshot of the order so
// consumers do not have to read it back.
type OrderEvent struct {
	ID           string       `json:"id"`
	OrderID      string       `json:"order_id"`
	Type         Type         `json:"type"`
	EventTime    time.Time    `json:"event_time"`
	CustomerID   string       `json:"customer_id"`
	RestaurantID string       `json:"restaurant_id"`
	Items        []order.Item `json:"items"`
	TotalAmount  money.Cents  `json:"total_amount"`
	Status       order.Status `json:"status"`
}

func newEvent(t Type, o *order.Order) OrderEvent {
	return OrderEvent{
		ID:           uuid.New().String(),
		OrderID:      o.ID,
		Type:         t,
		EventTime:    time.Now().UTC(),
		CustomerID:   o.CustomerID,
		RestaurantID: o.RestaurantID,
		Items:        o.Items,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
	}
}

// NewOrderPlaced snapshots a freshly confirmed order.
func NewOrderPlaced(o *order.Order) OrderEvent {
	return newEvent(TypeOrderPlaced, o)
}

// NewOrderCancelled snapshots a cancelled order.
func NewOrderCancelled(o *order.Order) OrderEvent {
	return newEvent(TypeOrderCancelled, o)
}

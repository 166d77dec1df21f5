// Package events publishes order lifecycle events to Kafka for downstream
// consumers (analytics, notifications). Publishing is best effort and never
// blocks the request path.
package events

import "time"

// Event types emitted on the orders topic.
const (
	TypeOrderCreated       = "order_created"
	TypeOrderStatusChanged = "order_status_changed"
)

// OrderEvent is the message body for every order lifecycle event.
type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      uint      `json:"orderId"`
	UserID       uint      `json:"userId"`
	RestaurantID uint      `json:"restaurantId"`
	Status       string    `json:"status"`
	FinalAmount  float64   `json:"finalAmount,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

package models

import "time"

// Order status lifecycle.
const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// StatusSteps is the happy-path progression, in order.
var StatusSteps = []string{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
}

// Accepted payment methods.
const (
	PaymentCash          = "cash"
	PaymentCard          = "card"
	PaymentDigitalWallet = "digital_wallet"
)

// TaxRate applied to the items subtotal.
const TaxRate = 0.08

// Order is a placed order with its pricing snapshot.
type Order struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	UserID             uint        `gorm:"index;not null" json:"userId"`
	RestaurantID       uint        `gorm:"index;not null" json:"restaurantId"`
	RestaurantName     string      `gorm:"size:255" json:"restaurantName"`
	Items              []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount        float64     `gorm:"not null" json:"totalAmount"`
	DeliveryFee        float64     `gorm:"not null" json:"deliveryFee"`
	Tax                float64     `gorm:"not null" json:"tax"`
	FinalAmount        float64     `gorm:"not null" json:"finalAmount"`
	Status             string      `gorm:"size:32;index;not null;default:pending" json:"status"`
	DeliveryAddress    string      `gorm:"size:500;not null" json:"deliveryAddress"`
	PaymentMethod      string      `gorm:"size:32;not null" json:"paymentMethod"`
	EstimatedDelivery  time.Time   `json:"estimatedDeliveryTime"`
	ActualDeliveryTime *time.Time  `json:"actualDeliveryTime,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

// OrderItem is one dish line on an order, priced at order time.
type OrderItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	OrderID    uint    `gorm:"index;not null" json:"-"`
	MenuItemID uint    `gorm:"not null" json:"menuItemId"`
	Name       string  `gorm:"size:255;not null" json:"name"`
	Price      float64 `gorm:"not null" json:"price"`
	Quantity   int     `gorm:"not null" json:"quantity"`
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentDigitalWallet:
		return true
	}
	return false
}

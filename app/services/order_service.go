package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/app/repositories"
	"github.com/zaika-app/zaika/internal/events"
	"github.com/zaika-app/zaika/internal/tracking"
	"github.com/zaika-app/zaika/pkg/collection"
	"github.com/zaika-app/zaika/pkg/logger"
	"github.com/zaika-app/zaika/pkg/metrics"
)

// estimatedDeliveryWindow is added to the placement time for the ETA.
const estimatedDeliveryWindow = 45 * time.Minute

// SubmitOrderInput is the payload for placing an order from the cart.
type SubmitOrderInput struct {
	DeliveryAddress string `json:"deliveryAddress" validate:"required|min=10|max=500"`
	PaymentMethod   string `json:"paymentMethod" validate:"required|in=cash,card,digital_wallet"`
}

// UpdateStatusInput is the admin payload for moving an order along.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required|in=pending,confirmed,preparing,out_for_delivery,delivered,cancelled"`
}

// OrderService places orders and drives their status lifecycle.
type OrderService struct {
	orders      *repositories.OrderRepository
	carts       *repositories.CartRepository
	restaurants *repositories.RestaurantRepository
	broker      *tracking.Broker
	producer    *events.Producer
}

// NewOrderService creates an OrderService. producer may be nil when event
// publishing is disabled.
func NewOrderService(
	orders *repositories.OrderRepository,
	carts *repositories.CartRepository,
	restaurants *repositories.RestaurantRepository,
	broker *tracking.Broker,
	producer *events.Producer,
) *OrderService {
	return &OrderService{
		orders:      orders,
		carts:       carts,
		restaurants: restaurants,
		broker:      broker,
		producer:    producer,
	}
}

// Submit turns the user's cart into a pending order. All validation runs
// before any write; the header and items are saved in one transaction and
// the cart is cleared only after the order is durably stored.
func (s *OrderService) Submit(ctx context.Context, userID uint, in SubmitOrderInput) (*models.Order, error) {
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		return nil, NewValidationError("deliveryAddress", "The deliveryAddress field is required.")
	}

	cart, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("orders: load cart: %w", err)
	}
	if cart.IsEmpty() || cart.Restaurant == nil {
		return nil, NewValidationError("cart", "Your cart is empty.")
	}

	// The cart holds a restaurant snapshot from when the first item was
	// added; fees and minimums may have changed since. Re-read the record
	// so pricing reflects what the restaurant charges now.
	restaurant, err := s.restaurants.FindByID(ctx, cart.Restaurant.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("cart", "That restaurant is no longer available.")
		}
		return nil, fmt.Errorf("orders: load restaurant: %w", err)
	}

	subtotal := cart.Total()
	if subtotal < restaurant.MinimumOrder {
		return nil, NewValidationError("cart", fmt.Sprintf(
			"Minimum order amount is %.2f.", restaurant.MinimumOrder))
	}

	tax := subtotal * models.TaxRate
	fee := restaurant.DeliveryFee

	order := &models.Order{
		UserID:            userID,
		RestaurantID:      restaurant.ID,
		RestaurantName:    restaurant.Name,
		TotalAmount:       subtotal,
		DeliveryFee:       fee,
		Tax:               tax,
		FinalAmount:       subtotal + tax + fee,
		Status:            models.StatusPending,
		DeliveryAddress:   in.DeliveryAddress,
		PaymentMethod:     in.PaymentMethod,
		EstimatedDelivery: time.Now().Add(estimatedDeliveryWindow),
	}
	order.Items = collection.Map(cart.Items, func(li models.CartLineItem) models.OrderItem {
		return models.OrderItem{
			MenuItemID: li.MenuItemID,
			Name:       li.Name,
			Price:      li.Price,
			Quantity:   li.Quantity,
		}
	})

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("orders: create: %w", err)
	}

	if err := s.carts.Delete(ctx, userID); err != nil {
		// The order is already placed; a stale cart is an annoyance,
		// not a failure.
		logger.WithCtx(ctx).Warn("cart clear failed after order", "user_id", userID, "error", err)
	}

	metrics.OrdersPlaced.Inc()
	s.producer.Publish(events.OrderEvent{
		Type:         events.TypeOrderCreated,
		OrderID:      order.ID,
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
		Status:       order.Status,
		FinalAmount:  order.FinalAmount,
	})
	logger.WithCtx(ctx).Info("order placed",
		"order_id", order.ID, "user_id", userID, "restaurant_id", order.RestaurantID,
		"final_amount", order.FinalAmount)
	return order, nil
}

// Get returns an order. Non-admin callers only see their own orders.
func (s *OrderService) Get(ctx context.Context, orderID, userID uint, isAdmin bool) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("orders: find: %w", err)
	}
	if !isAdmin && order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListByUser returns the caller's own orders, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("orders: list by user: %w", err)
	}
	return orders, nil
}

// List returns orders matching the admin filter.
func (s *OrderService) List(ctx context.Context, f repositories.OrderFilter) ([]models.Order, error) {
	orders, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status. Reaching delivered stamps
// the actual delivery time; every change is pushed to live subscribers.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, NewValidationError("status", "The selected status is invalid.")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("orders: find: %w", err)
	}
	if order.Status == status {
		return order, nil
	}

	order.Status = status
	if status == models.StatusDelivered && order.ActualDeliveryTime == nil {
		now := time.Now()
		order.ActualDeliveryTime = &now
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("orders: update status: %w", err)
	}

	metrics.OrderStatusUpdates.WithLabelValues(status).Inc()
	s.broker.Publish(tracking.Patch{
		OrderID:            order.ID,
		Status:             order.Status,
		ActualDeliveryTime: order.ActualDeliveryTime,
	})
	s.producer.Publish(events.OrderEvent{
		Type:         events.TypeOrderStatusChanged,
		OrderID:      order.ID,
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
		Status:       order.Status,
	})
	logger.WithCtx(ctx).Info("order status updated", "order_id", order.ID, "status", status)
	return order, nil
}

// Track returns the live tracking view for an order the caller may see.
func (s *OrderService) Track(ctx context.Context, orderID, userID uint, isAdmin bool) (*tracking.View, error) {
	order, err := s.Get(ctx, orderID, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	view := tracking.NewView(order)
	return &view, nil
}

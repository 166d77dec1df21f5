package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/app/repositories"
	"github.com/zaika-app/zaika/internal/tracking"
)

func newOrderFixture(t *testing.T) (*fixtures, *OrderService, *CartService, *tracking.Broker) {
	t.Helper()
	f := newFixtures(t)
	broker := tracking.NewBroker()
	orderSvc := NewOrderService(f.orders, f.carts, f.restaurants, broker, nil)
	cartSvc := NewCartService(f.carts, f.restaurants)
	return f, orderSvc, cartSvc, broker
}

// fillCart puts two Butter Chicken and one Garlic Naan in user 1's cart,
// a 27.50 subtotal against the seeded restaurant.
func fillCart(t *testing.T, f *fixtures, cartSvc *CartService) *models.Restaurant {
	t.Helper()
	ctx := context.Background()
	restaurant := seedRestaurant(t, f.db)

	_, err := cartSvc.AddItem(ctx, 1, restaurant.ID, restaurant.Menu[0].ID)
	require.NoError(t, err)
	_, err = cartSvc.SetQuantity(ctx, 1, restaurant.Menu[0].ID, 2)
	require.NoError(t, err)
	_, err = cartSvc.AddItem(ctx, 1, restaurant.ID, restaurant.Menu[1].ID)
	require.NoError(t, err)
	return restaurant
}

func TestSubmitOrderPricing(t *testing.T) {
	f, orderSvc, cartSvc, _ := newOrderFixture(t)
	ctx := context.Background()
	restaurant := fillCart(t, f, cartSvc)

	before := time.Now()
	order, err := orderSvc.Submit(ctx, 1, SubmitOrderInput{
		DeliveryAddress: "12 MG Road, Bengaluru 560001",
		PaymentMethod:   models.PaymentCard,
	})
	require.NoError(t, err)

	assert.Equal(t, restaurant.ID, order.RestaurantID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.InDelta(t, 27.50, order.TotalAmount, 1e-9)
	assert.InDelta(t, 27.50*0.08, order.Tax, 1e-9)
	assert.InDelta(t, 2.99, order.DeliveryFee, 1e-9)
	assert.InDelta(t, 27.50+27.50*0.08+2.99, order.FinalAmount, 1e-9)
	require.Len(t, order.Items, 2)

	eta := order.EstimatedDelivery
	assert.True(t, eta.After(before.Add(44*time.Minute)))
	assert.True(t, eta.Before(before.Add(46*time.Minute)))
}

func TestSubmitOrderClearsCart(t *testing.T) {
	f, orderSvc, cartSvc, _ := newOrderFixture(t)
	ctx := context.Background()
	fillCart(t, f, cartSvc)

	_, err := orderSvc.Submit(ctx, 1, SubmitOrderInput{
		DeliveryAddress: "12 MG Road, Bengaluru 560001",
		PaymentMethod:   models.PaymentCash,
	})
	require.NoError(t, err)

	cart, err := cartSvc.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestSubmitEmptyCart(t *testing.T) {
	_, orderSvc, _, _ := newOrderFixture(t)

	_, err := orderSvc.Submit(context.Background(), 1, SubmitOrderInput{
		DeliveryAddress: "12 MG Road, Bengaluru 560001",
		PaymentMethod:   models.PaymentCash,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "cart")
}

func TestSubmitBelowMinimumOrderWritesNothing(t *testing.T) {
	f, orderSvc, cartSvc, _ := newOrderFixture(t)
	ctx := context.Background()
	restaurant := seedRestaurant(t, f.db)

	// One naan at 2.50 is far below the 15.00 minimum.
	_, err := cartSvc.AddItem(ctx, 1, restaurant.ID, restaurant.Menu[1].ID)
	require.NoError(t, err)

	_, err = orderSvc.Submit(ctx, 1, SubmitOrderInput{
		DeliveryAddress: "12 MG Road, Bengaluru 560001",
		PaymentMethod:   models.PaymentCash,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)

	// The cart survives a rejected submission.
	cart, err := cartSvc.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, cart.IsEmpty())
}

func TestSubmitMissingAddressWritesNothing(t *testing.T) {
	f, orderSvc, cartSvc, _ := newOrderFixture(t)
	ctx := context.Background()
	fillCart(t, f, cartSvc)

	_, err := orderSvc.Submit(ctx, 1, SubmitOrderInput{
		DeliveryAddress: "   ",
		PaymentMethod:   models.PaymentCash,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "deliveryAddress")

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)

	cart, err := cartSvc.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, cart.IsEmpty())
}

func TestSubmitUsesCurrentDeliveryFee(t *testing.T) {
	f, orderSvc, cartSvc, _ := newOrderFixture(t)
	ctx := context.Background()
	restaurant := fillCart(t, f, cartSvc)

	// The fee changes between adding to the cart and checking out; the
	// order must charge what the restaurant charges now.
	require.NoError(t, f.db.Model(&models.Restaurant{}).
		Where("id = ?", restaurant.ID).
		Update("delivery_fee", 4.50).Error)

	order, err := orderSvc.Submit(ctx, 1, SubmitOrderInput{
		DeliveryAddress: "12 MG Road, Bengaluru 560001",
		PaymentMethod:   models.PaymentCard,
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.50, order.DeliveryFee, 1e-9)
	assert.InDelta(t, 27.50+27.50*0.08+4.50, order.FinalAmount, 1e-9)
}

func TestGetOrderOwnership(t *testing.T) {
	f, orderSvc, cartSvc, _ := newOrderFixture(t)
	ctx := context.Background()
	fillCart(t, f, cartSvc)

	order, err := orderSvc.Submit(ctx, 1, SubmitOrderInput{
		DeliveryAddress: "12 MG Road, Bengaluru 560001",
		PaymentMethod:   models.PaymentCard,
	})
	require.NoError(t, err)

	_, err = orderSvc.Get(ctx, order.ID, 2, false)
	assert.True(t, errors.Is(err, ErrForbidden))

	got, err := orderSvc.Get(ctx, order.ID, 2, true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestUpdateStatusStampsDeliveryTime(t *testing.T) {
	f, orderSvc, cartSvc, _ := newOrderFixture(t)
	ctx := context.Background()
	fillCart(t, f, cartSvc)

	order, err := orderSvc.Submit(ctx, 1, SubmitOrderInput{
		DeliveryAddress: "12 MG Road, Bengaluru 560001",
		PaymentMethod:   models.PaymentCard,
	})
	require.NoError(t, err)
	require.Nil(t, order.ActualDeliveryTime)

	updated, err := orderSvc.UpdateStatus(ctx, order.ID, models.StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, updated.ActualDeliveryTime)

	// A repeated delivered update keeps the original stamp.
	stamp := *updated.ActualDeliveryTime
	again, err := orderSvc.UpdateStatus(ctx, order.ID, models.StatusDelivered)
	require.NoError(t, err)
	assert.True(t, again.ActualDeliveryTime.Equal(stamp))
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	_, orderSvc, _, _ := newOrderFixture(t)

	_, err := orderSvc.UpdateStatus(context.Background(), 1, "teleported")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateStatusPublishesPatch(t *testing.T) {
	f, orderSvc, cartSvc, broker := newOrderFixture(t)
	ctx := context.Background()
	fillCart(t, f, cartSvc)

	order, err := orderSvc.Submit(ctx, 1, SubmitOrderInput{
		DeliveryAddress: "12 MG Road, Bengaluru 560001",
		PaymentMethod:   models.PaymentCard,
	})
	require.NoError(t, err)

	patches, cancel := broker.Subscribe(order.ID)
	defer cancel()

	_, err = orderSvc.UpdateStatus(ctx, order.ID, models.StatusConfirmed)
	require.NoError(t, err)

	select {
	case patch := <-patches:
		assert.Equal(t, order.ID, patch.OrderID)
		assert.Equal(t, models.StatusConfirmed, patch.Status)
	case <-time.After(time.Second):
		t.Fatal("no patch published")
	}
}

func TestListByUserNewestFirst(t *testing.T) {
	f, orderSvc, cartSvc, _ := newOrderFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		fillCart(t, f, cartSvc)
		_, err := orderSvc.Submit(ctx, 1, SubmitOrderInput{
			DeliveryAddress: "12 MG Road, Bengaluru 560001",
			PaymentMethod:   models.PaymentCash,
		})
		require.NoError(t, err)
	}

	orders, err := orderSvc.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.GreaterOrEqual(t, orders[0].ID, orders[1].ID)

	none, err := orderSvc.ListByUser(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAdminListFilters(t *testing.T) {
	f, orderSvc, cartSvc, _ := newOrderFixture(t)
	ctx := context.Background()
	fillCart(t, f, cartSvc)

	order, err := orderSvc.Submit(ctx, 1, SubmitOrderInput{
		DeliveryAddress: "12 MG Road, Bengaluru 560001",
		PaymentMethod:   models.PaymentCash,
	})
	require.NoError(t, err)
	_, err = orderSvc.UpdateStatus(ctx, order.ID, models.StatusPreparing)
	require.NoError(t, err)

	preparing, err := orderSvc.List(ctx, repositories.OrderFilter{Status: models.StatusPreparing})
	require.NoError(t, err)
	assert.Len(t, preparing, 1)

	pending, err := orderSvc.List(ctx, repositories.OrderFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestTrackView(t *testing.T) {
	f, orderSvc, cartSvc, _ := newOrderFixture(t)
	ctx := context.Background()
	fillCart(t, f, cartSvc)

	order, err := orderSvc.Submit(ctx, 1, SubmitOrderInput{
		DeliveryAddress: "12 MG Road, Bengaluru 560001",
		PaymentMethod:   models.PaymentCard,
	})
	require.NoError(t, err)

	view, err := orderSvc.Track(ctx, order.ID, 1, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, view.Status)
	require.Len(t, view.Steps, 5)
	assert.True(t, view.Steps[0].Active)
}

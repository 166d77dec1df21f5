package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/app/repositories"
	"github.com/zaika-app/zaika/pkg/collection"
	"github.com/zaika-app/zaika/pkg/metrics"
)

// CartService manages each user's single-restaurant cart.
type CartService struct {
	carts       *repositories.CartRepository
	restaurants *repositories.RestaurantRepository
}

// NewCartService creates a CartService.
func NewCartService(carts *repositories.CartRepository, restaurants *repositories.RestaurantRepository) *CartService {
	return &CartService{carts: carts, restaurants: restaurants}
}

// Get returns the user's current cart.
func (s *CartService) Get(ctx context.Context, userID uint) (*models.Cart, error) {
	return s.carts.Load(ctx, userID)
}

// AddItem puts one unit of a menu item into the cart. Adding the same item
// again increments its quantity; adding from a different restaurant than
// the cart holds replaces the whole cart.
func (s *CartService) AddItem(ctx context.Context, userID, restaurantID, itemID uint) (*models.Cart, error) {
	restaurant, err := s.restaurants.FindByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("cart: find restaurant: %w", err)
	}
	item, err := s.restaurants.FindMenuItem(ctx, restaurantID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("cart: find menu item: %w", err)
	}
	if !item.IsAvailable {
		return nil, NewValidationError("itemId", "This item is currently unavailable.")
	}

	cart, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: load: %w", err)
	}

	if cart.Restaurant == nil || cart.Restaurant.ID != restaurantID {
		cart = &models.Cart{
			Restaurant: &models.RestaurantRef{
				ID:           restaurant.ID,
				Name:         restaurant.Name,
				DeliveryFee:  restaurant.DeliveryFee,
				MinimumOrder: restaurant.MinimumOrder,
			},
			Items: []models.CartLineItem{},
		}
	}

	updated := false
	for i := range cart.Items {
		if cart.Items[i].MenuItemID == itemID {
			cart.Items[i].Quantity++
			updated = true
			break
		}
	}
	if !updated {
		cart.Items = append(cart.Items, models.CartLineItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   1,
		})
	}

	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, fmt.Errorf("cart: save: %w", err)
	}
	metrics.CartMutations.WithLabelValues("add").Inc()
	return cart, nil
}

// SetQuantity changes an item's quantity. Zero or below removes the item;
// removing the last item empties the cart entirely.
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID uint, quantity int) (*models.Cart, error) {
	cart, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: load: %w", err)
	}

	if _, ok := collection.First(cart.Items, func(li models.CartLineItem) bool {
		return li.MenuItemID == itemID
	}); !ok {
		return nil, ErrNotFound
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}

	for i := range cart.Items {
		if cart.Items[i].MenuItemID == itemID {
			cart.Items[i].Quantity = quantity
			break
		}
	}

	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, fmt.Errorf("cart: save: %w", err)
	}
	metrics.CartMutations.WithLabelValues("set_quantity").Inc()
	return cart, nil
}

// RemoveItem deletes an item from the cart. When the cart empties, the
// restaurant reference is cleared too.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (*models.Cart, error) {
	cart, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: load: %w", err)
	}

	before := len(cart.Items)
	cart.Items = collection.Filter(cart.Items, func(li models.CartLineItem) bool {
		return li.MenuItemID != itemID
	})
	if len(cart.Items) == before {
		return nil, ErrNotFound
	}
	if cart.IsEmpty() {
		cart.Restaurant = nil
	}

	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, fmt.Errorf("cart: save: %w", err)
	}
	metrics.CartMutations.WithLabelValues("remove").Inc()
	return cart, nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if err := s.carts.Delete(ctx, userID); err != nil {
		return fmt.Errorf("cart: clear: %w", err)
	}
	metrics.CartMutations.WithLabelValues("clear").Inc()
	return nil
}

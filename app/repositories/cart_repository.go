package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/pkg/cache"
)

// cartTTL keeps abandoned carts from living forever.
const cartTTL = 7 * 24 * time.Hour

// CartRepository stores each user's cart as a Redis snapshot.
type CartRepository struct {
	store *cache.Store
}

// NewCartRepository creates a CartRepository backed by store.
func NewCartRepository(store *cache.Store) *CartRepository {
	return &CartRepository{store: store}
}

func cartKey(userID uint) string {
	return fmt.Sprintf("zaika:cart:%d", userID)
}

// Load returns the user's cart, or an empty cart when none is stored.
func (r *CartRepository) Load(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if !r.store.Get(ctx, cartKey(userID), &cart) {
		return &models.Cart{Items: []models.CartLineItem{}}, nil
	}
	if cart.Items == nil {
		cart.Items = []models.CartLineItem{}
	}
	return &cart, nil
}

// Save replaces the user's stored cart.
func (r *CartRepository) Save(ctx context.Context, userID uint, cart *models.Cart) error {
	return r.store.Set(ctx, cartKey(userID), cart, cartTTL)
}

// Delete removes the user's stored cart.
func (r *CartRepository) Delete(ctx context.Context, userID uint) error {
	return r.store.Del(ctx, cartKey(userID))
}

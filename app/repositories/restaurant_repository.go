package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/zaika-app/zaika/app/models"
)

// RestaurantFilter narrows and orders a restaurant listing.
type RestaurantFilter struct {
	Search    string  // matches name or description, case-insensitive
	Cuisine   string  // exact cuisine, "all" or empty means any
	MinRating float64 // keep restaurants rated at least this
	SortBy    string  // "rating" | "deliveryFee" | "minimumOrder" | "name"
}

// RestaurantRepository persists restaurants and their menus.
type RestaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a RestaurantRepository backed by db.
func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// List returns open restaurants matching the filter, sorted as requested.
// Closed restaurants never appear in a listing.
func (r *RestaurantRepository) List(ctx context.Context, f RestaurantFilter) ([]models.Restaurant, error) {
	q := r.db.WithContext(ctx).Model(&models.Restaurant{}).Where("is_open = ?", true)

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.Cuisine != "" && !strings.EqualFold(f.Cuisine, "all") {
		q = q.Where("cuisine = ?", f.Cuisine)
	}
	if f.MinRating > 0 {
		q = q.Where("rating >= ?", f.MinRating)
	}

	switch f.SortBy {
	case "deliveryFee":
		q = q.Order("delivery_fee asc")
	case "minimumOrder":
		q = q.Order("minimum_order asc")
	case "name":
		q = q.Order("name asc")
	default:
		q = q.Order("rating desc")
	}

	var restaurants []models.Restaurant
	if err := q.Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

// FindByID returns a restaurant with its full menu preloaded.
func (r *RestaurantRepository) FindByID(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Preload("Menu").First(&restaurant, id).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// Menu returns all menu items for a restaurant.
func (r *RestaurantRepository) Menu(ctx context.Context, restaurantID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("category asc, name asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindMenuItem returns one menu item belonging to the restaurant.
func (r *RestaurantRepository) FindMenuItem(ctx context.Context, restaurantID, itemID uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		First(&item, itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a restaurant along with any menu items attached to it.
func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

// Update persists changed restaurant fields.
func (r *RestaurantRepository) Update(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Save(restaurant).Error
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/app/repositories"
	"github.com/zaika-app/zaika/pkg/cache"
	"github.com/zaika-app/zaika/pkg/collection"
)

const restaurantListTTL = 60 * time.Second

// MenuFilter narrows a menu listing.
type MenuFilter struct {
	Category string // "all" or empty means every category
}

// RestaurantInput is the admin payload for creating or updating a venue.
type RestaurantInput struct {
	Name         string  `json:"name" validate:"required|min=2|max=255"`
	Description  string  `json:"description" validate:"nullable|max=1000"`
	Cuisine      string  `json:"cuisine" validate:"required|max=64"`
	Image        string  `json:"image" validate:"nullable|max=500"`
	Rating       float64 `json:"rating" validate:"nullable|gte=0|lte=5"`
	DeliveryTime string  `json:"deliveryTime" validate:"nullable|max=32"`
	DeliveryFee  float64 `json:"deliveryFee" validate:"nullable|gte=0"`
	MinimumOrder float64 `json:"minimumOrder" validate:"nullable|gte=0"`
	IsOpen       bool    `json:"isOpen"`
}

// RestaurantService serves the browse and admin surfaces for restaurants.
type RestaurantService struct {
	restaurants *repositories.RestaurantRepository
	store       *cache.Store
}

// NewRestaurantService creates a RestaurantService.
func NewRestaurantService(restaurants *repositories.RestaurantRepository, store *cache.Store) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, store: store}
}

func listCacheKey(f repositories.RestaurantFilter) string {
	return fmt.Sprintf("zaika:restaurants:%s:%s:%.1f:%s", f.Search, f.Cuisine, f.MinRating, f.SortBy)
}

// List returns restaurants matching the filter, served from cache when an
// identical listing was computed recently.
func (s *RestaurantService) List(ctx context.Context, f repositories.RestaurantFilter) ([]models.Restaurant, error) {
	key := listCacheKey(f)
	var cached []models.Restaurant
	if s.store.Get(ctx, key, &cached) {
		return cached, nil
	}

	restaurants, err := s.restaurants.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("restaurants: list: %w", err)
	}
	_ = s.store.Set(ctx, key, restaurants, restaurantListTTL)
	return restaurants, nil
}

// Get returns one restaurant with its menu.
func (s *RestaurantService) Get(ctx context.Context, id uint) (*models.Restaurant, error) {
	restaurant, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("restaurants: find: %w", err)
	}
	return restaurant, nil
}

// Menu returns a restaurant's currently available menu items, optionally
// limited to one category. Unavailable dishes stay off the menu a customer
// browses; cart validation still rejects them independently.
func (s *RestaurantService) Menu(ctx context.Context, restaurantID uint, f MenuFilter) ([]models.MenuItem, error) {
	if _, err := s.Get(ctx, restaurantID); err != nil {
		return nil, err
	}
	items, err := s.restaurants.Menu(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("restaurants: menu: %w", err)
	}

	items = collection.Filter(items, func(it models.MenuItem) bool {
		return it.IsAvailable
	})
	if f.Category != "" && f.Category != "all" {
		items = collection.Filter(items, func(it models.MenuItem) bool {
			return it.Category == f.Category
		})
	}
	return items, nil
}

// Categories returns the distinct menu categories for a restaurant,
// in menu order, with "all" first.
func (s *RestaurantService) Categories(ctx context.Context, restaurantID uint) ([]string, error) {
	items, err := s.Menu(ctx, restaurantID, MenuFilter{})
	if err != nil {
		return nil, err
	}
	categories := []string{"all"}
	for _, it := range items {
		if it.Category != "" && !collection.Contains(categories, it.Category) {
			categories = append(categories, it.Category)
		}
	}
	return categories, nil
}

// Create adds a restaurant. Cached listings expire on their own TTL.
func (s *RestaurantService) Create(ctx context.Context, in RestaurantInput) (*models.Restaurant, error) {
	restaurant := &models.Restaurant{
		Name:         in.Name,
		Description:  in.Description,
		Cuisine:      in.Cuisine,
		Image:        in.Image,
		Rating:       in.Rating,
		DeliveryTime: in.DeliveryTime,
		DeliveryFee:  in.DeliveryFee,
		MinimumOrder: in.MinimumOrder,
		IsOpen:       in.IsOpen,
	}
	if err := s.restaurants.Create(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("restaurants: create: %w", err)
	}
	return restaurant, nil
}

// Update edits a restaurant's fields.
func (s *RestaurantService) Update(ctx context.Context, id uint, in RestaurantInput) (*models.Restaurant, error) {
	restaurant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	restaurant.Name = in.Name
	restaurant.Description = in.Description
	restaurant.Cuisine = in.Cuisine
	restaurant.Image = in.Image
	restaurant.Rating = in.Rating
	restaurant.DeliveryTime = in.DeliveryTime
	restaurant.DeliveryFee = in.DeliveryFee
	restaurant.MinimumOrder = in.MinimumOrder
	restaurant.IsOpen = in.IsOpen

	if err := s.restaurants.Update(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("restaurants: update: %w", err)
	}
	return restaurant, nil
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/app/repositories"
)

func seedThreeRestaurants(t *testing.T, f *fixtures) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Restaurant{
		Name: "Spice Garden", Cuisine: "indian", Rating: 4.5, DeliveryFee: 2.99, IsOpen: true,
	}).Error)
	require.NoError(t, f.db.Create(&models.Restaurant{
		Name: "Wok This Way", Cuisine: "chinese", Rating: 4.2, DeliveryFee: 1.99, IsOpen: true,
	}).Error)
	require.NoError(t, f.db.Create(&models.Restaurant{
		Name: "Napoli Express", Description: "Wood-fired pizza", Cuisine: "italian",
		Rating: 4.7, DeliveryFee: 3.49, IsOpen: true,
	}).Error)
}

func TestRestaurantListDefaultSortByRating(t *testing.T) {
	f := newFixtures(t)
	svc := NewRestaurantService(f.restaurants, f.store)
	seedThreeRestaurants(t, f)

	got, err := svc.List(context.Background(), repositories.RestaurantFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Napoli Express", got[0].Name)
	assert.Equal(t, "Wok This Way", got[2].Name)
}

func TestRestaurantListFilters(t *testing.T) {
	f := newFixtures(t)
	svc := NewRestaurantService(f.restaurants, f.store)
	seedThreeRestaurants(t, f)
	ctx := context.Background()

	byCuisine, err := svc.List(ctx, repositories.RestaurantFilter{Cuisine: "chinese"})
	require.NoError(t, err)
	require.Len(t, byCuisine, 1)
	assert.Equal(t, "Wok This Way", byCuisine[0].Name)

	anyCuisine, err := svc.List(ctx, repositories.RestaurantFilter{Cuisine: "all"})
	require.NoError(t, err)
	assert.Len(t, anyCuisine, 3)

	byRating, err := svc.List(ctx, repositories.RestaurantFilter{MinRating: 4.4})
	require.NoError(t, err)
	assert.Len(t, byRating, 2)

	bySearch, err := svc.List(ctx, repositories.RestaurantFilter{Search: "pizza"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Napoli Express", bySearch[0].Name)

	byFee, err := svc.List(ctx, repositories.RestaurantFilter{SortBy: "deliveryFee"})
	require.NoError(t, err)
	assert.Equal(t, "Wok This Way", byFee[0].Name)
}

func TestRestaurantListExcludesClosed(t *testing.T) {
	f := newFixtures(t)
	svc := NewRestaurantService(f.restaurants, f.store)
	seedThreeRestaurants(t, f)
	require.NoError(t, f.db.Create(&models.Restaurant{
		Name: "Shuttered Shack", Cuisine: "indian", Rating: 4.9, IsOpen: false,
	}).Error)

	got, err := svc.List(context.Background(), repositories.RestaurantFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.NotEqual(t, "Shuttered Shack", r.Name)
	}
}

func TestRestaurantListServedFromCache(t *testing.T) {
	f := newFixtures(t)
	svc := NewRestaurantService(f.restaurants, f.store)
	ctx := context.Background()
	seedThreeRestaurants(t, f)

	first, err := svc.List(ctx, repositories.RestaurantFilter{})
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Deleting behind the cache proves the second read never hits the DB.
	require.NoError(t, f.db.Where("1 = 1").Delete(&models.Restaurant{}).Error)

	second, err := svc.List(ctx, repositories.RestaurantFilter{})
	require.NoError(t, err)
	assert.Len(t, second, 3)
}

func TestRestaurantMenuFilters(t *testing.T) {
	f := newFixtures(t)
	svc := NewRestaurantService(f.restaurants, f.store)
	ctx := context.Background()
	restaurant := seedRestaurant(t, f.db)

	// The seeded menu has three items, one of them unavailable. Browsing
	// only ever shows the available two.
	menu, err := svc.Menu(ctx, restaurant.ID, MenuFilter{})
	require.NoError(t, err)
	require.Len(t, menu, 2)
	for _, it := range menu {
		assert.True(t, it.IsAvailable)
	}

	mains, err := svc.Menu(ctx, restaurant.ID, MenuFilter{Category: "mains"})
	require.NoError(t, err)
	require.Len(t, mains, 1)
	assert.Equal(t, "Butter Chicken", mains[0].Name)
}

func TestRestaurantCategories(t *testing.T) {
	f := newFixtures(t)
	svc := NewRestaurantService(f.restaurants, f.store)
	restaurant := seedRestaurant(t, f.db)

	categories, err := svc.Categories(context.Background(), restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"all", "breads", "mains"}, categories)
}

func TestRestaurantGetUnknown(t *testing.T) {
	f := newFixtures(t)
	svc := NewRestaurantService(f.restaurants, f.store)

	_, err := svc.Get(context.Background(), 404)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRestaurantCreateAndUpdate(t *testing.T) {
	f := newFixtures(t)
	svc := NewRestaurantService(f.restaurants, f.store)
	ctx := context.Background()

	created, err := svc.Create(ctx, RestaurantInput{
		Name: "Taco Loco", Cuisine: "mexican", Rating: 4.0,
		DeliveryFee: 2.49, MinimumOrder: 10, IsOpen: true,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	updated, err := svc.Update(ctx, created.ID, RestaurantInput{
		Name: "Taco Loco", Cuisine: "mexican", Rating: 4.3,
		DeliveryFee: 2.49, MinimumOrder: 10, IsOpen: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.3, updated.Rating)
	assert.False(t, updated.IsOpen)
}

package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/app/repositories"
	"github.com/zaika-app/zaika/pkg/cache"
)

// newTestDB opens a fresh in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

// newTestStore backs a cache.Store with an in-process miniredis.
func newTestStore(t *testing.T) *cache.Store {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return cache.NewWithClient(rdb)
}

// seedRestaurant inserts a restaurant with two menu items and returns it.
func seedRestaurant(t *testing.T, db *gorm.DB) *models.Restaurant {
	t.Helper()

	restaurant := &models.Restaurant{
		Name:         "Spice Garden",
		Cuisine:      "indian",
		Rating:       4.5,
		DeliveryFee:  2.99,
		MinimumOrder: 15,
		IsOpen:       true,
		Menu: []models.MenuItem{
			{Name: "Butter Chicken", Price: 12.50, Category: "mains", IsAvailable: true},
			{Name: "Garlic Naan", Price: 2.50, Category: "breads", IsVegetarian: true, IsAvailable: true},
			{Name: "Seasonal Special", Price: 15.00, Category: "mains", IsAvailable: false},
		},
	}
	require.NoError(t, db.Create(restaurant).Error)
	return restaurant
}

// fixtures wires the repositories and services most tests need.
type fixtures struct {
	db          *gorm.DB
	store       *cache.Store
	users       *repositories.UserRepository
	restaurants *repositories.RestaurantRepository
	orders      *repositories.OrderRepository
	carts       *repositories.CartRepository
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()
	db := newTestDB(t)
	store := newTestStore(t)
	return &fixtures{
		db:          db,
		store:       store,
		users:       repositories.NewUserRepository(db),
		restaurants: repositories.NewRestaurantRepository(db),
		orders:      repositories.NewOrderRepository(db),
		carts:       repositories.NewCartRepository(store),
	}
}

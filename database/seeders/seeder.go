// Package seeders fills the database with sample data for development.
package seeders

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/pkg/auth"
	"github.com/zaika-app/zaika/pkg/logger"
)

// Seeder populates one slice of the database.
type Seeder interface {
	Name() string
	Run(db *gorm.DB) error
}

var registry = []Seeder{
	userSeeder{},
	restaurantSeeder{},
}

// RunAll executes every registered seeder in order.
func RunAll(db *gorm.DB) error {
	for _, s := range registry {
		logger.Info("seeding", "name", s.Name())
		if err := s.Run(db); err != nil {
			return fmt.Errorf("seeder %s: %w", s.Name(), err)
		}
	}
	return nil
}

type userSeeder struct{}

func (userSeeder) Name() string { return "users" }

func (userSeeder) Run(db *gorm.DB) error {
	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}
	users := []models.User{
		{Name: "Admin", Email: "admin@zaika.test", Password: hash, Role: models.RoleAdmin},
		{Name: "Demo User", Email: "demo@zaika.test", Password: hash, Role: models.RoleUser,
			Phone: "5550100200", Address: "12 MG Road, Bengaluru 560001"},
	}
	for i := range users {
		err := db.Where("email = ?", users[i].Email).FirstOrCreate(&users[i]).Error
		if err != nil {
			return err
		}
	}
	return nil
}

type restaurantSeeder struct{}

func (restaurantSeeder) Name() string { return "restaurants" }

func (restaurantSeeder) Run(db *gorm.DB) error {
	restaurants := []models.Restaurant{
		{
			Name: "Spice Garden", Description: "North Indian classics and tandoor specials.",
			Cuisine: "indian", Rating: 4.5, DeliveryTime: "30-45 min",
			DeliveryFee: 2.99, MinimumOrder: 15, IsOpen: true,
			Menu: []models.MenuItem{
				{Name: "Butter Chicken", Description: "Creamy tomato gravy, charcoal chicken.",
					Price: 12.50, Category: "mains", IsAvailable: true},
				{Name: "Paneer Tikka", Description: "Smoked cottage cheese skewers.",
					Price: 9.00, Category: "starters", IsVegetarian: true, IsAvailable: true},
				{Name: "Garlic Naan", Price: 2.50, Category: "breads",
					IsVegetarian: true, IsAvailable: true},
			},
		},
		{
			Name: "Wok This Way", Description: "Hand-tossed noodles and dim sum.",
			Cuisine: "chinese", Rating: 4.2, DeliveryTime: "25-40 min",
			DeliveryFee: 1.99, MinimumOrder: 12, IsOpen: true,
			Menu: []models.MenuItem{
				{Name: "Hakka Noodles", Price: 8.50, Category: "mains",
					IsVegetarian: true, IsAvailable: true},
				{Name: "Chilli Chicken", Price: 10.00, Category: "mains", IsAvailable: true},
				{Name: "Veg Momos", Price: 6.00, Category: "starters",
					IsVegetarian: true, IsAvailable: true},
			},
		},
		{
			Name: "Napoli Express", Description: "Wood-fired pizza, fresh pasta.",
			Cuisine: "italian", Rating: 4.7, DeliveryTime: "35-50 min",
			DeliveryFee: 3.49, MinimumOrder: 20, IsOpen: true,
			Menu: []models.MenuItem{
				{Name: "Margherita", Price: 11.00, Category: "pizza",
					IsVegetarian: true, IsAvailable: true},
				{Name: "Pepperoni", Price: 13.50, Category: "pizza", IsAvailable: true},
				{Name: "Tiramisu", Price: 6.50, Category: "desserts",
					IsVegetarian: true, IsAvailable: true},
			},
		},
	}
	for i := range restaurants {
		err := db.Where("name = ?", restaurants[i].Name).FirstOrCreate(&restaurants[i]).Error
		if err != nil {
			return err
		}
	}
	return nil
}

package models

import "time"

// Restaurant is a venue customers can order from.
type Restaurant struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Description  string     `gorm:"size:1000" json:"description"`
	Cuisine      string     `gorm:"size:64;index" json:"cuisine"`
	Image        string     `gorm:"size:500" json:"image"`
	Rating       float64    `gorm:"not null;default:0" json:"rating"`
	DeliveryTime string     `gorm:"size:32" json:"deliveryTime"`
	DeliveryFee  float64    `gorm:"not null;default:0" json:"deliveryFee"`
	MinimumOrder float64    `gorm:"not null;default:0" json:"minimumOrder"`
	IsOpen       bool       `gorm:"not null;default:true" json:"isOpen"`
	Menu         []MenuItem `gorm:"foreignKey:RestaurantID" json:"menu,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// MenuItem is a dish offered by a restaurant.
type MenuItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"restaurantId"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Description  string    `gorm:"size:1000" json:"description"`
	Price        float64   `gorm:"not null" json:"price"`
	Category     string    `gorm:"size:64;index" json:"category"`
	Image        string    `gorm:"size:500" json:"image"`
	IsVegetarian bool      `gorm:"not null;default:false" json:"isVegetarian"`
	IsAvailable  bool      `gorm:"not null;default:true" json:"isAvailable"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

package models

// RestaurantRef is the slice of restaurant data a cart needs to remember.
type RestaurantRef struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	DeliveryFee  float64 `json:"deliveryFee"`
	MinimumOrder float64 `json:"minimumOrder"`
}

// CartLineItem is one dish in the cart with its chosen quantity.
type CartLineItem struct {
	MenuItemID uint    `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// Cart holds a user's in-progress order. All items belong to the single
// restaurant referenced; adding from another restaurant replaces the cart.
type Cart struct {
	Restaurant *RestaurantRef `json:"restaurant,omitempty"`
	Items      []CartLineItem `json:"items"`
}

// Total is the sum of price times quantity across all items.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Package routes wires controllers onto the router.
package routes

import (
	"github.com/zaika-app/zaika/app/controllers"
	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/pkg/metrics"
	"github.com/zaika-app/zaika/pkg/middleware"
	"github.com/zaika-app/zaika/pkg/rbac"
	"github.com/zaika-app/zaika/pkg/router"
)

// Controllers bundles everything Register needs.
type Controllers struct {
	Auth       *controllers.AuthController
	Restaurant *controllers.RestaurantController
	Cart       *controllers.CartController
	Order      *controllers.OrderController
}

// Register mounts every route on r.
func Register(r *router.Router, c Controllers) {
	r.HandleFunc("/metrics", metrics.Handler())

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", "auth.register", c.Auth.Register)
	auth.Post("/login", "auth.login", c.Auth.Login)
	auth.Get("/me", "auth.me", c.Auth.Me, middleware.Auth)

	restaurants := api.Group("/restaurants")
	restaurants.Get("/", "restaurants.list", c.Restaurant.List)
	restaurants.Get("/{id}", "restaurants.show", c.Restaurant.Get)
	restaurants.Get("/{id}/menu", "restaurants.menu", c.Restaurant.Menu)
	restaurants.Get("/{id}/categories", "restaurants.categories", c.Restaurant.Categories)

	users := api.Group("/users", middleware.Auth)
	users.Put("/profile", "users.profile.update", c.Auth.UpdateProfile)

	admin := rbac.HasRole(models.RoleAdmin)
	restaurants.Post("/", "restaurants.create", c.Restaurant.Create, middleware.Auth, admin)
	restaurants.Put("/{id}", "restaurants.update", c.Restaurant.Update, middleware.Auth, admin)

	cart := api.Group("/cart", middleware.Auth)
	cart.Get("/", "cart.show", c.Cart.Get)
	cart.Delete("/", "cart.clear", c.Cart.Clear)
	cart.Post("/items", "cart.items.add", c.Cart.AddItem)
	cart.Patch("/items/{itemId}", "cart.items.quantity", c.Cart.SetQuantity)
	cart.Delete("/items/{itemId}", "cart.items.remove", c.Cart.RemoveItem)

	orders := api.Group("/orders", middleware.Auth)
	orders.Post("/", "orders.submit", c.Order.Submit)
	orders.Get("/", "orders.list", c.Order.AdminList, admin)
	orders.Get("/my-orders", "orders.mine", c.Order.MyOrders)
	orders.Get("/{id}", "orders.show", c.Order.Get)
	orders.Get("/{id}/track", "orders.track", c.Order.Track)
	orders.Get("/{id}/events", "orders.events", c.Order.Events)
	orders.Patch("/{id}/status", "orders.status", c.Order.UpdateStatus, admin)

	wsGroup := r.Group("/ws", middleware.Auth)
	wsGroup.Get("/orders/{id}", "ws.orders.feed", c.Order.Feed)
}

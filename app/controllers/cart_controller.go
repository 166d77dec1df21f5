package controllers

import (
	"net/http"

	"github.com/zaika-app/zaika/app/services"
	"github.com/zaika-app/zaika/pkg/bind"
	"github.com/zaika-app/zaika/pkg/middleware"
	"github.com/zaika-app/zaika/pkg/response"
)

// CartController serves the signed-in user's cart.
type CartController struct {
	carts *services.CartService
}

// NewCartController creates a CartController.
func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

type addItemInput struct {
	RestaurantID uint `json:"restaurantId" validate:"required"`
	MenuItemID   uint `json:"menuItemId" validate:"required"`
}

// Quantity carries no validation rules on purpose: zero and below mean
// "remove the item".
type setQuantityInput struct {
	Quantity int `json:"quantity"`
}

// Get handles GET /api/cart.
func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	cart, err := c.carts.Get(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, cart)
}

// AddItem handles POST /api/cart/items.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in addItemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cart, err := c.carts.AddItem(r.Context(), userID, in.RestaurantID, in.MenuItemID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, cart)
}

// SetQuantity handles PATCH /api/cart/items/{itemId}.
func (c *CartController) SetQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	itemID, ok := uintParam(r, "itemId")
	if !ok {
		response.NotFound(w)
		return
	}

	var in setQuantityInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cart, err := c.carts.SetQuantity(r.Context(), userID, itemID, in.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, cart)
}

// RemoveItem handles DELETE /api/cart/items/{itemId}.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	itemID, ok := uintParam(r, "itemId")
	if !ok {
		response.NotFound(w)
		return
	}

	cart, err := c.carts.RemoveItem(r.Context(), userID, itemID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, cart)
}

// Clear handles DELETE /api/cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	if err := c.carts.Clear(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Cart cleared."})
}

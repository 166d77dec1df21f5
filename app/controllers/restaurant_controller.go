package controllers

import (
	"net/http"
	"strconv"

	"github.com/zaika-app/zaika/app/repositories"
	"github.com/zaika-app/zaika/app/services"
	"github.com/zaika-app/zaika/pkg/bind"
	"github.com/zaika-app/zaika/pkg/response"
)

// RestaurantController serves the browse and admin surfaces.
type RestaurantController struct {
	restaurants *services.RestaurantService
}

// NewRestaurantController creates a RestaurantController.
func NewRestaurantController(restaurants *services.RestaurantService) *RestaurantController {
	return &RestaurantController{restaurants: restaurants}
}

// List handles GET /api/restaurants with optional search, cuisine,
// minRating and sortBy query parameters.
func (c *RestaurantController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.RestaurantFilter{
		Search:  q.Get("search"),
		Cuisine: q.Get("cuisine"),
		SortBy:  q.Get("sortBy"),
	}
	if raw := q.Get("minRating"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinRating = v
		}
	}

	restaurants, err := c.restaurants.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, restaurants)
}

// Get handles GET /api/restaurants/{id}.
func (c *RestaurantController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	restaurant, err := c.restaurants.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, restaurant)
}

// Menu handles GET /api/restaurants/{id}/menu with an optional category
// query parameter. Only available items are returned.
func (c *RestaurantController) Menu(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	filter := services.MenuFilter{
		Category: r.URL.Query().Get("category"),
	}

	items, err := c.restaurants.Menu(r.Context(), id, filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, items)
}

// Categories handles GET /api/restaurants/{id}/categories.
func (c *RestaurantController) Categories(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	categories, err := c.restaurants.Categories(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, categories)
}

// Create handles POST /api/restaurants, an admin-only route.
func (c *RestaurantController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.RestaurantInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	restaurant, err := c.restaurants.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Created(w, restaurant)
}

// Update handles PUT /api/restaurants/{id}, an admin-only route.
func (c *RestaurantController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.RestaurantInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	restaurant, err := c.restaurants.Update(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, restaurant)
}

package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/app/repositories"
	"github.com/zaika-app/zaika/app/services"
	"github.com/zaika-app/zaika/internal/tracking"
	"github.com/zaika-app/zaika/pkg/bind"
	"github.com/zaika-app/zaika/pkg/logger"
	"github.com/zaika-app/zaika/pkg/middleware"
	"github.com/zaika-app/zaika/pkg/response"
	"github.com/zaika-app/zaika/pkg/router"
	"github.com/zaika-app/zaika/pkg/sse"
	"github.com/zaika-app/zaika/pkg/ws"
)

// keepAliveInterval paces SSE comment pings so idle proxies keep the
// connection open.
const keepAliveInterval = 25 * time.Second

// OrderController serves order placement, history and live tracking.
type OrderController struct {
	orders *services.OrderService
	broker *tracking.Broker
	routes *router.Router
}

// NewOrderController creates an OrderController. routes resolves named
// routes for the Location header on newly placed orders.
func NewOrderController(orders *services.OrderService, broker *tracking.Broker, routes *router.Router) *OrderController {
	return &OrderController{orders: orders, broker: broker, routes: routes}
}

func callerIdentity(r *http.Request) (userID uint, isAdmin bool, ok bool) {
	userID, ok = middleware.UserIDFromCtx(r.Context())
	if !ok {
		return 0, false, false
	}
	role, _ := middleware.RoleFromCtx(r.Context())
	return userID, role == models.RoleAdmin, true
}

// Submit handles POST /api/orders.
func (c *OrderController) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.SubmitOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.Submit(r.Context(), userID, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if loc, err := c.routes.URL("orders.show", map[string]string{"id": strconv.FormatUint(uint64(order.ID), 10)}); err == nil {
		w.Header().Set("Location", loc)
	}
	response.Created(w, order)
}

// MyOrders handles GET /api/orders/my-orders.
func (c *OrderController) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	orders, err := c.orders.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, orders)
}

// Get handles GET /api/orders/{id}.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	userID, isAdmin, ok := callerIdentity(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	orderID, pok := uintParam(r, "id")
	if !pok {
		response.NotFound(w)
		return
	}

	order, err := c.orders.Get(r.Context(), orderID, userID, isAdmin)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, order)
}

// Track handles GET /api/orders/{id}/track.
func (c *OrderController) Track(w http.ResponseWriter, r *http.Request) {
	userID, isAdmin, ok := callerIdentity(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	orderID, pok := uintParam(r, "id")
	if !pok {
		response.NotFound(w)
		return
	}

	view, err := c.orders.Track(r.Context(), orderID, userID, isAdmin)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, view)
}

// AdminList handles GET /api/orders, the admin listing, with optional status,
// restaurantId and userId query parameters.
func (c *OrderController) AdminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.OrderFilter{Status: q.Get("status")}
	if id, ok := parseUintQuery(q.Get("restaurantId")); ok {
		filter.RestaurantID = id
	}
	if id, ok := parseUintQuery(q.Get("userId")); ok {
		filter.UserID = id
	}

	orders, err := c.orders.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, orders)
}

// UpdateStatus handles PATCH /api/orders/{id}/status, an admin-only route.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := uintParam(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.UpdateStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), orderID, in.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, order)
}

// Events handles GET /api/orders/{id}/events, streaming tracking views
// over SSE. The first event is the current state; subsequent events follow
// status changes until the client disconnects.
func (c *OrderController) Events(w http.ResponseWriter, r *http.Request) {
	userID, isAdmin, ok := callerIdentity(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	orderID, pok := uintParam(r, "id")
	if !pok {
		response.NotFound(w)
		return
	}

	// Subscribe before the snapshot so no update can fall in between.
	patches, cancel := c.broker.Subscribe(orderID)
	defer cancel()

	view, err := c.orders.Track(r.Context(), orderID, userID, isAdmin)
	if err != nil {
		respondError(w, r, err)
		return
	}

	stream, err := sse.New(w)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Streaming unsupported.")
		return
	}
	defer stream.Close()

	current := *view
	if err := stream.Send("tracking", current); err != nil {
		return
	}

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if err := stream.Comment("ping"); err != nil {
				return
			}
		case patch := <-patches:
			current = current.Apply(patch)
			if err := stream.Send("tracking", current); err != nil {
				return
			}
			if current.Status == models.StatusDelivered || current.Status == models.StatusCancelled {
				return
			}
		}
	}
}

// Feed handles GET /ws/orders/{id}, the websocket variant of Events.
func (c *OrderController) Feed(w http.ResponseWriter, r *http.Request) {
	userID, isAdmin, ok := callerIdentity(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	orderID, pok := uintParam(r, "id")
	if !pok {
		response.NotFound(w)
		return
	}

	patches, cancel := c.broker.Subscribe(orderID)
	defer cancel()

	view, err := c.orders.Track(r.Context(), orderID, userID, isAdmin)
	if err != nil {
		respondError(w, r, err)
		return
	}

	conn, err := ws.Upgrade(w, r)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	gone := make(chan struct{})
	go conn.ReadLoop(gone)

	current := *view
	if err := conn.WriteJSON(current); err != nil {
		return
	}

	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case patch := <-patches:
			current = current.Apply(patch)
			if err := conn.WriteJSON(current); err != nil {
				return
			}
			if current.Status == models.StatusDelivered || current.Status == models.StatusCancelled {
				return
			}
		}
	}
}

func parseUintQuery(raw string) (uint, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

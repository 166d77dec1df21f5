package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zaika-app/zaika/app/controllers"
	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/app/repositories"
	"github.com/zaika-app/zaika/app/routes"
	"github.com/zaika-app/zaika/app/services"
	"github.com/zaika-app/zaika/internal/tracking"
	"github.com/zaika-app/zaika/pkg/auth"
	"github.com/zaika-app/zaika/pkg/cache"
	"github.com/zaika-app/zaika/pkg/router"
)

type testApp struct {
	db      *gorm.DB
	handler http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Restaurant{}, &models.MenuItem{},
		&models.Order{}, &models.OrderItem{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	store := cache.NewWithClient(rdb)

	userRepo := repositories.NewUserRepository(db)
	restaurantRepo := repositories.NewRestaurantRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	cartRepo := repositories.NewCartRepository(store)

	broker := tracking.NewBroker()
	authSvc := services.NewAuthService(userRepo)
	restaurantSvc := services.NewRestaurantService(restaurantRepo, store)
	cartSvc := services.NewCartService(cartRepo, restaurantRepo)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, restaurantRepo, broker, nil)

	r := router.New()
	routes.Register(r, routes.Controllers{
		Auth:       controllers.NewAuthController(authSvc),
		Restaurant: controllers.NewRestaurantController(restaurantSvc),
		Cart:       controllers.NewCartController(cartSvc),
		Order:      controllers.NewOrderController(orderSvc, broker, r),
	})

	return &testApp{db: db, handler: r.Handler()}
}

func (a *testApp) request(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

const registerBody = `{
	"name": "Asha",
	"email": "asha@example.com",
	"password": "secret99",
	"password_confirmation": "secret99",
	"address": "12 MG Road, Bengaluru 560001"
}`

func registerAndToken(t *testing.T, a *testApp) string {
	t.Helper()
	rec := a.request(t, http.MethodPost, "/api/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	token, _ := decodeData(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginMe(t *testing.T) {
	a := newTestApp(t)
	token := registerAndToken(t, a)

	rec := a.request(t, http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "asha@example.com", decodeData(t, rec)["email"])

	rec = a.request(t, http.MethodPost, "/api/auth/login", "",
		`{"email": "asha@example.com", "password": "secret99"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.request(t, http.MethodPost, "/api/auth/login", "",
		`{"email": "asha@example.com", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	a := newTestApp(t)

	rec := a.request(t, http.MethodPost, "/api/auth/register", "",
		`{"name": "A", "email": "bad", "password": "x", "password_confirmation": "y"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestApp(t)

	for _, path := range []string{"/api/auth/me", "/api/cart", "/api/orders"} {
		rec := a.request(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	a := newTestApp(t)
	token := registerAndToken(t, a)

	rec := a.request(t, http.MethodGet, "/api/orders", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.request(t, http.MethodPatch, "/api/orders/1/status", token, `{"status": "confirmed"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOrderFlowOverHTTP(t *testing.T) {
	a := newTestApp(t)
	token := registerAndToken(t, a)

	restaurant := &models.Restaurant{
		Name: "Spice Garden", Cuisine: "indian", DeliveryFee: 2.99, MinimumOrder: 5,
		IsOpen: true,
		Menu: []models.MenuItem{
			{Name: "Butter Chicken", Price: 12.50, Category: "mains", IsAvailable: true},
		},
	}
	require.NoError(t, a.db.Create(restaurant).Error)
	adminToken, err := auth.GenerateToken(999, models.RoleAdmin)
	require.NoError(t, err)

	rec := a.request(t, http.MethodPost, "/api/cart/items", token, fmt.Sprintf(
		`{"restaurantId": %d, "menuItemId": %d}`, restaurant.ID, restaurant.Menu[0].ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.request(t, http.MethodPost, "/api/orders", token,
		`{"deliveryAddress": "12 MG Road, Bengaluru 560001", "paymentMethod": "card"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	orderID := decodeData(t, rec)["id"].(float64)
	assert.Equal(t, fmt.Sprintf("/api/orders/%.0f", orderID), rec.Header().Get("Location"))

	rec = a.request(t, http.MethodGet, fmt.Sprintf("/api/orders/%.0f/track", orderID), token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", decodeData(t, rec)["status"])

	rec = a.request(t, http.MethodPatch, fmt.Sprintf("/api/orders/%.0f/status", orderID),
		adminToken, `{"status": "confirmed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.request(t, http.MethodGet, fmt.Sprintf("/api/orders/%.0f", orderID), token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmed", decodeData(t, rec)["status"])

	rec = a.request(t, http.MethodGet, "/api/orders/my-orders", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history.Data, 1)
}

func TestOrderBelongsToOwner(t *testing.T) {
	a := newTestApp(t)
	token := registerAndToken(t, a)

	restaurant := &models.Restaurant{
		Name: "Spice Garden", DeliveryFee: 2.99, IsOpen: true,
		Menu: []models.MenuItem{{Name: "Naan", Price: 2.50, IsAvailable: true}},
	}
	require.NoError(t, a.db.Create(restaurant).Error)

	rec := a.request(t, http.MethodPost, "/api/cart/items", token, fmt.Sprintf(
		`{"restaurantId": %d, "menuItemId": %d}`, restaurant.ID, restaurant.Menu[0].ID))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = a.request(t, http.MethodPost, "/api/orders", token,
		`{"deliveryAddress": "12 MG Road, Bengaluru 560001", "paymentMethod": "cash"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decodeData(t, rec)["id"].(float64)

	otherToken, err := auth.GenerateToken(777, models.RoleUser)
	require.NoError(t, err)
	rec = a.request(t, http.MethodGet, fmt.Sprintf("/api/orders/%.0f", orderID), otherToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRestaurantBrowsePublic(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.db.Create(&models.Restaurant{
		Name: "Napoli Express", Cuisine: "italian", Rating: 4.7, IsOpen: true,
	}).Error)

	rec := a.request(t, http.MethodGet, "/api/restaurants?cuisine=italian", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Napoli Express", body.Data[0]["name"])
}

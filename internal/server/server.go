// Package server assembles the application and runs the HTTP listener.
package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/zaika-app/zaika/app/controllers"
	"github.com/zaika-app/zaika/app/repositories"
	"github.com/zaika-app/zaika/app/routes"
	"github.com/zaika-app/zaika/app/services"
	"github.com/zaika-app/zaika/config"
	"github.com/zaika-app/zaika/internal/events"
	"github.com/zaika-app/zaika/internal/tracking"
	"github.com/zaika-app/zaika/pkg/cache"
	"github.com/zaika-app/zaika/pkg/database"
	"github.com/zaika-app/zaika/pkg/logger"
	"github.com/zaika-app/zaika/pkg/metrics"
	"github.com/zaika-app/zaika/pkg/middleware"
	"github.com/zaika-app/zaika/pkg/migration"
	"github.com/zaika-app/zaika/pkg/reqid"
	"github.com/zaika-app/zaika/pkg/router"
	"github.com/zaika-app/zaika/pkg/ws"
)

// Server owns every long-lived resource of the running application.
type Server struct {
	http     *http.Server
	store    *cache.Store
	producer *events.Producer
	mongoLog *logger.MongoHandler
	Router   *router.Router
}

// New loads configuration, connects the backing services and wires the
// full application together.
func New() (*Server, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("server: load config: %w", err)
	}
	logger.Setup(config.AppEnv())

	var mongoLog *logger.MongoHandler
	if uri := config.MongoLogURI(); uri != "" {
		h, err := logger.EnableMongo(uri, config.MongoLogDB())
		if err != nil {
			logger.Warn("mongo log shipping disabled", "error", err)
		} else {
			mongoLog = h
		}
	}

	db, err := database.Connect()
	if err != nil {
		return nil, fmt.Errorf("server: connect database: %w", err)
	}
	if err := migration.NewRunner(db).Run(); err != nil {
		return nil, fmt.Errorf("server: migrate: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword())
	if err != nil {
		return nil, fmt.Errorf("server: connect redis: %w", err)
	}

	producer := events.NewProducer(config.KafkaBrokers(), config.KafkaTopic())
	broker := tracking.NewBroker()

	userRepo := repositories.NewUserRepository(db)
	restaurantRepo := repositories.NewRestaurantRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	cartRepo := repositories.NewCartRepository(store)

	authSvc := services.NewAuthService(userRepo)
	restaurantSvc := services.NewRestaurantService(restaurantRepo, store)
	cartSvc := services.NewCartService(cartRepo, restaurantRepo)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, restaurantRepo, broker, producer)

	// Browsers send an Origin header on websocket upgrades; outside local
	// development only same-host upgrades are accepted.
	if config.AppEnv() != "local" {
		ws.SetCheckOrigin(func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		})
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	routes.Register(r, routes.Controllers{
		Auth:       controllers.NewAuthController(authSvc),
		Restaurant: controllers.NewRestaurantController(restaurantSvc),
		Cart:       controllers.NewCartController(cartSvc),
		Order:      controllers.NewOrderController(orderSvc, broker, r),
	})

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		http:     srv,
		store:    store,
		producer: producer,
		mongoLog: mongoLog,
		Router:   r,
	}, nil
}

// Run serves HTTP until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	logger.Info("listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases every resource.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if cerr := s.producer.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if s.mongoLog != nil {
		s.mongoLog.Close()
	}
	return err
}

package router

import (
	"time"

	"github.com/yeremiapane/restaurant-hub/auth"
	"github.com/yeremiapane/restaurant-hub/clock"
	"github.com/yeremiapane/restaurant-hub/config"
	"github.com/yeremiapane/restaurant-hub/controllers"
	"github.com/yeremiapane/restaurant-hub/kds"
	"github.com/yeremiapane/restaurant-hub/metrics"
	"github.com/yeremiapane/restaurant-hub/middlewares"
	"github.com/yeremiapane/restaurant-hub/repository"
	"github.com/yeremiapane/restaurant-hub/services"
	"gorm.io/gorm"
)

// Options carries the collaborators main and tests may replace.
type Options struct {
	Clock clock.Clock
	Relay kds.Relay
}

// App holds every long-lived component of one server instance.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Clock    clock.Clock
	Metrics  *metrics.Metrics
	Hub      *kds.Hub
	Limiter  *middlewares.RateLimiter
	Resolver *auth.Resolver
	Scopes   *services.TenantScopeResolver

	AuthClass middlewares.LimiterClass
	APIClass  middlewares.LimiterClass

	Users        *controllers.UserController
	Restaurants  *controllers.RestaurantController
	Orders       *controllers.OrderController
	Reservations *controllers.ReservationController
	KDS          *controllers.KDSController
}

func NewApp(cfg *config.Config, db *gorm.DB, opts Options) (*App, error) {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	hub := kds.NewHub(opts.Relay, m)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL, clk)
	resolver := auth.NewResolver(tokens, auth.NewRevocationList(clk), m)
	cookies := auth.NewCookieManager(cfg.CookieSecure, cfg.CookieDomain, clk)

	userRepo := repository.NewUserRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	scopes := services.NewTenantScopeResolver(userRepo, restaurantRepo, cfg.ScopeCacheTTL)
	authSvc := services.NewAuthService(userRepo, scopes, tokens)
	restaurantSvc := services.NewRestaurantService(restaurantRepo, scopes)
	orderSvc := services.NewOrderService(orderRepo, restaurantRepo, hub, clk, m, services.OrderServiceOptions{
		StrictTransitions: cfg.StrictTransitions,
		Location:          loc,
	})
	reservationSvc := services.NewReservationService(reservationRepo, restaurantRepo)

	return &App{
		Config:   cfg,
		DB:       db,
		Clock:    clk,
		Metrics:  m,
		Hub:      hub,
		Limiter:  middlewares.NewRateLimiter(clk, m),
		Resolver: resolver,
		Scopes:   scopes,

		AuthClass: limiterClass(middlewares.AuthClass, cfg.AuthRateLimit, cfg.AuthRateWindow),
		APIClass:  limiterClass(middlewares.APIClass, cfg.APIRateLimit, cfg.APIRateWindow),

		Users:        controllers.NewUserController(authSvc, resolver, cookies),
		Restaurants:  controllers.NewRestaurantController(restaurantSvc),
		Orders:       controllers.NewOrderController(orderSvc, loc),
		Reservations: controllers.NewReservationController(reservationSvc),
		KDS:          controllers.NewKDSController(hub, scopes, cfg.CORSOrigins),
	}, nil
}

func limiterClass(base middlewares.LimiterClass, limit int, window time.Duration) middlewares.LimiterClass {
	if limit > 0 {
		base.Limit = limit
	}
	if window > 0 {
		base.Window = window
	}
	return base
}

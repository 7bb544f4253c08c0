package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-hub/middlewares"
	"github.com/yeremiapane/restaurant-hub/utils"
)

func SetupRouter(app *App) *gin.Engine {
	r := gin.New()
	// ClientIP feeds the limiter key, so forwarded addresses count only from known proxies.
	if err := r.SetTrustedProxies(app.Config.TrustedProxies); err != nil {
		utils.ErrorLogger.WithError(err).Error("invalid TRUSTED_PROXIES, trusting none")
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(app.Config.CookieSecure))
	r.Use(middlewares.CORS(app.Config.CORSOrigins))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(app.Metrics.Handler()))

	session := middlewares.RequireSession(app.Resolver)
	tenant := middlewares.ResolveTenant(app.Scopes)

	api := r.Group("/api")
	api.Use(middlewares.RateLimit(app.Limiter, app.APIClass))
	{
		authGroup := api.Group("/auth")
		authLimit := middlewares.RateLimit(app.Limiter, app.AuthClass)
		authGroup.POST("/register", authLimit, app.Users.Register)
		authGroup.POST("/login", authLimit, app.Users.Login)
		authGroup.POST("/logout", app.Users.Logout)
		authGroup.GET("/me", session, app.Users.Me)

		restaurants := api.Group("/restaurants", session)
		restaurants.GET("", app.Restaurants.ListRestaurants)
		restaurants.POST("", app.Restaurants.CreateRestaurant)

		orders := api.Group("/orders", session, tenant)
		orders.POST("", app.Orders.CreateOrder)
		orders.GET("", app.Orders.GetTodayOrders)
		orders.GET("/:id", app.Orders.GetOrderByID)
		orders.PATCH("/:id/status", app.Orders.UpdateOrderStatus)
		orders.DELETE("/:id", app.Orders.DeleteOrder)

		reservations := api.Group("/reservations", session, tenant)
		reservations.GET("", app.Reservations.ListReservations)
		reservations.POST("", app.Reservations.CreateReservation)
		reservations.PATCH("/:id", app.Reservations.UpdateReservation)
		reservations.DELETE("/:id", app.Reservations.DeleteReservation)
	}

	// A websocket without a named restaurant picks one later with a join command.
	r.GET("/ws/orders",
		middlewares.RateLimit(app.Limiter, app.APIClass),
		session,
		optionalTenant(app),
		app.KDS.KDSHandler,
	)

	return r
}

func optionalTenant(app *App) gin.HandlerFunc {
	resolve := middlewares.ResolveTenant(app.Scopes)
	return func(c *gin.Context) {
		if c.Query("restaurantId") == "" && c.GetHeader(middlewares.TenantHeader) == "" {
			c.Next()
			return
		}
		resolve(c)
	}
}

package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/adilhz/travelhub-server/internal/config"
	"github.com/adilhz/travelhub-server/internal/handler"
	"github.com/adilhz/travelhub-server/internal/middleware"
)

// Handlers groups every handler the router wires up.
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Prices       *handler.PriceHandler
	Flights      *handler.FlightHandler
	POIs         *handler.POIHandler
	Vehicles     *handler.VehicleHandler
	Reservations *handler.ReservationHandler
}

// RegisterRoutes wires all endpoints onto the provided Echo instance.
// Routes are grouped by audience: health probes and the price surface are
// open, browsing inventory is public, bookings require a session, and
// inventory mutation requires the ADMIN role. Public GET endpoints sit
// behind the Redis response cache; everything shares the rate limiter.
func RegisterRoutes(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Probes. /healthz is pure liveness; /health also pings the database
	// so load balancers can drain a replica that lost persistence.
	e.GET("/healthz", h.Health.Live)
	e.GET("/health", h.Health.Ready)

	// Lodging price surface. The ensure endpoint is idempotent and safe
	// under concurrent first-time calls; the GET never mints a price.
	e.POST("/ensure-price", h.Prices.EnsurePrice)
	e.GET("/price", h.Prices.GetPrice)

	// Session endpoints under /v1/auth.
	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/refresh-access", h.Auth.RefreshAccess)
	g.POST("/logout", h.Auth.Logout)

	// Public inventory browsing, cached.
	e.GET("/v1/flights", h.Flights.List, cacheMW)
	e.GET("/v1/flights/:id", h.Flights.Get, cacheMW)
	e.GET("/v1/pois", h.POIs.List, cacheMW)
	e.GET("/v1/pois/:id", h.POIs.Get, cacheMW)
	e.GET("/v1/vehicles", h.Vehicles.List, cacheMW)
	e.GET("/v1/vehicles/:id", h.Vehicles.Get, cacheMW)

	// Authenticated endpoints: any signed-in role.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", h.Auth.Me)
	auth.PUT("/me", h.Auth.UpdateMe)
	auth.POST("/auth/logout-all", h.Auth.LogoutAll)
	auth.POST("/reservations", h.Reservations.Create)
	auth.GET("/reservations", h.Reservations.List)
	auth.GET("/reservations/:id", h.Reservations.Get)
	auth.PATCH("/reservations/:id", h.Reservations.UpdateStatus)
	auth.POST("/reservations/:id/payment", h.Reservations.CapturePayment)
	auth.DELETE("/reservations/:id", h.Reservations.Delete)

	// Inventory mutation: ADMIN only.
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/flights", h.Flights.Create)
	admin.PATCH("/flights/:id", h.Flights.Update)
	admin.DELETE("/flights/:id", h.Flights.Delete)
	admin.POST("/pois", h.POIs.Create)
	admin.PATCH("/pois/:id", h.POIs.Update)
	admin.DELETE("/pois/:id", h.POIs.Delete)
	admin.POST("/vehicles", h.Vehicles.Create)
	admin.PATCH("/vehicles/:id", h.Vehicles.Update)
	admin.DELETE("/vehicles/:id", h.Vehicles.Delete)
}

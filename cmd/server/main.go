package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/adilhz/travelhub-server/internal/config"
	"github.com/adilhz/travelhub-server/internal/database"
	"github.com/adilhz/travelhub-server/internal/handler"
	"github.com/adilhz/travelhub-server/internal/pricing"
	"github.com/adilhz/travelhub-server/internal/queue"
	"github.com/adilhz/travelhub-server/internal/repository"
	"github.com/adilhz/travelhub-server/internal/router"
)

func main() {
	// .env is optional; production supplies real environment variables.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	// Repositories share the pool; no global connection state.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	priceRepo := repository.NewPriceRepo(db)
	flightRepo := repository.NewFlightRepo(db)
	poiRepo := repository.NewPOIRepo(db)
	vehicleRepo := repository.NewVehicleRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	priceSvc := pricing.NewService(priceRepo)

	h := router.Handlers{
		Health:       handler.NewHealthHandler(db),
		Auth:         handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Prices:       handler.NewPriceHandler(priceSvc),
		Flights:      handler.NewFlightHandler(flightRepo),
		POIs:         handler.NewPOIHandler(poiRepo),
		Vehicles:     handler.NewVehicleHandler(vehicleRepo),
		Reservations: handler.NewReservationHandler(reservationRepo, flightRepo, vehicleRepo, priceSvc),
	}

	// Redis is optional; nil disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	// Background consumer for confirmed reservations.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e, h, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

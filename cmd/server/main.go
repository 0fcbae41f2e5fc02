package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/skylane/airline-reservation/internal/config"
	"github.com/skylane/airline-reservation/internal/database"
	"github.com/skylane/airline-reservation/internal/handler"
	"github.com/skylane/airline-reservation/internal/middleware"
	"github.com/skylane/airline-reservation/internal/queue"
	"github.com/skylane/airline-reservation/internal/repository"
	"github.com/skylane/airline-reservation/internal/router"
	"github.com/skylane/airline-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, response cache and rate limiting disabled")
	}

	// Repositories share the one injected pool.
	flightRepo := repository.NewFlightRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	aircraftRepo := repository.NewAircraftRepo(db)
	airlineRepo := repository.NewAirlineRepo(db)
	airportRepo := repository.NewAirportRepo(db)
	routeRepo := repository.NewRouteRepo(db)
	userRepo := repository.NewUserRepo(db)

	// Services run on the unit-of-work store; events go out after commit.
	store := repository.NewSQLStore(db)
	events := queue.NewPublisher(cfg.AMQPURL)
	booking := service.NewBooking(store, events)
	cascade := service.NewCascade(store, events)
	deletion := service.NewDeletion(store)
	flights := service.NewFlights(store)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo), cfg.JWTSecret)

	var publicMW []echo.MiddlewareFunc
	var limitMW []echo.MiddlewareFunc
	if rdb != nil {
		publicMW = append(publicMW, middleware.ResponseCache(config.LoadCacheConfig(), rdb))
		limitMW = append(limitMW, middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	}
	router.RegisterPublic(e, handler.NewPublicHandler(flightRepo, seatRepo), publicMW...)
	router.RegisterBooking(e, handler.NewBookingHandler(booking, reservationRepo), cfg.JWTSecret, limitMW...)
	router.RegisterFleet(e,
		handler.NewFleetHandler(aircraftRepo, flights, cascade, deletion),
		handler.NewReferenceHandler(airlineRepo, airportRepo, routeRepo),
		cfg.JWTSecret)

	// Background consumer appends confirmed bookings and flight status
	// changes to logs/booking.log.
	go queue.StartBookingConsumer(cfg.AMQPURL)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

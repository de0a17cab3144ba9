package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/skelly37/Rentigo/internal/booking"
	"github.com/skelly37/Rentigo/internal/config"
	"github.com/skelly37/Rentigo/internal/database"
	"github.com/skelly37/Rentigo/internal/handler"
	"github.com/skelly37/Rentigo/internal/middleware"
	"github.com/skelly37/Rentigo/internal/queue"
	"github.com/skelly37/Rentigo/internal/rating"
	"github.com/skelly37/Rentigo/internal/repository"
	"github.com/skelly37/Rentigo/internal/router"
	"github.com/skelly37/Rentigo/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	places := repository.NewPlaceRepo(db)
	reservations := repository.NewReservationRepo(db)
	reviews := repository.NewReviewRepo(db)

	publisher := service.NewPublisher(cfg.AMQPURL)
	bookingSvc := booking.NewService(places, reservations, publisher)
	ratingSvc := rating.NewService(reviews)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	placeH := handler.NewPlaceHandler(places, bookingSvc)
	reservationH := handler.NewReservationHandler(bookingSvc, reservations)
	hostH := handler.NewHostHandler(bookingSvc, reservations, places)
	reviewH := handler.NewReviewHandler(ratingSvc)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, placeH, reviewH)
	router.RegisterGuest(e, reservationH, reviewH, cfg.JWTSecret)
	router.RegisterHost(e, placeH, hostH, cfg.JWTSecret)
	router.RegisterAdmin(e, reservationH, cfg.JWTSecret)

	// Background consumer turning reservation events into notifications.
	go func() {
		if err := queue.StartReservationConsumer(cfg.AMQPURL); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

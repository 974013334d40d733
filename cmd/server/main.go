package main // Entry point package

import (
	"context" // Housekeeping call contexts
	"log"     // Logging library
	"time"    // Housekeeping intervals

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/evently/venue-booking/internal/booking"
	"github.com/evently/venue-booking/internal/config"
	"github.com/evently/venue-booking/internal/database"
	"github.com/evently/venue-booking/internal/handler"
	"github.com/evently/venue-booking/internal/middleware"
	"github.com/evently/venue-booking/internal/queue"
	"github.com/evently/venue-booking/internal/repository"
	"github.com/evently/venue-booking/internal/router"
	"github.com/evently/venue-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use env vars
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rolesRepo := repository.NewRoleRepo(db)
	spaces := repository.NewSpaceRepo(db)
	content := repository.NewSpaceContentRepo(db)
	reservations := repository.NewReservationRepo(db)

	// Booking core
	detector := booking.NewDetector(spaces, reservations, cfg.CleanupBuffer)
	notifier := service.NewAMQPNotifier(cfg.AMQPURL)
	lifecycle := booking.NewLifecycle(spaces, reservations, detector, notifier)
	lifecycle.Fallback = cfg.FallbackTZ
	reporter := booking.NewReporter(spaces, reservations, cfg.CleanupBuffer, cfg.ReportLocation)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	reservationHandler := handler.NewReservationHandler(lifecycle, reservations)
	ownerReservationHandler := handler.NewOwnerReservationHandler(lifecycle, reservations)
	availabilityHandler := handler.NewAvailabilityHandler(reporter)
	publicSpaceHandler := handler.NewPublicSpaceHandler(spaces, content)
	ownerSpaceHandler := handler.NewOwnerSpaceHandler(spaces, content)
	accountHandler := handler.NewAccountHandler(users, reservations)

	e := echo.New()
	e.HideBanner = true

	// Redis-backed rate limiting and response caching; both degrade to
	// no-ops when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterPublic(e, publicSpaceHandler, availabilityHandler)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, rolesRepo)
	router.RegisterUser(e, reservationHandler, publicSpaceHandler, accountHandler, cfg.JWTSecret, rolesRepo)
	router.RegisterOwner(e, ownerReservationHandler, ownerSpaceHandler, cfg.JWTSecret, rolesRepo)

	// Notification consumer; runs its own reconnect loop for the life
	// of the process.
	consumer := queue.NewConsumer(cfg.AMQPURL, users, queue.MailConfig{
		APIURL: cfg.MailAPI,
		APIKey: cfg.MailKey,
		From:   cfg.MailFrom,
	})
	go func() {
		if err := consumer.Start(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	// Expired refresh tokens are purged daily.
	go func() {
		for range time.Tick(24 * time.Hour) {
			if n, err := tokens.PurgeExpired(context.Background(), 30*24*time.Hour); err == nil && n > 0 {
				log.Printf("purged %d expired refresh tokens", n)
			}
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

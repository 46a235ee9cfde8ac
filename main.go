package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/siddardha003/BookIt-Experiences-Slots/config"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/consumer"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/handler"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/middleware"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/repository"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/seed"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/service"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/validation"
	"github.com/siddardha003/BookIt-Experiences-Slots/pkg/cache"
	"github.com/siddardha003/BookIt-Experiences-Slots/pkg/database"
	"github.com/siddardha003/BookIt-Experiences-Slots/pkg/rabbitmq"
)

const (
	retryBackoff    = 25 * time.Millisecond
	shutdownTimeout = 10 * time.Second
)

func main() {
	seedOnly := flag.Bool("seed", false, "replace the catalog with the sample data and exit")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if *seedOnly {
		res, err := seed.Run(context.Background(), db, time.Now(), rand.New(rand.NewSource(time.Now().UnixNano())))
		if err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		log.Printf("[Seed] done: %d experiences, %d schedules", len(res.Experiences), res.Schedules)
		return
	}

	// Redis: catalog cache, optional
	var catalogCache cache.Cache = cache.Noop{}
	if client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); client != nil {
		defer client.Close()
		catalogCache = cache.NewRedisCache(client, cfg.CacheTTL)
	} else {
		log.Println("[Redis] running without catalog cache")
	}

	// Repositories
	experienceRepo := repository.NewExperienceRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	catalogSvc := service.NewCatalogService(experienceRepo, scheduleRepo, catalogCache)

	// RabbitMQ: booking events out, catalog sync in. Both optional.
	var publisher service.EventPublisher
	if p, err := rabbitmq.NewPublisher(cfg.RabbitURL); err != nil {
		log.Printf("[RabbitMQ] publisher unavailable, booking events disabled: %v", err)
	} else {
		defer p.Close()
		publisher = p
	}

	if mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, rabbitmq.CatalogQueue, rabbitmq.CatalogBinding); err != nil {
		log.Printf("[RabbitMQ] consumer unavailable, catalog sync disabled: %v", err)
	} else {
		defer mqConsumer.Close()
		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Printf("[RabbitMQ] failed to start consuming: %v", err)
		} else {
			consumer.NewCatalogConsumer(experienceRepo, scheduleRepo, catalogSvc).Start(msgs)
		}
	}

	bookingSvc := service.NewBookingService(service.BookingDeps{
		Tx:          repository.NewTransactor(db),
		Experiences: experienceRepo,
		Schedules:   scheduleRepo,
		Bookings:    bookingRepo,
		Catalog:     catalogSvc,
		Publisher:   publisher,
	}, service.BookingConfig{
		MaxAttempts:     cfg.BookingMaxAttempts,
		RetryBackoff:    retryBackoff,
		TaxPercent:      cfg.TaxPercent,
		ReferencePrefix: cfg.ReferencePrefix,
	})

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(echoMw.CORS())
	e.Use(echoMw.ContextTimeoutWithConfig(echoMw.ContextTimeoutConfig{Timeout: cfg.RequestTimeout}))

	api := e.Group("/api")
	handler.NewHealthHandler(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}).RegisterRoutes(api)
	handler.NewExperienceHandler(catalogSvc).RegisterRoutes(api.Group("/experiences"))
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(api.Group("/bookings"))
	handler.NewPromoHandler().RegisterRoutes(api.Group("/promo"))

	go func() {
		log.Printf("BookIt API starting on :%s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

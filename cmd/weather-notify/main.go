package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/akorchev/weather-notify/internal/api/http"
	"github.com/akorchev/weather-notify/internal/chart"
	"github.com/akorchev/weather-notify/internal/config"
	"github.com/akorchev/weather-notify/internal/forecast"
	"github.com/akorchev/weather-notify/internal/forecast/providers"
	"github.com/akorchev/weather-notify/internal/forecast/references"
	"github.com/akorchev/weather-notify/internal/notify"
	"github.com/akorchev/weather-notify/internal/scheduler"
	"github.com/akorchev/weather-notify/internal/store"
)

func main() {
	once := flag.Bool("once", false, "run the pipeline once for tomorrow and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider and scraper calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	recordStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	artifacts, err := store.NewFileArtifactStore(cfg.OutputDir)
	if err != nil {
		log.Fatalf("failed to prepare artifact store: %v", err)
	}

	service := forecast.NewService(forecast.ServiceDeps{
		Primary:   providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.Timezone),
		Secondary: providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey, cfg.Timezone),
		References: []forecast.ReferenceSource{
			references.NewYRNoSource(httpClient, cfg.Timezone, cfg.YRNoPages),
			references.NewOpenMeteoSource(httpClient, cfg.Timezone),
		},
		Store:      recordStore,
		Artifacts:  artifacts,
		Chart:      chart.NewRenderer(),
		Thresholds: cfg.Thresholds,
		Timezone:   cfg.Timezone,
	})

	var notifier *notify.PushoverNotifier
	if cfg.PushoverToken != "" && cfg.PushoverUserKey != "" {
		notifier = notify.NewPushoverNotifier(cfg.PushoverToken, cfg.PushoverUserKey)
	} else {
		log.Println("pushover credentials not configured; notifications disabled")
	}

	runBatch := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		tomorrow := time.Now().In(cfg.Timezone).AddDate(0, 0, 1)
		for _, result := range service.RunBatch(ctx, cfg.Locations, tomorrow) {
			if result.Err != nil {
				// A failed city produces no notification for the day.
				continue
			}
			if notifier == nil {
				continue
			}
			if err := notifier.Send(ctx, result.Record); err != nil {
				log.Printf("notification failed for %s: %v", result.Location.Key(), err)
			}
		}
	}

	if *once {
		runBatch()
		return
	}

	sched := scheduler.New(cfg.RunAt, cfg.Timezone, runBatch)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-notify",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-notify",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

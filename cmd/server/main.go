package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/smartcity/accidents/internal/bootstrap"
	"github.com/smartcity/accidents/internal/config"
	"github.com/smartcity/accidents/internal/delivery/http"
	"github.com/smartcity/accidents/internal/logging"
	"github.com/smartcity/accidents/internal/service"
)

func main() {
	// Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zl, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Logger setup failed: %v", err)
	}
	defer zl.Sync()

	// Dependency Injection: Source and services
	datasetSvc, closeSource := bootstrap.Dataset(context.Background(), cfg, zl)
	defer closeSource()
	dashboardSvc := service.NewDashboardService(datasetSvc, zl)

	// Initial load in the configured mode; failures are reported, not fatal
	go func() {
		size, _ := config.SampleSizeForMode(cfg.PerformanceMode)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+time.Minute)
		defer cancel()
		if _, err := datasetSvc.Load(ctx, size); err != nil {
			zl.Warn("initial dataset load failed", zap.String("mode", cfg.PerformanceMode), zap.Error(err))
		}
	}()

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "US Accidents API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, dashboardSvc, http.RouteOptions{
		DefaultMode:     cfg.PerformanceMode,
		ExportPerMinute: cfg.ExportPerMinute,
		Logger:          zl,
	})

	// Graceful shutdown
	go func() {
		zl.Info("server starting", zap.String("port", cfg.Port), zap.String("source", cfg.DataSource))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}
	zl.Info("server exited gracefully")
}

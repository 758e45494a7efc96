package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/xydatalabs/orderpay/app/controllers"
	"github.com/xydatalabs/orderpay/internal/pkg/cache"
	"github.com/xydatalabs/orderpay/internal/pkg/config"
	"github.com/xydatalabs/orderpay/internal/pkg/database"
	"github.com/xydatalabs/orderpay/internal/pkg/env"
	"github.com/xydatalabs/orderpay/internal/pkg/masterdata"
	"github.com/xydatalabs/orderpay/internal/pkg/metrics/counter"
	"github.com/xydatalabs/orderpay/internal/pkg/openpay"
	"github.com/xydatalabs/orderpay/internal/pkg/payment"
	"github.com/xydatalabs/orderpay/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	cfg, err := config.LoadOpenPay()
	if err != nil {
		log.Fatalf("[Startup] %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	providers, err := masterdata.NewFromDB(ctx, database.GetDB())
	if err != nil {
		log.Fatalf("[Startup] %v", err)
	}

	outcomes := counter.NewPaymentOutcomes(cache.GetClient())
	opts := []payment.Option{payment.WithOutcomeRecorder(outcomes)}
	if cfg.CustomerLock {
		opts = append(opts, payment.WithCustomerLocker(cache.NewKeyedLock(cache.GetClient())))
		log.Info("[Startup] billing customer lock enabled")
	}
	payments, err := payment.NewServiceFromDB(cfg, database.GetDB(), openpay.NewClientFromConfig(cfg), providers, opts...)
	if err != nil {
		log.Fatalf("[Startup] %v", err)
	}

	basePath := findBasePath()

	app := fiber.New(fiber.Config{
		BodyLimit: 64 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	admin, err := config.LoadAdmin()
	if err != nil {
		log.Fatalf("[Startup] %v", err)
	}
	admins := admin.Users()

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: admins,
	}), monitor.New())

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}))

	router.InstallRouter(app, router.Dependencies{
		Payments:       controllers.NewPaymentController(payments, providers),
		Metrics:        controllers.NewMetricsController(outcomes),
		LimiterStorage: router.NewLimiterStorage(),
		AdminUsers:     admins,
	})

	return app
}

func findBasePath() string {
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/orderpay to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public/docs/v1/openapi.yml"); err == nil {
			return path
		}
	}
	panic("Could not find project root directory")
}

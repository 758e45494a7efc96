package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xydatalabs/orderpay/app/controllers"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies are the handlers and shared infrastructure the routes need.
type Dependencies struct {
	Payments *controllers.PaymentController

	// Metrics is optional; nil leaves the counters endpoint unregistered.
	Metrics *controllers.MetricsController

	// LimiterStorage backs the /api rate limiter. Nil keeps counters in memory.
	LimiterStorage fiber.Storage

	AdminUsers map[string]string
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	// The api router installs the /api limiter, which the admin routes share.
	setup(app, NewApiRouter(deps), NewAdminRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}

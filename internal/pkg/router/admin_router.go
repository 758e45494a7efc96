package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"github.com/xydatalabs/orderpay/app/controllers"
)

// AdminRouter serves operational endpoints behind basic auth.
type AdminRouter struct {
	payments *controllers.PaymentController
	metrics  *controllers.MetricsController
	users    map[string]string
}

func (h AdminRouter) InstallRouter(app *fiber.App) {
	admin := app.Group("/api/v1/admin", basicauth.New(basicauth.Config{
		Users: h.users,
	}))

	admin.Post("/master-data/refresh", h.payments.HandleRefreshMasterData)
	admin.Get("/master-data/providers", h.payments.HandleListProviders)
	admin.Get("/billing-customers/:id", h.payments.HandleGetBillingCustomer)
	if h.metrics != nil {
		admin.Get("/metrics/payments", h.metrics.HandlePaymentOutcomes)
	}
}

func NewAdminRouter(deps Dependencies) *AdminRouter {
	return &AdminRouter{payments: deps.Payments, metrics: deps.Metrics, users: deps.AdminUsers}
}

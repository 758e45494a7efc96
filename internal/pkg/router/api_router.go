package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/xydatalabs/orderpay/app/controllers"
)

type ApiRouter struct {
	payments *controllers.PaymentController
	storage  fiber.Storage
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		Storage:    h.storage,
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "orderpay api",
		})
	})

	v1 := api.Group("/v1")
	v1.Post("/payments/process", h.payments.HandleProcessPayment)
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{payments: deps.Payments, storage: deps.LimiterStorage}
}

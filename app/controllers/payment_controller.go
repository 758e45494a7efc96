package controllers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/xydatalabs/orderpay/app/models"
	"github.com/xydatalabs/orderpay/internal/pkg/payment"
)

const processPaymentFailedMessage = "An error occurred while processing the payment"

type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, req *payment.ProcessPaymentRequest) (*payment.Result, error)
	GetBillingCustomerWithHistory(ctx context.Context, id uint) (*models.BillingCustomer, error)
}

type MasterDataRefresher interface {
	Refresh(ctx context.Context) error
	Providers() []models.PaymentProvider
}

type PaymentController struct {
	payments   PaymentProcessor
	masterData MasterDataRefresher
}

func NewPaymentController(payments PaymentProcessor, masterData MasterDataRefresher) *PaymentController {
	return &PaymentController{payments: payments, masterData: masterData}
}

// HandleProcessPayment runs one combined customer, card and charge attempt.
// Failure details only go to the log.
func (pc *PaymentController) HandleProcessPayment(c *fiber.Ctx) error {
	var req payment.ProcessPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warnf("[Payment] invalid request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": processPaymentFailedMessage})
	}

	res, err := pc.payments.ProcessPayment(c.UserContext(), &req)
	if err != nil {
		log.Errorf("[Payment] error processing payment for order %s: %v", req.OrderID, err)
		if errors.Is(err, payment.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": processPaymentFailedMessage})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": processPaymentFailedMessage})
	}

	return c.Status(fiber.StatusOK).JSON(res)
}

// HandleRefreshMasterData reloads the provider snapshot.
func (pc *PaymentController) HandleRefreshMasterData(c *fiber.Ctx) error {
	if err := pc.masterData.Refresh(c.UserContext()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to refresh master data"})
	}

	providers := pc.masterData.Providers()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"providers": providers,
		"count":     len(providers),
	})
}

func (pc *PaymentController) HandleListProviders(c *fiber.Ctx) error {
	providers := pc.masterData.Providers()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"providers": providers,
		"count":     len(providers),
	})
}

// HandleGetBillingCustomer returns a billing customer with its transactions.
func (pc *PaymentController) HandleGetBillingCustomer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid billing customer id"})
	}

	customer, err := pc.payments.GetBillingCustomerWithHistory(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Billing customer not found"})
		}
		log.Errorf("[Payment] failed to load billing customer %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load billing customer"})
	}

	return c.Status(fiber.StatusOK).JSON(customer)
}

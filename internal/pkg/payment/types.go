package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xydatalabs/orderpay/app/models"
	"github.com/xydatalabs/orderpay/internal/pkg/openpay"
)

// FixedChargeAmount is charged on every attempt; the request carries no amount.
var FixedChargeAmount = decimal.New(10000, -2)

// ProcessPaymentRequest is one combined customer, card and order submission.
type ProcessPaymentRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required"`
	DeviceSessionID string `json:"deviceSessionId"`
	CardNumber      string `json:"cardNumber" validate:"required,numeric,min=4"`
	ExpirationYear  string `json:"expirationYear" validate:"required,numeric"`
	ExpirationMonth string `json:"expirationMonth" validate:"required,numeric"`
	Cvv2            string `json:"cvv2" validate:"required"`
	OrderID         string `json:"orderId" validate:"required"`
}

// Result is what the caller gets back for a finished attempt, whatever
// status the provider reported.
type Result struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"orderId"`
	CustomerID      string          `json:"customerId"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	TransactionID   string          `json:"transactionId,omitempty"`
	ThreeDSecureURL string          `json:"threeDSecureUrl,omitempty"`
	ErrorMessage    string          `json:"errorMessage,omitempty"`
}

// Gateway is the provider boundary. *openpay.Client implements it.
type Gateway interface {
	CreateCustomer(ctx context.Context, customer *openpay.Customer) (*openpay.Customer, error)
	CreateCardToken(ctx context.Context, card *openpay.Card) (*openpay.Card, error)
	CreateCharge(ctx context.Context, req *openpay.ChargeRequest) (*openpay.Charge, error)
}

// ProviderDirectory resolves provider master data. *masterdata.Cache implements it.
type ProviderDirectory interface {
	GetProviderByName(name string) *models.PaymentProvider
}

// OutcomeRecorder counts finished attempts by charge status.
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, outcome string)
}

// CustomerLocker serialises billing customer lookup-or-create for one key.
type CustomerLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

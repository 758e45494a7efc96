package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xydatalabs/orderpay/app/models"
	"github.com/xydatalabs/orderpay/internal/pkg/env"
)

// OpenPay holds everything the payment flow needs from the environment.
// Credentials are fixed for the lifetime of the process.
type OpenPay struct {
	MerchantID      string `validate:"required"`
	PrivateKey      string `validate:"required"`
	IsProduction    bool
	APIBaseURL      string `validate:"omitempty,url"`
	RedirectURL     string `validate:"required,url"`
	DeviceSessionID string `validate:"required"`
	ProviderName    string `validate:"required"`

	// CustomerLock serialises lookup-or-create of billing customers per
	// (name, email) through Redis. Off unless PAYMENT_CUSTOMER_LOCK=true.
	CustomerLock bool
}

// LoadOpenPay reads and validates the OpenPay settings. Any error here is a
// startup failure.
func LoadOpenPay() (*OpenPay, error) {
	cfg := &OpenPay{
		MerchantID:      strings.TrimSpace(env.GetEnv("OPENPAY_MERCHANT_ID", "")),
		PrivateKey:      strings.TrimSpace(env.GetEnv("OPENPAY_PRIVATE_KEY", "")),
		IsProduction:    env.GetEnvBool("OPENPAY_IS_PRODUCTION", false),
		APIBaseURL:      strings.TrimSpace(env.GetEnv("OPENPAY_API_BASE_URL", "")),
		RedirectURL:     strings.TrimSpace(env.GetEnv("OPENPAY_REDIRECT_URL", "")),
		DeviceSessionID: strings.TrimSpace(env.GetEnv("OPENPAY_DEVICE_SESSION_ID", "")),
		ProviderName:    strings.TrimSpace(env.GetEnv("OPENPAY_PROVIDER_NAME", models.PaymentProviderOpenPay)),
		CustomerLock:    env.GetEnvBool("PAYMENT_CUSTOMER_LOCK", false),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *OpenPay) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("openpay config: %w", err)
	}
	return nil
}

package payment

import "errors"

var (
	// Configuration errors. NewService refuses to build a Service with these.
	ErrProviderNotConfigured      = errors.New("payment provider not found in master data")
	ErrRedirectURLNotConfigured   = errors.New("redirect url is not configured")
	ErrDeviceSessionNotConfigured = errors.New("device session id is not configured")

	// ErrPaymentMethodNotFound means the row written at the start of the same
	// attempt has vanished. It is never retried.
	ErrPaymentMethodNotFound = errors.New("payment method not found")

	ErrInvalidRequest = errors.New("invalid payment request")
)

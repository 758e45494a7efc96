package models

import "strings"

// Defaults applied to every OpenPay payment attempt.
const (
	DefaultCurrencyCode = "MXN"
	DefaultCountryCode  = "MX"

	PaymentProviderOpenPay = "OpenPay"
)

// PaymentMethodType is the payment method sent to the provider.
type PaymentMethodType int

const (
	PaymentMethodCard PaymentMethodType = 1
)

var paymentMethodTypeNames = map[PaymentMethodType]string{
	PaymentMethodCard: "card",
}

func (t PaymentMethodType) String() string {
	return paymentMethodTypeNames[t]
}

// TransactionType classifies a CardTransaction row.
type TransactionType int

const (
	TransactionTypePay          TransactionType = 1
	TransactionTypeRefund       TransactionType = 2
	TransactionTypeCharge       TransactionType = 3
	TransactionTypeTokenization TransactionType = 4
	TransactionTypeUnknown      TransactionType = 5
)

var transactionTypeNames = map[TransactionType]string{
	TransactionTypePay:          "pay",
	TransactionTypeRefund:       "refund",
	TransactionTypeCharge:       "charge",
	TransactionTypeTokenization: "tokenization",
	TransactionTypeUnknown:      "unknown",
}

func (t TransactionType) String() string {
	return transactionTypeNames[t]
}

// PaymentStatus is the local result code stored on PayinLog.Result.
type PaymentStatus int

const (
	PaymentStatusSuccess PaymentStatus = 1
	PaymentStatusPending PaymentStatus = 2
	PaymentStatusFailed  PaymentStatus = 3
	PaymentStatusUnknown PaymentStatus = 4
)

var paymentStatusNames = map[PaymentStatus]string{
	PaymentStatusSuccess: "completed",
	PaymentStatusPending: "charge_pending",
	PaymentStatusFailed:  "failed",
	PaymentStatusUnknown: "unknown",
}

func (s PaymentStatus) String() string {
	return paymentStatusNames[s]
}

// ParsePaymentStatus maps a provider status string to its local code.
// Matching ignores case; ok is false when the string is not in the table.
func ParsePaymentStatus(description string) (PaymentStatus, bool) {
	d := strings.TrimSpace(description)
	for status, name := range paymentStatusNames {
		if strings.EqualFold(name, d) {
			return status, true
		}
	}
	return 0, false
}

// PaymentStatusFromProvider is ParsePaymentStatus with PaymentStatusUnknown
// as the fallback for anything unrecognised.
func PaymentStatusFromProvider(description string) PaymentStatus {
	if s, ok := ParsePaymentStatus(description); ok {
		return s
	}
	return PaymentStatusUnknown
}

// ProviderTransactionStatus is the status vocabulary written to
// CardTransaction rows for provider-side operations.
type ProviderTransactionStatus int

const (
	ProviderTransactionPending   ProviderTransactionStatus = 1
	ProviderTransactionCompleted ProviderTransactionStatus = 2
)

var providerTransactionStatusNames = map[ProviderTransactionStatus]string{
	ProviderTransactionPending:   "pending",
	ProviderTransactionCompleted: "completed",
}

func (s ProviderTransactionStatus) String() string {
	return providerTransactionStatusNames[s]
}

// IsCompletedStatus reports whether a provider charge status means the money moved.
func IsCompletedStatus(status string) bool {
	return strings.EqualFold(status, ProviderTransactionCompleted.String())
}

// PayinType distinguishes charges from refunds on PayinLog rows.
type PayinType int

const (
	PayinTypeCharge PayinType = 1
	PayinTypeRefund PayinType = 2
)

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionTypeNames(t *testing.T) {
	tests := []struct {
		in   TransactionType
		want string
	}{
		{in: TransactionTypePay, want: "pay"},
		{in: TransactionTypeRefund, want: "refund"},
		{in: TransactionTypeCharge, want: "charge"},
		{in: TransactionTypeTokenization, want: "tokenization"},
		{in: TransactionTypeUnknown, want: "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.String())
	}
	assert.Equal(t, "card", PaymentMethodCard.String())
	assert.Equal(t, "pending", ProviderTransactionPending.String())
	assert.Equal(t, "completed", ProviderTransactionCompleted.String())
}

func TestParsePaymentStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   PaymentStatus
		wantOK bool
	}{
		{in: "completed", want: PaymentStatusSuccess, wantOK: true},
		{in: "COMPLETED", want: PaymentStatusSuccess, wantOK: true},
		{in: "charge_pending", want: PaymentStatusPending, wantOK: true},
		{in: "Failed", want: PaymentStatusFailed, wantOK: true},
		{in: "unknown", want: PaymentStatusUnknown, wantOK: true},
		{in: "in_progress", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ParsePaymentStatus(tt.in)
		assert.Equal(t, tt.wantOK, ok, "ParsePaymentStatus(%q)", tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "ParsePaymentStatus(%q)", tt.in)
		}
	}
}

func TestPaymentStatusFromProvider_FallsBackToUnknown(t *testing.T) {
	assert.Equal(t, PaymentStatusSuccess, PaymentStatusFromProvider("completed"))
	assert.Equal(t, PaymentStatusUnknown, PaymentStatusFromProvider("in_progress"))
	assert.Equal(t, 4, int(PaymentStatusFromProvider("cancelled")))
}

func TestIsCompletedStatus(t *testing.T) {
	for _, s := range []string{"completed", "Completed", "COMPLETED"} {
		assert.True(t, IsCompletedStatus(s), s)
	}
	for _, s := range []string{"charge_pending", "failed", "in_progress", "", "completed "} {
		assert.False(t, IsCompletedStatus(s), s)
	}
}

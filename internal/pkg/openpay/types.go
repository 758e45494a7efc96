package openpay

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the provider-side payer record.
type Customer struct {
	ID              string     `json:"id,omitempty"`
	Name            string     `json:"name"`
	LastName        string     `json:"last_name,omitempty"`
	Email           string     `json:"email"`
	PhoneNumber     string     `json:"phone_number,omitempty"`
	RequiresAccount bool       `json:"requires_account"`
	ExternalID      string     `json:"external_id,omitempty"`
	Status          string     `json:"status,omitempty"`
	CreationDate    *time.Time `json:"creation_date,omitempty"`
}

// Card is both the tokenization payload and the provider's answer. The
// provider echoes the number masked.
type Card struct {
	ID              string     `json:"id,omitempty"`
	CardNumber      string     `json:"card_number"`
	HolderName      string     `json:"holder_name"`
	ExpirationYear  string     `json:"expiration_year"`
	ExpirationMonth string     `json:"expiration_month"`
	Cvv2            string     `json:"cvv2,omitempty"`
	DeviceSessionID string     `json:"device_session_id,omitempty"`
	Brand           string     `json:"brand,omitempty"`
	Type            string     `json:"type,omitempty"`
	BankName        string     `json:"bank_name,omitempty"`
	CustomerID      string     `json:"customer_id,omitempty"`
	CreationDate    *time.Time `json:"creation_date,omitempty"`
}

// ChargeRequest is the body of POST /{merchant}/charges.
type ChargeRequest struct {
	Method          string          `json:"method"`
	SourceID        string          `json:"source_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description"`
	OrderID         string          `json:"order_id,omitempty"`
	DeviceSessionID string          `json:"device_session_id,omitempty"`
	Use3DSecure     bool            `json:"use_3d_secure"`
	RedirectURL     string          `json:"redirect_url,omitempty"`
	Customer        *Customer       `json:"customer,omitempty"`
}

// MarshalJSON sends the amount as a bare JSON number with two decimals.
func (r ChargeRequest) MarshalJSON() ([]byte, error) {
	type alias ChargeRequest
	return json.Marshal(struct {
		alias
		Amount json.Number `json:"amount"`
	}{
		alias:  alias(r),
		Amount: json.Number(r.Amount.StringFixed(2)),
	})
}

// PaymentMethod carries the 3-D Secure redirect when the charge needs one.
type PaymentMethod struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Charge is the provider's answer to a charge request. A non-completed
// Status is a normal outcome, not an error.
type Charge struct {
	ID              string          `json:"id"`
	Authorization   string          `json:"authorization,omitempty"`
	Method          string          `json:"method,omitempty"`
	OperationType   string          `json:"operation_type,omitempty"`
	TransactionType string          `json:"transaction_type,omitempty"`
	Status          string          `json:"status"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency,omitempty"`
	Description     string          `json:"description,omitempty"`
	OrderID         string          `json:"order_id,omitempty"`
	CustomerID      string          `json:"customer_id,omitempty"`
	ErrorMessage    string          `json:"error_message,omitempty"`
	CreationDate    *time.Time      `json:"creation_date,omitempty"`
	OperationDate   *time.Time      `json:"operation_date,omitempty"`
	PaymentMethod   *PaymentMethod  `json:"payment_method,omitempty"`
	Card            *Card           `json:"card,omitempty"`
}

// RedirectURL is the 3-D Secure url, empty when the provider sent none.
func (c *Charge) RedirectURL() string {
	if c == nil || c.PaymentMethod == nil {
		return ""
	}
	return c.PaymentMethod.URL
}

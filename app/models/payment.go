package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Auditable holds the who/when columns shared by the payment tables.
// CreatedBy/UpdatedBy carry a BillingCustomer id once one is known.
type Auditable struct {
	CreatedBy   *uint      `gorm:"default:null" json:"created_by,omitempty"`
	CreatedDate *time.Time `gorm:"type:timestamp;default:null" json:"created_date,omitempty"`
	UpdatedBy   *uint      `gorm:"default:null" json:"updated_by,omitempty"`
	UpdatedDate *time.Time `gorm:"type:timestamp;default:null" json:"updated_date,omitempty"`
}

// PaymentProvider is master data describing an external payment processor.
type PaymentProvider struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	APIURL       string `gorm:"column:api_url;type:varchar(255);not null" json:"api_url"`
	IsProduction bool   `gorm:"not null;default:false" json:"is_production"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
	Auditable
}

// PaymentMethod is the local anchor row written at the start of every
// payment attempt. Token is an internal correlation value the provider never sees.
type PaymentMethod struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	PaymentProviderID uint             `gorm:"not null;index" json:"payment_provider_id"`
	PaymentProvider   *PaymentProvider `gorm:"foreignKey:PaymentProviderID" json:"payment_provider,omitempty"`
	Token             string           `gorm:"type:varchar(64);not null;uniqueIndex" json:"token"`
	Active            bool             `gorm:"column:status;not null" json:"status"`
	Auditable
}

// BillingCustomer is the local view of a payer registered with the provider.
// (Name, Email) is looked up before creating a remote customer but is not
// enforced by a unique index.
type BillingCustomer struct {
	ID               uint                     `gorm:"primaryKey" json:"id"`
	TwoLetterIsoCode string                   `gorm:"type:varchar(2);not null" json:"two_letter_iso_code"`
	Name             string                   `gorm:"type:varchar(150);not null;index:idx_billing_customers_name_email,priority:1" json:"name"`
	Email            string                   `gorm:"type:varchar(200);not null;index:idx_billing_customers_name_email,priority:2" json:"email"`
	PhoneNumber      string                   `gorm:"type:varchar(50);not null;default:''" json:"phone_number"`
	APICustomerID    string                   `gorm:"column:api_customer_id;type:varchar(100);not null" json:"api_customer_id"`
	PaymentMethodID  uint                     `gorm:"not null;index" json:"payment_method_id"`
	PaymentMethod    *PaymentMethod           `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
	KeyInfos         []BillingCustomerKeyInfo `gorm:"foreignKey:BillingCustomerID" json:"key_infos,omitempty"`
	CardTransactions []CardTransaction        `gorm:"foreignKey:CustomerID" json:"card_transactions,omitempty"`
	Auditable
}

// BillingCustomerKeyInfo is an append-only key/value note about a billing customer.
type BillingCustomerKeyInfo struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	BillingCustomerID uint   `gorm:"not null;index" json:"billing_customer_id"`
	KeyName           string `gorm:"type:varchar(255);not null" json:"key_name"`
	KeyValue          string `gorm:"type:varchar(255);not null" json:"key_value"`
	Auditable
}

// CardTransaction records one provider operation (tokenization or charge).
// Card fields are stored masked.
type CardTransaction struct {
	ID                     uint                       `gorm:"primaryKey" json:"id"`
	CustomerID             uint                       `gorm:"not null;index" json:"customer_id"`
	Customer               *BillingCustomer           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	TransactionCustomerID  string                     `gorm:"type:varchar(100);not null" json:"transaction_customer_id"`
	TransactionID          string                     `gorm:"type:varchar(100);not null;index" json:"transaction_id"`
	PaymentMethod          string                     `gorm:"type:varchar(50);not null" json:"payment_method"`
	TransactionType        string                     `gorm:"type:varchar(50);not null" json:"transaction_type"`
	OrderID                string                     `gorm:"type:varchar(100);index" json:"order_id"`
	TransactionStatus      string                     `gorm:"type:varchar(50);not null" json:"transaction_status"`
	TransactionReferenceID string                     `gorm:"type:varchar(100)" json:"transaction_reference_id,omitempty"`
	TransactionDate        *time.Time                 `gorm:"type:timestamp;default:null" json:"transaction_date,omitempty"`
	CurrencyCode           string                     `gorm:"type:varchar(3);not null" json:"currency_code"`
	CreditCardOwnerName    string                     `gorm:"type:varchar(150);not null" json:"credit_card_owner_name"`
	CreditCardExpireYear   int                        `gorm:"not null" json:"credit_card_expire_year"`
	CreditCardExpireMonth  int                        `gorm:"not null" json:"credit_card_expire_month"`
	CreditCardNumber       string                     `gorm:"type:varchar(32);not null" json:"credit_card_number"`
	CreditCardCvv2         string                     `gorm:"type:varchar(8);not null" json:"-"`
	Description            string                     `gorm:"type:varchar(255)" json:"description,omitempty"`
	Amount                 decimal.Decimal            `gorm:"type:decimal(18,2);not null" json:"amount"`
	IsTransactionSuccess   bool                       `gorm:"not null" json:"is_transaction_success"`
	RedirectURL            string                     `gorm:"column:redirect_url;type:varchar(500)" json:"redirect_url,omitempty"`
	TransactionMessage     string                     `gorm:"type:text" json:"transaction_message,omitempty"`
	StatusHistory          []TransactionStatusHistory `gorm:"foreignKey:CardTransactionID" json:"status_history,omitempty"`
	Auditable
}

// TransactionStatusHistory mirrors the status a CardTransaction was written with.
type TransactionStatusHistory struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	CardTransactionID uint   `gorm:"column:transaction_id;not null;index" json:"transaction_id"`
	Status            string `gorm:"type:varchar(50);not null" json:"status"`
	Notes             string `gorm:"type:varchar(255)" json:"notes,omitempty"`
	Auditable
}

// PayinLog summarises one charge attempt.
type PayinLog struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	ReferenceNo       string            `gorm:"type:varchar(50);index" json:"reference_no"`
	PaymentMethodID   *uint             `gorm:"index" json:"payment_method_id,omitempty"`
	PaymentMethod     *PaymentMethod    `gorm:"foreignKey:PaymentMethodID" json:"-"`
	PaymentMethodName string            `gorm:"type:varchar(50)" json:"payment_method_name"`
	PayinType         int               `json:"payin_type"`
	APINO1            string            `gorm:"column:api_no1;type:varchar(50)" json:"api_no1"`
	APINO2            string            `gorm:"column:api_no2;type:varchar(50)" json:"api_no2,omitempty"`
	Amount            decimal.Decimal   `gorm:"type:decimal(18,4)" json:"amount"`
	AmountFromAPI     decimal.Decimal   `gorm:"column:amount_from_api;type:decimal(18,4)" json:"amount_from_api"`
	LastFourCardNbr   string            `gorm:"type:varchar(4)" json:"last_four_card_nbr"`
	CardOwnerName     string            `gorm:"type:varchar(100)" json:"card_owner_name"`
	Currency          string            `gorm:"type:varchar(50)" json:"currency"`
	Result            int               `json:"result"`
	Details           []PayinLogDetails `gorm:"foreignKey:PayinLogID" json:"details,omitempty"`
	Auditable
}

// PayinLogDetails keeps the raw provider request and response for a PayinLog.
type PayinLogDetails struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	PayinLogID     uint           `gorm:"not null;index" json:"payin_log_id"`
	PostInfo       datatypes.JSON `json:"post_info"`
	RespInfo       datatypes.JSON `json:"resp_info"`
	AdditionalInfo string         `gorm:"type:text" json:"additional_info,omitempty"`
	Auditable
}

// TableName keeps the singular/plural form of the original schema.
func (PayinLogDetails) TableName() string {
	return "payin_log_details"
}

package payment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xydatalabs/orderpay/app/models"
)

// Repository provides the DB operations used by the payment flow. Every
// method commits on its own; nothing spans more than one call.
type Repository interface {
	CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error
	GetPaymentMethod(ctx context.Context, id uint) (*models.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error
	FindBillingCustomer(ctx context.Context, name, email string) (*models.BillingCustomer, error)
	CreateBillingCustomer(ctx context.Context, customer *models.BillingCustomer) error
	CreateKeyInfo(ctx context.Context, info *models.BillingCustomerKeyInfo) error
	CreateCardTransaction(ctx context.Context, tx *models.CardTransaction) error
	CreateStatusHistory(ctx context.Context, history *models.TransactionStatusHistory) error
	CreatePayinLog(ctx context.Context, entry *models.PayinLog) error
	CreatePayinLogDetails(ctx context.Context, details *models.PayinLogDetails) error
	GetBillingCustomerWithHistory(ctx context.Context, id uint) (*models.BillingCustomer, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payment repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	return r.db.WithContext(ctx).Omit("PaymentProvider").Create(method).Error
}

func (r *gormRepository) GetPaymentMethod(ctx context.Context, id uint) (*models.PaymentMethod, error) {
	var m models.PaymentMethod
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) UpdatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	return r.db.WithContext(ctx).Omit("PaymentProvider").Save(method).Error
}

// FindBillingCustomer returns the oldest customer whose name and email match
// exactly, or nil. The comparison is redone in Go because MySQL's default
// collation ignores case.
func (r *gormRepository) FindBillingCustomer(ctx context.Context, name, email string) (*models.BillingCustomer, error) {
	var candidates []models.BillingCustomer
	err := r.db.WithContext(ctx).
		Where("name = ? AND email = ?", name, email).
		Order("id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].Name == name && candidates[i].Email == email {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

func (r *gormRepository) CreateBillingCustomer(ctx context.Context, customer *models.BillingCustomer) error {
	return r.db.WithContext(ctx).Omit("PaymentMethod", "KeyInfos", "CardTransactions").Create(customer).Error
}

func (r *gormRepository) CreateKeyInfo(ctx context.Context, info *models.BillingCustomerKeyInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

func (r *gormRepository) CreateCardTransaction(ctx context.Context, tx *models.CardTransaction) error {
	return r.db.WithContext(ctx).Omit("Customer", "StatusHistory").Create(tx).Error
}

func (r *gormRepository) CreateStatusHistory(ctx context.Context, history *models.TransactionStatusHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *gormRepository) CreatePayinLog(ctx context.Context, entry *models.PayinLog) error {
	return r.db.WithContext(ctx).Omit("PaymentMethod", "Details").Create(entry).Error
}

func (r *gormRepository) CreatePayinLogDetails(ctx context.Context, details *models.PayinLogDetails) error {
	return r.db.WithContext(ctx).Create(details).Error
}

// GetBillingCustomerWithHistory loads a customer with key infos, card
// transactions and their status history.
func (r *gormRepository) GetBillingCustomerWithHistory(ctx context.Context, id uint) (*models.BillingCustomer, error) {
	var c models.BillingCustomer
	err := r.db.WithContext(ctx).
		Preload("KeyInfos", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("CardTransactions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("CardTransactions.StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

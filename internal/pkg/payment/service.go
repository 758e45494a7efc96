package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/xydatalabs/orderpay/app/models"
	"github.com/xydatalabs/orderpay/internal/pkg/config"
	"github.com/xydatalabs/orderpay/internal/pkg/openpay"
)

const (
	keyInfoCreationDate   = "CreationDate"
	tokenizationNotes     = "Card tokenization successful"
	customerLockKeyPrefix = "payment:customer-lock:"

	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// Service runs the payment flow: payment method, billing customer, card
// token, charge. Steps run strictly in that order and each one commits
// before the next starts. Nothing is rolled back on failure.
type Service struct {
	repo      Repository
	gateway   Gateway
	providers ProviderDirectory
	locker    CustomerLocker
	outcomes  OutcomeRecorder
	validate  *validator.Validate

	providerName    string
	redirectURL     string
	deviceSessionID string

	now      func() time.Time
	newToken func() string
}

type Option func(*Service)

// WithCustomerLocker serialises lookup-or-create of billing customers per email.
func WithCustomerLocker(l CustomerLocker) Option {
	return func(s *Service) { s.locker = l }
}

func WithOutcomeRecorder(r OutcomeRecorder) Option {
	return func(s *Service) { s.outcomes = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTokenGenerator(gen func() string) Option {
	return func(s *Service) { s.newToken = gen }
}

// NewService checks the configuration the flow depends on and fails fast
// when any of it is missing.
func NewService(cfg *config.OpenPay, repo Repository, gateway Gateway, providers ProviderDirectory, opts ...Option) (*Service, error) {
	if strings.TrimSpace(cfg.RedirectURL) == "" {
		return nil, ErrRedirectURLNotConfigured
	}
	if strings.TrimSpace(cfg.DeviceSessionID) == "" {
		return nil, ErrDeviceSessionNotConfigured
	}
	providerName := cfg.ProviderName
	if strings.TrimSpace(providerName) == "" {
		providerName = models.PaymentProviderOpenPay
	}
	if providers.GetProviderByName(providerName) == nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, providerName)
	}

	s := &Service{
		repo:            repo,
		gateway:         gateway,
		providers:       providers,
		validate:        validator.New(),
		providerName:    providerName,
		redirectURL:     cfg.RedirectURL,
		deviceSessionID: cfg.DeviceSessionID,
		now:             time.Now,
		newToken:        newPaymentMethodToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewServiceFromDB creates a payment service from a GORM DB handle.
func NewServiceFromDB(cfg *config.OpenPay, db *gorm.DB, gateway Gateway, providers ProviderDirectory, opts ...Option) (*Service, error) {
	return NewService(cfg, NewRepository(db), gateway, providers, opts...)
}

// attempt carries what one ProcessPayment call has learned so far.
type attempt struct {
	req             *ProcessPaymentRequest
	deviceSessionID string
	expYear         int
	expMonth        int

	provider          *models.PaymentProvider
	method            *models.PaymentMethod
	customer          *openpay.Customer
	billingCustomerID uint
	card              *openpay.Card
}

// ProcessPayment executes one payment attempt. Errors from the store or the
// provider are returned unchanged; a charge the provider did not complete is
// a normal Result, not an error.
func (s *Service) ProcessPayment(ctx context.Context, req *ProcessPaymentRequest) (*Result, error) {
	res, err := s.processPayment(ctx, req)
	if s.outcomes != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			s.outcomes.RecordOutcome(ctx, outcomeRejected)
		case err != nil:
			s.outcomes.RecordOutcome(ctx, outcomeError)
		default:
			s.outcomes.RecordOutcome(ctx, res.Status)
		}
	}
	return res, err
}

func (s *Service) processPayment(ctx context.Context, req *ProcessPaymentRequest) (*Result, error) {
	log.Infof("[Payment] starting payment for order %s", req.OrderID)

	a, err := s.newAttempt(req)
	if err != nil {
		log.Warnf("[Payment] rejected request for order %s: %v", req.OrderID, err)
		return nil, err
	}

	if err := s.createPaymentMethod(ctx, a); err != nil {
		return nil, err
	}
	if err := s.resolveCustomer(ctx, a); err != nil {
		return nil, err
	}
	if err := s.attachBillingCustomer(ctx, a); err != nil {
		return nil, err
	}
	if err := s.tokenizeCard(ctx, a); err != nil {
		return nil, err
	}
	charge, err := s.createCharge(ctx, a)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ID:              charge.ID,
		OrderID:         req.OrderID,
		CustomerID:      a.customer.ID,
		Amount:          FixedChargeAmount,
		Currency:        models.DefaultCurrencyCode,
		Status:          charge.Status,
		TransactionID:   charge.Authorization,
		ThreeDSecureURL: charge.RedirectURL(),
		ErrorMessage:    charge.ErrorMessage,
	}
	if res.Status == "" {
		res.Status = models.PaymentStatusUnknown.String()
	}
	if charge.CreationDate != nil {
		res.CreatedAt = *charge.CreationDate
	} else {
		res.CreatedAt = s.now().UTC()
	}

	log.Infof("[Payment] finished order %s: charge %s status=%s", req.OrderID, res.ID, res.Status)
	return res, nil
}

func (s *Service) newAttempt(req *ProcessPaymentRequest) (*attempt, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	year, err := strconv.Atoi(req.ExpirationYear)
	if err != nil {
		return nil, fmt.Errorf("%w: expiration year %q", ErrInvalidRequest, req.ExpirationYear)
	}
	month, err := strconv.Atoi(req.ExpirationMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: expiration month %q", ErrInvalidRequest, req.ExpirationMonth)
	}

	provider := s.providers.GetProviderByName(s.providerName)
	if provider == nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, s.providerName)
	}

	deviceSessionID := strings.TrimSpace(req.DeviceSessionID)
	if deviceSessionID == "" {
		deviceSessionID = s.deviceSessionID
	}

	return &attempt{
		req:             req,
		deviceSessionID: deviceSessionID,
		expYear:         year,
		expMonth:        month,
		provider:        provider,
	}, nil
}

func (s *Service) createPaymentMethod(ctx context.Context, a *attempt) error {
	log.Infof("[Payment] creating payment method for provider %s", a.provider.Name)

	now := s.now().UTC()
	method := &models.PaymentMethod{
		PaymentProviderID: a.provider.ID,
		Token:             s.newToken(),
		Active:            true,
		Auditable:         models.Auditable{CreatedDate: &now},
	}
	if err := s.repo.CreatePaymentMethod(ctx, method); err != nil {
		log.Errorf("[Payment] failed to create payment method: %v", err)
		return err
	}

	a.method = method
	log.Infof("[Payment] payment method created with ID: %d", method.ID)
	return nil
}

// resolveCustomer reuses a billing customer with the same name and email or
// registers a new one with the provider.
func (s *Service) resolveCustomer(ctx context.Context, a *attempt) error {
	email := a.req.Email
	log.Infof("[Payment] resolving billing customer for email: %s", email)

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, customerLockKey(email))
		if err != nil {
			log.Errorf("[Payment] failed to lock billing customer for email %s: %v", email, err)
			return err
		}
		defer unlock()
	}

	existing, err := s.repo.FindBillingCustomer(ctx, a.req.Name, email)
	if err != nil {
		log.Errorf("[Payment] billing customer lookup failed for email %s: %v", email, err)
		return err
	}
	if existing != nil {
		a.customer = &openpay.Customer{
			ID:              existing.APICustomerID,
			Name:            existing.Name,
			Email:           existing.Email,
			RequiresAccount: false,
		}
		a.billingCustomerID = existing.ID
		log.Infof("[Payment] reusing billing customer %d (provider ID: %s)", existing.ID, existing.APICustomerID)
		return nil
	}

	created, err := s.gateway.CreateCustomer(ctx, &openpay.Customer{
		Name:            a.req.Name,
		Email:           email,
		RequiresAccount: false,
	})
	if err != nil {
		log.Errorf("[Payment] failed to create provider customer for email %s: %v", email, err)
		return err
	}

	now := s.now().UTC()
	bc := &models.BillingCustomer{
		TwoLetterIsoCode: models.DefaultCountryCode,
		Name:             a.req.Name,
		Email:            email,
		APICustomerID:    created.ID,
		PaymentMethodID:  a.method.ID,
		Auditable:        models.Auditable{CreatedDate: &now},
	}
	if err := s.repo.CreateBillingCustomer(ctx, bc); err != nil {
		log.Errorf("[Payment] failed to save billing customer for email %s: %v", email, err)
		return err
	}

	info := &models.BillingCustomerKeyInfo{
		BillingCustomerID: bc.ID,
		KeyName:           keyInfoCreationDate,
		KeyValue:          now.Format(time.RFC3339),
		Auditable:         models.Auditable{CreatedBy: &bc.ID, CreatedDate: &now},
	}
	if err := s.repo.CreateKeyInfo(ctx, info); err != nil {
		log.Errorf("[Payment] failed to save key info for billing customer %d: %v", bc.ID, err)
		return err
	}

	a.customer = created
	a.billingCustomerID = bc.ID
	log.Infof("[Payment] billing customer %d created (provider ID: %s)", bc.ID, created.ID)
	return nil
}

func (s *Service) attachBillingCustomer(ctx context.Context, a *attempt) error {
	log.Infof("[Payment] updating payment method %d for billing customer %d", a.method.ID, a.billingCustomerID)

	method, err := s.repo.GetPaymentMethod(ctx, a.method.ID)
	if err != nil {
		if isNotFound(err) {
			log.Errorf("[Payment] payment method %d not found", a.method.ID)
			return fmt.Errorf("%w: id %d", ErrPaymentMethodNotFound, a.method.ID)
		}
		log.Errorf("[Payment] failed to load payment method %d: %v", a.method.ID, err)
		return err
	}

	now := s.now().UTC()
	id := a.billingCustomerID
	method.CreatedBy = &id
	method.UpdatedBy = &id
	method.UpdatedDate = &now
	if err := s.repo.UpdatePaymentMethod(ctx, method); err != nil {
		log.Errorf("[Payment] failed to update payment method %d for billing customer %d: %v", method.ID, id, err)
		return err
	}

	a.method = method
	log.Infof("[Payment] payment method %d updated for billing customer %d", method.ID, id)
	return nil
}

func (s *Service) tokenizeCard(ctx context.Context, a *attempt) error {
	log.Infof("[Payment] creating card token for holder: %s", a.req.Name)

	card, err := s.gateway.CreateCardToken(ctx, &openpay.Card{
		CardNumber:      a.req.CardNumber,
		HolderName:      a.req.Name,
		ExpirationYear:  a.req.ExpirationYear,
		ExpirationMonth: a.req.ExpirationMonth,
		Cvv2:            a.req.Cvv2,
		DeviceSessionID: a.deviceSessionID,
	})
	if err != nil {
		log.Errorf("[Payment] card tokenization failed for holder %s: %v", a.req.Name, err)
		return err
	}

	completed := models.ProviderTransactionCompleted.String()
	tx := s.cardTransaction(a)
	tx.TransactionID = card.ID
	tx.TransactionType = models.TransactionTypeTokenization.String()
	tx.TransactionStatus = completed
	tx.TransactionDate = card.CreationDate
	tx.Amount = FixedChargeAmount
	tx.IsTransactionSuccess = true
	tx.TransactionMessage = "Card created with ID: " + card.ID

	if err := s.recordTransaction(ctx, a, tx, completed, tokenizationNotes); err != nil {
		return err
	}

	a.card = card
	log.Infof("[Payment] card token %s stored as transaction %d", card.ID, tx.ID)
	return nil
}

func (s *Service) createCharge(ctx context.Context, a *attempt) (*openpay.Charge, error) {
	req := &openpay.ChargeRequest{
		Method:          models.PaymentMethodCard.String(),
		SourceID:        a.card.ID,
		Amount:          FixedChargeAmount,
		Currency:        models.DefaultCurrencyCode,
		Description:     "Order: " + a.req.OrderID,
		OrderID:         a.req.OrderID,
		DeviceSessionID: a.deviceSessionID,
		Use3DSecure:     true,
		RedirectURL:     s.redirectURL,
		Customer:        a.customer,
	}
	log.Infof("[Payment] creating charge for amount: %s %s (order %s)", req.Amount.StringFixed(2), req.Currency, req.OrderID)

	charge, err := s.gateway.CreateCharge(ctx, req)
	if err != nil {
		log.Errorf("[Payment] charge failed for amount %s %s (order %s): %v", req.Amount.StringFixed(2), req.Currency, req.OrderID, err)
		return nil, err
	}
	log.Infof("[Payment] charge created with ID: %s (status=%s)", charge.ID, charge.Status)

	now := s.now().UTC()
	createdBy := a.billingCustomerID
	methodID := a.method.ID
	entry := &models.PayinLog{
		ReferenceNo:       req.OrderID,
		PaymentMethodID:   &methodID,
		PaymentMethodName: a.provider.Name,
		PayinType:         int(models.PayinTypeCharge),
		APINO1:            charge.ID,
		Amount:            req.Amount,
		AmountFromAPI:     charge.Amount,
		LastFourCardNbr:   lastFour(a.req.CardNumber),
		CardOwnerName:     a.req.Name,
		Currency:          models.DefaultCurrencyCode,
		Result:            int(models.PaymentStatusFromProvider(charge.Status)),
		Auditable:         models.Auditable{CreatedBy: &createdBy, CreatedDate: &now},
	}
	if err := s.repo.CreatePayinLog(ctx, entry); err != nil {
		log.Errorf("[Payment] failed to save payin log for charge %s: %v", charge.ID, err)
		return nil, err
	}

	postInfo, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	respInfo, err := json.Marshal(charge)
	if err != nil {
		return nil, err
	}
	details := &models.PayinLogDetails{
		PayinLogID: entry.ID,
		PostInfo:   datatypes.JSON(postInfo),
		RespInfo:   datatypes.JSON(respInfo),
		Auditable:  models.Auditable{CreatedBy: &createdBy, CreatedDate: &now},
	}
	if err := s.repo.CreatePayinLogDetails(ctx, details); err != nil {
		log.Errorf("[Payment] failed to save payin log details for charge %s: %v", charge.ID, err)
		return nil, err
	}

	tx := s.cardTransaction(a)
	tx.TransactionID = charge.ID
	tx.TransactionType = models.TransactionTypeCharge.String()
	tx.TransactionStatus = charge.Status
	tx.TransactionDate = charge.CreationDate
	tx.Amount = charge.Amount
	tx.IsTransactionSuccess = models.IsCompletedStatus(charge.Status)
	tx.RedirectURL = charge.RedirectURL()
	tx.TransactionMessage = charge.ErrorMessage

	if err := s.recordTransaction(ctx, a, tx, charge.Status, charge.ErrorMessage); err != nil {
		return nil, err
	}
	return charge, nil
}

// cardTransaction fills the columns shared by tokenization and charge rows.
// Card data is stored masked.
func (s *Service) cardTransaction(a *attempt) *models.CardTransaction {
	now := s.now().UTC()
	createdBy := a.billingCustomerID
	return &models.CardTransaction{
		CustomerID:            a.billingCustomerID,
		TransactionCustomerID: a.customer.ID,
		PaymentMethod:         models.PaymentMethodCard.String(),
		OrderID:               a.req.OrderID,
		CurrencyCode:          models.DefaultCurrencyCode,
		CreditCardOwnerName:   a.req.Name,
		CreditCardExpireYear:  a.expYear,
		CreditCardExpireMonth: a.expMonth,
		CreditCardNumber:      maskCardNumber(a.req.CardNumber),
		CreditCardCvv2:        maskedCvv,
		Auditable:             models.Auditable{CreatedBy: &createdBy, CreatedDate: &now},
	}
}

// recordTransaction writes a card transaction followed by its status history row.
func (s *Service) recordTransaction(ctx context.Context, a *attempt, tx *models.CardTransaction, status, notes string) error {
	if err := s.repo.CreateCardTransaction(ctx, tx); err != nil {
		log.Errorf("[Payment] failed to save %s transaction %s: %v", tx.TransactionType, tx.TransactionID, err)
		return err
	}

	now := s.now().UTC()
	createdBy := a.billingCustomerID
	history := &models.TransactionStatusHistory{
		CardTransactionID: tx.ID,
		Status:            status,
		Notes:             notes,
		Auditable:         models.Auditable{CreatedBy: &createdBy, CreatedDate: &now},
	}
	if err := s.repo.CreateStatusHistory(ctx, history); err != nil {
		log.Errorf("[Payment] failed to save status history for transaction %d: %v", tx.ID, err)
		return err
	}
	return nil
}

// FindBillingCustomer returns nil when no customer matches name and email exactly.
func (s *Service) FindBillingCustomer(ctx context.Context, name, email string) (*models.BillingCustomer, error) {
	return s.repo.FindBillingCustomer(ctx, name, email)
}

// GetBillingCustomerWithHistory loads a customer with key infos and card
// transactions including status history.
func (s *Service) GetBillingCustomerWithHistory(ctx context.Context, id uint) (*models.BillingCustomer, error) {
	return s.repo.GetBillingCustomerWithHistory(ctx, id)
}

func customerLockKey(email string) string {
	return customerLockKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

func newPaymentMethodToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/xydatalabs/orderpay/app/models"
	"github.com/xydatalabs/orderpay/internal/pkg/openpay"
)

// memoryRepository keeps rows in slices and records every write in order.
type memoryRepository struct {
	mu     sync.Mutex
	nextID uint
	ops    []string

	methods      []*models.PaymentMethod
	customers    []*models.BillingCustomer
	keyInfos     []*models.BillingCustomerKeyInfo
	transactions []*models.CardTransaction
	history      []*models.TransactionStatusHistory
	payinLogs    []*models.PayinLog
	details      []*models.PayinLogDetails

	dropPaymentMethods bool
	failOn             map[string]error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{failOn: map[string]error{}}
}

func (r *memoryRepository) id() uint {
	r.nextID++
	return r.nextID
}

func (r *memoryRepository) write(op string) error {
	if err := r.failOn[op]; err != nil {
		return err
	}
	r.ops = append(r.ops, op)
	return nil
}

func (r *memoryRepository) CreatePaymentMethod(ctx context.Context, m *models.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("payment_method"); err != nil {
		return err
	}
	m.ID = r.id()
	if !r.dropPaymentMethods {
		cp := *m
		r.methods = append(r.methods, &cp)
	}
	return nil
}

func (r *memoryRepository) GetPaymentMethod(ctx context.Context, id uint) (*models.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.methods {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepository) UpdatePaymentMethod(ctx context.Context, m *models.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("payment_method_update"); err != nil {
		return err
	}
	for i, existing := range r.methods {
		if existing.ID == m.ID {
			cp := *m
			r.methods[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memoryRepository) FindBillingCustomer(ctx context.Context, name, email string) (*models.BillingCustomer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOn["find_customer"]; err != nil {
		return nil, err
	}
	for _, c := range r.customers {
		if c.Name == name && c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryRepository) CreateBillingCustomer(ctx context.Context, c *models.BillingCustomer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("billing_customer"); err != nil {
		return err
	}
	c.ID = r.id()
	cp := *c
	r.customers = append(r.customers, &cp)
	return nil
}

func (r *memoryRepository) CreateKeyInfo(ctx context.Context, info *models.BillingCustomerKeyInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("key_info"); err != nil {
		return err
	}
	info.ID = r.id()
	cp := *info
	r.keyInfos = append(r.keyInfos, &cp)
	return nil
}

func (r *memoryRepository) CreateCardTransaction(ctx context.Context, tx *models.CardTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("card_transaction:" + tx.TransactionType); err != nil {
		return err
	}
	tx.ID = r.id()
	cp := *tx
	r.transactions = append(r.transactions, &cp)
	return nil
}

func (r *memoryRepository) CreateStatusHistory(ctx context.Context, h *models.TransactionStatusHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("status_history"); err != nil {
		return err
	}
	h.ID = r.id()
	cp := *h
	r.history = append(r.history, &cp)
	return nil
}

func (r *memoryRepository) CreatePayinLog(ctx context.Context, entry *models.PayinLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("payin_log"); err != nil {
		return err
	}
	entry.ID = r.id()
	cp := *entry
	r.payinLogs = append(r.payinLogs, &cp)
	return nil
}

func (r *memoryRepository) CreatePayinLogDetails(ctx context.Context, d *models.PayinLogDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write("payin_log_details"); err != nil {
		return err
	}
	d.ID = r.id()
	cp := *d
	r.details = append(r.details, &cp)
	return nil
}

func (r *memoryRepository) GetBillingCustomerWithHistory(ctx context.Context, id uint) (*models.BillingCustomer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepository) transactionsOfType(t models.TransactionType) []*models.CardTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CardTransaction
	for _, tx := range r.transactions {
		if tx.TransactionType == t.String() {
			out = append(out, tx)
		}
	}
	return out
}

// fakeGateway answers provider calls from canned values and records them.
type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	customerSeq int
	cardToken   string
	charge      *openpay.Charge

	customerErr error
	cardErr     error
	chargeErr   error

	lastCustomer *openpay.Customer
	lastCard     *openpay.Card
	lastCharge   *openpay.ChargeRequest
}

func newFakeGateway() *fakeGateway {
	created := time.Date(2025, 3, 22, 16, 0, 5, 0, time.UTC)
	return &fakeGateway{
		cardToken: "tok_1",
		charge: &openpay.Charge{
			ID:            "ch_1",
			Authorization: "801585",
			Status:        "completed",
			Amount:        FixedChargeAmount,
			Currency:      "MXN",
			CreationDate:  &created,
		},
	}
}

func (g *fakeGateway) CreateCustomer(ctx context.Context, c *openpay.Customer) (*openpay.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "create_customer")
	cp := *c
	g.lastCustomer = &cp
	if g.customerErr != nil {
		return nil, g.customerErr
	}
	g.customerSeq++
	out := *c
	out.ID = fmt.Sprintf("cus_%d", g.customerSeq)
	return &out, nil
}

func (g *fakeGateway) CreateCardToken(ctx context.Context, card *openpay.Card) (*openpay.Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "create_card_token")
	cp := *card
	g.lastCard = &cp
	if g.cardErr != nil {
		return nil, g.cardErr
	}
	created := time.Date(2025, 3, 22, 16, 0, 0, 0, time.UTC)
	return &openpay.Card{ID: g.cardToken, HolderName: card.HolderName, CreationDate: &created}, nil
}

func (g *fakeGateway) CreateCharge(ctx context.Context, req *openpay.ChargeRequest) (*openpay.Charge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "create_charge")
	cp := *req
	g.lastCharge = &cp
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	out := *g.charge
	return &out, nil
}

func (g *fakeGateway) callCount(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c == name {
			n++
		}
	}
	return n
}

type staticProviders struct {
	providers []models.PaymentProvider
}

func (p staticProviders) GetProviderByName(name string) *models.PaymentProvider {
	for _, pr := range p.providers {
		if strings.EqualFold(pr.Name, name) {
			found := pr
			return &found
		}
	}
	return nil
}

type recordingLocker struct {
	mu       sync.Mutex
	keys     []string
	released int
	err      error
}

func (l *recordingLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	return func() {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
	}, nil
}

var errTransport = errors.New("dial tcp: connection refused")

type recordingOutcomes struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recordingOutcomes) RecordOutcome(ctx context.Context, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

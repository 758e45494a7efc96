package masterdata

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/xydatalabs/orderpay/app/models"
)

// Loader reads the full provider table.
type Loader interface {
	ListPaymentProviders(ctx context.Context) ([]models.PaymentProvider, error)
}

type gormLoader struct {
	db *gorm.DB
}

// NewGormLoader returns a Loader reading payment_providers through GORM.
func NewGormLoader(db *gorm.DB) Loader {
	return &gormLoader{db: db}
}

func (l *gormLoader) ListPaymentProviders(ctx context.Context) ([]models.PaymentProvider, error) {
	var providers []models.PaymentProvider
	if err := l.db.WithContext(ctx).Order("id ASC").Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

// Cache is a read-mostly snapshot of payment providers. It is stale until
// Refresh is called; readers see either the old or the new snapshot.
type Cache struct {
	loader   Loader
	snapshot atomic.Pointer[[]models.PaymentProvider]
}

// New returns an empty cache. Call Refresh before serving lookups.
func New(loader Loader) *Cache {
	c := &Cache{loader: loader}
	empty := []models.PaymentProvider{}
	c.snapshot.Store(&empty)
	return c
}

// Load builds a cache and fills it eagerly.
func Load(ctx context.Context, loader Loader) (*Cache, error) {
	c := New(loader)
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromDB is Load with the GORM loader.
func NewFromDB(ctx context.Context, db *gorm.DB) (*Cache, error) {
	return Load(ctx, NewGormLoader(db))
}

// Refresh reloads every provider row and swaps the snapshot in one step.
// On error the previous snapshot stays in place.
func (c *Cache) Refresh(ctx context.Context) error {
	providers, err := c.loader.ListPaymentProviders(ctx)
	if err != nil {
		log.Errorf("[MasterData] refresh failed: %v", err)
		return fmt.Errorf("load payment providers: %w", err)
	}
	if providers == nil {
		providers = []models.PaymentProvider{}
	}
	c.snapshot.Store(&providers)
	log.Infof("[MasterData] loaded %d payment provider(s)", len(providers))
	return nil
}

// GetProviderByName does a case-insensitive scan and returns a copy of the
// matching row, or nil when there is none.
func (c *Cache) GetProviderByName(name string) *models.PaymentProvider {
	for _, p := range *c.snapshot.Load() {
		if strings.EqualFold(p.Name, name) {
			found := p
			return &found
		}
	}
	return nil
}

// Providers returns a copy of the current snapshot.
func (c *Cache) Providers() []models.PaymentProvider {
	current := *c.snapshot.Load()
	out := make([]models.PaymentProvider, len(current))
	copy(out, current)
	return out
}

package database

import (
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/xydatalabs/orderpay/app/models"
)

// Models lists every table in creation order; parents come first.
func Models() []any {
	return []any{
		&models.PaymentProvider{},
		&models.PaymentMethod{},
		&models.BillingCustomer{},
		&models.BillingCustomerKeyInfo{},
		&models.CardTransaction{},
		&models.TransactionStatusHistory{},
		&models.PayinLog{},
		&models.PayinLogDetails{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		log.Errorf("[Database] auto migrate failed: %v", err)
		return err
	}
	return nil
}

// DefaultProviders is the master data written into an empty providers table.
func DefaultProviders() []models.PaymentProvider {
	return []models.PaymentProvider{
		{
			Name:         models.PaymentProviderOpenPay,
			APIURL:       "https://sandbox-api.openpay.mx/v1",
			IsActive:     true,
			IsProduction: false,
		},
	}
}

// SeedProviders inserts DefaultProviders when the table is empty and reports
// how many rows it wrote.
func SeedProviders(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.PaymentProvider{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	providers := DefaultProviders()
	if err := db.Create(&providers).Error; err != nil {
		log.Errorf("[Database] seeding payment providers failed: %v", err)
		return 0, err
	}
	log.Infof("[Database] seeded %d payment provider(s)", len(providers))
	return len(providers), nil
}

// TableStatus is a row count per table, used by `migrate status`.
type TableStatus struct {
	Table  string
	Exists bool
	Rows   int64
}

func Status(db *gorm.DB) ([]TableStatus, error) {
	var out []TableStatus
	for _, m := range Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, err
		}
		st := TableStatus{Table: stmt.Schema.Table}
		if db.Migrator().HasTable(m) {
			st.Exists = true
			if err := db.Model(m).Count(&st.Rows).Error; err != nil {
				return nil, err
			}
		}
		out = append(out, st)
	}
	return out, nil
}

package database

import (
	"keystone-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer, Render).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Org{},
		&domain.User{},
		&domain.Property{},
		&domain.Unit{},
		&domain.Tenant{},
		&domain.Lease{},
		&domain.LeaseTenant{},
		&domain.Charge{},
		&domain.Payment{},
		&domain.PaymentAllocation{},
		&domain.MaintenanceRequest{},
		&domain.Vendor{},
		&domain.ReportFavorite{},
	)
}

package reports

import (
	"testing"
	"time"

	"keystone-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Org{}, &domain.User{},
		&domain.Property{}, &domain.Unit{},
		&domain.Tenant{}, &domain.Lease{}, &domain.LeaseTenant{},
		&domain.Charge{}, &domain.Payment{}, &domain.PaymentAllocation{},
		&domain.MaintenanceRequest{}, &domain.Vendor{},
		&domain.ReportFavorite{},
	))
	return &Store{DB: db}
}

type fixture struct {
	OrgID    uuid.UUID
	Property domain.Property
	Unit     domain.Unit
	Tenant   domain.Tenant
	Lease    domain.Lease
}

// seedLease creates org -> property -> occupied unit -> active lease with a
// primary tenant. Rent 1500, deposit 1500, due day 1.
func seedLease(t *testing.T, s *Store) fixture {
	t.Helper()
	orgID := uuid.New()
	prop := domain.Property{
		OrgID:         orgID,
		Name:          "Maple Court",
		Address:       "12 Maple St",
		PurchasePrice: decimal.NewFromInt(300000),
		LandValue:     decimal.NewFromInt(50000),
	}
	require.NoError(t, s.DB.Create(&prop).Error)
	unit := domain.Unit{
		PropertyID: prop.ID,
		UnitNumber: "1A",
		MarketRent: decimal.NewFromInt(1500),
		Status:     domain.UnitOccupied,
	}
	require.NoError(t, s.DB.Create(&unit).Error)
	tenant := domain.Tenant{OrgID: orgID, FirstName: "Ada", LastName: "Nwosu", IsActive: true}
	require.NoError(t, s.DB.Create(&tenant).Error)
	lease := domain.Lease{
		UnitID:          unit.ID,
		Status:          domain.LeaseActive,
		StartDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		RentAmount:      decimal.NewFromInt(1500),
		SecurityDeposit: decimal.NewFromInt(1500),
		RentDueDay:      1,
	}
	require.NoError(t, s.DB.Create(&lease).Error)
	require.NoError(t, s.DB.Create(&domain.LeaseTenant{
		LeaseID:  lease.ID,
		TenantID: tenant.ID,
		Role:     domain.RolePrimary,
	}).Error)
	return fixture{OrgID: orgID, Property: prop, Unit: unit, Tenant: tenant, Lease: lease}
}

func seedCharge(t *testing.T, s *Store, leaseID uuid.UUID, amount int64, due time.Time, status string) domain.Charge {
	t.Helper()
	ch := domain.Charge{
		LeaseID: leaseID,
		Type:    domain.ChargeTypeRent,
		Amount:  decimal.NewFromInt(amount),
		DueDate: due,
		Status:  status,
	}
	require.NoError(t, s.DB.Create(&ch).Error)
	return ch
}

func seedPayment(t *testing.T, s *Store, leaseID uuid.UUID, amount int64, received time.Time, allocs map[uuid.UUID]int64) domain.Payment {
	t.Helper()
	p := domain.Payment{
		LeaseID:    leaseID,
		Amount:     decimal.NewFromInt(amount),
		Method:     domain.MethodCheck,
		Status:     domain.PaymentCompleted,
		ReceivedAt: received,
	}
	require.NoError(t, s.DB.Create(&p).Error)
	for chargeID, amt := range allocs {
		require.NoError(t, s.DB.Create(&domain.PaymentAllocation{
			PaymentID: p.ID,
			ChargeID:  chargeID,
			Amount:    decimal.NewFromInt(amt),
		}).Error)
	}
	return p
}

func defaultFilters(now time.Time) Filters {
	f, _ := ResolveFilters(now, "", "", "", "", "", "")
	return f
}

package billing

import (
	"context"
	"testing"
	"time"

	"keystone-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Org{}, &domain.Property{}, &domain.Unit{},
		&domain.Tenant{}, &domain.Lease{}, &domain.LeaseTenant{},
		&domain.Charge{}, &domain.Payment{}, &domain.PaymentAllocation{},
	))
	return &Service{DB: db}
}

type fixture struct {
	OrgID uuid.UUID
	Lease domain.Lease
}

func seedLease(t *testing.T, s *Service) fixture {
	t.Helper()
	orgID := uuid.New()
	prop := domain.Property{OrgID: orgID, Name: "Maple Court", Address: "12 Maple St"}
	require.NoError(t, s.DB.Create(&prop).Error)
	unit := domain.Unit{
		PropertyID: prop.ID,
		UnitNumber: "1A",
		MarketRent: decimal.NewFromInt(1500),
		Status:     domain.UnitOccupied,
	}
	require.NoError(t, s.DB.Create(&unit).Error)
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
	return fixture{OrgID: orgID, Lease: lease}
}

func chargeByID(t *testing.T, s *Service, id uuid.UUID) domain.Charge {
	t.Helper()
	var ch domain.Charge
	require.NoError(t, s.DB.Preload("Allocations").First(&ch, "id = ?", id).Error)
	return ch
}

func TestPostMonthlyChargesIsIdempotent(t *testing.T) {
	s := newTestService(t)
	fx := seedLease(t, s)
	ctx := context.Background()
	month := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	created, err := s.PostMonthlyCharges(ctx, fx.OrgID, month)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = s.PostMonthlyCharges(ctx, fx.OrgID, month)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var charges []domain.Charge
	require.NoError(t, s.DB.Where("lease_id = ?", fx.Lease.ID).Find(&charges).Error)
	require.Len(t, charges, 1)
	assert.Equal(t, domain.ChargeTypeRent, charges[0].Type)
	assert.Equal(t, "Rent March 2025", charges[0].Description)
	assert.True(t, charges[0].Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), charges[0].DueDate.UTC())
}

func TestPostMonthlyChargesSkipsNonOverlappingLeases(t *testing.T) {
	s := newTestService(t)
	fx := seedLease(t, s)
	ctx := context.Background()

	// Lease runs Jan-Dec 2025; June 2026 is outside it.
	created, err := s.PostMonthlyCharges(ctx, fx.OrgID, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestPostMonthlyChargesRequiresOrg(t *testing.T) {
	s := newTestService(t)
	_, err := s.PostMonthlyCharges(context.Background(), uuid.Nil, time.Now())
	require.EqualError(t, err, "Organization not associated with user")
}

func TestCreateChargeValidation(t *testing.T) {
	s := newTestService(t)
	fx := seedLease(t, s)
	ctx := context.Background()
	due := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	_, err := s.CreateCharge(ctx, fx.OrgID, CreateChargeInput{
		LeaseID: fx.Lease.ID, Type: "PARKING", Amount: decimal.NewFromInt(50), DueDate: due,
	})
	require.EqualError(t, err, "Invalid charge type")

	_, err = s.CreateCharge(ctx, fx.OrgID, CreateChargeInput{
		LeaseID: fx.Lease.ID, Type: domain.ChargeTypeLateFee, Amount: decimal.Zero, DueDate: due,
	})
	require.EqualError(t, err, "amount must be positive")

	_, err = s.CreateCharge(ctx, fx.OrgID, CreateChargeInput{
		LeaseID: fx.Lease.ID, Type: domain.ChargeTypeLateFee, Amount: decimal.NewFromInt(50),
	})
	require.EqualError(t, err, "due_date is required")

	// Lease in another org is invisible.
	_, err = s.CreateCharge(ctx, uuid.New(), CreateChargeInput{
		LeaseID: fx.Lease.ID, Type: domain.ChargeTypeLateFee, Amount: decimal.NewFromInt(50), DueDate: due,
	})
	require.EqualError(t, err, "Lease not found")

	ch, err := s.CreateCharge(ctx, fx.OrgID, CreateChargeInput{
		LeaseID:     fx.Lease.ID,
		Type:        domain.ChargeTypeLateFee,
		Description: "Late fee April",
		Amount:      decimal.NewFromInt(50),
		DueDate:     due,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ChargeDue, ch.Status)
}

func TestRecordPaymentAllocatesOldestFirst(t *testing.T) {
	s := newTestService(t)
	fx := seedLease(t, s)
	ctx := context.Background()

	older, err := s.CreateCharge(ctx, fx.OrgID, CreateChargeInput{
		LeaseID: fx.Lease.ID, Type: domain.ChargeTypeRent, Amount: decimal.NewFromInt(1500),
		DueDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	newer, err := s.CreateCharge(ctx, fx.OrgID, CreateChargeInput{
		LeaseID: fx.Lease.ID, Type: domain.ChargeTypeRent, Amount: decimal.NewFromInt(1500),
		DueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	p, err := s.RecordPayment(ctx, fx.OrgID, RecordPaymentInput{
		LeaseID: fx.Lease.ID,
		Amount:  decimal.NewFromInt(2000),
		Method:  domain.MethodCheck,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, p.Status)
	assert.False(t, p.ReceivedAt.IsZero())

	got := chargeByID(t, s, older.ID)
	assert.Equal(t, domain.ChargePaid, got.Status)
	require.Len(t, got.Allocations, 1)
	assert.True(t, got.Allocations[0].Amount.Equal(decimal.NewFromInt(1500)))

	got = chargeByID(t, s, newer.ID)
	assert.Equal(t, domain.ChargePartial, got.Status)
	require.Len(t, got.Allocations, 1)
	assert.True(t, got.Allocations[0].Amount.Equal(decimal.NewFromInt(500)))
}

func TestRecordPaymentRemainderStaysAsCredit(t *testing.T) {
	s := newTestService(t)
	fx := seedLease(t, s)
	ctx := context.Background()

	ch, err := s.CreateCharge(ctx, fx.OrgID, CreateChargeInput{
		LeaseID: fx.Lease.ID, Type: domain.ChargeTypeRent, Amount: decimal.NewFromInt(1500),
		DueDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	p, err := s.RecordPayment(ctx, fx.OrgID, RecordPaymentInput{
		LeaseID: fx.Lease.ID,
		Amount:  decimal.NewFromInt(1800),
		Method:  domain.MethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ChargePaid, chargeByID(t, s, ch.ID).Status)

	// 300 over the open charges: exactly one allocation row, no credit row.
	var allocs []domain.PaymentAllocation
	require.NoError(t, s.DB.Where("payment_id = ?", p.ID).Find(&allocs).Error)
	require.Len(t, allocs, 1)
	assert.True(t, allocs[0].Amount.Equal(decimal.NewFromInt(1500)))
}

func TestRecordPaymentValidation(t *testing.T) {
	s := newTestService(t)
	fx := seedLease(t, s)
	ctx := context.Background()

	_, err := s.RecordPayment(ctx, fx.OrgID, RecordPaymentInput{
		LeaseID: fx.Lease.ID, Amount: decimal.NewFromInt(-5), Method: domain.MethodCash,
	})
	require.EqualError(t, err, "amount must be positive")

	_, err = s.RecordPayment(ctx, fx.OrgID, RecordPaymentInput{
		LeaseID: fx.Lease.ID, Amount: decimal.NewFromInt(100), Method: "BARTER",
	})
	require.EqualError(t, err, "Invalid payment method")

	_, err = s.RecordPayment(ctx, fx.OrgID, RecordPaymentInput{
		LeaseID: uuid.New(), Amount: decimal.NewFromInt(100), Method: domain.MethodCash,
	})
	require.EqualError(t, err, "Lease not found")
}

func TestRecordStripePaymentIsIdempotent(t *testing.T) {
	s := newTestService(t)
	fx := seedLease(t, s)
	ctx := context.Background()

	in := RecordStripePaymentInput{
		LeaseID:          fx.Lease.ID,
		Amount:           decimal.NewFromInt(1500),
		PaymentIntentID:  "pi_test_123",
		EventID:          "evt_test_123",
		RawPaymentIntent: []byte(`{"id":"pi_test_123"}`),
	}
	first, created, err := s.RecordStripePayment(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.MethodStripe, first.Method)

	second, created, err := s.RecordStripePayment(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, s.DB.Model(&domain.Payment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRecordStripePaymentValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, _, err := s.RecordStripePayment(ctx, RecordStripePaymentInput{
		Amount: decimal.NewFromInt(10),
	})
	require.EqualError(t, err, "Missing payment intent id")

	_, _, err = s.RecordStripePayment(ctx, RecordStripePaymentInput{
		PaymentIntentID: "pi_x", Amount: decimal.Zero,
	})
	require.EqualError(t, err, "amount must be positive")
}

func TestListPaymentsNewestFirstAndPropertyFilter(t *testing.T) {
	s := newTestService(t)
	fx := seedLease(t, s)
	ctx := context.Background()

	_, err := s.RecordPayment(ctx, fx.OrgID, RecordPaymentInput{
		LeaseID: fx.Lease.ID, Amount: decimal.NewFromInt(100), Method: domain.MethodCash,
		ReceivedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = s.RecordPayment(ctx, fx.OrgID, RecordPaymentInput{
		LeaseID: fx.Lease.ID, Amount: decimal.NewFromInt(200), Method: domain.MethodCash,
		ReceivedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	payments, err := s.ListPayments(ctx, fx.OrgID, nil)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(200)))

	other := uuid.New()
	payments, err = s.ListPayments(ctx, fx.OrgID, &other)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

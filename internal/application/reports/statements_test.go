package reports

import (
	"context"
	"testing"
	"time"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedWork records a completed maintenance job with an actual cost, optionally
// assigned to a vendor.
func seedWork(t *testing.T, s *Store, unitID uuid.UUID, category string, cost int64, resolved time.Time, vendorID *uuid.UUID) domain.MaintenanceRequest {
	t.Helper()
	c := decimal.NewFromInt(cost)
	req := domain.MaintenanceRequest{
		UnitID:     unitID,
		VendorID:   vendorID,
		Category:   category,
		Priority:   domain.PriorityMedium,
		Status:     domain.MaintenanceCompleted,
		ActualCost: &c,
		ResolvedAt: &resolved,
	}
	require.NoError(t, s.DB.Create(&req).Error)
	return req
}

func seedVendor(t *testing.T, s *Store, orgID uuid.UUID, name, taxID string) domain.Vendor {
	t.Helper()
	v := domain.Vendor{OrgID: orgID, Name: name, Trade: "GENERAL", TaxID: taxID}
	require.NoError(t, s.DB.Create(&v).Error)
	return v
}

func TestBalanceSheetPositionAsOfPeriodEnd(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	// 1500 due in February, 1000 of it collected.
	rent := seedCharge(t, s, fx.Lease.ID, 1500, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), domain.ChargePartial)
	seedPayment(t, s, fx.Lease.ID, 1000, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		map[uuid.UUID]int64{rent.ID: 1000})

	// Neither a charge due after period end nor a later payment moves the position.
	seedCharge(t, s, fx.Lease.ID, 1500, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), domain.ChargeDue)
	seedPayment(t, s, fx.Lease.ID, 700, time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC), nil)

	data, summary, err := BalanceSheet(context.Background(), s, fx.OrgID, defaultFilters(now))
	require.NoError(t, err)

	d := data.(BalanceSheetData)
	require.Len(t, d.Assets, 2)
	assert.True(t, d.Assets[0].Amount.Equal(decimal.NewFromInt(1000)), "cash: %s", d.Assets[0].Amount)
	assert.True(t, d.Assets[1].Amount.Equal(decimal.NewFromInt(500)), "receivables: %s", d.Assets[1].Amount)

	sum := summary.(BalanceSheetSummary)
	assert.True(t, sum.TotalAssets.Equal(decimal.NewFromInt(1500)))
	assert.True(t, sum.TotalLiabilities.Equal(decimal.NewFromInt(1500)), "deposit held on the active lease")
	assert.True(t, sum.TotalEquity.IsZero())
}

func TestProfitLossCashRecognizesAllocations(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	rent := seedCharge(t, s, fx.Lease.ID, 1500, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), domain.ChargePartial)
	seedPayment(t, s, fx.Lease.ID, 900, time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		map[uuid.UUID]int64{rent.ID: 900})
	lateFee := domain.Charge{
		LeaseID: fx.Lease.ID,
		Type:    domain.ChargeTypeLateFee,
		Amount:  decimal.NewFromInt(100),
		DueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:  domain.ChargeDue,
	}
	require.NoError(t, s.DB.Create(&lateFee).Error)
	seedWork(t, s, fx.Unit.ID, "PLUMBING", 250, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), nil)

	f := defaultFilters(now) // cash is the default method
	data, summary, err := ProfitLoss(context.Background(), s, fx.OrgID, f)
	require.NoError(t, err)

	// Only the 900 that actually landed on the rent charge is income; the
	// unpaid remainder and the open late fee are not.
	d := data.(ProfitLossData)
	require.Len(t, d.Income, 1)
	assert.Equal(t, domain.ChargeTypeRent, d.Income[0].Name)
	assert.True(t, d.Income[0].Amount.Equal(decimal.NewFromInt(900)))

	sum := summary.(ProfitLossSummary)
	assert.True(t, sum.TotalIncome.Equal(decimal.NewFromInt(900)))
	assert.True(t, sum.TotalExpenses.Equal(decimal.NewFromInt(250)))
	assert.True(t, sum.NetIncome.Equal(decimal.NewFromInt(650)))
}

func TestProfitLossAccrualRecognizesChargesDue(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	rent := seedCharge(t, s, fx.Lease.ID, 1500, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), domain.ChargePartial)
	seedPayment(t, s, fx.Lease.ID, 900, time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		map[uuid.UUID]int64{rent.ID: 900})
	lateFee := domain.Charge{
		LeaseID: fx.Lease.ID,
		Type:    domain.ChargeTypeLateFee,
		Amount:  decimal.NewFromInt(100),
		DueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:  domain.ChargeDue,
	}
	require.NoError(t, s.DB.Create(&lateFee).Error)
	seedWork(t, s, fx.Unit.ID, "PLUMBING", 250, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), nil)

	f := defaultFilters(now)
	f.AccountingMethod = MethodAccrual
	data, summary, err := ProfitLoss(context.Background(), s, fx.OrgID, f)
	require.NoError(t, err)

	// Accrual books the full face amounts when due, paid or not.
	d := data.(ProfitLossData)
	require.Len(t, d.Income, 2)
	assert.Equal(t, domain.ChargeTypeLateFee, d.Income[0].Name)
	assert.True(t, d.Income[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.ChargeTypeRent, d.Income[1].Name)
	assert.True(t, d.Income[1].Amount.Equal(decimal.NewFromInt(1500)))

	sum := summary.(ProfitLossSummary)
	assert.True(t, sum.TotalIncome.Equal(decimal.NewFromInt(1600)))
	assert.True(t, sum.NetIncome.Equal(decimal.NewFromInt(1350)))
}

func TestCashFlowBucketsByMonthWithRunningNet(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	seedPayment(t, s, fx.Lease.ID, 1000, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), nil)
	seedPayment(t, s, fx.Lease.ID, 500, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), nil)
	seedWork(t, s, fx.Unit.ID, "HVAC", 300, time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC), nil)

	f, err := ResolveFilters(now, PeriodCustom, "2025-01-01", "2025-03-31", "", "", "")
	require.NoError(t, err)
	data, summary, err := CashFlow(context.Background(), s, fx.OrgID, f)
	require.NoError(t, err)

	rows := data.([]CashFlowMonth)
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-01", rows[0].Month)
	assert.True(t, rows[0].CashIn.Equal(decimal.NewFromInt(1000)))
	assert.True(t, rows[0].RunningNet.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "2025-02", rows[1].Month)
	assert.True(t, rows[1].CashOut.Equal(decimal.NewFromInt(300)))
	assert.True(t, rows[1].Net.Equal(decimal.NewFromInt(-300)))
	assert.True(t, rows[1].RunningNet.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, "2025-03", rows[2].Month)
	assert.True(t, rows[2].RunningNet.Equal(decimal.NewFromInt(1200)))

	sum := summary.(CashFlowSummary)
	assert.True(t, sum.TotalIn.Equal(decimal.NewFromInt(1500)))
	assert.True(t, sum.TotalOut.Equal(decimal.NewFromInt(300)))
	assert.True(t, sum.NetCashFlow.Equal(decimal.NewFromInt(1200)))
}

func TestOwnerStatementTracksBalancesAndNet(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	// Receivable carried in from before the period.
	seedCharge(t, s, fx.Lease.ID, 1200, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), domain.ChargeDue)
	// In-period activity: 1500 billed, 1000 collected, 200 spent on repairs.
	rent := seedCharge(t, s, fx.Lease.ID, 1500, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), domain.ChargePartial)
	seedPayment(t, s, fx.Lease.ID, 1000, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		map[uuid.UUID]int64{rent.ID: 1000})
	seedWork(t, s, fx.Unit.ID, "ROOFING", 200, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), nil)

	data, summary, err := OwnerStatement(context.Background(), s, fx.OrgID, defaultFilters(now))
	require.NoError(t, err)

	rows := data.([]OwnerStatementRow)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "Maple Court", row.PropertyName)
	assert.True(t, row.BeginningBalance.Equal(decimal.NewFromInt(1200)), "beginning: %s", row.BeginningBalance)
	assert.True(t, row.IncomeCollected.Equal(decimal.NewFromInt(1000)))
	assert.True(t, row.Expenses.Equal(decimal.NewFromInt(200)))
	assert.True(t, row.NetToOwner.Equal(decimal.NewFromInt(800)))
	assert.True(t, row.EndingBalance.Equal(decimal.NewFromInt(1700)), "ending: %s", row.EndingBalance)

	sum := summary.(OwnerStatementSummary)
	assert.Equal(t, 1, sum.PropertyCount)
	assert.True(t, sum.TotalNetToOwner.Equal(decimal.NewFromInt(800)))
}

func TestPropertyPerformanceRates(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	vacant := domain.Unit{
		PropertyID: fx.Property.ID,
		UnitNumber: "2B",
		MarketRent: decimal.NewFromInt(1300),
		Status:     domain.UnitVacant,
	}
	require.NoError(t, s.DB.Create(&vacant).Error)

	rent := seedCharge(t, s, fx.Lease.ID, 1500, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), domain.ChargePartial)
	seedPayment(t, s, fx.Lease.ID, 1200, time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC),
		map[uuid.UUID]int64{rent.ID: 1200})
	seedWork(t, s, fx.Unit.ID, "PLUMBING", 200, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), nil)

	data, summary, err := PropertyPerformance(context.Background(), s, fx.OrgID, defaultFilters(now))
	require.NoError(t, err)

	rows := data.([]PropertyPerformanceRow)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, 2, row.TotalUnits)
	assert.Equal(t, 1, row.OccupiedUnits)
	assert.Equal(t, 50.0, row.OccupancyRate)
	assert.True(t, row.ScheduledRent.Equal(decimal.NewFromInt(1500)))
	assert.True(t, row.CollectedRent.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, 80.0, row.CollectionRate)
	assert.True(t, row.MaintenanceCost.Equal(decimal.NewFromInt(200)))
	assert.True(t, row.NetOperating.Equal(decimal.NewFromInt(1000)))

	sum := summary.(PropertyPerformanceSummary)
	assert.Equal(t, 50.0, sum.PortfolioOccupancy)
	assert.True(t, sum.TotalNetOperating.Equal(decimal.NewFromInt(1000)))
}

func TestSecurityDepositSplitsHeldAndRefundable(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	ended := domain.Unit{
		PropertyID: fx.Property.ID,
		UnitNumber: "5E",
		MarketRent: decimal.NewFromInt(1100),
		Status:     domain.UnitVacant,
	}
	require.NoError(t, s.DB.Create(&ended).Error)
	terminated := domain.Lease{
		UnitID:          ended.ID,
		Status:          domain.LeaseTerminated,
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		RentAmount:      decimal.NewFromInt(1100),
		SecurityDeposit: decimal.NewFromInt(800),
		RentDueDay:      1,
	}
	require.NoError(t, s.DB.Create(&terminated).Error)
	// A lease with no deposit never appears.
	zero := domain.Lease{
		UnitID:     ended.ID,
		Status:     domain.LeaseActive,
		StartDate:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		RentAmount: decimal.NewFromInt(1100),
		RentDueDay: 1,
	}
	require.NoError(t, s.DB.Create(&zero).Error)

	data, summary, err := SecurityDeposit(context.Background(), s, fx.OrgID, defaultFilters(now))
	require.NoError(t, err)

	d := data.(SecurityDepositData)
	require.Len(t, d.Held, 1)
	assert.Equal(t, "Ada Nwosu", d.Held[0].TenantName)
	assert.True(t, d.Held[0].Deposit.Equal(decimal.NewFromInt(1500)))
	require.Len(t, d.Refundable, 1)
	assert.Equal(t, domain.LeaseTerminated, d.Refundable[0].LeaseStatus)
	assert.True(t, d.Refundable[0].Deposit.Equal(decimal.NewFromInt(800)))

	sum := summary.(SecurityDepositSummary)
	assert.True(t, sum.TotalHeld.Equal(decimal.NewFromInt(1500)))
	assert.True(t, sum.TotalRefundable.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, 2, sum.LeaseCount)
}

func TestTenantLedgerRunningBalance(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	// Payment lands between the two charges; lines must come out in date
	// order with the balance carried through.
	seedCharge(t, s, fx.Lease.ID, 1500, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), domain.ChargePartial)
	seedCharge(t, s, fx.Lease.ID, 1500, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), domain.ChargeDue)
	seedPayment(t, s, fx.Lease.ID, 1000, time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), nil)

	data, summary, err := TenantLedger(context.Background(), s, fx.OrgID, defaultFilters(now))
	require.NoError(t, err)

	entries := data.([]TenantLedgerEntry)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "Ada Nwosu", entry.TenantName)
	require.Len(t, entry.Lines, 3)

	assert.Equal(t, LineCharge, entry.Lines[0].Kind)
	assert.True(t, entry.Lines[0].Balance.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, LinePayment, entry.Lines[1].Kind)
	assert.True(t, entry.Lines[1].Balance.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, LineCharge, entry.Lines[2].Kind)
	assert.True(t, entry.Lines[2].Balance.Equal(decimal.NewFromInt(2000)))
	assert.True(t, entry.EndingBalance.Equal(decimal.NewFromInt(2000)))

	sum := summary.(TenantLedgerSummary)
	assert.Equal(t, 1, sum.TenantCount)
	assert.True(t, sum.TotalEndingBalance.Equal(decimal.NewFromInt(2000)))
}

func TestTenantLedgerBooksTargetedChargeToCoTenant(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	co := domain.Tenant{OrgID: fx.OrgID, FirstName: "Bode", LastName: "Okafor", IsActive: true}
	require.NoError(t, s.DB.Create(&co).Error)
	require.NoError(t, s.DB.Create(&domain.LeaseTenant{
		LeaseID:  fx.Lease.ID,
		TenantID: co.ID,
		Role:     domain.RoleCoTenant,
	}).Error)

	// Untargeted rent goes to the primary tenant; the utility charge names
	// the co-tenant and must land on their ledger.
	seedCharge(t, s, fx.Lease.ID, 1500, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), domain.ChargeDue)
	utility := domain.Charge{
		LeaseID:  fx.Lease.ID,
		TenantID: &co.ID,
		Type:     domain.ChargeTypeUtility,
		Amount:   decimal.NewFromInt(80),
		DueDate:  time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		Status:   domain.ChargeDue,
	}
	require.NoError(t, s.DB.Create(&utility).Error)

	data, summary, err := TenantLedger(context.Background(), s, fx.OrgID, defaultFilters(now))
	require.NoError(t, err)

	entries := data.([]TenantLedgerEntry)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ada Nwosu", entries[0].TenantName)
	require.Len(t, entries[0].Lines, 1)
	assert.True(t, entries[0].EndingBalance.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "Bode Okafor", entries[1].TenantName)
	require.Len(t, entries[1].Lines, 1)
	assert.Equal(t, domain.ChargeTypeUtility, entries[1].Lines[0].Description)
	assert.True(t, entries[1].EndingBalance.Equal(decimal.NewFromInt(80)))

	sum := summary.(TenantLedgerSummary)
	assert.Equal(t, 2, sum.TenantCount)
	assert.True(t, sum.TotalEndingBalance.Equal(decimal.NewFromInt(1580)))
}

func TestTax1099AppliesThreshold(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	acme := seedVendor(t, s, fx.OrgID, "Acme Plumbing", "12-3456789")
	budget := seedVendor(t, s, fx.OrgID, "Budget Electric", "98-7654321")
	edge := seedVendor(t, s, fx.OrgID, "Edge Roofing", "55-5555555")

	seedWork(t, s, fx.Unit.ID, "PLUMBING", 400, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), &acme.ID)
	seedWork(t, s, fx.Unit.ID, "PLUMBING", 250, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), &acme.ID)
	// Out-of-period work never counts toward the total.
	seedWork(t, s, fx.Unit.ID, "PLUMBING", 5000, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), &acme.ID)
	seedWork(t, s, fx.Unit.ID, "ELECTRICAL", 599, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), &budget.ID)
	// Exactly at the threshold is reportable.
	seedWork(t, s, fx.Unit.ID, "ROOFING", 600, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), &edge.ID)
	// Unassigned work has no payee.
	seedWork(t, s, fx.Unit.ID, "GENERAL", 900, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), nil)

	data, summary, err := Tax1099(context.Background(), s, fx.OrgID, defaultFilters(now))
	require.NoError(t, err)

	rows := data.([]Tax1099Row)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme Plumbing", rows[0].Name)
	assert.Equal(t, "12-3456789", rows[0].TaxID)
	assert.True(t, rows[0].TotalPaid.Equal(decimal.NewFromInt(650)))
	assert.Equal(t, 2, rows[0].JobCount)
	assert.Equal(t, "Edge Roofing", rows[1].Name)
	assert.True(t, rows[1].TotalPaid.Equal(decimal.NewFromInt(600)))

	sum := summary.(Tax1099Summary)
	assert.Equal(t, 2, sum.VendorCount)
	assert.True(t, sum.TotalPaid.Equal(decimal.NewFromInt(1250)))
	assert.True(t, sum.Threshold.Equal(decimal.NewFromInt(600)))
}

func TestExpenseReportGroupings(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	seedWork(t, s, fx.Unit.ID, "PLUMBING", 100, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), nil)
	seedWork(t, s, fx.Unit.ID, "ELECTRICAL", 50, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC), nil)
	seedWork(t, s, fx.Unit.ID, "PLUMBING", 75, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), nil)

	data, summary, err := ExpenseReport(context.Background(), s, fx.OrgID, defaultFilters(now))
	require.NoError(t, err)

	d := data.(ExpenseData)
	assert.True(t, d.ByCategory["PLUMBING"].Equal(decimal.NewFromInt(175)))
	assert.True(t, d.ByCategory["ELECTRICAL"].Equal(decimal.NewFromInt(50)))
	assert.True(t, d.ByProperty["Maple Court"].Equal(decimal.NewFromInt(225)))
	assert.True(t, d.ByMonth["2025-02"].Equal(decimal.NewFromInt(150)))
	assert.True(t, d.ByMonth["2025-03"].Equal(decimal.NewFromInt(75)))

	sum := summary.(ExpenseSummary)
	assert.True(t, sum.TotalExpenses.Equal(decimal.NewFromInt(225)))
	assert.Equal(t, 3, sum.RequestCount)
}

func TestDepreciationStraightLineSchedule(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	purchased := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.DB.Model(&domain.Property{}).
		Where("id = ?", fx.Property.ID).
		UpdateColumn("purchase_date", purchased).Error)

	// A priced property with no purchase date has no schedule yet.
	undated := domain.Property{
		OrgID:         fx.OrgID,
		Name:          "Oak Row",
		Address:       "4 Oak Ave",
		PurchasePrice: decimal.NewFromInt(200000),
	}
	require.NoError(t, s.DB.Create(&undated).Error)

	f := defaultFilters(now)
	data, summary, err := Depreciation(context.Background(), s, fx.OrgID, f)
	require.NoError(t, err)

	rows := data.([]DepreciationRow)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "Maple Court", row.PropertyName)
	// 300000 purchase less 50000 land over 27.5 years, 5 full years in service.
	assert.True(t, row.DepreciableBasis.Equal(decimal.NewFromInt(250000)))
	assert.True(t, row.AnnualAmount.Equal(decimal.RequireFromString("9090.91")), "annual: %s", row.AnnualAmount)
	assert.Equal(t, 5, row.YearsInService)
	assert.True(t, row.Accumulated.Equal(decimal.RequireFromString("45454.55")), "accumulated: %s", row.Accumulated)
	assert.True(t, row.RemainingBasis.Equal(decimal.RequireFromString("204545.45")))

	sum := summary.(DepreciationSummary)
	assert.Equal(t, 1, sum.PropertyCount)
	assert.True(t, sum.TotalAnnual.Equal(decimal.RequireFromString("9090.91")))
	assert.True(t, sum.TotalAccumulated.Equal(decimal.RequireFromString("45454.55")))
}

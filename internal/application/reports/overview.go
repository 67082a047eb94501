package reports

import (
	"context"
	"math"
	"time"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OverviewData is the cross-cutting dashboard snapshot.
type OverviewData struct {
	TotalProperties    int             `json:"total_properties"`
	TotalUnits         int             `json:"total_units"`
	OccupiedUnits      int             `json:"occupied_units"`
	VacantUnits        int             `json:"vacant_units"`
	ActiveLeases       int             `json:"active_leases"`
	OccupancyRate      float64         `json:"occupancy_rate"`
	CurrentMonthIncome decimal.Decimal `json:"current_month_income"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	OpenMaintenance    int             `json:"open_maintenance"`
}

// OverviewSummary repeats the headline numbers for the envelope.
type OverviewSummary struct {
	OccupancyRate      float64         `json:"occupancy_rate"`
	CurrentMonthIncome decimal.Decimal `json:"current_month_income"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	OpenMaintenance    int             `json:"open_maintenance"`
}

// Overview computes the portfolio snapshot: occupancy, calendar-month income,
// total outstanding balance and open maintenance count. Zero units means an
// occupancy rate of 0, never a division by zero.
func Overview(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	props, err := store.Properties(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	units, err := store.Units(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	activeLeases, err := store.Leases(ctx, orgID, f.PropertyID, domain.LeaseActive)
	if err != nil {
		return nil, nil, err
	}

	now := f.Now
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	payments, err := store.Payments(ctx, orgID, f.PropertyID, PaymentQuery{
		Statuses:     []string{domain.PaymentCompleted},
		ReceivedFrom: &monthStart,
		ReceivedTo:   &monthEnd,
	})
	if err != nil {
		return nil, nil, err
	}
	openCharges, err := store.Charges(ctx, orgID, f.PropertyID, ChargeQuery{
		Statuses: []string{domain.ChargeDue, domain.ChargePartial},
	})
	if err != nil {
		return nil, nil, err
	}
	openReqs, err := store.MaintenanceRequests(ctx, orgID, f.PropertyID, MaintenanceQuery{
		Statuses: []string{domain.MaintenanceOpen, domain.MaintenanceInProgress},
	})
	if err != nil {
		return nil, nil, err
	}

	data := OverviewData{
		TotalProperties:    len(props),
		TotalUnits:         len(units),
		ActiveLeases:       len(activeLeases),
		CurrentMonthIncome: decimal.Zero,
		OutstandingBalance: decimal.Zero,
		OpenMaintenance:    len(openReqs),
	}
	for i := range units {
		switch units[i].Status {
		case domain.UnitOccupied:
			data.OccupiedUnits++
		case domain.UnitVacant:
			data.VacantUnits++
		}
	}
	if data.TotalUnits > 0 {
		rate := float64(data.OccupiedUnits) / float64(data.TotalUnits) * 100
		data.OccupancyRate = math.Round(rate*10) / 10
	}
	for i := range payments {
		data.CurrentMonthIncome = data.CurrentMonthIncome.Add(payments[i].Amount)
	}
	for i := range openCharges {
		data.OutstandingBalance = data.OutstandingBalance.Add(Balance(&openCharges[i]))
	}

	summary := OverviewSummary{
		OccupancyRate:      data.OccupancyRate,
		CurrentMonthIncome: data.CurrentMonthIncome,
		OutstandingBalance: data.OutstandingBalance,
		OpenMaintenance:    data.OpenMaintenance,
	}
	return data, summary, nil
}

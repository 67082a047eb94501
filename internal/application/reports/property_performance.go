package reports

import (
	"context"
	"math"
	"sort"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyPerformanceRow measures one property over the period.
type PropertyPerformanceRow struct {
	PropertyID      uuid.UUID       `json:"property_id"`
	PropertyName    string          `json:"property_name"`
	TotalUnits      int             `json:"total_units"`
	OccupiedUnits   int             `json:"occupied_units"`
	OccupancyRate   float64         `json:"occupancy_rate"`
	ScheduledRent   decimal.Decimal `json:"scheduled_rent"`
	CollectedRent   decimal.Decimal `json:"collected_rent"`
	CollectionRate  float64         `json:"collection_rate"`
	MaintenanceCost decimal.Decimal `json:"maintenance_cost"`
	NetOperating    decimal.Decimal `json:"net_operating_income"`
}

// PropertyPerformanceSummary totals the portfolio.
type PropertyPerformanceSummary struct {
	PropertyCount        int             `json:"property_count"`
	PortfolioOccupancy   float64         `json:"portfolio_occupancy"`
	TotalScheduledRent   decimal.Decimal `json:"total_scheduled_rent"`
	TotalCollectedRent   decimal.Decimal `json:"total_collected_rent"`
	TotalMaintenanceCost decimal.Decimal `json:"total_maintenance_cost"`
	TotalNetOperating    decimal.Decimal `json:"total_net_operating_income"`
}

// PropertyPerformance compares scheduled rent (RENT charges due in the range)
// with what allocations actually collected against those charges, per property.
func PropertyPerformance(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	props, err := store.Properties(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	units, err := store.Units(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	leases, err := store.Leases(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	from, to := f.Range.Start, f.Range.EndExclusive()
	rentCharges, err := store.Charges(ctx, orgID, f.PropertyID, ChargeQuery{
		Statuses: []string{domain.ChargeDue, domain.ChargePartial, domain.ChargePaid},
		DueFrom:  &from,
		DueTo:    &to,
	})
	if err != nil {
		return nil, nil, err
	}
	_, expenseByProperty, err := maintenanceCosts(ctx, store, orgID, f)
	if err != nil {
		return nil, nil, err
	}

	propByLease := leasePropertyIndex(leases)
	rows := make([]PropertyPerformanceRow, len(props))
	rowByProp := make(map[uuid.UUID]*PropertyPerformanceRow, len(props))
	for i := range props {
		rows[i] = PropertyPerformanceRow{
			PropertyID:      props[i].ID,
			PropertyName:    props[i].Name,
			ScheduledRent:   decimal.Zero,
			CollectedRent:   decimal.Zero,
			MaintenanceCost: decimal.Zero,
		}
		rowByProp[props[i].ID] = &rows[i]
	}

	for i := range units {
		row, ok := rowByProp[units[i].PropertyID]
		if !ok {
			continue
		}
		row.TotalUnits++
		if units[i].Status == domain.UnitOccupied {
			row.OccupiedUnits++
		}
	}
	for i := range rentCharges {
		ch := &rentCharges[i]
		if ch.Type != domain.ChargeTypeRent {
			continue
		}
		propID, ok := propByLease[ch.LeaseID]
		if !ok {
			continue
		}
		row, ok := rowByProp[propID]
		if !ok {
			continue
		}
		row.ScheduledRent = row.ScheduledRent.Add(ch.Amount)
		row.CollectedRent = row.CollectedRent.Add(Allocated(ch))
	}

	summary := PropertyPerformanceSummary{
		PropertyCount:        len(rows),
		TotalScheduledRent:   decimal.Zero,
		TotalCollectedRent:   decimal.Zero,
		TotalMaintenanceCost: decimal.Zero,
		TotalNetOperating:    decimal.Zero,
	}
	totalUnits, occupiedUnits := 0, 0
	for i := range rows {
		row := &rows[i]
		if row.TotalUnits > 0 {
			row.OccupancyRate = roundRate(float64(row.OccupiedUnits) / float64(row.TotalUnits) * 100)
		}
		if row.ScheduledRent.IsPositive() {
			collected, _ := row.CollectedRent.Float64()
			scheduled, _ := row.ScheduledRent.Float64()
			row.CollectionRate = roundRate(collected / scheduled * 100)
		}
		row.MaintenanceCost = expenseByProperty[row.PropertyName]
		if row.MaintenanceCost.IsZero() {
			row.MaintenanceCost = decimal.Zero
		}
		row.NetOperating = row.CollectedRent.Sub(row.MaintenanceCost)

		totalUnits += row.TotalUnits
		occupiedUnits += row.OccupiedUnits
		summary.TotalScheduledRent = summary.TotalScheduledRent.Add(row.ScheduledRent)
		summary.TotalCollectedRent = summary.TotalCollectedRent.Add(row.CollectedRent)
		summary.TotalMaintenanceCost = summary.TotalMaintenanceCost.Add(row.MaintenanceCost)
		summary.TotalNetOperating = summary.TotalNetOperating.Add(row.NetOperating)
	}
	if totalUnits > 0 {
		summary.PortfolioOccupancy = roundRate(float64(occupiedUnits) / float64(totalUnits) * 100)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].PropertyName < rows[j].PropertyName })
	return rows, summary, nil
}

func roundRate(v float64) float64 {
	return math.Round(v*10) / 10
}

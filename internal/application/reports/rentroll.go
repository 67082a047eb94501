package reports

import (
	"context"
	"time"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const unknownTenant = "Unknown"

// RentRollRow is one active lease in the rent roll.
type RentRollRow struct {
	LeaseID         uuid.UUID       `json:"lease_id"`
	PropertyName    string          `json:"property_name"`
	UnitNumber      string          `json:"unit_number"`
	TenantName      string          `json:"tenant_name"`
	LeaseStart      time.Time       `json:"lease_start"`
	LeaseEnd        time.Time       `json:"lease_end"`
	RentAmount      decimal.Decimal `json:"rent_amount"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	RentDueDay      int             `json:"rent_due_day"`
}

// RentRollSummary totals the roll.
type RentRollSummary struct {
	TotalLeases      int             `json:"total_leases"`
	TotalMonthlyRent decimal.Decimal `json:"total_monthly_rent"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
}

// RentRoll emits one row per ACTIVE lease with its primary tenant and the
// outstanding balance across the lease's open charges.
func RentRoll(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	leases, err := store.Leases(ctx, orgID, f.PropertyID, domain.LeaseActive)
	if err != nil {
		return nil, nil, err
	}
	props, err := store.Properties(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	openCharges, err := store.Charges(ctx, orgID, f.PropertyID, ChargeQuery{
		Statuses: []string{domain.ChargeDue, domain.ChargePartial},
	})
	if err != nil {
		return nil, nil, err
	}

	propNames := propertyNameIndex(props)
	balanceByLease := make(map[uuid.UUID]decimal.Decimal)
	for i := range openCharges {
		ch := &openCharges[i]
		balanceByLease[ch.LeaseID] = balanceByLease[ch.LeaseID].Add(Balance(ch))
	}

	rows := make([]RentRollRow, 0, len(leases))
	summary := RentRollSummary{
		TotalMonthlyRent: decimal.Zero,
		TotalBalance:     decimal.Zero,
	}
	for i := range leases {
		l := &leases[i]
		row := RentRollRow{
			LeaseID:         l.ID,
			TenantName:      unknownTenant,
			LeaseStart:      l.StartDate,
			LeaseEnd:        l.EndDate,
			RentAmount:      l.RentAmount,
			SecurityDeposit: l.SecurityDeposit,
			CurrentBalance:  balanceByLease[l.ID],
			RentDueDay:      l.RentDueDay,
		}
		if l.Unit != nil {
			row.UnitNumber = l.Unit.UnitNumber
			row.PropertyName = propNames[l.Unit.PropertyID]
		}
		if t := l.PrimaryTenant(); t != nil {
			row.TenantName = t.FullName()
		}
		rows = append(rows, row)
		summary.TotalMonthlyRent = summary.TotalMonthlyRent.Add(l.RentAmount)
		summary.TotalBalance = summary.TotalBalance.Add(row.CurrentBalance)
	}
	summary.TotalLeases = len(rows)
	return rows, summary, nil
}

func propertyNameIndex(props []domain.Property) map[uuid.UUID]string {
	idx := make(map[uuid.UUID]string, len(props))
	for i := range props {
		idx[props[i].ID] = props[i].Name
	}
	return idx
}

func unitIndex(units []domain.Unit) map[uuid.UUID]*domain.Unit {
	idx := make(map[uuid.UUID]*domain.Unit, len(units))
	for i := range units {
		idx[units[i].ID] = &units[i]
	}
	return idx
}

// leasePropertyIndex maps lease id -> property id using preloaded units.
func leasePropertyIndex(leases []domain.Lease) map[uuid.UUID]uuid.UUID {
	idx := make(map[uuid.UUID]uuid.UUID, len(leases))
	for i := range leases {
		if leases[i].Unit != nil {
			idx[leases[i].ID] = leases[i].Unit.PropertyID
		}
	}
	return idx
}

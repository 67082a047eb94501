package reports

import (
	"context"
	"time"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositRow is one lease's security deposit position.
type DepositRow struct {
	LeaseID      uuid.UUID       `json:"lease_id"`
	PropertyName string          `json:"property_name"`
	UnitNumber   string          `json:"unit_number"`
	TenantName   string          `json:"tenant_name"`
	LeaseStatus  string          `json:"lease_status"`
	Deposit      decimal.Decimal `json:"deposit"`
	LeaseEnd     time.Time       `json:"lease_end"`
}

// SecurityDepositData splits deposits held on active leases from deposits
// pending refund on ended ones.
type SecurityDepositData struct {
	Held       []DepositRow `json:"held"`
	Refundable []DepositRow `json:"refundable"`
}

// SecurityDepositSummary totals the liability.
type SecurityDepositSummary struct {
	TotalHeld       decimal.Decimal `json:"total_held"`
	TotalRefundable decimal.Decimal `json:"total_refundable"`
	LeaseCount      int             `json:"lease_count"`
}

// SecurityDeposit reports the deposit liability: held on ACTIVE leases,
// refundable on EXPIRED/TERMINATED ones that still carry a deposit.
func SecurityDeposit(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	leases, err := store.Leases(ctx, orgID, f.PropertyID,
		domain.LeaseActive, domain.LeaseExpired, domain.LeaseTerminated)
	if err != nil {
		return nil, nil, err
	}
	props, err := store.Properties(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	propNames := propertyNameIndex(props)

	data := SecurityDepositData{Held: []DepositRow{}, Refundable: []DepositRow{}}
	summary := SecurityDepositSummary{
		TotalHeld:       decimal.Zero,
		TotalRefundable: decimal.Zero,
	}
	for i := range leases {
		l := &leases[i]
		if !l.SecurityDeposit.IsPositive() {
			continue
		}
		row := DepositRow{
			LeaseID:     l.ID,
			TenantName:  unknownTenant,
			LeaseStatus: l.Status,
			Deposit:     l.SecurityDeposit,
			LeaseEnd:    l.EndDate,
		}
		if l.Unit != nil {
			row.UnitNumber = l.Unit.UnitNumber
			row.PropertyName = propNames[l.Unit.PropertyID]
		}
		if t := l.PrimaryTenant(); t != nil {
			row.TenantName = t.FullName()
		}
		if l.Status == domain.LeaseActive {
			data.Held = append(data.Held, row)
			summary.TotalHeld = summary.TotalHeld.Add(l.SecurityDeposit)
		} else {
			data.Refundable = append(data.Refundable, row)
			summary.TotalRefundable = summary.TotalRefundable.Add(l.SecurityDeposit)
		}
	}
	summary.LeaseCount = len(data.Held) + len(data.Refundable)
	return data, summary, nil
}

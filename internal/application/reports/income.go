package reports

import (
	"context"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeData groups completed payment income three ways.
type IncomeData struct {
	ByProperty map[string]decimal.Decimal `json:"by_property"`
	ByMonth    map[string]decimal.Decimal `json:"by_month"`
	ByType     map[string]decimal.Decimal `json:"by_type"`
}

// IncomeSummary totals the income report.
type IncomeSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	PaymentCount int             `json:"payment_count"`
}

// Income sums COMPLETED payments in the date range by property, by calendar
// month and — through payment allocations — by charge type.
func Income(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	from, to := f.Range.Start, f.Range.EndExclusive()
	payments, err := store.Payments(ctx, orgID, f.PropertyID, PaymentQuery{
		Statuses:     []string{domain.PaymentCompleted},
		ReceivedFrom: &from,
		ReceivedTo:   &to,
	})
	if err != nil {
		return nil, nil, err
	}
	leases, err := store.Leases(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	props, err := store.Properties(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}

	chargeIDs := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for i := range payments {
		for j := range payments[i].Allocations {
			id := payments[i].Allocations[j].ChargeID
			if !seen[id] {
				seen[id] = true
				chargeIDs = append(chargeIDs, id)
			}
		}
	}
	chargeTypes := make(map[uuid.UUID]string, len(chargeIDs))
	if len(chargeIDs) > 0 {
		charges, err := store.Charges(ctx, orgID, f.PropertyID, ChargeQuery{IDs: chargeIDs})
		if err != nil {
			return nil, nil, err
		}
		for i := range charges {
			chargeTypes[charges[i].ID] = charges[i].Type
		}
	}

	propNames := propertyNameIndex(props)
	propByLease := leasePropertyIndex(leases)

	data := IncomeData{
		ByProperty: map[string]decimal.Decimal{},
		ByMonth:    map[string]decimal.Decimal{},
		ByType:     map[string]decimal.Decimal{},
	}
	summary := IncomeSummary{TotalIncome: decimal.Zero}
	for i := range payments {
		p := &payments[i]
		summary.TotalIncome = summary.TotalIncome.Add(p.Amount)

		propName := unknownProperty
		if propID, ok := propByLease[p.LeaseID]; ok {
			if name, ok := propNames[propID]; ok {
				propName = name
			}
		}
		data.ByProperty[propName] = data.ByProperty[propName].Add(p.Amount)

		month := monthKey(p.ReceivedAt)
		data.ByMonth[month] = data.ByMonth[month].Add(p.Amount)

		for j := range p.Allocations {
			a := &p.Allocations[j]
			chType, ok := chargeTypes[a.ChargeID]
			if !ok {
				chType = domain.ChargeTypeOther
			}
			data.ByType[chType] = data.ByType[chType].Add(a.Amount)
		}
	}
	summary.PaymentCount = len(payments)
	return data, summary, nil
}

const unknownProperty = "Unknown"

package reports

import (
	"context"
	"sort"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfitLossData lists income and expense lines.
type ProfitLossData struct {
	Income   []LineItem `json:"income"`
	Expenses []LineItem `json:"expenses"`
}

// ProfitLossSummary totals the statement.
type ProfitLossSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
}

// ProfitLoss builds the income statement for the period. The accounting method
// decides recognition: cash counts allocations of payments received in the
// range, accrual counts charges due in the range. Expenses are completed
// maintenance costs resolved in the range under either method.
func ProfitLoss(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	incomeByType, err := incomeByChargeType(ctx, store, orgID, f)
	if err != nil {
		return nil, nil, err
	}
	expenseByCategory, _, err := maintenanceCosts(ctx, store, orgID, f)
	if err != nil {
		return nil, nil, err
	}

	data := ProfitLossData{
		Income:   sortedLineItems(incomeByType),
		Expenses: sortedLineItems(expenseByCategory),
	}
	summary := ProfitLossSummary{
		TotalIncome:   sumLineItems(data.Income),
		TotalExpenses: sumLineItems(data.Expenses),
	}
	summary.NetIncome = summary.TotalIncome.Sub(summary.TotalExpenses)
	return data, summary, nil
}

// incomeByChargeType recognizes income per the filters' accounting method.
func incomeByChargeType(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (map[string]decimal.Decimal, error) {
	from, to := f.Range.Start, f.Range.EndExclusive()
	out := make(map[string]decimal.Decimal)

	if f.AccountingMethod == MethodAccrual {
		charges, err := store.Charges(ctx, orgID, f.PropertyID, ChargeQuery{
			Statuses: []string{domain.ChargeDue, domain.ChargePartial, domain.ChargePaid},
			DueFrom:  &from,
			DueTo:    &to,
		})
		if err != nil {
			return nil, err
		}
		for i := range charges {
			out[charges[i].Type] = out[charges[i].Type].Add(charges[i].Amount)
		}
		return out, nil
	}

	payments, err := store.Payments(ctx, orgID, f.PropertyID, PaymentQuery{
		Statuses:     []string{domain.PaymentCompleted},
		ReceivedFrom: &from,
		ReceivedTo:   &to,
	})
	if err != nil {
		return nil, err
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
			return nil, err
		}
		for i := range charges {
			chargeTypes[charges[i].ID] = charges[i].Type
		}
	}
	for i := range payments {
		for j := range payments[i].Allocations {
			a := &payments[i].Allocations[j]
			chType, ok := chargeTypes[a.ChargeID]
			if !ok {
				chType = domain.ChargeTypeOther
			}
			out[chType] = out[chType].Add(a.Amount)
		}
	}
	return out, nil
}

// maintenanceCosts sums completed maintenance actual costs resolved in the
// range, grouped by category and by property.
func maintenanceCosts(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (byCategory, byProperty map[string]decimal.Decimal, err error) {
	reqs, err := store.MaintenanceRequests(ctx, orgID, f.PropertyID, MaintenanceQuery{
		Statuses: []string{domain.MaintenanceCompleted},
	})
	if err != nil {
		return nil, nil, err
	}
	units, err := store.Units(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	props, err := store.Properties(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	propNames := propertyNameIndex(props)
	unitsByID := unitIndex(units)

	byCategory = make(map[string]decimal.Decimal)
	byProperty = make(map[string]decimal.Decimal)
	for i := range reqs {
		r := &reqs[i]
		if r.ActualCost == nil || r.ResolvedAt == nil || !f.Range.Contains(*r.ResolvedAt) {
			continue
		}
		byCategory[r.Category] = byCategory[r.Category].Add(*r.ActualCost)
		propName := unknownProperty
		if u, ok := unitsByID[r.UnitID]; ok {
			if name, ok := propNames[u.PropertyID]; ok {
				propName = name
			}
		}
		byProperty[propName] = byProperty[propName].Add(*r.ActualCost)
	}
	return byCategory, byProperty, nil
}

func sortedLineItems(m map[string]decimal.Decimal) []LineItem {
	items := make([]LineItem, 0, len(m))
	for name, amount := range m {
		items = append(items, LineItem{Name: name, Amount: amount})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func sumLineItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Amount)
	}
	return total
}

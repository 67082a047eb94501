package reports

import (
	"context"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseData groups maintenance spend three ways.
type ExpenseData struct {
	ByCategory map[string]decimal.Decimal `json:"by_category"`
	ByProperty map[string]decimal.Decimal `json:"by_property"`
	ByMonth    map[string]decimal.Decimal `json:"by_month"`
}

// ExpenseSummary totals the report.
type ExpenseSummary struct {
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	RequestCount  int             `json:"request_count"`
}

// ExpenseReport sums completed maintenance actual costs resolved in the
// range, grouped by category, property and calendar month.
func ExpenseReport(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
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

	data := ExpenseData{
		ByCategory: map[string]decimal.Decimal{},
		ByProperty: map[string]decimal.Decimal{},
		ByMonth:    map[string]decimal.Decimal{},
	}
	summary := ExpenseSummary{TotalExpenses: decimal.Zero}
	for i := range reqs {
		r := &reqs[i]
		if r.ActualCost == nil || r.ResolvedAt == nil || !f.Range.Contains(*r.ResolvedAt) {
			continue
		}
		cost := *r.ActualCost
		data.ByCategory[r.Category] = data.ByCategory[r.Category].Add(cost)
		propName := unknownProperty
		if u, ok := unitsByID[r.UnitID]; ok {
			if name, ok := propNames[u.PropertyID]; ok {
				propName = name
			}
		}
		data.ByProperty[propName] = data.ByProperty[propName].Add(cost)
		data.ByMonth[monthKey(*r.ResolvedAt)] = data.ByMonth[monthKey(*r.ResolvedAt)].Add(cost)
		summary.TotalExpenses = summary.TotalExpenses.Add(cost)
		summary.RequestCount++
	}
	return data, summary, nil
}

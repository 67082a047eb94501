package reports

import (
	"context"
	"sort"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OwnerStatementRow summarizes one property for its owner.
type OwnerStatementRow struct {
	PropertyID       uuid.UUID       `json:"property_id"`
	PropertyName     string          `json:"property_name"`
	BeginningBalance decimal.Decimal `json:"beginning_balance"`
	IncomeCollected  decimal.Decimal `json:"income_collected"`
	Expenses         decimal.Decimal `json:"expenses"`
	NetToOwner       decimal.Decimal `json:"net_to_owner"`
	EndingBalance    decimal.Decimal `json:"ending_balance"`
}

// OwnerStatementSummary totals the statement.
type OwnerStatementSummary struct {
	PropertyCount   int             `json:"property_count"`
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	TotalNetToOwner decimal.Decimal `json:"total_net_to_owner"`
}

// OwnerStatement reports per property: receivables balance entering the
// period, cash collected and maintenance spend during it, and the resulting
// net and ending receivables balance.
func OwnerStatement(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	props, err := store.Properties(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	leases, err := store.Leases(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	from, to := f.Range.Start, f.Range.EndExclusive()
	payments, err := store.Payments(ctx, orgID, f.PropertyID, PaymentQuery{
		Statuses:     []string{domain.PaymentCompleted},
		ReceivedFrom: &from,
		ReceivedTo:   &to,
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
	_, expenseByProperty, err := maintenanceCosts(ctx, store, orgID, f)
	if err != nil {
		return nil, nil, err
	}

	propByLease := leasePropertyIndex(leases)
	rowByProp := make(map[uuid.UUID]*OwnerStatementRow, len(props))
	rows := make([]OwnerStatementRow, len(props))
	for i := range props {
		rows[i] = OwnerStatementRow{
			PropertyID:       props[i].ID,
			PropertyName:     props[i].Name,
			BeginningBalance: decimal.Zero,
			IncomeCollected:  decimal.Zero,
			Expenses:         decimal.Zero,
			EndingBalance:    decimal.Zero,
		}
		rowByProp[props[i].ID] = &rows[i]
	}

	for i := range payments {
		if propID, ok := propByLease[payments[i].LeaseID]; ok {
			if row, ok := rowByProp[propID]; ok {
				row.IncomeCollected = row.IncomeCollected.Add(payments[i].Amount)
			}
		}
	}
	for i := range openCharges {
		ch := &openCharges[i]
		propID, ok := propByLease[ch.LeaseID]
		if !ok {
			continue
		}
		row, ok := rowByProp[propID]
		if !ok {
			continue
		}
		balance := Balance(ch)
		if ch.DueDate.Before(f.Range.Start) {
			row.BeginningBalance = row.BeginningBalance.Add(balance)
		}
		if ch.DueDate.Before(f.Range.EndExclusive()) {
			row.EndingBalance = row.EndingBalance.Add(balance)
		}
	}

	summary := OwnerStatementSummary{
		PropertyCount: len(rows),
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for i := range rows {
		row := &rows[i]
		row.Expenses = expenseByProperty[row.PropertyName]
		if row.Expenses.IsZero() {
			row.Expenses = decimal.Zero
		}
		row.NetToOwner = row.IncomeCollected.Sub(row.Expenses)
		summary.TotalIncome = summary.TotalIncome.Add(row.IncomeCollected)
		summary.TotalExpenses = summary.TotalExpenses.Add(row.Expenses)
	}
	summary.TotalNetToOwner = summary.TotalIncome.Sub(summary.TotalExpenses)

	sort.Slice(rows, func(i, j int) bool { return rows[i].PropertyName < rows[j].PropertyName })
	return rows, summary, nil
}

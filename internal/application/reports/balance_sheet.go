package reports

import (
	"context"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one named amount on a financial statement.
type LineItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// BalanceSheetData holds the three statement sections.
type BalanceSheetData struct {
	Assets      []LineItem `json:"assets"`
	Liabilities []LineItem `json:"liabilities"`
	Equity      []LineItem `json:"equity"`
}

// BalanceSheetSummary totals the sections.
type BalanceSheetSummary struct {
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
}

// BalanceSheet states the org position as of the period end: cash collected
// and open receivables as assets, security deposits held as liabilities,
// the remainder as equity.
func BalanceSheet(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	asOf := f.Range.EndExclusive()

	payments, err := store.Payments(ctx, orgID, f.PropertyID, PaymentQuery{
		Statuses:   []string{domain.PaymentCompleted},
		ReceivedTo: &asOf,
	})
	if err != nil {
		return nil, nil, err
	}
	openCharges, err := store.Charges(ctx, orgID, f.PropertyID, ChargeQuery{
		Statuses: []string{domain.ChargeDue, domain.ChargePartial},
		DueTo:    &asOf,
	})
	if err != nil {
		return nil, nil, err
	}
	activeLeases, err := store.Leases(ctx, orgID, f.PropertyID, domain.LeaseActive)
	if err != nil {
		return nil, nil, err
	}

	cash := decimal.Zero
	for i := range payments {
		cash = cash.Add(payments[i].Amount)
	}
	receivables := decimal.Zero
	for i := range openCharges {
		if b := Balance(&openCharges[i]); b.IsPositive() {
			receivables = receivables.Add(b)
		}
	}
	deposits := decimal.Zero
	for i := range activeLeases {
		deposits = deposits.Add(activeLeases[i].SecurityDeposit)
	}

	totalAssets := cash.Add(receivables)
	equity := totalAssets.Sub(deposits)

	data := BalanceSheetData{
		Assets: []LineItem{
			{Name: "Cash (rent collected)", Amount: cash},
			{Name: "Accounts receivable", Amount: receivables},
		},
		Liabilities: []LineItem{
			{Name: "Security deposits held", Amount: deposits},
		},
		Equity: []LineItem{
			{Name: "Owner equity", Amount: equity},
		},
	}
	summary := BalanceSheetSummary{
		TotalAssets:      totalAssets,
		TotalLiabilities: deposits,
		TotalEquity:      equity,
	}
	return data, summary, nil
}

package reports

import (
	"context"
	"time"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashFlowMonth is one month's cash movement.
type CashFlowMonth struct {
	Month      string          `json:"month"`
	CashIn     decimal.Decimal `json:"cash_in"`
	CashOut    decimal.Decimal `json:"cash_out"`
	Net        decimal.Decimal `json:"net"`
	RunningNet decimal.Decimal `json:"running_net"`
}

// CashFlowSummary totals the statement.
type CashFlowSummary struct {
	TotalIn     decimal.Decimal `json:"total_in"`
	TotalOut    decimal.Decimal `json:"total_out"`
	NetCashFlow decimal.Decimal `json:"net_cash_flow"`
}

// CashFlow buckets completed payments (in) and completed maintenance costs
// (out) by calendar month across the period, with a running net.
func CashFlow(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	from, to := f.Range.Start, f.Range.EndExclusive()
	payments, err := store.Payments(ctx, orgID, f.PropertyID, PaymentQuery{
		Statuses:     []string{domain.PaymentCompleted},
		ReceivedFrom: &from,
		ReceivedTo:   &to,
	})
	if err != nil {
		return nil, nil, err
	}
	reqs, err := store.MaintenanceRequests(ctx, orgID, f.PropertyID, MaintenanceQuery{
		Statuses: []string{domain.MaintenanceCompleted},
	})
	if err != nil {
		return nil, nil, err
	}

	inByMonth := make(map[string]decimal.Decimal)
	for i := range payments {
		k := monthKey(payments[i].ReceivedAt)
		inByMonth[k] = inByMonth[k].Add(payments[i].Amount)
	}
	outByMonth := make(map[string]decimal.Decimal)
	for i := range reqs {
		r := &reqs[i]
		if r.ActualCost == nil || r.ResolvedAt == nil || !f.Range.Contains(*r.ResolvedAt) {
			continue
		}
		k := monthKey(*r.ResolvedAt)
		outByMonth[k] = outByMonth[k].Add(*r.ActualCost)
	}

	months := monthsBetween(f.Range.Start, f.Range.End)
	rows := make([]CashFlowMonth, 0, len(months))
	summary := CashFlowSummary{TotalIn: decimal.Zero, TotalOut: decimal.Zero}
	running := decimal.Zero
	for _, m := range months {
		in := inByMonth[m]
		out := outByMonth[m]
		net := in.Sub(out)
		running = running.Add(net)
		rows = append(rows, CashFlowMonth{
			Month:      m,
			CashIn:     in,
			CashOut:    out,
			Net:        net,
			RunningNet: running,
		})
		summary.TotalIn = summary.TotalIn.Add(in)
		summary.TotalOut = summary.TotalOut.Add(out)
	}
	summary.NetCashFlow = summary.TotalIn.Sub(summary.TotalOut)
	return rows, summary, nil
}

// monthsBetween lists YYYY-MM labels from the start month through the end month.
func monthsBetween(start, end time.Time) []string {
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	var out []string
	for !cur.After(last) {
		out = append(out, monthKey(cur))
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

package reports

import (
	"context"
	"sort"
	"time"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger line kinds.
const (
	LineCharge  = "CHARGE"
	LinePayment = "PAYMENT"
)

// LedgerLine is one dated entry on a tenant's ledger. Charges debit the
// balance, payments credit it.
type LedgerLine struct {
	Date        time.Time       `json:"date"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
}

// TenantLedgerEntry is one tenant's ledger over the period.
type TenantLedgerEntry struct {
	TenantID      uuid.UUID       `json:"tenant_id"`
	TenantName    string          `json:"tenant_name"`
	Lines         []LedgerLine    `json:"lines"`
	EndingBalance decimal.Decimal `json:"ending_balance"`
}

// TenantLedgerSummary totals the report.
type TenantLedgerSummary struct {
	TenantCount        int             `json:"tenant_count"`
	TotalEndingBalance decimal.Decimal `json:"total_ending_balance"`
}

// TenantLedger builds a chronological charge/payment ledger with running
// balance per tenant. A charge targeted at a specific tenant books to that
// tenant; charges without one, and all payments, attach to the lease's
// primary tenant.
func TenantLedger(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	leases, err := store.Leases(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	tenants, err := store.Tenants(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}
	from, to := f.Range.Start, f.Range.EndExclusive()
	charges, err := store.Charges(ctx, orgID, f.PropertyID, ChargeQuery{
		DueFrom: &from,
		DueTo:   &to,
	})
	if err != nil {
		return nil, nil, err
	}
	payments, err := store.Payments(ctx, orgID, f.PropertyID, PaymentQuery{
		Statuses:     []string{domain.PaymentCompleted},
		ReceivedFrom: &from,
		ReceivedTo:   &to,
	})
	if err != nil {
		return nil, nil, err
	}

	primaryByLease := make(map[uuid.UUID]*domain.Tenant, len(leases))
	for i := range leases {
		primaryByLease[leases[i].ID] = leases[i].PrimaryTenant()
	}
	tenantByID := make(map[uuid.UUID]*domain.Tenant, len(tenants))
	for i := range tenants {
		tenantByID[tenants[i].ID] = &tenants[i]
	}

	type rawLine struct {
		tenant *domain.Tenant
		line   LedgerLine
	}
	var raw []rawLine
	for i := range charges {
		ch := &charges[i]
		t := primaryByLease[ch.LeaseID]
		if ch.TenantID != nil {
			if target, ok := tenantByID[*ch.TenantID]; ok {
				t = target
			}
		}
		desc := ch.Description
		if desc == "" {
			desc = ch.Type
		}
		raw = append(raw, rawLine{tenant: t, line: LedgerLine{
			Date:        ch.DueDate,
			Kind:        LineCharge,
			Description: desc,
			Amount:      ch.Amount,
		}})
	}
	for i := range payments {
		p := &payments[i]
		t := primaryByLease[p.LeaseID]
		raw = append(raw, rawLine{tenant: t, line: LedgerLine{
			Date:        p.ReceivedAt,
			Kind:        LinePayment,
			Description: "Payment (" + p.Method + ")",
			Amount:      p.Amount,
		}})
	}

	byTenant := make(map[uuid.UUID]*TenantLedgerEntry)
	var order []uuid.UUID
	for _, rl := range raw {
		if rl.tenant == nil {
			continue
		}
		entry, ok := byTenant[rl.tenant.ID]
		if !ok {
			entry = &TenantLedgerEntry{
				TenantID:      rl.tenant.ID,
				TenantName:    rl.tenant.FullName(),
				EndingBalance: decimal.Zero,
			}
			byTenant[rl.tenant.ID] = entry
			order = append(order, rl.tenant.ID)
		}
		entry.Lines = append(entry.Lines, rl.line)
	}

	summary := TenantLedgerSummary{TotalEndingBalance: decimal.Zero}
	entries := make([]TenantLedgerEntry, 0, len(order))
	for _, id := range order {
		entry := byTenant[id]
		sort.SliceStable(entry.Lines, func(i, j int) bool {
			return entry.Lines[i].Date.Before(entry.Lines[j].Date)
		})
		balance := decimal.Zero
		for i := range entry.Lines {
			if entry.Lines[i].Kind == LineCharge {
				balance = balance.Add(entry.Lines[i].Amount)
			} else {
				balance = balance.Sub(entry.Lines[i].Amount)
			}
			entry.Lines[i].Balance = balance
		}
		entry.EndingBalance = balance
		summary.TotalEndingBalance = summary.TotalEndingBalance.Add(balance)
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].TenantName < entries[j].TenantName })
	summary.TenantCount = len(entries)
	return entries, summary, nil
}

package reports

import (
	"context"
	"sort"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aging buckets, by days past due.
const (
	Bucket0to30  = "0-30"
	Bucket31to60 = "31-60"
	Bucket61to90 = "61-90"
	BucketOver90 = "90+"
)

// AgingRow is one overdue charge.
type AgingRow struct {
	ChargeID    uuid.UUID       `json:"charge_id"`
	LeaseID     uuid.UUID       `json:"lease_id"`
	TenantName  string          `json:"tenant_name"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	DueDate     string          `json:"due_date"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	DaysOverdue int             `json:"days_overdue"`
	Bucket      string          `json:"bucket"`
}

// AgingSummary totals the delinquency report.
type AgingSummary struct {
	TotalOverdue    decimal.Decimal            `json:"total_overdue"`
	DelinquentCount int                        `json:"delinquent_tenant_count"`
	Buckets         map[string]decimal.Decimal `json:"buckets"`
}

// Aging selects open charges past their due date and buckets the outstanding
// balance by days overdue. Also serves the dashboard "delinquency" quick report.
func Aging(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	now := f.Now
	charges, err := store.Charges(ctx, orgID, f.PropertyID, ChargeQuery{
		Statuses: []string{domain.ChargeDue, domain.ChargePartial},
		DueTo:    &now,
	})
	if err != nil {
		return nil, nil, err
	}
	leases, err := store.Leases(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	tenants, err := store.Tenants(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}

	tenantNames := make(map[uuid.UUID]string, len(tenants))
	for i := range tenants {
		tenantNames[tenants[i].ID] = tenants[i].FullName()
	}
	primaryByLease := make(map[uuid.UUID]*domain.Tenant, len(leases))
	for i := range leases {
		primaryByLease[leases[i].ID] = leases[i].PrimaryTenant()
	}

	rows := make([]AgingRow, 0, len(charges))
	summary := AgingSummary{
		TotalOverdue: decimal.Zero,
		Buckets: map[string]decimal.Decimal{
			Bucket0to30:  decimal.Zero,
			Bucket31to60: decimal.Zero,
			Bucket61to90: decimal.Zero,
			BucketOver90: decimal.Zero,
		},
	}
	delinquent := make(map[string]bool)
	for i := range charges {
		ch := &charges[i]
		balance := Balance(ch)
		days := DaysOverdue(now, ch.DueDate)
		row := AgingRow{
			ChargeID:    ch.ID,
			LeaseID:     ch.LeaseID,
			TenantName:  unknownTenant,
			Type:        ch.Type,
			Description: ch.Description,
			DueDate:     ch.DueDate.Format("2006-01-02"),
			Amount:      ch.Amount,
			Balance:     balance,
			DaysOverdue: days,
			Bucket:      agingBucket(days),
		}
		tenantKey := "lease:" + ch.LeaseID.String()
		if ch.TenantID != nil {
			if name, ok := tenantNames[*ch.TenantID]; ok {
				row.TenantName = name
			}
			tenantKey = ch.TenantID.String()
		} else if t := primaryByLease[ch.LeaseID]; t != nil {
			row.TenantName = t.FullName()
			tenantKey = t.ID.String()
		}
		delinquent[tenantKey] = true
		rows = append(rows, row)
		summary.TotalOverdue = summary.TotalOverdue.Add(balance)
		summary.Buckets[row.Bucket] = summary.Buckets[row.Bucket].Add(balance)
	}
	summary.DelinquentCount = len(delinquent)

	sort.Slice(rows, func(i, j int) bool { return rows[i].DaysOverdue > rows[j].DaysOverdue })
	return rows, summary, nil
}

func agingBucket(days int) string {
	switch {
	case days <= 30:
		return Bucket0to30
	case days <= 60:
		return Bucket31to60
	case days <= 90:
		return Bucket61to90
	default:
		return BucketOver90
	}
}

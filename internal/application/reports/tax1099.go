package reports

import (
	"context"
	"sort"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IRS reporting threshold for 1099-NEC, in dollars.
var tax1099Threshold = decimal.NewFromInt(600)

// Tax1099Row is one vendor at or above the reporting threshold.
type Tax1099Row struct {
	VendorID  uuid.UUID       `json:"vendor_id"`
	Name      string          `json:"name"`
	TaxID     string          `json:"tax_id"`
	Trade     string          `json:"trade"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	JobCount  int             `json:"job_count"`
}

// Tax1099Summary totals the report.
type Tax1099Summary struct {
	VendorCount int             `json:"vendor_count"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Threshold   decimal.Decimal `json:"threshold"`
}

// Tax1099 lists vendors paid at least $600 of completed maintenance work
// resolved inside the period (typically the tax year).
func Tax1099(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	reqs, err := store.MaintenanceRequests(ctx, orgID, f.PropertyID, MaintenanceQuery{
		Statuses: []string{domain.MaintenanceCompleted},
	})
	if err != nil {
		return nil, nil, err
	}
	vendors, err := store.Vendors(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}

	paidByVendor := make(map[uuid.UUID]decimal.Decimal)
	jobsByVendor := make(map[uuid.UUID]int)
	for i := range reqs {
		r := &reqs[i]
		if r.VendorID == nil || r.ActualCost == nil || r.ResolvedAt == nil || !f.Range.Contains(*r.ResolvedAt) {
			continue
		}
		paidByVendor[*r.VendorID] = paidByVendor[*r.VendorID].Add(*r.ActualCost)
		jobsByVendor[*r.VendorID]++
	}

	rows := make([]Tax1099Row, 0)
	summary := Tax1099Summary{TotalPaid: decimal.Zero, Threshold: tax1099Threshold}
	for i := range vendors {
		v := &vendors[i]
		paid, ok := paidByVendor[v.ID]
		if !ok || paid.LessThan(tax1099Threshold) {
			continue
		}
		rows = append(rows, Tax1099Row{
			VendorID:  v.ID,
			Name:      v.Name,
			TaxID:     v.TaxID,
			Trade:     v.Trade,
			TotalPaid: paid,
			JobCount:  jobsByVendor[v.ID],
		})
		summary.TotalPaid = summary.TotalPaid.Add(paid)
	}
	summary.VendorCount = len(rows)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, summary, nil
}

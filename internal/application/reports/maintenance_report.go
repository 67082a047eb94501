package reports

import (
	"context"
	"math"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
)

// MaintenanceData groups request counts three ways.
type MaintenanceData struct {
	ByStatus   map[string]int `json:"by_status"`
	ByCategory map[string]int `json:"by_category"`
	ByProperty map[string]int `json:"by_property"`
}

// MaintenanceSummary totals the maintenance report. Average completion time
// covers COMPLETED requests only, rounded to a tenth of an hour.
type MaintenanceSummary struct {
	TotalRequests          int     `json:"total_requests"`
	CompletedRequests      int     `json:"completed_requests"`
	AverageCompletionHours float64 `json:"average_completion_hours"`
}

// Maintenance groups requests created in the range by status, category and
// property, and averages completion time over resolved requests.
func Maintenance(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	from, to := f.Range.Start, f.Range.EndExclusive()
	reqs, err := store.MaintenanceRequests(ctx, orgID, f.PropertyID, MaintenanceQuery{
		CreatedFrom: &from,
		CreatedTo:   &to,
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

	data := MaintenanceData{
		ByStatus:   map[string]int{},
		ByCategory: map[string]int{},
		ByProperty: map[string]int{},
	}
	summary := MaintenanceSummary{}
	var completedHours float64
	for i := range reqs {
		r := &reqs[i]
		data.ByStatus[r.Status]++
		data.ByCategory[r.Category]++
		propName := unknownProperty
		if u, ok := unitsByID[r.UnitID]; ok {
			if name, ok := propNames[u.PropertyID]; ok {
				propName = name
			}
		}
		data.ByProperty[propName]++

		if r.Status == domain.MaintenanceCompleted && r.ResolvedAt != nil {
			summary.CompletedRequests++
			completedHours += r.ResolvedAt.Sub(r.CreatedAt).Hours()
		}
	}
	summary.TotalRequests = len(reqs)
	if summary.CompletedRequests > 0 {
		avg := completedHours / float64(summary.CompletedRequests)
		summary.AverageCompletionHours = math.Round(avg*10) / 10
	}
	return data, summary, nil
}

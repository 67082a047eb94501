package reports

import (
	"context"
	"testing"
	"time"

	"keystone-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMaintenance(t *testing.T, s *Store, fx fixture, status string, created time.Time, resolved *time.Time) domain.MaintenanceRequest {
	t.Helper()
	req := domain.MaintenanceRequest{
		UnitID:      fx.Unit.ID,
		Category:    "PLUMBING",
		Priority:    domain.PriorityMedium,
		Status:      status,
		Description: "leak under sink",
		ResolvedAt:  resolved,
	}
	require.NoError(t, s.DB.Create(&req).Error)
	// CreatedAt is set by gorm on insert; pin it explicitly for the average.
	require.NoError(t, s.DB.Model(&req).UpdateColumn("created_at", created).Error)
	req.CreatedAt = created
	return req
}

func TestMaintenanceAveragesCompletedOnly(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	r1 := now.AddDate(0, 0, -10).Add(24 * time.Hour)
	r2 := now.AddDate(0, 0, -5).Add(48 * time.Hour)
	seedMaintenance(t, s, fx, domain.MaintenanceCompleted, now.AddDate(0, 0, -10), &r1)
	seedMaintenance(t, s, fx, domain.MaintenanceCompleted, now.AddDate(0, 0, -5), &r2)
	seedMaintenance(t, s, fx, domain.MaintenanceOpen, now.AddDate(0, 0, -3), nil)

	f := defaultFilters(now)
	f.Now = now
	data, summary, err := Maintenance(context.Background(), s, fx.OrgID, f)
	require.NoError(t, err)

	d := data.(MaintenanceData)
	assert.Equal(t, 2, d.ByStatus[domain.MaintenanceCompleted])
	assert.Equal(t, 1, d.ByStatus[domain.MaintenanceOpen])
	assert.Equal(t, 3, d.ByCategory["PLUMBING"])
	assert.Equal(t, 3, d.ByProperty["Maple Court"])

	sum := summary.(MaintenanceSummary)
	assert.Equal(t, 3, sum.TotalRequests)
	assert.Equal(t, 2, sum.CompletedRequests)
	assert.Equal(t, 36.0, sum.AverageCompletionHours)
}

func TestMaintenanceRangeExcludesOlderRequests(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	// Created before the year-to-date window.
	seedMaintenance(t, s, fx, domain.MaintenanceOpen, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), nil)

	f := defaultFilters(now)
	f.Now = now
	_, summary, err := Maintenance(context.Background(), s, fx.OrgID, f)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.(MaintenanceSummary).TotalRequests)
}

package reports

import (
	"context"
	"testing"
	"time"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVacancyExcludesOccupiedUnits(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s) // unit is OCCUPIED

	vacant := domain.Unit{
		PropertyID: fx.Property.ID,
		UnitNumber: "2B",
		MarketRent: decimal.NewFromInt(1200),
		Status:     domain.UnitVacant,
		IsListed:   true,
	}
	require.NoError(t, s.DB.Create(&vacant).Error)
	notice := domain.Unit{
		PropertyID: fx.Property.ID,
		UnitNumber: "3C",
		MarketRent: decimal.NewFromInt(900),
		Status:     domain.UnitNoticeGiven,
	}
	require.NoError(t, s.DB.Create(&notice).Error)

	data, summary, err := Vacancy(context.Background(), s, fx.OrgID, defaultFilters(time.Now().UTC()))
	require.NoError(t, err)

	rows := data.([]VacancyRow)
	assert.Len(t, rows, 2)
	for _, r := range rows {
		assert.NotEqual(t, domain.UnitOccupied, r.Status)
	}

	sum := summary.(VacancySummary)
	assert.Equal(t, 2, sum.VacantUnits)
	assert.Equal(t, 1, sum.ListedUnits)
	assert.True(t, sum.PotentialRentLost.Equal(decimal.NewFromInt(2100)))
}

func TestVacancyDaysVacantNilWithoutLeaseHistory(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	vacant := domain.Unit{
		PropertyID: fx.Property.ID,
		UnitNumber: "4D",
		MarketRent: decimal.NewFromInt(1000),
		Status:     domain.UnitVacant,
	}
	require.NoError(t, s.DB.Create(&vacant).Error)

	data, _, err := Vacancy(context.Background(), s, fx.OrgID, defaultFilters(time.Now().UTC()))
	require.NoError(t, err)
	rows := data.([]VacancyRow)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].DaysVacant)
}

func TestVacancyCountsDaysFromLeaseEnd(t *testing.T) {
	s := newTestStore(t)
	fx := seedLease(t, s)
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	vacated := domain.Unit{
		PropertyID: fx.Property.ID,
		UnitNumber: "6F",
		MarketRent: decimal.NewFromInt(1400),
		Status:     domain.UnitVacant,
	}
	require.NoError(t, s.DB.Create(&vacated).Error)
	ended := domain.Lease{
		UnitID:     vacated.ID,
		Status:     domain.LeaseActive,
		StartDate:  now.AddDate(-1, 0, 0),
		EndDate:    now.AddDate(0, 0, -10),
		RentAmount: decimal.NewFromInt(1400),
		RentDueDay: 1,
	}
	require.NoError(t, s.DB.Create(&ended).Error)

	data, _, err := Vacancy(context.Background(), s, fx.OrgID, defaultFilters(now))
	require.NoError(t, err)
	rows := data.([]VacancyRow)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].DaysVacant)
	assert.Equal(t, 10, *rows[0].DaysVacant)
}

func TestVacancyEmptyPortfolio(t *testing.T) {
	s := newTestStore(t)
	data, summary, err := Vacancy(context.Background(), s, uuid.New(), defaultFilters(time.Now().UTC()))
	require.NoError(t, err)
	assert.Empty(t, data.([]VacancyRow))
	sum := summary.(VacancySummary)
	assert.Equal(t, 0, sum.VacantUnits)
	assert.True(t, sum.PotentialRentLost.IsZero())
}

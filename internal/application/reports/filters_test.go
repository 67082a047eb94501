package reports

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 8, 15, 14, 30, 0, 0, time.UTC)

func TestResolvePeriodDefaultsToYearToDate(t *testing.T) {
	rng, err := ResolvePeriod(testNow, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), rng.End)
}

func TestResolvePeriodMonthToDate(t *testing.T) {
	rng, err := ResolvePeriod(testNow, PeriodMonthToDate, "", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), rng.End)
}

func TestResolvePeriodLastMonth(t *testing.T) {
	rng, err := ResolvePeriod(testNow, PeriodLastMonth, "", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC), rng.End)
}

func TestResolvePeriodLastQuarter(t *testing.T) {
	// August is in Q3; last quarter is Apr 1 - Jun 30.
	rng, err := ResolvePeriod(testNow, PeriodLastQuarter, "", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), rng.End)
}

func TestResolvePeriodLastYear(t *testing.T) {
	rng, err := ResolvePeriod(testNow, PeriodLastYear, "", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), rng.End)
}

func TestResolvePeriodExplicitBoundsOverrideKeyword(t *testing.T) {
	rng, err := ResolvePeriod(testNow, PeriodLastYear, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), rng.End)
}

func TestResolvePeriodCustomRequiresBounds(t *testing.T) {
	_, err := ResolvePeriod(testNow, PeriodCustom, "", "")
	assert.ErrorIs(t, err, ErrCustomRangeBounds)

	rng, err := ResolvePeriod(testNow, PeriodCustom, "2025-01-10", "2025-02-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), rng.Start)
}

func TestResolvePeriodUnknownKeyword(t *testing.T) {
	_, err := ResolvePeriod(testNow, "fortnight", "", "")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestResolvePeriodDeterministicForFixedNow(t *testing.T) {
	a, err := ResolvePeriod(testNow, PeriodYearToDate, "", "")
	require.NoError(t, err)
	b, err := ResolvePeriod(testNow.Add(3*time.Hour), PeriodYearToDate, "", "")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestResolveFiltersDefaults(t *testing.T) {
	f, err := ResolveFilters(testNow, "", "", "", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, PeriodYearToDate, f.Period)
	assert.Equal(t, MethodCash, f.AccountingMethod)
	assert.Equal(t, "none", f.GroupBy)
	assert.Nil(t, f.PropertyID)
}

func TestResolveFiltersRejectsBadInputs(t *testing.T) {
	_, err := ResolveFilters(testNow, "", "", "", "double-entry", "", "")
	assert.Error(t, err)

	_, err = ResolveFilters(testNow, "", "", "", "", "", "not-a-uuid")
	assert.Error(t, err)
}

func TestDateRangeEndExclusive(t *testing.T) {
	rng := DateRange{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), rng.EndExclusive())
	assert.True(t, rng.Contains(time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, rng.Contains(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDateRangeMarshalsPlainDates(t *testing.T) {
	rng := DateRange{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(rng)
	require.NoError(t, err)
	assert.JSONEq(t, `{"startDate":"2025-01-01","endDate":"2025-08-15"}`, string(b))
}

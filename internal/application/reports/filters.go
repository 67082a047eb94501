package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Period keywords accepted by the resolver.
const (
	PeriodYearToDate  = "year-to-date"
	PeriodMonthToDate = "month-to-date"
	PeriodLastMonth   = "last-month"
	PeriodLastQuarter = "last-quarter"
	PeriodLastYear    = "last-year"
	PeriodCustom      = "custom"
)

// Accounting methods. Cash recognizes income when money moves (payment
// received date); accrual when it is incurred (charge due date).
const (
	MethodCash    = "cash"
	MethodAccrual = "accrual"
)

var (
	ErrCustomRangeBounds = errors.New("custom period requires startDate and endDate")
	ErrInvalidPeriod     = errors.New("Invalid period")
)

// DateRange is an inclusive day range, both bounds at midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// EndExclusive is the upper bound for query predicates (< next midnight).
func (r DateRange) EndExclusive() time.Time {
	return r.End.AddDate(0, 0, 1)
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.EndExclusive())
}

// MarshalJSON serializes both bounds as plain dates.
func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"startDate": r.Start.Format("2006-01-02"),
		"endDate":   r.End.Format("2006-01-02"),
	})
}

// Filters is the engine input shared by every calculator.
type Filters struct {
	Period           string
	Range            DateRange
	AccountingMethod string
	GroupBy          string
	PropertyID       *uuid.UUID
	Now              time.Time
}

// ResolvePeriod converts a period keyword into a concrete date range, in UTC,
// relative to now. Explicit bounds (when both parse) override the keyword.
// Deterministic for a fixed now: bounds are whole days, never wall-clock times.
func ResolvePeriod(now time.Time, period, startDate, endDate string) (DateRange, error) {
	today := startOfDayUTC(now)

	start, startOK := parseDate(startDate)
	end, endOK := parseDate(endDate)
	if startOK && endOK {
		return DateRange{Start: start, End: end}, nil
	}

	switch period {
	case "", PeriodYearToDate:
		return DateRange{Start: time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC), End: today}, nil
	case PeriodMonthToDate:
		return DateRange{Start: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), End: today}, nil
	case PeriodLastMonth:
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		firstOfLast := firstOfThis.AddDate(0, -1, 0)
		return DateRange{Start: firstOfLast, End: firstOfThis.AddDate(0, 0, -1)}, nil
	case PeriodLastQuarter:
		qStart := time.Date(today.Year(), firstMonthOfQuarter(today.Month()), 1, 0, 0, 0, 0, time.UTC)
		prevStart := qStart.AddDate(0, -3, 0)
		return DateRange{Start: prevStart, End: qStart.AddDate(0, 0, -1)}, nil
	case PeriodLastYear:
		return DateRange{
			Start: time.Date(today.Year()-1, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(today.Year()-1, 12, 31, 0, 0, 0, 0, time.UTC),
		}, nil
	case PeriodCustom:
		// No silent default range: custom means the caller names the bounds.
		return DateRange{}, ErrCustomRangeBounds
	default:
		return DateRange{}, fmt.Errorf("%w: %s", ErrInvalidPeriod, period)
	}
}

// ResolveFilters builds Filters from raw query parameters.
func ResolveFilters(now time.Time, period, startDate, endDate, accountingMethod, groupBy, propertyID string) (Filters, error) {
	rng, err := ResolvePeriod(now, period, startDate, endDate)
	if err != nil {
		return Filters{}, err
	}
	if period == "" {
		period = PeriodYearToDate
	}
	switch accountingMethod {
	case "":
		accountingMethod = MethodCash
	case MethodCash, MethodAccrual:
	default:
		return Filters{}, fmt.Errorf("invalid accountingMethod: %s", accountingMethod)
	}
	if groupBy == "" {
		groupBy = "none"
	}
	f := Filters{
		Period:           period,
		Range:            rng,
		AccountingMethod: accountingMethod,
		GroupBy:          groupBy,
		Now:              now.UTC(),
	}
	if propertyID != "" {
		id, err := uuid.Parse(propertyID)
		if err != nil {
			return Filters{}, fmt.Errorf("invalid propertyId: %s", propertyID)
		}
		f.PropertyID = &id
	}
	return f, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstMonthOfQuarter(m time.Month) time.Month {
	return time.Month(((int(m)-1)/3)*3 + 1)
}

// monthKey buckets a time into its YYYY-MM label.
func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

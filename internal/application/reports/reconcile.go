package reports

import (
	"time"

	"keystone-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Allocated sums the payment allocations recorded against a charge.
func Allocated(ch *domain.Charge) decimal.Decimal {
	total := decimal.Zero
	for i := range ch.Allocations {
		total = total.Add(ch.Allocations[i].Amount)
	}
	return total
}

// Balance is what is still owed on a charge: face amount minus allocations.
// Over-allocated charges yield a negative balance; callers decide whether
// that is a credit or a data problem, the reconciler never raises.
func Balance(ch *domain.Charge) decimal.Decimal {
	return ch.Amount.Sub(Allocated(ch))
}

// DaysOverdue counts whole days between dueDate and now, clamped to >= 0.
func DaysOverdue(now, dueDate time.Time) int {
	return daysBetween(dueDate, now)
}

// DaysSince counts whole days elapsed since t, clamped to >= 0. Used for
// vacancy day counts against lease end dates.
func DaysSince(now, t time.Time) int {
	return daysBetween(t, now)
}

func daysBetween(from, to time.Time) int {
	d := int(to.Sub(from).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

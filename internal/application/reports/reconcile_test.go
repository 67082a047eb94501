package reports

import (
	"testing"
	"time"

	"keystone-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBalanceDerivedFromAllocations(t *testing.T) {
	ch := &domain.Charge{
		Amount: decimal.NewFromInt(1500),
		Allocations: []domain.PaymentAllocation{
			{Amount: decimal.NewFromInt(500)},
			{Amount: decimal.NewFromInt(250)},
		},
	}
	assert.True(t, Allocated(ch).Equal(decimal.NewFromInt(750)))
	assert.True(t, Balance(ch).Equal(decimal.NewFromInt(750)))
}

func TestBalanceWithNoAllocations(t *testing.T) {
	ch := &domain.Charge{Amount: decimal.NewFromInt(1200)}
	assert.True(t, Balance(ch).Equal(decimal.NewFromInt(1200)))
}

func TestBalanceOverAllocatedGoesNegative(t *testing.T) {
	ch := &domain.Charge{
		Amount:      decimal.NewFromInt(100),
		Allocations: []domain.PaymentAllocation{{Amount: decimal.NewFromInt(150)}},
	}
	assert.True(t, Balance(ch).Equal(decimal.NewFromInt(-50)))
}

func TestDaysOverdueClampsToZero(t *testing.T) {
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysOverdue(now, now.AddDate(0, 0, 5)))
	assert.Equal(t, 10, DaysOverdue(now, now.AddDate(0, 0, -10)))
	assert.Equal(t, 0, DaysOverdue(now, now))
}

package reports

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Residential rental property depreciates straight-line over 27.5 years
// (IRS MACRS GDS). Land never depreciates.
var residentialRecoveryYears = decimal.NewFromFloat(27.5)

// DepreciationRow is one property's schedule position.
type DepreciationRow struct {
	PropertyID       uuid.UUID       `json:"property_id"`
	PropertyName     string          `json:"property_name"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	LandValue        decimal.Decimal `json:"land_value"`
	DepreciableBasis decimal.Decimal `json:"depreciable_basis"`
	AnnualAmount     decimal.Decimal `json:"annual_amount"`
	YearsInService   int             `json:"years_in_service"`
	Accumulated      decimal.Decimal `json:"accumulated"`
	RemainingBasis   decimal.Decimal `json:"remaining_basis"`
}

// DepreciationSummary totals the schedule.
type DepreciationSummary struct {
	PropertyCount    int             `json:"property_count"`
	TotalAnnual      decimal.Decimal `json:"total_annual"`
	TotalAccumulated decimal.Decimal `json:"total_accumulated"`
}

// Depreciation builds the straight-line schedule for every property with a
// recorded purchase price and date.
func Depreciation(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	props, err := store.Properties(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]DepreciationRow, 0, len(props))
	summary := DepreciationSummary{
		TotalAnnual:      decimal.Zero,
		TotalAccumulated: decimal.Zero,
	}
	for i := range props {
		p := &props[i]
		if p.PurchaseDate == nil || !p.PurchasePrice.IsPositive() {
			continue
		}
		basis := p.PurchasePrice.Sub(p.LandValue)
		if !basis.IsPositive() {
			continue
		}
		annual := basis.Div(residentialRecoveryYears).Round(2)
		years := yearsInService(*p.PurchaseDate, f.Now)
		accumulated := annual.Mul(decimal.NewFromInt(int64(years)))
		if accumulated.GreaterThan(basis) {
			accumulated = basis
		}
		rows = append(rows, DepreciationRow{
			PropertyID:       p.ID,
			PropertyName:     p.Name,
			PurchasePrice:    p.PurchasePrice,
			LandValue:        p.LandValue,
			DepreciableBasis: basis,
			AnnualAmount:     annual,
			YearsInService:   years,
			Accumulated:      accumulated,
			RemainingBasis:   basis.Sub(accumulated),
		})
		summary.TotalAnnual = summary.TotalAnnual.Add(annual)
		summary.TotalAccumulated = summary.TotalAccumulated.Add(accumulated)
	}
	summary.PropertyCount = len(rows)
	sort.Slice(rows, func(i, j int) bool { return rows[i].PropertyName < rows[j].PropertyName })
	return rows, summary, nil
}

// yearsInService counts whole years since the purchase date, clamped to >= 0.
func yearsInService(purchase, now time.Time) int {
	years := now.Year() - purchase.Year()
	anniversary := purchase.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

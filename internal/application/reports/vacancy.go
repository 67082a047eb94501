package reports

import (
	"context"
	"time"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VacancyRow is one non-occupied unit.
type VacancyRow struct {
	UnitID        uuid.UUID       `json:"unit_id"`
	PropertyName  string          `json:"property_name"`
	UnitNumber    string          `json:"unit_number"`
	Status        string          `json:"status"`
	MarketRent    decimal.Decimal `json:"market_rent"`
	IsListed      bool            `json:"is_listed"`
	AvailableDate *time.Time      `json:"available_date"`
	// DaysVacant is nil when the unit has never had an active lease end.
	DaysVacant *int `json:"days_vacant"`
}

// VacancySummary totals the vacancy report.
type VacancySummary struct {
	VacantUnits       int             `json:"vacant_units"`
	ListedUnits       int             `json:"listed_units"`
	PotentialRentLost decimal.Decimal `json:"potential_rent_lost"`
}

// Vacancy lists units not currently occupied, with days vacant counted from
// the end date of each unit's most recent ACTIVE lease.
func Vacancy(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (interface{}, interface{}, error) {
	units, err := store.Units(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	props, err := store.Properties(ctx, orgID, f.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	activeLeases, err := store.Leases(ctx, orgID, f.PropertyID, domain.LeaseActive)
	if err != nil {
		return nil, nil, err
	}

	propNames := propertyNameIndex(props)
	lastEndByUnit := make(map[uuid.UUID]time.Time)
	for i := range activeLeases {
		l := &activeLeases[i]
		if cur, ok := lastEndByUnit[l.UnitID]; !ok || l.EndDate.After(cur) {
			lastEndByUnit[l.UnitID] = l.EndDate
		}
	}

	rows := make([]VacancyRow, 0)
	summary := VacancySummary{PotentialRentLost: decimal.Zero}
	for i := range units {
		u := &units[i]
		switch u.Status {
		case domain.UnitVacant, domain.UnitNoticeGiven, domain.UnitUnderApplication:
		default:
			continue
		}
		row := VacancyRow{
			UnitID:        u.ID,
			PropertyName:  propNames[u.PropertyID],
			UnitNumber:    u.UnitNumber,
			Status:        u.Status,
			MarketRent:    u.MarketRent,
			IsListed:      u.IsListed,
			AvailableDate: u.AvailableDate,
		}
		if end, ok := lastEndByUnit[u.ID]; ok {
			days := DaysSince(f.Now, end)
			row.DaysVacant = &days
		}
		rows = append(rows, row)
		summary.PotentialRentLost = summary.PotentialRentLost.Add(u.MarketRent)
		if u.IsListed {
			summary.ListedUnits++
		}
	}
	summary.VacantUnits = len(rows)
	return rows, summary, nil
}

package properties

import (
	"context"
	"errors"
	"strings"
	"time"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// CreateUnitInput describes one unit created with a property.
type CreateUnitInput struct {
	UnitNumber string          `json:"unit_number"`
	Bedrooms   int             `json:"bedrooms"`
	Bathrooms  float64         `json:"bathrooms"`
	MarketRent decimal.Decimal `json:"market_rent"`
}

type CreatePropertyInput struct {
	Name          string            `json:"name"`
	Address       string            `json:"address"`
	City          string            `json:"city"`
	State         string            `json:"state"`
	ZipCode       string            `json:"zip_code"`
	PurchasePrice decimal.Decimal   `json:"purchase_price"`
	LandValue     decimal.Decimal   `json:"land_value"`
	PurchaseDate  *time.Time        `json:"purchase_date"`
	Units         []CreateUnitInput `json:"units"`
}

// CreateProperty creates a property and its units in one transaction.
func (s *Service) CreateProperty(ctx context.Context, orgID uuid.UUID, in CreatePropertyInput) (*domain.Property, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Organization not associated with user")
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Address) == "" {
		return nil, errors.New("name and address are required")
	}
	if in.PurchasePrice.IsNegative() || in.LandValue.IsNegative() {
		return nil, errors.New("purchase_price and land_value must not be negative")
	}
	if in.LandValue.GreaterThan(in.PurchasePrice) {
		return nil, errors.New("land_value cannot exceed purchase_price")
	}
	seen := make(map[string]bool, len(in.Units))
	for _, u := range in.Units {
		num := strings.TrimSpace(u.UnitNumber)
		if num == "" {
			return nil, errors.New("unit_number is required for every unit")
		}
		if seen[num] {
			return nil, errors.New("Duplicate unit_number: " + num)
		}
		seen[num] = true
	}

	prop := &domain.Property{
		OrgID:         orgID,
		Name:          strings.TrimSpace(in.Name),
		Address:       strings.TrimSpace(in.Address),
		City:          in.City,
		State:         in.State,
		ZipCode:       in.ZipCode,
		PurchasePrice: in.PurchasePrice,
		LandValue:     in.LandValue,
		PurchaseDate:  in.PurchaseDate,
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(prop).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, u := range in.Units {
		unit := &domain.Unit{
			PropertyID: prop.ID,
			UnitNumber: strings.TrimSpace(u.UnitNumber),
			Bedrooms:   u.Bedrooms,
			Bathrooms:  u.Bathrooms,
			MarketRent: u.MarketRent,
			Status:     domain.UnitVacant,
		}
		if err := tx.Create(unit).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return prop, nil
}

// PropertyWithUnits pairs a property with its units for listings.
type PropertyWithUnits struct {
	domain.Property
	Units []domain.Unit `json:"units"`
}

// ListProperties returns the org's properties with their units.
func (s *Service) ListProperties(ctx context.Context, orgID uuid.UUID) ([]PropertyWithUnits, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Organization not associated with user")
	}
	var props []domain.Property
	if err := s.DB.WithContext(ctx).Where("org_id = ?", orgID).Order("created_at ASC").Find(&props).Error; err != nil {
		return nil, err
	}
	out := make([]PropertyWithUnits, 0, len(props))
	for _, p := range props {
		var units []domain.Unit
		if err := s.DB.WithContext(ctx).Where("property_id = ?", p.ID).Order("unit_number ASC").Find(&units).Error; err != nil {
			return nil, err
		}
		out = append(out, PropertyWithUnits{Property: p, Units: units})
	}
	return out, nil
}

// GetProperty returns one org property with its units.
func (s *Service) GetProperty(ctx context.Context, orgID, propertyID uuid.UUID) (*PropertyWithUnits, error) {
	var prop domain.Property
	if err := s.DB.WithContext(ctx).Where("id = ? AND org_id = ?", propertyID, orgID).First(&prop).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Property not found")
		}
		return nil, err
	}
	var units []domain.Unit
	if err := s.DB.WithContext(ctx).Where("property_id = ?", prop.ID).Order("unit_number ASC").Find(&units).Error; err != nil {
		return nil, err
	}
	return &PropertyWithUnits{Property: prop, Units: units}, nil
}

// UpdateUnitInput carries listing fields a manager may change directly.
type UpdateUnitInput struct {
	Status        *string          `json:"status"`
	MarketRent    *decimal.Decimal `json:"market_rent"`
	IsListed      *bool            `json:"is_listed"`
	AvailableDate *time.Time       `json:"available_date"`
}

var validUnitStatuses = map[string]bool{
	domain.UnitVacant:           true,
	domain.UnitOccupied:         true,
	domain.UnitNoticeGiven:      true,
	domain.UnitUnderApplication: true,
}

// UpdateUnit updates unit listing fields after verifying org ownership.
func (s *Service) UpdateUnit(ctx context.Context, orgID, unitID uuid.UUID, in UpdateUnitInput) (*domain.Unit, error) {
	var unit domain.Unit
	err := s.DB.WithContext(ctx).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Units".id = ? AND "Properties".org_id = ?`, unitID, orgID).
		First(&unit).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Unit not found")
		}
		return nil, err
	}

	upd := map[string]interface{}{}
	if in.Status != nil {
		if !validUnitStatuses[*in.Status] {
			return nil, errors.New("Invalid unit status")
		}
		upd["status"] = *in.Status
	}
	if in.MarketRent != nil {
		if in.MarketRent.IsNegative() {
			return nil, errors.New("market_rent must not be negative")
		}
		upd["market_rent"] = *in.MarketRent
	}
	if in.IsListed != nil {
		upd["is_listed"] = *in.IsListed
	}
	if in.AvailableDate != nil {
		upd["available_date"] = *in.AvailableDate
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid fields to update")
	}
	if err := s.DB.WithContext(ctx).Model(&unit).Updates(upd).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

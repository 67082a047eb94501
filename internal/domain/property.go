package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Property is a building or portfolio entry owned by an org. Parent of Units.
// PurchasePrice/LandValue feed the depreciation schedule (land does not depreciate).
type Property struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID         uuid.UUID       `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	Address       string          `gorm:"column:address;not null" json:"address"`
	City          string          `gorm:"column:city" json:"city"`
	State         string          `gorm:"column:state" json:"state"`
	ZipCode       string          `gorm:"column:zip_code" json:"zip_code"`
	PurchasePrice decimal.Decimal `gorm:"column:purchase_price;type:decimal(14,2);not null;default:0" json:"purchase_price"`
	LandValue     decimal.Decimal `gorm:"column:land_value;type:decimal(14,2);not null;default:0" json:"land_value"`
	PurchaseDate  *time.Time      `gorm:"column:purchase_date" json:"purchase_date"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Property) TableName() string {
	return "Properties"
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Unit statuses drive vacancy/occupancy aggregates.
const (
	UnitVacant           = "VACANT"
	UnitOccupied         = "OCCUPIED"
	UnitNoticeGiven      = "NOTICE_GIVEN"
	UnitUnderApplication = "UNDER_APPLICATION"
)

// Unit is a rentable space inside a property.
type Unit struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PropertyID    uuid.UUID       `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	UnitNumber    string          `gorm:"column:unit_number;not null" json:"unit_number"`
	Bedrooms      int             `gorm:"column:bedrooms;not null;default:0" json:"bedrooms"`
	Bathrooms     float64         `gorm:"column:bathrooms;not null;default:0" json:"bathrooms"`
	MarketRent    decimal.Decimal `gorm:"column:market_rent;type:decimal(12,2);not null;default:0" json:"market_rent"`
	Status        string          `gorm:"column:status;type:varchar(20);not null;default:'VACANT'" json:"status"`
	IsListed      bool            `gorm:"column:is_listed;not null;default:false" json:"is_listed"`
	AvailableDate *time.Time      `gorm:"column:available_date" json:"available_date"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (Unit) TableName() string {
	return "Units"
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

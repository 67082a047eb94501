package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Maintenance request statuses.
const (
	MaintenanceOpen       = "OPEN"
	MaintenanceInProgress = "IN_PROGRESS"
	MaintenanceCompleted  = "COMPLETED"
	MaintenanceCancelled  = "CANCELLED"
)

// Maintenance priorities.
const (
	PriorityLow       = "LOW"
	PriorityMedium    = "MEDIUM"
	PriorityHigh      = "HIGH"
	PriorityEmergency = "EMERGENCY"
)

// MaintenanceRequest tracks repair work on a unit, optionally assigned to a vendor.
type MaintenanceRequest struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UnitID        uuid.UUID        `gorm:"column:unit_id;type:uuid;not null;index" json:"unit_id"`
	VendorID      *uuid.UUID       `gorm:"column:vendor_id;type:uuid;index" json:"vendor_id"`
	Category      string           `gorm:"column:category;not null;default:'GENERAL'" json:"category"`
	Priority      string           `gorm:"column:priority;type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	Status        string           `gorm:"column:status;type:varchar(20);not null;default:'OPEN'" json:"status"`
	Description   string           `gorm:"column:description" json:"description"`
	EstimatedCost *decimal.Decimal `gorm:"column:estimated_cost;type:decimal(12,2)" json:"estimated_cost"`
	ActualCost    *decimal.Decimal `gorm:"column:actual_cost;type:decimal(12,2)" json:"actual_cost"`
	ResolvedAt    *time.Time       `gorm:"column:resolved_at" json:"resolved_at"`
	CreatedAt     time.Time        `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func (MaintenanceRequest) TableName() string {
	return "MaintenanceRequests"
}

func (m *MaintenanceRequest) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Vendor performs maintenance work; TaxID feeds the 1099 report.
type Vendor struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID     uuid.UUID      `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Trade     string         `gorm:"column:trade" json:"trade"`
	Email     string         `gorm:"column:email" json:"email"`
	Phone     string         `gorm:"column:phone" json:"phone"`
	TaxID     string         `gorm:"column:tax_id" json:"tax_id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Vendor) TableName() string {
	return "Vendors"
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

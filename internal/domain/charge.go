package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Charge statuses.
const (
	ChargeDue       = "DUE"
	ChargePartial   = "PARTIAL"
	ChargePaid      = "PAID"
	ChargeCancelled = "CANCELLED"
)

// Charge types.
const (
	ChargeTypeRent    = "RENT"
	ChargeTypeLateFee = "LATE_FEE"
	ChargeTypeUtility = "UTILITY"
	ChargeTypeDeposit = "DEPOSIT"
	ChargeTypeOther   = "OTHER"
)

// Charge is a billable line item on a lease. What is still owed is always
// derived as amount minus the sum of its payment allocations, never stored.
type Charge struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LeaseID     uuid.UUID       `gorm:"column:lease_id;type:uuid;not null;index" json:"lease_id"`
	TenantID    *uuid.UUID      `gorm:"column:tenant_id;type:uuid;index" json:"tenant_id"`
	Type        string          `gorm:"column:type;type:varchar(20);not null;default:'RENT'" json:"type"`
	Description string          `gorm:"column:description" json:"description"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	DueDate     time.Time       `gorm:"column:due_date;not null;index" json:"due_date"`
	Status      string          `gorm:"column:status;type:varchar(20);not null;default:'DUE'" json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	Allocations []PaymentAllocation `gorm:"foreignKey:ChargeID" json:"allocations,omitempty"`
}

func (Charge) TableName() string {
	return "Charges"
}

func (ch *Charge) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment statuses.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentRefunded  = "REFUNDED"
	PaymentCancelled = "CANCELLED"
)

// Payment methods.
const (
	MethodCash   = "CASH"
	MethodCheck  = "CHECK"
	MethodACH    = "ACH"
	MethodCard   = "CARD"
	MethodStripe = "STRIPE"
)

// Payment is money received against a lease; allocations split it across charges.
// Stripe fields are set only for online rent payments recorded by the webhook.
type Payment struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LeaseID               uuid.UUID       `gorm:"column:lease_id;type:uuid;not null;index" json:"lease_id"`
	Amount                decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	Method                string          `gorm:"column:method;type:varchar(20);not null;default:'CHECK'" json:"method"`
	Status                string          `gorm:"column:status;type:varchar(20);not null;default:'PENDING'" json:"status"`
	ReceivedAt            time.Time       `gorm:"column:received_at;not null;index" json:"received_at"`
	StripePaymentIntentID *string         `gorm:"column:stripe_payment_intent_id;uniqueIndex" json:"stripe_payment_intent_id,omitempty"`
	StripeEventID         *string         `gorm:"column:stripe_event_id" json:"stripe_event_id,omitempty"`
	RawPaymentIntent      datatypes.JSON  `gorm:"column:raw_payment_intent;type:jsonb" json:"-"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`

	Allocations []PaymentAllocation `gorm:"foreignKey:PaymentID" json:"allocations,omitempty"`
}

func (Payment) TableName() string {
	return "Payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PaymentAllocation applies a slice of one payment to one charge. A charge can
// be satisfied by several allocations and one payment can cover several charges.
type PaymentAllocation struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PaymentID uuid.UUID       `gorm:"column:payment_id;type:uuid;not null;index" json:"payment_id"`
	ChargeID  uuid.UUID       `gorm:"column:charge_id;type:uuid;not null;index" json:"charge_id"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (PaymentAllocation) TableName() string {
	return "PaymentAllocations"
}

func (pa *PaymentAllocation) BeforeCreate(tx *gorm.DB) error {
	if pa.ID == uuid.Nil {
		pa.ID = uuid.New()
	}
	return nil
}

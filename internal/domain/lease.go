package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Lease statuses.
const (
	LeaseActive     = "ACTIVE"
	LeaseExpired    = "EXPIRED"
	LeaseTerminated = "TERMINATED"
	LeasePending    = "PENDING"
)

// LeaseTenant roles.
const (
	RolePrimary  = "PRIMARY"
	RoleCoTenant = "CO_TENANT"
)

// Lease binds tenants to a unit for a term. Org scope is derived through
// Unit -> Property, never trusted from the client.
type Lease struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UnitID          uuid.UUID       `gorm:"column:unit_id;type:uuid;not null;index" json:"unit_id"`
	Status          string          `gorm:"column:status;type:varchar(20);not null;default:'PENDING'" json:"status"`
	StartDate       time.Time       `gorm:"column:start_date;not null" json:"start_date"`
	EndDate         time.Time       `gorm:"column:end_date;not null" json:"end_date"`
	RentAmount      decimal.Decimal `gorm:"column:rent_amount;type:decimal(12,2);not null" json:"rent_amount"`
	SecurityDeposit decimal.Decimal `gorm:"column:security_deposit;type:decimal(12,2);not null;default:0" json:"security_deposit"`
	RentDueDay      int             `gorm:"column:rent_due_day;not null;default:1" json:"rent_due_day"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	Unit         *Unit         `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	LeaseTenants []LeaseTenant `gorm:"foreignKey:LeaseID" json:"lease_tenants,omitempty"`
	Charges      []Charge      `gorm:"foreignKey:LeaseID" json:"charges,omitempty"`
}

func (Lease) TableName() string {
	return "Leases"
}

func (l *Lease) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// PrimaryTenant returns the tenant with role PRIMARY, or nil when absent.
// Callers must render the absent case as "Unknown", not dereference.
func (l *Lease) PrimaryTenant() *Tenant {
	for i := range l.LeaseTenants {
		if l.LeaseTenants[i].Role == RolePrimary {
			return l.LeaseTenants[i].Tenant
		}
	}
	return nil
}

// LeaseTenant joins a tenant to a lease with a role.
type LeaseTenant struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LeaseID  uuid.UUID `gorm:"column:lease_id;type:uuid;not null;index" json:"lease_id"`
	TenantID uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenant_id"`
	Role     string    `gorm:"column:role;type:varchar(20);not null;default:'PRIMARY'" json:"role"`

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

func (LeaseTenant) TableName() string {
	return "LeaseTenants"
}

func (lt *LeaseTenant) BeforeCreate(tx *gorm.DB) error {
	if lt.ID == uuid.Nil {
		lt.ID = uuid.New()
	}
	return nil
}

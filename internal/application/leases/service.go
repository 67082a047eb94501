package leases

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

// LeaseTenantInput names one tenant on a new lease.
type LeaseTenantInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

type CreateLeaseInput struct {
	UnitID          uuid.UUID          `json:"unit_id"`
	StartDate       time.Time          `json:"start_date"`
	EndDate         time.Time          `json:"end_date"`
	RentAmount      decimal.Decimal    `json:"rent_amount"`
	SecurityDeposit decimal.Decimal    `json:"security_deposit"`
	RentDueDay      int                `json:"rent_due_day"`
	Tenants         []LeaseTenantInput `json:"tenants"`
}

// CreateLease creates an ACTIVE lease with its tenants, marks the unit
// OCCUPIED and posts the deposit charge, all in one transaction.
func (s *Service) CreateLease(ctx context.Context, orgID uuid.UUID, in CreateLeaseInput) (*domain.Lease, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Organization not associated with user")
	}
	if in.UnitID == uuid.Nil {
		return nil, errors.New("unit_id is required")
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, errors.New("end_date must be after start_date")
	}
	if !in.RentAmount.IsPositive() {
		return nil, errors.New("rent_amount must be positive")
	}
	if in.SecurityDeposit.IsNegative() {
		return nil, errors.New("security_deposit must not be negative")
	}
	if in.RentDueDay < 1 || in.RentDueDay > 28 {
		return nil, errors.New("rent_due_day must be between 1 and 28")
	}
	if len(in.Tenants) == 0 {
		return nil, errors.New("At least one tenant is required")
	}
	primaries := 0
	for _, t := range in.Tenants {
		if strings.TrimSpace(t.FirstName) == "" && strings.TrimSpace(t.LastName) == "" {
			return nil, errors.New("Tenant name is required")
		}
		if t.Role == "" || t.Role == domain.RolePrimary {
			primaries++
		} else if t.Role != domain.RoleCoTenant {
			return nil, errors.New("Invalid tenant role")
		}
	}
	if primaries != 1 {
		return nil, errors.New("Exactly one primary tenant is required")
	}

	// Verify the unit belongs to the org and is rentable.
	var unit domain.Unit
	err := s.DB.WithContext(ctx).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Units".id = ? AND "Properties".org_id = ?`, in.UnitID, orgID).
		First(&unit).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Unit not found")
		}
		return nil, err
	}
	var active int64
	if err := s.DB.WithContext(ctx).Model(&domain.Lease{}).
		Where("unit_id = ? AND status = ?", in.UnitID, domain.LeaseActive).
		Count(&active).Error; err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, errors.New("Unit already has an active lease")
	}

	lease := &domain.Lease{
		UnitID:          in.UnitID,
		Status:          domain.LeaseActive,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		RentAmount:      in.RentAmount,
		SecurityDeposit: in.SecurityDeposit,
		RentDueDay:      in.RentDueDay,
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(lease).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, t := range in.Tenants {
		tenant := &domain.Tenant{
			OrgID:     orgID,
			FirstName: strings.TrimSpace(t.FirstName),
			LastName:  strings.TrimSpace(t.LastName),
			Email:     strings.TrimSpace(strings.ToLower(t.Email)),
			Phone:     t.Phone,
			IsActive:  true,
		}
		if err := tx.Create(tenant).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		role := t.Role
		if role == "" {
			role = domain.RolePrimary
		}
		if err := tx.Create(&domain.LeaseTenant{
			LeaseID:  lease.ID,
			TenantID: tenant.ID,
			Role:     role,
		}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if in.SecurityDeposit.IsPositive() {
		if err := tx.Create(&domain.Charge{
			LeaseID:     lease.ID,
			Type:        domain.ChargeTypeDeposit,
			Description: "Security deposit",
			Amount:      in.SecurityDeposit,
			DueDate:     in.StartDate,
			Status:      domain.ChargeDue,
		}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Model(&domain.Unit{}).Where("id = ?", in.UnitID).
		Updates(map[string]interface{}{"status": domain.UnitOccupied, "is_listed": false}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	var out domain.Lease
	if err := s.DB.WithContext(ctx).
		Preload("Unit").
		Preload("LeaseTenants.Tenant").
		Where("id = ?", lease.ID).First(&out).Error; err != nil {
		return lease, nil
	}
	return &out, nil
}

// ListLeases returns org leases, optionally filtered by status.
func (s *Service) ListLeases(ctx context.Context, orgID uuid.UUID, status string) ([]domain.Lease, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Organization not associated with user")
	}
	q := s.DB.WithContext(ctx).Model(&domain.Lease{}).
		Joins(`JOIN "Units" ON "Units".id = "Leases".unit_id`).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Properties".org_id = ?`, orgID).
		Preload("Unit").
		Preload("LeaseTenants.Tenant").
		Order(`"Leases".start_date DESC`)
	if status != "" {
		q = q.Where(`"Leases".status = ?`, status)
	}
	var out []domain.Lease
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetLease returns one org lease with relations.
func (s *Service) GetLease(ctx context.Context, orgID, leaseID uuid.UUID) (*domain.Lease, error) {
	var lease domain.Lease
	err := s.DB.WithContext(ctx).
		Joins(`JOIN "Units" ON "Units".id = "Leases".unit_id`).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Leases".id = ? AND "Properties".org_id = ?`, leaseID, orgID).
		Preload("Unit").
		Preload("LeaseTenants.Tenant").
		Preload("Charges").
		First(&lease).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Lease not found")
		}
		return nil, err
	}
	return &lease, nil
}

// TerminateLease ends an active lease and frees the unit.
func (s *Service) TerminateLease(ctx context.Context, orgID, leaseID uuid.UUID) (*domain.Lease, error) {
	lease, err := s.GetLease(ctx, orgID, leaseID)
	if err != nil {
		return nil, err
	}
	if lease.Status != domain.LeaseActive {
		return nil, errors.New("Only active leases can be terminated")
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Model(&domain.Lease{}).Where("id = ?", lease.ID).
		Update("status", domain.LeaseTerminated).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Model(&domain.Unit{}).Where("id = ?", lease.UnitID).
		Update("status", domain.UnitVacant).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	lease.Status = domain.LeaseTerminated
	return lease, nil
}

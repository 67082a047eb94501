package reports

import (
	"context"
	"time"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the read-only data access layer for the reporting engine. Every
// fetcher takes the same (orgID, propertyID) scoping pair; property scoping
// always joins through the Properties table so an id collision across orgs can
// never widen scope. The engine never writes through this store.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Properties(ctx context.Context, orgID uuid.UUID, propertyID *uuid.UUID) ([]domain.Property, error) {
	q := s.DB.WithContext(ctx).Where("org_id = ?", orgID)
	if propertyID != nil {
		q = q.Where("id = ?", *propertyID)
	}
	var props []domain.Property
	if err := q.Find(&props).Error; err != nil {
		return nil, err
	}
	return props, nil
}

func (s *Store) Units(ctx context.Context, orgID uuid.UUID, propertyID *uuid.UUID) ([]domain.Unit, error) {
	q := s.unitScope(ctx, orgID, propertyID)
	var units []domain.Unit
	if err := q.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Leases returns leases in the given statuses (all statuses when empty), with
// unit and tenants preloaded. Scope runs Lease -> Unit -> Property -> org.
func (s *Store) Leases(ctx context.Context, orgID uuid.UUID, propertyID *uuid.UUID, statuses ...string) ([]domain.Lease, error) {
	q := s.leaseScope(ctx, orgID, propertyID)
	if len(statuses) > 0 {
		q = q.Where(`"Leases".status IN ?`, statuses)
	}
	var leases []domain.Lease
	if err := q.Preload("Unit").Preload("LeaseTenants.Tenant").Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

// ChargeQuery narrows the charge fetch. Zero value means all org charges.
type ChargeQuery struct {
	Statuses []string
	DueFrom  *time.Time
	DueTo    *time.Time // exclusive
	TenantID *uuid.UUID
	IDs      []uuid.UUID
}

func (s *Store) Charges(ctx context.Context, orgID uuid.UUID, propertyID *uuid.UUID, cq ChargeQuery) ([]domain.Charge, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Charge{}).
		Joins(`JOIN "Leases" ON "Leases".id = "Charges".lease_id`).
		Joins(`JOIN "Units" ON "Units".id = "Leases".unit_id`).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Properties".org_id = ?`, orgID)
	if propertyID != nil {
		q = q.Where(`"Properties".id = ?`, *propertyID)
	}
	if len(cq.Statuses) > 0 {
		q = q.Where(`"Charges".status IN ?`, cq.Statuses)
	}
	if cq.DueFrom != nil {
		q = q.Where(`"Charges".due_date >= ?`, *cq.DueFrom)
	}
	if cq.DueTo != nil {
		q = q.Where(`"Charges".due_date < ?`, *cq.DueTo)
	}
	if cq.TenantID != nil {
		q = q.Where(`"Charges".tenant_id = ?`, *cq.TenantID)
	}
	if len(cq.IDs) > 0 {
		q = q.Where(`"Charges".id IN ?`, cq.IDs)
	}
	var charges []domain.Charge
	if err := q.Preload("Allocations").Find(&charges).Error; err != nil {
		return nil, err
	}
	return charges, nil
}

// PaymentQuery narrows the payment fetch. Zero value means all org payments.
type PaymentQuery struct {
	Statuses     []string
	ReceivedFrom *time.Time
	ReceivedTo   *time.Time // exclusive
	LeaseID      *uuid.UUID
}

func (s *Store) Payments(ctx context.Context, orgID uuid.UUID, propertyID *uuid.UUID, pq PaymentQuery) ([]domain.Payment, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Payment{}).
		Joins(`JOIN "Leases" ON "Leases".id = "Payments".lease_id`).
		Joins(`JOIN "Units" ON "Units".id = "Leases".unit_id`).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Properties".org_id = ?`, orgID)
	if propertyID != nil {
		q = q.Where(`"Properties".id = ?`, *propertyID)
	}
	if len(pq.Statuses) > 0 {
		q = q.Where(`"Payments".status IN ?`, pq.Statuses)
	}
	if pq.ReceivedFrom != nil {
		q = q.Where(`"Payments".received_at >= ?`, *pq.ReceivedFrom)
	}
	if pq.ReceivedTo != nil {
		q = q.Where(`"Payments".received_at < ?`, *pq.ReceivedTo)
	}
	if pq.LeaseID != nil {
		q = q.Where(`"Payments".lease_id = ?`, *pq.LeaseID)
	}
	var payments []domain.Payment
	if err := q.Preload("Allocations").Order(`"Payments".received_at ASC`).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// MaintenanceQuery narrows the maintenance fetch.
type MaintenanceQuery struct {
	Statuses    []string
	CreatedFrom *time.Time
	CreatedTo   *time.Time // exclusive
}

func (s *Store) MaintenanceRequests(ctx context.Context, orgID uuid.UUID, propertyID *uuid.UUID, mq MaintenanceQuery) ([]domain.MaintenanceRequest, error) {
	q := s.DB.WithContext(ctx).Model(&domain.MaintenanceRequest{}).
		Joins(`JOIN "Units" ON "Units".id = "MaintenanceRequests".unit_id`).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Properties".org_id = ?`, orgID)
	if propertyID != nil {
		q = q.Where(`"Properties".id = ?`, *propertyID)
	}
	if len(mq.Statuses) > 0 {
		q = q.Where(`"MaintenanceRequests".status IN ?`, mq.Statuses)
	}
	if mq.CreatedFrom != nil {
		q = q.Where(`"MaintenanceRequests".created_at >= ?`, *mq.CreatedFrom)
	}
	if mq.CreatedTo != nil {
		q = q.Where(`"MaintenanceRequests".created_at < ?`, *mq.CreatedTo)
	}
	var reqs []domain.MaintenanceRequest
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *Store) Vendors(ctx context.Context, orgID uuid.UUID) ([]domain.Vendor, error) {
	var vendors []domain.Vendor
	if err := s.DB.WithContext(ctx).Where("org_id = ?", orgID).Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (s *Store) Tenants(ctx context.Context, orgID uuid.UUID) ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	if err := s.DB.WithContext(ctx).Where("org_id = ?", orgID).Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// Favorites returns the report types the user has pinned. Callers treat an
// error as "no favorites" — the listing must not fail on this read.
func (s *Store) Favorites(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var types []string
	err := s.DB.WithContext(ctx).Model(&domain.ReportFavorite{}).
		Where("user_id = ?", userID).
		Order("report_type ASC").
		Pluck("report_type", &types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (s *Store) unitScope(ctx context.Context, orgID uuid.UUID, propertyID *uuid.UUID) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(&domain.Unit{}).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Properties".org_id = ?`, orgID)
	if propertyID != nil {
		q = q.Where(`"Properties".id = ?`, *propertyID)
	}
	return q
}

func (s *Store) leaseScope(ctx context.Context, orgID uuid.UUID, propertyID *uuid.UUID) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(&domain.Lease{}).
		Joins(`JOIN "Units" ON "Units".id = "Leases".unit_id`).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Properties".org_id = ?`, orgID)
	if propertyID != nil {
		q = q.Where(`"Properties".id = ?`, *propertyID)
	}
	return q
}

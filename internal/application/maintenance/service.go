package maintenance

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

var validPriorities = map[string]bool{
	domain.PriorityLow:       true,
	domain.PriorityMedium:    true,
	domain.PriorityHigh:      true,
	domain.PriorityEmergency: true,
}

var validStatuses = map[string]bool{
	domain.MaintenanceOpen:       true,
	domain.MaintenanceInProgress: true,
	domain.MaintenanceCompleted:  true,
	domain.MaintenanceCancelled:  true,
}

type CreateRequestInput struct {
	UnitID        uuid.UUID        `json:"unit_id"`
	Category      string           `json:"category"`
	Priority      string           `json:"priority"`
	Description   string           `json:"description"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
}

// CreateRequest opens a maintenance request on an org unit.
func (s *Service) CreateRequest(ctx context.Context, orgID uuid.UUID, in CreateRequestInput) (*domain.MaintenanceRequest, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Organization not associated with user")
	}
	if in.UnitID == uuid.Nil {
		return nil, errors.New("unit_id is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, errors.New("description is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !validPriorities[priority] {
		return nil, errors.New("Invalid priority")
	}
	if in.EstimatedCost != nil && in.EstimatedCost.IsNegative() {
		return nil, errors.New("estimated_cost must not be negative")
	}

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

	category := strings.ToUpper(strings.TrimSpace(in.Category))
	if category == "" {
		category = "GENERAL"
	}
	req := &domain.MaintenanceRequest{
		UnitID:        in.UnitID,
		Category:      category,
		Priority:      priority,
		Status:        domain.MaintenanceOpen,
		Description:   strings.TrimSpace(in.Description),
		EstimatedCost: in.EstimatedCost,
	}
	if err := s.DB.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

type UpdateRequestInput struct {
	Status     *string          `json:"status"`
	Priority   *string          `json:"priority"`
	VendorID   *uuid.UUID       `json:"vendor_id"`
	ActualCost *decimal.Decimal `json:"actual_cost"`
}

// UpdateRequest transitions a request. Completing sets resolved_at; a request
// cannot be completed without an actual cost (set now or earlier).
func (s *Service) UpdateRequest(ctx context.Context, orgID, requestID uuid.UUID, in UpdateRequestInput) (*domain.MaintenanceRequest, error) {
	var req domain.MaintenanceRequest
	err := s.DB.WithContext(ctx).
		Joins(`JOIN "Units" ON "Units".id = "MaintenanceRequests".unit_id`).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"MaintenanceRequests".id = ? AND "Properties".org_id = ?`, requestID, orgID).
		First(&req).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Maintenance request not found")
		}
		return nil, err
	}
	if req.Status == domain.MaintenanceCompleted || req.Status == domain.MaintenanceCancelled {
		return nil, errors.New("Request is already closed")
	}

	upd := map[string]interface{}{}
	if in.Priority != nil {
		if !validPriorities[*in.Priority] {
			return nil, errors.New("Invalid priority")
		}
		upd["priority"] = *in.Priority
	}
	if in.VendorID != nil {
		var vendor domain.Vendor
		if err := s.DB.WithContext(ctx).Where("id = ? AND org_id = ?", *in.VendorID, orgID).First(&vendor).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.New("Vendor not found")
			}
			return nil, err
		}
		upd["vendor_id"] = *in.VendorID
	}
	if in.ActualCost != nil {
		if in.ActualCost.IsNegative() {
			return nil, errors.New("actual_cost must not be negative")
		}
		upd["actual_cost"] = *in.ActualCost
	}
	if in.Status != nil {
		if !validStatuses[*in.Status] {
			return nil, errors.New("Invalid status")
		}
		if *in.Status == domain.MaintenanceCompleted {
			if in.ActualCost == nil && req.ActualCost == nil {
				return nil, errors.New("actual_cost is required to complete a request")
			}
			upd["resolved_at"] = time.Now().UTC()
		}
		upd["status"] = *in.Status
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid fields to update")
	}

	if err := s.DB.WithContext(ctx).Model(&req).Updates(upd).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListRequests returns org requests, newest first, optionally filtered by status.
func (s *Service) ListRequests(ctx context.Context, orgID uuid.UUID, status string) ([]domain.MaintenanceRequest, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Organization not associated with user")
	}
	q := s.DB.WithContext(ctx).Model(&domain.MaintenanceRequest{}).
		Joins(`JOIN "Units" ON "Units".id = "MaintenanceRequests".unit_id`).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Properties".org_id = ?`, orgID).
		Order(`"MaintenanceRequests".created_at DESC`)
	if status != "" {
		if !validStatuses[status] {
			return nil, errors.New("Invalid status")
		}
		q = q.Where(`"MaintenanceRequests".status = ?`, status)
	}
	var out []domain.MaintenanceRequest
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type CreateVendorInput struct {
	Name  string `json:"name"`
	Trade string `json:"trade"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	TaxID string `json:"tax_id"`
}

// CreateVendor registers a vendor for the org.
func (s *Service) CreateVendor(ctx context.Context, orgID uuid.UUID, in CreateVendorInput) (*domain.Vendor, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Organization not associated with user")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name is required")
	}
	v := &domain.Vendor{
		OrgID: orgID,
		Name:  strings.TrimSpace(in.Name),
		Trade: strings.ToUpper(strings.TrimSpace(in.Trade)),
		Email: strings.TrimSpace(strings.ToLower(in.Email)),
		Phone: in.Phone,
		TaxID: strings.TrimSpace(in.TaxID),
	}
	if err := s.DB.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

// ListVendors returns the org's vendors ordered by name.
func (s *Service) ListVendors(ctx context.Context, orgID uuid.UUID) ([]domain.Vendor, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Organization not associated with user")
	}
	var out []domain.Vendor
	if err := s.DB.WithContext(ctx).Where("org_id = ?", orgID).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

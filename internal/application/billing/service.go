package billing

import (
	"context"
	"errors"
	"time"

	"keystone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// PostMonthlyCharges posts the RENT charge for every ACTIVE org lease for the
// given month. Idempotent: a lease that already has a RENT charge due inside
// that month is skipped. Returns the number of charges created.
func (s *Service) PostMonthlyCharges(ctx context.Context, orgID uuid.UUID, month time.Time) (int, error) {
	if orgID == uuid.Nil {
		return 0, errors.New("Organization not associated with user")
	}
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	var leases []domain.Lease
	err := s.DB.WithContext(ctx).Model(&domain.Lease{}).
		Joins(`JOIN "Units" ON "Units".id = "Leases".unit_id`).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Properties".org_id = ? AND "Leases".status = ?`, orgID, domain.LeaseActive).
		Find(&leases).Error
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range leases {
		l := &leases[i]
		// Lease must overlap the month being billed.
		if l.StartDate.After(nextMonth.Add(-time.Second)) || l.EndDate.Before(monthStart) {
			continue
		}
		var count int64
		err := s.DB.WithContext(ctx).Model(&domain.Charge{}).
			Where("lease_id = ? AND type = ? AND due_date >= ? AND due_date < ?",
				l.ID, domain.ChargeTypeRent, monthStart, nextMonth).
			Count(&count).Error
		if err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		due := time.Date(month.Year(), month.Month(), l.RentDueDay, 0, 0, 0, 0, time.UTC)
		ch := &domain.Charge{
			LeaseID:     l.ID,
			Type:        domain.ChargeTypeRent,
			Description: "Rent " + monthStart.Format("January 2006"),
			Amount:      l.RentAmount,
			DueDate:     due,
			Status:      domain.ChargeDue,
		}
		if err := s.DB.WithContext(ctx).Create(ch).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// CreateChargeInput posts a one-off charge (late fee, utility, other) on a lease.
type CreateChargeInput struct {
	LeaseID     uuid.UUID       `json:"lease_id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
}

var validChargeTypes = map[string]bool{
	domain.ChargeTypeRent:    true,
	domain.ChargeTypeLateFee: true,
	domain.ChargeTypeUtility: true,
	domain.ChargeTypeDeposit: true,
	domain.ChargeTypeOther:   true,
}

// CreateCharge posts a manual charge after verifying the lease is in the org.
func (s *Service) CreateCharge(ctx context.Context, orgID uuid.UUID, in CreateChargeInput) (*domain.Charge, error) {
	if !validChargeTypes[in.Type] {
		return nil, errors.New("Invalid charge type")
	}
	if !in.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	if in.DueDate.IsZero() {
		return nil, errors.New("due_date is required")
	}
	if _, err := s.orgLease(ctx, orgID, in.LeaseID); err != nil {
		return nil, err
	}
	ch := &domain.Charge{
		LeaseID:     in.LeaseID,
		Type:        in.Type,
		Description: in.Description,
		Amount:      in.Amount,
		DueDate:     in.DueDate,
		Status:      domain.ChargeDue,
	}
	if err := s.DB.WithContext(ctx).Create(ch).Error; err != nil {
		return nil, err
	}
	return ch, nil
}

// RecordPaymentInput records money received offline (cash, check, ACH, card).
type RecordPaymentInput struct {
	LeaseID    uuid.UUID       `json:"lease_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	ReceivedAt time.Time       `json:"received_at"`
}

var validMethods = map[string]bool{
	domain.MethodCash:  true,
	domain.MethodCheck: true,
	domain.MethodACH:   true,
	domain.MethodCard:  true,
}

// RecordPayment creates a COMPLETED payment and allocates it oldest-due-first
// across the lease's open charges. Unallocated remainder stays on the payment
// as credit (no allocation row).
func (s *Service) RecordPayment(ctx context.Context, orgID uuid.UUID, in RecordPaymentInput) (*domain.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	if !validMethods[in.Method] {
		return nil, errors.New("Invalid payment method")
	}
	if _, err := s.orgLease(ctx, orgID, in.LeaseID); err != nil {
		return nil, err
	}
	receivedAt := in.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}
	p := &domain.Payment{
		LeaseID:    in.LeaseID,
		Amount:     in.Amount,
		Method:     in.Method,
		Status:     domain.PaymentCompleted,
		ReceivedAt: receivedAt,
	}
	if err := s.createAndAllocate(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordStripePaymentInput records an online rent payment from the webhook.
type RecordStripePaymentInput struct {
	LeaseID          uuid.UUID
	Amount           decimal.Decimal
	PaymentIntentID  string
	EventID          string
	RawPaymentIntent []byte
}

// RecordStripePayment is idempotent on payment intent id: replayed webhook
// events return the already-recorded payment.
func (s *Service) RecordStripePayment(ctx context.Context, in RecordStripePaymentInput) (*domain.Payment, bool, error) {
	if in.PaymentIntentID == "" {
		return nil, false, errors.New("Missing payment intent id")
	}
	if !in.Amount.IsPositive() {
		return nil, false, errors.New("amount must be positive")
	}
	var existing domain.Payment
	err := s.DB.WithContext(ctx).
		Where("stripe_payment_intent_id = ?", in.PaymentIntentID).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	intentID := in.PaymentIntentID
	eventID := in.EventID
	p := &domain.Payment{
		LeaseID:               in.LeaseID,
		Amount:                in.Amount,
		Method:                domain.MethodStripe,
		Status:                domain.PaymentCompleted,
		ReceivedAt:            time.Now().UTC(),
		StripePaymentIntentID: &intentID,
		StripeEventID:         &eventID,
		RawPaymentIntent:      datatypes.JSON(in.RawPaymentIntent),
	}
	if err := s.createAndAllocate(ctx, p); err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// createAndAllocate persists the payment and spreads it over open charges,
// oldest due date first, inside one transaction.
func (s *Service) createAndAllocate(ctx context.Context, p *domain.Payment) error {
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(p).Error; err != nil {
		tx.Rollback()
		return err
	}

	var charges []domain.Charge
	err := tx.Preload("Allocations").
		Where("lease_id = ? AND status IN ?", p.LeaseID, []string{domain.ChargeDue, domain.ChargePartial}).
		Order("due_date ASC").
		Find(&charges).Error
	if err != nil {
		tx.Rollback()
		return err
	}

	remaining := p.Amount
	for i := range charges {
		if !remaining.IsPositive() {
			break
		}
		ch := &charges[i]
		allocated := decimal.Zero
		for _, a := range ch.Allocations {
			allocated = allocated.Add(a.Amount)
		}
		open := ch.Amount.Sub(allocated)
		if !open.IsPositive() {
			continue
		}
		slice := decimal.Min(open, remaining)
		if err := tx.Create(&domain.PaymentAllocation{
			PaymentID: p.ID,
			ChargeID:  ch.ID,
			Amount:    slice,
		}).Error; err != nil {
			tx.Rollback()
			return err
		}
		status := domain.ChargePartial
		if slice.Equal(open) {
			status = domain.ChargePaid
		}
		if err := tx.Model(&domain.Charge{}).Where("id = ?", ch.ID).
			Update("status", status).Error; err != nil {
			tx.Rollback()
			return err
		}
		remaining = remaining.Sub(slice)
	}

	return tx.Commit().Error
}

// ListPayments returns org payment history, newest first, optionally
// filtered by property.
func (s *Service) ListPayments(ctx context.Context, orgID uuid.UUID, propertyID *uuid.UUID) ([]domain.Payment, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Organization not associated with user")
	}
	q := s.DB.WithContext(ctx).Model(&domain.Payment{}).
		Joins(`JOIN "Leases" ON "Leases".id = "Payments".lease_id`).
		Joins(`JOIN "Units" ON "Units".id = "Leases".unit_id`).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Properties".org_id = ?`, orgID).
		Preload("Allocations").
		Order(`"Payments".received_at DESC`)
	if propertyID != nil {
		q = q.Where(`"Properties".id = ?`, *propertyID)
	}
	var out []domain.Payment
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// orgLease verifies the lease belongs to the org.
func (s *Service) orgLease(ctx context.Context, orgID, leaseID uuid.UUID) (*domain.Lease, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Organization not associated with user")
	}
	var lease domain.Lease
	err := s.DB.WithContext(ctx).Model(&domain.Lease{}).
		Joins(`JOIN "Units" ON "Units".id = "Leases".unit_id`).
		Joins(`JOIN "Properties" ON "Properties".id = "Units".property_id`).
		Where(`"Leases".id = ? AND "Properties".org_id = ?`, leaseID, orgID).
		First(&lease).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Lease not found")
		}
		return nil, err
	}
	return &lease, nil
}

package billing

import (
	"time"

	billingsvc "keystone-backend/internal/application/billing"
	"keystone-backend/internal/middleware"
	"keystone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers serves charge posting and payment recording endpoints.
type Handlers struct {
	Service *billingsvc.Service
}

// PostMonthlyRequest body: month in YYYY-MM.
type PostMonthlyRequest struct {
	Month string `json:"month"`
}

// PostMonthly POST /api/billing/post-monthly — post the month's rent charges.
func (h *Handlers) PostMonthly(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	var req PostMonthlyRequest
	if err := c.BodyParser(&req); err != nil || req.Month == "" {
		return response.Error(c, "month is required (YYYY-MM)", fiber.StatusBadRequest)
	}
	month, err := time.Parse("2006-01", req.Month)
	if err != nil {
		return response.Error(c, "month is required (YYYY-MM)", fiber.StatusBadRequest)
	}
	created, err := h.Service.PostMonthlyCharges(c.Context(), orgID, month)
	if err != nil {
		return mapBillingError(c, err)
	}
	return response.JSON(c, fiber.Map{"created": created, "month": req.Month})
}

// CreateCharge POST /api/billing/charges
func (h *Handlers) CreateCharge(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	var in billingsvc.CreateChargeInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid charge type", fiber.StatusBadRequest)
	}
	ch, err := h.Service.CreateCharge(c.Context(), orgID, in)
	if err != nil {
		return mapBillingError(c, err)
	}
	return response.Created(c, fiber.Map{"charge": ch})
}

// RecordPayment POST /api/billing/payments — record an offline payment.
func (h *Handlers) RecordPayment(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	var in billingsvc.RecordPaymentInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid payment method", fiber.StatusBadRequest)
	}
	p, err := h.Service.RecordPayment(c.Context(), orgID, in)
	if err != nil {
		return mapBillingError(c, err)
	}
	return response.Created(c, fiber.Map{"payment": p})
}

// ListPayments GET /api/billing/payments?propertyId=
func (h *Handlers) ListPayments(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	var propertyID *uuid.UUID
	if raw := c.Query("propertyId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, "Invalid property ID", fiber.StatusBadRequest)
		}
		propertyID = &id
	}
	out, err := h.Service.ListPayments(c.Context(), orgID, propertyID)
	if err != nil {
		return mapBillingError(c, err)
	}
	return response.JSON(c, fiber.Map{"payments": out})
}

func requireOrg(c *fiber.Ctx) (uuid.UUID, error) {
	u := middleware.GetUser(c)
	if u == nil {
		return uuid.Nil, response.Unauthorized(c, "Unauthorized")
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return uuid.Nil, response.Unauthorized(c, "Unauthorized")
	}
	orgIDStr, _ := m["org_id"].(string)
	orgID, err := uuid.Parse(orgIDStr)
	if err != nil {
		return uuid.Nil, response.Error(c, "Organization not found", fiber.StatusNotFound)
	}
	return orgID, nil
}

func mapBillingError(c *fiber.Ctx, err error) error {
	msg := err.Error()
	switch msg {
	case "Lease not found":
		return response.Error(c, msg, fiber.StatusNotFound)
	case "Organization not associated with user":
		return response.Error(c, msg, fiber.StatusForbidden)
	case "Invalid charge type",
		"Invalid payment method",
		"amount must be positive",
		"due_date is required":
		return response.Error(c, msg, fiber.StatusBadRequest)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
}

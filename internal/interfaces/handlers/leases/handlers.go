package leases

import (
	leasesvc "keystone-backend/internal/application/leases"
	"keystone-backend/internal/middleware"
	"keystone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers serves lease lifecycle endpoints.
type Handlers struct {
	Service *leasesvc.Service
}

// Create POST /api/leases
func (h *Handlers) Create(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	var in leasesvc.CreateLeaseInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "unit_id is required", fiber.StatusBadRequest)
	}
	lease, err := h.Service.CreateLease(c.Context(), orgID, in)
	if err != nil {
		return mapLeaseError(c, err)
	}
	return response.Created(c, fiber.Map{"lease": lease})
}

// List GET /api/leases?status=
func (h *Handlers) List(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	out, err := h.Service.ListLeases(c.Context(), orgID, c.Query("status"))
	if err != nil {
		return mapLeaseError(c, err)
	}
	return response.JSON(c, fiber.Map{"leases": out})
}

// Get GET /api/leases/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid lease ID", fiber.StatusBadRequest)
	}
	lease, err := h.Service.GetLease(c.Context(), orgID, leaseID)
	if err != nil {
		return mapLeaseError(c, err)
	}
	return response.JSON(c, fiber.Map{"lease": lease})
}

// Terminate POST /api/leases/:id/terminate
func (h *Handlers) Terminate(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	leaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid lease ID", fiber.StatusBadRequest)
	}
	lease, err := h.Service.TerminateLease(c.Context(), orgID, leaseID)
	if err != nil {
		return mapLeaseError(c, err)
	}
	return response.JSON(c, fiber.Map{"lease": lease})
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

func mapLeaseError(c *fiber.Ctx, err error) error {
	msg := err.Error()
	switch msg {
	case "Lease not found", "Unit not found":
		return response.Error(c, msg, fiber.StatusNotFound)
	case "Organization not associated with user":
		return response.Error(c, msg, fiber.StatusForbidden)
	case "unit_id is required",
		"end_date must be after start_date",
		"rent_amount must be positive",
		"security_deposit must not be negative",
		"rent_due_day must be between 1 and 28",
		"At least one tenant is required",
		"Tenant name is required",
		"Invalid tenant role",
		"Exactly one primary tenant is required",
		"Unit already has an active lease",
		"Only active leases can be terminated":
		return response.Error(c, msg, fiber.StatusBadRequest)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
}

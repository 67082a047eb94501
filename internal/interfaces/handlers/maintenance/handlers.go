package maintenance

import (
	maintsvc "keystone-backend/internal/application/maintenance"
	"keystone-backend/internal/middleware"
	"keystone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers serves maintenance request and vendor endpoints.
type Handlers struct {
	Service *maintsvc.Service
}

// CreateRequest POST /api/maintenance/requests
func (h *Handlers) CreateRequest(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	var in maintsvc.CreateRequestInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "description is required", fiber.StatusBadRequest)
	}
	req, err := h.Service.CreateRequest(c.Context(), orgID, in)
	if err != nil {
		return mapMaintenanceError(c, err)
	}
	return response.Created(c, fiber.Map{"request": req})
}

// UpdateRequest PATCH /api/maintenance/requests/:id
func (h *Handlers) UpdateRequest(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid request ID", fiber.StatusBadRequest)
	}
	var in maintsvc.UpdateRequestInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "No valid fields to update", fiber.StatusBadRequest)
	}
	req, err := h.Service.UpdateRequest(c.Context(), orgID, requestID, in)
	if err != nil {
		return mapMaintenanceError(c, err)
	}
	return response.JSON(c, fiber.Map{"request": req})
}

// ListRequests GET /api/maintenance/requests?status=
func (h *Handlers) ListRequests(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	out, err := h.Service.ListRequests(c.Context(), orgID, c.Query("status"))
	if err != nil {
		return mapMaintenanceError(c, err)
	}
	return response.JSON(c, fiber.Map{"requests": out})
}

// CreateVendor POST /api/maintenance/vendors
func (h *Handlers) CreateVendor(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	var in maintsvc.CreateVendorInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "name is required", fiber.StatusBadRequest)
	}
	v, err := h.Service.CreateVendor(c.Context(), orgID, in)
	if err != nil {
		return mapMaintenanceError(c, err)
	}
	return response.Created(c, fiber.Map{"vendor": v})
}

// ListVendors GET /api/maintenance/vendors
func (h *Handlers) ListVendors(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	out, err := h.Service.ListVendors(c.Context(), orgID)
	if err != nil {
		return mapMaintenanceError(c, err)
	}
	return response.JSON(c, fiber.Map{"vendors": out})
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

func mapMaintenanceError(c *fiber.Ctx, err error) error {
	msg := err.Error()
	switch msg {
	case "Unit not found", "Vendor not found", "Maintenance request not found":
		return response.Error(c, msg, fiber.StatusNotFound)
	case "Organization not associated with user":
		return response.Error(c, msg, fiber.StatusForbidden)
	case "unit_id is required",
		"description is required",
		"Invalid priority",
		"Invalid status",
		"estimated_cost must not be negative",
		"actual_cost must not be negative",
		"actual_cost is required to complete a request",
		"Request is already closed",
		"No valid fields to update",
		"name is required":
		return response.Error(c, msg, fiber.StatusBadRequest)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
}

package properties

import (
	propsvc "keystone-backend/internal/application/properties"
	"keystone-backend/internal/middleware"
	"keystone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers serves property and unit management endpoints.
type Handlers struct {
	Service *propsvc.Service
}

// Create POST /api/properties
func (h *Handlers) Create(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	var in propsvc.CreatePropertyInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "name and address are required", fiber.StatusBadRequest)
	}
	prop, err := h.Service.CreateProperty(c.Context(), orgID, in)
	if err != nil {
		return mapPropertyError(c, err)
	}
	return response.Created(c, fiber.Map{"property": prop})
}

// List GET /api/properties
func (h *Handlers) List(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	props, err := h.Service.ListProperties(c.Context(), orgID)
	if err != nil {
		return mapPropertyError(c, err)
	}
	return response.JSON(c, fiber.Map{"properties": props})
}

// Get GET /api/properties/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid property ID", fiber.StatusBadRequest)
	}
	prop, err := h.Service.GetProperty(c.Context(), orgID, propertyID)
	if err != nil {
		return mapPropertyError(c, err)
	}
	return response.JSON(c, fiber.Map{"property": prop})
}

// UpdateUnit PATCH /api/properties/units/:id
func (h *Handlers) UpdateUnit(c *fiber.Ctx) error {
	orgID, errResp := requireOrg(c)
	if errResp != nil {
		return errResp
	}
	unitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid unit ID", fiber.StatusBadRequest)
	}
	var in propsvc.UpdateUnitInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "No valid fields to update", fiber.StatusBadRequest)
	}
	unit, err := h.Service.UpdateUnit(c.Context(), orgID, unitID, in)
	if err != nil {
		return mapPropertyError(c, err)
	}
	return response.JSON(c, fiber.Map{"unit": unit})
}

// requireOrg resolves the session actor's org or writes the error response.
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

func mapPropertyError(c *fiber.Ctx, err error) error {
	msg := err.Error()
	switch msg {
	case "Property not found", "Unit not found":
		return response.Error(c, msg, fiber.StatusNotFound)
	case "Organization not associated with user":
		return response.Error(c, msg, fiber.StatusForbidden)
	case "name and address are required",
		"purchase_price and land_value must not be negative",
		"land_value cannot exceed purchase_price",
		"unit_number is required for every unit",
		"Invalid unit status",
		"market_rent must not be negative",
		"No valid fields to update":
		return response.Error(c, msg, fiber.StatusBadRequest)
	}
	if len(msg) > 22 && msg[:22] == "Duplicate unit_number:" {
		return response.Error(c, msg, fiber.StatusBadRequest)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
}

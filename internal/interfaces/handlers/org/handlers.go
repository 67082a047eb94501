package org

import (
	"encoding/json"

	orgsvc "keystone-backend/internal/application/org"
	"keystone-backend/internal/middleware"
	"keystone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles org handlers with dependencies.
type Handlers struct {
	Service *orgsvc.Service
	Config  middleware.SessionConfig
}

// CreateOrg POST /api/orgs/create-org
func (h *Handlers) CreateOrg(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.Error(c, "org_name and country_code are required", 400)
	}

	orgName, _ := body["org_name"].(string)
	countryCode, _ := body["country_code"].(string)
	if orgName == "" || countryCode == "" {
		return response.Error(c, "org_name and country_code are required", 400)
	}
	timezone, _ := body["timezone"].(string)

	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	m, ok := actor.(map[string]interface{})
	if !ok {
		return response.Error(c, "Authorization error", 500)
	}
	actorIDStr, _ := m["user_id"].(string)
	if actorIDStr == "" {
		return response.Unauthorized(c, "Unauthorized")
	}
	actorID, err := uuid.Parse(actorIDStr)
	if err != nil {
		return response.Error(c, "Authorization error", 500)
	}

	org, err := h.Service.CreateOrg(c.Context(), orgsvc.CreateOrgInput{
		OrgName:     orgName,
		CountryCode: countryCode,
		Timezone:    timezone,
	}, actorID)
	if err != nil {
		if err.Error() == "org_name and country_code are required" {
			return response.Error(c, err.Error(), 400)
		}
		return response.Error(c, "Internal Server Error", 500)
	}

	// Regenerate session because role privilege changed (org creator becomes superadmin)
	sessionID := middleware.RegenerateSessionID(c)
	orgIDStr := org.OrgID.String()
	fullname, _ := m["fullname"].(string)
	email, _ := m["email"].(string)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   actorIDStr,
		Fullname: fullname,
		Email:    email,
		Role:     "superadmin",
		OrgID:    &orgIDStr,
	})

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)

	return response.Created(c, fiber.Map{"org": org})
}

// ViewOrg GET /api/orgs/view-org
func (h *Handlers) ViewOrg(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	m, ok := actor.(map[string]interface{})
	if !ok {
		return response.Error(c, "Authorization error", 500)
	}
	orgIDStr, _ := m["org_id"].(string)
	if orgIDStr == "" {
		return response.Error(c, "User is not associated with any organization", 403)
	}
	orgID, err := uuid.Parse(orgIDStr)
	if err != nil {
		return response.Error(c, "User is not associated with any organization", 403)
	}

	org, err := h.Service.GetOrgByID(c.Context(), orgID)
	if err != nil {
		switch err.Error() {
		case "Missing org_id":
			return response.Error(c, err.Error(), 400)
		case "Org not found":
			return response.Error(c, err.Error(), 404)
		default:
			return response.Error(c, "Internal Server Error", 500)
		}
	}
	return response.JSON(c, fiber.Map{"org": org})
}

// UpdateOrg PATCH /api/orgs/update-org/:id
func (h *Handlers) UpdateOrg(c *fiber.Ctx) error {
	idStr := c.Params("id")
	if idStr == "" {
		return response.Error(c, "Missing org_id", 400)
	}
	orgID, err := uuid.Parse(idStr)
	if err != nil {
		return response.Error(c, "Missing org_id", 400)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.Error(c, "No update fields provided", 400)
	}

	org, err := h.Service.UpdateOrg(c.Context(), orgID, body)
	if err != nil {
		switch err.Error() {
		case "Missing org_id", "No update fields provided", "No valid fields to update":
			return response.Error(c, err.Error(), 400)
		case "Org not found":
			return response.Error(c, err.Error(), 404)
		default:
			return response.Error(c, "Internal Server Error", 500)
		}
	}
	return response.JSON(c, fiber.Map{"org": org})
}

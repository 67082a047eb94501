package reports

import (
	"errors"
	"time"

	reportsvc "keystone-backend/internal/application/reports"
	"keystone-backend/internal/middleware"
	"keystone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handlers serves the report discovery listing and report generation.
type Handlers struct {
	Engine *reportsvc.Engine
}

// List GET /api/reports — without ?type, the discovery listing merged with the
// caller's favorites; with ?type, one of the dashboard quick reports.
func (h *Handlers) List(c *fiber.Ctx) error {
	actor, errResp := requireActor(c)
	if actor == nil {
		return errResp
	}

	if reportType := c.Query("type"); reportType != "" {
		orgID, errResp := requireOrg(c, actor)
		if errResp != nil {
			return errResp
		}
		f, err := reportsvc.ResolveFilters(time.Now(),
			c.Query("period"), c.Query("startDate"), c.Query("endDate"),
			c.Query("accountingMethod"), c.Query("groupBy"), c.Query("propertyId"))
		if err != nil {
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
		report, err := h.Engine.GenerateQuick(c.Context(), reportType, orgID, f)
		if err != nil {
			return mapGenerateError(c, reportType, err)
		}
		return response.JSON(c, fiber.Map{"report": report})
	}

	// Favorites read failing degrades to an empty set; discovery never fails
	// because the favorites store is unavailable.
	var favorites []string
	if userID, err := uuid.Parse(actor.UserID); err == nil {
		favorites, err = h.Engine.Store.Favorites(c.Context(), userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", actor.UserID).Msg("favorites lookup failed, listing without favorites")
			favorites = nil
		}
	}
	return response.JSON(c, fiber.Map{
		"reports":    reportsvc.ListItems(favorites),
		"categories": reportsvc.Categories(favorites),
	})
}

// Generate GET /api/reports/:type — one canonical catalog report.
func (h *Handlers) Generate(c *fiber.Ctx) error {
	actor, errResp := requireActor(c)
	if actor == nil {
		return errResp
	}
	orgID, errResp := requireOrg(c, actor)
	if errResp != nil {
		return errResp
	}

	reportType := c.Params("type")
	f, err := reportsvc.ResolveFilters(time.Now(),
		c.Query("period"), c.Query("startDate"), c.Query("endDate"),
		c.Query("accountingMethod"), c.Query("groupBy"), c.Query("propertyId"))
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	report, err := h.Engine.Generate(c.Context(), reportType, orgID, f)
	if err != nil {
		return mapGenerateError(c, reportType, err)
	}
	return response.JSON(c, fiber.Map{"report": report})
}

// FavoriteRequest body for pinning a report type.
type FavoriteRequest struct {
	Type string `json:"type"`
}

// AddFavorite POST /api/reports/favorites — pin a report type for the caller.
func (h *Handlers) AddFavorite(c *fiber.Ctx) error {
	actor, errResp := requireActor(c)
	if actor == nil {
		return errResp
	}
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req FavoriteRequest
	if err := c.BodyParser(&req); err != nil || req.Type == "" {
		return response.Error(c, "type is required", fiber.StatusBadRequest)
	}
	if err := h.Engine.Store.AddFavorite(c.Context(), userID, req.Type); err != nil {
		if errors.Is(err, reportsvc.ErrUnknownFavoriteType) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	favorites, _ := h.Engine.Store.Favorites(c.Context(), userID)
	return response.Created(c, fiber.Map{"favorites": favorites})
}

// RemoveFavorite DELETE /api/reports/favorites/:type — unpin a report type.
func (h *Handlers) RemoveFavorite(c *fiber.Ctx) error {
	actor, errResp := requireActor(c)
	if actor == nil {
		return errResp
	}
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	reportType := c.Params("type")
	if err := h.Engine.Store.RemoveFavorite(c.Context(), userID, reportType); err != nil {
		if errors.Is(err, reportsvc.ErrUnknownFavoriteType) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	favorites, _ := h.Engine.Store.Favorites(c.Context(), userID)
	return response.JSON(c, fiber.Map{"favorites": favorites})
}

type sessionActor struct {
	UserID string
	OrgID  *string
}

// requireActor returns the session actor or writes the 401.
func requireActor(c *fiber.Ctx) (*sessionActor, error) {
	u := middleware.GetUser(c)
	if u == nil {
		return nil, response.Unauthorized(c, "Unauthorized")
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil, response.Unauthorized(c, "Unauthorized")
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil, response.Unauthorized(c, "Unauthorized")
	}
	actor := &sessionActor{UserID: userID}
	if o, ok := m["org_id"]; ok && o != nil {
		if s, ok := o.(string); ok && s != "" {
			actor.OrgID = &s
		}
	}
	return actor, nil
}

// requireOrg resolves the actor's org or writes the 404.
func requireOrg(c *fiber.Ctx, actor *sessionActor) (uuid.UUID, error) {
	if actor.OrgID == nil {
		return uuid.Nil, response.Error(c, "Organization not found", fiber.StatusNotFound)
	}
	orgID, err := uuid.Parse(*actor.OrgID)
	if err != nil {
		return uuid.Nil, response.Error(c, "Organization not found", fiber.StatusNotFound)
	}
	return orgID, nil
}

// mapGenerateError applies the error taxonomy: 400 unknown type or bad
// filters, 501 recognized but uncalculated, 500 otherwise.
func mapGenerateError(c *fiber.Ctx, reportType string, err error) error {
	switch {
	case errors.Is(err, reportsvc.ErrInvalidReportType):
		return response.Error(c, "Invalid report type", fiber.StatusBadRequest)
	case errors.Is(err, reportsvc.ErrNotImplemented):
		return response.Error(c, "Report not implemented", fiber.StatusNotImplemented)
	default:
		log.Error().Err(err).Str("report_type", reportType).Msg("report generation failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
}

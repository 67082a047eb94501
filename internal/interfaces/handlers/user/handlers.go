package user

import (
	usersvc "keystone-backend/internal/application/user"
	"keystone-backend/internal/domain"
	"keystone-backend/internal/middleware"
	"keystone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds the user service and session config for create-user (session + cookie).
type Handlers struct {
	Service *usersvc.Service
	Config  middleware.SessionConfig
}

// CreateUserRequest body.
type CreateUserRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

// CreateUser POST /api/users/create-user — create user, start session, set cookie.
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", 400)
	}
	if req.UserName == "" || req.Email == "" || req.Password == "" || req.Fullname == "" {
		return response.Error(c, "Missing required fields", 400)
	}

	u, err := h.Service.Register(c.Context(), usersvc.RegisterInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
		Fullname: req.Fullname,
	})
	if err != nil {
		return mapCreateError(c, err)
	}

	safe := safeUser(u)
	orgIDStr := nilUUIDString(u.OrgID)

	sid := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   u.UserID.String(),
		Fullname: u.Fullname,
		Email:    u.Email,
		Role:     u.Role,
		OrgID:    orgIDStr,
	})
	if h.Service.Rdb != nil {
		_ = h.Service.Rdb.SAdd(c.Context(), userSessionsPrefix+u.UserID.String(), sid).Err()
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sid
	c.Cookie(&cookie)

	return response.Created(c, fiber.Map{"user": safe})
}

// UpdateUser PUT /api/users/update-user — updates the session user (user_id from session).
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	actor := getSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Error(c, "Invalid user ID format (must be a valid UUID)", 400)
	}

	var in usersvc.UpdateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Missing update fields", 400)
	}

	u, err := h.Service.UpdateProfile(c.Context(), userID, in)
	if err != nil {
		return mapUpdateError(c, err)
	}
	return response.JSON(c, fiber.Map{"user": safeUser(u)})
}

// ViewUser GET /api/users/view-user — returns the session user.
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	actor := getSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Error(c, "Invalid user ID format (must be a valid UUID)", 400)
	}
	u, err := h.Service.Profile(c.Context(), userID)
	if err != nil {
		return mapViewError(c, err)
	}
	return response.JSON(c, fiber.Map{"user": safeUser(u)})
}

// UpdateRoleRequest body: user_id, role.
type UpdateRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// UpdateRole PATCH /api/users/update-role — requires assign_role (middleware applied on route).
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "user_id and role are required", 400)
	}
	if req.UserID == "" || req.Role == "" {
		return response.Error(c, "user_id and role are required", 400)
	}

	actor := getSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	u, err := h.Service.AssignRole(c.Context(), usersvc.AssignRoleInput{
		ActorUserID:  actor.UserID,
		ActorRole:    actor.Role,
		TargetUserID: req.UserID,
		TargetRole:   req.Role,
		OrgID:        actor.OrgID,
	})
	if err != nil {
		return response.Error(c, err.Error(), 400)
	}
	return response.JSON(c, fiber.Map{"user": safeUser(u)})
}

// RemoveUserRequest body: user_id.
type RemoveUserRequest struct {
	UserID string `json:"user_id"`
}

// RemoveUser DELETE /api/users/remove-user — requires remove_user (middleware applied on route).
func (h *Handlers) RemoveUser(c *fiber.Ctx) error {
	var req RemoveUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "user_id is required", 400)
	}
	if req.UserID == "" {
		return response.Error(c, "user_id is required", 400)
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		return response.Error(c, "Invalid user ID format (must be a valid UUID)", 400)
	}

	actor := getSessionActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	err := h.Service.RemoveFromOrg(c.Context(), usersvc.RemoveFromOrgInput{
		ActorUserID:  actor.UserID,
		ActorRole:    actor.Role,
		TargetUserID: req.UserID,
		OrgID:        actor.OrgID,
	})
	if err != nil {
		return response.Error(c, err.Error(), 400)
	}
	return response.JSON(c, fiber.Map{"message": "User removed from organization"})
}

type sessionActor struct {
	UserID string
	Role   string
	OrgID  *string
}

func getSessionActor(c *fiber.Ctx) *sessionActor {
	u := middleware.GetUser(c)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	userID, _ := m["user_id"].(string)
	role, _ := m["role"].(string)
	if userID == "" || role == "" {
		return nil
	}
	var orgID *string
	if o, ok := m["org_id"]; ok && o != nil {
		if s, ok := o.(string); ok {
			orgID = &s
		}
	}
	return &sessionActor{UserID: userID, Role: role, OrgID: orgID}
}

func safeUser(u *domain.User) fiber.Map {
	orgID := interface{}(nil)
	if u.OrgID != nil {
		orgID = u.OrgID.String()
	}
	return fiber.Map{
		"user_id":   u.UserID.String(),
		"fullname":  u.Fullname,
		"user_name": u.UserName,
		"email":     u.Email,
		"org_id":    orgID,
		"role":      u.Role,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
}

func nilUUIDString(u *uuid.UUID) *string {
	if u == nil {
		return nil
	}
	s := u.String()
	return &s
}

func mapCreateError(c *fiber.Ctx, err error) error {
	msg := err.Error()
	status := 500
	switch {
	case msg == "Invalid email format", msg == "Invalid password format",
		msg == "Full name is required and must be a non-empty string",
		msg == "Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)",
		msg == "Username is required and must be a non-empty string":
		status = 400
	case msg == "Email already registered", msg == "Username already registered":
		status = 409
	}
	return response.Error(c, msg, status)
}

func mapUpdateError(c *fiber.Ctx, err error) error {
	msg := err.Error()
	status := 500
	switch {
	case msg == "Missing update fields",
		msg == "Invalid email format", msg == "Invalid password format", msg == "Invalid org_id",
		msg == "Full name must be a non-empty string", msg == "Full name contains invalid characters",
		msg == "Username is required and must be a non-empty string":
		status = 400
	case msg == "Email already registered", msg == "Username already registered":
		status = 409
	case msg == "User not found":
		status = 404
	}
	return response.Error(c, msg, status)
}

func mapViewError(c *fiber.Ctx, err error) error {
	msg := err.Error()
	status := 500
	if msg == "User not found" {
		status = 404
	}
	return response.Error(c, msg, status)
}

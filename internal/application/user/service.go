package user

import (
	"context"
	"errors"
	"strings"
	"unicode"

	policies "keystone-backend/internal/application/policies/user"
	"keystone-backend/internal/domain"
	"keystone-backend/internal/pkg/constants"
	"keystone-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

// Service manages staff accounts (property managers, accountants, viewers).
// Role and membership changes destroy the target's sessions: report access is
// scoped by the org_id the session carries, so a stale session would keep
// serving another org's financials.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// RegisterInput for self-service registration.
type RegisterInput struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

// Register creates a staff account. New accounts start as viewer with no org;
// they gain report access when an org creator or admin brings them in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	userName := strings.TrimSpace(in.UserName)
	if userName == "" {
		return nil, errors.New("Username is required and must be a non-empty string")
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, errors.New("Invalid email format")
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, errors.New("Invalid password format")
	}
	fullname := strings.TrimSpace(in.Fullname)
	if fullname == "" {
		return nil, errors.New("Full name is required and must be a non-empty string")
	}
	if !validation.IsValidFullname(fullname) {
		return nil, errors.New("Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var taken []domain.User
	if err := s.DB.WithContext(ctx).
		Where("email = ? OR user_name = ?", email, userName).
		Find(&taken).Error; err != nil {
		return nil, err
	}
	for _, t := range taken {
		if t.Email == email {
			return nil, errors.New("Email already registered")
		}
	}
	if len(taken) > 0 {
		return nil, errors.New("Username already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hash),
		Fullname:     normalizeFullname(fullname),
		Role:         constants.Viewer,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfileInput carries the fields a user may change on their own
// account. Nil fields are left untouched.
type UpdateProfileInput struct {
	UserName *string `json:"user_name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Fullname *string `json:"fullname"`
	OrgID    *string `json:"org_id"` // empty string detaches the user from their org
}

// UpdateProfile updates the session user's own account.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*domain.User, error) {
	upd := map[string]interface{}{}

	if in.Email != nil {
		if !validation.IsValidEmail(*in.Email) {
			return nil, errors.New("Invalid email format")
		}
		upd["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Password != nil {
		if !validation.IsValidPassword(*in.Password) {
			return nil, errors.New("Invalid password format")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		upd["password_hash"] = string(hash)
	}
	if in.Fullname != nil {
		fullname := strings.TrimSpace(*in.Fullname)
		if fullname == "" {
			return nil, errors.New("Full name must be a non-empty string")
		}
		if !validation.IsValidFullname(fullname) {
			return nil, errors.New("Full name contains invalid characters")
		}
		upd["fullname"] = normalizeFullname(fullname)
	}
	if in.UserName != nil {
		userName := strings.TrimSpace(*in.UserName)
		if userName == "" {
			return nil, errors.New("Username is required and must be a non-empty string")
		}
		upd["user_name"] = userName
	}
	if in.OrgID != nil {
		if *in.OrgID == "" {
			upd["org_id"] = nil
		} else {
			orgID, err := uuid.Parse(*in.OrgID)
			if err != nil {
				return nil, errors.New("Invalid org_id")
			}
			upd["org_id"] = orgID
		}
	}
	if len(upd) == 0 {
		return nil, errors.New("Missing update fields")
	}

	// Email and username stay unique across accounts.
	if e, ok := upd["email"].(string); ok {
		var dup domain.User
		if err := s.DB.WithContext(ctx).Where("email = ? AND user_id != ?", e, userID).First(&dup).Error; err == nil {
			return nil, errors.New("Email already registered")
		}
	}
	if un, ok := upd["user_name"].(string); ok {
		var dup domain.User
		if err := s.DB.WithContext(ctx).Where("user_name = ? AND user_id != ?", un, userID).First(&dup).Error; err == nil {
			return nil, errors.New("Username already registered")
		}
	}

	result := s.DB.WithContext(ctx).Model(&domain.User{}).Where("user_id = ?", userID).Updates(upd)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("User not found")
	}
	return s.Profile(ctx, userID)
}

// Profile returns the account by id.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("User not found")
		}
		return nil, err
	}
	return &u, nil
}

// AssignRoleInput identifies the acting session user, the target and the new role.
type AssignRoleInput struct {
	ActorUserID  string
	ActorRole    string
	TargetUserID string
	TargetRole   string
	OrgID        *string
}

// AssignRole changes an org member's role after governance checks, then
// destroys the target's sessions so the old role cannot keep reading reports.
func (s *Service) AssignRole(ctx context.Context, in AssignRoleInput) (*domain.User, error) {
	if err := policies.ValidateRoleAssignment(s.DB, policies.ValidateRoleAssignmentParams{
		ActorRole:    in.ActorRole,
		TargetRole:   in.TargetRole,
		ActorUserID:  in.ActorUserID,
		TargetUserID: in.TargetUserID,
		OrgID:        in.OrgID,
	}); err != nil {
		return nil, err
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", in.TargetUserID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("User not found")
		}
		return nil, err
	}
	u.Role = in.TargetRole
	if err := s.DB.WithContext(ctx).Save(&u).Error; err != nil {
		return nil, err
	}
	policies.DestroyUserSessions(ctx, s.Rdb, in.TargetUserID)
	return &u, nil
}

// RemoveFromOrgInput identifies the acting session user and the target.
type RemoveFromOrgInput struct {
	ActorUserID  string
	ActorRole    string
	TargetUserID string
	OrgID        *string
}

// RemoveFromOrg detaches a member from the org and demotes them to viewer.
// Their sessions are destroyed; the next login carries no org_id, so every
// report endpoint answers 404 until they join an org again.
func (s *Service) RemoveFromOrg(ctx context.Context, in RemoveFromOrgInput) error {
	target, err := policies.ValidateOrgMembershipChange(s.DB, policies.ValidateOrgMembershipChangeParams{
		ActorUserID:  in.ActorUserID,
		ActorRole:    in.ActorRole,
		TargetUserID: in.TargetUserID,
		OrgID:        in.OrgID,
	})
	if err != nil {
		return err
	}
	target.OrgID = nil
	target.Role = constants.Viewer
	if err := s.DB.WithContext(ctx).Save(target).Error; err != nil {
		return err
	}
	policies.DestroyUserSessions(ctx, s.Rdb, in.TargetUserID)
	return nil
}

// normalizeFullname collapses whitespace and capitalizes each word.
func normalizeFullname(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

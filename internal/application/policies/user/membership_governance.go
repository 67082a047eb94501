package policies

import (
	"keystone-backend/internal/domain"
	"keystone-backend/internal/pkg/constants"

	"gorm.io/gorm"
)

type ValidateOrgMembershipChangeParams struct {
	ActorUserID  string
	ActorRole    string
	TargetUserID string
	OrgID        *string
}

// ValidateOrgMembershipChange enforces membership governance for removal.
// Returns the target user on success.
func ValidateOrgMembershipChange(db *gorm.DB, params ValidateOrgMembershipChangeParams) (*domain.User, error) {
	if params.ActorUserID == params.TargetUserID {
		return nil, ErrYouCannotRemoveYourselfFromOrg
	}
	var target domain.User
	if err := db.Where("user_id = ?", params.TargetUserID).First(&target).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !sameOrg(params.OrgID, target.OrgID) {
		return nil, ErrUserDoesNotBelongToYourOrg
	}
	// Admin cannot remove admin/superadmin
	if params.ActorRole == constants.Admin &&
		(target.Role == constants.Admin || target.Role == constants.Superadmin) {
		return nil, ErrAdminsCannotRemoveAdminsOrSuperadmins
	}
	// Prevent last superadmin removal
	if target.Role == constants.Superadmin {
		var count int64
		if target.OrgID == nil {
			db.Model(&domain.User{}).Where("org_id IS NULL AND role = ?", constants.Superadmin).Count(&count)
		} else {
			db.Model(&domain.User{}).Where("org_id = ? AND role = ?", target.OrgID, constants.Superadmin).Count(&count)
		}
		if count <= 1 {
			return nil, ErrOrgMustHaveAtLeastOneSuperadmin
		}
	}
	return &target, nil
}

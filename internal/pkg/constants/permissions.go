package constants

const (
	ViewReports       = "view_reports"
	ManageProperties  = "manage_properties"
	ManageLeases      = "manage_leases"
	RecordPayments    = "record_payments"
	ManageMaintenance = "manage_maintenance"
	InviteUser        = "invite_user"
	RemoveUser        = "remove_user"
	AssignRole        = "assign_role"
	UpdateOrg         = "update_org"
)

// PermissionRoles maps each permission to roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewReports:       {Viewer, Manager, Admin, Superadmin},
	ManageProperties:  {Manager, Admin, Superadmin},
	ManageLeases:      {Manager, Admin, Superadmin},
	RecordPayments:    {Manager, Admin, Superadmin},
	ManageMaintenance: {Manager, Admin, Superadmin},
	InviteUser:        {Admin, Superadmin},
	RemoveUser:        {Admin, Superadmin},
	AssignRole:        {Admin, Superadmin},
	UpdateOrg:         {Admin, Superadmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

package auth

import (
	errors "github.com/frahmantamala/finance-dashboard/internal"
	userDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/user"
)

// PermissionsFor lists what the account may do beyond its own ledger.
// Categories are shared by every user, so only admins may change them.
func PermissionsFor(user *userDatamodel.User) []string {
	if user == nil || !user.IsAdmin {
		return nil
	}
	return []string{errors.PermissionAdmin, errors.PermissionManageCategories}
}

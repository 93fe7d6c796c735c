package models

import "fmt"

// Role represents user roles in the system
type Role string

const (
	RoleApplicant Role = "applicant" // Owns and drives their own applications
	RoleReviewer  Role = "reviewer"  // Sees all applications and records decisions
)

// Permission represents specific permissions
type Permission string

const (
	PermissionCreateApplication   Permission = "application:create"
	PermissionReadApplication     Permission = "application:read"
	PermissionSubmitApplication   Permission = "application:submit"
	PermissionReadAllApplications Permission = "application:read:all"
	PermissionDecideApplication   Permission = "application:decide"

	PermissionUploadDocument Permission = "document:upload"
	PermissionDeleteDocument Permission = "document:delete"
)

// RolePermissions defines what permissions each role has
var RolePermissions = map[Role][]Permission{
	RoleApplicant: {
		PermissionCreateApplication, PermissionReadApplication, PermissionSubmitApplication,
		PermissionUploadDocument, PermissionDeleteDocument,
	},
	RoleReviewer: {
		PermissionReadApplication, PermissionReadAllApplications, PermissionDecideApplication,
	},
}

// HasPermission checks if a role has a specific permission
func (r Role) HasPermission(permission Permission) bool {
	permissions, exists := RolePermissions[r]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// AuthenticatedUser is the identity attached to a request after the auth
// middleware has resolved it
type AuthenticatedUser struct {
	UserID uint
	Email  string
	Role   Role
}

// IsReviewer reports whether the user holds the reviewer role
func (u *AuthenticatedUser) IsReviewer() bool {
	return u.Role == RoleReviewer
}

// HasPermission checks the user's role for a permission
func (u *AuthenticatedUser) HasPermission(permission Permission) bool {
	return u.Role.HasPermission(permission)
}

// String identifies the user in log output
func (u *AuthenticatedUser) String() string {
	return fmt.Sprintf("%s (#%d)", u.Email, u.UserID)
}

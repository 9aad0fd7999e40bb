package domain

import "time"

// Canonical role names created by the seeding routine.
const (
	RoleUser          = "User"
	RoleModerator     = "Moderator"
	RoleAdministrator = "Administrator"
)

// Role is a named, reusable bundle of permissions assigned to users.
// At most one role is flagged Default; it is handed to new users who don't
// qualify for another role.
type Role struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:64;uniqueIndex;not null"`
	Default     bool      `json:"default" gorm:"default:false;index"`
	Permissions int       `json:"permissions" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AddPermission sets perm in the role's mask. Idempotent: adding a
// permission the role already holds leaves the mask unchanged.
func (r *Role) AddPermission(perm Permission) {
	if !r.HasPermission(perm) {
		r.Permissions |= int(perm)
	}
}

// RemovePermission clears perm from the mask. Only subtracts when the
// permission is actually present, so the mask can never go negative.
func (r *Role) RemovePermission(perm Permission) {
	if r.HasPermission(perm) {
		r.Permissions &^= int(perm)
	}
}

// ResetPermissions clears the mask entirely.
func (r *Role) ResetPermissions() {
	r.Permissions = 0
}

// HasPermission reports whether every bit of perm is set in the mask.
func (r *Role) HasPermission(perm Permission) bool {
	return HasPermission(r.Permissions, perm)
}

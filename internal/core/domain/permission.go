package domain

// Permission is a single capability bit. Values are powers of two so they
// compose into a role bitmask via OR without collision.
type Permission int

const (
	PermissionFollow   Permission = 1 << iota // 1
	PermissionComment                         // 2
	PermissionWrite                           // 4
	PermissionModerate                        // 8
	PermissionAdmin                           // 16
)

// AllPermissions is the OR of every defined flag. A valid role mask never
// carries bits outside it.
const AllPermissions = PermissionFollow | PermissionComment | PermissionWrite |
	PermissionModerate | PermissionAdmin

// permissionNames maps each flag to its wire/display name.
var permissionNames = map[Permission]string{
	PermissionFollow:   "follow",
	PermissionComment:  "comment",
	PermissionWrite:    "write",
	PermissionModerate: "moderate",
	PermissionAdmin:    "admin",
}

func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return "unknown"
}

// HasPermission reports whether mask contains every bit of perm. Exact
// containment, not overlap: if perm is composite, all of its bits must be set.
func HasPermission(mask int, perm Permission) bool {
	return mask&int(perm) == int(perm)
}

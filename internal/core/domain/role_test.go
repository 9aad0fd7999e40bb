package domain

import "testing"

func TestRole_AddPermission(t *testing.T) {
	r := &Role{Name: RoleUser}

	r.AddPermission(PermissionFollow)
	if !r.HasPermission(PermissionFollow) {
		t.Fatalf("expected follow permission after add")
	}

	// Adding twice must not change the mask.
	before := r.Permissions
	r.AddPermission(PermissionFollow)
	if r.Permissions != before {
		t.Fatalf("add not idempotent: %d != %d", r.Permissions, before)
	}
}

func TestRole_RemovePermission(t *testing.T) {
	r := &Role{Name: RoleUser}
	r.AddPermission(PermissionFollow)
	r.AddPermission(PermissionComment)
	before := r.Permissions

	r.AddPermission(PermissionWrite)
	r.RemovePermission(PermissionWrite)
	if r.Permissions != before {
		t.Fatalf("remove after add did not restore mask: %d != %d", r.Permissions, before)
	}

	// Removing an absent permission leaves the mask unchanged.
	r.RemovePermission(PermissionAdmin)
	if r.Permissions != before {
		t.Fatalf("removing absent permission changed mask: %d != %d", r.Permissions, before)
	}
	if r.Permissions < 0 {
		t.Fatalf("mask went negative: %d", r.Permissions)
	}
}

func TestRole_ResetPermissions(t *testing.T) {
	r := &Role{Name: RoleModerator}
	r.AddPermission(PermissionFollow)
	r.AddPermission(PermissionModerate)

	r.ResetPermissions()
	if r.Permissions != 0 {
		t.Fatalf("expected empty mask after reset, got %d", r.Permissions)
	}
	if r.HasPermission(PermissionFollow) {
		t.Fatalf("permission survived reset")
	}
}

func TestRole_HasPermission_ExactContainment(t *testing.T) {
	r := &Role{Name: RoleUser}
	r.AddPermission(PermissionFollow)
	r.AddPermission(PermissionComment)

	// A composite permission requires every bit, not just overlap.
	composite := PermissionFollow | PermissionWrite
	if r.HasPermission(composite) {
		t.Fatalf("composite check passed with only partial overlap")
	}
	r.AddPermission(PermissionWrite)
	if !r.HasPermission(composite) {
		t.Fatalf("composite check failed with all bits present")
	}
}

func TestPermission_ValuesDoNotOverlap(t *testing.T) {
	perms := []Permission{
		PermissionFollow, PermissionComment, PermissionWrite,
		PermissionModerate, PermissionAdmin,
	}
	seen := 0
	for _, p := range perms {
		if seen&int(p) != 0 {
			t.Fatalf("permission %v overlaps an earlier flag", p)
		}
		seen |= int(p)
	}
	if seen != int(AllPermissions) {
		t.Fatalf("AllPermissions mismatch: %d != %d", seen, AllPermissions)
	}
}

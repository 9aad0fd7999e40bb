package gormdb

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/AthrunAshy/flasky/internal/core/domain"
	"github.com/AthrunAshy/flasky/internal/core/service"
)

func setupTestDB(t *testing.T) (*RoleRepository, *UserRepository) {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	return NewRoleRepository(db), NewUserRepository(db)
}

func seedRoles(t *testing.T, roles *RoleRepository) {
	t.Helper()
	svc := service.NewRoleService(roles, zerolog.Nop())
	if err := svc.SeedRoles(context.Background()); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
}

func TestRoleRepository_SeedTwice(t *testing.T) {
	roles, _ := setupTestDB(t)
	svc := service.NewRoleService(roles, zerolog.Nop())

	if err := svc.SeedRoles(context.Background()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	first, err := roles.FindByName(context.Background(), domain.RoleAdministrator)
	if err != nil {
		t.Fatalf("find administrator: %v", err)
	}

	if err := svc.SeedRoles(context.Background()); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	second, err := roles.FindByName(context.Background(), domain.RoleAdministrator)
	if err != nil {
		t.Fatalf("find administrator again: %v", err)
	}

	// Exactly one row per name, same id and mask both times.
	if first.ID != second.ID {
		t.Fatalf("seeding duplicated the role row: id %d != %d", first.ID, second.ID)
	}
	if first.Permissions != second.Permissions || second.Permissions != 31 {
		t.Fatalf("administrator mask drifted: %d then %d", first.Permissions, second.Permissions)
	}
}

func TestRoleRepository_FindDefault(t *testing.T) {
	roles, _ := setupTestDB(t)
	seedRoles(t, roles)

	role, err := roles.FindDefault(context.Background())
	if err != nil {
		t.Fatalf("find default: %v", err)
	}
	if role.Name != domain.RoleUser {
		t.Fatalf("default role = %s, want %s", role.Name, domain.RoleUser)
	}
}

func TestRoleRepository_FindWithPermission(t *testing.T) {
	roles, _ := setupTestDB(t)
	seedRoles(t, roles)

	role, err := roles.FindWithPermission(context.Background(), domain.PermissionAdmin)
	if err != nil {
		t.Fatalf("find by permission: %v", err)
	}
	if role.Name != domain.RoleAdministrator {
		t.Fatalf("role with admin bit = %s", role.Name)
	}

	if _, err := roles.FindWithPermission(context.Background(), domain.Permission(1<<6)); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound for unassigned bit, got %v", err)
	}
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	roles, users := setupTestDB(t)
	seedRoles(t, roles)
	def, _ := roles.FindDefault(context.Background())

	newUser := func(email, username string) *domain.User {
		u := &domain.User{Email: email, Username: username, RoleID: def.ID}
		_ = u.SetPassword("password1")
		return u
	}

	if err := users.Create(context.Background(), newUser("a@example.com", "a")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := users.Create(context.Background(), newUser("a@example.com", "b")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("duplicate email: expected ErrUserExists, got %v", err)
	}
	if err := users.Create(context.Background(), newUser("b@example.com", "a")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("duplicate username: expected ErrUserExists, got %v", err)
	}
}

func TestUserRepository_FindPreloadsRole(t *testing.T) {
	roles, users := setupTestDB(t)
	seedRoles(t, roles)
	def, _ := roles.FindDefault(context.Background())

	u := &domain.User{Email: "a@example.com", Username: "a", RoleID: def.ID}
	_ = u.SetPassword("password1")
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := users.FindByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Role == nil || found.Role.Name != domain.RoleUser {
		t.Fatalf("role not resolved on lookup: %+v", found.Role)
	}
	if !found.Can(domain.PermissionWrite) {
		t.Fatalf("loaded user cannot write")
	}

	if _, err := users.FindByUsername(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_EmailTaken(t *testing.T) {
	roles, users := setupTestDB(t)
	seedRoles(t, roles)
	def, _ := roles.FindDefault(context.Background())

	u := &domain.User{Email: "a@example.com", Username: "a", RoleID: def.ID}
	_ = u.SetPassword("password1")
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("create: %v", err)
	}

	taken, err := users.EmailTaken(context.Background(), "a@example.com", 0)
	if err != nil || !taken {
		t.Fatalf("EmailTaken = %v, %v; want true", taken, err)
	}

	// The owner itself is excluded from the check.
	taken, err = users.EmailTaken(context.Background(), "a@example.com", u.ID)
	if err != nil || taken {
		t.Fatalf("EmailTaken excluding owner = %v, %v; want false", taken, err)
	}

	taken, err = users.EmailTaken(context.Background(), "free@example.com", 0)
	if err != nil || taken {
		t.Fatalf("EmailTaken for free address = %v, %v; want false", taken, err)
	}
}

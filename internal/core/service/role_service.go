package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/AthrunAshy/flasky/internal/core/domain"
	"github.com/AthrunAshy/flasky/internal/core/ports"
)

// canonicalRoles is the fixed role table the seeder converges the database
// to. Permissions are rebuilt from zero on every run so stale bits from an
// earlier definition never survive.
var canonicalRoles = []struct {
	name        string
	permissions []domain.Permission
	isDefault   bool
}{
	{domain.RoleUser, []domain.Permission{
		domain.PermissionFollow, domain.PermissionComment, domain.PermissionWrite,
	}, true},
	{domain.RoleModerator, []domain.Permission{
		domain.PermissionFollow, domain.PermissionComment, domain.PermissionWrite,
		domain.PermissionModerate,
	}, false},
	{domain.RoleAdministrator, []domain.Permission{
		domain.PermissionFollow, domain.PermissionComment, domain.PermissionWrite,
		domain.PermissionModerate, domain.PermissionAdmin,
	}, false},
}

// RoleService maintains the role table.
type RoleService struct {
	repo   ports.RoleRepository
	logger zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, logger zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, logger: logger}
}

// SeedRoles finds-or-creates each canonical role by name and overwrites its
// permission mask and default flag. Safe to run at every startup: repeated
// invocations leave exactly one row per role name with identical masks.
func (s *RoleService) SeedRoles(ctx context.Context) error {
	for _, def := range canonicalRoles {
		role, err := s.repo.FindByName(ctx, def.name)
		switch {
		case errors.Is(err, domain.ErrRoleNotFound):
			role = &domain.Role{Name: def.name}
		case err != nil:
			return err
		}

		role.ResetPermissions()
		for _, perm := range def.permissions {
			role.AddPermission(perm)
		}
		role.Default = def.isDefault

		if err := s.repo.Save(ctx, role); err != nil {
			return err
		}

		s.logger.Debug().
			Str("role", role.Name).
			Int("permissions", role.Permissions).
			Bool("default", role.Default).
			Msg("role seeded")
	}
	return nil
}

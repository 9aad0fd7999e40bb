package ports

import (
	"context"

	"github.com/AthrunAshy/flasky/internal/core/domain"
)

// RoleRepository is the persistence contract for roles.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	// FindDefault returns the role flagged as the default for new users.
	FindDefault(ctx context.Context) (*domain.Role, error)
	// FindWithPermission returns a role whose mask contains perm. Used to
	// resolve the administrator role at registration time.
	FindWithPermission(ctx context.Context, perm domain.Permission) (*domain.Role, error)
	// Save inserts the role or updates it in place when it already has an ID.
	Save(ctx context.Context, role *domain.Role) error
}

package ports

import (
	"context"

	"github.com/AthrunAshy/flasky/internal/core/domain"
)

// UserRepository is the persistence contract for user accounts. Lookups
// return the user with its role association resolved.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// EmailTaken reports whether a user other than excludeID already owns
	// email. Backs the email-change collision check.
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
}

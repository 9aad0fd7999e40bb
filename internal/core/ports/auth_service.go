package ports

import (
	"context"

	"github.com/AthrunAshy/flasky/internal/core/domain"
)

type AuthService interface {
	// Register creates an account and resolves its role exactly once:
	// the configured administrator address gets the role holding the admin
	// permission, everyone else gets the default role.
	Register(ctx context.Context, email, username, password string) (*domain.User, error)
	// Login verifies credentials and returns a signed session token.
	// remoteIP feeds the attempt throttle and may be empty.
	Login(ctx context.Context, email, password, remoteIP string) (string, *domain.User, error)
}

// LoginLimiter throttles repeated login attempts per account and address.
type LoginLimiter interface {
	// Allow returns domain.ErrLoginRateLimited when the attempt budget for
	// email or remoteIP is exhausted.
	Allow(ctx context.Context, email, remoteIP string) error
	// Reset clears the attempt counters after a successful login.
	Reset(ctx context.Context, email, remoteIP string) error
}

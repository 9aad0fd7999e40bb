package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/AthrunAshy/flasky/internal/api/metrics"
	"github.com/AthrunAshy/flasky/internal/core/domain"
	"github.com/AthrunAshy/flasky/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	users      ports.UserRepository
	roles      ports.RoleRepository
	limiter    ports.LoginLimiter
	jwtSecret  string
	adminEmail string
	sessionTTL time.Duration
	logger     zerolog.Logger
}

// NewAuthService wires the registration/login service. adminEmail is the
// configured administrator address; it is consulted once per registration,
// never re-evaluated afterwards. limiter may be nil, which disables login
// throttling.
func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, limiter ports.LoginLimiter,
	jwtSecret, adminEmail string, sessionTTL time.Duration, logger zerolog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		roles:      roles,
		limiter:    limiter,
		jwtSecret:  jwtSecret,
		adminEmail: normalizeEmail(adminEmail),
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Register creates a new account. Role resolution happens here, exactly
// once: the administrator address gets the role holding the admin
// permission, everyone else gets the role flagged default.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role, err := s.resolveRole(ctx, email)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:    email,
		Username: username,
		RoleID:   role.ID,
		Role:     role,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.Inc()
	s.logger.Info().
		Str("username", user.Username).
		Str("role", role.Name).
		Msg("user registered")

	return user, nil
}

// Login verifies credentials and mints a session token. Unknown accounts
// and wrong passwords both come back as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password, remoteIP string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.checkThrottle(ctx, email, remoteIP); err != nil {
		return "", nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.VerifyPassword(password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := s.sessionToken(user)
	if err != nil {
		return "", nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email, remoteIP); err != nil {
			s.logger.Warn().Err(err).Msg("login limiter reset failed")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return tok, user, nil
}

func (s *AuthService) resolveRole(ctx context.Context, email string) (*domain.Role, error) {
	if s.adminEmail != "" && email == s.adminEmail {
		return s.roles.FindWithPermission(ctx, domain.PermissionAdmin)
	}
	return s.roles.FindDefault(ctx)
}

// checkThrottle consults the limiter. The limiter being unreachable is not
// a reason to lock everyone out: anything other than an explicit rate-limit
// verdict fails open with a warning.
func (s *AuthService) checkThrottle(ctx context.Context, email, remoteIP string) error {
	if s.limiter == nil {
		return nil
	}
	err := s.limiter.Allow(ctx, email, remoteIP)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrLoginRateLimited) {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		s.logger.Warn().Str("email", email).Msg("login throttled")
		return domain.ErrLoginRateLimited
	}
	s.logger.Warn().Err(err).Msg("login limiter unavailable")
	return nil
}

// normalizeEmail is the single canonical form for addresses: every lookup,
// uniqueness check, and stored value goes through it, so an account can
// always be found under the spelling it was written with.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) sessionToken(user *domain.User) (string, error) {
	mask := 0
	roleName := ""
	if user.Role != nil {
		mask = user.Role.Permissions
		roleName = user.Role.Name
	}

	claims := jwt.MapClaims{
		"uid":      user.ID,
		"username": user.Username,
		"role":     roleName,
		"perms":    mask,
		"exp":      time.Now().Add(s.sessionTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

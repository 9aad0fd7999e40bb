package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/AthrunAshy/flasky/internal/core/domain"
	"github.com/AthrunAshy/flasky/internal/core/ports"
)

type stubUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Role != nil {
		role := *u.Role
		clone.Role = &role
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return domain.ErrUserExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) EmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	for id, u := range r.users {
		if id != excludeID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type stubRoleRepo struct {
	roles map[string]*domain.Role
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[string]*domain.Role)}
}

// seeded returns a role repo pre-populated with the canonical three roles.
func seededRoleRepo() *stubRoleRepo {
	repo := newStubRoleRepo()
	repo.roles[domain.RoleUser] = &domain.Role{
		ID: 1, Name: domain.RoleUser, Default: true,
		Permissions: int(domain.PermissionFollow | domain.PermissionComment | domain.PermissionWrite),
	}
	repo.roles[domain.RoleModerator] = &domain.Role{
		ID: 2, Name: domain.RoleModerator,
		Permissions: int(domain.PermissionFollow | domain.PermissionComment | domain.PermissionWrite | domain.PermissionModerate),
	}
	repo.roles[domain.RoleAdministrator] = &domain.Role{
		ID: 3, Name: domain.RoleAdministrator,
		Permissions: int(domain.AllPermissions),
	}
	return repo
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	if role, ok := r.roles[name]; ok {
		copy := *role
		return &copy, nil
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) FindDefault(_ context.Context) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.Default {
			copy := *role
			return &copy, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) FindWithPermission(_ context.Context, perm domain.Permission) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.HasPermission(perm) {
			copy := *role
			return &copy, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) Save(_ context.Context, role *domain.Role) error {
	if role.ID == 0 {
		role.ID = uint(len(r.roles) + 1)
	}
	copy := *role
	r.roles[role.Name] = &copy
	return nil
}

type stubLimiter struct {
	allowErr error
	resets   int
}

func (l *stubLimiter) Allow(context.Context, string, string) error { return l.allowErr }
func (l *stubLimiter) Reset(context.Context, string, string) error { l.resets++; return nil }

func newTestAuthService(users *stubUserRepo, roles *stubRoleRepo, limiter ports.LoginLimiter) *AuthService {
	return NewAuthService(users, roles, limiter, "secret", "admin@example.com", time.Hour, zerolog.Nop())
}

func TestAuthService_Register_DefaultRole(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), seededRoleRepo(), nil)

	user, err := svc.Register(context.Background(), "alice@example.com", "alice", "password1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role == nil || user.Role.Name != domain.RoleUser {
		t.Fatalf("expected default role, got %+v", user.Role)
	}
	if user.Can(domain.PermissionAdmin) {
		t.Fatalf("regular user can admin")
	}
	if !user.Can(domain.PermissionWrite) {
		t.Fatalf("regular user cannot write")
	}
	if user.PasswordHash == "password1" {
		t.Fatalf("password stored in plaintext")
	}
}

func TestAuthService_Register_AdminEmail(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), seededRoleRepo(), nil)

	user, err := svc.Register(context.Background(), "admin@example.com", "root", "password1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role == nil || user.Role.Name != domain.RoleAdministrator {
		t.Fatalf("expected administrator role, got %+v", user.Role)
	}
	if !user.IsAdministrator() {
		t.Fatalf("admin user is not administrator")
	}
	if !user.Can(domain.PermissionModerate) {
		t.Fatalf("administrator cannot moderate")
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAuthService(users, seededRoleRepo(), nil)

	if _, err := svc.Register(context.Background(), "bob@example.com", "bob", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", "bob2", "password1"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "other@example.com", "bob", "password1"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate username, got %v", err)
	}
}

func TestAuthService_Register_EmptyInput(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), seededRoleRepo(), nil)

	if _, err := svc.Register(context.Background(), "", "bob", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAuthService(users, seededRoleRepo(), nil)

	if _, err := svc.Register(context.Background(), "carol@example.com", "carol", "s3cret99"); err != nil {
		t.Fatalf("register: %v", err)
	}

	tok, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret99", "10.0.0.1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user == nil || user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tok, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("session token invalid: %v", err)
	}
	if claims["role"] != domain.RoleUser {
		t.Fatalf("role claim = %v", claims["role"])
	}
	if int(claims["perms"].(float64)) != 7 {
		t.Fatalf("perms claim = %v, want 7", claims["perms"])
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), seededRoleRepo(), nil)

	_, _ = svc.Register(context.Background(), "dave@example.com", "dave", "goodpass99")
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownAccount(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), seededRoleRepo(), nil)

	// Unknown accounts look identical to wrong passwords.
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	limiter := &stubLimiter{allowErr: domain.ErrLoginRateLimited}
	svc := newTestAuthService(newStubUserRepo(), seededRoleRepo(), limiter)

	if _, _, err := svc.Login(context.Background(), "any@example.com", "pass", ""); !errors.Is(err, domain.ErrLoginRateLimited) {
		t.Fatalf("expected ErrLoginRateLimited, got %v", err)
	}
}

func TestAuthService_Login_LimiterFailsOpen(t *testing.T) {
	users := newStubUserRepo()
	limiter := &stubLimiter{allowErr: errors.New("redis down")}
	svc := newTestAuthService(users, seededRoleRepo(), limiter)

	if _, err := svc.Register(context.Background(), "erin@example.com", "erin", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// A broken limiter must not lock every account out.
	if _, _, err := svc.Login(context.Background(), "erin@example.com", "password1", ""); err != nil {
		t.Fatalf("login with unavailable limiter: %v", err)
	}
}

func TestAuthService_Login_ResetsCounters(t *testing.T) {
	users := newStubUserRepo()
	limiter := &stubLimiter{}
	svc := newTestAuthService(users, seededRoleRepo(), limiter)

	_, _ = svc.Register(context.Background(), "fay@example.com", "fay", "password1")
	if _, _, err := svc.Login(context.Background(), "fay@example.com", "password1", ""); err != nil {
		t.Fatalf("login: %v", err)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected 1 limiter reset, got %d", limiter.resets)
	}
}

package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Actor is the capability-check contract shared by authenticated users and
// the anonymous sentinel. Callers branch on capabilities, never on nil.
type Actor interface {
	Can(perm Permission) bool
	IsAdministrator() bool
	IsAuthenticated() bool
}

// User models a registered identity. Email and Username are two independent
// uniqueness invariants; PasswordHash only ever holds a bcrypt digest.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:64;uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	Confirmed    bool      `json:"confirmed" gorm:"default:false"`
	RoleID       uint      `json:"role_id"`
	Role         *Role     `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Password is write-only. Reading it is a programming error and always
// fails with ErrPasswordWriteOnly; there is nothing to read back.
func (u *User) Password() (string, error) {
	return "", ErrPasswordWriteOnly
}

// SetPassword stores a salted bcrypt digest of plaintext. The plaintext is
// never persisted or logged.
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword reports whether candidate matches the stored digest.
// A mismatch is false, not an error.
func (u *User) VerifyPassword(candidate string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// Can reports whether the user's role grants perm. Users without a resolved
// role can do nothing.
func (u *User) Can(perm Permission) bool {
	return u.Role != nil && u.Role.HasPermission(perm)
}

func (u *User) IsAdministrator() bool {
	return u.Can(PermissionAdmin)
}

func (u *User) IsAuthenticated() bool {
	return true
}

// AnonymousUser stands in for "no authenticated user". It satisfies Actor
// and always answers no, which keeps nil-checks out of calling code.
type AnonymousUser struct{}

func (AnonymousUser) Can(Permission) bool   { return false }
func (AnonymousUser) IsAdministrator() bool { return false }
func (AnonymousUser) IsAuthenticated() bool { return false }

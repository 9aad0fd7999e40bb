package ports

import "context"

// AccountService owns the token-driven account workflows: email
// confirmation, password reset, and email change. Mint operations return
// the opaque token for the caller to deliver (mail transport is out of
// scope); apply operations collapse every failure to false.
type AccountService interface {
	ConfirmationToken(ctx context.Context, userID uint) (string, error)
	// Confirm marks the user as confirmed when tok was minted for exactly
	// this user and is still valid.
	Confirm(ctx context.Context, userID uint, tok string) bool

	// ResetToken returns a reset token for the account owning email, or an
	// empty token when no such account exists. The empty case is not an
	// error, so the operation can't be used to enumerate accounts.
	ResetToken(ctx context.Context, email string) (string, error)
	// ResetPassword sets a new password for the user embedded in tok.
	// The acting user is not known at call time.
	ResetPassword(ctx context.Context, tok, newPassword string) bool

	EmailChangeToken(ctx context.Context, userID uint, newEmail string) (string, error)
	// ChangeEmail rewrites the user's email when tok matches the user, the
	// embedded address is present, and no other account owns it.
	ChangeEmail(ctx context.Context, userID uint, tok string) bool
}

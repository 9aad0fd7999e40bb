package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/AthrunAshy/flasky/internal/api/metrics"
	"github.com/AthrunAshy/flasky/internal/core/domain"
	"github.com/AthrunAshy/flasky/internal/core/ports"
	"github.com/AthrunAshy/flasky/internal/core/token"
)

// AccountService drives the signed-token account workflows. Every apply
// operation verifies first and mutates only on success, so a failed
// verification never leaves partial state behind; and every failure mode
// collapses to false, so the service can't be probed for why a token was
// rejected.
type AccountService struct {
	users  ports.UserRepository
	codec  *token.Codec
	logger zerolog.Logger
}

func NewAccountService(users ports.UserRepository, codec *token.Codec, logger zerolog.Logger) *AccountService {
	return &AccountService{users: users, codec: codec, logger: logger}
}

// ConfirmationToken mints a confirmation token for the given user.
func (s *AccountService) ConfirmationToken(ctx context.Context, userID uint) (string, error) {
	tok, err := s.codec.Sign(token.PurposeConfirm, userID, "")
	if err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(token.PurposeConfirm)).Inc()
	return tok, nil
}

// Confirm validates tok against userID and marks the account confirmed.
// A token minted for a different user fails even when otherwise valid.
func (s *AccountService) Confirm(ctx context.Context, userID uint, tok string) bool {
	payload, ok := s.codec.Verify(tok, token.PurposeConfirm)
	if !ok || payload.UserID != userID {
		metrics.TokensRejectedTotal.WithLabelValues(string(token.PurposeConfirm)).Inc()
		return false
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		metrics.TokensRejectedTotal.WithLabelValues(string(token.PurposeConfirm)).Inc()
		return false
	}
	if user.Confirmed {
		return true
	}

	user.Confirmed = true
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Uint("user_id", userID).Msg("confirm: update failed")
		return false
	}

	s.logger.Info().Uint("user_id", userID).Msg("account confirmed")
	return true
}

// ResetToken mints a password-reset token for the account owning email.
// Unknown addresses return an empty token without error, so the caller
// behaves identically whether or not the account exists.
func (s *AccountService) ResetToken(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}

	tok, err := s.codec.Sign(token.PurposeReset, user.ID, "")
	if err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(token.PurposeReset)).Inc()
	return tok, nil
}

// ResetPassword sets newPassword for the user embedded in tok. The acting
// user is not known up front; the token alone identifies the account.
func (s *AccountService) ResetPassword(ctx context.Context, tok, newPassword string) bool {
	payload, ok := s.codec.Verify(tok, token.PurposeReset)
	if !ok || newPassword == "" {
		metrics.TokensRejectedTotal.WithLabelValues(string(token.PurposeReset)).Inc()
		return false
	}

	user, err := s.users.FindByID(ctx, payload.UserID)
	if err != nil {
		metrics.TokensRejectedTotal.WithLabelValues(string(token.PurposeReset)).Inc()
		return false
	}

	if err := user.SetPassword(newPassword); err != nil {
		return false
	}
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Msg("reset: update failed")
		return false
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("password reset")
	return true
}

// EmailChangeToken mints a token binding userID to newEmail. The address
// is stored lowercased everywhere, so it is canonicalized before signing.
func (s *AccountService) EmailChangeToken(ctx context.Context, userID uint, newEmail string) (string, error) {
	tok, err := s.codec.Sign(token.PurposeChangeEmail, userID, normalizeEmail(newEmail))
	if err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(token.PurposeChangeEmail)).Inc()
	return tok, nil
}

// ChangeEmail applies the address embedded in tok to the acting user. The
// target address must not belong to any other account; a collision is
// indistinguishable from an invalid token. The uniqueness check and the
// write are two steps, so a concurrent claim of the same address can slip
// between them; the unique index on email closes that race, and the
// resulting write failure also collapses to false.
func (s *AccountService) ChangeEmail(ctx context.Context, userID uint, tok string) bool {
	payload, ok := s.codec.Verify(tok, token.PurposeChangeEmail)
	if !ok || payload.UserID != userID || payload.NewEmail == "" {
		metrics.TokensRejectedTotal.WithLabelValues(string(token.PurposeChangeEmail)).Inc()
		return false
	}

	// Canonicalize again: the mint path lowercases, but the address the
	// account ends up with must never depend on how the token was produced.
	newEmail := normalizeEmail(payload.NewEmail)

	taken, err := s.users.EmailTaken(ctx, newEmail, userID)
	if err != nil || taken {
		metrics.TokensRejectedTotal.WithLabelValues(string(token.PurposeChangeEmail)).Inc()
		return false
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false
	}

	user.Email = newEmail
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Uint("user_id", userID).Msg("change email: update failed")
		return false
	}

	s.logger.Info().Uint("user_id", userID).Msg("email changed")
	return true
}

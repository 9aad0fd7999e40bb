package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AthrunAshy/flasky/internal/core/ports"
)

// AccountHandler exposes the token-driven account workflows. Mint endpoints
// return the opaque token in the response body; delivering it to the user
// (normally by email) is outside this service.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type tokenResponse struct {
	Token string `json:"token,omitempty"`
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type emailChangeRequest struct {
	NewEmail string `json:"new_email" validate:"required,email"`
}

// ResendConfirmation mints a fresh confirmation token for the logged-in user.
//
// @Summary      Request a confirmation token
// @Tags         account
// @Produce      json
// @Success      200  {object}  tokenResponse
// @Router       /account/confirm [post]
func (h *AccountHandler) ResendConfirmation(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	tok, err := h.accounts.ConfirmationToken(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: tok})
}

// Confirm applies a confirmation token to the logged-in user.
//
// @Summary      Confirm the account email
// @Tags         account
// @Produce      json
// @Param        token  path  string  true  "Confirmation token"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /account/confirm/{token} [post]
func (h *AccountHandler) Confirm(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if !h.accounts.Confirm(c.Request().Context(), uid, c.Param("token")) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid or expired token"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "confirmed"})
}

// RequestReset mints a password-reset token. The response is identical
// whether or not the address belongs to an account.
//
// @Summary      Request a password reset token
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body  resetRequest  true  "Account email"
// @Success      200  {object}  tokenResponse
// @Router       /auth/reset [post]
func (h *AccountHandler) RequestReset(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	tok, err := h.accounts.ResetToken(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: tok})
}

// ResetPassword applies a reset token. No session is required; the token
// identifies the account.
//
// @Summary      Reset the password with a token
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        token  path  string                true  "Reset token"
// @Param        body   body  resetPasswordRequest  true  "New password"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /auth/reset/{token} [post]
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if !h.accounts.ResetPassword(c.Request().Context(), c.Param("token"), req.Password) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid or expired token"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "password updated"})
}

// RequestEmailChange mints an email-change token bound to the logged-in
// user and the requested address.
//
// @Summary      Request an email change token
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body  emailChangeRequest  true  "New address"
// @Success      200  {object}  tokenResponse
// @Router       /account/email [post]
func (h *AccountHandler) RequestEmailChange(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req emailChangeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	tok, err := h.accounts.EmailChangeToken(c.Request().Context(), uid, req.NewEmail)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: tok})
}

// ChangeEmail applies an email-change token to the logged-in user.
//
// @Summary      Apply an email change token
// @Tags         account
// @Produce      json
// @Param        token  path  string  true  "Email change token"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /account/email/{token} [post]
func (h *AccountHandler) ChangeEmail(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if !h.accounts.ChangeEmail(c.Request().Context(), uid, c.Param("token")) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid or expired token"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "email updated"})
}

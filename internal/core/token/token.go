// Package token implements the signed-token codec shared by the email
// confirmation, password reset, and email change flows. A token is an opaque
// HS256-signed string carrying a purpose, a user id, and an expiration.
//
// Verification fails closed: expiry, bad signature, malformed input, and a
// purpose mismatch all collapse to a single boolean failure so that the
// caller can't be used as an oracle for token validity.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose names the workflow a token belongs to. A token minted for one
// purpose never verifies under another.
type Purpose string

const (
	PurposeConfirm     Purpose = "confirm"
	PurposeReset       Purpose = "reset"
	PurposeChangeEmail Purpose = "change_email"
)

// DefaultTTL is the expiration window applied when the codec is built
// without an explicit one.
const DefaultTTL = time.Hour

// Payload is the decoded content of a valid token.
type Payload struct {
	UserID   uint
	NewEmail string
}

type signedClaims struct {
	Purpose  Purpose `json:"purpose"`
	UserID   uint    `json:"uid"`
	NewEmail string  `json:"new_email,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies workflow tokens with the application's master
// secret. It is stateless and safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Sign mints a token for the given purpose and user with the codec's TTL.
// newEmail is only meaningful for PurposeChangeEmail and ignored elsewhere.
func (c *Codec) Sign(purpose Purpose, userID uint, newEmail string) (string, error) {
	return c.SignWithTTL(purpose, userID, newEmail, c.ttl)
}

// SignWithTTL mints a token with an explicit expiration window. A zero or
// negative TTL produces a token that is already expired and will never
// verify, matching the semantics of an expiration in the past.
func (c *Codec) SignWithTTL(purpose Purpose, userID uint, newEmail string, ttl time.Duration) (string, error) {
	if purpose != PurposeChangeEmail {
		newEmail = ""
	}

	now := time.Now()
	claims := signedClaims{
		Purpose:  purpose,
		UserID:   userID,
		NewEmail: newEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify decodes raw and returns its payload when the signature is valid,
// the token is not expired, and the embedded purpose matches. Any failure
// returns ok=false with a zero payload; the reason is deliberately not
// distinguished.
func (c *Codec) Verify(raw string, purpose Purpose) (Payload, bool) {
	claims := &signedClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return Payload{}, false
	}
	if claims.Purpose != purpose {
		return Payload{}, false
	}
	return Payload{UserID: claims.UserID, NewEmail: claims.NewEmail}, true
}

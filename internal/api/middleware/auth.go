package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Auth validates the session JWT and injects its claims into the request
// context: uid, username, role, and the permission mask under "perms".
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("uid", claimUint(claims, "uid"))
			c.Set("username", claims["username"])
			c.Set("role", claims["role"])
			c.Set("perms", claimInt(claims, "perms"))

			return next(c)
		}
	}
}

// JSON numbers decode as float64; the claims were written as integers.
func claimUint(claims jwt.MapClaims, key string) uint {
	if f, ok := claims[key].(float64); ok {
		return uint(f)
	}
	return 0
}

func claimInt(claims jwt.MapClaims, key string) int {
	if f, ok := claims[key].(float64); ok {
		return int(f)
	}
	return 0
}

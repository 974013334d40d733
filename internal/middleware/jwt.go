// Package middleware contains the reusable Echo middleware of the
// service: bearer-token validation, role resolution and enforcement,
// Redis-backed rate limiting and response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys populated by JWTAuth and ResolveIdentity.
const (
	CtxUserID    = "user_id"    // uint64 subject of the access token
	CtxClaimRole = "claim_role" // role string as carried in the token
	CtxRole      = "role"       // effective role after database resolution
)

// JWTAuth returns middleware that validates a Bearer access token and
// stores the subject and role claim in the request context.  The
// secret must match the one used when issuing tokens.  The role put in
// context here is only the claim; ResolveIdentity replaces it with the
// effective role before any RequireRole check runs.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// The sub claim round-trips through JSON as float64.
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
			}
			c.Set(CtxUserID, uint64(sub))
			if role, ok := claims["role"].(string); ok {
				c.Set(CtxClaimRole, role)
			}
			return next(c)
		}
	}
}

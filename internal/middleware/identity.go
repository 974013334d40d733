package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/booking"
	"github.com/evently/venue-booking/internal/repository"
)

// ResolveIdentity replaces the token's role claim with the effective
// role looked up through the resolver chain (auth_roles, legacy
// users_roles, then the claim itself).  Must run after JWTAuth.
func ResolveIdentity(roles repository.RoleResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(CtxUserID).(uint64)
			claimRole, _ := c.Get(CtxClaimRole).(string)
			c.Set(CtxRole, roles.ResolveRole(c.Request().Context(), userID, claimRole))
			return next(c)
		}
	}
}

// Actor builds the booking identity of the authenticated request.
// Returns ok=false when auth middleware did not run on this route.
func Actor(c echo.Context) (booking.Identity, bool) {
	userID, ok := c.Get(CtxUserID).(uint64)
	if !ok || userID == 0 {
		return booking.Identity{}, false
	}
	role, _ := c.Get(CtxRole).(string)
	if role == "" {
		role, _ = c.Get(CtxClaimRole).(string)
	}
	return booking.Identity{UserID: userID, Role: role}, true
}

// cacheIdentity derives the per-account key component used by the
// response cache and the rate limiter.  Both run before JWTAuth, so
// the resolved user ID is usually absent; a request that carries
// credentials is keyed by a hash of them instead of being lumped into
// the anonymous bucket.
func cacheIdentity(c echo.Context) string {
	if userID, ok := c.Get(CtxUserID).(uint64); ok && userID > 0 {
		return "u" + strconv.FormatUint(userID, 10)
	}
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); auth != "" {
		sum := sha256.Sum256([]byte(auth))
		return "t" + hex.EncodeToString(sum[:8])
	}
	return "guest"
}

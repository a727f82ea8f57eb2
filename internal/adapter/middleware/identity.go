package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the external auth layer. The core trusts the
// values; it does not validate session integrity.
const (
	HeaderUserID      = "X-User-Id"
	HeaderUserRole    = "X-User-Role"
	HeaderKYCVerified = "X-Kyc-Verified"
)

const (
	ContextUserID      = "identity.user_id"
	ContextUserRole    = "identity.role"
	ContextKYCVerified = "identity.kyc_verified"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

var knownRoles = map[string]struct{}{
	"seller":   {},
	"buyer":    {},
	"investor": {},
}

// RequireIdentity rejects requests without a well-formed identity and
// stashes user id, role and KYC flag on the context for the handlers.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if !reHex32.MatchString(userID) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or invalid " + HeaderUserID})
			}
			role := strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderUserRole)))
			if _, ok := knownRoles[role]; !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or invalid " + HeaderUserRole})
			}
			c.Set(ContextUserID, userID)
			c.Set(ContextUserRole, role)
			c.Set(ContextKYCVerified, strings.EqualFold(c.Request().Header.Get(HeaderKYCVerified), "true"))
			return next(c)
		}
	}
}

// UserID returns the authenticated user id stashed by RequireIdentity.
func UserID(c echo.Context) string {
	v, _ := c.Get(ContextUserID).(string)
	return v
}

func Role(c echo.Context) string {
	v, _ := c.Get(ContextUserRole).(string)
	return v
}

func KYCVerified(c echo.Context) bool {
	v, _ := c.Get(ContextKYCVerified).(bool)
	return v
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func identityEcho(handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(RequireIdentity())
	e.GET("/whoami", handler)
	return e
}

func TestRequireIdentity_StashesIdentity(t *testing.T) {
	userID := strings.Repeat("a", 32)
	e := identityEcho(func(c echo.Context) error {
		if UserID(c) != userID {
			t.Errorf("UserID = %q", UserID(c))
		}
		if Role(c) != "investor" {
			t.Errorf("Role = %q", Role(c))
		}
		if !KYCVerified(c) {
			t.Error("KYCVerified = false, want true")
		}
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderUserID, userID)
	req.Header.Set(HeaderUserRole, "Investor") // role is case-insensitive
	req.Header.Set(HeaderKYCVerified, "true")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireIdentity_RejectsBadUserID(t *testing.T) {
	e := identityEcho(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, userID := range []string{
		"",
		"short",
		strings.Repeat("A", 32),              // uppercase
		strings.Repeat("g", 32),              // non-hex
		"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c", // dashed
	} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(HeaderUserID, userID)
		req.Header.Set(HeaderUserRole, "seller")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("user id %q: status = %d, want 401", userID, rec.Code)
		}
	}
}

func TestRequireIdentity_RejectsUnknownRole(t *testing.T) {
	e := identityEcho(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, role := range []string{"", "admin", "borrower"} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(HeaderUserID, strings.Repeat("a", 32))
		req.Header.Set(HeaderUserRole, role)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("role %q: status = %d, want 401", role, rec.Code)
		}
	}
}

func TestRequireIdentity_KYCDefaultsFalse(t *testing.T) {
	e := identityEcho(func(c echo.Context) error {
		if KYCVerified(c) {
			t.Error("KYCVerified = true without header")
		}
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderUserID, strings.Repeat("a", 32))
	req.Header.Set(HeaderUserRole, "seller")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

package httpapi

import (
	"chat-relay/domain"
	apperrors "chat-relay/errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// withIdentity authenticates the request from a bearer token and stores the
// resulting identity on the echo context.
func (s *Server) withIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		credential, found := strings.CutPrefix(header, "Bearer ")
		if !found || credential == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		identity, err := s.verifier.Verify(c.Request().Context(), credential)
		if err != nil {
			return apperrors.MapToHTTPError(err)
		}

		c.Set(identityKey, identity)
		return next(c)
	}
}

func (s *Server) adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := identityFrom(c)
		if !identity.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}

func identityFrom(c echo.Context) domain.Identity {
	identity, _ := c.Get(identityKey).(domain.Identity)
	return identity
}

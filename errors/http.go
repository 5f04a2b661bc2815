package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// MapToHTTPError translates domain sentinel errors into echo HTTP errors.
// Unknown errors become a 500 without leaking internal details.
func MapToHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrRoomNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUserAlreadyExists), errors.Is(err, ErrRoomAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidPassword), errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrInvalidRoomName):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrPersistence):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

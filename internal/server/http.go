package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/auth"
	"github.com/stocknest/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// NewEcho builds the HTTP surface: recovery, identity resolution, and a
// central mapping from core error kinds to status codes. Handlers return
// core errors untranslated.
func NewEcho(log logger.ZapLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := "internal error"

		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &httpErr):
			status = httpErr.Code
			msg = http.StatusText(status)
			if s, ok := httpErr.Message.(string); ok {
				msg = s
			}
		case errors.Is(err, apperrors.ErrValidation):
			status, msg = http.StatusBadRequest, err.Error()
		case errors.Is(err, apperrors.ErrNotFound):
			status, msg = http.StatusNotFound, err.Error()
		case errors.Is(err, apperrors.ErrInsufficientStock),
			errors.Is(err, apperrors.ErrConcurrentModification),
			errors.Is(err, apperrors.ErrInvalidTransition):
			status, msg = http.StatusConflict, err.Error()
		default:
			log.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
		}

		if writeErr := c.JSON(status, ErrorResponse{Error: msg}); writeErr != nil {
			log.Error("failed to write error response", zap.Error(writeErr))
		}
	}

	return e
}

// Identity resolves the caller from request headers. The upstream gateway
// authenticates and forwards the resolved tenant/user; a request with no
// tenant is rejected here.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID := c.Request().Header.Get("X-Tenant-ID")
			if tenantID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing tenant")
			}
			userID := c.Request().Header.Get("X-User-ID")

			ctx := auth.WithIdentity(c.Request().Context(), auth.Identity{
				TenantID: tenantID,
				UserID:   userID,
			})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/auth"
	"github.com/stocknest/inventory-service/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperrors.Validationf("bad input"), http.StatusBadRequest},
		{"not found", apperrors.NotFoundf("product x"), http.StatusNotFound},
		{"insufficient stock", apperrors.ErrInsufficientStock, http.StatusConflict},
		{"version conflict", apperrors.ErrConcurrentModification, http.StatusConflict},
		{"invalid transition", apperrors.InvalidTransitionf("PENDING -> COMPLETED"), http.StatusConflict},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEcho(logger.NewNop())
			e.GET("/boom", func(echo.Context) error { return tc.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/json")
		})
	}
}

func TestIdentity_RejectsMissingTenant(t *testing.T) {
	e := NewEcho(logger.NewNop())
	g := e.Group("/api", Identity())
	g.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentity_PropagatesTenantAndUser(t *testing.T) {
	e := NewEcho(logger.NewNop())
	g := e.Group("/api", Identity())

	var gotTenant, gotUser string
	g.GET("/ping", func(c echo.Context) error {
		ctx := c.Request().Context()
		gotTenant = auth.TenantID(ctx)
		gotUser = auth.UserID(ctx)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-Tenant-ID", "t1")
	req.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t1", gotTenant)
	assert.Equal(t, "u1", gotUser)
}

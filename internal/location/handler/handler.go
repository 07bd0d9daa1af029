package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/auth"
	"github.com/stocknest/inventory-service/internal/location"
	"github.com/stocknest/inventory-service/internal/location/dto"
	"github.com/stocknest/inventory-service/pkg/logger"
)

type LocationHandler struct {
	uc  location.UseCase
	log logger.ZapLogger
}

func NewLocationHandler(uc location.UseCase, log logger.ZapLogger) *LocationHandler {
	return &LocationHandler{uc: uc, log: log}
}

func (h *LocationHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/locations", h.Create)
	g.GET("/locations", h.List)
	g.GET("/locations/:id", h.Get)
	g.PUT("/locations/:id", h.Update)
	g.DELETE("/locations/:id", h.Deactivate)
}

type locationRequest struct {
	Name      string `json:"name"`
	IsPrimary bool   `json:"is_primary"`
	IsActive  *bool  `json:"is_active"`
}

func (h *LocationHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req locationRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validationf("invalid request body")
	}

	loc, err := h.uc.CreateLocation(ctx, &dto.CreateLocationInput{
		TenantID:  auth.TenantID(ctx),
		Name:      req.Name,
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, loc)
}

func (h *LocationHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	loc, err := h.uc.GetLocation(ctx, auth.TenantID(ctx), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loc)
}

func (h *LocationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	filters := &dto.LocationFilters{TenantID: auth.TenantID(ctx)}
	if v := c.QueryParam("is_active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}
	filters.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filters.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	locations, total, err := h.uc.ListLocations(ctx, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"locations": locations, "total": total})
}

func (h *LocationHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req locationRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validationf("invalid request body")
	}

	input := &dto.UpdateLocationInput{
		ID:        c.Param("id"),
		TenantID:  auth.TenantID(ctx),
		Name:      req.Name,
		IsPrimary: req.IsPrimary,
		IsActive:  true,
	}
	if req.IsActive != nil {
		input.IsActive = *req.IsActive
	}

	loc, err := h.uc.UpdateLocation(ctx, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loc)
}

func (h *LocationHandler) Deactivate(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.uc.DeactivateLocation(ctx, auth.TenantID(ctx), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

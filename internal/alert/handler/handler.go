package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/stocknest/inventory-service/internal/alert"
	"github.com/stocknest/inventory-service/internal/alert/dto"
	"github.com/stocknest/inventory-service/internal/auth"
	"github.com/stocknest/inventory-service/pkg/logger"
)

type AlertHandler struct {
	uc  alert.UseCase
	log logger.ZapLogger
}

func NewAlertHandler(uc alert.UseCase, log logger.ZapLogger) *AlertHandler {
	return &AlertHandler{uc: uc, log: log}
}

func (h *AlertHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/alerts", h.List)
	g.PATCH("/alerts/:id/read", h.MarkRead)
	g.POST("/alerts/read-all", h.MarkAllRead)
}

func (h *AlertHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	filters := &dto.AlertFilters{
		TenantID:   auth.TenantID(ctx),
		ProductID:  c.QueryParam("product_id"),
		AlertType:  c.QueryParam("alert_type"),
		UnreadOnly: c.QueryParam("unread_only") == "true",
	}
	filters.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filters.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	alerts, total, err := h.uc.ListAlerts(ctx, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"alerts": alerts, "total": total})
}

func (h *AlertHandler) MarkRead(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.uc.MarkRead(ctx, auth.TenantID(ctx), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AlertHandler) MarkAllRead(c echo.Context) error {
	ctx := c.Request().Context()
	updated, err := h.uc.MarkAllRead(ctx, auth.TenantID(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": updated})
}

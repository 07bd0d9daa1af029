package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/auth"
	"github.com/stocknest/inventory-service/internal/ledger"
	"github.com/stocknest/inventory-service/internal/ledger/dto"
	"github.com/stocknest/inventory-service/pkg/logger"
)

type LedgerHandler struct {
	uc  ledger.UseCase
	log logger.ZapLogger
}

func NewLedgerHandler(uc ledger.UseCase, log logger.ZapLogger) *LedgerHandler {
	return &LedgerHandler{uc: uc, log: log}
}

func (h *LedgerHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/stock/quantity", h.GetQuantity)
	g.GET("/stock/levels", h.ListLevels)
	g.GET("/stock/events", h.ListEvents)
	g.GET("/products/:id/history", h.History)
}

func (h *LedgerHandler) GetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	productID := c.QueryParam("product_id")
	if productID == "" {
		return apperrors.Validationf("product_id is required")
	}

	var locationID *string
	if v := c.QueryParam("location_id"); v != "" {
		locationID = &v
	}

	qty, err := h.uc.GetQuantity(ctx, auth.TenantID(ctx), productID, locationID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"product_id": productID,
		"quantity":   qty,
	})
}

func (h *LedgerHandler) History(c echo.Context) error {
	ctx := c.Request().Context()
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	events, err := h.uc.History(ctx, auth.TenantID(ctx), c.Param("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

func (h *LedgerHandler) ListLevels(c echo.Context) error {
	ctx := c.Request().Context()

	filters := &dto.LevelFilters{
		TenantID:  auth.TenantID(ctx),
		ProductID: c.QueryParam("product_id"),
		LowStock:  c.QueryParam("low_stock") == "true",
	}
	if v := c.QueryParam("location_id"); v != "" {
		filters.LocationID = &v
	}
	filters.Page, filters.PageSize = pagination(c)

	levels, total, err := h.uc.ListLevels(ctx, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"levels": levels, "total": total})
}

func (h *LedgerHandler) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()

	filters := &dto.EventFilters{
		TenantID:  auth.TenantID(ctx),
		ProductID: c.QueryParam("product_id"),
		EventType: c.QueryParam("event_type"),
	}
	filters.Page, filters.PageSize = pagination(c)

	events, total, err := h.uc.ListEvents(ctx, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events, "total": total})
}

func pagination(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	return page, size
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/auth"
	"github.com/stocknest/inventory-service/internal/sales"
	"github.com/stocknest/inventory-service/internal/sales/dto"
	"github.com/stocknest/inventory-service/pkg/logger"
)

type SalesHandler struct {
	uc  sales.UseCase
	log logger.ZapLogger
}

func NewSalesHandler(uc sales.UseCase, log logger.ZapLogger) *SalesHandler {
	return &SalesHandler{uc: uc, log: log}
}

func (h *SalesHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/stock/adjust", h.Adjust)
	g.POST("/sales", h.Sell)
	g.GET("/sales", h.List)
	g.GET("/sales/:id", h.Get)
}

type adjustRequest struct {
	ProductID      string  `json:"product_id"`
	LocationID     *string `json:"location_id"`
	QuantityChange int64   `json:"quantity_change"`
	ChangeType     string  `json:"change_type"`
	Note           string  `json:"note"`
}

func (h *SalesHandler) Adjust(c echo.Context) error {
	ctx := c.Request().Context()

	var req adjustRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validationf("invalid request body")
	}

	result, err := h.uc.Adjust(ctx, &dto.AdjustInput{
		TenantID:       auth.TenantID(ctx),
		ProductID:      req.ProductID,
		LocationID:     req.LocationID,
		QuantityChange: req.QuantityChange,
		ChangeType:     req.ChangeType,
		Note:           req.Note,
		ActorID:        auth.UserID(ctx),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"level":  result.Level,
		"event":  result.Event,
		"alerts": result.Alerts,
	})
}

type sellRequest struct {
	Items      []dto.SellItemInput `json:"items"`
	CustomerID string              `json:"customer_id"`
	Notes      string              `json:"notes"`
}

func (h *SalesHandler) Sell(c echo.Context) error {
	ctx := c.Request().Context()

	var req sellRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validationf("invalid request body")
	}

	result, err := h.uc.Sell(ctx, &dto.SellInput{
		TenantID:   auth.TenantID(ctx),
		Items:      req.Items,
		CustomerID: req.CustomerID,
		Notes:      req.Notes,
		ActorID:    auth.UserID(ctx),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"sale":   result.Sale,
		"alerts": result.Alerts,
	})
}

func (h *SalesHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	sale, err := h.uc.GetSale(ctx, auth.TenantID(ctx), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sale)
}

func (h *SalesHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	filters := &dto.SaleFilters{
		TenantID:   auth.TenantID(ctx),
		CustomerID: c.QueryParam("customer_id"),
	}
	filters.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filters.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	list, total, err := h.uc.ListSales(ctx, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"sales": list, "total": total})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/auth"
	"github.com/stocknest/inventory-service/internal/product"
	"github.com/stocknest/inventory-service/internal/product/dto"
	"github.com/stocknest/inventory-service/pkg/logger"
)

type ProductHandler struct {
	uc  product.UseCase
	log logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/products", h.Create)
	g.GET("/products", h.List)
	g.GET("/products/:id", h.Get)
	g.PUT("/products/:id", h.Update)
	g.DELETE("/products/:id", h.Deactivate)
}

type productRequest struct {
	SKU                 string  `json:"sku"`
	Barcode             string  `json:"barcode"`
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	UnitCost            float64 `json:"unit_cost"`
	SellingPrice        float64 `json:"selling_price"`
	UnitOfMeasure       string  `json:"unit_of_measure"`
	DefaultReorderPoint *int64  `json:"default_reorder_point"`
	IsActive            *bool   `json:"is_active"`
}

func (h *ProductHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validationf("invalid request body")
	}

	p, err := h.uc.CreateProduct(ctx, &dto.CreateProductInput{
		TenantID:            auth.TenantID(ctx),
		SKU:                 req.SKU,
		Barcode:             req.Barcode,
		Name:                req.Name,
		Description:         req.Description,
		UnitCost:            req.UnitCost,
		SellingPrice:        req.SellingPrice,
		UnitOfMeasure:       req.UnitOfMeasure,
		DefaultReorderPoint: req.DefaultReorderPoint,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.uc.GetProduct(ctx, auth.TenantID(ctx), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	filters := &dto.ProductFilters{
		TenantID:    auth.TenantID(ctx),
		SearchQuery: c.QueryParam("search"),
	}
	if v := c.QueryParam("is_active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}
	filters.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filters.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	products, total, err := h.uc.ListProducts(ctx, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products, "total": total})
}

func (h *ProductHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validationf("invalid request body")
	}

	input := &dto.UpdateProductInput{
		ID:                  c.Param("id"),
		TenantID:            auth.TenantID(ctx),
		SKU:                 req.SKU,
		Barcode:             req.Barcode,
		Name:                req.Name,
		Description:         req.Description,
		UnitCost:            req.UnitCost,
		SellingPrice:        req.SellingPrice,
		UnitOfMeasure:       req.UnitOfMeasure,
		DefaultReorderPoint: req.DefaultReorderPoint,
		IsActive:            true,
	}
	if req.IsActive != nil {
		input.IsActive = *req.IsActive
	}

	p, err := h.uc.UpdateProduct(ctx, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Deactivate(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.uc.DeactivateProduct(ctx, auth.TenantID(ctx), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

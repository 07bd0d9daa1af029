package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/auth"
	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/internal/transfer"
	"github.com/stocknest/inventory-service/internal/transfer/dto"
	"github.com/stocknest/inventory-service/pkg/logger"
)

type TransferHandler struct {
	uc  transfer.UseCase
	log logger.ZapLogger
}

func NewTransferHandler(uc transfer.UseCase, log logger.ZapLogger) *TransferHandler {
	return &TransferHandler{uc: uc, log: log}
}

func (h *TransferHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/transfers", h.Create)
	g.GET("/transfers", h.List)
	g.GET("/transfers/:id", h.Get)
	g.PATCH("/transfers/:id/status", h.UpdateStatus)
	g.DELETE("/transfers/:id", h.Delete)
}

type createTransferRequest struct {
	FromLocationID string                  `json:"from_location_id"`
	ToLocationID   string                  `json:"to_location_id"`
	Notes          string                  `json:"notes"`
	Items          []dto.TransferItemInput `json:"items"`
}

func (h *TransferHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req createTransferRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validationf("invalid request body")
	}

	t, err := h.uc.CreateTransfer(ctx, &dto.CreateTransferInput{
		TenantID:       auth.TenantID(ctx),
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		RequestedBy:    auth.UserID(ctx),
		Notes:          req.Notes,
		Items:          req.Items,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TransferHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	t, err := h.uc.GetTransfer(ctx, auth.TenantID(ctx), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TransferHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	filters := &dto.TransferFilters{
		TenantID: auth.TenantID(ctx),
		Status:   c.QueryParam("status"),
	}
	filters.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filters.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	transfers, total, err := h.uc.ListTransfers(ctx, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"transfers": transfers, "total": total})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *TransferHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validationf("invalid request body")
	}

	t, err := h.uc.UpdateStatus(ctx, &dto.UpdateStatusInput{
		TenantID:   auth.TenantID(ctx),
		TransferID: c.Param("id"),
		Status:     model.TransferStatus(req.Status),
		ActorID:    auth.UserID(ctx),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TransferHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.uc.DeleteTransfer(ctx, auth.TenantID(ctx), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

package dto

import "github.com/stocknest/inventory-service/internal/model"

type AdjustResult struct {
	Product *model.Product
	Level   *model.StockLevel
	Event   *model.InventoryEvent
	Alerts  []model.Alert
}

type SellResult struct {
	Sale   *model.Sale
	Alerts []model.Alert
}

type SaleFilters struct {
	TenantID   string
	CustomerID string
	Page       int
	PageSize   int
}

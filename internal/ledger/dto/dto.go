package dto

import "github.com/stocknest/inventory-service/internal/model"

type ApplyDeltaResult struct {
	Level *model.StockLevel
	Event *model.InventoryEvent
}

type LevelFilters struct {
	TenantID   string
	ProductID  string
	LocationID *string // Nil means all locations
	LowStock   bool    // If true, filter by quantity <= reorder_point
	Page       int
	PageSize   int
}

type EventFilters struct {
	TenantID  string
	ProductID string
	EventType string
	Page      int
	PageSize  int
}

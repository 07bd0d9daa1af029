package model

import "time"

// Event types carried by every inventory event row.
const (
	EventStockAdded       = "STOCK_ADDED"
	EventStockRemoved     = "STOCK_REMOVED"
	EventStockRestocked   = "STOCK_RESTOCKED"
	EventStockSold        = "STOCK_SOLD"
	EventStockTransferred = "STOCK_TRANSFERRED"
)

// StockLevel is the current quantity of one product at one location.
// A NULL location is the tenant-global row used by location-agnostic sales.
// Version increments on every write; updates are conditioned on the version
// read, so concurrent writers to the same row lose deterministically.
type StockLevel struct {
	ID               string    `db:"id" json:"id"`
	TenantID         string    `db:"tenant_id" json:"tenant_id"`
	ProductID        string    `db:"product_id" json:"product_id"`
	LocationID       *string   `db:"location_id" json:"location_id"`
	Quantity         int64     `db:"quantity" json:"quantity"`
	ReservedQuantity int64     `db:"reserved_quantity" json:"reserved_quantity"`
	ReorderPoint     *int64    `db:"reorder_point" json:"reorder_point"`
	Version          int64     `db:"version" json:"version"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// InventoryEvent is an immutable audit record of one quantity change.
// QuantityBefore + QuantityChange == QuantityAfter holds for every row.
type InventoryEvent struct {
	ID             string    `db:"id" json:"id"`
	TenantID       string    `db:"tenant_id" json:"tenant_id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	LocationID     *string   `db:"location_id" json:"location_id"`
	EventType      string    `db:"event_type" json:"event_type"`
	QuantityChange int64     `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int64     `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int64     `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	Note           string    `db:"note" json:"note"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

package model

import "time"

const (
	AlertLowStock   = "LOW_STOCK"
	AlertOutOfStock = "OUT_OF_STOCK"
)

// Alert is created by the alert engine and only ever mutated to toggle its
// read state.
type Alert struct {
	ID        string     `db:"id" json:"id"`
	TenantID  string     `db:"tenant_id" json:"tenant_id"`
	ProductID string     `db:"product_id" json:"product_id"`
	AlertType string     `db:"alert_type" json:"alert_type"`
	Message   string     `db:"message" json:"message"`
	IsRead    bool       `db:"is_read" json:"is_read"`
	ReadAt    *time.Time `db:"read_at" json:"read_at"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

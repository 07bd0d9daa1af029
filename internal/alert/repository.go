package alert

import (
	"context"
	"time"

	"github.com/stocknest/inventory-service/internal/alert/dto"
	"github.com/stocknest/inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, alert *model.Alert) error

	// ExistsSince reports whether any alert of the given type for the
	// product was created at or after the cutoff, read or not.
	ExistsSince(ctx context.Context, tenantID, productID, alertType string, cutoff time.Time) (bool, error)

	FindAll(ctx context.Context, filters *dto.AlertFilters) ([]model.Alert, int, error)
	MarkRead(ctx context.Context, tenantID, alertID string, readAt time.Time) error
	MarkAllRead(ctx context.Context, tenantID string, readAt time.Time) (int64, error)
}

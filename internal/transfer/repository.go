package transfer

import (
	"context"
	"time"

	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/internal/transfer/dto"
)

type Repository interface {
	// Create persists the header and its items in one transaction.
	Create(ctx context.Context, t *model.StockTransfer) error

	// FindByID loads a transfer with its items, tenant-scoped. Nil if absent.
	FindByID(ctx context.Context, tenantID, id string) (*model.StockTransfer, error)

	FindAll(ctx context.Context, filters *dto.TransferFilters) ([]model.StockTransfer, int, error)

	// UpdateStatusFrom flips the status only while the stored status still
	// equals expected, returning apperrors.ErrConcurrentModification
	// otherwise. This is what makes racing completions lose cleanly.
	UpdateStatusFrom(ctx context.Context, tenantID, id string, expected, next model.TransferStatus, updatedAt time.Time) error

	// Delete removes the header and items. Callers gate on status first.
	Delete(ctx context.Context, tenantID, id string) error
}

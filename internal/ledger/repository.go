package ledger

import (
	"context"

	"github.com/stocknest/inventory-service/internal/ledger/dto"
	"github.com/stocknest/inventory-service/internal/model"
)

type Repository interface {
	// Stock levels
	GetLevel(ctx context.Context, tenantID, productID string, locationID *string) (*model.StockLevel, error)
	SumQuantity(ctx context.Context, tenantID, productID string) (int64, error)
	FindLevels(ctx context.Context, filters *dto.LevelFilters) ([]model.StockLevel, int, error)

	// ApplyLevelWithEvent writes the stock level and appends the event in one
	// transaction. expectedVersion 0 inserts a new row; otherwise the update
	// is conditioned on the version being unchanged since read, failing with
	// apperrors.ErrConcurrentModification on a mismatch.
	ApplyLevelWithEvent(ctx context.Context, level *model.StockLevel, expectedVersion int64, event *model.InventoryEvent) error

	// Events / audit
	ListEvents(ctx context.Context, filters *dto.EventFilters) ([]model.InventoryEvent, int, error)
}

package ledger

import (
	"context"

	"github.com/stocknest/inventory-service/internal/ledger/dto"
	"github.com/stocknest/inventory-service/internal/model"
)

type UseCase interface {
	// ApplyDelta mutates one stock level and appends the matching inventory
	// event atomically. It carries no internal retry: a version conflict is
	// returned as apperrors.ErrConcurrentModification and the caller decides
	// whether to retry.
	ApplyDelta(ctx context.Context, input *dto.ApplyDeltaInput) (*dto.ApplyDeltaResult, error)

	// GetQuantity returns one level's quantity (0 if the row does not exist),
	// or the sum across all locations when locationID is nil.
	GetQuantity(ctx context.Context, tenantID, productID string, locationID *string) (int64, error)

	// History returns the most recent events for a product, newest first.
	// Each call runs a fresh query, so it always reflects latest state.
	History(ctx context.Context, tenantID, productID string, limit int) ([]model.InventoryEvent, error)

	ListLevels(ctx context.Context, filters *dto.LevelFilters) ([]model.StockLevel, int, error)
	ListEvents(ctx context.Context, filters *dto.EventFilters) ([]model.InventoryEvent, int, error)
}

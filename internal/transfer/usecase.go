package transfer

import (
	"context"

	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/internal/transfer/dto"
)

type UseCase interface {
	// CreateTransfer declares a transfer. No stock moves until completion.
	CreateTransfer(ctx context.Context, input *dto.CreateTransferInput) (*model.StockTransfer, error)

	GetTransfer(ctx context.Context, tenantID, id string) (*model.StockTransfer, error)
	ListTransfers(ctx context.Context, filters *dto.TransferFilters) ([]model.StockTransfer, int, error)

	// UpdateStatus drives the lifecycle. Completion moves every item out of
	// the source location and into the destination as one all-or-nothing
	// unit; a failure on any item reverses the deltas already applied.
	UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.StockTransfer, error)

	// DeleteTransfer removes a transfer in any status except COMPLETED.
	DeleteTransfer(ctx context.Context, tenantID, id string) error
}

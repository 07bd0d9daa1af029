package sales

import (
	"context"

	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/internal/sales/dto"
)

type UseCase interface {
	// Adjust applies a manual stock change (add/remove/restock) as one unit:
	// ledger mutation, event append, then alert evaluation. Alert failures
	// are logged, never returned; the stock mutation stands.
	Adjust(ctx context.Context, input *dto.AdjustInput) (*dto.AdjustResult, error)

	// Sell records a POS sale and deducts stock for every line item. All
	// item quantities are validated before any ledger delta is applied; a
	// mid-loop failure reverses prior deltas and deletes the sale record.
	Sell(ctx context.Context, input *dto.SellInput) (*dto.SellResult, error)

	GetSale(ctx context.Context, tenantID, saleID string) (*model.Sale, error)
	ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
}

package sales

import (
	"context"

	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/internal/sales/dto"
)

type Repository interface {
	// CreateSale persists the header and line items in one transaction, so a
	// caller can never observe a header without its items.
	CreateSale(ctx context.Context, sale *model.Sale) error

	// DeleteSale removes header and items. Used as the compensating action
	// when a ledger apply fails after the sale record was written.
	DeleteSale(ctx context.Context, tenantID, saleID string) error

	FindByID(ctx context.Context, tenantID, saleID string) (*model.Sale, error)
	FindAll(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
}

package product

import (
	"context"

	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, tenantID, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error

	// Deactivate soft-deletes. Products are never hard-deleted while the
	// event log references them.
	Deactivate(ctx context.Context, tenantID, id string) error

	IsSKUUnique(ctx context.Context, tenantID, sku, excludeID string) (bool, error)
	IsBarcodeUnique(ctx context.Context, tenantID, barcode, excludeID string) (bool, error)
}

package location

import (
	"context"

	"github.com/stocknest/inventory-service/internal/location/dto"
	"github.com/stocknest/inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, loc *model.Location) error
	FindByID(ctx context.Context, tenantID, id string) (*model.Location, error)
	FindPrimary(ctx context.Context, tenantID string) (*model.Location, error)
	FindAll(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error)
	Update(ctx context.Context, loc *model.Location) error

	// ClearPrimary demotes every primary location of the tenant except the
	// given id. One primary per tenant is recommended, not enforced by the
	// schema, so latest write wins.
	ClearPrimary(ctx context.Context, tenantID, exceptID string) error
}

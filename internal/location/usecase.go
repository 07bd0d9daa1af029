package location

import (
	"context"

	"github.com/stocknest/inventory-service/internal/location/dto"
	"github.com/stocknest/inventory-service/internal/model"
)

type UseCase interface {
	CreateLocation(ctx context.Context, input *dto.CreateLocationInput) (*model.Location, error)
	GetLocation(ctx context.Context, tenantID, id string) (*model.Location, error)
	ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error)
	UpdateLocation(ctx context.Context, input *dto.UpdateLocationInput) (*model.Location, error)

	// DeactivateLocation soft-deletes. Stock levels referencing the location
	// are kept; zero is a valid terminal quantity, not a deletion trigger.
	DeactivateLocation(ctx context.Context, tenantID, id string) error
}

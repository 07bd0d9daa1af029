package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/location"
	"github.com/stocknest/inventory-service/internal/location/dto"
	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/pkg/logger"
)

type locationUseCase struct {
	repo   location.Repository
	logger logger.ZapLogger
}

func NewLocationUseCase(repo location.Repository, log logger.ZapLogger) location.UseCase {
	return &locationUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *locationUseCase) CreateLocation(ctx context.Context, input *dto.CreateLocationInput) (*model.Location, error) {
	if input.Name == "" {
		return nil, apperrors.Validationf("location name is required")
	}

	id := uuid.New().String()
	now := time.Now()

	loc := &model.Location{
		BaseModel: model.BaseModel{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:  input.TenantID,
		Name:      input.Name,
		IsPrimary: input.IsPrimary,
		IsActive:  true,
	}

	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	if loc.IsPrimary {
		if err := uc.repo.ClearPrimary(ctx, input.TenantID, id); err != nil {
			return nil, err
		}
	}
	return loc, nil
}

func (uc *locationUseCase) GetLocation(ctx context.Context, tenantID, id string) (*model.Location, error) {
	loc, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, apperrors.NotFoundf("location %s", id)
	}
	return loc, nil
}

func (uc *locationUseCase) ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *locationUseCase) UpdateLocation(ctx context.Context, input *dto.UpdateLocationInput) (*model.Location, error) {
	loc, err := uc.repo.FindByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, apperrors.NotFoundf("location %s", input.ID)
	}
	if input.Name == "" {
		return nil, apperrors.Validationf("location name is required")
	}

	loc.Name = input.Name
	loc.IsPrimary = input.IsPrimary
	loc.IsActive = input.IsActive
	loc.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, loc); err != nil {
		return nil, err
	}
	if loc.IsPrimary {
		if err := uc.repo.ClearPrimary(ctx, input.TenantID, loc.ID); err != nil {
			return nil, err
		}
	}
	return loc, nil
}

func (uc *locationUseCase) DeactivateLocation(ctx context.Context, tenantID, id string) error {
	loc, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if loc == nil {
		return apperrors.NotFoundf("location %s", id)
	}

	loc.IsActive = false
	loc.IsPrimary = false
	loc.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, loc)
}

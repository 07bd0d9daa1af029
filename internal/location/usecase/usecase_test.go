package usecase

import (
	"context"
	"testing"

	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/location/dto"
	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type LocationRepoMock struct{ mock.Mock }

func (m *LocationRepoMock) Create(ctx context.Context, loc *model.Location) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *LocationRepoMock) FindByID(ctx context.Context, tenantID, id string) (*model.Location, error) {
	args := m.Called(ctx, tenantID, id)
	loc, _ := args.Get(0).(*model.Location)
	return loc, args.Error(1)
}

func (m *LocationRepoMock) FindPrimary(ctx context.Context, tenantID string) (*model.Location, error) {
	args := m.Called(ctx, tenantID)
	loc, _ := args.Get(0).(*model.Location)
	return loc, args.Error(1)
}

func (m *LocationRepoMock) FindAll(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error) {
	args := m.Called(ctx, filters)
	locs, _ := args.Get(0).([]model.Location)
	return locs, args.Int(1), args.Error(2)
}

func (m *LocationRepoMock) Update(ctx context.Context, loc *model.Location) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *LocationRepoMock) ClearPrimary(ctx context.Context, tenantID, exceptID string) error {
	args := m.Called(ctx, tenantID, exceptID)
	return args.Error(0)
}

func TestCreateLocation_RequiresName(t *testing.T) {
	uc := NewLocationUseCase(new(LocationRepoMock), logger.NewNop())
	_, err := uc.CreateLocation(context.Background(), &dto.CreateLocationInput{TenantID: "t1"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateLocation_PrimaryDemotesOthers(t *testing.T) {
	repo := new(LocationRepoMock)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("ClearPrimary", mock.Anything, "t1", mock.Anything).Return(nil)

	uc := NewLocationUseCase(repo, logger.NewNop())
	loc, err := uc.CreateLocation(context.Background(), &dto.CreateLocationInput{
		TenantID: "t1", Name: "Main Store", IsPrimary: true,
	})
	require.NoError(t, err)
	assert.True(t, loc.IsPrimary)
	assert.True(t, loc.IsActive)
	repo.AssertCalled(t, "ClearPrimary", mock.Anything, "t1", loc.ID)
}

func TestCreateLocation_NonPrimarySkipsDemotion(t *testing.T) {
	repo := new(LocationRepoMock)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := NewLocationUseCase(repo, logger.NewNop())
	_, err := uc.CreateLocation(context.Background(), &dto.CreateLocationInput{
		TenantID: "t1", Name: "Backroom",
	})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "ClearPrimary")
}

func TestDeactivateLocation_ClearsPrimaryFlag(t *testing.T) {
	repo := new(LocationRepoMock)
	repo.On("FindByID", mock.Anything, "t1", "loc-1").Return(&model.Location{
		BaseModel: model.BaseModel{ID: "loc-1"},
		TenantID:  "t1",
		IsPrimary: true,
		IsActive:  true,
	}, nil)

	var updated *model.Location
	repo.On("Update", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { updated = args.Get(1).(*model.Location) }).
		Return(nil)

	uc := NewLocationUseCase(repo, logger.NewNop())
	require.NoError(t, uc.DeactivateLocation(context.Background(), "t1", "loc-1"))
	require.NotNil(t, updated)
	assert.False(t, updated.IsActive)
	assert.False(t, updated.IsPrimary)
}

func TestGetLocation_MissingIsNotFound(t *testing.T) {
	repo := new(LocationRepoMock)
	repo.On("FindByID", mock.Anything, "t1", "ghost").Return(nil, nil)

	uc := NewLocationUseCase(repo, logger.NewNop())
	_, err := uc.GetLocation(context.Background(), "t1", "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

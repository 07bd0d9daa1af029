package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/ledger"
	"github.com/stocknest/inventory-service/internal/ledger/dto"
	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

var validEventTypes = map[string]bool{
	model.EventStockAdded:       true,
	model.EventStockRemoved:     true,
	model.EventStockRestocked:   true,
	model.EventStockSold:        true,
	model.EventStockTransferred: true,
}

type ledgerUseCase struct {
	repo   ledger.Repository
	logger logger.ZapLogger
}

func NewLedgerUseCase(repo ledger.Repository, log logger.ZapLogger) ledger.UseCase {
	return &ledgerUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *ledgerUseCase) ApplyDelta(ctx context.Context, input *dto.ApplyDeltaInput) (*dto.ApplyDeltaResult, error) {
	if input.TenantID == "" || input.ProductID == "" {
		return nil, apperrors.Validationf("tenant_id and product_id are required")
	}
	if input.Delta == 0 {
		return nil, apperrors.Validationf("delta must be non-zero")
	}
	if !validEventTypes[input.EventType] {
		return nil, apperrors.Validationf("unknown event type %q", input.EventType)
	}

	level, err := uc.repo.GetLevel(ctx, input.TenantID, input.ProductID, input.LocationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if level == nil {
		// First touch: the row starts at zero and version 1.
		level = &model.StockLevel{
			ID:         uuid.New().String(),
			TenantID:   input.TenantID,
			ProductID:  input.ProductID,
			LocationID: input.LocationID,
			Quantity:   0,
			Version:    0,
		}
	}
	expectedVersion := level.Version

	quantityBefore := level.Quantity
	quantityAfter := quantityBefore + input.Delta
	if quantityAfter < 0 {
		return nil, fmt.Errorf("%w: have %d, requested %d", apperrors.ErrInsufficientStock, quantityBefore, -input.Delta)
	}

	level.Quantity = quantityAfter
	level.Version = expectedVersion + 1
	level.UpdatedAt = now

	var refType, refID, createdBy *string
	if input.ReferenceType != "" {
		refType = &input.ReferenceType
	}
	if input.ReferenceID != "" {
		refID = &input.ReferenceID
	}
	if input.ActorID != "" {
		createdBy = &input.ActorID
	}

	event := &model.InventoryEvent{
		ID:             uuid.New().String(),
		TenantID:       input.TenantID,
		ProductID:      input.ProductID,
		LocationID:     input.LocationID,
		EventType:      input.EventType,
		QuantityChange: input.Delta,
		QuantityBefore: quantityBefore,
		QuantityAfter:  quantityAfter,
		ReferenceType:  refType,
		ReferenceID:    refID,
		Note:           input.Note,
		CreatedBy:      createdBy,
		CreatedAt:      now,
	}

	if err := uc.repo.ApplyLevelWithEvent(ctx, level, expectedVersion, event); err != nil {
		return nil, err
	}

	uc.logger.Debug("applied stock delta",
		zap.String("tenant_id", input.TenantID),
		zap.String("product_id", input.ProductID),
		zap.Int64("delta", input.Delta),
		zap.Int64("quantity_after", quantityAfter),
	)

	return &dto.ApplyDeltaResult{Level: level, Event: event}, nil
}

func (uc *ledgerUseCase) GetQuantity(ctx context.Context, tenantID, productID string, locationID *string) (int64, error) {
	if locationID == nil {
		return uc.repo.SumQuantity(ctx, tenantID, productID)
	}
	level, err := uc.repo.GetLevel(ctx, tenantID, productID, locationID)
	if err != nil {
		return 0, err
	}
	if level == nil {
		return 0, nil
	}
	return level.Quantity, nil
}

func (uc *ledgerUseCase) History(ctx context.Context, tenantID, productID string, limit int) ([]model.InventoryEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	events, _, err := uc.repo.ListEvents(ctx, &dto.EventFilters{
		TenantID:  tenantID,
		ProductID: productID,
		Page:      1,
		PageSize:  limit,
	})
	return events, err
}

func (uc *ledgerUseCase) ListLevels(ctx context.Context, filters *dto.LevelFilters) ([]model.StockLevel, int, error) {
	return uc.repo.FindLevels(ctx, filters)
}

func (uc *ledgerUseCase) ListEvents(ctx context.Context, filters *dto.EventFilters) ([]model.InventoryEvent, int, error) {
	return uc.repo.ListEvents(ctx, filters)
}

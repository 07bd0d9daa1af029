package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stocknest/inventory-service/internal/alert"
	"github.com/stocknest/inventory-service/internal/alert/dto"
	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type alertUseCase struct {
	repo        alert.Repository
	dedupWindow time.Duration
	logger      logger.ZapLogger
}

func NewAlertUseCase(repo alert.Repository, dedupWindow time.Duration, log logger.ZapLogger) alert.UseCase {
	if dedupWindow <= 0 {
		dedupWindow = 24 * time.Hour
	}
	return &alertUseCase{
		repo:        repo,
		dedupWindow: dedupWindow,
		logger:      log,
	}
}

func (uc *alertUseCase) Evaluate(ctx context.Context, input *dto.EvaluateInput) (*model.Alert, error) {
	alertType, message := classify(input)
	if alertType == "" {
		return nil, nil
	}

	// One alert of a given type per product per window, read or not. A
	// product that recovers and drops again inside the window stays silent.
	cutoff := time.Now().Add(-uc.dedupWindow)
	exists, err := uc.repo.ExistsSince(ctx, input.TenantID, input.ProductID, alertType, cutoff)
	if err != nil {
		return nil, err
	}
	if exists {
		uc.logger.Debug("alert suppressed by dedup window",
			zap.String("product_id", input.ProductID),
			zap.String("alert_type", alertType),
		)
		return nil, nil
	}

	a := &model.Alert{
		ID:        uuid.New().String(),
		TenantID:  input.TenantID,
		ProductID: input.ProductID,
		AlertType: alertType,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// classify returns the candidate alert type and its message, or "" when the
// quantity warrants no alert.
func classify(input *dto.EvaluateInput) (string, string) {
	switch {
	case input.NewQuantity == 0:
		return model.AlertOutOfStock, fmt.Sprintf("%s is out of stock", input.ProductName)
	case input.NewQuantity > 0 && input.NewQuantity <= input.ReorderPoint:
		return model.AlertLowStock, fmt.Sprintf(
			"%s is low on stock: %d remaining (reorder point %d)",
			input.ProductName, input.NewQuantity, input.ReorderPoint,
		)
	default:
		return "", ""
	}
}

func (uc *alertUseCase) ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.Alert, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *alertUseCase) MarkRead(ctx context.Context, tenantID, alertID string) error {
	return uc.repo.MarkRead(ctx, tenantID, alertID, time.Now())
}

func (uc *alertUseCase) MarkAllRead(ctx context.Context, tenantID string) (int64, error) {
	return uc.repo.MarkAllRead(ctx, tenantID, time.Now())
}

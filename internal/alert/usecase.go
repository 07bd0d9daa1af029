package alert

import (
	"context"

	"github.com/stocknest/inventory-service/internal/alert/dto"
	"github.com/stocknest/inventory-service/internal/model"
)

type UseCase interface {
	// Evaluate derives at most one alert from a new quantity. It returns
	// (nil, nil) when no alert is warranted or a matching alert already
	// exists within the dedup window.
	Evaluate(ctx context.Context, input *dto.EvaluateInput) (*model.Alert, error)

	ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.Alert, int, error)
	MarkRead(ctx context.Context, tenantID, alertID string) error
	MarkAllRead(ctx context.Context, tenantID string) (int64, error)
}

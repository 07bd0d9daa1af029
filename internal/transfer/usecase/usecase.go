package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/ledger"
	ledgerdto "github.com/stocknest/inventory-service/internal/ledger/dto"
	"github.com/stocknest/inventory-service/internal/location"
	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/internal/transfer"
	"github.com/stocknest/inventory-service/internal/transfer/dto"
	"github.com/stocknest/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// maxConflictRetries bounds re-reads after an optimistic version conflict so
// a hot stock level cannot livelock a completion.
const maxConflictRetries = 3

type transferUseCase struct {
	repo      transfer.Repository
	locations location.Repository
	ledger    ledger.UseCase
	logger    logger.ZapLogger
}

func NewTransferUseCase(repo transfer.Repository, locations location.Repository, ledgerUC ledger.UseCase, log logger.ZapLogger) transfer.UseCase {
	return &transferUseCase{
		repo:      repo,
		locations: locations,
		ledger:    ledgerUC,
		logger:    log,
	}
}

func (uc *transferUseCase) CreateTransfer(ctx context.Context, input *dto.CreateTransferInput) (*model.StockTransfer, error) {
	if input.FromLocationID == "" || input.ToLocationID == "" {
		return nil, apperrors.Validationf("from and to locations are required")
	}
	if input.FromLocationID == input.ToLocationID {
		return nil, apperrors.Validationf("from and to locations must differ")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.Validationf("transfer requires at least one item")
	}
	for _, item := range input.Items {
		if item.ProductID == "" {
			return nil, apperrors.Validationf("item product_id is required")
		}
		if item.Quantity <= 0 {
			return nil, apperrors.Validationf("item quantity must be positive, got %d", item.Quantity)
		}
	}

	for _, locID := range []string{input.FromLocationID, input.ToLocationID} {
		loc, err := uc.locations.FindByID(ctx, input.TenantID, locID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, apperrors.NotFoundf("location %s", locID)
		}
		if !loc.IsActive {
			return nil, apperrors.Validationf("location %s is inactive", locID)
		}
	}

	id := uuid.New().String()
	now := time.Now()

	t := &model.StockTransfer{
		BaseModel: model.BaseModel{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:       input.TenantID,
		FromLocationID: input.FromLocationID,
		ToLocationID:   input.ToLocationID,
		Status:         model.TransferPending,
		RequestedBy:    input.RequestedBy,
		Notes:          input.Notes,
	}
	for _, item := range input.Items {
		t.Items = append(t.Items, model.TransferItem{
			ID:         uuid.New().String(),
			TransferID: id,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
		})
	}

	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *transferUseCase) GetTransfer(ctx context.Context, tenantID, id string) (*model.StockTransfer, error) {
	t, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperrors.NotFoundf("transfer %s", id)
	}
	return t, nil
}

func (uc *transferUseCase) ListTransfers(ctx context.Context, filters *dto.TransferFilters) ([]model.StockTransfer, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *transferUseCase) UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.StockTransfer, error) {
	if !input.Status.Valid() {
		return nil, apperrors.Validationf("unknown transfer status %q", input.Status)
	}

	t, err := uc.repo.FindByID(ctx, input.TenantID, input.TransferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperrors.NotFoundf("transfer %s", input.TransferID)
	}
	if !t.Status.CanTransitionTo(input.Status) {
		return nil, apperrors.InvalidTransitionf("%s -> %s", t.Status, input.Status)
	}

	if input.Status == model.TransferCompleted {
		if err := uc.completeTransfer(ctx, t, input.ActorID); err != nil {
			return nil, err
		}
	} else {
		if err := uc.repo.UpdateStatusFrom(ctx, t.TenantID, t.ID, t.Status, input.Status, time.Now()); err != nil {
			return nil, err
		}
	}

	t.Status = input.Status
	t.UpdatedAt = time.Now()
	return t, nil
}

// completeTransfer moves every item out of the source and into the
// destination. Each item produces two ledger events tagged with the transfer
// id. Any failure reverses the deltas applied so far, leaving the transfer
// IN_TRANSIT and both locations untouched in sum.
func (uc *transferUseCase) completeTransfer(ctx context.Context, t *model.StockTransfer, actorID string) error {
	// Pre-validate source quantities so shortfalls are caught before any
	// movement. A concurrent drain between this check and the apply still
	// fails safely below.
	for _, item := range t.Items {
		available, err := uc.ledger.GetQuantity(ctx, t.TenantID, item.ProductID, &t.FromLocationID)
		if err != nil {
			return err
		}
		if available < item.Quantity {
			return fmt.Errorf("%w: product %s has %d at source, transfer needs %d",
				apperrors.ErrInsufficientStock, item.ProductID, available, item.Quantity)
		}
	}

	note := fmt.Sprintf("transfer %s -> %s", t.FromLocationID, t.ToLocationID)
	var applied []*ledgerdto.ApplyDeltaInput

	for _, item := range t.Items {
		outbound := &ledgerdto.ApplyDeltaInput{
			TenantID:      t.TenantID,
			ProductID:     item.ProductID,
			LocationID:    &t.FromLocationID,
			Delta:         -item.Quantity,
			EventType:     model.EventStockTransferred,
			ReferenceType: "transfer",
			ReferenceID:   t.ID,
			ActorID:       actorID,
			Note:          note,
		}
		inbound := &ledgerdto.ApplyDeltaInput{
			TenantID:      t.TenantID,
			ProductID:     item.ProductID,
			LocationID:    &t.ToLocationID,
			Delta:         item.Quantity,
			EventType:     model.EventStockTransferred,
			ReferenceType: "transfer",
			ReferenceID:   t.ID,
			ActorID:       actorID,
			Note:          note,
		}

		for _, delta := range []*ledgerdto.ApplyDeltaInput{outbound, inbound} {
			if err := uc.applyWithRetry(ctx, delta); err != nil {
				uc.reverse(ctx, applied)
				return err
			}
			applied = append(applied, delta)
		}
	}

	if err := uc.repo.UpdateStatusFrom(ctx, t.TenantID, t.ID, t.Status, model.TransferCompleted, time.Now()); err != nil {
		// Someone cancelled or completed the transfer while we were moving
		// stock. Put every unit back.
		uc.reverse(ctx, applied)
		return err
	}
	return nil
}

func (uc *transferUseCase) applyWithRetry(ctx context.Context, input *ledgerdto.ApplyDeltaInput) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		_, err = uc.ledger.ApplyDelta(ctx, input)
		if err == nil || !errors.Is(err, apperrors.ErrConcurrentModification) {
			return err
		}
	}
	return err
}

// reverse applies the opposite of each delta, best effort. A reversal that
// itself fails is logged loudly; the event log keeps enough context for a
// manual correction.
func (uc *transferUseCase) reverse(ctx context.Context, applied []*ledgerdto.ApplyDeltaInput) {
	for i := len(applied) - 1; i >= 0; i-- {
		delta := *applied[i]
		delta.Delta = -delta.Delta
		delta.Note = "reversal of failed transfer completion"
		if err := uc.applyWithRetry(ctx, &delta); err != nil {
			uc.logger.Error("failed to reverse transfer delta",
				zap.String("transfer_id", delta.ReferenceID),
				zap.String("product_id", delta.ProductID),
				zap.Int64("delta", delta.Delta),
				zap.Error(err),
			)
		}
	}
}

func (uc *transferUseCase) DeleteTransfer(ctx context.Context, tenantID, id string) error {
	t, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if t == nil {
		return apperrors.NotFoundf("transfer %s", id)
	}
	// A completed transfer already mutated the ledger; deleting its record
	// would orphan that history.
	if t.Status == model.TransferCompleted {
		return apperrors.InvalidTransitionf("cannot delete a %s transfer", t.Status)
	}
	return uc.repo.Delete(ctx, tenantID, id)
}

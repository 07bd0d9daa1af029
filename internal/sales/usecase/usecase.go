package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stocknest/inventory-service/internal/alert"
	alertdto "github.com/stocknest/inventory-service/internal/alert/dto"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/ledger"
	ledgerdto "github.com/stocknest/inventory-service/internal/ledger/dto"
	"github.com/stocknest/inventory-service/internal/location"
	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/internal/product"
	"github.com/stocknest/inventory-service/internal/sales"
	"github.com/stocknest/inventory-service/internal/sales/dto"
	"github.com/stocknest/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// maxConflictRetries bounds re-reads after an optimistic version conflict.
const maxConflictRetries = 3

type salesUseCase struct {
	repo                sales.Repository
	products            product.Repository
	locations           location.Repository
	ledger              ledger.UseCase
	alerts              alert.UseCase
	defaultReorderPoint int64
	logger              logger.ZapLogger
}

func NewSalesUseCase(
	repo sales.Repository,
	products product.Repository,
	locations location.Repository,
	ledgerUC ledger.UseCase,
	alerts alert.UseCase,
	defaultReorderPoint int64,
	log logger.ZapLogger,
) sales.UseCase {
	return &salesUseCase{
		repo:                repo,
		products:            products,
		locations:           locations,
		ledger:              ledgerUC,
		alerts:              alerts,
		defaultReorderPoint: defaultReorderPoint,
		logger:              log,
	}
}

func (uc *salesUseCase) Adjust(ctx context.Context, input *dto.AdjustInput) (*dto.AdjustResult, error) {
	if input.QuantityChange <= 0 {
		return nil, apperrors.Validationf("quantity_change must be positive, got %d", input.QuantityChange)
	}

	var delta int64
	var eventType string
	switch input.ChangeType {
	case dto.ChangeAdd:
		delta, eventType = input.QuantityChange, model.EventStockAdded
	case dto.ChangeRestock:
		delta, eventType = input.QuantityChange, model.EventStockRestocked
	case dto.ChangeRemove:
		delta, eventType = -input.QuantityChange, model.EventStockRemoved
	default:
		return nil, apperrors.Validationf("unknown change type %q", input.ChangeType)
	}

	p, err := uc.products.FindByID(ctx, input.TenantID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFoundf("product %s", input.ProductID)
	}

	if input.LocationID != nil && *input.LocationID != "" {
		loc, err := uc.locations.FindByID(ctx, input.TenantID, *input.LocationID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, apperrors.NotFoundf("location %s", *input.LocationID)
		}
	}

	result, err := uc.applyWithRetry(ctx, &ledgerdto.ApplyDeltaInput{
		TenantID:      input.TenantID,
		ProductID:     input.ProductID,
		LocationID:    input.LocationID,
		Delta:         delta,
		EventType:     eventType,
		ReferenceType: "manual",
		ActorID:       input.ActorID,
		Note:          input.Note,
	})
	if err != nil {
		return nil, err
	}

	out := &dto.AdjustResult{
		Product: p,
		Level:   result.Level,
		Event:   result.Event,
	}
	if a := uc.evaluateAlert(ctx, p, result.Level); a != nil {
		out.Alerts = append(out.Alerts, *a)
	}
	return out, nil
}

func (uc *salesUseCase) Sell(ctx context.Context, input *dto.SellInput) (*dto.SellResult, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.Validationf("sale requires at least one item")
	}

	var subtotal, discountTotal float64
	for _, item := range input.Items {
		if item.ProductID == "" {
			return nil, apperrors.Validationf("item product_id is required")
		}
		if item.Quantity <= 0 {
			return nil, apperrors.Validationf("item quantity must be positive, got %d", item.Quantity)
		}
		if item.UnitPrice < 0 || item.Discount < 0 {
			return nil, apperrors.Validationf("item price and discount must not be negative")
		}
		subtotal += item.UnitPrice * float64(item.Quantity)
		discountTotal += item.Discount
	}

	// Location rule: stock is drawn from the tenant's primary location when
	// one exists, otherwise from the location-agnostic row.
	saleLoc, err := uc.saleLocation(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	// Validate every line before moving anything, so a shortfall on the
	// last item does not leave earlier deductions behind.
	checkLoc := saleLoc
	if checkLoc == nil {
		empty := ""
		checkLoc = &empty
	}
	productsByID := make(map[string]*model.Product, len(input.Items))
	for _, item := range input.Items {
		p, err := uc.products.FindByID(ctx, input.TenantID, item.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, apperrors.NotFoundf("product %s", item.ProductID)
		}
		productsByID[item.ProductID] = p

		available, err := uc.ledger.GetQuantity(ctx, input.TenantID, item.ProductID, checkLoc)
		if err != nil {
			return nil, err
		}
		if available < item.Quantity {
			return nil, fmt.Errorf("%w: product %s has %d, sale needs %d",
				apperrors.ErrInsufficientStock, item.ProductID, available, item.Quantity)
		}
	}

	id := uuid.New().String()
	now := time.Now()

	sale := &model.Sale{
		BaseModel: model.BaseModel{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:      input.TenantID,
		SaleNumber:    newSaleNumber(now),
		Subtotal:      subtotal,
		DiscountTotal: discountTotal,
		Total:         subtotal - discountTotal,
		Notes:         input.Notes,
	}
	if input.CustomerID != "" {
		sale.CustomerID = &input.CustomerID
	}
	if input.ActorID != "" {
		sale.CreatedBy = &input.ActorID
	}
	for _, item := range input.Items {
		sale.Items = append(sale.Items, model.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    id,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			LineTotal: item.UnitPrice*float64(item.Quantity) - item.Discount,
		})
	}

	if err := uc.repo.CreateSale(ctx, sale); err != nil {
		return nil, err
	}

	result := &dto.SellResult{Sale: sale}
	var applied []*ledgerdto.ApplyDeltaInput

	for _, item := range input.Items {
		deltaInput := &ledgerdto.ApplyDeltaInput{
			TenantID:      input.TenantID,
			ProductID:     item.ProductID,
			LocationID:    saleLoc,
			Delta:         -item.Quantity,
			EventType:     model.EventStockSold,
			ReferenceType: "sale",
			ReferenceID:   sale.SaleNumber,
			ActorID:       input.ActorID,
			Note:          input.Notes,
		}

		deltaResult, err := uc.applyWithRetry(ctx, deltaInput)
		if err != nil {
			// A concurrent drain beat the pre-validation. Undo everything so
			// the sale is all-or-nothing.
			uc.reverse(ctx, applied)
			if delErr := uc.repo.DeleteSale(ctx, input.TenantID, sale.ID); delErr != nil {
				uc.logger.Error("failed to delete sale after ledger failure",
					zap.String("sale_id", sale.ID), zap.Error(delErr))
			}
			return nil, err
		}
		applied = append(applied, deltaInput)

		if a := uc.evaluateAlert(ctx, productsByID[item.ProductID], deltaResult.Level); a != nil {
			result.Alerts = append(result.Alerts, *a)
		}
	}

	return result, nil
}

func (uc *salesUseCase) saleLocation(ctx context.Context, tenantID string) (*string, error) {
	primary, err := uc.locations.FindPrimary(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if primary == nil {
		return nil, nil
	}
	return &primary.ID, nil
}

// evaluateAlert runs the alert engine for a fresh quantity. Failures are
// logged and swallowed: an alert must never undo a stock mutation that
// already committed.
func (uc *salesUseCase) evaluateAlert(ctx context.Context, p *model.Product, level *model.StockLevel) *model.Alert {
	if p == nil || level == nil {
		return nil
	}

	reorderPoint := uc.defaultReorderPoint
	if p.DefaultReorderPoint != nil {
		reorderPoint = *p.DefaultReorderPoint
	}
	if level.ReorderPoint != nil {
		reorderPoint = *level.ReorderPoint
	}

	a, err := uc.alerts.Evaluate(ctx, &alertdto.EvaluateInput{
		TenantID:     level.TenantID,
		ProductID:    p.ID,
		ProductName:  p.Name,
		NewQuantity:  level.Quantity,
		ReorderPoint: reorderPoint,
	})
	if err != nil {
		uc.logger.Error("alert evaluation failed",
			zap.String("product_id", p.ID),
			zap.Int64("quantity", level.Quantity),
			zap.Error(err),
		)
		return nil
	}
	return a
}

func (uc *salesUseCase) applyWithRetry(ctx context.Context, input *ledgerdto.ApplyDeltaInput) (*ledgerdto.ApplyDeltaResult, error) {
	var result *ledgerdto.ApplyDeltaResult
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		result, err = uc.ledger.ApplyDelta(ctx, input)
		if err == nil || !errors.Is(err, apperrors.ErrConcurrentModification) {
			return result, err
		}
	}
	return nil, err
}

func (uc *salesUseCase) reverse(ctx context.Context, applied []*ledgerdto.ApplyDeltaInput) {
	for i := len(applied) - 1; i >= 0; i-- {
		delta := *applied[i]
		delta.Delta = -delta.Delta
		delta.EventType = model.EventStockAdded
		delta.Note = "reversal of failed sale"
		if _, err := uc.applyWithRetry(ctx, &delta); err != nil {
			uc.logger.Error("failed to reverse sale delta",
				zap.String("product_id", delta.ProductID),
				zap.Int64("delta", delta.Delta),
				zap.Error(err),
			)
		}
	}
}

func (uc *salesUseCase) GetSale(ctx context.Context, tenantID, saleID string) (*model.Sale, error) {
	sale, err := uc.repo.FindByID(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperrors.NotFoundf("sale %s", saleID)
	}
	return sale, nil
}

func (uc *salesUseCase) ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func newSaleNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.SplitN(uuid.New().String(), "-", 2)[0])
	return fmt.Sprintf("S-%s-%s", now.Format("20060102"), suffix)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	alertrepo "github.com/stocknest/inventory-service/internal/alert"
	alertdto "github.com/stocknest/inventory-service/internal/alert/dto"
	alertuc "github.com/stocknest/inventory-service/internal/alert/usecase"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/ledger"
	ledgerdto "github.com/stocknest/inventory-service/internal/ledger/dto"
	locationdto "github.com/stocknest/inventory-service/internal/location/dto"
	"github.com/stocknest/inventory-service/internal/model"
	productdto "github.com/stocknest/inventory-service/internal/product/dto"
	"github.com/stocknest/inventory-service/internal/sales/dto"
	"github.com/stocknest/inventory-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerFake implements ledger.UseCase over an in-memory quantity map. The
// empty location key doubles as the location-agnostic row, matching how nil
// and pointer-to-empty resolve to the NULL column in SQL.
type ledgerFake struct {
	qty        map[string]int64
	applied    []ledgerdto.ApplyDeltaInput
	applyCount int
	failOn     func(call int, input *ledgerdto.ApplyDeltaInput) error
}

var _ ledger.UseCase = (*ledgerFake)(nil)

func newLedgerFake() *ledgerFake {
	return &ledgerFake{qty: map[string]int64{}}
}

func qtyKey(tenantID, productID string, locationID *string) string {
	loc := ""
	if locationID != nil {
		loc = *locationID
	}
	return fmt.Sprintf("%s|%s|%s", tenantID, productID, loc)
}

func (f *ledgerFake) seed(tenantID, productID, locationID string, qty int64) {
	loc := &locationID
	if locationID == "" {
		loc = nil
	}
	f.qty[qtyKey(tenantID, productID, loc)] = qty
}

func (f *ledgerFake) ApplyDelta(_ context.Context, input *ledgerdto.ApplyDeltaInput) (*ledgerdto.ApplyDeltaResult, error) {
	f.applyCount++
	if f.failOn != nil {
		if err := f.failOn(f.applyCount, input); err != nil {
			return nil, err
		}
	}

	key := qtyKey(input.TenantID, input.ProductID, input.LocationID)
	after := f.qty[key] + input.Delta
	if after < 0 {
		return nil, fmt.Errorf("%w: have %d", apperrors.ErrInsufficientStock, f.qty[key])
	}
	f.qty[key] = after
	f.applied = append(f.applied, *input)

	return &ledgerdto.ApplyDeltaResult{
		Level: &model.StockLevel{
			TenantID:   input.TenantID,
			ProductID:  input.ProductID,
			LocationID: input.LocationID,
			Quantity:   after,
		},
		Event: &model.InventoryEvent{
			TenantID:       input.TenantID,
			ProductID:      input.ProductID,
			EventType:      input.EventType,
			QuantityChange: input.Delta,
			QuantityAfter:  after,
		},
	}, nil
}

func (f *ledgerFake) GetQuantity(_ context.Context, tenantID, productID string, locationID *string) (int64, error) {
	if locationID == nil {
		var total int64
		prefix := fmt.Sprintf("%s|%s|", tenantID, productID)
		for key, q := range f.qty {
			if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
				total += q
			}
		}
		return total, nil
	}
	return f.qty[qtyKey(tenantID, productID, locationID)], nil
}

func (f *ledgerFake) History(context.Context, string, string, int) ([]model.InventoryEvent, error) {
	return nil, nil
}

func (f *ledgerFake) ListLevels(context.Context, *ledgerdto.LevelFilters) ([]model.StockLevel, int, error) {
	return nil, 0, nil
}

func (f *ledgerFake) ListEvents(context.Context, *ledgerdto.EventFilters) ([]model.InventoryEvent, int, error) {
	return nil, 0, nil
}

type productRepoMem struct {
	products map[string]*model.Product
}

func newProductRepoMem() *productRepoMem {
	return &productRepoMem{products: map[string]*model.Product{}}
}

func (r *productRepoMem) add(id, name string, reorderPoint *int64) {
	r.products[id] = &model.Product{
		BaseModel:           model.BaseModel{ID: id},
		TenantID:            "t1",
		Name:                name,
		DefaultReorderPoint: reorderPoint,
		IsActive:            true,
	}
}

func (r *productRepoMem) Create(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *productRepoMem) FindByID(_ context.Context, tenantID, id string) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	return p, nil
}

func (r *productRepoMem) FindAll(_ context.Context, _ *productdto.ProductFilters) ([]model.Product, int, error) {
	return nil, 0, nil
}

func (r *productRepoMem) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *productRepoMem) Deactivate(_ context.Context, _, id string) error {
	if p, ok := r.products[id]; ok {
		p.IsActive = false
	}
	return nil
}

func (r *productRepoMem) IsSKUUnique(context.Context, string, string, string) (bool, error) {
	return true, nil
}

func (r *productRepoMem) IsBarcodeUnique(context.Context, string, string, string) (bool, error) {
	return true, nil
}

type locationRepoMem struct {
	locations map[string]*model.Location
}

func (r *locationRepoMem) Create(_ context.Context, loc *model.Location) error {
	r.locations[loc.ID] = loc
	return nil
}

func (r *locationRepoMem) FindByID(_ context.Context, tenantID, id string) (*model.Location, error) {
	loc, ok := r.locations[id]
	if !ok || loc.TenantID != tenantID {
		return nil, nil
	}
	return loc, nil
}

func (r *locationRepoMem) FindPrimary(_ context.Context, tenantID string) (*model.Location, error) {
	for _, loc := range r.locations {
		if loc.TenantID == tenantID && loc.IsPrimary && loc.IsActive {
			return loc, nil
		}
	}
	return nil, nil
}

func (r *locationRepoMem) FindAll(_ context.Context, _ *locationdto.LocationFilters) ([]model.Location, int, error) {
	return nil, 0, nil
}

func (r *locationRepoMem) Update(_ context.Context, loc *model.Location) error {
	r.locations[loc.ID] = loc
	return nil
}

func (r *locationRepoMem) ClearPrimary(context.Context, string, string) error {
	return nil
}

type salesRepoMem struct {
	sales     map[string]*model.Sale
	deleted   []string
	createErr error
}

func newSalesRepoMem() *salesRepoMem {
	return &salesRepoMem{sales: map[string]*model.Sale{}}
}

func (r *salesRepoMem) CreateSale(_ context.Context, sale *model.Sale) error {
	if r.createErr != nil {
		return r.createErr
	}
	copied := *sale
	r.sales[sale.ID] = &copied
	return nil
}

func (r *salesRepoMem) DeleteSale(_ context.Context, _, saleID string) error {
	delete(r.sales, saleID)
	r.deleted = append(r.deleted, saleID)
	return nil
}

func (r *salesRepoMem) FindByID(_ context.Context, tenantID, saleID string) (*model.Sale, error) {
	sale, ok := r.sales[saleID]
	if !ok || sale.TenantID != tenantID {
		return nil, nil
	}
	return sale, nil
}

func (r *salesRepoMem) FindAll(_ context.Context, _ *dto.SaleFilters) ([]model.Sale, int, error) {
	return nil, 0, nil
}

// alertRepoMem backs the real alert usecase so alert side effects can be
// asserted end to end.
type alertRepoMem struct {
	alerts   []model.Alert
	existErr error
}

func (r *alertRepoMem) Create(_ context.Context, a *model.Alert) error {
	r.alerts = append(r.alerts, *a)
	return nil
}

func (r *alertRepoMem) ExistsSince(_ context.Context, tenantID, productID, alertType string, cutoff time.Time) (bool, error) {
	if r.existErr != nil {
		return false, r.existErr
	}
	for _, a := range r.alerts {
		if a.TenantID == tenantID && a.ProductID == productID && a.AlertType == alertType && !a.CreatedAt.Before(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

func (r *alertRepoMem) FindAll(_ context.Context, _ *alertdto.AlertFilters) ([]model.Alert, int, error) {
	return r.alerts, len(r.alerts), nil
}

func (r *alertRepoMem) MarkRead(context.Context, string, string, time.Time) error {
	return nil
}

func (r *alertRepoMem) MarkAllRead(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}

var _ alertrepo.Repository = (*alertRepoMem)(nil)

type fixture struct {
	ledger    *ledgerFake
	products  *productRepoMem
	locations *locationRepoMem
	sales     *salesRepoMem
	alerts    *alertRepoMem
	uc        *salesUseCase
}

func newFixture() *fixture {
	f := &fixture{
		ledger:    newLedgerFake(),
		products:  newProductRepoMem(),
		locations: &locationRepoMem{locations: map[string]*model.Location{}},
		sales:     newSalesRepoMem(),
		alerts:    &alertRepoMem{},
	}
	alertUC := alertuc.NewAlertUseCase(f.alerts, 24*time.Hour, logger.NewNop())
	f.uc = NewSalesUseCase(f.sales, f.products, f.locations, f.ledger, alertUC, 0, logger.NewNop()).(*salesUseCase)
	return f
}

func TestAdjust_ChangeTypeMapping(t *testing.T) {
	cases := []struct {
		changeType string
		delta      int64
		eventType  string
	}{
		{dto.ChangeAdd, 5, model.EventStockAdded},
		{dto.ChangeRestock, 5, model.EventStockRestocked},
		{dto.ChangeRemove, -5, model.EventStockRemoved},
	}

	for _, tc := range cases {
		t.Run(tc.changeType, func(t *testing.T) {
			f := newFixture()
			f.products.add("p1", "Matcha", nil)
			f.ledger.seed("t1", "p1", "", 20)

			result, err := f.uc.Adjust(context.Background(), &dto.AdjustInput{
				TenantID:       "t1",
				ProductID:      "p1",
				QuantityChange: 5,
				ChangeType:     tc.changeType,
				ActorID:        "u1",
			})
			require.NoError(t, err)
			assert.Equal(t, int64(20+tc.delta), result.Level.Quantity)
			assert.Equal(t, tc.eventType, result.Event.EventType)

			require.Len(t, f.ledger.applied, 1)
			assert.Equal(t, tc.delta, f.ledger.applied[0].Delta)
			assert.Equal(t, "manual", f.ledger.applied[0].ReferenceType)
		})
	}
}

func TestAdjust_Validations(t *testing.T) {
	f := newFixture()
	f.products.add("p1", "Matcha", nil)
	ctx := context.Background()

	_, err := f.uc.Adjust(ctx, &dto.AdjustInput{
		TenantID: "t1", ProductID: "p1", QuantityChange: 0, ChangeType: dto.ChangeAdd,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.uc.Adjust(ctx, &dto.AdjustInput{
		TenantID: "t1", ProductID: "p1", QuantityChange: 5, ChangeType: "evaporate",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.uc.Adjust(ctx, &dto.AdjustInput{
		TenantID: "t1", ProductID: "ghost", QuantityChange: 5, ChangeType: dto.ChangeAdd,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAdjust_RemoveBelowZeroFails(t *testing.T) {
	f := newFixture()
	f.products.add("p1", "Matcha", nil)
	f.ledger.seed("t1", "p1", "", 10)

	_, err := f.uc.Adjust(context.Background(), &dto.AdjustInput{
		TenantID: "t1", ProductID: "p1", QuantityChange: 11, ChangeType: dto.ChangeRemove,
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	// Quantity unchanged, no event recorded.
	q, _ := f.ledger.GetQuantity(context.Background(), "t1", "p1", nil)
	assert.Equal(t, int64(10), q)
	assert.Empty(t, f.ledger.applied)
}

func TestAdjust_EmitsLowStockAlert(t *testing.T) {
	f := newFixture()
	rp := int64(5)
	f.products.add("p1", "Matcha", &rp)
	f.ledger.seed("t1", "p1", "", 10)

	result, err := f.uc.Adjust(context.Background(), &dto.AdjustInput{
		TenantID: "t1", ProductID: "p1", QuantityChange: 6, ChangeType: dto.ChangeRemove,
	})
	require.NoError(t, err)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, model.AlertLowStock, result.Alerts[0].AlertType)
	assert.Equal(t, "Matcha is low on stock: 4 remaining (reorder point 5)", result.Alerts[0].Message)
}

func TestAdjust_AlertFailureDoesNotUndoStockChange(t *testing.T) {
	f := newFixture()
	rp := int64(5)
	f.products.add("p1", "Matcha", &rp)
	f.ledger.seed("t1", "p1", "", 7)
	f.alerts.existErr = errors.New("alerts table is on fire")

	result, err := f.uc.Adjust(context.Background(), &dto.AdjustInput{
		TenantID: "t1", ProductID: "p1", QuantityChange: 4, ChangeType: dto.ChangeRemove,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Alerts)
	assert.Equal(t, int64(3), result.Level.Quantity)
}

func TestSell_DeductsStockAndComputesTotals(t *testing.T) {
	f := newFixture()
	f.products.add("p1", "Matcha", nil)
	f.products.add("p2", "Sencha", nil)
	f.ledger.seed("t1", "p1", "", 10)
	f.ledger.seed("t1", "p2", "", 10)

	result, err := f.uc.Sell(context.Background(), &dto.SellInput{
		TenantID: "t1",
		Items: []dto.SellItemInput{
			{ProductID: "p1", Quantity: 2, UnitPrice: 4.50, Discount: 1.00},
			{ProductID: "p2", Quantity: 1, UnitPrice: 3.00},
		},
		CustomerID: "c1",
		ActorID:    "u1",
	})
	require.NoError(t, err)

	sale := result.Sale
	assert.InDelta(t, 12.00, sale.Subtotal, 1e-9)
	assert.InDelta(t, 1.00, sale.DiscountTotal, 1e-9)
	assert.InDelta(t, 11.00, sale.Total, 1e-9)
	assert.Regexp(t, regexp.MustCompile(`^S-\d{8}-[0-9A-F]+$`), sale.SaleNumber)
	require.Len(t, sale.Items, 2)
	assert.InDelta(t, 8.00, sale.Items[0].LineTotal, 1e-9)

	q1, _ := f.ledger.GetQuantity(context.Background(), "t1", "p1", nil)
	q2, _ := f.ledger.GetQuantity(context.Background(), "t1", "p2", nil)
	assert.Equal(t, int64(8), q1)
	assert.Equal(t, int64(9), q2)

	require.Len(t, f.ledger.applied, 2)
	for _, applied := range f.ledger.applied {
		assert.Equal(t, model.EventStockSold, applied.EventType)
		assert.Equal(t, "sale", applied.ReferenceType)
		assert.Equal(t, sale.SaleNumber, applied.ReferenceID)
	}

	require.Contains(t, f.sales.sales, sale.ID)
}

func TestSell_DrawsFromPrimaryLocationWhenPresent(t *testing.T) {
	f := newFixture()
	f.products.add("p1", "Matcha", nil)
	f.locations.locations["main"] = &model.Location{
		BaseModel: model.BaseModel{ID: "main"},
		TenantID:  "t1",
		Name:      "Main Store",
		IsPrimary: true,
		IsActive:  true,
	}
	f.ledger.seed("t1", "p1", "main", 10)

	_, err := f.uc.Sell(context.Background(), &dto.SellInput{
		TenantID: "t1",
		Items:    []dto.SellItemInput{{ProductID: "p1", Quantity: 3, UnitPrice: 1}},
	})
	require.NoError(t, err)

	main := "main"
	atMain, _ := f.ledger.GetQuantity(context.Background(), "t1", "p1", &main)
	assert.Equal(t, int64(7), atMain)
	require.Len(t, f.ledger.applied, 1)
	require.NotNil(t, f.ledger.applied[0].LocationID)
	assert.Equal(t, "main", *f.ledger.applied[0].LocationID)
}

func TestSell_Validations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Sell(ctx, &dto.SellInput{TenantID: "t1"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.uc.Sell(ctx, &dto.SellInput{
		TenantID: "t1",
		Items:    []dto.SellItemInput{{ProductID: "p1", Quantity: 0, UnitPrice: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.uc.Sell(ctx, &dto.SellInput{
		TenantID: "t1",
		Items:    []dto.SellItemInput{{ProductID: "p1", Quantity: 1, UnitPrice: -1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSell_ShortfallOnAnyLineAbortsWholeSale(t *testing.T) {
	f := newFixture()
	f.products.add("p1", "Matcha", nil)
	f.products.add("p2", "Sencha", nil)
	f.ledger.seed("t1", "p1", "", 10)
	f.ledger.seed("t1", "p2", "", 1)

	_, err := f.uc.Sell(context.Background(), &dto.SellInput{
		TenantID: "t1",
		Items: []dto.SellItemInput{
			{ProductID: "p1", Quantity: 2, UnitPrice: 1},
			{ProductID: "p2", Quantity: 5, UnitPrice: 1},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	// Nothing moved, nothing recorded.
	assert.Empty(t, f.ledger.applied)
	assert.Empty(t, f.sales.sales)
}

func TestSell_MidFlightFailureReversesAndDeletesSale(t *testing.T) {
	f := newFixture()
	f.products.add("p1", "Matcha", nil)
	f.products.add("p2", "Sencha", nil)
	f.ledger.seed("t1", "p1", "", 10)
	f.ledger.seed("t1", "p2", "", 10)

	boom := errors.New("ledger write failed")
	f.ledger.failOn = func(call int, _ *ledgerdto.ApplyDeltaInput) error {
		if call == 2 {
			return boom
		}
		return nil
	}

	_, err := f.uc.Sell(context.Background(), &dto.SellInput{
		TenantID: "t1",
		Items: []dto.SellItemInput{
			{ProductID: "p1", Quantity: 2, UnitPrice: 1},
			{ProductID: "p2", Quantity: 3, UnitPrice: 1},
		},
	})
	assert.ErrorIs(t, err, boom)

	ctx := context.Background()
	q1, _ := f.ledger.GetQuantity(ctx, "t1", "p1", nil)
	q2, _ := f.ledger.GetQuantity(ctx, "t1", "p2", nil)
	assert.Equal(t, int64(10), q1, "first line reversed")
	assert.Equal(t, int64(10), q2, "second line never applied")

	assert.Empty(t, f.sales.sales)
	assert.Len(t, f.sales.deleted, 1)
}

func TestSell_RetriesVersionConflicts(t *testing.T) {
	f := newFixture()
	f.products.add("p1", "Matcha", nil)
	f.ledger.seed("t1", "p1", "", 10)

	// Two conflicts, then success, within the retry bound.
	f.ledger.failOn = func(call int, _ *ledgerdto.ApplyDeltaInput) error {
		if call <= 2 {
			return apperrors.ErrConcurrentModification
		}
		return nil
	}

	result, err := f.uc.Sell(context.Background(), &dto.SellInput{
		TenantID: "t1",
		Items:    []dto.SellItemInput{{ProductID: "p1", Quantity: 2, UnitPrice: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Sale)

	q, _ := f.ledger.GetQuantity(context.Background(), "t1", "p1", nil)
	assert.Equal(t, int64(8), q)
}

func TestSell_ExhaustedRetriesFailTheSale(t *testing.T) {
	f := newFixture()
	f.products.add("p1", "Matcha", nil)
	f.ledger.seed("t1", "p1", "", 10)

	f.ledger.failOn = func(int, *ledgerdto.ApplyDeltaInput) error {
		return apperrors.ErrConcurrentModification
	}

	_, err := f.uc.Sell(context.Background(), &dto.SellInput{
		TenantID: "t1",
		Items:    []dto.SellItemInput{{ProductID: "p1", Quantity: 2, UnitPrice: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
	assert.Empty(t, f.sales.sales)
}

func TestSell_DrainingToZeroEmitsOutOfStockAlert(t *testing.T) {
	f := newFixture()
	f.products.add("p1", "Matcha", nil)
	f.ledger.seed("t1", "p1", "", 2)

	result, err := f.uc.Sell(context.Background(), &dto.SellInput{
		TenantID: "t1",
		Items:    []dto.SellItemInput{{ProductID: "p1", Quantity: 2, UnitPrice: 1}},
	})
	require.NoError(t, err)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, model.AlertOutOfStock, result.Alerts[0].AlertType)
	assert.Equal(t, "Matcha is out of stock", result.Alerts[0].Message)
	assert.Len(t, f.alerts.alerts, 1)
}

func TestSell_RepeatDrainInsideWindowStaysSilent(t *testing.T) {
	f := newFixture()
	f.products.add("p1", "Matcha", nil)
	f.ledger.seed("t1", "p1", "", 4)
	ctx := context.Background()

	sell := func() *dto.SellResult {
		result, err := f.uc.Sell(ctx, &dto.SellInput{
			TenantID: "t1",
			Items:    []dto.SellItemInput{{ProductID: "p1", Quantity: 2, UnitPrice: 1}},
		})
		require.NoError(t, err)
		return result
	}

	first := sell()
	require.Len(t, first.Alerts, 1)

	// Restock and drain again: the second OUT_OF_STOCK is inside the dedup
	// window and must be suppressed.
	_, err := f.uc.Adjust(ctx, &dto.AdjustInput{
		TenantID: "t1", ProductID: "p1", QuantityChange: 2, ChangeType: dto.ChangeRestock,
	})
	require.NoError(t, err)

	second := sell()
	assert.Empty(t, second.Alerts)
	assert.Len(t, f.alerts.alerts, 1)
}

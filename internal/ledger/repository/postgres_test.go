package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func testLevel(version int64) *model.StockLevel {
	return &model.StockLevel{
		ID:        "lvl-1",
		TenantID:  "t1",
		ProductID: "p1",
		Quantity:  7,
		Version:   version,
		UpdatedAt: time.Now(),
	}
}

func testEvent() *model.InventoryEvent {
	return &model.InventoryEvent{
		ID:             "evt-1",
		TenantID:       "t1",
		ProductID:      "p1",
		EventType:      model.EventStockAdded,
		QuantityChange: 7,
		QuantityBefore: 0,
		QuantityAfter:  7,
		CreatedAt:      time.Now(),
	}
}

func TestApplyLevelWithEvent_UpdateCommitsLevelAndEvent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE stock_levels").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO inventory_events").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ApplyLevelWithEvent(context.Background(), testLevel(3), 2, testEvent())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyLevelWithEvent_VersionMismatchRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE stock_levels").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ApplyLevelWithEvent(context.Background(), testLevel(3), 2, testEvent())
	assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyLevelWithEvent_InsertRaceRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	// expectedVersion 0 takes the insert path; a concurrent first writer
	// makes ON CONFLICT DO NOTHING affect zero rows.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO stock_levels").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ApplyLevelWithEvent(context.Background(), testLevel(1), 0, testEvent())
	assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyLevelWithEvent_InsertCommitsLevelAndEvent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO stock_levels").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO inventory_events").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ApplyLevelWithEvent(context.Background(), testLevel(1), 0, testEvent())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLevel_AbsentRowIsNil(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT \\* FROM stock_levels").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	level, err := repo.GetLevel(context.Background(), "t1", "p1", nil)
	require.NoError(t, err)
	assert.Nil(t, level)
}

func TestSumQuantity(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("t1", "p1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(42))

	total, err := repo.SumQuantity(context.Background(), "t1", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/ledger/dto"
	"github.com/stocknest/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetLevel(ctx context.Context, tenantID, productID string, locationID *string) (*model.StockLevel, error) {
	var level model.StockLevel
	query := `SELECT * FROM stock_levels WHERE tenant_id = $1 AND product_id = $2`
	args := []interface{}{tenantID, productID}

	if locationID != nil && *locationID != "" {
		query += ` AND location_id = $3`
		args = append(args, *locationID)
	} else {
		query += ` AND location_id IS NULL`
	}

	err := r.DB.GetContext(ctx, &level, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Levels are created lazily; absent is not an error
		}
		return nil, err
	}
	return &level, nil
}

func (r *PGRepository) SumQuantity(ctx context.Context, tenantID, productID string) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_levels WHERE tenant_id = $1 AND product_id = $2`
	err := r.DB.GetContext(ctx, &total, query, tenantID, productID)
	return total, err
}

func (r *PGRepository) FindLevels(ctx context.Context, f *dto.LevelFilters) ([]model.StockLevel, int, error) {
	var items []model.StockLevel
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.TenantID != "" {
		conditions = append(conditions, "tenant_id = :tenant_id")
		args["tenant_id"] = f.TenantID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LocationID != nil {
		if *f.LocationID == "" {
			conditions = append(conditions, "location_id IS NULL")
		} else {
			conditions = append(conditions, "location_id = :location_id")
			args["location_id"] = *f.LocationID
		}
	}
	if f.LowStock {
		conditions = append(conditions, "reorder_point IS NOT NULL AND quantity <= reorder_point")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_levels" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_levels" + whereClause + " ORDER BY updated_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) ApplyLevelWithEvent(ctx context.Context, level *model.StockLevel, expectedVersion int64, event *model.InventoryEvent) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if expectedVersion == 0 {
		// First touch of this product/location pair. A concurrent first
		// writer surfaces as a conflict the caller may retry against the
		// now-existing row.
		insertQuery := `
            INSERT INTO stock_levels (
                id, tenant_id, product_id, location_id,
                quantity, reserved_quantity, reorder_point, version, updated_at
            )
            VALUES (
                :id, :tenant_id, :product_id, :location_id,
                :quantity, :reserved_quantity, :reorder_point, :version, :updated_at
            )
            ON CONFLICT (tenant_id, product_id, location_id) DO NOTHING
        `
		res, err := tx.NamedExecContext(ctx, insertQuery, level)
		if err != nil {
			return fmt.Errorf("failed to insert stock level: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperrors.ErrConcurrentModification
		}
	} else {
		updateQuery := `
            UPDATE stock_levels
            SET quantity = :quantity,
                reserved_quantity = :reserved_quantity,
                version = :version,
                updated_at = :updated_at
            WHERE id = :id AND version = :expected_version
        `
		res, err := tx.NamedExecContext(ctx, updateQuery, map[string]interface{}{
			"quantity":          level.Quantity,
			"reserved_quantity": level.ReservedQuantity,
			"version":           level.Version,
			"updated_at":        level.UpdatedAt,
			"id":                level.ID,
			"expected_version":  expectedVersion,
		})
		if err != nil {
			return fmt.Errorf("failed to update stock level: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperrors.ErrConcurrentModification
		}
	}

	insertEventQuery := `
        INSERT INTO inventory_events (
            id, tenant_id, product_id, location_id,
            event_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, note, created_by, created_at
        )
        VALUES (
            :id, :tenant_id, :product_id, :location_id,
            :event_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :note, :created_by, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertEventQuery, event); err != nil {
		return fmt.Errorf("failed to append inventory event: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) ListEvents(ctx context.Context, f *dto.EventFilters) ([]model.InventoryEvent, int, error) {
	var items []model.InventoryEvent
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.TenantID != "" {
		conditions = append(conditions, "tenant_id = :tenant_id")
		args["tenant_id"] = f.TenantID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.EventType != "" {
		conditions = append(conditions, "event_type = :event_type")
		args["event_type"] = f.EventType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_events" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_events" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

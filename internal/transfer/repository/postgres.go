package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/internal/transfer/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, t *model.StockTransfer) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	headerQuery := `
        INSERT INTO stock_transfers (
            id, tenant_id, from_location_id, to_location_id,
            status, requested_by, notes, created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :from_location_id, :to_location_id,
            :status, :requested_by, :notes, :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, headerQuery, t); err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}

	itemQuery := `
        INSERT INTO transfer_items (id, transfer_id, product_id, quantity)
        VALUES (:id, :transfer_id, :product_id, :quantity)
    `
	for i := range t.Items {
		if _, err := tx.NamedExecContext(ctx, itemQuery, &t.Items[i]); err != nil {
			return fmt.Errorf("failed to insert transfer item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.StockTransfer, error) {
	var t model.StockTransfer
	query := `SELECT * FROM stock_transfers WHERE tenant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &t, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	itemsQuery := `SELECT * FROM transfer_items WHERE transfer_id = $1 ORDER BY id`
	if err := r.DB.SelectContext(ctx, &t.Items, itemsQuery, id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.TransferFilters) ([]model.StockTransfer, int, error) {
	var items []model.StockTransfer
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.TenantID != "" {
		conditions = append(conditions, "tenant_id = :tenant_id")
		args["tenant_id"] = f.TenantID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_transfers" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_transfers" + whereClause + " ORDER BY created_at DESC"
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

func (r *PGRepository) UpdateStatusFrom(ctx context.Context, tenantID, id string, expected, next model.TransferStatus, updatedAt time.Time) error {
	query := `
        UPDATE stock_transfers
        SET status = $1, updated_at = $2
        WHERE tenant_id = $3 AND id = $4 AND status = $5
    `
	res, err := r.DB.ExecContext(ctx, query, next, updatedAt, tenantID, id, expected)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrConcurrentModification
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, tenantID, id string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transfer_items WHERE transfer_id = $1`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM stock_transfers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFoundf("transfer %s", id)
	}

	return tx.Commit()
}

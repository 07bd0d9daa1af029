package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/internal/sales/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateSale(ctx context.Context, sale *model.Sale) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	headerQuery := `
        INSERT INTO sales (
            id, tenant_id, sale_number, customer_id,
            subtotal, discount_total, total, notes, created_by, created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :sale_number, :customer_id,
            :subtotal, :discount_total, :total, :notes, :created_by, :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, headerQuery, sale); err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	itemQuery := `
        INSERT INTO sale_items (
            id, sale_id, product_id, quantity, unit_price, discount, line_total
        )
        VALUES (
            :id, :sale_id, :product_id, :quantity, :unit_price, :discount, :line_total
        )
    `
	for i := range sale.Items {
		if _, err := tx.NamedExecContext(ctx, itemQuery, &sale.Items[i]); err != nil {
			return fmt.Errorf("failed to insert sale item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) DeleteSale(ctx context.Context, tenantID, saleID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, saleID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE tenant_id = $1 AND id = $2`, tenantID, saleID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, saleID string) (*model.Sale, error) {
	var sale model.Sale
	query := `SELECT * FROM sales WHERE tenant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &sale, query, tenantID, saleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	itemsQuery := `SELECT * FROM sale_items WHERE sale_id = $1 ORDER BY id`
	if err := r.DB.SelectContext(ctx, &sale.Items, itemsQuery, saleID); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	var items []model.Sale
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.TenantID != "" {
		conditions = append(conditions, "tenant_id = :tenant_id")
		args["tenant_id"] = f.TenantID
	}
	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM sales" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM sales" + whereClause + " ORDER BY created_at DESC"
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

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, tenant_id, sku, barcode, name, description,
            unit_cost, selling_price, unit_of_measure, default_reorder_point,
            is_active, created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :sku, :barcode, :name, :description,
            :unit_cost, :selling_price, :unit_of_measure, :default_reorder_point,
            :is_active, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE tenant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.TenantID != "" {
		conditions = append(conditions, "tenant_id = :tenant_id")
		args["tenant_id"] = f.TenantID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search OR barcode ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM products" + whereClause + " ORDER BY created_at DESC"
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

	err = nstmt.SelectContext(ctx, &products, args)
	return products, count, err
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET sku = :sku, barcode = :barcode, name = :name, description = :description,
            unit_cost = :unit_cost, selling_price = :selling_price,
            unit_of_measure = :unit_of_measure, default_reorder_point = :default_reorder_point,
            is_active = :is_active, updated_at = :updated_at
        WHERE tenant_id = :tenant_id AND id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Deactivate(ctx context.Context, tenantID, id string) error {
	query := `UPDATE products SET is_active = false, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFoundf("product %s", id)
	}
	return nil
}

func (r *PGRepository) IsSKUUnique(ctx context.Context, tenantID, sku, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE tenant_id = $1 AND sku = $2 AND id <> $3`
	err := r.DB.GetContext(ctx, &count, query, tenantID, sku, excludeID)
	return count == 0, err
}

func (r *PGRepository) IsBarcodeUnique(ctx context.Context, tenantID, barcode, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE tenant_id = $1 AND barcode = $2 AND id <> $3`
	err := r.DB.GetContext(ctx, &count, query, tenantID, barcode, excludeID)
	return count == 0, err
}

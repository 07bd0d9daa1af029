package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/stocknest/inventory-service/internal/location/dto"
	"github.com/stocknest/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, loc *model.Location) error {
	query := `
        INSERT INTO locations (id, tenant_id, name, is_primary, is_active, created_at, updated_at)
        VALUES (:id, :tenant_id, :name, :is_primary, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, loc)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Location, error) {
	var loc model.Location
	query := `SELECT * FROM locations WHERE tenant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &loc, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (r *PGRepository) FindPrimary(ctx context.Context, tenantID string) (*model.Location, error) {
	var loc model.Location
	query := `
        SELECT * FROM locations
        WHERE tenant_id = $1 AND is_primary = true AND is_active = true
        ORDER BY updated_at DESC
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &loc, query, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.LocationFilters) ([]model.Location, int, error) {
	var items []model.Location
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

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM locations" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM locations" + whereClause + " ORDER BY name ASC"
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

func (r *PGRepository) Update(ctx context.Context, loc *model.Location) error {
	query := `
        UPDATE locations
        SET name = :name, is_primary = :is_primary, is_active = :is_active, updated_at = :updated_at
        WHERE tenant_id = :tenant_id AND id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, loc)
	return err
}

func (r *PGRepository) ClearPrimary(ctx context.Context, tenantID, exceptID string) error {
	query := `
        UPDATE locations
        SET is_primary = false
        WHERE tenant_id = $1 AND id <> $2 AND is_primary = true
    `
	_, err := r.DB.ExecContext(ctx, query, tenantID, exceptID)
	return err
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stocknest/inventory-service/internal/alert/dto"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, a *model.Alert) error {
	query := `
        INSERT INTO alerts (
            id, tenant_id, product_id, alert_type, message, is_read, read_at, created_at
        )
        VALUES (
            :id, :tenant_id, :product_id, :alert_type, :message, :is_read, :read_at, :created_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, a)
	return err
}

func (r *PGRepository) ExistsSince(ctx context.Context, tenantID, productID, alertType string, cutoff time.Time) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS (
            SELECT 1 FROM alerts
            WHERE tenant_id = $1 AND product_id = $2 AND alert_type = $3 AND created_at >= $4
        )
    `
	err := r.DB.GetContext(ctx, &exists, query, tenantID, productID, alertType, cutoff)
	return exists, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.AlertFilters) ([]model.Alert, int, error) {
	var items []model.Alert
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
	if f.AlertType != "" {
		conditions = append(conditions, "alert_type = :alert_type")
		args["alert_type"] = f.AlertType
	}
	if f.UnreadOnly {
		conditions = append(conditions, "is_read = false")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM alerts" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM alerts" + whereClause + " ORDER BY created_at DESC"
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

func (r *PGRepository) MarkRead(ctx context.Context, tenantID, alertID string, readAt time.Time) error {
	query := `
        UPDATE alerts
        SET is_read = true, read_at = $1
        WHERE tenant_id = $2 AND id = $3
    `
	res, err := r.DB.ExecContext(ctx, query, readAt, tenantID, alertID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFoundf("alert %s", alertID)
	}
	return nil
}

func (r *PGRepository) MarkAllRead(ctx context.Context, tenantID string, readAt time.Time) (int64, error) {
	query := `
        UPDATE alerts
        SET is_read = true, read_at = $1
        WHERE tenant_id = $2 AND is_read = false
    `
	res, err := r.DB.ExecContext(ctx, query, readAt, tenantID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

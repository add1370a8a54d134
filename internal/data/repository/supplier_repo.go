package repository

import (
	"context"
	"errors"
	"fmt"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"
	"flight-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error)
	FindAll(ctx context.Context) ([]*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
}

type supplierRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSupplierRepository(db database.PgxIface, log *zap.Logger) SupplierRepository {
	return &supplierRepository{
		db:  db,
		log: log.With(zap.String("repository", "supplier")),
	}
}

const supplierColumns = `id, name, contact_info, created_by, created_at, updated_at`

func scanSupplier(row scanner) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.ContactInfo, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		supplier.ID,
		supplier.Name,
		supplier.ContactInfo,
		supplier.CreatedBy,
		supplier.CreatedAt,
		supplier.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create supplier", zap.Error(err), zap.String("name", supplier.Name))
		return fmt.Errorf("create supplier %s: %w", supplier.Name, err)
	}

	return nil
}

func (r *supplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`

	supplier, err := scanSupplier(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find supplier by ID", zap.Error(err), zap.String("supplier_id", id.String()))
		return nil, fmt.Errorf("find supplier by ID %s: %w", id, err)
	}

	return supplier, nil
}

func (r *supplierRepository) FindAll(ctx context.Context) ([]*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list suppliers", zap.Error(err))
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*entity.Supplier
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			r.log.Error("Failed to scan supplier row", zap.Error(err))
			return nil, fmt.Errorf("scan supplier row: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}

	return suppliers, rows.Err()
}

func (r *supplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	query := `UPDATE suppliers SET name = $2, contact_info = $3, updated_at = $4 WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		supplier.ID,
		supplier.Name,
		supplier.ContactInfo,
		supplier.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update supplier", zap.Error(err), zap.String("supplier_id", supplier.ID.String()))
		return fmt.Errorf("update supplier %s: %w", supplier.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("supplier %s: %w", supplier.ID, apperr.ErrNotFound)
	}

	return nil
}

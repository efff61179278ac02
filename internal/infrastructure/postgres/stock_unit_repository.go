package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

var _ repository.StockUnitRepository = (*StockUnitRepo)(nil)

const stockUnitColumns = `id, barcode, description, current_warehouse_id, current_cabinet_id,
		is_being_used, is_empty, is_deleted, number_of_uses,
		first_used_at, last_used_at, last_used_by, created_at, updated_at`

// StockUnitRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockUnitRepo struct {
	q Querier
}

// NewStockUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockUnitRepository(q Querier) *StockUnitRepo {
	return &StockUnitRepo{q: q}
}

// Create persiste una unidad física.
func (r *StockUnitRepo) Create(unit *entity.StockUnit) error {
	if unit.ID == "" {
		unit.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_units (id, barcode, description, current_warehouse_id, current_cabinet_id,
			is_being_used, is_empty, is_deleted, number_of_uses,
			first_used_at, last_used_at, last_used_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.Barcode, unit.Description, unit.CurrentWarehouseID, unit.CurrentCabinetID,
		unit.IsBeingUsed, unit.IsEmpty, unit.IsDeleted, unit.NumberOfUses,
		unit.FirstUsedAt, unit.LastUsedAt, unit.LastUsedBy, unit.CreatedAt, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad por ID. Devuelve (nil, nil) si no existe.
func (r *StockUnitRepo) GetByID(id string) (*entity.StockUnit, error) {
	query := `SELECT ` + stockUnitColumns + ` FROM stock_units WHERE id = $1`
	unit, err := scanStockUnit(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock unit: %w", err)
	}
	return unit, nil
}

// GetByIDs obtiene varias unidades; las no encontradas simplemente no figuran.
func (r *StockUnitRepo) GetByIDs(ids []string) ([]*entity.StockUnit, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + stockUnitColumns + ` FROM stock_units WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("get stock units: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockUnit
	for rows.Next() {
		unit, err := scanStockUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock unit: %w", err)
		}
		list = append(list, unit)
	}
	return list, rows.Err()
}

// Update reescribe la fila completa de la unidad.
func (r *StockUnitRepo) Update(unit *entity.StockUnit) error {
	query := `
		UPDATE stock_units
		SET barcode = $2, description = $3, current_warehouse_id = $4, current_cabinet_id = $5,
			is_being_used = $6, is_empty = $7, is_deleted = $8, number_of_uses = $9,
			first_used_at = $10, last_used_at = $11, last_used_by = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.Barcode, unit.Description, unit.CurrentWarehouseID, unit.CurrentCabinetID,
		unit.IsBeingUsed, unit.IsEmpty, unit.IsDeleted, unit.NumberOfUses,
		unit.FirstUsedAt, unit.LastUsedAt, unit.LastUsedBy, unit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByWarehouse lista unidades activas de un almacén con paginación.
func (r *StockUnitRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockUnit, error) {
	query := `SELECT ` + stockUnitColumns + `
		FROM stock_units
		WHERE current_warehouse_id = $1 AND is_deleted = false
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock units: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockUnit
	for rows.Next() {
		unit, err := scanStockUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock unit: %w", err)
		}
		list = append(list, unit)
	}
	return list, rows.Err()
}

func scanStockUnit(row pgx.Row) (*entity.StockUnit, error) {
	var u entity.StockUnit
	err := row.Scan(
		&u.ID, &u.Barcode, &u.Description, &u.CurrentWarehouseID, &u.CurrentCabinetID,
		&u.IsBeingUsed, &u.IsEmpty, &u.IsDeleted, &u.NumberOfUses,
		&u.FirstUsedAt, &u.LastUsedAt, &u.LastUsedBy, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

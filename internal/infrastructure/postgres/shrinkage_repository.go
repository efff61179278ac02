package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

var _ repository.ShrinkageRepository = (*ShrinkageRepo)(nil)

const shrinkageColumns = `id, source, reason, quantity, stock_unit_id, warehouse_id,
		user_id, transfer_id, notes, created_at`

// ShrinkageRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla lleva constraint única (stock_unit_id, reason): segunda línea de
// defensa de la deduplicación que el caso de uso ya verifica con Exists.
type ShrinkageRepo struct {
	q Querier
}

// NewShrinkageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShrinkageRepository(q Querier) *ShrinkageRepo {
	return &ShrinkageRepo{q: q}
}

// Create inserta el evento. Violación de la constraint única es duplicado.
func (r *ShrinkageRepo) Create(event *entity.InventoryShrinkageEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_shrinkage_events (id, source, reason, quantity, stock_unit_id, warehouse_id,
			user_id, transfer_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.Source, event.Reason, event.Quantity, event.StockUnitID, event.WarehouseID,
		event.UserID, event.TransferID, event.Notes, event.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create shrinkage event: %w", err)
	}
	return nil
}

// ExistsByUnitAndReason indica si ya hay evento para (unidad, motivo).
func (r *ShrinkageRepo) ExistsByUnitAndReason(stockUnitID, reason string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM inventory_shrinkage_events WHERE stock_unit_id = $1 AND reason = $2)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, stockUnitID, reason).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists shrinkage event: %w", err)
	}
	return exists, nil
}

// ListByWarehouse eventos de un almacén, más recientes primero.
func (r *ShrinkageRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.InventoryShrinkageEvent, error) {
	query := `SELECT ` + shrinkageColumns + `
		FROM inventory_shrinkage_events
		WHERE warehouse_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list shrinkage events: %w", err)
	}
	defer rows.Close()
	return scanShrinkageRows(rows)
}

// ListByUnit historial de mermas de una unidad.
func (r *ShrinkageRepo) ListByUnit(stockUnitID string) ([]*entity.InventoryShrinkageEvent, error) {
	query := `SELECT ` + shrinkageColumns + `
		FROM inventory_shrinkage_events
		WHERE stock_unit_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, stockUnitID)
	if err != nil {
		return nil, fmt.Errorf("list shrinkage events by unit: %w", err)
	}
	defer rows.Close()
	return scanShrinkageRows(rows)
}

func scanShrinkageRows(rows pgx.Rows) ([]*entity.InventoryShrinkageEvent, error) {
	var list []*entity.InventoryShrinkageEvent
	for rows.Next() {
		var e entity.InventoryShrinkageEvent
		if err := rows.Scan(&e.ID, &e.Source, &e.Reason, &e.Quantity, &e.StockUnitID, &e.WarehouseID,
			&e.UserID, &e.TransferID, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan shrinkage event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

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

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, number, transfer_type, source_warehouse_id, destination_warehouse_id,
		cabinet_id, status, created_by, completed_by, completed_at, total_items, created_at`

const transferDetailColumns = `id, transfer_id, stock_unit_id, quantity, condition,
		is_received, received_by, received_at, notes`

// TransferRepo implementación sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create inserta cabecera y detalles. Atado a una tx, la inserción es atómica;
// un número de folio repetido (carrera del día) sale como duplicado.
func (r *TransferRepo) Create(transfer *entity.WarehouseTransfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO warehouse_transfers (id, number, transfer_type, source_warehouse_id, destination_warehouse_id,
			cabinet_id, status, created_by, completed_by, completed_at, total_items, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.Number, transfer.TransferType, transfer.SourceWarehouseID, transfer.DestinationWarehouseID,
		transfer.CabinetID, transfer.Status, transfer.CreatedBy, transfer.CompletedBy, transfer.CompletedAt,
		transfer.TotalItems, transfer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create transfer: %w", err)
	}
	detailQuery := `
		INSERT INTO warehouse_transfer_details (id, transfer_id, stock_unit_id, quantity, condition,
			is_received, received_by, received_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range transfer.Details {
		d := &transfer.Details[i]
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		d.TransferID = transfer.ID
		_, err := r.q.Exec(context.Background(), detailQuery,
			d.ID, d.TransferID, d.StockUnitID, d.Quantity, d.Condition,
			d.IsReceived, d.ReceivedBy, d.ReceivedAt, d.Notes,
		)
		if err != nil {
			return fmt.Errorf("create transfer detail: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el traspaso con sus detalles. Devuelve (nil, nil) si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.WarehouseTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM warehouse_transfers WHERE id = $1`
	transfer, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	details, err := r.detailsByTransfer(id)
	if err != nil {
		return nil, err
	}
	transfer.Details = details
	return transfer, nil
}

// GetDetailByID obtiene un detalle suelto. Devuelve (nil, nil) si no existe.
func (r *TransferRepo) GetDetailByID(id string) (*entity.WarehouseTransferDetail, error) {
	query := `SELECT ` + transferDetailColumns + ` FROM warehouse_transfer_details WHERE id = $1`
	var d entity.WarehouseTransferDetail
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.TransferID, &d.StockUnitID, &d.Quantity, &d.Condition,
		&d.IsReceived, &d.ReceivedBy, &d.ReceivedAt, &d.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer detail: %w", err)
	}
	return &d, nil
}

// UpdateStatus persiste el estado y el sello de completado de la cabecera.
func (r *TransferRepo) UpdateStatus(transfer *entity.WarehouseTransfer) error {
	query := `
		UPDATE warehouse_transfers
		SET status = $2, completed_by = $3, completed_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.Status, transfer.CompletedBy, transfer.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateDetail persiste la recepción, condición y notas de un detalle.
func (r *TransferRepo) UpdateDetail(detail *entity.WarehouseTransferDetail) error {
	query := `
		UPDATE warehouse_transfer_details
		SET condition = $2, is_received = $3, received_by = $4, received_at = $5, notes = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.Condition, detail.IsReceived, detail.ReceivedBy, detail.ReceivedAt, detail.Notes,
	)
	if err != nil {
		return fmt.Errorf("update transfer detail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista traspasos donde el almacén participa como origen o destino,
// opcionalmente filtrados por estado. Los detalles se cargan por traspaso.
func (r *TransferRepo) List(warehouseID string, status entity.TransferStatus, limit, offset int) ([]*entity.WarehouseTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM warehouse_transfers WHERE 1=1`
	args := []any{}
	pos := 1
	if warehouseID != "" {
		query += fmt.Sprintf(" AND (source_warehouse_id = $%d OR destination_warehouse_id = $%d)", pos, pos)
		args = append(args, warehouseID)
		pos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.WarehouseTransfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, transfer := range list {
		details, err := r.detailsByTransfer(transfer.ID)
		if err != nil {
			return nil, err
		}
		transfer.Details = details
	}
	return list, nil
}

// MaxNumberWithPrefix devuelve el folio más alto del día, o "" si no hay.
func (r *TransferRepo) MaxNumberWithPrefix(prefix string) (string, error) {
	query := `SELECT COALESCE(MAX(number), '') FROM warehouse_transfers WHERE number LIKE $1 || '%'`
	var max string
	if err := r.q.QueryRow(context.Background(), query, prefix).Scan(&max); err != nil {
		return "", fmt.Errorf("max transfer number: %w", err)
	}
	return max, nil
}

// OpenTransferIDsByUnit traspasos pendientes que referencian la unidad.
func (r *TransferRepo) OpenTransferIDsByUnit(stockUnitID string) ([]string, error) {
	query := `
		SELECT DISTINCT t.id
		FROM warehouse_transfers t
		JOIN warehouse_transfer_details d ON d.transfer_id = t.id
		WHERE d.stock_unit_id = $1 AND t.status = $2`
	rows, err := r.q.Query(context.Background(), query, stockUnitID, entity.TransferPending)
	if err != nil {
		return nil, fmt.Errorf("open transfers by unit: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan transfer id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *TransferRepo) detailsByTransfer(transferID string) ([]entity.WarehouseTransferDetail, error) {
	query := `SELECT ` + transferDetailColumns + `
		FROM warehouse_transfer_details WHERE transfer_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer details: %w", err)
	}
	defer rows.Close()
	var details []entity.WarehouseTransferDetail
	for rows.Next() {
		var d entity.WarehouseTransferDetail
		if err := rows.Scan(&d.ID, &d.TransferID, &d.StockUnitID, &d.Quantity, &d.Condition,
			&d.IsReceived, &d.ReceivedBy, &d.ReceivedAt, &d.Notes); err != nil {
			return nil, fmt.Errorf("scan transfer detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.WarehouseTransfer, error) {
	var t entity.WarehouseTransfer
	err := row.Scan(
		&t.ID, &t.Number, &t.TransferType, &t.SourceWarehouseID, &t.DestinationWarehouseID,
		&t.CabinetID, &t.Status, &t.CreatedBy, &t.CompletedBy, &t.CompletedAt,
		&t.TotalItems, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

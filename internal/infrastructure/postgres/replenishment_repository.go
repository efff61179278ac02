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

var _ repository.ReplenishmentOrderRepository = (*ReplenishmentOrderRepo)(nil)

const orderColumns = `id, number, source_warehouse_id, cedis_warehouse_id, notes, status,
		sent_by, sent_at, received_by, received_at, transfer_id, created_by, created_at, updated_at`

const orderDetailColumns = `id, order_id, barcode, quantity, sent_quantity, notes, buy_order_generated`

// ReplenishmentOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type ReplenishmentOrderRepo struct {
	q Querier
}

// NewReplenishmentOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReplenishmentOrderRepository(q Querier) *ReplenishmentOrderRepo {
	return &ReplenishmentOrderRepo{q: q}
}

// Create inserta pedido y líneas. Un folio repetido (carrera del día contra la
// constraint única de number) sale como duplicado para que el caller reintente.
func (r *ReplenishmentOrderRepo) Create(order *entity.ReplenishmentOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO replenishment_orders (id, number, source_warehouse_id, cedis_warehouse_id, notes, status,
			sent_by, sent_at, received_by, received_at, transfer_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Number, order.SourceWarehouseID, order.CedisWarehouseID, order.Notes, order.Status,
		order.SentBy, order.SentAt, order.ReceivedBy, order.ReceivedAt, order.TransferID,
		order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create order: %w", err)
	}
	detailQuery := `
		INSERT INTO replenishment_order_details (id, order_id, barcode, quantity, sent_quantity, notes, buy_order_generated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range order.Details {
		d := &order.Details[i]
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		d.OrderID = order.ID
		_, err := r.q.Exec(context.Background(), detailQuery,
			d.ID, d.OrderID, d.Barcode, d.Quantity, d.SentQuantity, d.Notes, d.BuyOrderGenerated,
		)
		if err != nil {
			return fmt.Errorf("create order detail: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas. Devuelve (nil, nil) si no existe.
func (r *ReplenishmentOrderRepo) GetByID(id string) (*entity.ReplenishmentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM replenishment_orders WHERE id = $1`
	order, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	details, err := r.detailsByOrder(id)
	if err != nil {
		return nil, err
	}
	order.Details = details
	return order, nil
}

// Update persiste estado, sellos, notas y enlace a traspaso de la cabecera.
func (r *ReplenishmentOrderRepo) Update(order *entity.ReplenishmentOrder) error {
	query := `
		UPDATE replenishment_orders
		SET notes = $2, status = $3, sent_by = $4, sent_at = $5,
			received_by = $6, received_at = $7, transfer_id = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		order.ID, order.Notes, order.Status, order.SentBy, order.SentAt,
		order.ReceivedBy, order.ReceivedAt, order.TransferID, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetDetailByID obtiene una línea suelta. Devuelve (nil, nil) si no existe.
func (r *ReplenishmentOrderRepo) GetDetailByID(id string) (*entity.ReplenishmentOrderDetail, error) {
	query := `SELECT ` + orderDetailColumns + ` FROM replenishment_order_details WHERE id = $1`
	var d entity.ReplenishmentOrderDetail
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.OrderID, &d.Barcode, &d.Quantity, &d.SentQuantity, &d.Notes, &d.BuyOrderGenerated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order detail: %w", err)
	}
	return &d, nil
}

// UpdateDetail persiste surtido, notas y marca de compra de una línea.
func (r *ReplenishmentOrderRepo) UpdateDetail(detail *entity.ReplenishmentOrderDetail) error {
	query := `
		UPDATE replenishment_order_details
		SET sent_quantity = $2, notes = $3, buy_order_generated = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.SentQuantity, detail.Notes, detail.BuyOrderGenerated,
	)
	if err != nil {
		return fmt.Errorf("update order detail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista pedidos, opcionalmente filtrados por estado, con líneas cargadas.
func (r *ReplenishmentOrderRepo) List(status entity.OrderStatus, limit, offset int) ([]*entity.ReplenishmentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM replenishment_orders`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReplenishmentOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, order := range list {
		details, err := r.detailsByOrder(order.ID)
		if err != nil {
			return nil, err
		}
		order.Details = details
	}
	return list, nil
}

// MaxNumberWithPrefix devuelve el folio más alto del día, o "" si no hay.
func (r *ReplenishmentOrderRepo) MaxNumberWithPrefix(prefix string) (string, error) {
	query := `SELECT COALESCE(MAX(number), '') FROM replenishment_orders WHERE number LIKE $1 || '%'`
	var max string
	if err := r.q.QueryRow(context.Background(), query, prefix).Scan(&max); err != nil {
		return "", fmt.Errorf("max order number: %w", err)
	}
	return max, nil
}

// ListUnfulfilledDetails líneas con faltante: pedido recibido, sin orden de
// compra generada y surtido menor a lo solicitado.
func (r *ReplenishmentOrderRepo) ListUnfulfilledDetails() ([]*entity.ReplenishmentOrderDetail, error) {
	query := `
		SELECT d.id, d.order_id, d.barcode, d.quantity, d.sent_quantity, d.notes, d.buy_order_generated
		FROM replenishment_order_details d
		JOIN replenishment_orders o ON o.id = d.order_id
		WHERE o.status = $1 AND d.buy_order_generated = false AND d.sent_quantity < d.quantity
		ORDER BY o.number, d.barcode`
	rows, err := r.q.Query(context.Background(), query, entity.OrderReceived)
	if err != nil {
		return nil, fmt.Errorf("list unfulfilled details: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReplenishmentOrderDetail
	for rows.Next() {
		var d entity.ReplenishmentOrderDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.Barcode, &d.Quantity, &d.SentQuantity, &d.Notes, &d.BuyOrderGenerated); err != nil {
			return nil, fmt.Errorf("scan order detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// MarkBuyOrderGenerated marca en bloque; devuelve filas realmente cambiadas.
func (r *ReplenishmentOrderRepo) MarkBuyOrderGenerated(detailIDs []string) (int64, error) {
	query := `
		UPDATE replenishment_order_details
		SET buy_order_generated = true
		WHERE id = ANY($1) AND buy_order_generated = false`
	tag, err := r.q.Exec(context.Background(), query, detailIDs)
	if err != nil {
		return 0, fmt.Errorf("mark buy order generated: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ReplenishmentOrderRepo) detailsByOrder(orderID string) ([]entity.ReplenishmentOrderDetail, error) {
	query := `SELECT ` + orderDetailColumns + `
		FROM replenishment_order_details WHERE order_id = $1 ORDER BY barcode`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order details: %w", err)
	}
	defer rows.Close()
	var details []entity.ReplenishmentOrderDetail
	for rows.Next() {
		var d entity.ReplenishmentOrderDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.Barcode, &d.Quantity, &d.SentQuantity, &d.Notes, &d.BuyOrderGenerated); err != nil {
			return nil, fmt.Errorf("scan order detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.ReplenishmentOrder, error) {
	var o entity.ReplenishmentOrder
	err := row.Scan(
		&o.ID, &o.Number, &o.SourceWarehouseID, &o.CedisWarehouseID, &o.Notes, &o.Status,
		&o.SentBy, &o.SentAt, &o.ReceivedBy, &o.ReceivedAt, &o.TransferID,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

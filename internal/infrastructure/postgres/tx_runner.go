package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rtrejos/almacen-api/internal/application/replenishment"
	"github.com/rtrejos/almacen-api/internal/application/shrinkage"
	"github.com/rtrejos/almacen-api/internal/application/stockunit"
	"github.com/rtrejos/almacen-api/internal/application/transfer"
	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

// Ensure TxRunner satisface los puertos transaccionales de cada caso de uso.
var _ transfer.TxRunner = (*TxRunner)(nil)
var _ shrinkage.TxRunner = (*TxRunner)(nil)
var _ stockunit.TxRunner = (*TxRunner)(nil)
var _ replenishment.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos que necesitan los traspasos
// (unidades, traspasos y mermas) y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	unitRepo repository.StockUnitRepository,
	transferRepo repository.TransferRepository,
	eventRepo repository.ShrinkageRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	unitRepo := NewStockUnitRepository(tx)
	transferRepo := NewTransferRepository(tx)
	eventRepo := NewShrinkageRepository(tx)

	if err := fn(unitRepo, transferRepo, eventRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunShrinkage inicia una transacción con repos de unidades y mermas (mermas
// manuales y bajas legacy: evento + flags de la unidad, atómico).
func (r *TxRunner) RunShrinkage(ctx context.Context, fn func(
	unitRepo repository.StockUnitRepository,
	eventRepo repository.ShrinkageRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	unitRepo := NewStockUnitRepository(tx)
	eventRepo := NewShrinkageRepository(tx)

	if err := fn(unitRepo, eventRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOrders inicia una transacción con el repo de pedidos de reposición
// (folio diario + inserción, y updates cabecera+líneas).
func (r *TxRunner) RunOrders(ctx context.Context, fn func(
	orderRepo repository.ReplenishmentOrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderRepo := NewReplenishmentOrderRepository(tx)

	if err := fn(orderRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

package testutil

import (
	"context"

	"github.com/rtrejos/almacen-api/internal/application/replenishment"
	"github.com/rtrejos/almacen-api/internal/application/shrinkage"
	"github.com/rtrejos/almacen-api/internal/application/stockunit"
	"github.com/rtrejos/almacen-api/internal/application/transfer"
	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

// Ensure TxRunner satisface los puertos transaccionales de los casos de uso.
var _ transfer.TxRunner = (*TxRunner)(nil)
var _ shrinkage.TxRunner = (*TxRunner)(nil)
var _ stockunit.TxRunner = (*TxRunner)(nil)
var _ replenishment.TxRunner = (*TxRunner)(nil)

// TxRunner falso: ejecuta el callback directamente contra el MemStore, sin
// transacción real ni rollback.
type TxRunner struct {
	s *MemStore
}

// NewTxRunner construye el runner atado al store.
func NewTxRunner(s *MemStore) *TxRunner {
	return &TxRunner{s: s}
}

// Run entrega repos de unidades, traspasos y mermas.
func (r *TxRunner) Run(ctx context.Context, fn func(
	unitRepo repository.StockUnitRepository,
	transferRepo repository.TransferRepository,
	eventRepo repository.ShrinkageRepository,
) error) error {
	return fn(r.s.Units(), r.s.Transfers(), r.s.Events())
}

// RunShrinkage entrega repos de unidades y mermas.
func (r *TxRunner) RunShrinkage(ctx context.Context, fn func(
	unitRepo repository.StockUnitRepository,
	eventRepo repository.ShrinkageRepository,
) error) error {
	return fn(r.s.Units(), r.s.Events())
}

// RunOrders entrega el repo de pedidos.
func (r *TxRunner) RunOrders(ctx context.Context, fn func(
	orderRepo repository.ReplenishmentOrderRepository,
) error) error {
	return fn(r.s.Orders())
}

package shrinkage

import (
	"context"

	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La deduplicación (unidad, motivo) se verifica
// e inserta dentro de la misma transacción: o se aplica todo el lote o nada.
type TxRunner interface {
	RunShrinkage(ctx context.Context, fn func(
		unitRepo repository.StockUnitRepository,
		eventRepo repository.ShrinkageRepository,
	) error) error
}

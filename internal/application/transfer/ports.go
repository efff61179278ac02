package transfer

import (
	"context"

	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La máquina de estados del traspaso depende de
// esto: crear cabecera+detalles, y completar+reconciliar, son atómicos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		unitRepo repository.StockUnitRepository,
		transferRepo repository.TransferRepository,
		eventRepo repository.ShrinkageRepository,
	) error) error
}

// ShrinkageRecorder registra un evento de merma derivado dentro de la
// transacción del caller. Lo implementa shrinkage.RecorderUseCase.
type ShrinkageRecorder interface {
	RecordDerived(
		eventRepo repository.ShrinkageRepository,
		source, reason string,
		quantity int,
		stockUnitID, warehouseID, userID string,
		transferID *string,
		notes string,
	) error
}

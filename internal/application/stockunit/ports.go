package stockunit

import (
	"context"

	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de unidades y mermas atados a esa tx. Lo necesitan las bajas
// legacy: evento de merma + flags de la unidad en una sola transacción.
type TxRunner interface {
	RunShrinkage(ctx context.Context, fn func(
		unitRepo repository.StockUnitRepository,
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

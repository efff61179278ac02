package repository

import "github.com/rtrejos/almacen-api/internal/domain/entity"

// ShrinkageRepository puerto de persistencia para el registro de mermas.
// Solo inserta y consulta: los eventos son inmutables.
type ShrinkageRepository interface {
	Create(event *entity.InventoryShrinkageEvent) error
	// ExistsByUnitAndReason sostiene la deduplicación (unidad, motivo) junto
	// con la constraint única de la tabla.
	ExistsByUnitAndReason(stockUnitID, reason string) (bool, error)
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.InventoryShrinkageEvent, error)
	ListByUnit(stockUnitID string) ([]*entity.InventoryShrinkageEvent, error)
}

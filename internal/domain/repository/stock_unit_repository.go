package repository

import "github.com/rtrejos/almacen-api/internal/domain/entity"

// StockUnitRepository puerto de persistencia para unidades físicas de inventario.
// GetByID devuelve (nil, nil) si no existe.
type StockUnitRepository interface {
	Create(unit *entity.StockUnit) error
	GetByID(id string) (*entity.StockUnit, error)
	GetByIDs(ids []string) ([]*entity.StockUnit, error)
	Update(unit *entity.StockUnit) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockUnit, error)
}

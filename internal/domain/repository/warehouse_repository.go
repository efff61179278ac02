package repository

import "github.com/rtrejos/almacen-api/internal/domain/entity"

// WarehouseRepository puerto de persistencia para almacenes.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	List(limit, offset int) ([]*entity.Warehouse, error)
}

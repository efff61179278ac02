package repository

import "github.com/rtrejos/almacen-api/internal/domain/entity"

// TransferRepository puerto de persistencia para traspasos y sus detalles.
//
// Create inserta cabecera y detalles en una sola llamada; cuando el adaptador
// está atado a una transacción, la inserción es atómica. GetByID devuelve el
// traspaso con sus detalles cargados, o (nil, nil) si no existe.
type TransferRepository interface {
	Create(transfer *entity.WarehouseTransfer) error
	GetByID(id string) (*entity.WarehouseTransfer, error)
	GetDetailByID(id string) (*entity.WarehouseTransferDetail, error)
	UpdateStatus(transfer *entity.WarehouseTransfer) error
	UpdateDetail(detail *entity.WarehouseTransferDetail) error
	List(warehouseID string, status entity.TransferStatus, limit, offset int) ([]*entity.WarehouseTransfer, error)
	// MaxNumberWithPrefix devuelve el número más alto ya asignado con ese
	// prefijo (p. ej. "TRA-20260901-"), o "" si no hay ninguno.
	MaxNumberWithPrefix(prefix string) (string, error)
	// OpenTransferIDsByUnit devuelve los traspasos no terminales que referencian
	// la unidad; sostiene el invariante "una unidad en traspaso abierto no se borra".
	OpenTransferIDsByUnit(stockUnitID string) ([]string, error)
}

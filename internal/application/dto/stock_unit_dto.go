package dto

import "time"

// CreateStockUnitRequest alta de una unidad física (ingreso a inventario).
type CreateStockUnitRequest struct {
	Barcode     string  `json:"barcode" validate:"required"`
	Description string  `json:"description"`
	WarehouseID *string `json:"warehouse_id,omitempty"`
	CabinetID   *string `json:"cabinet_id,omitempty"`
}

// RelocateStockUnitRequest mueve la unidad: almacén XOR gabinete.
type RelocateStockUnitRequest struct {
	WarehouseID *string `json:"warehouse_id,omitempty"`
	CabinetID   *string `json:"cabinet_id,omitempty"`
}

// CheckoutStockUnitRequest marca la unidad en uso por un empleado.
type CheckoutStockUnitRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

// CheckinStockUnitRequest devuelve la unidad; is_empty la deja lista para baja.
type CheckinStockUnitRequest struct {
	IsEmpty bool `json:"is_empty"`
}

// StockUnitResponse salida de una unidad física.
type StockUnitResponse struct {
	ID                 string     `json:"id"`
	Barcode            string     `json:"barcode"`
	Description        string     `json:"description"`
	CurrentWarehouseID *string    `json:"current_warehouse_id,omitempty"`
	CurrentCabinetID   *string    `json:"current_cabinet_id,omitempty"`
	IsBeingUsed        bool       `json:"is_being_used"`
	IsEmpty            bool       `json:"is_empty"`
	IsDeleted          bool       `json:"is_deleted"`
	NumberOfUses       int        `json:"number_of_uses"`
	FirstUsedAt        *time.Time `json:"first_used_at,omitempty"`
	LastUsedAt         *time.Time `json:"last_used_at,omitempty"`
	LastUsedBy         *string    `json:"last_used_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// StockUnitListResponse lista paginada de unidades.
type StockUnitListResponse struct {
	Items []StockUnitResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

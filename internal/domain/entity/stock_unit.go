package entity

import "time"

// StockUnit es una unidad física de inventario: una fila por artículo, no un
// contador agregado. La ubicación es warehouse XOR cabinet: poblar una limpia
// la otra.
type StockUnit struct {
	ID                 string
	Barcode            string // tipo de producto
	Description        string
	CurrentWarehouseID *string
	CurrentCabinetID   *string
	IsBeingUsed        bool
	IsEmpty            bool
	IsDeleted          bool
	NumberOfUses       int
	FirstUsedAt        *time.Time
	LastUsedAt         *time.Time
	LastUsedBy         *string // empleado
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RelocateToWarehouse mueve la unidad a un almacén y limpia el gabinete.
func (u *StockUnit) RelocateToWarehouse(warehouseID string, now time.Time) {
	u.CurrentWarehouseID = &warehouseID
	u.CurrentCabinetID = nil
	u.UpdatedAt = now
}

// RelocateToCabinet mueve la unidad a un gabinete y limpia el almacén.
func (u *StockUnit) RelocateToCabinet(cabinetID string, now time.Time) {
	u.CurrentCabinetID = &cabinetID
	u.CurrentWarehouseID = nil
	u.UpdatedAt = now
}

// Checkout marca la unidad en uso y actualiza los contadores de uso.
func (u *StockUnit) Checkout(employeeID string, now time.Time) {
	u.IsBeingUsed = true
	u.NumberOfUses++
	if u.FirstUsedAt == nil {
		u.FirstUsedAt = &now
	}
	u.LastUsedAt = &now
	u.LastUsedBy = &employeeID
	u.UpdatedAt = now
}

// Checkin marca la unidad como no usada; isEmpty la deja lista para baja.
func (u *StockUnit) Checkin(isEmpty bool, now time.Time) {
	u.IsBeingUsed = false
	u.IsEmpty = isEmpty
	u.UpdatedAt = now
}

// MarkDeleted saca la unidad de circulación (estado terminal).
func (u *StockUnit) MarkDeleted(now time.Time) {
	u.IsDeleted = true
	u.IsBeingUsed = false
	u.UpdatedAt = now
}

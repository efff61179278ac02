package entity

import "time"

// Origen del evento de merma.
const (
	ShrinkageSourceManual          = "manual"           // captura directa del usuario
	ShrinkageSourceTransferMissing = "transfer_missing" // reconciliación al completar traspaso
	ShrinkageSourceLegacy          = "legacy"           // derivado de endpoints antiguos (marcar vacío / borrar)
)

// Motivos permitidos de merma. Se comparan ya normalizados (minúsculas, sin tildes).
const (
	ShrinkageReasonConsumido = "consumido"
	ShrinkageReasonDanado    = "danado"
	ShrinkageReasonOtro      = "otro" // exige notas no vacías
)

// ValidShrinkageReason indica si el motivo (ya normalizado) está permitido.
func ValidShrinkageReason(reason string) bool {
	switch reason {
	case ShrinkageReasonConsumido, ShrinkageReasonDanado, ShrinkageReasonOtro:
		return true
	}
	return false
}

// ValidShrinkageSource indica si el origen pertenece al conjunto cerrado.
func ValidShrinkageSource(source string) bool {
	switch source {
	case ShrinkageSourceManual, ShrinkageSourceTransferMissing, ShrinkageSourceLegacy:
		return true
	}
	return false
}

// InventoryShrinkageEvent registro inmutable de pérdida o baja de inventario.
// A lo sumo un evento por (unidad, motivo): un reintento es conflicto, no una
// fila nueva. Nunca se actualiza ni se borra.
type InventoryShrinkageEvent struct {
	ID          string
	Source      string // manual | transfer_missing | legacy
	Reason      string // consumido | danado | otro
	Quantity    int
	StockUnitID string
	WarehouseID string // almacén donde se registra la pérdida
	UserID      string
	TransferID  *string // traspaso que la originó, si aplica
	Notes       string
	CreatedAt   time.Time
}

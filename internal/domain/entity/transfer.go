package entity

import (
	"time"

	"github.com/rtrejos/almacen-api/internal/domain"
)

// TransferStatus estado del traspaso. En vez de tres booleanos independientes,
// un enum cerrado: un registro no puede estar a la vez completado y cancelado.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

// Valid indica si el valor pertenece al enum.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferCompleted, TransferCancelled:
		return true
	}
	return false
}

// Terminal indica si el estado ya no admite transiciones ni mutación de detalles.
func (s TransferStatus) Terminal() bool {
	return s == TransferCompleted || s == TransferCancelled
}

// Tipos de traspaso.
const (
	TransferTypeExternal = "external" // entre almacenes; reconcilia merma al completar
	TransferTypeInternal = "internal" // hacia un gabinete dentro del mismo almacén
)

// ValidTransferType indica si t pertenece al conjunto permitido.
func ValidTransferType(t string) bool {
	return t == TransferTypeExternal || t == TransferTypeInternal
}

// WarehouseTransfer modela el movimiento de un lote de unidades desde un
// almacén origen hacia un destino, con recepción por artículo.
type WarehouseTransfer struct {
	ID                     string
	Number                 string
	TransferType           string // external | internal
	SourceWarehouseID      string
	DestinationWarehouseID string
	CabinetID              *string // solo traspasos internos
	Status                 TransferStatus
	CreatedBy              string
	CompletedBy            *string
	CompletedAt            *time.Time
	TotalItems             int
	CreatedAt              time.Time
	Details                []WarehouseTransferDetail
}

// WarehouseTransferDetail una unidad dentro del traspaso y su recepción.
type WarehouseTransferDetail struct {
	ID          string
	TransferID  string
	StockUnitID string
	Quantity    int // normalmente 1: las unidades se rastrean una a una
	Condition   string
	IsReceived  bool
	ReceivedBy  *string
	ReceivedAt  *time.Time
	Notes       string
}

// Complete transiciona pending → completed. Cualquier otro origen es conflicto:
// el registro de recepción es la base legal de la merma y no se reabre.
func (t *WarehouseTransfer) Complete(userID string, now time.Time) error {
	if t.Status != TransferPending {
		return domain.ErrConflict
	}
	t.Status = TransferCompleted
	t.CompletedBy = &userID
	t.CompletedAt = &now
	return nil
}

// Cancel transiciona pending → cancelled. No hay reconciliación: las unidades
// quedan donde estaban.
func (t *WarehouseTransfer) Cancel() error {
	if t.Status != TransferPending {
		return domain.ErrConflict
	}
	t.Status = TransferCancelled
	return nil
}

// MarkReceived registra la recepción de un detalle.
func (d *WarehouseTransferDetail) MarkReceived(userID string, now time.Time) {
	d.IsReceived = true
	d.ReceivedBy = &userID
	d.ReceivedAt = &now
}

// ClearReceived revierte la recepción de un detalle (solo mientras el traspaso
// sigue pendiente; eso lo garantiza el caso de uso).
func (d *WarehouseTransferDetail) ClearReceived() {
	d.IsReceived = false
	d.ReceivedBy = nil
	d.ReceivedAt = nil
}

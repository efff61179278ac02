package entity

import (
	"time"

	"github.com/rtrejos/almacen-api/internal/domain"
)

// OrderStatus estado del pedido de reposición. Sustituye al par de booleanos
// isSent/isReceived: "received" implica haber pasado por "sent".
type OrderStatus string

const (
	OrderOpen     OrderStatus = "open"
	OrderSent     OrderStatus = "sent"
	OrderReceived OrderStatus = "received"
)

// Valid indica si el valor pertenece al enum.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderOpen, OrderSent, OrderReceived:
		return true
	}
	return false
}

// ReplenishmentOrder pedido de un almacén hacia el CEDIS. El número es
// secuencial por día (PED-YYYYMMDD-NNNN). Nunca se borra físicamente.
type ReplenishmentOrder struct {
	ID                string
	Number            string
	SourceWarehouseID string // solicitante
	CedisWarehouseID  string // debe tener IsCedis = true
	Notes             string
	Status            OrderStatus
	SentBy            *string
	SentAt            *time.Time
	ReceivedBy        *string
	ReceivedAt        *time.Time
	TransferID        *string // traspaso que lo surte, opcional
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Details           []ReplenishmentOrderDetail
}

// ReplenishmentOrderDetail línea del pedido: se pide por código de barras
// (tipo de producto), no por unidad física, porque al pedir aún no se sabe
// qué unidades lo surtirán.
type ReplenishmentOrderDetail struct {
	ID                string
	OrderID           string
	Barcode           string
	Quantity          int
	SentQuantity      int // surtido real; 0 hasta que se despacha
	Notes             string
	BuyOrderGenerated bool
}

// MarkSent transiciona open → sent estampando actor y hora.
func (o *ReplenishmentOrder) MarkSent(userID string, now time.Time) error {
	if o.Status != OrderOpen {
		return domain.ErrConflict
	}
	o.Status = OrderSent
	o.SentBy = &userID
	o.SentAt = &now
	o.UpdatedAt = now
	return nil
}

// ClearSent revierte el envío. Arrastra la recepción: un pedido no puede
// figurar recibido sin estar enviado.
func (o *ReplenishmentOrder) ClearSent(now time.Time) {
	o.Status = OrderOpen
	o.SentBy = nil
	o.SentAt = nil
	o.ReceivedBy = nil
	o.ReceivedAt = nil
	o.UpdatedAt = now
}

// MarkReceived transiciona sent → received. Recibir sin enviar es entrada inválida.
func (o *ReplenishmentOrder) MarkReceived(userID string, now time.Time) error {
	if o.Status == OrderReceived {
		return domain.ErrConflict
	}
	if o.Status != OrderSent {
		return domain.ErrInvalidInput
	}
	o.Status = OrderReceived
	o.ReceivedBy = &userID
	o.ReceivedAt = &now
	o.UpdatedAt = now
	return nil
}

// ClearReceived revierte la recepción dejando el pedido en sent.
func (o *ReplenishmentOrder) ClearReceived(now time.Time) error {
	if o.Status != OrderReceived {
		return domain.ErrConflict
	}
	o.Status = OrderSent
	o.ReceivedBy = nil
	o.ReceivedAt = nil
	o.UpdatedAt = now
	return nil
}

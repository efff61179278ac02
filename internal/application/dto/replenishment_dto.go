package dto

import "time"

// CreateReplenishmentOrderRequest body para POST /api/replenishment-orders.
type CreateReplenishmentOrderRequest struct {
	SourceWarehouseID string                          `json:"source_warehouse_id" validate:"required"`
	CedisWarehouseID  string                          `json:"cedis_warehouse_id" validate:"required"`
	Notes             string                          `json:"notes"`
	Items             []ReplenishmentItemRequest      `json:"items" validate:"required,min=1,dive"`
}

// ReplenishmentItemRequest línea solicitada: código de barras + cantidad.
type ReplenishmentItemRequest struct {
	Barcode  string `json:"barcode" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Notes    string `json:"notes"`
}

// UpdateReplenishmentOrderRequest body para PUT /api/replenishment-orders/:id.
// Flags nil no se tocan; items trae solo las líneas a actualizar.
type UpdateReplenishmentOrderRequest struct {
	IsSent     *bool                             `json:"is_sent,omitempty"`
	IsReceived *bool                             `json:"is_received,omitempty"`
	Notes      *string                           `json:"notes,omitempty"`
	Items      []UpdateReplenishmentItemRequest  `json:"items,omitempty"`
}

// UpdateReplenishmentItemRequest actualización de una línea existente.
// SentQuantity nil cae a la cantidad solicitada (compatibilidad con clientes
// que no mandan el surtido real).
type UpdateReplenishmentItemRequest struct {
	DetailID          string  `json:"detail_id" validate:"required"`
	SentQuantity      *int    `json:"sent_quantity,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	BuyOrderGenerated *bool   `json:"buy_order_generated,omitempty"`
}

// LinkTransferRequest body para PATCH /api/replenishment-orders/:id/link-transfer.
type LinkTransferRequest struct {
	WarehouseTransferID string `json:"warehouse_transfer_id" validate:"required"`
}

// MarkBuyOrderGeneratedRequest body para marcar líneas con orden de compra.
type MarkBuyOrderGeneratedRequest struct {
	DetailIDs []string `json:"detail_ids" validate:"required,min=1"`
}

// ReplenishmentDetailResponse línea del pedido.
type ReplenishmentDetailResponse struct {
	ID                string `json:"id"`
	OrderID           string `json:"order_id"`
	Barcode           string `json:"barcode"`
	Quantity          int    `json:"quantity"`
	SentQuantity      int    `json:"sent_quantity"`
	Notes             string `json:"notes,omitempty"`
	BuyOrderGenerated bool   `json:"buy_order_generated"`
}

// ReplenishmentOrderResponse pedido completo.
type ReplenishmentOrderResponse struct {
	ID                string                        `json:"id"`
	Number            string                        `json:"number"`
	SourceWarehouseID string                        `json:"source_warehouse_id"`
	CedisWarehouseID  string                        `json:"cedis_warehouse_id"`
	Notes             string                        `json:"notes,omitempty"`
	Status            string                        `json:"status"`
	IsSent            bool                          `json:"is_sent"`
	IsReceived        bool                          `json:"is_received"`
	SentBy            *string                       `json:"sent_by,omitempty"`
	SentAt            *time.Time                    `json:"sent_at,omitempty"`
	ReceivedBy        *string                       `json:"received_by,omitempty"`
	ReceivedAt        *time.Time                    `json:"received_at,omitempty"`
	TransferID        *string                       `json:"transfer_id,omitempty"`
	CreatedBy         string                        `json:"created_by"`
	CreatedAt         time.Time                     `json:"created_at"`
	Details           []ReplenishmentDetailResponse `json:"details,omitempty"`
}

// ReplenishmentOrderListResponse lista paginada de pedidos.
type ReplenishmentOrderListResponse struct {
	Items []ReplenishmentOrderResponse `json:"items"`
	Page  PageResponse                 `json:"page"`
}

// UnfulfilledDetailsResponse líneas con faltante para el paso de compras.
type UnfulfilledDetailsResponse struct {
	Items []ReplenishmentDetailResponse `json:"items"`
	Total int                           `json:"total"`
}

package dto

import "time"

// CreateTransferRequest body para POST /api/warehouse-transfers.
type CreateTransferRequest struct {
	Type                   string                `json:"type" validate:"required,oneof=external internal"`
	SourceWarehouseID      string                `json:"source_warehouse_id" validate:"required"`
	DestinationWarehouseID string                `json:"destination_warehouse_id" validate:"required"`
	CabinetID              *string               `json:"cabinet_id,omitempty"`
	Items                  []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TransferItemRequest una unidad dentro del traspaso.
type TransferItemRequest struct {
	StockUnitID string `json:"stock_unit_id" validate:"required"`
	Quantity    int    `json:"quantity"` // 0 se interpreta como 1
	Condition   string `json:"condition"`
}

// UpdateTransferItemRequest body para POST /api/warehouse-transfers/update-item-status.
// Campos nil no se tocan.
type UpdateTransferItemRequest struct {
	TransferDetailID string  `json:"transfer_detail_id" validate:"required"`
	IsReceived       *bool   `json:"is_received,omitempty"`
	Condition        *string `json:"condition,omitempty"`
	ItemNotes        *string `json:"item_notes,omitempty"`
}

// UpdateTransferStatusRequest body para POST /api/warehouse-transfers/update-status.
// Exactamente uno de los dos flags debe venir en true.
type UpdateTransferStatusRequest struct {
	TransferID  string `json:"transfer_id" validate:"required"`
	IsCompleted bool   `json:"is_completed"`
	IsCancelled bool   `json:"is_cancelled"`
}

// TransferDetailResponse línea del traspaso con su recepción.
type TransferDetailResponse struct {
	ID          string     `json:"id"`
	StockUnitID string     `json:"stock_unit_id"`
	Quantity    int        `json:"quantity"`
	Condition   string     `json:"condition"`
	IsReceived  bool       `json:"is_received"`
	ReceivedBy  *string    `json:"received_by,omitempty"`
	ReceivedAt  *time.Time `json:"received_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// TransferResponse traspaso completo.
type TransferResponse struct {
	ID                     string                   `json:"id"`
	Number                 string                   `json:"number"`
	Type                   string                   `json:"type"`
	SourceWarehouseID      string                   `json:"source_warehouse_id"`
	DestinationWarehouseID string                   `json:"destination_warehouse_id"`
	CabinetID              *string                  `json:"cabinet_id,omitempty"`
	Status                 string                   `json:"status"`
	CreatedBy              string                   `json:"created_by"`
	CompletedBy            *string                  `json:"completed_by,omitempty"`
	CompletedAt            *time.Time               `json:"completed_at,omitempty"`
	TotalItems             int                      `json:"total_items"`
	CreatedAt              time.Time                `json:"created_at"`
	Details                []TransferDetailResponse `json:"details,omitempty"`
}

// TransferListResponse lista paginada de traspasos.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

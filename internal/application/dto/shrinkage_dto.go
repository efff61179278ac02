package dto

import "time"

// RecordWriteoffRequest body para POST /api/merma/writeoffs.
// Reason acepta variantes con o sin tilde ("dañado"/"danado"); se normaliza.
type RecordWriteoffRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1"`
	Reason     string   `json:"reason" validate:"required"`
	Notes      string   `json:"notes"` // obligatorio cuando reason = otro
}

// ShrinkageEventResponse evento de merma (inmutable).
type ShrinkageEventResponse struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Reason      string    `json:"reason"`
	Quantity    int       `json:"quantity"`
	StockUnitID string    `json:"stock_unit_id"`
	WarehouseID string    `json:"warehouse_id"`
	UserID      string    `json:"user_id"`
	TransferID  *string   `json:"transfer_id,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShrinkageListResponse lista de eventos de merma.
type ShrinkageListResponse struct {
	Items []ShrinkageEventResponse `json:"items"`
	Total int                      `json:"total"`
}

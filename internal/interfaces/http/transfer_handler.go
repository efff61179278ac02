package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rtrejos/almacen-api/internal/application/dto"
	"github.com/rtrejos/almacen-api/internal/application/transfer"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
)

// TransferHandler maneja las peticiones HTTP de traspasos (protegido).
type TransferHandler struct {
	uc   *transfer.UseCase
	acta *transfer.ActaUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase, acta *transfer.ActaUseCase) *TransferHandler {
	return &TransferHandler{uc: uc, acta: acta}
}

// Create godoc
// @Summary      Crear un traspaso de almacén
// @Description  Crea el lote pendiente con folio TRA-YYYYMMDD-NNNN. Tipo
//
//	external mueve entre almacenes; internal mueve a un gabinete
//	del mismo almacén.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "type, source, destination, items"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/warehouse-transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(t))
}

// GetByID godoc
// @Summary      Obtener un traspaso con sus detalles
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traspaso"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouse-transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.uc.GetByID(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// List godoc
// @Summary      Listar traspasos
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por almacén (origen o destino)"
// @Param        status        query  string  false  "pending | completed | cancelled"
// @Param        limit         query  int     false  "Tamaño de página (default 20)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransferListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/warehouse-transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), GetActor(c),
		c.Query("warehouse_id"), entity.TransferStatus(c.Query("status")), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.TransferListResponse{
		Items: make([]dto.TransferResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(list)},
	}
	for _, t := range list {
		out.Items = append(out.Items, toTransferResponse(t))
	}
	return c.JSON(out)
}

// UpdateItemStatus godoc
// @Summary      Actualizar recepción, condición o notas de una línea
// @Description  Solo mientras el traspaso sigue pendiente; sobre un traspaso
//
//	terminal la operación es conflicto.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateTransferItemRequest  true  "transfer_detail_id + campos a tocar"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/warehouse-transfers/update-item-status [post]
func (h *TransferHandler) UpdateItemStatus(c *fiber.Ctx) error {
	var in dto.UpdateTransferItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateItemStatus(c.Context(), GetActor(c), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "detalle actualizado"})
}

// UpdateStatus godoc
// @Summary      Completar o cancelar un traspaso
// @Description  Completar reubica las unidades recibidas y, en traspasos
//
//	externos, registra merma transfer_missing por cada unidad no
//	recibida. Cancelar no mueve nada.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateTransferStatusRequest  true  "transfer_id + is_completed XOR is_cancelled"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/warehouse-transfers/update-status [post]
func (h *TransferHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateTransferStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateStatus(c.Context(), GetActor(c), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traspaso actualizado"})
}

// GetActaPDF godoc
// @Summary      Acta de traspaso en PDF
// @Tags         transfers
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del traspaso"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouse-transfers/{id}/pdf [get]
func (h *TransferHandler) GetActaPDF(c *fiber.Ctx) error {
	data, err := h.acta.Generate(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="acta-traspaso.pdf"`)
	return c.Send(data)
}

func toTransferResponse(t *entity.WarehouseTransfer) dto.TransferResponse {
	out := dto.TransferResponse{
		ID:                     t.ID,
		Number:                 t.Number,
		Type:                   t.TransferType,
		SourceWarehouseID:      t.SourceWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		CabinetID:              t.CabinetID,
		Status:                 string(t.Status),
		CreatedBy:              t.CreatedBy,
		CompletedBy:            t.CompletedBy,
		CompletedAt:            t.CompletedAt,
		TotalItems:             t.TotalItems,
		CreatedAt:              t.CreatedAt,
	}
	for _, d := range t.Details {
		out.Details = append(out.Details, dto.TransferDetailResponse{
			ID:          d.ID,
			StockUnitID: d.StockUnitID,
			Quantity:    d.Quantity,
			Condition:   d.Condition,
			IsReceived:  d.IsReceived,
			ReceivedBy:  d.ReceivedBy,
			ReceivedAt:  d.ReceivedAt,
			Notes:       d.Notes,
		})
	}
	return out
}

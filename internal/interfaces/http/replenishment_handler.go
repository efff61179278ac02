package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rtrejos/almacen-api/internal/application/dto"
	"github.com/rtrejos/almacen-api/internal/application/replenishment"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
)

// ReplenishmentHandler maneja las peticiones HTTP de pedidos de reposición (protegido).
type ReplenishmentHandler struct {
	uc *replenishment.UseCase
}

// NewReplenishmentHandler construye el handler.
func NewReplenishmentHandler(uc *replenishment.UseCase) *ReplenishmentHandler {
	return &ReplenishmentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear un pedido de reposición hacia el CEDIS
// @Tags         replenishment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReplenishmentOrderRequest  true  "source, cedis, items"
// @Success      201   {object}  dto.ReplenishmentOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/replenishment-orders [post]
func (h *ReplenishmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReplenishmentOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// GetByID godoc
// @Summary      Obtener un pedido con sus líneas
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.ReplenishmentOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/replenishment-orders/{id} [get]
func (h *ReplenishmentHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetByID(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// List godoc
// @Summary      Listar pedidos de reposición
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "open | sent | received"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ReplenishmentOrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/replenishment-orders [get]
func (h *ReplenishmentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), GetActor(c), entity.OrderStatus(c.Query("status")), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ReplenishmentOrderListResponse{
		Items: make([]dto.ReplenishmentOrderResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(list)},
	}
	for _, order := range list {
		out.Items = append(out.Items, toOrderResponse(order))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar estado y líneas de un pedido
// @Description  Flags de estado idempotentes: is_sent=false arrastra la
//
//	recepción; is_received=true sin envío previo es 400. Las
//	líneas sin sent_quantity explícito caen a lo solicitado.
//
// @Tags         replenishment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                              true  "ID del pedido"
// @Param        body  body  dto.UpdateReplenishmentOrderRequest true  "flags + líneas"
// @Success      200   {object}  dto.ReplenishmentOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/replenishment-orders/{id} [put]
func (h *ReplenishmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateReplenishmentOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// LinkTransfer godoc
// @Summary      Enlazar el traspaso que surte el pedido
// @Description  La ruta del traspaso debe ser exactamente CEDIS del pedido →
//
//	almacén solicitante.
//
// @Tags         replenishment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.LinkTransferRequest true  "warehouse_transfer_id"
// @Success      200   {object}  dto.ReplenishmentOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/replenishment-orders/{id}/link-transfer [patch]
func (h *ReplenishmentHandler) LinkTransfer(c *fiber.Ctx) error {
	var in dto.LinkTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.LinkTransfer(c.Context(), GetActor(c), c.Params("id"), in.WarehouseTransferID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// ListUnfulfilled godoc
// @Summary      Líneas con faltante para compras
// @Description  Pedido recibido, sin orden de compra generada y surtido menor
//
//	a lo solicitado.
//
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UnfulfilledDetailsResponse
// @Router       /api/replenishment-orders/unfulfilled-details [get]
func (h *ReplenishmentHandler) ListUnfulfilled(c *fiber.Ctx) error {
	list, err := h.uc.ListUnfulfilled(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.UnfulfilledDetailsResponse{
		Items: make([]dto.ReplenishmentDetailResponse, 0, len(list)),
		Total: len(list),
	}
	for _, d := range list {
		out.Items = append(out.Items, toOrderDetailResponse(*d))
	}
	return c.JSON(out)
}

// MarkBuyOrderGenerated godoc
// @Summary      Marcar líneas con orden de compra generada
// @Tags         replenishment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MarkBuyOrderGeneratedRequest  true  "detail_ids"
// @Success      200   {object}  map[string]int64
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/replenishment-orders/mark-buy-order-generated [post]
func (h *ReplenishmentHandler) MarkBuyOrderGenerated(c *fiber.Ctx) error {
	var in dto.MarkBuyOrderGeneratedRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	updated, err := h.uc.MarkBuyOrderGenerated(c.Context(), GetActor(c), in.DetailIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}

func toOrderResponse(o *entity.ReplenishmentOrder) dto.ReplenishmentOrderResponse {
	out := dto.ReplenishmentOrderResponse{
		ID:                o.ID,
		Number:            o.Number,
		SourceWarehouseID: o.SourceWarehouseID,
		CedisWarehouseID:  o.CedisWarehouseID,
		Notes:             o.Notes,
		Status:            string(o.Status),
		IsSent:            o.Status != entity.OrderOpen,
		IsReceived:        o.Status == entity.OrderReceived,
		SentBy:            o.SentBy,
		SentAt:            o.SentAt,
		ReceivedBy:        o.ReceivedBy,
		ReceivedAt:        o.ReceivedAt,
		TransferID:        o.TransferID,
		CreatedBy:         o.CreatedBy,
		CreatedAt:         o.CreatedAt,
	}
	for _, d := range o.Details {
		out.Details = append(out.Details, toOrderDetailResponse(d))
	}
	return out
}

func toOrderDetailResponse(d entity.ReplenishmentOrderDetail) dto.ReplenishmentDetailResponse {
	return dto.ReplenishmentDetailResponse{
		ID:                d.ID,
		OrderID:           d.OrderID,
		Barcode:           d.Barcode,
		Quantity:          d.Quantity,
		SentQuantity:      d.SentQuantity,
		Notes:             d.Notes,
		BuyOrderGenerated: d.BuyOrderGenerated,
	}
}

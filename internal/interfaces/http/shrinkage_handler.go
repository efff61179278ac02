package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rtrejos/almacen-api/internal/application/dto"
	"github.com/rtrejos/almacen-api/internal/application/shrinkage"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
)

// ShrinkageHandler maneja las peticiones HTTP de merma (protegido).
type ShrinkageHandler struct {
	uc *shrinkage.RecorderUseCase
}

// NewShrinkageHandler construye el handler.
func NewShrinkageHandler(uc *shrinkage.RecorderUseCase) *ShrinkageHandler {
	return &ShrinkageHandler{uc: uc}
}

// RecordWriteoff godoc
// @Summary      Registrar merma manual de un lote de unidades
// @Description  Todo o nada: si alguna unidad del lote ya tiene merma con el
//
//	mismo motivo, el lote completo se rechaza con 409. El motivo
//	"otro" exige notas.
//
// @Tags         merma
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordWriteoffRequest  true  "product_ids, reason, notes"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/merma/writeoffs [post]
func (h *ShrinkageHandler) RecordWriteoff(c *fiber.Ctx) error {
	var in dto.RecordWriteoffRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.RecordManual(c.Context(), GetActor(c), in); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "merma registrada"})
}

// ListByWarehouse godoc
// @Summary      Listar eventos de merma de un almacén
// @Tags         merma
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true   "Almacén"
// @Param        limit         query  int     false  "Tamaño de página (default 20)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ShrinkageListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/merma/events [get]
func (h *ShrinkageHandler) ListByWarehouse(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListByWarehouse(c.Context(), GetActor(c), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toShrinkageListResponse(list))
}

// ListByUnit godoc
// @Summary      Historial de mermas de una unidad
// @Tags         merma
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.ShrinkageListResponse
// @Router       /api/merma/units/{id}/events [get]
func (h *ShrinkageHandler) ListByUnit(c *fiber.Ctx) error {
	list, err := h.uc.ListByUnit(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toShrinkageListResponse(list))
}

func toShrinkageListResponse(list []*entity.InventoryShrinkageEvent) dto.ShrinkageListResponse {
	out := dto.ShrinkageListResponse{
		Items: make([]dto.ShrinkageEventResponse, 0, len(list)),
		Total: len(list),
	}
	for _, e := range list {
		out.Items = append(out.Items, dto.ShrinkageEventResponse{
			ID:          e.ID,
			Source:      e.Source,
			Reason:      e.Reason,
			Quantity:    e.Quantity,
			StockUnitID: e.StockUnitID,
			WarehouseID: e.WarehouseID,
			UserID:      e.UserID,
			TransferID:  e.TransferID,
			Notes:       e.Notes,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

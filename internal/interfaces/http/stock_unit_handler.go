package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rtrejos/almacen-api/internal/application/dto"
	"github.com/rtrejos/almacen-api/internal/application/stockunit"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
)

// StockUnitHandler maneja las peticiones HTTP de unidades físicas (protegido).
type StockUnitHandler struct {
	uc *stockunit.UseCase
}

// NewStockUnitHandler construye el handler.
func NewStockUnitHandler(uc *stockunit.UseCase) *StockUnitHandler {
	return &StockUnitHandler{uc: uc}
}

// Create godoc
// @Summary      Dar de alta una unidad física
// @Tags         stock-units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockUnitRequest  true  "barcode, description, warehouse_id XOR cabinet_id"
// @Success      201   {object}  dto.StockUnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/stock-units [post]
func (h *StockUnitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	unit, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockUnitResponse(unit))
}

// GetByID godoc
// @Summary      Obtener una unidad
// @Tags         stock-units
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.StockUnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-units/{id} [get]
func (h *StockUnitHandler) GetByID(c *fiber.Ctx) error {
	unit, err := h.uc.GetByID(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockUnitResponse(unit))
}

// List godoc
// @Summary      Listar unidades de un almacén
// @Tags         stock-units
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true   "Almacén a listar"
// @Param        limit         query  int     false  "Tamaño de página (default 20)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.StockUnitListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-units [get]
func (h *StockUnitHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListByWarehouse(c.Context(), GetActor(c), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.StockUnitListResponse{
		Items: make([]dto.StockUnitResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(list)},
	}
	for _, unit := range list {
		out.Items = append(out.Items, toStockUnitResponse(unit))
	}
	return c.JSON(out)
}

// Relocate godoc
// @Summary      Reubicar una unidad (almacén XOR gabinete)
// @Tags         stock-units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la unidad"
// @Param        body  body  dto.RelocateStockUnitRequest  true  "warehouse_id XOR cabinet_id"
// @Success      200   {object}  dto.StockUnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-units/{id}/relocate [patch]
func (h *StockUnitHandler) Relocate(c *fiber.Ctx) error {
	var in dto.RelocateStockUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	unit, err := h.uc.Relocate(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockUnitResponse(unit))
}

// Checkout godoc
// @Summary      Sacar la unidad a uso por un empleado
// @Tags         stock-units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la unidad"
// @Param        body  body  dto.CheckoutStockUnitRequest  true  "employee_id"
// @Success      200   {object}  dto.StockUnitResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-units/{id}/checkout [post]
func (h *StockUnitHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutStockUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	unit, err := h.uc.Checkout(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockUnitResponse(unit))
}

// Checkin godoc
// @Summary      Devolver la unidad; is_empty registra la merma derivada
// @Tags         stock-units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la unidad"
// @Param        body  body  dto.CheckinStockUnitRequest  true  "is_empty"
// @Success      200   {object}  dto.StockUnitResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-units/{id}/checkin [post]
func (h *StockUnitHandler) Checkin(c *fiber.Ctx) error {
	var in dto.CheckinStockUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	unit, err := h.uc.Checkin(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockUnitResponse(unit))
}

// Delete godoc
// @Summary      Dar de baja una unidad (merma derivada + borrado lógico)
// @Tags         stock-units
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la unidad"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-units/{id} [delete]
func (h *StockUnitHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toStockUnitResponse(u *entity.StockUnit) dto.StockUnitResponse {
	return dto.StockUnitResponse{
		ID:                 u.ID,
		Barcode:            u.Barcode,
		Description:        u.Description,
		CurrentWarehouseID: u.CurrentWarehouseID,
		CurrentCabinetID:   u.CurrentCabinetID,
		IsBeingUsed:        u.IsBeingUsed,
		IsEmpty:            u.IsEmpty,
		IsDeleted:          u.IsDeleted,
		NumberOfUses:       u.NumberOfUses,
		FirstUsedAt:        u.FirstUsedAt,
		LastUsedAt:         u.LastUsedAt,
		LastUsedBy:         u.LastUsedBy,
		CreatedAt:          u.CreatedAt,
	}
}

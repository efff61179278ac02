package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rtrejos/almacen-api/internal/application/replenishment"
	"github.com/rtrejos/almacen-api/internal/application/shrinkage"
	"github.com/rtrejos/almacen-api/internal/application/stockunit"
	"github.com/rtrejos/almacen-api/internal/application/transfer"
	"github.com/rtrejos/almacen-api/internal/application/warehouse"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC     *warehouse.UseCase
	StockUnitUC     *stockunit.UseCase
	TransferUC      *transfer.UseCase
	TransferActaUC  *transfer.ActaUseCase
	ReplenishmentUC *replenishment.UseCase
	ShrinkageUC     *shrinkage.RecorderUseCase
	JWTSecret       string
}

// Router registra las rutas de la API. Toda la API exige Bearer Token; el
// guard de acceso por rol vive en los casos de uso, así que aquí solo se
// valida identidad.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Stock units
	units := api.Group("/stock-units")
	unitHandler := NewStockUnitHandler(deps.StockUnitUC)
	units.Post("/", unitHandler.Create)
	units.Get("/", unitHandler.List)
	units.Get("/:id", unitHandler.GetByID)
	units.Patch("/:id/relocate", unitHandler.Relocate)
	units.Post("/:id/checkout", unitHandler.Checkout)
	units.Post("/:id/checkin", unitHandler.Checkin)
	units.Delete("/:id", unitHandler.Delete)

	// Warehouse transfers
	transfers := api.Group("/warehouse-transfers")
	transferHandler := NewTransferHandler(deps.TransferUC, deps.TransferActaUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Post("/update-item-status", transferHandler.UpdateItemStatus)
	transfers.Post("/update-status", transferHandler.UpdateStatus)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Get("/:id/pdf", transferHandler.GetActaPDF)

	// Replenishment orders
	orders := api.Group("/replenishment-orders")
	orderHandler := NewReplenishmentHandler(deps.ReplenishmentUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/unfulfilled-details", orderHandler.ListUnfulfilled)
	orders.Post("/mark-buy-order-generated", orderHandler.MarkBuyOrderGenerated)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", orderHandler.Update)
	orders.Patch("/:id/link-transfer", orderHandler.LinkTransfer)

	// Merma
	merma := api.Group("/merma")
	shrinkageHandler := NewShrinkageHandler(deps.ShrinkageUC)
	merma.Post("/writeoffs", shrinkageHandler.RecordWriteoff)
	merma.Get("/events", shrinkageHandler.ListByWarehouse)
	merma.Get("/units/:id/events", shrinkageHandler.ListByUnit)
}

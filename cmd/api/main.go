package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/rtrejos/almacen-api/docs"
	"github.com/rtrejos/almacen-api/internal/application/replenishment"
	"github.com/rtrejos/almacen-api/internal/application/shrinkage"
	"github.com/rtrejos/almacen-api/internal/application/stockunit"
	"github.com/rtrejos/almacen-api/internal/application/transfer"
	"github.com/rtrejos/almacen-api/internal/application/warehouse"
	infrapdf "github.com/rtrejos/almacen-api/internal/infrastructure/pdf"
	"github.com/rtrejos/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/rtrejos/almacen-api/internal/interfaces/http"
	"github.com/rtrejos/almacen-api/pkg/config"
	"github.com/rtrejos/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	warehouseRepo := postgres.NewWarehouseRepository(pool)
	unitRepo := postgres.NewStockUnitRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	orderRepo := postgres.NewReplenishmentOrderRepository(pool)
	eventRepo := postgres.NewShrinkageRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	shrinkageUC := shrinkage.NewRecorderUseCase(txRunner, eventRepo)
	warehouseUC := warehouse.NewUseCase(warehouseRepo)
	stockUnitUC := stockunit.NewUseCase(txRunner, shrinkageUC, unitRepo, transferRepo, warehouseRepo)
	transferUC := transfer.NewUseCase(txRunner, shrinkageUC, transferRepo, warehouseRepo)
	replenishmentUC := replenishment.NewUseCase(txRunner, orderRepo, transferRepo, warehouseRepo)

	// PDF: acta de traspaso imprimible
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	transferActaUC := transfer.NewActaUseCase(transferRepo, warehouseRepo, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC:     warehouseUC,
		StockUnitUC:     stockUnitUC,
		TransferUC:      transferUC,
		TransferActaUC:  transferActaUC,
		ReplenishmentUC: replenishmentUC,
		ShrinkageUC:     shrinkageUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

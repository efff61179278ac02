package transfer

import (
	"context"

	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/access"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

// ActaData todo lo necesario para renderizar el acta de traspaso.
type ActaData struct {
	Transfer    *entity.WarehouseTransfer
	Source      *entity.Warehouse
	Destination *entity.Warehouse
}

// ActaGenerator renderiza el acta (PDF). Lo implementa infrastructure/pdf.
type ActaGenerator interface {
	GenerateActa(ctx context.Context, data ActaData) ([]byte, error)
}

// ActaUseCase produce el acta de traspaso: constancia imprimible del lote,
// su ruta y la recepción por artículo.
type ActaUseCase struct {
	transferRepo  repository.TransferRepository
	warehouseRepo repository.WarehouseRepository
	generator     ActaGenerator
}

// NewActaUseCase construye el caso de uso.
func NewActaUseCase(
	transferRepo repository.TransferRepository,
	warehouseRepo repository.WarehouseRepository,
	generator ActaGenerator,
) *ActaUseCase {
	return &ActaUseCase{transferRepo: transferRepo, warehouseRepo: warehouseRepo, generator: generator}
}

// Generate arma los datos y delega el render.
func (uc *ActaUseCase) Generate(ctx context.Context, actor access.Actor, transferID string) ([]byte, error) {
	if err := access.Allow(actor, access.OpRead, access.Resource{}); err != nil {
		return nil, err
	}
	transfer, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	source, err := uc.warehouseRepo.GetByID(transfer.SourceWarehouseID)
	if err != nil {
		return nil, err
	}
	destination, err := uc.warehouseRepo.GetByID(transfer.DestinationWarehouseID)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateActa(ctx, ActaData{
		Transfer:    transfer,
		Source:      source,
		Destination: destination,
	})
}

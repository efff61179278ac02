package stockunit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rtrejos/almacen-api/internal/application/dto"
	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/access"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

// UseCase altas, reubicaciones y uso de unidades físicas. Todas las
// mutaciones son de una sola fila; los invariantes entre entidades (una
// unidad borrada no puede estar en un traspaso abierto) se verifican aquí
// consultando los traspasos, y en los flujos que componen.
type UseCase struct {
	txRunner      TxRunner
	recorder      ShrinkageRecorder
	unitRepo      repository.StockUnitRepository
	transferRepo  repository.TransferRepository
	warehouseRepo repository.WarehouseRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	recorder ShrinkageRecorder,
	unitRepo repository.StockUnitRepository,
	transferRepo repository.TransferRepository,
	warehouseRepo repository.WarehouseRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		recorder:      recorder,
		unitRepo:      unitRepo,
		transferRepo:  transferRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Create da de alta una unidad (ingreso a inventario). Ubicación inicial:
// almacén XOR gabinete, nunca ambos.
func (uc *UseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateStockUnitRequest) (*entity.StockUnit, error) {
	if err := access.Allow(actor, access.OpStockUnitWrite, access.Resource{}); err != nil {
		return nil, err
	}
	if in.Barcode == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.WarehouseID != nil && in.CabinetID != nil {
		return nil, domain.ErrInvalidInput
	}
	if in.WarehouseID != nil {
		warehouse, err := uc.warehouseRepo.GetByID(*in.WarehouseID)
		if err != nil {
			return nil, err
		}
		if warehouse == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	unit := &entity.StockUnit{
		ID:                 uuid.New().String(),
		Barcode:            in.Barcode,
		Description:        in.Description,
		CurrentWarehouseID: in.WarehouseID,
		CurrentCabinetID:   in.CabinetID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.unitRepo.Create(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// Relocate mueve la unidad a un almacén o a un gabinete; poblar uno limpia el otro.
func (uc *UseCase) Relocate(ctx context.Context, actor access.Actor, unitID string, in dto.RelocateStockUnitRequest) (*entity.StockUnit, error) {
	if err := access.Allow(actor, access.OpStockUnitWrite, access.Resource{}); err != nil {
		return nil, err
	}
	if (in.WarehouseID == nil) == (in.CabinetID == nil) {
		return nil, domain.ErrInvalidInput
	}
	unit, err := uc.activeUnit(unitID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if in.WarehouseID != nil {
		warehouse, err := uc.warehouseRepo.GetByID(*in.WarehouseID)
		if err != nil {
			return nil, err
		}
		if warehouse == nil {
			return nil, domain.ErrNotFound
		}
		unit.RelocateToWarehouse(*in.WarehouseID, now)
	} else {
		unit.RelocateToCabinet(*in.CabinetID, now)
	}
	if err := uc.unitRepo.Update(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// Checkout marca la unidad en uso por un empleado y acumula contadores.
func (uc *UseCase) Checkout(ctx context.Context, actor access.Actor, unitID string, in dto.CheckoutStockUnitRequest) (*entity.StockUnit, error) {
	if err := access.Allow(actor, access.OpStockUnitWrite, access.Resource{}); err != nil {
		return nil, err
	}
	if in.EmployeeID == "" {
		return nil, domain.ErrInvalidInput
	}
	unit, err := uc.activeUnit(unitID)
	if err != nil {
		return nil, err
	}
	if unit.IsBeingUsed {
		return nil, domain.ErrConflict
	}
	unit.Checkout(in.EmployeeID, time.Now())
	if err := uc.unitRepo.Update(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// Checkin devuelve la unidad. Si además queda vacía, se registra la merma
// derivada (consumido) y los flags en la misma transacción: el endpoint
// legacy de "marcar vacío" pasa por aquí.
func (uc *UseCase) Checkin(ctx context.Context, actor access.Actor, unitID string, in dto.CheckinStockUnitRequest) (*entity.StockUnit, error) {
	if err := access.Allow(actor, access.OpStockUnitWrite, access.Resource{}); err != nil {
		return nil, err
	}

	now := time.Now()
	var updated *entity.StockUnit
	err := uc.txRunner.RunShrinkage(ctx, func(
		unitRepo repository.StockUnitRepository,
		eventRepo repository.ShrinkageRepository,
	) error {
		unit, err := unitRepo.GetByID(unitID)
		if err != nil {
			return err
		}
		if unit == nil || unit.IsDeleted {
			return domain.ErrNotFound
		}
		if in.IsEmpty && !unit.IsEmpty {
			warehouseID := actor.HomeWarehouseID
			if unit.CurrentWarehouseID != nil {
				warehouseID = *unit.CurrentWarehouseID
			}
			if err := uc.recorder.RecordDerived(
				eventRepo,
				entity.ShrinkageSourceLegacy,
				entity.ShrinkageReasonConsumido,
				1,
				unit.ID,
				warehouseID,
				actor.UserID,
				nil,
				"",
			); err != nil {
				return err
			}
		}
		unit.Checkin(in.IsEmpty, now)
		if err := unitRepo.Update(unit); err != nil {
			return err
		}
		updated = unit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete da de baja la unidad vía merma derivada. Una unidad comprometida en
// un traspaso abierto no se puede borrar: conflicto.
func (uc *UseCase) Delete(ctx context.Context, actor access.Actor, unitID string) error {
	if err := access.Allow(actor, access.OpStockUnitWrite, access.Resource{}); err != nil {
		return err
	}
	open, err := uc.transferRepo.OpenTransferIDsByUnit(unitID)
	if err != nil {
		return err
	}
	if len(open) > 0 {
		return domain.ErrConflict
	}

	now := time.Now()
	return uc.txRunner.RunShrinkage(ctx, func(
		unitRepo repository.StockUnitRepository,
		eventRepo repository.ShrinkageRepository,
	) error {
		unit, err := unitRepo.GetByID(unitID)
		if err != nil {
			return err
		}
		if unit == nil || unit.IsDeleted {
			return domain.ErrNotFound
		}
		warehouseID := actor.HomeWarehouseID
		if unit.CurrentWarehouseID != nil {
			warehouseID = *unit.CurrentWarehouseID
		}
		if err := uc.recorder.RecordDerived(
			eventRepo,
			entity.ShrinkageSourceLegacy,
			entity.ShrinkageReasonOtro,
			1,
			unit.ID,
			warehouseID,
			actor.UserID,
			nil,
			"baja directa de la unidad",
		); err != nil {
			return err
		}
		unit.MarkDeleted(now)
		return unitRepo.Update(unit)
	})
}

// GetByID devuelve la unidad.
func (uc *UseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*entity.StockUnit, error) {
	if err := access.Allow(actor, access.OpRead, access.Resource{}); err != nil {
		return nil, err
	}
	unit, err := uc.unitRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	return unit, nil
}

// ListByWarehouse lista unidades de un almacén con paginación.
func (uc *UseCase) ListByWarehouse(ctx context.Context, actor access.Actor, warehouseID string, limit, offset int) ([]*entity.StockUnit, error) {
	if err := access.Allow(actor, access.OpRead, access.Resource{WarehouseID: warehouseID}); err != nil {
		return nil, err
	}
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.unitRepo.ListByWarehouse(warehouseID, limit, offset)
}

// activeUnit carga la unidad y rechaza borradas.
func (uc *UseCase) activeUnit(id string) (*entity.StockUnit, error) {
	unit, err := uc.unitRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if unit == nil || unit.IsDeleted {
		return nil, domain.ErrNotFound
	}
	return unit, nil
}

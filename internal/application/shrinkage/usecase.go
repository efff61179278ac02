package shrinkage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rtrejos/almacen-api/internal/application/dto"
	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/access"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
	"github.com/rtrejos/almacen-api/internal/domain/repository"
	"github.com/rtrejos/almacen-api/pkg/normalize"
)

// RecorderUseCase registra mermas: bajas manuales capturadas por el usuario y
// bajas derivadas que disparan otros flujos (completar traspaso, endpoints
// legacy). Los eventos son inmutables y únicos por (unidad, motivo).
type RecorderUseCase struct {
	txRunner  TxRunner
	eventRepo repository.ShrinkageRepository
}

// NewRecorderUseCase construye el caso de uso.
func NewRecorderUseCase(txRunner TxRunner, eventRepo repository.ShrinkageRepository) *RecorderUseCase {
	return &RecorderUseCase{txRunner: txRunner, eventRepo: eventRepo}
}

// RecordManual registra una baja manual para cada unidad del lote.
// Valida el motivo (normalizado: "Dañado" == "danado") y que "otro" traiga
// notas. Si alguna unidad ya tiene un evento con ese motivo, todo el lote
// falla con conflicto: no hay aplicación parcial.
func (uc *RecorderUseCase) RecordManual(ctx context.Context, actor access.Actor, in dto.RecordWriteoffRequest) error {
	if err := access.Allow(actor, access.OpShrinkageWrite, access.Resource{}); err != nil {
		return err
	}
	if len(in.ProductIDs) == 0 {
		return domain.ErrInvalidInput
	}
	reason := normalize.Fold(in.Reason)
	if !entity.ValidShrinkageReason(reason) {
		return domain.ErrInvalidInput
	}
	if reason == entity.ShrinkageReasonOtro && normalize.Fold(in.Notes) == "" {
		return domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.ProductIDs))
	for _, id := range in.ProductIDs {
		if id == "" || seen[id] {
			return domain.ErrInvalidInput
		}
		seen[id] = true
	}

	now := time.Now()
	return uc.txRunner.RunShrinkage(ctx, func(
		unitRepo repository.StockUnitRepository,
		eventRepo repository.ShrinkageRepository,
	) error {
		for _, unitID := range in.ProductIDs {
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
			if err := insertEvent(eventRepo, &entity.InventoryShrinkageEvent{
				ID:          uuid.New().String(),
				Source:      entity.ShrinkageSourceManual,
				Reason:      reason,
				Quantity:    1,
				StockUnitID: unitID,
				WarehouseID: warehouseID,
				UserID:      actor.UserID,
				Notes:       in.Notes,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
			unit.IsEmpty = true
			unit.IsBeingUsed = false
			unit.UpdatedAt = now
			if err := unitRepo.Update(unit); err != nil {
				return err
			}
		}
		return nil
	})
}

// RecordDerived inserta un evento derivado usando los repositorios del caller,
// dentro de SU transacción. El origen y el motivo los fija el contexto del
// flujo (transfer_missing al completar traspasos, legacy en los endpoints
// antiguos), no la entrada del usuario. No toca los flags de la unidad: eso
// queda en manos del flujo que llama.
func (uc *RecorderUseCase) RecordDerived(
	eventRepo repository.ShrinkageRepository,
	source, reason string,
	quantity int,
	stockUnitID, warehouseID, userID string,
	transferID *string,
	notes string,
) error {
	if !entity.ValidShrinkageSource(source) || !entity.ValidShrinkageReason(reason) {
		return domain.ErrInvalidInput
	}
	if quantity <= 0 {
		quantity = 1
	}
	return insertEvent(eventRepo, &entity.InventoryShrinkageEvent{
		ID:          uuid.New().String(),
		Source:      source,
		Reason:      reason,
		Quantity:    quantity,
		StockUnitID: stockUnitID,
		WarehouseID: warehouseID,
		UserID:      userID,
		TransferID:  transferID,
		Notes:       notes,
		CreatedAt:   time.Now(),
	})
}

// insertEvent aplica la deduplicación (unidad, motivo) y persiste.
// Check-then-insert dentro de la transacción del caller; la constraint única
// de la tabla respalda el caso de carrera.
func insertEvent(eventRepo repository.ShrinkageRepository, event *entity.InventoryShrinkageEvent) error {
	exists, err := eventRepo.ExistsByUnitAndReason(event.StockUnitID, event.Reason)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrConflict
	}
	return eventRepo.Create(event)
}

// ListByWarehouse devuelve los eventos registrados en un almacén.
func (uc *RecorderUseCase) ListByWarehouse(ctx context.Context, actor access.Actor, warehouseID string, limit, offset int) ([]*entity.InventoryShrinkageEvent, error) {
	if err := access.Allow(actor, access.OpRead, access.Resource{WarehouseID: warehouseID}); err != nil {
		return nil, err
	}
	return uc.eventRepo.ListByWarehouse(warehouseID, limit, offset)
}

// ListByUnit devuelve el historial de mermas de una unidad.
func (uc *RecorderUseCase) ListByUnit(ctx context.Context, actor access.Actor, stockUnitID string) ([]*entity.InventoryShrinkageEvent, error) {
	if err := access.Allow(actor, access.OpRead, access.Resource{}); err != nil {
		return nil, err
	}
	return uc.eventRepo.ListByUnit(stockUnitID)
}

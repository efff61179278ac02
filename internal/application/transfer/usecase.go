package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rtrejos/almacen-api/internal/application/dto"
	"github.com/rtrejos/almacen-api/internal/application/folio"
	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/access"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

// UseCase máquina de estados del traspaso: pending → completed | cancelled.
// Completar un traspaso externo reconcilia los faltantes contra el registro
// de mermas en la misma transacción; después de eso, ningún detalle se puede
// volver a tocar.
type UseCase struct {
	txRunner      TxRunner
	recorder      ShrinkageRecorder
	transferRepo  repository.TransferRepository
	warehouseRepo repository.WarehouseRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	recorder ShrinkageRecorder,
	transferRepo repository.TransferRepository,
	warehouseRepo repository.WarehouseRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		recorder:      recorder,
		transferRepo:  transferRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Create inserta el traspaso y sus detalles en una sola transacción.
// Falla con entrada inválida si la lista viene vacía, si alguna unidad no está
// disponible (borrada, inexistente o ya comprometida en otro traspaso abierto)
// o si el tipo/ruta no cuadra.
func (uc *UseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateTransferRequest) (*entity.WarehouseTransfer, error) {
	if err := access.Allow(actor, access.OpTransferCreate, access.Resource{WarehouseID: in.SourceWarehouseID}); err != nil {
		return nil, err
	}
	if !entity.ValidTransferType(in.Type) || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.SourceWarehouseID == "" || in.DestinationWarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Type == entity.TransferTypeExternal {
		if in.SourceWarehouseID == in.DestinationWarehouseID || in.CabinetID != nil {
			return nil, domain.ErrInvalidInput
		}
	}

	src, err := uc.warehouseRepo.GetByID(in.SourceWarehouseID)
	if err != nil {
		return nil, err
	}
	dst, err := uc.warehouseRepo.GetByID(in.DestinationWarehouseID)
	if err != nil {
		return nil, err
	}
	if src == nil || dst == nil {
		return nil, domain.ErrNotFound
	}

	seen := make(map[string]bool, len(in.Items))
	for _, item := range in.Items {
		if item.StockUnitID == "" || item.Quantity < 0 || seen[item.StockUnitID] {
			return nil, domain.ErrInvalidInput
		}
		seen[item.StockUnitID] = true
	}

	now := time.Now()
	transfer := &entity.WarehouseTransfer{
		ID:                     uuid.New().String(),
		TransferType:           in.Type,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		CabinetID:              in.CabinetID,
		Status:                 entity.TransferPending,
		CreatedBy:              actor.UserID,
		TotalItems:             len(in.Items),
		CreatedAt:              now,
	}
	for _, item := range in.Items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		transfer.Details = append(transfer.Details, entity.WarehouseTransferDetail{
			ID:          uuid.New().String(),
			TransferID:  transfer.ID,
			StockUnitID: item.StockUnitID,
			Quantity:    qty,
			Condition:   item.Condition,
		})
	}

	err = uc.txRunner.Run(ctx, func(
		unitRepo repository.StockUnitRepository,
		transferRepo repository.TransferRepository,
		eventRepo repository.ShrinkageRepository,
	) error {
		// Disponibilidad verificada dentro de la transacción: la unidad debe
		// existir, no estar borrada y no figurar en otro traspaso abierto.
		for _, d := range transfer.Details {
			unit, err := unitRepo.GetByID(d.StockUnitID)
			if err != nil {
				return err
			}
			if unit == nil {
				return domain.ErrNotFound
			}
			if unit.IsDeleted {
				return domain.ErrInvalidInput
			}
			open, err := transferRepo.OpenTransferIDsByUnit(d.StockUnitID)
			if err != nil {
				return err
			}
			if len(open) > 0 {
				return domain.ErrInvalidInput
			}
		}
		prefix := folio.Prefix("TRA", now)
		last, err := transferRepo.MaxNumberWithPrefix(prefix)
		if err != nil {
			return err
		}
		transfer.Number = folio.Next(prefix, last)
		return transferRepo.Create(transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// UpdateItemStatus muta un detalle mientras el traspaso siga pendiente.
// El estado del padre se relee dentro de la misma transacción que escribe el
// detalle: si ya es terminal responde conflicto, sin importar quién o cuándo.
func (uc *UseCase) UpdateItemStatus(ctx context.Context, actor access.Actor, in dto.UpdateTransferItemRequest) error {
	if err := access.Allow(actor, access.OpTransferUpdateItem, access.Resource{}); err != nil {
		return err
	}
	if in.TransferDetailID == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		unitRepo repository.StockUnitRepository,
		transferRepo repository.TransferRepository,
		eventRepo repository.ShrinkageRepository,
	) error {
		detail, err := transferRepo.GetDetailByID(in.TransferDetailID)
		if err != nil {
			return err
		}
		if detail == nil {
			return domain.ErrNotFound
		}
		parent, err := transferRepo.GetByID(detail.TransferID)
		if err != nil {
			return err
		}
		if parent == nil {
			return domain.ErrNotFound
		}
		if parent.Status.Terminal() {
			return domain.ErrConflict
		}
		if in.IsReceived != nil {
			if *in.IsReceived {
				detail.MarkReceived(actor.UserID, now)
			} else {
				detail.ClearReceived()
			}
		}
		if in.Condition != nil {
			detail.Condition = *in.Condition
		}
		if in.ItemNotes != nil {
			detail.Notes = *in.ItemNotes
		}
		return transferRepo.UpdateDetail(detail)
	})
}

// UpdateStatus aplica la transición terminal pedida: exactamente uno de
// is_completed / is_cancelled.
func (uc *UseCase) UpdateStatus(ctx context.Context, actor access.Actor, in dto.UpdateTransferStatusRequest) error {
	if in.TransferID == "" || in.IsCompleted == in.IsCancelled {
		return domain.ErrInvalidInput
	}
	if in.IsCompleted {
		return uc.Complete(ctx, actor, in.TransferID)
	}
	return uc.Cancel(ctx, actor, in.TransferID)
}

// Complete transiciona pending → completed y, para traspasos externos,
// reconcilia en la misma transacción: cada detalle no recibido genera un
// evento transfer_missing y saca la unidad de circulación; cada detalle
// recibido reubica la unidad en el destino. Nunca se observa una compleción
// parcial.
func (uc *UseCase) Complete(ctx context.Context, actor access.Actor, transferID string) error {
	if err := access.Allow(actor, access.OpTransferComplete, access.Resource{}); err != nil {
		return err
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		unitRepo repository.StockUnitRepository,
		transferRepo repository.TransferRepository,
		eventRepo repository.ShrinkageRepository,
	) error {
		transfer, err := transferRepo.GetByID(transferID)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if err := transfer.Complete(actor.UserID, now); err != nil {
			return err
		}
		if err := transferRepo.UpdateStatus(transfer); err != nil {
			return err
		}

		for i := range transfer.Details {
			detail := &transfer.Details[i]
			unit, err := unitRepo.GetByID(detail.StockUnitID)
			if err != nil {
				return err
			}
			if unit == nil {
				return domain.ErrNotFound
			}

			switch {
			case detail.IsReceived:
				// Recibido: la unidad queda en el destino (gabinete si aplica).
				if transfer.CabinetID != nil {
					unit.RelocateToCabinet(*transfer.CabinetID, now)
				} else {
					unit.RelocateToWarehouse(transfer.DestinationWarehouseID, now)
				}
				if err := unitRepo.Update(unit); err != nil {
					return err
				}

			case transfer.TransferType == entity.TransferTypeExternal:
				// No recibido en traspaso externo: merma por faltante y baja.
				notes := fmt.Sprintf("unidad no recibida en traspaso %s", transfer.Number)
				if err := uc.recorder.RecordDerived(
					eventRepo,
					entity.ShrinkageSourceTransferMissing,
					entity.ShrinkageReasonOtro,
					detail.Quantity,
					detail.StockUnitID,
					transfer.DestinationWarehouseID,
					actor.UserID,
					&transfer.ID,
					notes,
				); err != nil {
					return err
				}
				unit.MarkDeleted(now)
				if err := unitRepo.Update(unit); err != nil {
					return err
				}
			}
			// No recibido en traspaso interno: la unidad se queda donde está.
		}
		return nil
	})
}

// Cancel transiciona pending → cancelled. Sin reconciliación: las unidades no
// se tocan.
func (uc *UseCase) Cancel(ctx context.Context, actor access.Actor, transferID string) error {
	if err := access.Allow(actor, access.OpTransferCancel, access.Resource{}); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		unitRepo repository.StockUnitRepository,
		transferRepo repository.TransferRepository,
		eventRepo repository.ShrinkageRepository,
	) error {
		transfer, err := transferRepo.GetByID(transferID)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if err := transfer.Cancel(); err != nil {
			return err
		}
		return transferRepo.UpdateStatus(transfer)
	})
}

// GetByID devuelve el traspaso con sus detalles.
func (uc *UseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*entity.WarehouseTransfer, error) {
	if err := access.Allow(actor, access.OpRead, access.Resource{}); err != nil {
		return nil, err
	}
	transfer, err := uc.transferRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	return transfer, nil
}

// List devuelve traspasos filtrados por almacén (origen o destino) y estado.
func (uc *UseCase) List(ctx context.Context, actor access.Actor, warehouseID string, status entity.TransferStatus, limit, offset int) ([]*entity.WarehouseTransfer, error) {
	if err := access.Allow(actor, access.OpRead, access.Resource{WarehouseID: warehouseID}); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.transferRepo.List(warehouseID, status, limit, offset)
}

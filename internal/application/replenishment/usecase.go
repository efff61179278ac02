package replenishment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rtrejos/almacen-api/internal/application/dto"
	"github.com/rtrejos/almacen-api/internal/application/folio"
	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/access"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

// UseCase flujo de pedidos de reposición de un almacén hacia el CEDIS:
// creación con folio diario, transiciones de estado con cascada
// enviado→recibido, enlace al traspaso que lo surte y seguimiento del
// faltante para compras.
type UseCase struct {
	txRunner      TxRunner
	orderRepo     repository.ReplenishmentOrderRepository
	transferRepo  repository.TransferRepository
	warehouseRepo repository.WarehouseRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	orderRepo repository.ReplenishmentOrderRepository,
	transferRepo repository.TransferRepository,
	warehouseRepo repository.WarehouseRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		orderRepo:     orderRepo,
		transferRepo:  transferRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Create valida que el destino sea realmente el CEDIS, rechaza códigos de
// barras repetidos dentro del pedido, asigna el folio PED-YYYYMMDD-NNNN e
// inserta pedido + detalles en una sola transacción.
func (uc *UseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateReplenishmentOrderRequest) (*entity.ReplenishmentOrder, error) {
	if err := access.Allow(actor, access.OpOrderCreate, access.Resource{WarehouseID: in.SourceWarehouseID}); err != nil {
		return nil, err
	}
	if in.SourceWarehouseID == "" || in.CedisWarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.SourceWarehouseID == in.CedisWarehouseID {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.Items))
	for _, item := range in.Items {
		if item.Barcode == "" || item.Quantity < 1 || seen[item.Barcode] {
			return nil, domain.ErrInvalidInput
		}
		seen[item.Barcode] = true
	}

	source, err := uc.warehouseRepo.GetByID(in.SourceWarehouseID)
	if err != nil {
		return nil, err
	}
	cedis, err := uc.warehouseRepo.GetByID(in.CedisWarehouseID)
	if err != nil {
		return nil, err
	}
	if source == nil || cedis == nil {
		return nil, domain.ErrNotFound
	}
	// Un pedido no puede apuntar a un almacén que no sea central.
	if !cedis.IsCedis {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	order := &entity.ReplenishmentOrder{
		ID:                uuid.New().String(),
		SourceWarehouseID: in.SourceWarehouseID,
		CedisWarehouseID:  in.CedisWarehouseID,
		Notes:             in.Notes,
		Status:            entity.OrderOpen,
		CreatedBy:         actor.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, item := range in.Items {
		order.Details = append(order.Details, entity.ReplenishmentOrderDetail{
			ID:       uuid.New().String(),
			OrderID:  order.ID,
			Barcode:  item.Barcode,
			Quantity: item.Quantity,
			Notes:    item.Notes,
		})
	}

	err = uc.txRunner.RunOrders(ctx, func(orderRepo repository.ReplenishmentOrderRepository) error {
		prefix := folio.Prefix("PED", now)
		last, err := orderRepo.MaxNumberWithPrefix(prefix)
		if err != nil {
			return err
		}
		order.Number = folio.Next(prefix, last)
		return orderRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Update aplica cambios de estado y de líneas en una sola transacción.
// is_sent=false arrastra la recepción (un pedido no puede figurar recibido sin
// estar enviado); is_received=true sin envío previo es entrada inválida.
// Una línea sin sent_quantity explícito cae a la cantidad solicitada.
func (uc *UseCase) Update(ctx context.Context, actor access.Actor, orderID string, in dto.UpdateReplenishmentOrderRequest) (*entity.ReplenishmentOrder, error) {
	if err := access.Allow(actor, access.OpOrderUpdate, access.Resource{}); err != nil {
		return nil, err
	}
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var updated *entity.ReplenishmentOrder
	err := uc.txRunner.RunOrders(ctx, func(orderRepo repository.ReplenishmentOrderRepository) error {
		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		if in.IsSent != nil {
			sent := order.Status != entity.OrderOpen
			switch {
			case *in.IsSent && !sent:
				if err := order.MarkSent(actor.UserID, now); err != nil {
					return err
				}
			case !*in.IsSent && sent:
				order.ClearSent(now)
			}
		}
		if in.IsReceived != nil {
			received := order.Status == entity.OrderReceived
			switch {
			case *in.IsReceived && !received:
				if err := order.MarkReceived(actor.UserID, now); err != nil {
					return err
				}
			case !*in.IsReceived && received:
				if err := order.ClearReceived(now); err != nil {
					return err
				}
			}
		}
		if in.Notes != nil {
			order.Notes = *in.Notes
			order.UpdatedAt = now
		}
		if err := orderRepo.Update(order); err != nil {
			return err
		}

		for _, item := range in.Items {
			if item.DetailID == "" {
				return domain.ErrInvalidInput
			}
			detail, err := orderRepo.GetDetailByID(item.DetailID)
			if err != nil {
				return err
			}
			if detail == nil || detail.OrderID != order.ID {
				return domain.ErrNotFound
			}
			if item.SentQuantity != nil {
				if *item.SentQuantity < 0 {
					return domain.ErrInvalidInput
				}
				detail.SentQuantity = *item.SentQuantity
			} else {
				// Compatibilidad: clientes viejos no mandan el surtido real.
				detail.SentQuantity = detail.Quantity
			}
			if item.Notes != nil {
				detail.Notes = *item.Notes
			}
			if item.BuyOrderGenerated != nil {
				detail.BuyOrderGenerated = *item.BuyOrderGenerated
			}
			if err := orderRepo.UpdateDetail(detail); err != nil {
				return err
			}
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// LinkTransfer enlaza el traspaso que surte el pedido. La ruta del traspaso
// debe reflejar exactamente CEDIS→solicitante; autorizado para rol elevado o
// para quien tiene el CEDIS del pedido como almacén base.
func (uc *UseCase) LinkTransfer(ctx context.Context, actor access.Actor, orderID, transferID string) (*entity.ReplenishmentOrder, error) {
	if orderID == "" || transferID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if err := access.Allow(actor, access.OpOrderLinkTransfer, access.Resource{
		CedisWarehouseID: order.CedisWarehouseID,
	}); err != nil {
		return nil, err
	}
	transfer, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	if transfer.SourceWarehouseID != order.CedisWarehouseID ||
		transfer.DestinationWarehouseID != order.SourceWarehouseID {
		return nil, domain.ErrInvalidInput
	}

	order.TransferID = &transfer.ID
	order.UpdatedAt = time.Now()
	if err := uc.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListUnfulfilled devuelve las líneas con faltante: pedido recibido, sin orden
// de compra generada y surtido menor a lo solicitado. Alimenta el paso de
// compras aguas abajo.
func (uc *UseCase) ListUnfulfilled(ctx context.Context, actor access.Actor) ([]*entity.ReplenishmentOrderDetail, error) {
	if err := access.Allow(actor, access.OpRead, access.Resource{}); err != nil {
		return nil, err
	}
	return uc.orderRepo.ListUnfulfilledDetails()
}

// MarkBuyOrderGenerated marca en bloque líneas ya gestionadas con compras.
func (uc *UseCase) MarkBuyOrderGenerated(ctx context.Context, actor access.Actor, detailIDs []string) (int64, error) {
	if err := access.Allow(actor, access.OpOrderMarkBuyOrder, access.Resource{}); err != nil {
		return 0, err
	}
	if len(detailIDs) == 0 {
		return 0, domain.ErrInvalidInput
	}
	return uc.orderRepo.MarkBuyOrderGenerated(detailIDs)
}

// GetByID devuelve el pedido con sus detalles.
func (uc *UseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*entity.ReplenishmentOrder, error) {
	if err := access.Allow(actor, access.OpRead, access.Resource{}); err != nil {
		return nil, err
	}
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// List devuelve pedidos, opcionalmente filtrados por estado.
func (uc *UseCase) List(ctx context.Context, actor access.Actor, status entity.OrderStatus, limit, offset int) ([]*entity.ReplenishmentOrder, error) {
	if err := access.Allow(actor, access.OpRead, access.Resource{}); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.orderRepo.List(status, limit, offset)
}

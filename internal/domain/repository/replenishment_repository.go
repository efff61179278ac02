package repository

import "github.com/rtrejos/almacen-api/internal/domain/entity"

// ReplenishmentOrderRepository puerto de persistencia para pedidos de reposición.
// Los pedidos nunca se borran físicamente; Update cubre estado, enlace a
// traspaso y notas. GetByID devuelve el pedido con sus detalles.
type ReplenishmentOrderRepository interface {
	Create(order *entity.ReplenishmentOrder) error
	GetByID(id string) (*entity.ReplenishmentOrder, error)
	Update(order *entity.ReplenishmentOrder) error
	GetDetailByID(id string) (*entity.ReplenishmentOrderDetail, error)
	UpdateDetail(detail *entity.ReplenishmentOrderDetail) error
	List(status entity.OrderStatus, limit, offset int) ([]*entity.ReplenishmentOrder, error)
	// MaxNumberWithPrefix devuelve el número más alto ya asignado con ese
	// prefijo (p. ej. "PED-20260901-"), o "" si no hay ninguno.
	MaxNumberWithPrefix(prefix string) (string, error)
	// ListUnfulfilledDetails devuelve las líneas de pedidos recibidos, sin orden
	// de compra generada y con sentQuantity < quantity.
	ListUnfulfilledDetails() ([]*entity.ReplenishmentOrderDetail, error)
	// MarkBuyOrderGenerated marca en bloque las líneas indicadas; devuelve
	// cuántas filas cambió.
	MarkBuyOrderGenerated(detailIDs []string) (int64, error)
}

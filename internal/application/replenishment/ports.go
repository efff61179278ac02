package replenishment

import (
	"context"

	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el
// repositorio de pedidos atado a esa tx. Crear pedido+detalles y las
// actualizaciones de estado con cascada son atómicas.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		orderRepo repository.ReplenishmentOrderRepository,
	) error) error
}

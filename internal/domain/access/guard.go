// Package access centraliza la autorización del núcleo: un enum cerrado de
// roles y una única función de decisión (actor, operación, recurso) en lugar
// de comparaciones de strings repartidas por los handlers.
package access

import "github.com/rtrejos/almacen-api/internal/domain"

// Role rol del llamador, resuelto por el proveedor de identidad externo.
type Role string

const (
	RoleAdmin     Role = "admin"     // corporativo; sin almacén base
	RoleBodeguero Role = "bodeguero" // opera su almacén
	RoleVendedor  Role = "vendedor"  // solo lectura sobre este núcleo
)

// ParseRole valida el claim de rol contra el conjunto cerrado.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleBodeguero, RoleVendedor:
		return Role(s), nil
	}
	return "", domain.ErrForbidden
}

// Operation identifica cada operación protegida del núcleo.
type Operation string

const (
	OpStockUnitWrite     Operation = "stock_unit.write"
	OpTransferCreate     Operation = "transfer.create"
	OpTransferUpdateItem Operation = "transfer.update_item"
	OpTransferComplete   Operation = "transfer.complete"
	OpTransferCancel     Operation = "transfer.cancel"
	OpOrderCreate        Operation = "order.create"
	OpOrderUpdate        Operation = "order.update"
	OpOrderLinkTransfer  Operation = "order.link_transfer"
	OpOrderMarkBuyOrder  Operation = "order.mark_buy_order"
	OpShrinkageWrite     Operation = "shrinkage.write"
	OpWarehouseCreate    Operation = "warehouse.create"
	OpRead               Operation = "read"
)

// Actor identidad del llamador tal como llega en el token.
type Actor struct {
	UserID          string
	Role            Role
	HomeWarehouseID string // vacío para roles corporativos
}

// Resource datos del recurso relevantes para la decisión.
type Resource struct {
	WarehouseID      string // almacén afectado por la operación
	CedisWarehouseID string // CEDIS del pedido, para link-transfer
}

// Allow decide si el actor puede ejecutar la operación sobre el recurso.
// Devuelve nil o domain.ErrForbidden; el llamador no necesita distinguir más.
func Allow(actor Actor, op Operation, res Resource) error {
	if _, err := ParseRole(string(actor.Role)); err != nil {
		return domain.ErrForbidden
	}

	switch op {
	case OpRead:
		return nil

	case OpWarehouseCreate:
		if actor.Role == RoleAdmin {
			return nil
		}
		return domain.ErrForbidden

	case OpOrderLinkTransfer:
		// Rol elevado, o usuario cuyo almacén base es el CEDIS del pedido.
		if actor.Role == RoleAdmin {
			return nil
		}
		if res.CedisWarehouseID != "" && actor.HomeWarehouseID == res.CedisWarehouseID {
			return nil
		}
		return domain.ErrForbidden

	case OpStockUnitWrite, OpTransferCreate, OpTransferUpdateItem,
		OpTransferComplete, OpTransferCancel, OpOrderCreate, OpOrderUpdate,
		OpOrderMarkBuyOrder, OpShrinkageWrite:
		if actor.Role == RoleAdmin || actor.Role == RoleBodeguero {
			return nil
		}
		return domain.ErrForbidden
	}

	// Operación desconocida: negar por omisión.
	return domain.ErrForbidden
}

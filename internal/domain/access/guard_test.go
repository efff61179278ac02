package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/access"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "bodeguero", "vendedor"} {
		r, err := access.ParseRole(s)
		assert.NoError(t, err)
		assert.Equal(t, access.Role(s), r)
	}
	_, err := access.ParseRole("superuser")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = access.ParseRole("")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAllow_TablaDeDecision(t *testing.T) {
	admin := access.Actor{UserID: "u1", Role: access.RoleAdmin}
	bodeguero := access.Actor{UserID: "u2", Role: access.RoleBodeguero, HomeWarehouseID: "w-tienda"}
	bodegueroCedis := access.Actor{UserID: "u3", Role: access.RoleBodeguero, HomeWarehouseID: "w-cedis"}
	vendedor := access.Actor{UserID: "u4", Role: access.RoleVendedor}

	linkRes := access.Resource{CedisWarehouseID: "w-cedis"}

	cases := []struct {
		name  string
		actor access.Actor
		op    access.Operation
		res   access.Resource
		allow bool
	}{
		{"admin crea traspaso", admin, access.OpTransferCreate, access.Resource{}, true},
		{"bodeguero crea traspaso", bodeguero, access.OpTransferCreate, access.Resource{}, true},
		{"vendedor no crea traspaso", vendedor, access.OpTransferCreate, access.Resource{}, false},

		{"admin registra merma", admin, access.OpShrinkageWrite, access.Resource{}, true},
		{"bodeguero registra merma", bodeguero, access.OpShrinkageWrite, access.Resource{}, true},
		{"vendedor no registra merma", vendedor, access.OpShrinkageWrite, access.Resource{}, false},

		{"vendedor lee", vendedor, access.OpRead, access.Resource{}, true},
		{"bodeguero lee", bodeguero, access.OpRead, access.Resource{}, true},

		{"solo admin crea almacenes", bodeguero, access.OpWarehouseCreate, access.Resource{}, false},
		{"admin crea almacenes", admin, access.OpWarehouseCreate, access.Resource{}, true},

		{"admin enlaza traspaso", admin, access.OpOrderLinkTransfer, linkRes, true},
		{"bodeguero del CEDIS enlaza", bodegueroCedis, access.OpOrderLinkTransfer, linkRes, true},
		{"bodeguero de otro almacén no enlaza", bodeguero, access.OpOrderLinkTransfer, linkRes, false},
		{"vendedor no enlaza", vendedor, access.OpOrderLinkTransfer, linkRes, false},

		{"rol desconocido niega todo", access.Actor{UserID: "x", Role: "root"}, access.OpRead, access.Resource{}, false},
		{"operación desconocida niega", admin, access.Operation("otra"), access.Resource{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := access.Allow(tc.actor, tc.op, tc.res)
			if tc.allow {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrForbidden)
			}
		})
	}
}

package shrinkage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtrejos/almacen-api/internal/application/dto"
	"github.com/rtrejos/almacen-api/internal/application/shrinkage"
	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/access"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
	"github.com/rtrejos/almacen-api/internal/testutil"
)

func bodeguero(warehouseID string) access.Actor {
	return access.Actor{UserID: "user-1", Role: access.RoleBodeguero, HomeWarehouseID: warehouseID}
}

func newShrinkageFixture(t *testing.T) (*testutil.MemStore, *shrinkage.RecorderUseCase, string) {
	t.Helper()
	store := testutil.NewMemStore()
	store.SeedWarehouse(&entity.Warehouse{ID: "wh-1", Code: "BOD1", Name: "Bodega 1", CreatedAt: time.Now()})
	wh := "wh-1"
	store.SeedUnit(&entity.StockUnit{ID: "unit-1", Barcode: "750100", CurrentWarehouseID: &wh})
	store.SeedUnit(&entity.StockUnit{ID: "unit-2", Barcode: "750100", CurrentWarehouseID: &wh})
	uc := shrinkage.NewRecorderUseCase(testutil.NewTxRunner(store), store.Events())
	return store, uc, "wh-1"
}

func TestRecordManual_LoteCompleto(t *testing.T) {
	store, uc, wh := newShrinkageFixture(t)

	err := uc.RecordManual(context.Background(), bodeguero(wh), dto.RecordWriteoffRequest{
		ProductIDs: []string{"unit-1", "unit-2"},
		Reason:     "consumido",
	})
	require.NoError(t, err)

	events, err := store.Events().ListByWarehouse(wh, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, entity.ShrinkageSourceManual, e.Source)
		assert.Equal(t, entity.ShrinkageReasonConsumido, e.Reason)
		assert.Equal(t, 1, e.Quantity)
	}

	// Las unidades quedan vacías y fuera de uso.
	unit, err := store.Units().GetByID("unit-1")
	require.NoError(t, err)
	assert.True(t, unit.IsEmpty)
	assert.False(t, unit.IsBeingUsed)
}

func TestRecordManual_MotivoConTilde_SeNormaliza(t *testing.T) {
	store, uc, wh := newShrinkageFixture(t)

	err := uc.RecordManual(context.Background(), bodeguero(wh), dto.RecordWriteoffRequest{
		ProductIDs: []string{"unit-1"},
		Reason:     "Dañado",
	})
	require.NoError(t, err)

	events, err := store.Events().ListByUnit("unit-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entity.ShrinkageReasonDanado, events[0].Reason)
}

func TestRecordManual_OtroSinNotas_EsInvalido(t *testing.T) {
	_, uc, wh := newShrinkageFixture(t)

	err := uc.RecordManual(context.Background(), bodeguero(wh), dto.RecordWriteoffRequest{
		ProductIDs: []string{"unit-1"},
		Reason:     "otro",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Notas de solo espacios tampoco cuentan.
	err = uc.RecordManual(context.Background(), bodeguero(wh), dto.RecordWriteoffRequest{
		ProductIDs: []string{"unit-1"},
		Reason:     "otro",
		Notes:      "   ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordManual_MotivoDesconocido_EsInvalido(t *testing.T) {
	_, uc, wh := newShrinkageFixture(t)

	err := uc.RecordManual(context.Background(), bodeguero(wh), dto.RecordWriteoffRequest{
		ProductIDs: []string{"unit-1"},
		Reason:     "extraviado",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordManual_DuplicadoRechazaElLote(t *testing.T) {
	store, uc, wh := newShrinkageFixture(t)

	require.NoError(t, uc.RecordManual(context.Background(), bodeguero(wh), dto.RecordWriteoffRequest{
		ProductIDs: []string{"unit-1"},
		Reason:     "consumido",
	}))

	// unit-1 ya tiene merma "consumido": el reintento del lote es conflicto.
	err := uc.RecordManual(context.Background(), bodeguero(wh), dto.RecordWriteoffRequest{
		ProductIDs: []string{"unit-1", "unit-2"},
		Reason:     "consumido",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Mismo par con distinta fuente implícita no cambia nada: sigue siendo
	// único por (unidad, motivo). Pero otro motivo sí pasa.
	require.NoError(t, uc.RecordManual(context.Background(), bodeguero(wh), dto.RecordWriteoffRequest{
		ProductIDs: []string{"unit-1"},
		Reason:     "danado",
	}))
	events, err := store.Events().ListByUnit("unit-1")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestRecordManual_UnidadInexistente(t *testing.T) {
	_, uc, wh := newShrinkageFixture(t)

	err := uc.RecordManual(context.Background(), bodeguero(wh), dto.RecordWriteoffRequest{
		ProductIDs: []string{"unit-999"},
		Reason:     "consumido",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordManual_VendedorProhibido(t *testing.T) {
	_, uc, wh := newShrinkageFixture(t)

	vendedor := access.Actor{UserID: "user-2", Role: access.RoleVendedor, HomeWarehouseID: wh}
	err := uc.RecordManual(context.Background(), vendedor, dto.RecordWriteoffRequest{
		ProductIDs: []string{"unit-1"},
		Reason:     "consumido",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRecordManual_IDsRepetidosEnElLote(t *testing.T) {
	_, uc, wh := newShrinkageFixture(t)

	err := uc.RecordManual(context.Background(), bodeguero(wh), dto.RecordWriteoffRequest{
		ProductIDs: []string{"unit-1", "unit-1"},
		Reason:     "consumido",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordDerived_ValidaFuenteYMotivo(t *testing.T) {
	store, uc, _ := newShrinkageFixture(t)

	err := uc.RecordDerived(store.Events(), "inventado", entity.ShrinkageReasonOtro, 1, "unit-1", "wh-1", "user-1", nil, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva cae a 1.
	require.NoError(t, uc.RecordDerived(store.Events(), entity.ShrinkageSourceLegacy, entity.ShrinkageReasonOtro, 0, "unit-1", "wh-1", "user-1", nil, "baja"))
	events, err := store.Events().ListByUnit("unit-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].Quantity)
}

package stockunit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtrejos/almacen-api/internal/application/dto"
	"github.com/rtrejos/almacen-api/internal/application/shrinkage"
	"github.com/rtrejos/almacen-api/internal/application/stockunit"
	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/access"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
	"github.com/rtrejos/almacen-api/internal/testutil"
)

type unitFixture struct {
	store *testutil.MemStore
	uc    *stockunit.UseCase
	actor access.Actor
}

func newUnitFixture(t *testing.T) *unitFixture {
	t.Helper()
	store := testutil.NewMemStore()
	store.SeedWarehouse(&entity.Warehouse{ID: "wh-1", Code: "BOD1", Name: "Bodega 1"})
	store.SeedWarehouse(&entity.Warehouse{ID: "wh-2", Code: "BOD2", Name: "Bodega 2"})

	txRunner := testutil.NewTxRunner(store)
	recorder := shrinkage.NewRecorderUseCase(txRunner, store.Events())
	uc := stockunit.NewUseCase(txRunner, recorder, store.Units(), store.Transfers(), store.Warehouses())
	return &unitFixture{
		store: store,
		uc:    uc,
		actor: access.Actor{UserID: "user-1", Role: access.RoleBodeguero, HomeWarehouseID: "wh-1"},
	}
}

func (f *unitFixture) seedUnit(id string) {
	wh := "wh-1"
	f.store.SeedUnit(&entity.StockUnit{ID: id, Barcode: "750100", CurrentWarehouseID: &wh})
}

func TestCreateUnit_Validaciones(t *testing.T) {
	f := newUnitFixture(t)
	ctx := context.Background()

	wh := "wh-1"
	cab := "cab-1"

	// Alta en almacén.
	unit, err := f.uc.Create(ctx, f.actor, dto.CreateStockUnitRequest{Barcode: "750100", WarehouseID: &wh})
	require.NoError(t, err)
	assert.NotEmpty(t, unit.ID)
	require.NotNil(t, unit.CurrentWarehouseID)
	assert.Equal(t, "wh-1", *unit.CurrentWarehouseID)

	// Sin código de barras.
	_, err = f.uc.Create(ctx, f.actor, dto.CreateStockUnitRequest{WarehouseID: &wh})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Almacén y gabinete a la vez.
	_, err = f.uc.Create(ctx, f.actor, dto.CreateStockUnitRequest{Barcode: "750100", WarehouseID: &wh, CabinetID: &cab})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Almacén inexistente.
	missing := "wh-999"
	_, err = f.uc.Create(ctx, f.actor, dto.CreateStockUnitRequest{Barcode: "750100", WarehouseID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRelocate_AlmacenXORGabinete(t *testing.T) {
	f := newUnitFixture(t)
	ctx := context.Background()
	f.seedUnit("unit-1")

	wh2 := "wh-2"
	cab := "cab-1"

	// Ninguno o ambos: inválido.
	_, err := f.uc.Relocate(ctx, f.actor, "unit-1", dto.RelocateStockUnitRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Relocate(ctx, f.actor, "unit-1", dto.RelocateStockUnitRequest{WarehouseID: &wh2, CabinetID: &cab})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// A gabinete: limpia el almacén.
	unit, err := f.uc.Relocate(ctx, f.actor, "unit-1", dto.RelocateStockUnitRequest{CabinetID: &cab})
	require.NoError(t, err)
	assert.Nil(t, unit.CurrentWarehouseID)
	require.NotNil(t, unit.CurrentCabinetID)
	assert.Equal(t, cab, *unit.CurrentCabinetID)

	// De vuelta a almacén: limpia el gabinete.
	unit, err = f.uc.Relocate(ctx, f.actor, "unit-1", dto.RelocateStockUnitRequest{WarehouseID: &wh2})
	require.NoError(t, err)
	assert.Nil(t, unit.CurrentCabinetID)
	require.NotNil(t, unit.CurrentWarehouseID)
	assert.Equal(t, "wh-2", *unit.CurrentWarehouseID)
}

func TestCheckout_UnidadEnUso_EsConflicto(t *testing.T) {
	f := newUnitFixture(t)
	ctx := context.Background()
	f.seedUnit("unit-1")

	unit, err := f.uc.Checkout(ctx, f.actor, "unit-1", dto.CheckoutStockUnitRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.True(t, unit.IsBeingUsed)
	assert.Equal(t, 1, unit.NumberOfUses)
	require.NotNil(t, unit.LastUsedBy)
	assert.Equal(t, "emp-1", *unit.LastUsedBy)
	assert.NotNil(t, unit.FirstUsedAt)

	_, err = f.uc.Checkout(ctx, f.actor, "unit-1", dto.CheckoutStockUnitRequest{EmployeeID: "emp-2"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Sin empleado: inválido.
	_, err = f.uc.Checkout(ctx, f.actor, "unit-1", dto.CheckoutStockUnitRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckin_VaciaRegistraMermaUnaVez(t *testing.T) {
	f := newUnitFixture(t)
	ctx := context.Background()
	f.seedUnit("unit-1")

	_, err := f.uc.Checkout(ctx, f.actor, "unit-1", dto.CheckoutStockUnitRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	unit, err := f.uc.Checkin(ctx, f.actor, "unit-1", dto.CheckinStockUnitRequest{IsEmpty: true})
	require.NoError(t, err)
	assert.False(t, unit.IsBeingUsed)
	assert.True(t, unit.IsEmpty)

	events, err := f.store.Events().ListByUnit("unit-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entity.ShrinkageSourceLegacy, events[0].Source)
	assert.Equal(t, entity.ShrinkageReasonConsumido, events[0].Reason)
	assert.Equal(t, "wh-1", events[0].WarehouseID)

	// Segundo checkin sobre una unidad ya vacía no duplica el evento.
	_, err = f.uc.Checkin(ctx, f.actor, "unit-1", dto.CheckinStockUnitRequest{IsEmpty: true})
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.EventCount())
}

func TestCheckin_SinVaciar_NoGeneraMerma(t *testing.T) {
	f := newUnitFixture(t)
	ctx := context.Background()
	f.seedUnit("unit-1")

	_, err := f.uc.Checkout(ctx, f.actor, "unit-1", dto.CheckoutStockUnitRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	unit, err := f.uc.Checkin(ctx, f.actor, "unit-1", dto.CheckinStockUnitRequest{})
	require.NoError(t, err)
	assert.False(t, unit.IsEmpty)
	assert.Zero(t, f.store.EventCount())
}

func TestDelete_BajaConMermaDerivada(t *testing.T) {
	f := newUnitFixture(t)
	ctx := context.Background()
	f.seedUnit("unit-1")

	require.NoError(t, f.uc.Delete(ctx, f.actor, "unit-1"))

	unit, err := f.store.Units().GetByID("unit-1")
	require.NoError(t, err)
	assert.True(t, unit.IsDeleted)

	events, err := f.store.Events().ListByUnit("unit-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entity.ShrinkageSourceLegacy, events[0].Source)
	assert.Equal(t, entity.ShrinkageReasonOtro, events[0].Reason)

	// Segunda baja: la unidad ya no existe para el flujo.
	err = f.uc.Delete(ctx, f.actor, "unit-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_UnidadEnTraspasoAbierto_EsConflicto(t *testing.T) {
	f := newUnitFixture(t)
	ctx := context.Background()
	f.seedUnit("unit-1")

	require.NoError(t, f.store.Transfers().Create(&entity.WarehouseTransfer{
		ID:                     "tr-1",
		Number:                 "TRA-20260901-0001",
		TransferType:           entity.TransferTypeExternal,
		SourceWarehouseID:      "wh-1",
		DestinationWarehouseID: "wh-2",
		Status:                 entity.TransferPending,
		CreatedBy:              "user-1",
		Details: []entity.WarehouseTransferDetail{
			{ID: "td-1", TransferID: "tr-1", StockUnitID: "unit-1", Quantity: 1},
		},
	}))

	err := f.uc.Delete(ctx, f.actor, "unit-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	unit, err := f.store.Units().GetByID("unit-1")
	require.NoError(t, err)
	assert.False(t, unit.IsDeleted)
	assert.Zero(t, f.store.EventCount())
}

func TestGetByID_NoExiste(t *testing.T) {
	f := newUnitFixture(t)

	_, err := f.uc.GetByID(context.Background(), f.actor, "unit-999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByWarehouse_ExcluyeBajas(t *testing.T) {
	f := newUnitFixture(t)
	ctx := context.Background()
	f.seedUnit("unit-1")
	f.seedUnit("unit-2")
	require.NoError(t, f.uc.Delete(ctx, f.actor, "unit-2"))

	units, err := f.uc.ListByWarehouse(ctx, f.actor, "wh-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "unit-1", units[0].ID)

	_, err = f.uc.ListByWarehouse(ctx, f.actor, "", 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockUnit_VendedorProhibido(t *testing.T) {
	f := newUnitFixture(t)
	vendedor := access.Actor{UserID: "user-2", Role: access.RoleVendedor, HomeWarehouseID: "wh-1"}

	wh := "wh-1"
	_, err := f.uc.Create(context.Background(), vendedor, dto.CreateStockUnitRequest{Barcode: "750100", WarehouseID: &wh})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.uc.Delete(context.Background(), vendedor, "unit-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

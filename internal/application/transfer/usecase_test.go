package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtrejos/almacen-api/internal/application/dto"
	"github.com/rtrejos/almacen-api/internal/application/folio"
	"github.com/rtrejos/almacen-api/internal/application/shrinkage"
	"github.com/rtrejos/almacen-api/internal/application/transfer"
	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/access"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
	"github.com/rtrejos/almacen-api/internal/testutil"
)

type transferFixture struct {
	store *testutil.MemStore
	uc    *transfer.UseCase
	actor access.Actor
}

func newTransferFixture(t *testing.T) *transferFixture {
	t.Helper()
	store := testutil.NewMemStore()
	store.SeedWarehouse(&entity.Warehouse{ID: "wh-src", Code: "BOD1", Name: "Bodega 1"})
	store.SeedWarehouse(&entity.Warehouse{ID: "wh-dst", Code: "BOD2", Name: "Bodega 2"})
	src := "wh-src"
	store.SeedUnit(&entity.StockUnit{ID: "unit-1", Barcode: "750101", CurrentWarehouseID: &src})
	store.SeedUnit(&entity.StockUnit{ID: "unit-2", Barcode: "750102", CurrentWarehouseID: &src})

	txRunner := testutil.NewTxRunner(store)
	recorder := shrinkage.NewRecorderUseCase(txRunner, store.Events())
	uc := transfer.NewUseCase(txRunner, recorder, store.Transfers(), store.Warehouses())
	return &transferFixture{
		store: store,
		uc:    uc,
		actor: access.Actor{UserID: "user-1", Role: access.RoleBodeguero, HomeWarehouseID: "wh-src"},
	}
}

func externalRequest(items ...dto.TransferItemRequest) dto.CreateTransferRequest {
	return dto.CreateTransferRequest{
		Type:                   entity.TransferTypeExternal,
		SourceWarehouseID:      "wh-src",
		DestinationWarehouseID: "wh-dst",
		Items:                  items,
	}
}

func TestCreate_Externo(t *testing.T) {
	f := newTransferFixture(t)

	created, err := f.uc.Create(context.Background(), f.actor, externalRequest(
		dto.TransferItemRequest{StockUnitID: "unit-1"}, // cantidad 0 → 1
		dto.TransferItemRequest{StockUnitID: "unit-2", Quantity: 1, Condition: "buena"},
	))
	require.NoError(t, err)

	assert.Equal(t, entity.TransferPending, created.Status)
	assert.Equal(t, 2, created.TotalItems)
	assert.Equal(t, folio.Prefix("TRA", time.Now())+"0001", created.Number)
	require.Len(t, created.Details, 2)
	assert.Equal(t, 1, created.Details[0].Quantity)

	// El segundo traspaso del día toma el folio consecutivo. Las unidades del
	// primero siguen comprometidas, así que usa otras.
	f.store.SeedUnit(&entity.StockUnit{ID: "unit-3", Barcode: "750103"})
	second, err := f.uc.Create(context.Background(), f.actor, externalRequest(
		dto.TransferItemRequest{StockUnitID: "unit-3"},
	))
	require.NoError(t, err)
	assert.Equal(t, folio.Prefix("TRA", time.Now())+"0002", second.Number)
}

func TestCreate_ValidacionesDeRuta(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	// Origen == destino en externo.
	in := externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"})
	in.DestinationWarehouseID = "wh-src"
	_, err := f.uc.Create(ctx, f.actor, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Gabinete en traspaso externo.
	cab := "cab-1"
	in = externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"})
	in.CabinetID = &cab
	_, err = f.uc.Create(ctx, f.actor, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Tipo desconocido.
	in = externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"})
	in.Type = "otro"
	_, err = f.uc.Create(ctx, f.actor, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin líneas.
	_, err = f.uc.Create(ctx, f.actor, externalRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Almacén inexistente.
	in = externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"})
	in.DestinationWarehouseID = "wh-999"
	_, err = f.uc.Create(ctx, f.actor, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_UnidadNoDisponible(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	// Unidad inexistente.
	_, err := f.uc.Create(ctx, f.actor, externalRequest(dto.TransferItemRequest{StockUnitID: "unit-999"}))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Unidad borrada.
	f.store.SeedUnit(&entity.StockUnit{ID: "unit-baja", Barcode: "750109", IsDeleted: true})
	_, err = f.uc.Create(ctx, f.actor, externalRequest(dto.TransferItemRequest{StockUnitID: "unit-baja"}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Unidad ya comprometida en un traspaso abierto.
	_, err = f.uc.Create(ctx, f.actor, externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"}))
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, f.actor, externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Unidad repetida dentro del mismo lote.
	_, err = f.uc.Create(ctx, f.actor, externalRequest(
		dto.TransferItemRequest{StockUnitID: "unit-2"},
		dto.TransferItemRequest{StockUnitID: "unit-2"},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateItemStatus_MarcaYRevierte(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, f.actor, externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"}))
	require.NoError(t, err)
	detailID := created.Details[0].ID

	received := true
	require.NoError(t, f.uc.UpdateItemStatus(ctx, f.actor, dto.UpdateTransferItemRequest{
		TransferDetailID: detailID,
		IsReceived:       &received,
	}))
	detail, err := f.store.Transfers().GetDetailByID(detailID)
	require.NoError(t, err)
	assert.True(t, detail.IsReceived)
	require.NotNil(t, detail.ReceivedBy)
	assert.Equal(t, f.actor.UserID, *detail.ReceivedBy)

	notReceived := false
	require.NoError(t, f.uc.UpdateItemStatus(ctx, f.actor, dto.UpdateTransferItemRequest{
		TransferDetailID: detailID,
		IsReceived:       &notReceived,
	}))
	detail, err = f.store.Transfers().GetDetailByID(detailID)
	require.NoError(t, err)
	assert.False(t, detail.IsReceived)
	assert.Nil(t, detail.ReceivedBy)
	assert.Nil(t, detail.ReceivedAt)
}

func TestUpdateItemStatus_DespuesDeCompletar_EsConflicto(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, f.actor, externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"}))
	require.NoError(t, err)
	detailID := created.Details[0].ID

	received := true
	require.NoError(t, f.uc.UpdateItemStatus(ctx, f.actor, dto.UpdateTransferItemRequest{
		TransferDetailID: detailID, IsReceived: &received,
	}))
	require.NoError(t, f.uc.Complete(ctx, f.actor, created.ID))

	notes := "cambio tardío"
	err = f.uc.UpdateItemStatus(ctx, f.actor, dto.UpdateTransferItemRequest{
		TransferDetailID: detailID, ItemNotes: &notes,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestComplete_ExternoReconciliaFaltantes(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, f.actor, externalRequest(
		dto.TransferItemRequest{StockUnitID: "unit-1"},
		dto.TransferItemRequest{StockUnitID: "unit-2"},
	))
	require.NoError(t, err)

	// Solo unit-1 llega al destino.
	received := true
	require.NoError(t, f.uc.UpdateItemStatus(ctx, f.actor, dto.UpdateTransferItemRequest{
		TransferDetailID: created.Details[0].ID, IsReceived: &received,
	}))
	require.NoError(t, f.uc.Complete(ctx, f.actor, created.ID))

	stored, err := f.store.Transfers().GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompleted, stored.Status)
	require.NotNil(t, stored.CompletedBy)
	assert.Equal(t, f.actor.UserID, *stored.CompletedBy)

	// La unidad recibida queda en el destino.
	unit1, err := f.store.Units().GetByID("unit-1")
	require.NoError(t, err)
	require.NotNil(t, unit1.CurrentWarehouseID)
	assert.Equal(t, "wh-dst", *unit1.CurrentWarehouseID)
	assert.False(t, unit1.IsDeleted)

	// La faltante genera exactamente un evento transfer_missing y se da de baja.
	unit2, err := f.store.Units().GetByID("unit-2")
	require.NoError(t, err)
	assert.True(t, unit2.IsDeleted)

	events, err := f.store.Events().ListByUnit("unit-2")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entity.ShrinkageSourceTransferMissing, events[0].Source)
	assert.Equal(t, entity.ShrinkageReasonOtro, events[0].Reason)
	assert.Equal(t, "wh-dst", events[0].WarehouseID)
	require.NotNil(t, events[0].TransferID)
	assert.Equal(t, created.ID, *events[0].TransferID)

	// La recibida no genera merma.
	events, err = f.store.Events().ListByUnit("unit-1")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestComplete_InternoNoGeneraMerma(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	cab := "cab-7"
	created, err := f.uc.Create(ctx, f.actor, dto.CreateTransferRequest{
		Type:                   entity.TransferTypeInternal,
		SourceWarehouseID:      "wh-src",
		DestinationWarehouseID: "wh-src",
		CabinetID:              &cab,
		Items: []dto.TransferItemRequest{
			{StockUnitID: "unit-1"},
			{StockUnitID: "unit-2"},
		},
	})
	require.NoError(t, err)

	received := true
	require.NoError(t, f.uc.UpdateItemStatus(ctx, f.actor, dto.UpdateTransferItemRequest{
		TransferDetailID: created.Details[0].ID, IsReceived: &received,
	}))
	require.NoError(t, f.uc.Complete(ctx, f.actor, created.ID))

	// La recibida queda en el gabinete.
	unit1, err := f.store.Units().GetByID("unit-1")
	require.NoError(t, err)
	require.NotNil(t, unit1.CurrentCabinetID)
	assert.Equal(t, cab, *unit1.CurrentCabinetID)

	// La no recibida se queda donde estaba, sin merma ni baja.
	unit2, err := f.store.Units().GetByID("unit-2")
	require.NoError(t, err)
	assert.False(t, unit2.IsDeleted)
	require.NotNil(t, unit2.CurrentWarehouseID)
	assert.Equal(t, "wh-src", *unit2.CurrentWarehouseID)
	assert.Zero(t, f.store.EventCount())
}

func TestUpdateStatus_TransicionesTerminales(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, f.actor, externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"}))
	require.NoError(t, err)

	// Ambos flags o ninguno: inválido.
	err = f.uc.UpdateStatus(ctx, f.actor, dto.UpdateTransferStatusRequest{TransferID: created.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = f.uc.UpdateStatus(ctx, f.actor, dto.UpdateTransferStatusRequest{TransferID: created.ID, IsCompleted: true, IsCancelled: true})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.uc.UpdateStatus(ctx, f.actor, dto.UpdateTransferStatusRequest{TransferID: created.ID, IsCompleted: true}))

	// Completar dos veces o cancelar después: conflicto.
	err = f.uc.Complete(ctx, f.actor, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	err = f.uc.Cancel(ctx, f.actor, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancel_NoTocaUnidades(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, f.actor, externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"}))
	require.NoError(t, err)
	require.NoError(t, f.uc.Cancel(ctx, f.actor, created.ID))

	stored, err := f.store.Transfers().GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCancelled, stored.Status)

	unit, err := f.store.Units().GetByID("unit-1")
	require.NoError(t, err)
	require.NotNil(t, unit.CurrentWarehouseID)
	assert.Equal(t, "wh-src", *unit.CurrentWarehouseID)
	assert.Zero(t, f.store.EventCount())

	// Cancelado libera la unidad para un nuevo traspaso.
	_, err = f.uc.Create(ctx, f.actor, externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"}))
	assert.NoError(t, err)
}

func TestTransfer_VendedorProhibido(t *testing.T) {
	f := newTransferFixture(t)
	vendedor := access.Actor{UserID: "user-2", Role: access.RoleVendedor, HomeWarehouseID: "wh-src"}

	_, err := f.uc.Create(context.Background(), vendedor, externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"}))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.uc.Complete(context.Background(), vendedor, "cualquiera")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	first, err := f.uc.Create(ctx, f.actor, externalRequest(dto.TransferItemRequest{StockUnitID: "unit-1"}))
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, f.actor, externalRequest(dto.TransferItemRequest{StockUnitID: "unit-2"}))
	require.NoError(t, err)
	require.NoError(t, f.uc.Cancel(ctx, f.actor, first.ID))

	pending, err := f.uc.List(ctx, f.actor, "wh-src", entity.TransferPending, 10, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := f.uc.List(ctx, f.actor, "wh-src", "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.uc.List(ctx, f.actor, "wh-src", "abierto", 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

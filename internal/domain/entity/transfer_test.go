package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
)

func pendingTransfer() *entity.WarehouseTransfer {
	return &entity.WarehouseTransfer{
		ID:                     "t1",
		Number:                 "TRA-0001",
		TransferType:           entity.TransferTypeExternal,
		SourceWarehouseID:      "w-cedis",
		DestinationWarehouseID: "w-tienda",
		Status:                 entity.TransferPending,
		CreatedBy:              "u1",
		CreatedAt:              time.Now(),
	}
}

func TestTransfer_CompleteDesdePending(t *testing.T) {
	tr := pendingTransfer()
	now := time.Now()

	require.NoError(t, tr.Complete("u2", now))
	assert.Equal(t, entity.TransferCompleted, tr.Status)
	require.NotNil(t, tr.CompletedBy)
	assert.Equal(t, "u2", *tr.CompletedBy)
	require.NotNil(t, tr.CompletedAt)
	assert.Equal(t, now, *tr.CompletedAt)
}

func TestTransfer_CompleteDosVeces_Conflicto(t *testing.T) {
	tr := pendingTransfer()
	require.NoError(t, tr.Complete("u2", time.Now()))

	err := tr.Complete("u3", time.Now())
	assert.ErrorIs(t, err, domain.ErrConflict, "completar un traspaso terminal debe ser conflicto")
}

func TestTransfer_CancelDesdePending(t *testing.T) {
	tr := pendingTransfer()
	require.NoError(t, tr.Cancel())
	assert.Equal(t, entity.TransferCancelled, tr.Status)
	assert.Nil(t, tr.CompletedBy, "cancelar no estampa completador")
}

func TestTransfer_CancelTrasCompletar_Conflicto(t *testing.T) {
	tr := pendingTransfer()
	require.NoError(t, tr.Complete("u2", time.Now()))
	assert.ErrorIs(t, tr.Cancel(), domain.ErrConflict)
}

func TestTransfer_CompleteTrasCancelar_Conflicto(t *testing.T) {
	tr := pendingTransfer()
	require.NoError(t, tr.Cancel())
	assert.ErrorIs(t, tr.Complete("u2", time.Now()), domain.ErrConflict)
}

func TestTransferStatus_Terminal(t *testing.T) {
	assert.False(t, entity.TransferPending.Terminal())
	assert.True(t, entity.TransferCompleted.Terminal())
	assert.True(t, entity.TransferCancelled.Terminal())
}

func TestTransferDetail_MarkYClearReceived(t *testing.T) {
	d := &entity.WarehouseTransferDetail{ID: "d1", TransferID: "t1", StockUnitID: "s1", Quantity: 1}
	now := time.Now()

	d.MarkReceived("u9", now)
	assert.True(t, d.IsReceived)
	require.NotNil(t, d.ReceivedBy)
	assert.Equal(t, "u9", *d.ReceivedBy)

	d.ClearReceived()
	assert.False(t, d.IsReceived)
	assert.Nil(t, d.ReceivedBy)
	assert.Nil(t, d.ReceivedAt)
}

package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
)

func openOrder() *entity.ReplenishmentOrder {
	return &entity.ReplenishmentOrder{
		ID:                "o1",
		Number:            "PED-20260901-0001",
		SourceWarehouseID: "w-tienda",
		CedisWarehouseID:  "w-cedis",
		Status:            entity.OrderOpen,
		CreatedBy:         "u1",
		CreatedAt:         time.Now(),
	}
}

func TestOrder_RecibidoImplicaEnviado(t *testing.T) {
	o := openOrder()

	// Recibir sin enviar es entrada inválida, no conflicto.
	err := o.MarkReceived("u2", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, o.MarkSent("u2", time.Now()))
	require.NoError(t, o.MarkReceived("u3", time.Now()))
	assert.Equal(t, entity.OrderReceived, o.Status)
}

func TestOrder_MarkSent_EstampaActorYHora(t *testing.T) {
	o := openOrder()
	now := time.Now()
	require.NoError(t, o.MarkSent("u2", now))

	assert.Equal(t, entity.OrderSent, o.Status)
	require.NotNil(t, o.SentBy)
	assert.Equal(t, "u2", *o.SentBy)
	require.NotNil(t, o.SentAt)
	assert.Equal(t, now, *o.SentAt)
}

func TestOrder_ClearSent_ArrastraRecepcion(t *testing.T) {
	o := openOrder()
	require.NoError(t, o.MarkSent("u2", time.Now()))
	require.NoError(t, o.MarkReceived("u3", time.Now()))

	o.ClearSent(time.Now())

	assert.Equal(t, entity.OrderOpen, o.Status)
	assert.Nil(t, o.SentBy)
	assert.Nil(t, o.SentAt)
	assert.Nil(t, o.ReceivedBy, "revertir envío debe limpiar también la recepción")
	assert.Nil(t, o.ReceivedAt)
}

func TestOrder_MarkSentDosVeces_Conflicto(t *testing.T) {
	o := openOrder()
	require.NoError(t, o.MarkSent("u2", time.Now()))
	assert.ErrorIs(t, o.MarkSent("u2", time.Now()), domain.ErrConflict)
}

func TestOrder_MarkReceivedDosVeces_Conflicto(t *testing.T) {
	o := openOrder()
	require.NoError(t, o.MarkSent("u2", time.Now()))
	require.NoError(t, o.MarkReceived("u3", time.Now()))
	assert.ErrorIs(t, o.MarkReceived("u3", time.Now()), domain.ErrConflict)
}

func TestOrder_ClearReceived_DejaEnSent(t *testing.T) {
	o := openOrder()
	require.NoError(t, o.MarkSent("u2", time.Now()))
	require.NoError(t, o.MarkReceived("u3", time.Now()))

	require.NoError(t, o.ClearReceived(time.Now()))
	assert.Equal(t, entity.OrderSent, o.Status)
	assert.Nil(t, o.ReceivedBy)
	require.NotNil(t, o.SentBy, "revertir recepción no toca el envío")
}

func TestShrinkage_ReasonYSourceValidos(t *testing.T) {
	assert.True(t, entity.ValidShrinkageReason(entity.ShrinkageReasonConsumido))
	assert.True(t, entity.ValidShrinkageReason(entity.ShrinkageReasonDanado))
	assert.True(t, entity.ValidShrinkageReason(entity.ShrinkageReasonOtro))
	assert.False(t, entity.ValidShrinkageReason("extraviado"))

	assert.True(t, entity.ValidShrinkageSource(entity.ShrinkageSourceManual))
	assert.True(t, entity.ValidShrinkageSource(entity.ShrinkageSourceTransferMissing))
	assert.True(t, entity.ValidShrinkageSource(entity.ShrinkageSourceLegacy))
	assert.False(t, entity.ValidShrinkageSource("importado"))
}

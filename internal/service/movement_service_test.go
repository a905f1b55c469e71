package service

import (
	"context"
	"testing"

	"batchtrace/internal/apierror"
	"batchtrace/internal/dto"
	"batchtrace/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *testEnv) movementSvc() MovementService {
	return NewMovementService(env.movements, env.batches, env.warehouses)
}

func (env *testEnv) receiptReq(batch *model.Batch, qty string) dto.PostMovementRequest {
	return dto.PostMovementRequest{
		BatchID:     batch.ID.String(),
		WarehouseID: env.wh1.ID.String(),
		LocationID:  env.loc1.ID.String(),
		Type:        model.MovementReceipt,
		Quantity:    decimal.RequireFromString(qty),
		UnitID:      env.unit.String(),
	}
}

func TestPostMovement_Receipt(t *testing.T) {
	env := newTestEnv()
	batch := env.newBatch("20260829-WHEAT-0001")

	resp, err := env.movementSvc().Post(context.Background(), env.receiptReq(batch, "100"), nil)
	require.NoError(t, err)
	assert.Equal(t, model.MovementReceipt, resp.Type)
	assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, batch.ID.String(), resp.BatchID)
}

func TestPostMovement_NonPositiveQuantity(t *testing.T) {
	env := newTestEnv()
	batch := env.newBatch("20260829-WHEAT-0001")
	req := env.receiptReq(batch, "0")

	_, err := env.movementSvc().Post(context.Background(), req, nil)

	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestPostMovement_UnknownBatch(t *testing.T) {
	env := newTestEnv()
	batch := env.newBatch("20260829-WHEAT-0001")
	req := env.receiptReq(batch, "10")
	req.BatchID = uuid.NewString()

	_, err := env.movementSvc().Post(context.Background(), req, nil)

	var nf *apierror.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "batch", nf.Entity)
}

func TestPostMovement_UnknownLocation(t *testing.T) {
	env := newTestEnv()
	batch := env.newBatch("20260829-WHEAT-0001")
	req := env.receiptReq(batch, "10")
	req.LocationID = uuid.NewString()

	_, err := env.movementSvc().Post(context.Background(), req, nil)

	var nf *apierror.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "location", nf.Entity)
}

func TestPostMovement_LocationOutsideWarehouse(t *testing.T) {
	env := newTestEnv()
	batch := env.newBatch("20260829-WHEAT-0001")
	req := env.receiptReq(batch, "10")
	// loc2 belongs to wh2, not wh1.
	req.LocationID = env.loc2.ID.String()

	_, err := env.movementSvc().Post(context.Background(), req, nil)

	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestPostMovement_TransferRequiresTarget(t *testing.T) {
	env := newTestEnv()
	batch := env.newBatch("20260829-WHEAT-0001")
	req := env.receiptReq(batch, "10")
	req.Type = model.MovementTransfer

	_, err := env.movementSvc().Post(context.Background(), req, nil)

	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestPostMovement_TransferWithTarget(t *testing.T) {
	env := newTestEnv()
	batch := env.newBatch("20260829-WHEAT-0001")
	req := env.receiptReq(batch, "40")
	req.Type = model.MovementTransfer
	targetWh := env.wh2.ID.String()
	targetLoc := env.loc2.ID.String()
	req.TargetWarehouseID = &targetWh
	req.TargetLocationID = &targetLoc

	resp, err := env.movementSvc().Post(context.Background(), req, nil)
	require.NoError(t, err)
	require.NotNil(t, resp.TargetWarehouseID)
	assert.Equal(t, targetWh, *resp.TargetWarehouseID)
}

func TestPostMovement_TargetOnNonTransferRejected(t *testing.T) {
	env := newTestEnv()
	batch := env.newBatch("20260829-WHEAT-0001")
	req := env.receiptReq(batch, "10")
	target := env.wh2.ID.String()
	req.TargetWarehouseID = &target

	_, err := env.movementSvc().Post(context.Background(), req, nil)

	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestListMovements_InsertionOrder(t *testing.T) {
	env := newTestEnv()
	batch := env.newBatch("20260829-WHEAT-0001")
	svc := env.movementSvc()
	ctx := context.Background()

	for _, qty := range []string{"100", "30", "20"} {
		_, err := svc.Post(ctx, env.receiptReq(batch, qty), nil)
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, dto.MovementFilter{BatchID: batch.ID.String(), Page: 1, Limit: 100})
	require.NoError(t, err)
	require.Len(t, resp.Data, 3)
	assert.True(t, resp.Data[0].Quantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.Data[1].Quantity.Equal(decimal.NewFromInt(30)))
	assert.True(t, resp.Data[2].Quantity.Equal(decimal.NewFromInt(20)))
}

func TestListMovements_SeqOrderSurvivesTimestampTies(t *testing.T) {
	env := newTestEnv()
	batch := env.newBatch("20260829-WHEAT-0001")
	svc := env.movementSvc()
	ctx := context.Background()

	for _, qty := range []string{"1", "2", "3", "4"} {
		_, err := svc.Post(ctx, env.receiptReq(batch, qty), nil)
		require.NoError(t, err)
	}
	// Concurrent posts can land on the same timestamp; ordering must come
	// from the sequence, not created_at.
	stamp := env.movements.entries[0].CreatedAt
	for _, m := range env.movements.entries {
		m.CreatedAt = stamp
	}

	resp, err := svc.List(ctx, dto.MovementFilter{BatchID: batch.ID.String(), Page: 1, Limit: 100})
	require.NoError(t, err)
	require.Len(t, resp.Data, 4)
	for i, want := range []int64{1, 2, 3, 4} {
		assert.True(t, resp.Data[i].Quantity.Equal(decimal.NewFromInt(want)))
	}
}

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

func (env *testEnv) lineageSvc() LineageService {
	return NewLineageService(env.lineage, env.batches)
}

func (env *testEnv) linkReq(source, destination *model.Batch) dto.LinkBatchesRequest {
	return dto.LinkBatchesRequest{
		SourceBatchID:      source.ID.String(),
		DestinationBatchID: destination.ID.String(),
		ProcessType:        model.ProcessProduction,
		Quantity:           decimal.NewFromInt(100),
		UnitID:             env.unit.String(),
	}
}

func TestLinkBatches(t *testing.T) {
	env := newTestEnv()
	a := env.newBatch("20260829-WHEAT-0001")
	b := env.newBatch("20260829-WHEAT-0002")

	resp, err := env.lineageSvc().Link(context.Background(), env.linkReq(a, b), nil)
	require.NoError(t, err)
	assert.Equal(t, a.ID.String(), resp.SourceBatchID)
	assert.Equal(t, b.ID.String(), resp.DestinationBatchID)
	assert.Equal(t, model.ProcessProduction, resp.ProcessType)
}

func TestLinkBatches_SelfLinkRejected(t *testing.T) {
	env := newTestEnv()
	a := env.newBatch("20260829-WHEAT-0001")

	_, err := env.lineageSvc().Link(context.Background(), env.linkReq(a, a), nil)

	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestLinkBatches_MissingBatch(t *testing.T) {
	env := newTestEnv()
	a := env.newBatch("20260829-WHEAT-0001")
	req := env.linkReq(a, a)
	req.DestinationBatchID = uuid.NewString()

	_, err := env.lineageSvc().Link(context.Background(), req, nil)

	var nf *apierror.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestLinkBatches_NonPositiveQuantity(t *testing.T) {
	env := newTestEnv()
	a := env.newBatch("20260829-WHEAT-0001")
	b := env.newBatch("20260829-WHEAT-0002")
	req := env.linkReq(a, b)
	req.Quantity = decimal.Zero

	_, err := env.lineageSvc().Link(context.Background(), req, nil)

	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
}

// A feeds B, B feeds C. Forward from A must flag the A->B hop as having
// further usage; forward from B must not flag B->C.
func TestTraceForward_ContinuationFlags(t *testing.T) {
	env := newTestEnv()
	a := env.newBatch("20260829-WHEAT-0001")
	b := env.newBatch("20260829-WHEAT-0002")
	c := env.newBatch("20260829-WHEAT-0003")
	svc := env.lineageSvc()
	ctx := context.Background()

	_, err := svc.Link(ctx, env.linkReq(a, b), nil)
	require.NoError(t, err)
	_, err = svc.Link(ctx, env.linkReq(b, c), nil)
	require.NoError(t, err)

	fromA, err := svc.TraceForward(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, fromA.Usages, 1)
	assert.Equal(t, b.ID.String(), fromA.Usages[0].Destination.ID)
	assert.Equal(t, b.BatchNumber, fromA.Usages[0].Destination.BatchNumber)
	assert.True(t, fromA.Usages[0].HasFurtherUsage)

	fromB, err := svc.TraceForward(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, fromB.Usages, 1)
	assert.Equal(t, c.ID.String(), fromB.Usages[0].Destination.ID)
	assert.False(t, fromB.Usages[0].HasFurtherUsage)
}

func TestTraceBackward_ContinuationFlags(t *testing.T) {
	env := newTestEnv()
	a := env.newBatch("20260829-WHEAT-0001")
	b := env.newBatch("20260829-WHEAT-0002")
	c := env.newBatch("20260829-WHEAT-0003")
	svc := env.lineageSvc()
	ctx := context.Background()

	_, err := svc.Link(ctx, env.linkReq(a, b), nil)
	require.NoError(t, err)
	_, err = svc.Link(ctx, env.linkReq(b, c), nil)
	require.NoError(t, err)

	intoC, err := svc.TraceBackward(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, intoC.Components, 1)
	assert.Equal(t, b.ID.String(), intoC.Components[0].Source.ID)
	assert.True(t, intoC.Components[0].HasFurtherComponents)

	intoB, err := svc.TraceBackward(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, intoB.Components, 1)
	assert.Equal(t, a.ID.String(), intoB.Components[0].Source.ID)
	assert.False(t, intoB.Components[0].HasFurtherComponents)
}

// Lineage symmetry: a link shows up in the forward trace of its source and
// the backward trace of its destination.
func TestLineageSymmetry(t *testing.T) {
	env := newTestEnv()
	a := env.newBatch("20260829-WHEAT-0001")
	b := env.newBatch("20260829-WHEAT-0002")
	svc := env.lineageSvc()
	ctx := context.Background()

	_, err := svc.Link(ctx, env.linkReq(a, b), nil)
	require.NoError(t, err)

	forward, err := svc.TraceForward(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, forward.Usages, 1)
	assert.Equal(t, b.ID.String(), forward.Usages[0].Destination.ID)

	backward, err := svc.TraceBackward(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, backward.Components, 1)
	assert.Equal(t, a.ID.String(), backward.Components[0].Source.ID)
}

func TestTraceForward_UnknownBatch(t *testing.T) {
	env := newTestEnv()

	_, err := env.lineageSvc().TraceForward(context.Background(), uuid.New())

	var nf *apierror.NotFoundError
	require.ErrorAs(t, err, &nf)
}

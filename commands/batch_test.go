package commands

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeves-cluster-organization/aerowire/operations"
	"github.com/jeeves-cluster-organization/aerowire/policy"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

func batchKey(t *testing.T, userKey int64) *types.Key {
	t.Helper()
	key, err := types.NewKey("test", "s", userKey)
	require.NoError(t, err)
	return key
}

func encodeBatch(t *testing.T, bp *policy.BatchPolicy, batch []*BatchOperation) []byte {
	t.Helper()
	cmd := NewCommand()
	require.NoError(t, cmd.SetBatchOperate(bp, batch))
	return cmd.Bytes()
}

func TestBatchDedupOfMatchingReads(t *testing.T) {
	bp := policy.NewBatchPolicy()
	rp := &policy.BatchReadPolicy{}

	deduped := encodeBatch(t, bp, []*BatchOperation{
		NewBatchRead(rp, batchKey(t, 1), types.SomeBins("x")),
		NewBatchRead(rp, batchKey(t, 2), types.SomeBins("x")),
		NewBatchDelete(&policy.BatchDeletePolicy{}, batchKey(t, 3)),
	})

	distinct := encodeBatch(t, bp, []*BatchOperation{
		NewBatchRead(rp, batchKey(t, 1), types.SomeBins("x")),
		NewBatchRead(rp, batchKey(t, 2), types.SomeBins("y")),
		NewBatchDelete(&policy.BatchDeletePolicy{}, batchKey(t, 3)),
	})

	assert.Less(t, len(deduped), len(distinct),
		"a matching header must drop the second op block")

	// message header and batch field preamble
	assert.Equal(t, uint8(wire.Info1Read|wire.Info1Batch), deduped[readAttrOffset])
	count := binary.BigEndian.Uint32(deduped[35:39])
	assert.Equal(t, uint32(3), count)
	assert.Equal(t, uint8(1), deduped[39], "allow inline")

	// record 0: index, digest, match flag 0, then a 23 byte read block
	// (5 byte sub-header, 9 byte namespace field, 9 byte read op)
	r0 := 40
	assert.Equal(t, uint32(0), binary.BigEndian.Uint32(deduped[r0:r0+4]))
	assert.Equal(t, uint8(0), deduped[r0+24])

	// record 1 matches record 0 and omits its block entirely
	r1 := r0 + 4 + 20 + 1 + 23
	assert.Equal(t, uint32(1), binary.BigEndian.Uint32(deduped[r1:r1+4]))
	assert.Equal(t, uint8(1), deduped[r1+24])

	// record 2 is a delete and must carry its own write block
	r2 := r1 + 4 + 20 + 1
	assert.Equal(t, uint32(2), binary.BigEndian.Uint32(deduped[r2:r2+4]))
	assert.Equal(t, uint8(0), deduped[r2+24])
	// its write sub-header leads with a zero read attr and the
	// write+delete attr byte
	assert.Equal(t, uint8(0), deduped[r2+25])
	assert.Equal(t,
		uint8(wire.Info2Write|wire.Info2RespondAllOps|wire.Info2Delete),
		deduped[r2+26])
}

func TestBatchDedupRequiresAdjacency(t *testing.T) {
	bp := policy.NewBatchPolicy()
	rp := &policy.BatchReadPolicy{}

	interleaved := encodeBatch(t, bp, []*BatchOperation{
		NewBatchRead(rp, batchKey(t, 1), types.SomeBins("x")),
		NewBatchDelete(&policy.BatchDeletePolicy{}, batchKey(t, 2)),
		NewBatchRead(rp, batchKey(t, 3), types.SomeBins("x")),
	})

	adjacent := encodeBatch(t, bp, []*BatchOperation{
		NewBatchRead(rp, batchKey(t, 1), types.SomeBins("x")),
		NewBatchRead(rp, batchKey(t, 3), types.SomeBins("x")),
		NewBatchDelete(&policy.BatchDeletePolicy{}, batchKey(t, 2)),
	})

	assert.Less(t, len(adjacent), len(interleaved))
}

func TestBatchDedupHonorsSetNames(t *testing.T) {
	rp := &policy.BatchReadPolicy{}
	k1 := batchKey(t, 1)
	k2, err := types.NewKey("test", "other", int64(2))
	require.NoError(t, err)

	records := func() []*BatchOperation {
		return []*BatchOperation{
			NewBatchRead(rp, k1, types.BinsAll()),
			NewBatchRead(rp, k2, types.BinsAll()),
		}
	}

	noSets := policy.NewBatchPolicy()
	withSets := policy.NewBatchPolicy()
	withSets.SendSetName = true

	// without set names the two reads share a header; with set names the
	// differing sets forbid the match, costing a second block
	small := encodeBatch(t, noSets, records())
	big := encodeBatch(t, withSets, records())
	assert.Less(t, len(small), len(big)-len("other")-wire.FieldHeaderSize,
		"second block must reappear, beyond the extra set fields")
}

func TestBatchReadShapesSetAttrs(t *testing.T) {
	rp := &policy.BatchReadPolicy{}

	frame := encodeBatch(t, policy.NewBatchPolicy(), []*BatchOperation{
		NewBatchRead(rp, batchKey(t, 1), types.BinsAll()),
	})
	// read block sub-header starts after index, digest, match flag
	attr := frame[40+25]
	assert.Equal(t, uint8(wire.Info1Read|wire.Info1GetAll), attr)

	frame = encodeBatch(t, policy.NewBatchPolicy(), []*BatchOperation{
		NewBatchRead(rp, batchKey(t, 1), types.BinsNone()),
	})
	assert.Equal(t, uint8(wire.Info1Read|wire.Info1NoBinData), frame[40+25])

	frame = encodeBatch(t, policy.NewBatchPolicy(), []*BatchOperation{
		NewBatchRead(rp, batchKey(t, 1), types.SomeBins("x")),
	})
	assert.Equal(t, uint8(wire.Info1Read), frame[40+25])
}

func TestBatchWriteRequiresAWriteOp(t *testing.T) {
	cmd := NewCommand()
	err := cmd.SetBatchOperate(policy.NewBatchPolicy(), []*BatchOperation{
		NewBatchWrite(&policy.BatchWritePolicy{}, batchKey(t, 1),
			operations.GetBinOp("a")),
	})
	require.Error(t, err)
	var encErr *types.EncodingError
	assert.ErrorAs(t, err, &encErr)
}

func TestBatchReadRejectsWriteOps(t *testing.T) {
	cmd := NewCommand()
	err := cmd.SetBatchOperate(policy.NewBatchPolicy(), []*BatchOperation{
		NewBatchReadOps(&policy.BatchReadPolicy{}, batchKey(t, 1),
			operations.PutOp(types.NewBin("a", 1))),
	})
	require.Error(t, err)
	var encErr *types.EncodingError
	assert.ErrorAs(t, err, &encErr)
}

func TestBatchMixedKindsEncode(t *testing.T) {
	bp := policy.NewBatchPolicy()
	batch := []*BatchOperation{
		NewBatchRead(&policy.BatchReadPolicy{}, batchKey(t, 1), types.BinsAll()),
		NewBatchWrite(&policy.BatchWritePolicy{}, batchKey(t, 2),
			operations.PutOp(types.NewBin("a", int64(1)))),
		NewBatchDelete(&policy.BatchDeletePolicy{}, batchKey(t, 3)),
		NewBatchUDF(&policy.BatchUDFPolicy{}, batchKey(t, 4),
			"pkg", "fn", types.ListValue{types.IntegerValue(1)}),
	}

	frame := encodeBatch(t, bp, batch)
	assert.Equal(t, uint32(4), binary.BigEndian.Uint32(frame[35:39]))

	assert.False(t, batch[0].HasWrite())
	assert.True(t, batch[1].HasWrite())
	assert.True(t, batch[3].HasWrite())
}

func TestMarkInDoubt(t *testing.T) {
	batch := []*BatchOperation{
		NewBatchRead(&policy.BatchReadPolicy{}, batchKey(t, 1), types.BinsAll()),
		NewBatchDelete(&policy.BatchDeletePolicy{}, batchKey(t, 2)),
	}

	MarkInDoubt(batch, true)
	assert.False(t, batch[0].Record().InDoubt, "reads are never in doubt")
	assert.True(t, batch[1].Record().InDoubt)
	assert.Equal(t, types.ResultTimeout, batch[1].Record().ResultCode)

	// a request that never left the client leaves nothing in doubt
	batch2 := []*BatchOperation{
		NewBatchDelete(&policy.BatchDeletePolicy{}, batchKey(t, 3)),
	}
	MarkInDoubt(batch2, false)
	assert.False(t, batch2[0].Record().InDoubt)
}

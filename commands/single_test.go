package commands

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeves-cluster-organization/aerowire/expressions"
	"github.com/jeeves-cluster-organization/aerowire/operations"
	"github.com/jeeves-cluster-organization/aerowire/policy"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// header offsets within a finished request frame.
const (
	readAttrOffset   = 9
	writeAttrOffset  = 10
	infoAttrOffset   = 11
	fieldCountOffset = 26
	opCountOffset    = 28
)

func testKey(t *testing.T) *types.Key {
	t.Helper()
	key, err := types.NewKey("test", "s", int64(42))
	require.NoError(t, err)
	return key
}

func fieldCountOf(frame []byte) uint16 {
	return binary.BigEndian.Uint16(frame[fieldCountOffset : fieldCountOffset+2])
}

func opCountOf(frame []byte) uint16 {
	return binary.BigEndian.Uint16(frame[opCountOffset : opCountOffset+2])
}

func bodyLenOf(frame []byte) int {
	return int(binary.BigEndian.Uint64(frame[0:8]) & 0xFFFFFFFFFFFF)
}

func TestSingleBinWrite(t *testing.T) {
	wp := policy.NewWritePolicy(0, policy.ExpirationNamespaceDefault)
	wp.SendKey = true

	cmd := NewCommand()
	err := cmd.SetWrite(wp, operations.OpWrite, testKey(t), []*types.Bin{
		types.NewBin("a", int64(7)),
	})
	require.NoError(t, err)
	frame := cmd.Bytes()

	// fields: ns(4)+set(1)+digest(20)+user key(8), each with a 5 byte
	// header, the key with one extra particle byte; ops: one 17 byte frame
	require.Len(t, frame, 101)

	assert.Equal(t, uint8(0x02), frame[0])
	assert.Equal(t, uint8(0x03), frame[1])
	assert.Equal(t, len(frame)-8, bodyLenOf(frame))

	assert.Equal(t, uint8(wire.RemainingHeaderSize), frame[8])
	assert.Equal(t, uint8(0), frame[readAttrOffset])
	assert.Equal(t, uint8(wire.Info2Write), frame[writeAttrOffset])
	assert.Equal(t, uint16(4), fieldCountOf(frame))
	assert.Equal(t, uint16(1), opCountOf(frame))

	// first field is the namespace
	assert.Equal(t, uint32(5), binary.BigEndian.Uint32(frame[30:34]))
	assert.Equal(t, uint8(wire.FieldNamespace), frame[34])
	assert.Equal(t, "test", string(frame[35:39]))
}

func TestReadByDigestNoBins(t *testing.T) {
	cmd := NewCommand()
	err := cmd.SetRead(policy.NewReadPolicy(), testKey(t), types.BinsNone())
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info1Read|wire.Info1NoBinData), frame[readAttrOffset])
	assert.Equal(t, uint8(0), frame[writeAttrOffset])
	assert.Equal(t, uint16(3), fieldCountOf(frame), "ns, set, digest; no user key")
	assert.Equal(t, uint16(1), opCountOf(frame), "one empty-name read op")
}

func TestReadAllBins(t *testing.T) {
	cmd := NewCommand()
	err := cmd.SetRead(policy.NewReadPolicy(), testKey(t), types.BinsAll())
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info1Read|wire.Info1GetAll), frame[readAttrOffset])
	assert.Equal(t, uint16(0), opCountOf(frame))
}

func TestReadNamedBins(t *testing.T) {
	cmd := NewCommand()
	err := cmd.SetRead(policy.NewReadPolicy(), testKey(t), types.SomeBins("a", "b"))
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info1Read), frame[readAttrOffset])
	assert.Equal(t, uint16(2), opCountOf(frame))
}

func TestDelete(t *testing.T) {
	cmd := NewCommand()
	err := cmd.SetDelete(policy.NewWritePolicy(0, 0), testKey(t))
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info2Write|wire.Info2Delete), frame[writeAttrOffset])
	assert.Equal(t, uint16(0), opCountOf(frame))
}

func TestExists(t *testing.T) {
	cmd := NewCommand()
	err := cmd.SetExists(policy.NewReadPolicy(), testKey(t))
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info1Read|wire.Info1NoBinData), frame[readAttrOffset])
	assert.Equal(t, uint16(0), opCountOf(frame))
}

func TestTouch(t *testing.T) {
	cmd := NewCommand()
	err := cmd.SetTouch(policy.NewWritePolicy(0, 0), testKey(t))
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info2Write), frame[writeAttrOffset])
	assert.Equal(t, uint16(1), opCountOf(frame))
}

func TestWritePolicyBits(t *testing.T) {
	wp := policy.NewWritePolicy(7, policy.Seconds(300))
	wp.RecordExistsAction = policy.CreateOnly
	wp.GenerationPolicy = policy.ExpectGenEqual
	wp.CommitLevel = policy.CommitMaster
	wp.DurableDelete = true

	cmd := NewCommand()
	err := cmd.SetWrite(wp, operations.OpWrite, testKey(t), []*types.Bin{
		types.NewBin("a", int64(1)),
	})
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t,
		uint8(wire.Info2Write|wire.Info2CreateOnly|wire.Info2Generation|wire.Info2DurableDelete),
		frame[writeAttrOffset])
	assert.Equal(t, uint8(wire.Info3CommitMaster), frame[infoAttrOffset])
	assert.Equal(t, uint32(7), binary.BigEndian.Uint32(frame[14:18]))
	assert.Equal(t, uint32(300), binary.BigEndian.Uint32(frame[18:22]))
}

func TestOperateDerivesAttributes(t *testing.T) {
	wp := policy.NewWritePolicy(0, 0)
	wp.RespondPerEachOp = true

	ops := []*operations.Operation{
		operations.ListAppendOp(operations.DefaultListPolicy(), "a", types.IntegerValue(5)),
		operations.GetBinOp("a"),
	}

	cmd := NewCommand()
	err := cmd.SetOperate(wp, testKey(t), ops)
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info1Read), frame[readAttrOffset])
	assert.Equal(t, uint8(wire.Info2Write|wire.Info2RespondAllOps), frame[writeAttrOffset])
	assert.Equal(t, uint16(2), opCountOf(frame))
}

func TestOperateMapOpForcesRespondAllOps(t *testing.T) {
	wp := policy.NewWritePolicy(0, 0)

	ops := []*operations.Operation{
		operations.MapPutOp(operations.DefaultMapPolicy(), "m",
			types.StringValue("k"), types.IntegerValue(1)),
	}

	cmd := NewCommand()
	err := cmd.SetOperate(wp, testKey(t), ops)
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.NotZero(t, frame[writeAttrOffset]&wire.Info2RespondAllOps)
}

func TestOperateReadOnlySkipsWriteHeader(t *testing.T) {
	wp := policy.NewWritePolicy(9, policy.Seconds(60))
	wp.GenerationPolicy = policy.ExpectGenEqual

	ops := []*operations.Operation{operations.GetOp()}

	cmd := NewCommand()
	err := cmd.SetOperate(wp, testKey(t), ops)
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info1Read|wire.Info1GetAll), frame[readAttrOffset])
	assert.Equal(t, uint8(0), frame[writeAttrOffset])
	// read-style header leaves generation and expiration untouched
	assert.Equal(t, uint32(0), binary.BigEndian.Uint32(frame[14:18]))
	assert.Equal(t, uint32(0), binary.BigEndian.Uint32(frame[18:22]))
}

func TestFilterExpressionField(t *testing.T) {
	wp := policy.NewWritePolicy(0, 0)
	wp.FilterExpression = expressions.Eq(
		expressions.IntBin("age"), expressions.IntVal(18))

	cmd := NewCommand()
	err := cmd.SetWrite(wp, operations.OpWrite, testKey(t), []*types.Bin{
		types.NewBin("a", int64(1)),
	})
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint16(4), fieldCountOf(frame), "ns, set, digest, filter")

	plain := NewCommand()
	wp2 := policy.NewWritePolicy(0, 0)
	require.NoError(t, plain.SetWrite(wp2, operations.OpWrite, testKey(t), []*types.Bin{
		types.NewBin("a", int64(1)),
	}))
	assert.Greater(t, len(frame), len(plain.Bytes()))
}

func TestUDFApply(t *testing.T) {
	cmd := NewCommand()
	err := cmd.SetUDF(policy.NewWritePolicy(0, 0), testKey(t),
		"pkg", "fn", types.ListValue{types.IntegerValue(1)})
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info2Write), frame[writeAttrOffset])
	assert.Equal(t, uint16(6), fieldCountOf(frame), "ns, set, digest, package, function, args")
	assert.Equal(t, uint16(0), opCountOf(frame))
}

func TestTimeoutSlotPatching(t *testing.T) {
	cmd := NewCommand()
	require.NoError(t, cmd.SetRead(policy.NewReadPolicy(), testKey(t), types.BinsAll()))

	frame := cmd.Bytes()
	assert.Equal(t, uint32(0), binary.BigEndian.Uint32(frame[22:26]))

	cmd.Buffer().PatchTimeout(250 * time.Millisecond)
	assert.Equal(t, uint32(250), binary.BigEndian.Uint32(frame[22:26]))
}

func TestBufferCapEnforcedAtCommandLevel(t *testing.T) {
	// overhead: 30 byte header, ns+set+digest fields, one op frame with a
	// one byte bin name
	key := testKey(t)
	overhead := wire.TotalHeaderSize +
		(wire.FieldHeaderSize + 4) + (wire.FieldHeaderSize + 1) +
		(wire.FieldHeaderSize + 20) +
		wire.OperationHeaderSize + 1

	fits := make([]byte, wire.MaxBufferSize-overhead)
	cmd := NewCommand()
	require.NoError(t, cmd.SetWrite(policy.NewWritePolicy(0, 0), operations.OpWrite, key,
		[]*types.Bin{types.NewBin("a", fits)}))
	assert.Len(t, cmd.Bytes(), wire.MaxBufferSize)

	tooBig := make([]byte, wire.MaxBufferSize-overhead+1)
	cmd = NewCommand()
	err := cmd.SetWrite(policy.NewWritePolicy(0, 0), operations.OpWrite, key,
		[]*types.Bin{types.NewBin("a", tooBig)})
	require.Error(t, err)
	var sizeErr *wire.BufferSizeError
	assert.ErrorAs(t, err, &sizeErr)
}

func TestWriteRejectsOversizedBinName(t *testing.T) {
	cmd := NewCommand()
	err := cmd.SetWrite(policy.NewWritePolicy(0, 0), operations.OpWrite, testKey(t),
		[]*types.Bin{types.NewBin("a-name-way-too-long-for-a-bin", 1)})
	require.Error(t, err)
	var encErr *types.EncodingError
	assert.ErrorAs(t, err, &encErr)
}

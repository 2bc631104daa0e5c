package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// encodeOp runs the two-phase contract for one operation and returns the
// complete op frame.
func encodeOp(t *testing.T, op *Operation) []byte {
	t.Helper()
	size, err := op.EstimateSize()
	require.NoError(t, err)

	buf := wire.NewBuffer()
	require.NoError(t, buf.Resize(size+wire.OperationHeaderSize))
	written, err := op.WriteTo(buf)
	require.NoError(t, err)
	require.Equal(t, size+wire.OperationHeaderSize, written)
	require.Equal(t, written, buf.DataOffset)
	return buf.Data
}

// payload strips the fixed op header and bin name from an encoded frame.
func payload(t *testing.T, op *Operation, frame []byte) []byte {
	t.Helper()
	return frame[wire.OperationHeaderSize+len(op.BinName()):]
}

func TestScalarOpFrame(t *testing.T) {
	op := PutOp(types.NewBin("a", int64(7)))
	frame := encodeOp(t, op)

	// length covers op type, particle, version, name length, name, value
	assert.Equal(t, []byte{0, 0, 0, 13}, frame[0:4])
	assert.Equal(t, uint8(OpWrite), frame[4])
	assert.Equal(t, uint8(types.ParticleInteger), frame[5])
	assert.Equal(t, uint8(0), frame[6])
	assert.Equal(t, uint8(1), frame[7])
	assert.Equal(t, uint8('a'), frame[8])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 7}, frame[9:17])
}

func TestReadOpShapes(t *testing.T) {
	all := GetOp()
	assert.True(t, all.IsBinAll())
	assert.True(t, all.IsRead())

	header := GetHeaderOp()
	assert.True(t, header.IsBinNone())

	named := GetBinOp("x")
	assert.Equal(t, "x", named.BinName())
	assert.False(t, named.IsWrite())

	frame := encodeOp(t, named)
	assert.Equal(t, uint8(OpRead), frame[4])
	assert.Equal(t, uint8(types.ParticleNull), frame[5])
}

func TestListAppendPayloadDefaultPolicy(t *testing.T) {
	op := ListAppendOp(DefaultListPolicy(), "a", types.IntegerValue(5))
	frame := encodeOp(t, op)

	assert.Equal(t, uint8(OpCDTWrite), frame[4])
	assert.Equal(t, uint8(types.ParticleBlob), frame[5])

	// without context: raw u16 op code, then the argument array
	want := []byte{
		0x00, 0x01, // Append
		0x93,       // three arguments
		0x05,       // value
		0x00, 0x00, // order, write flags
	}
	assert.Equal(t, want, payload(t, op, frame))
}

func TestContextPrefixFlipsArrayShape(t *testing.T) {
	bare := ListAppendOp(DefaultListPolicy(), "a", types.IntegerValue(9))
	barePayload := payload(t, bare, encodeOp(t, bare))
	// no context: the stream opens with the raw op code
	assert.Equal(t, []byte{0x00, 0x01}, barePayload[0:2])

	nested := bare.WithContext(CtxListIndex(2), CtxMapKey(types.StringValue("k")))
	nestedPayload := payload(t, nested, encodeOp(t, nested))

	want := []byte{
		0x93,             // [ctx marker, ctx pairs, op array]
		0xcc, 0xff,       // context marker
		0x94,             // two context elements, flattened
		0x10, 0x02,       // list index 2
		0x22,             // map key
		0xa2, 0x03, 'k',  // the key, particle tagged
		0x94,             // op array: op code plus three arguments
		0x01,             // Append
		0x09,             // value
		0x00, 0x00,       // order, write flags
	}
	assert.Equal(t, want, nestedPayload)
}

func TestContextCreateFlags(t *testing.T) {
	ctx := CtxListIndexCreate(0, ListOrdered, false)
	assert.Equal(t, uint8(0xc0), ctx.Flags)

	ctx = CtxListIndexCreate(0, ListUnordered, true)
	assert.Equal(t, uint8(0x80), ctx.Flags)

	ctx = CtxListIndexCreate(0, ListUnordered, false)
	assert.Equal(t, uint8(0x40), ctx.Flags)

	ctx = CtxMapKeyCreate(types.StringValue("k"), MapKeyOrdered)
	assert.Equal(t, uint8(0x80), ctx.Flags)
}

func TestMapOpDetection(t *testing.T) {
	mapOp := MapPutOp(DefaultMapPolicy(), "m", types.StringValue("k"), types.IntegerValue(1))
	assert.True(t, mapOp.IsMapOp())
	assert.True(t, mapOp.IsWrite())

	listOp := ListSizeOp("l")
	assert.False(t, listOp.IsMapOp())
	assert.True(t, listOp.IsRead())
}

func TestMapWriteModeSelectsOpCode(t *testing.T) {
	update := MapPutOp(DefaultMapPolicy(), "m", types.StringValue("k"), types.IntegerValue(1))
	assert.Equal(t, MapOpPut, update.cdt.op)

	replace := MapPutOp(MapPolicy{WriteMode: MapWriteUpdateOnly}, "m", types.StringValue("k"), types.IntegerValue(1))
	assert.Equal(t, MapOpReplace, replace.cdt.op)
	// update-only writes omit the order attribute
	assert.Len(t, replace.cdt.args, 2)

	create := MapPutOp(MapPolicy{WriteMode: MapWriteCreateOnly}, "m", types.StringValue("k"), types.IntegerValue(1))
	assert.Equal(t, MapOpAdd, create.cdt.op)
	assert.Len(t, create.cdt.args, 3)
}

func TestBitOpPutsContextBeforeOpArray(t *testing.T) {
	op := BitCountOp("b", 0, 8).WithContext(CtxListIndex(1))
	frame := encodeOp(t, op)
	p := payload(t, op, frame)

	want := []byte{
		0x93,       // context wrapper
		0xcc, 0xff, // context marker
		0x92,       // one context element, flattened
		0x10, 0x01, // list index 1
		0x93,       // op array: op code plus two arguments
		0x33,       // Count
		0x00, 0x08, // offset, size
	}
	assert.Equal(t, want, p)
}

func TestHLLIgnoresContext(t *testing.T) {
	plain := HLLGetCountOp("h")
	nested := HLLGetCountOp("h").WithContext(CtxListIndex(1))

	assert.Equal(t, encodeOp(t, plain), encodeOp(t, nested))
}

func TestHLLInitDefaultsMinHash(t *testing.T) {
	op := HLLInitOp(DefaultHLLPolicy(), "h", 10)
	p := payload(t, op, encodeOp(t, op))

	want := []byte{
		0x94, // op code plus three arguments
		0x00, // Init
		0x0a, // index bits
		0xff, // min hash bits -1
		0x00, // flags
	}
	assert.Equal(t, want, p)
}

func TestExpOpPayload(t *testing.T) {
	op := ExpReadOp("result", fakeExp{}, ExpReadEvalNoFail)
	frame := encodeOp(t, op)
	p := payload(t, op, frame)

	assert.Equal(t, uint8(OpExpRead), frame[4])
	assert.Equal(t, uint8(types.ParticleBlob), frame[5])
	// [expression blob, policy flags]
	assert.Equal(t, []byte{0x92, 0xc0, 0x10}, p)
}

// fakeExp packs a nil expression blob.
type fakeExp struct{}

func (fakeExp) PackExpression(buf *wire.Buffer) (int, error) {
	if buf != nil {
		buf.WriteUint8(0xc0)
	}
	return 1, nil
}

func TestEstimateMatchesWriteAcrossOps(t *testing.T) {
	ops := []*Operation{
		GetOp(),
		GetBinOp("b"),
		TouchOp(),
		DeleteOp(),
		PutOp(types.NewBin("s", "str")),
		AddOp(types.NewBin("n", int64(3))),
		ListAppendItemsOp(DefaultListPolicy(), "l", types.ListValue{types.IntegerValue(1), types.IntegerValue(2)}),
		ListGetByValueRangeOp("l", types.IntegerValue(1), types.IntegerValue(5), ListReturnValues),
		ListRemoveByRankRangeCountOp("l", 1, 2, ListReturnCount),
		MapPutItemsOp(DefaultMapPolicy(), "m", types.MapValue{types.StringValue("k"): types.IntegerValue(1)}),
		MapGetByKeyRangeOp("m", types.StringValue("a"), types.StringValue("z"), MapReturnKeyValue),
		BitSetOp(DefaultBitPolicy(), "b", 0, 8, []byte{0xff}),
		BitAddOp(DefaultBitPolicy(), "b", 0, 8, 1, true, BitOverflowWrap),
		HLLAddOp(DefaultHLLPolicy(), "h", types.ListValue{types.IntegerValue(1)}),
		HLLGetSimilarityOp("h", types.ListValue{types.HLLValue{1}}),
	}

	for _, op := range ops {
		encodeOp(t, op) // asserts estimate == write internally
	}
}

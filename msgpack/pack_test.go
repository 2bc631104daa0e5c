package msgpack

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// packBytes runs the dual-mode contract: size the value, write it into an
// exactly-sized buffer, and check both phases agree.
func packBytes(t *testing.T, v types.Value) []byte {
	t.Helper()
	size, err := PackValue(nil, v)
	require.NoError(t, err)

	buf := wire.NewBuffer()
	require.NoError(t, buf.Resize(size))
	written, err := PackValue(buf, v)
	require.NoError(t, err)
	require.Equal(t, size, written, "write phase must consume the estimated size")
	require.Equal(t, size, buf.DataOffset)
	return buf.Data
}

func TestPackIntegerMarkerBoundaries(t *testing.T) {
	cases := []struct {
		value int64
		bytes []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0xcc, 0x80}},
		{255, []byte{0xcc, 0xff}},
		{256, []byte{0xcd, 0x01, 0x00}},
		{0x7fff, []byte{0xcd, 0x7f, 0xff}},
		{0x8000, []byte{0xcd, 0x80, 0x00}},
		{0xffff, []byte{0xcd, 0xff, 0xff}},
		{0x10000, []byte{0xce, 0x00, 0x01, 0x00, 0x00}},
		{0x7fffffff, []byte{0xce, 0x7f, 0xff, 0xff, 0xff}},
		{0x80000000, []byte{0xce, 0x80, 0x00, 0x00, 0x00}},
		{0x100000000, []byte{0xcf, 0, 0, 0, 1, 0, 0, 0, 0}},
		{-1, []byte{0xff}},
		{-32, []byte{0xe0}},
		{-33, []byte{0xd0, 0xdf}},
		{-128, []byte{0xd0, 0x80}},
		{-129, []byte{0xd1, 0xff, 0x7f}},
		{-0x8000, []byte{0xd1, 0x80, 0x00}},
		{-0x8001, []byte{0xd2, 0xff, 0xff, 0x7f, 0xff}},
		{-0x80000000, []byte{0xd2, 0x80, 0x00, 0x00, 0x00}},
		{-0x80000001, []byte{0xd3, 0xff, 0xff, 0xff, 0xff, 0x7f, 0xff, 0xff, 0xff}},
	}

	for _, tc := range cases {
		got := packBytes(t, types.IntegerValue(tc.value))
		assert.Equalf(t, tc.bytes, got, "value %d", tc.value)
	}
}

func TestPackStringCarriesParticleTag(t *testing.T) {
	got := packBytes(t, types.StringValue("age"))
	// fixstr of length 4: particle tag plus three payload bytes
	assert.Equal(t, []byte{0xa4, 0x03, 'a', 'g', 'e'}, got)
}

func TestPackBlobCarriesParticleTag(t *testing.T) {
	got := packBytes(t, types.BlobValue{1, 2})
	assert.Equal(t, []byte{0xa3, 0x04, 1, 2}, got)
}

func TestPackGeoJSONCarriesParticleTag(t *testing.T) {
	got := packBytes(t, types.GeoJSONValue("{}"))
	assert.Equal(t, []byte{0xa3, 0x17, '{', '}'}, got)
}

func TestPackRawStringHasNoTag(t *testing.T) {
	size := PackRawString(nil, "age")
	buf := wire.NewBuffer()
	require.NoError(t, buf.Resize(size))
	written := PackRawString(buf, "age")
	require.Equal(t, size, written)
	assert.Equal(t, []byte{0xa3, 'a', 'g', 'e'}, buf.Data)
}

func TestPackRawU16(t *testing.T) {
	buf := wire.NewBuffer()
	require.NoError(t, buf.Resize(2))
	assert.Equal(t, 2, PackRawU16(buf, 67))
	assert.Equal(t, []byte{0x00, 0x43}, buf.Data)
}

func TestArrayHeaderBoundaries(t *testing.T) {
	assert.Equal(t, 1, PackArrayBegin(nil, 15))
	assert.Equal(t, 3, PackArrayBegin(nil, 16))
	assert.Equal(t, 3, PackArrayBegin(nil, 1<<16-1))
	assert.Equal(t, 5, PackArrayBegin(nil, 1<<16))

	buf := wire.NewBuffer()
	require.NoError(t, buf.Resize(1))
	PackArrayBegin(buf, 3)
	assert.Equal(t, []byte{0x93}, buf.Data)
}

func TestMapHeaderBoundaries(t *testing.T) {
	assert.Equal(t, 1, PackMapBegin(nil, 15))
	assert.Equal(t, 3, PackMapBegin(nil, 16))

	buf := wire.NewBuffer()
	require.NoError(t, buf.Resize(1))
	PackMapBegin(buf, 2)
	assert.Equal(t, []byte{0x82}, buf.Data)
}

func TestOrderedMapRejected(t *testing.T) {
	ordered := types.OrderedMapValue{
		{Key: types.IntegerValue(1), Value: types.StringValue("a")},
	}
	_, err := PackValue(nil, ordered)
	require.Error(t, err)
	var encErr *types.EncodingError
	assert.ErrorAs(t, err, &encErr)

	_, err = EstimateValue(ordered)
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	values := []types.Value{
		types.NullValue{},
		types.BoolValue(true),
		types.BoolValue(false),
		types.IntegerValue(0),
		types.IntegerValue(-33),
		types.IntegerValue(1 << 40),
		types.FloatValue(2.75),
		types.Float32Value(1.5),
		types.StringValue("hello"),
		types.BlobValue{0, 1, 2, 3},
		types.GeoJSONValue(`{"type":"Point"}`),
		types.ListValue{
			types.IntegerValue(1),
			types.StringValue("two"),
			types.ListValue{types.IntegerValue(3)},
		},
		types.MapValue{
			types.StringValue("k"): types.IntegerValue(9),
			types.IntegerValue(5):  types.ListValue{types.BoolValue(true)},
		},
	}

	for _, v := range values {
		data := packBytes(t, v)

		buf := wire.NewBuffer()
		require.NoError(t, buf.Resize(len(data)))
		copy(buf.Data, data)
		buf.ResetOffset()

		got, err := UnpackValue(buf)
		require.NoErrorf(t, err, "value %v", v)
		assert.Emptyf(t, cmp.Diff(v, got), "value %v", v)
		assert.Equal(t, len(data), buf.DataOffset, "decoder must consume the full encoding")
	}
}

func TestBinValueDualMode(t *testing.T) {
	values := []types.Value{
		types.NullValue{},
		types.BoolValue(true),
		types.IntegerValue(7),
		types.UintValue(1 << 63),
		types.FloatValue(0.5),
		types.Float32Value(2),
		types.StringValue("s"),
		types.BlobValue{9},
		types.HLLValue{1, 2, 3},
		types.GeoJSONValue("{}"),
		types.ListValue{types.IntegerValue(1)},
		types.MapValue{types.StringValue("k"): types.IntegerValue(1)},
	}

	for _, v := range values {
		size, err := EstimateValue(v)
		require.NoError(t, err)

		buf := wire.NewBuffer()
		require.NoError(t, buf.Resize(size))
		written, err := WriteValue(buf, v)
		require.NoErrorf(t, err, "value %v", v)
		assert.Equalf(t, size, written, "value %v", v)
		assert.Equal(t, size, buf.DataOffset)
	}
}

func TestBinIntegerIsEightByteBigEndian(t *testing.T) {
	buf := wire.NewBuffer()
	require.NoError(t, buf.Resize(8))
	_, err := WriteValue(buf, types.IntegerValue(7))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 7}, buf.Data)
}

func TestBytesToParticleList(t *testing.T) {
	v := types.ListValue{types.IntegerValue(1), types.IntegerValue(2)}
	data := packBytes(t, v)

	buf := wire.NewBuffer()
	require.NoError(t, buf.Resize(len(data)))
	copy(buf.Data, data)
	buf.ResetOffset()

	got, err := BytesToParticle(types.ParticleList, buf, len(data))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(v, got))
}

func TestBytesToParticleLengthChecks(t *testing.T) {
	buf := wire.NewBuffer()
	require.NoError(t, buf.Resize(4))

	_, err := BytesToParticle(types.ParticleInteger, buf, 4)
	require.Error(t, err)
	var parseErr *types.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

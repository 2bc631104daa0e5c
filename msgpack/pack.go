// Package msgpack implements the wire value codec: a MsgPack-compatible
// packer with the protocol's non-standard extensions (particle-type tagged
// strings, raw CDT op codes), the inverse unpacker, and the plain bin-value
// framing used outside CDT argument streams.
//
// Every pack function is dual-mode: when buf is nil it only returns the size
// the write would consume, touching no memory; when buf is non-nil it writes
// exactly that many bytes at the buffer cursor. Callers run the same
// computation twice in the same order, sizing the buffer from phase one and
// filling it in phase two.
package msgpack

import (
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// MsgPack markers.
const (
	markerNil       = 0xc0
	markerBoolFalse = 0xc2
	markerBoolTrue  = 0xc3

	markerUint8  = 0xcc
	markerUint16 = 0xcd
	markerUint32 = 0xce
	markerUint64 = 0xcf

	markerInt8  = 0xd0
	markerInt16 = 0xd1
	markerInt32 = 0xd2
	markerInt64 = 0xd3

	markerFloat32 = 0xca
	markerFloat64 = 0xcb
)

// PackValue encodes a value in CDT argument framing. Strings, blobs, and
// GeoJSON carry a leading particle-type byte inside the msgpack string
// payload; that byte is how the server's CDT engine tells them apart.
func PackValue(buf *wire.Buffer, v types.Value) (int, error) {
	switch val := v.(type) {
	case nil, types.NullValue:
		return PackNil(buf), nil
	case types.BoolValue:
		return PackBool(buf, bool(val)), nil
	case types.IntegerValue:
		return PackInt64(buf, int64(val)), nil
	case types.UintValue:
		return PackUint64(buf, uint64(val)), nil
	case types.FloatValue:
		return PackFloat64(buf, float64(val)), nil
	case types.Float32Value:
		return PackFloat32(buf, float32(val)), nil
	case types.StringValue:
		return PackString(buf, string(val)), nil
	case types.BlobValue:
		return PackBlob(buf, val), nil
	case types.HLLValue:
		return PackBlob(buf, val), nil
	case types.GeoJSONValue:
		return PackGeoJSON(buf, string(val)), nil
	case types.ListValue:
		return PackList(buf, val)
	case types.MapValue:
		return PackMap(buf, val)
	case types.OrderedMapValue:
		return 0, types.NewEncodingError("ordered maps are not packable")
	}
	return 0, types.NewEncodingError("unsupported value kind " + v.ParticleType().String())
}

// PackList encodes a list value.
func PackList(buf *wire.Buffer, list types.ListValue) (int, error) {
	size := PackArrayBegin(buf, len(list))
	for _, v := range list {
		n, err := PackValue(buf, v)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

// PackMap encodes an unordered map value.
func PackMap(buf *wire.Buffer, m types.MapValue) (int, error) {
	size := PackMapBegin(buf, len(m))
	for k, v := range m {
		n, err := PackValue(buf, k)
		if err != nil {
			return 0, err
		}
		size += n
		n, err = PackValue(buf, v)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

// PackEmptyArgsArray encodes a zero-element argument array.
func PackEmptyArgsArray(buf *wire.Buffer) int {
	return PackArrayBegin(buf, 0)
}

// PackRawU16 writes a bare big-endian CDT op code. This shape is not
// MsgPack; it only appears on the aerospike client/server wire.
func PackRawU16(buf *wire.Buffer, v uint16) int {
	if buf != nil {
		buf.WriteUint16(v)
	}
	return 2
}

// PackHalfByte writes a single marker byte.
func PackHalfByte(buf *wire.Buffer, v uint8) int {
	if buf != nil {
		buf.WriteUint8(v)
	}
	return 1
}

// PackNil encodes nil.
func PackNil(buf *wire.Buffer) int {
	return PackHalfByte(buf, markerNil)
}

// PackBool encodes a boolean.
func PackBool(buf *wire.Buffer, v bool) int {
	if v {
		return PackHalfByte(buf, markerBoolTrue)
	}
	return PackHalfByte(buf, markerBoolFalse)
}

// PackMapBegin encodes a map header for length pairs.
func PackMapBegin(buf *wire.Buffer, length int) int {
	switch {
	case length < 16:
		return PackHalfByte(buf, 0x80|uint8(length))
	case length < 1<<16:
		return packTypeUint16(buf, 0xde, uint16(length))
	default:
		return packTypeUint32(buf, 0xdf, uint32(length))
	}
}

// PackArrayBegin encodes an array header for length elements.
func PackArrayBegin(buf *wire.Buffer, length int) int {
	switch {
	case length < 16:
		return PackHalfByte(buf, 0x90|uint8(length))
	case length < 1<<16:
		return packTypeUint16(buf, 0xdc, uint16(length))
	default:
		return packTypeUint32(buf, 0xdd, uint32(length))
	}
}

// PackStringBegin encodes a string-family header for length payload bytes.
func PackStringBegin(buf *wire.Buffer, length int) int {
	switch {
	case length < 32:
		return PackHalfByte(buf, 0xa0|uint8(length))
	case length < 1<<16:
		return packTypeUint16(buf, 0xda, uint16(length))
	default:
		return packTypeUint32(buf, 0xdb, uint32(length))
	}
}

// PackString encodes a string with its particle-type tag.
func PackString(buf *wire.Buffer, v string) int {
	size := len(v) + 1
	size += PackStringBegin(buf, size)
	if buf != nil {
		buf.WriteUint8(uint8(types.ParticleString))
		buf.WriteString(v)
	}
	return size
}

// PackBlob encodes a byte array with its particle-type tag.
func PackBlob(buf *wire.Buffer, v []byte) int {
	size := len(v) + 1
	size += PackStringBegin(buf, size)
	if buf != nil {
		buf.WriteUint8(uint8(types.ParticleBlob))
		buf.WriteBytes(v)
	}
	return size
}

// PackGeoJSON encodes a GeoJSON document with its particle-type tag.
func PackGeoJSON(buf *wire.Buffer, v string) int {
	size := len(v) + 1
	size += PackStringBegin(buf, size)
	if buf != nil {
		buf.WriteUint8(uint8(types.ParticleGeoJSON))
		buf.WriteString(v)
	}
	return size
}

// PackRawString encodes a string with no particle-type tag. Filter
// expressions use this where the server parses strings positionally.
func PackRawString(buf *wire.Buffer, v string) int {
	size := len(v)
	size += PackStringBegin(buf, size)
	if buf != nil {
		buf.WriteString(v)
	}
	return size
}

// PackInt64 encodes a signed integer in the smallest container that holds
// it.
func PackInt64(buf *wire.Buffer, v int64) int {
	switch {
	case v >= 0:
		return PackUint64(buf, uint64(v))
	case v >= -32:
		return PackHalfByte(buf, 0xe0|uint8(v+32))
	case v >= -(1 << 7):
		if buf != nil {
			buf.WriteUint8(markerInt8)
			buf.WriteInt8(int8(v))
		}
		return 2
	case v >= -(1 << 15):
		if buf != nil {
			buf.WriteUint8(markerInt16)
			buf.WriteInt16(int16(v))
		}
		return 3
	case v >= -(1 << 31):
		if buf != nil {
			buf.WriteUint8(markerInt32)
			buf.WriteInt32(int32(v))
		}
		return 5
	default:
		if buf != nil {
			buf.WriteUint8(markerInt64)
			buf.WriteInt64(v)
		}
		return 9
	}
}

// PackUint64 encodes an unsigned integer in the smallest container that
// holds it.
func PackUint64(buf *wire.Buffer, v uint64) int {
	switch {
	case v < 1<<7:
		return PackHalfByte(buf, uint8(v))
	case v < 1<<8:
		if buf != nil {
			buf.WriteUint8(markerUint8)
			buf.WriteUint8(uint8(v))
		}
		return 2
	case v < 1<<16:
		return packTypeUint16(buf, markerUint16, uint16(v))
	case v < 1<<32:
		return packTypeUint32(buf, markerUint32, uint32(v))
	default:
		if buf != nil {
			buf.WriteUint8(markerUint64)
			buf.WriteUint64(v)
		}
		return 9
	}
}

// PackFloat32 encodes an IEEE-754 single.
func PackFloat32(buf *wire.Buffer, v float32) int {
	if buf != nil {
		buf.WriteUint8(markerFloat32)
		buf.WriteFloat32(v)
	}
	return 5
}

// PackFloat64 encodes an IEEE-754 double.
func PackFloat64(buf *wire.Buffer, v float64) int {
	if buf != nil {
		buf.WriteUint8(markerFloat64)
		buf.WriteFloat64(v)
	}
	return 9
}

func packTypeUint16(buf *wire.Buffer, marker uint8, v uint16) int {
	if buf != nil {
		buf.WriteUint8(marker)
		buf.WriteUint16(v)
	}
	return 3
}

func packTypeUint32(buf *wire.Buffer, marker uint8, v uint32) int {
	if buf != nil {
		buf.WriteUint8(marker)
		buf.WriteUint32(v)
	}
	return 5
}

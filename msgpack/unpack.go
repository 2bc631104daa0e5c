package msgpack

import (
	"fmt"

	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// UnpackValue decodes one msgpack value at the buffer cursor, materializing
// the nested Value tree. It reverses PackValue except for two variants:
// a UintValue below 2^63 decodes as an IntegerValue, and an HLLValue, which
// PackValue writes with the blob tag, decodes as a BlobValue.
func UnpackValue(buf *wire.Buffer) (types.Value, error) {
	marker := buf.ReadUint8()

	switch {
	case marker <= 0x7f: // positive fixint
		return types.IntegerValue(marker), nil
	case marker >= 0xe0: // negative fixint
		return types.IntegerValue(int8(marker)), nil
	case marker >= 0x80 && marker <= 0x8f: // fixmap
		return unpackMap(buf, int(marker&0x0f))
	case marker >= 0x90 && marker <= 0x9f: // fixarray
		return unpackList(buf, int(marker&0x0f))
	case marker >= 0xa0 && marker <= 0xbf: // fixstr
		return unpackBlob(buf, int(marker&0x1f))
	}

	switch marker {
	case markerNil:
		return types.NullValue{}, nil
	case markerBoolFalse:
		return types.BoolValue(false), nil
	case markerBoolTrue:
		return types.BoolValue(true), nil
	case markerUint8:
		return types.IntegerValue(buf.ReadUint8()), nil
	case markerUint16:
		return types.IntegerValue(buf.ReadUint16()), nil
	case markerUint32:
		return types.IntegerValue(buf.ReadUint32()), nil
	case markerUint64:
		v := buf.ReadUint64()
		if v > 1<<63-1 {
			return types.UintValue(v), nil
		}
		return types.IntegerValue(v), nil
	case markerInt8:
		return types.IntegerValue(buf.ReadInt8()), nil
	case markerInt16:
		return types.IntegerValue(buf.ReadInt16()), nil
	case markerInt32:
		return types.IntegerValue(buf.ReadInt32()), nil
	case markerInt64:
		return types.IntegerValue(buf.ReadInt64()), nil
	case markerFloat32:
		return types.Float32Value(buf.ReadFloat32()), nil
	case markerFloat64:
		return types.FloatValue(buf.ReadFloat64()), nil
	case 0xd9: // str 8
		return unpackBlob(buf, int(buf.ReadUint8()))
	case 0xda: // str 16
		return unpackBlob(buf, int(buf.ReadUint16()))
	case 0xdb: // str 32
		return unpackBlob(buf, int(buf.ReadUint32()))
	case 0xc4: // bin 8
		return types.BlobValue(buf.ReadBlob(int(buf.ReadUint8()))), nil
	case 0xc5: // bin 16
		return types.BlobValue(buf.ReadBlob(int(buf.ReadUint16()))), nil
	case 0xc6: // bin 32
		return types.BlobValue(buf.ReadBlob(int(buf.ReadUint32()))), nil
	case 0xdc: // array 16
		return unpackList(buf, int(buf.ReadUint16()))
	case 0xdd: // array 32
		return unpackList(buf, int(buf.ReadUint32()))
	case 0xde: // map 16
		return unpackMap(buf, int(buf.ReadUint16()))
	case 0xdf: // map 32
		return unpackMap(buf, int(buf.ReadUint32()))
	}

	if skipExt(buf, marker) {
		return types.NullValue{}, nil
	}
	return nil, types.NewParseError(fmt.Sprintf("unknown msgpack marker 0x%02x", marker))
}

// unpackBlob reads a string-family payload. The first payload byte is the
// particle-type tag distinguishing string from blob from geo.
func unpackBlob(buf *wire.Buffer, length int) (types.Value, error) {
	if length == 0 {
		return types.StringValue(""), nil
	}
	ptype := types.ParticleType(buf.ReadUint8())
	length--

	switch ptype {
	case types.ParticleString:
		return types.StringValue(buf.ReadString(length)), nil
	case types.ParticleBlob:
		return types.BlobValue(buf.ReadBlob(length)), nil
	case types.ParticleGeoJSON:
		return types.GeoJSONValue(buf.ReadString(length)), nil
	}
	return nil, types.NewParseError(fmt.Sprintf("unknown string particle tag %d", ptype))
}

func unpackList(buf *wire.Buffer, count int) (types.Value, error) {
	list := make(types.ListValue, 0, count)
	for i := 0; i < count; i++ {
		v, err := UnpackValue(buf)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}

// unpackMap reads count key/value pairs. Ordered maps arrive with a leading
// ext-marker pair carrying the order flags; the pair is dropped and the
// entries are returned as a plain map.
func unpackMap(buf *wire.Buffer, count int) (types.Value, error) {
	m := make(types.MapValue, count)
	for i := 0; i < count; i++ {
		if isExtMarker(buf.Peek()) {
			marker := buf.ReadUint8()
			skipExt(buf, marker)
			if _, err := UnpackValue(buf); err != nil {
				return nil, err
			}
			continue
		}
		k, err := UnpackValue(buf)
		if err != nil {
			return nil, err
		}
		v, err := UnpackValue(buf)
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}

func isExtMarker(marker uint8) bool {
	return (marker >= 0xc7 && marker <= 0xc9) || (marker >= 0xd4 && marker <= 0xd8)
}

// skipExt consumes the body of an ext value and reports whether the marker
// was an ext marker at all.
func skipExt(buf *wire.Buffer, marker uint8) bool {
	switch marker {
	case 0xd4:
		buf.Skip(2)
	case 0xd5:
		buf.Skip(3)
	case 0xd6:
		buf.Skip(5)
	case 0xd7:
		buf.Skip(9)
	case 0xd8:
		buf.Skip(17)
	case 0xc7:
		n := int(buf.ReadUint8())
		buf.Skip(n + 1)
	case 0xc8:
		n := int(buf.ReadUint16())
		buf.Skip(n + 1)
	case 0xc9:
		n := int(buf.ReadUint32())
		buf.Skip(n + 1)
	default:
		return false
	}
	return true
}

package msgpack

import (
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// Bin-value framing. When a value is the payload of a bin write it is
// emitted as raw particle bytes; the length is implicit in the surrounding
// op header, and collection values fall back to their CDT encoding.

// EstimateValue returns the number of bytes WriteValue will emit for v.
func EstimateValue(v types.Value) (int, error) {
	switch val := v.(type) {
	case nil, types.NullValue:
		return 0, nil
	case types.BoolValue:
		return 1, nil
	case types.IntegerValue, types.UintValue:
		return 8, nil
	case types.FloatValue:
		return 8, nil
	case types.Float32Value:
		return 4, nil
	case types.StringValue:
		return len(val), nil
	case types.BlobValue:
		return len(val), nil
	case types.HLLValue:
		return len(val), nil
	case types.GeoJSONValue:
		return len(val) + 3, nil
	case types.ListValue:
		return PackList(nil, val)
	case types.MapValue:
		return PackMap(nil, val)
	case types.OrderedMapValue:
		return 0, types.NewEncodingError("ordered maps are not packable")
	}
	return 0, types.NewEncodingError("unsupported value kind " + v.ParticleType().String())
}

// WriteValue appends v's particle bytes at the buffer cursor and returns
// the bytes written. The write length always equals the preceding
// EstimateValue for the same value.
func WriteValue(buf *wire.Buffer, v types.Value) (int, error) {
	switch val := v.(type) {
	case nil, types.NullValue:
		return 0, nil
	case types.BoolValue:
		if val {
			return buf.WriteUint8(1), nil
		}
		return buf.WriteUint8(0), nil
	case types.IntegerValue:
		return buf.WriteInt64(int64(val)), nil
	case types.UintValue:
		return buf.WriteUint64(uint64(val)), nil
	case types.FloatValue:
		return buf.WriteFloat64(float64(val)), nil
	case types.Float32Value:
		return buf.WriteFloat32(float32(val)), nil
	case types.StringValue:
		return buf.WriteString(string(val)), nil
	case types.BlobValue:
		return buf.WriteBytes(val), nil
	case types.HLLValue:
		return buf.WriteBytes(val), nil
	case types.GeoJSONValue:
		return buf.WriteGeoJSON(string(val)), nil
	case types.ListValue:
		return PackList(buf, val)
	case types.MapValue:
		return PackMap(buf, val)
	case types.OrderedMapValue:
		return 0, types.NewEncodingError("ordered maps are not packable")
	}
	return 0, types.NewEncodingError("unsupported value kind " + v.ParticleType().String())
}

// BytesToParticle decodes length bytes at the buffer cursor according to
// the particle type from the surrounding op header.
func BytesToParticle(ptype types.ParticleType, buf *wire.Buffer, length int) (types.Value, error) {
	switch ptype {
	case types.ParticleNull:
		buf.Skip(length)
		return types.NullValue{}, nil
	case types.ParticleInteger:
		if length != 8 {
			return nil, types.NewParseError("integer particle with length != 8")
		}
		return types.IntegerValue(buf.ReadInt64()), nil
	case types.ParticleFloat:
		switch length {
		case 8:
			return types.FloatValue(buf.ReadFloat64()), nil
		case 4:
			return types.Float32Value(buf.ReadFloat32()), nil
		}
		return nil, types.NewParseError("float particle with unexpected length")
	case types.ParticleBool:
		if length != 1 {
			return nil, types.NewParseError("bool particle with length != 1")
		}
		return types.BoolValue(buf.ReadUint8() != 0), nil
	case types.ParticleString:
		return types.StringValue(buf.ReadString(length)), nil
	case types.ParticleBlob:
		return types.BlobValue(buf.ReadBlob(length)), nil
	case types.ParticleHLL:
		return types.HLLValue(buf.ReadBlob(length)), nil
	case types.ParticleGeoJSON:
		// flags byte plus a two byte cell count precede the JSON text.
		if length < 3 {
			return nil, types.NewParseError("geojson particle too short")
		}
		buf.Skip(3)
		return types.GeoJSONValue(buf.ReadString(length - 3)), nil
	case types.ParticleList, types.ParticleMap:
		return UnpackValue(buf)
	}
	return nil, types.NewParseError("unknown particle type " + ptype.String())
}

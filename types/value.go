package types

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is the tagged union of protocol value kinds. Values are immutable
// once constructed and may be shared across concurrent commands; the
// encoding layers reference them without copying for the duration of one
// command build.
//
// Encoding lives in the msgpack package: bin-value framing via WriteValue,
// CDT argument framing via PackValue.
type Value interface {
	// ParticleType returns the on-wire type tag used in bin-value framing.
	ParticleType() ParticleType
	// String renders the value for logs and error messages.
	String() string
}

// NullValue is the nil value.
type NullValue struct{}

// ParticleType implements Value.
func (NullValue) ParticleType() ParticleType { return ParticleNull }

func (NullValue) String() string { return "<nil>" }

// BoolValue is a boolean value.
type BoolValue bool

// ParticleType implements Value.
func (BoolValue) ParticleType() ParticleType { return ParticleBool }

func (v BoolValue) String() string { return strconv.FormatBool(bool(v)) }

// IntegerValue is a signed 64 bit integer value.
type IntegerValue int64

// ParticleType implements Value.
func (IntegerValue) ParticleType() ParticleType { return ParticleInteger }

func (v IntegerValue) String() string { return strconv.FormatInt(int64(v), 10) }

// UintValue is an unsigned 64 bit integer value. It shares the integer
// particle type; values above the int64 range are transported as their
// two's-complement bit pattern.
type UintValue uint64

// ParticleType implements Value.
func (UintValue) ParticleType() ParticleType { return ParticleInteger }

func (v UintValue) String() string { return strconv.FormatUint(uint64(v), 10) }

// FloatValue is an IEEE-754 double value.
type FloatValue float64

// ParticleType implements Value.
func (FloatValue) ParticleType() ParticleType { return ParticleFloat }

func (v FloatValue) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// Float32Value is an IEEE-754 single value. It shares the float particle
// type but occupies four bytes in bin-value framing.
type Float32Value float32

// ParticleType implements Value.
func (Float32Value) ParticleType() ParticleType { return ParticleFloat }

func (v Float32Value) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }

// StringValue is a UTF-8 string value.
type StringValue string

// ParticleType implements Value.
func (StringValue) ParticleType() ParticleType { return ParticleString }

func (v StringValue) String() string { return string(v) }

// BlobValue is an opaque byte array value.
type BlobValue []byte

// ParticleType implements Value.
func (BlobValue) ParticleType() ParticleType { return ParticleBlob }

func (v BlobValue) String() string { return hex.EncodeToString(v) }

// HLLValue is a HyperLogLog register blob. It shares the blob wire shape but
// carries its own particle type.
type HLLValue []byte

// ParticleType implements Value.
func (HLLValue) ParticleType() ParticleType { return ParticleHLL }

func (v HLLValue) String() string { return hex.EncodeToString(v) }

// GeoJSONValue is a GeoJSON document value.
type GeoJSONValue string

// ParticleType implements Value.
func (GeoJSONValue) ParticleType() ParticleType { return ParticleGeoJSON }

func (v GeoJSONValue) String() string { return string(v) }

// ListValue is an ordered collection of values.
type ListValue []Value

// ParticleType implements Value.
func (ListValue) ParticleType() ParticleType { return ParticleList }

func (v ListValue) String() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapValue is an unordered collection of key/value pairs. Keys must be
// scalar values.
type MapValue map[Value]Value

// ParticleType implements Value.
func (MapValue) ParticleType() ParticleType { return ParticleMap }

func (v MapValue) String() string {
	parts := make([]string, 0, len(v))
	for k, e := range v {
		parts = append(parts, k.String()+": "+e.String())
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}

// MapPair is one entry of an ordered map value.
type MapPair struct {
	Key   Value
	Value Value
}

// OrderedMapValue is a key-ordered map. Ordering is maintained only by the
// server; clients never emit ordered-map values, and the packer rejects
// them.
type OrderedMapValue []MapPair

// ParticleType implements Value.
func (OrderedMapValue) ParticleType() ParticleType { return ParticleMap }

func (v OrderedMapValue) String() string {
	parts := make([]string, len(v))
	for i, p := range v {
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// NewValue converts a native Go value into its protocol Value. It panics on
// unsupported types, which are programmer errors caught in development.
func NewValue(v any) Value {
	switch val := v.(type) {
	case nil:
		return NullValue{}
	case Value:
		return val
	case bool:
		return BoolValue(val)
	case int:
		return IntegerValue(val)
	case int8:
		return IntegerValue(val)
	case int16:
		return IntegerValue(val)
	case int32:
		return IntegerValue(val)
	case int64:
		return IntegerValue(val)
	case uint:
		return UintValue(val)
	case uint8:
		return IntegerValue(val)
	case uint16:
		return IntegerValue(val)
	case uint32:
		return IntegerValue(val)
	case uint64:
		return UintValue(val)
	case float32:
		return Float32Value(val)
	case float64:
		return FloatValue(val)
	case string:
		return StringValue(val)
	case []byte:
		return BlobValue(val)
	case []any:
		list := make(ListValue, len(val))
		for i, e := range val {
			list[i] = NewValue(e)
		}
		return list
	case []Value:
		return ListValue(val)
	case map[any]any:
		m := make(MapValue, len(val))
		for k, e := range val {
			m[NewValue(k)] = NewValue(e)
		}
		return m
	case map[Value]Value:
		return MapValue(val)
	}
	panic(fmt.Sprintf("unsupported value type %T", v))
}

// NewListValue converts a slice of native Go values into a ListValue.
func NewListValue(items ...any) ListValue {
	list := make(ListValue, len(items))
	for i, e := range items {
		list[i] = NewValue(e)
	}
	return list
}

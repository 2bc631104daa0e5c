package operations

import (
	"github.com/jeeves-cluster-organization/aerowire/types"
)

// Context path element ids. The id encodes the lookup kind; flags carry the
// list-order, pad, and map-order bits used when the path must create missing
// intermediate containers.
const (
	ctxTypeListIndex uint8 = 0x10
	ctxTypeListRank  uint8 = 0x11
	ctxTypeListValue uint8 = 0x13
	ctxTypeMapIndex  uint8 = 0x20
	ctxTypeMapRank   uint8 = 0x21
	ctxTypeMapKey    uint8 = 0x22
	ctxTypeMapValue  uint8 = 0x23
)

// CDTContext is one element of a context path addressing a nested position
// inside a top-level collection bin. An ordered sequence of elements
// identifies the list or map the operation applies to, one nesting level
// per element.
type CDTContext struct {
	// ID is the element kind.
	ID uint8
	// Flags carries creation attributes, or zero for pure lookup.
	Flags uint8
	// Value is the index, rank, key, or probe value.
	Value types.Value
}

// CtxListIndex looks up a list element by index offset. Negative indexes
// resolve backwards from the end of the list.
func CtxListIndex(index int64) CDTContext {
	return CDTContext{ID: ctxTypeListIndex, Value: types.IntegerValue(index)}
}

// CtxListIndexCreate looks up a list element by index, creating a list with
// the given order when the path does not exist. Pad allows the index to lie
// beyond the current list bounds; nil entries fill the gap.
func CtxListIndexCreate(index int64, order ListOrderType, pad bool) CDTContext {
	return CDTContext{
		ID:    ctxTypeListIndex,
		Flags: ListOrderFlag(order, pad),
		Value: types.IntegerValue(index),
	}
}

// CtxListRank looks up a list element by rank: 0 is the smallest value, -1
// the largest.
func CtxListRank(rank int64) CDTContext {
	return CDTContext{ID: ctxTypeListRank, Value: types.IntegerValue(rank)}
}

// CtxListValue looks up a list element by value.
func CtxListValue(value types.Value) CDTContext {
	return CDTContext{ID: ctxTypeListValue, Value: value}
}

// CtxMapIndex looks up a map entry by index offset.
func CtxMapIndex(index int64) CDTContext {
	return CDTContext{ID: ctxTypeMapIndex, Value: types.IntegerValue(index)}
}

// CtxMapRank looks up a map entry by rank.
func CtxMapRank(rank int64) CDTContext {
	return CDTContext{ID: ctxTypeMapRank, Value: types.IntegerValue(rank)}
}

// CtxMapKey looks up a map entry by key.
func CtxMapKey(key types.Value) CDTContext {
	return CDTContext{ID: ctxTypeMapKey, Value: key}
}

// CtxMapKeyCreate looks up a map entry by key, creating a map with the
// given order when the path does not exist.
func CtxMapKeyCreate(key types.Value, order MapOrder) CDTContext {
	return CDTContext{ID: ctxTypeMapKey, Flags: MapOrderFlag(order), Value: key}
}

// CtxMapValue looks up a map entry by value.
func CtxMapValue(value types.Value) CDTContext {
	return CDTContext{ID: ctxTypeMapValue, Value: value}
}

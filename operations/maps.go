package operations

import (
	"github.com/jeeves-cluster-organization/aerowire/types"
)

// Map op codes. Maps occupy the high range of the shared CDT numeric space.
const (
	MapOpSetType                   uint16 = 64
	MapOpAdd                       uint16 = 65
	MapOpAddItems                  uint16 = 66
	MapOpPut                       uint16 = 67
	MapOpPutItems                  uint16 = 68
	MapOpReplace                   uint16 = 69
	MapOpReplaceItems              uint16 = 70
	MapOpIncrement                 uint16 = 73
	MapOpDecrement                 uint16 = 74
	MapOpClear                     uint16 = 75
	MapOpRemoveByKey               uint16 = 76
	MapOpRemoveByIndex             uint16 = 77
	MapOpRemoveByRank              uint16 = 79
	MapOpRemoveByKeyList           uint16 = 81
	MapOpRemoveByValue             uint16 = 82
	MapOpRemoveByValueList         uint16 = 83
	MapOpRemoveByKeyInterval       uint16 = 84
	MapOpRemoveByIndexRange        uint16 = 85
	MapOpRemoveByValueInterval     uint16 = 86
	MapOpRemoveByRankRange         uint16 = 87
	MapOpRemoveByKeyRelIndexRange  uint16 = 88
	MapOpRemoveByValueRelRankRange uint16 = 89
	MapOpSize                      uint16 = 96
	MapOpGetByKey                  uint16 = 97
	MapOpGetByIndex                uint16 = 98
	MapOpGetByRank                 uint16 = 100
	MapOpGetByValue                uint16 = 102
	MapOpGetByKeyInterval          uint16 = 103
	MapOpGetByIndexRange           uint16 = 104
	MapOpGetByValueInterval        uint16 = 105
	MapOpGetByRankRange            uint16 = 106
	MapOpGetByKeyList              uint16 = 107
	MapOpGetByValueList            uint16 = 108
	MapOpGetByKeyRelIndexRange     uint16 = 109
	// MapOpGetByValueRelRankRange is the top of the map range.
	MapOpGetByValueRelRankRange uint16 = 110
)

// MapOrder is the storage order of a map.
type MapOrder uint8

const (
	// MapUnordered keeps entries unordered. This is the default.
	MapUnordered MapOrder = 0
	// MapKeyOrdered orders entries by key.
	MapKeyOrdered MapOrder = 1
	// MapKeyValueOrdered orders entries by key, then value.
	MapKeyValueOrdered MapOrder = 3
)

// MapReturnType selects what CDT map read and remove operations return.
type MapReturnType int

const (
	// MapReturnNone returns nothing.
	MapReturnNone MapReturnType = 0
	// MapReturnIndex returns index offsets.
	MapReturnIndex MapReturnType = 1
	// MapReturnReverseIndex returns reverse index offsets.
	MapReturnReverseIndex MapReturnType = 2
	// MapReturnRank returns value order.
	MapReturnRank MapReturnType = 3
	// MapReturnReverseRank returns reverse value order.
	MapReturnReverseRank MapReturnType = 4
	// MapReturnCount returns the number of entries selected.
	MapReturnCount MapReturnType = 5
	// MapReturnKey returns the selected keys.
	MapReturnKey MapReturnType = 6
	// MapReturnValue returns the selected values.
	MapReturnValue MapReturnType = 7
	// MapReturnKeyValue returns the selected key/value pairs.
	MapReturnKeyValue MapReturnType = 8
	// MapReturnInverted flips the selection to the entries outside the
	// specified range.
	MapReturnInverted MapReturnType = 0x10000
)

// MapWriteMode qualifies how map writes treat existing keys.
type MapWriteMode uint8

const (
	// MapWriteUpdate creates or overwrites.
	MapWriteUpdate MapWriteMode = iota
	// MapWriteUpdateOnly overwrites; fails when the key does not exist.
	MapWriteUpdateOnly
	// MapWriteCreateOnly creates; fails when the key already exists.
	MapWriteCreateOnly
)

// MapPolicy directs map creation and map entry writes.
type MapPolicy struct {
	Order     MapOrder
	WriteMode MapWriteMode
}

// DefaultMapPolicy returns the policy for an unordered map with update
// write semantics.
func DefaultMapPolicy() MapPolicy {
	return MapPolicy{Order: MapUnordered, WriteMode: MapWriteUpdate}
}

// MapOrderFlag returns the creation flag byte for a map order.
func MapOrderFlag(order MapOrder) uint8 {
	switch order {
	case MapKeyOrdered:
		return 0x80
	case MapKeyValueOrdered:
		return 0xc0
	}
	return 0x40
}

// mapWriteOp resolves the op code implied by the policy's write mode.
func mapWriteOp(policy MapPolicy, multi bool) uint16 {
	switch policy.WriteMode {
	case MapWriteUpdateOnly:
		if multi {
			return MapOpReplaceItems
		}
		return MapOpReplace
	case MapWriteCreateOnly:
		if multi {
			return MapOpAddItems
		}
		return MapOpAdd
	default:
		if multi {
			return MapOpPutItems
		}
		return MapOpPut
	}
}

// mapOrderArg appends the order attribute for write modes that accept one.
func mapOrderArg(policy MapPolicy, args []types.Value) []types.Value {
	if policy.WriteMode == MapWriteUpdateOnly {
		return args
	}
	return append(args, types.IntegerValue(policy.Order))
}

// MapSetOrderOp sets the map order attribute.
func MapSetOrderOp(bin string, order MapOrder) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpSetType,
		types.IntegerValue(order),
	)
}

// MapPutOp writes one key/value entry. Server returns map size.
func MapPutOp(policy MapPolicy, bin string, key, value types.Value) *Operation {
	args := []types.Value{key}
	if value != nil {
		args = append(args, value)
	}
	return newCDTOp(OpCDTWrite, familyMap, bin, mapWriteOp(policy, false), mapOrderArg(policy, args)...)
}

// MapPutItemsOp writes each entry of the given map. Server returns map
// size.
func MapPutItemsOp(policy MapPolicy, bin string, items types.MapValue) *Operation {
	args := mapOrderArg(policy, []types.Value{items})
	return newCDTOp(OpCDTWrite, familyMap, bin, mapWriteOp(policy, true), args...)
}

// MapIncrementOp increments the numeric value stored under key. Server
// returns the final value.
func MapIncrementOp(policy MapPolicy, bin string, key, incr types.Value) *Operation {
	args := []types.Value{key}
	if incr != nil {
		args = append(args, incr)
	}
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpIncrement, mapOrderArg(policy, args)...)
}

// MapDecrementOp decrements the numeric value stored under key. Server
// returns the final value.
func MapDecrementOp(policy MapPolicy, bin string, key, decr types.Value) *Operation {
	args := []types.Value{key}
	if decr != nil {
		args = append(args, decr)
	}
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpDecrement, mapOrderArg(policy, args)...)
}

// MapClearOp removes all entries.
func MapClearOp(bin string) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpClear)
}

// MapSizeOp returns the number of entries.
func MapSizeOp(bin string) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpSize)
}

// MapRemoveByKeyOp removes the entry with the given key.
func MapRemoveByKeyOp(bin string, key types.Value, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByKey,
		types.IntegerValue(returnType),
		key,
	)
}

// MapRemoveByKeyListOp removes the entries with the given keys.
func MapRemoveByKeyListOp(bin string, keys types.ListValue, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByKeyList,
		types.IntegerValue(returnType),
		keys,
	)
}

// MapRemoveByKeyRangeOp removes the entries in the half-open key interval
// [begin, end). A nil end extends the interval past the largest key.
func MapRemoveByKeyRangeOp(bin string, begin, end types.Value, returnType MapReturnType) *Operation {
	args := []types.Value{types.IntegerValue(returnType), begin}
	if end != nil {
		args = append(args, end)
	}
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByKeyInterval, args...)
}

// MapRemoveByKeyRelIndexRangeOp removes the entries nearest to key and
// greater, by relative index.
func MapRemoveByKeyRelIndexRangeOp(bin string, key types.Value, index int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByKeyRelIndexRange,
		types.IntegerValue(returnType),
		key,
		types.IntegerValue(index),
	)
}

// MapRemoveByKeyRelIndexRangeCountOp removes count entries nearest to key
// and greater, by relative index.
func MapRemoveByKeyRelIndexRangeCountOp(bin string, key types.Value, index, count int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByKeyRelIndexRange,
		types.IntegerValue(returnType),
		key,
		types.IntegerValue(index),
		types.IntegerValue(count),
	)
}

// MapRemoveByValueOp removes the entries with the given value.
func MapRemoveByValueOp(bin string, value types.Value, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByValue,
		types.IntegerValue(returnType),
		value,
	)
}

// MapRemoveByValueListOp removes the entries with one of the given values.
func MapRemoveByValueListOp(bin string, values types.ListValue, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByValueList,
		types.IntegerValue(returnType),
		values,
	)
}

// MapRemoveByValueRangeOp removes the entries in the half-open value
// interval [begin, end).
func MapRemoveByValueRangeOp(bin string, begin, end types.Value, returnType MapReturnType) *Operation {
	args := []types.Value{types.IntegerValue(returnType), begin}
	if end != nil {
		args = append(args, end)
	}
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByValueInterval, args...)
}

// MapRemoveByValueRelRankRangeOp removes the entries nearest to value and
// greater, by relative rank.
func MapRemoveByValueRelRankRangeOp(bin string, value types.Value, rank int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByValueRelRankRange,
		types.IntegerValue(returnType),
		value,
		types.IntegerValue(rank),
	)
}

// MapRemoveByValueRelRankRangeCountOp removes count entries nearest to
// value and greater, by relative rank.
func MapRemoveByValueRelRankRangeCountOp(bin string, value types.Value, rank, count int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByValueRelRankRange,
		types.IntegerValue(returnType),
		value,
		types.IntegerValue(rank),
		types.IntegerValue(count),
	)
}

// MapRemoveByIndexOp removes the entry at the given index.
func MapRemoveByIndexOp(bin string, index int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByIndex,
		types.IntegerValue(returnType),
		types.IntegerValue(index),
	)
}

// MapRemoveByIndexRangeOp removes the entries from the given index to the
// end of the map.
func MapRemoveByIndexRangeOp(bin string, index int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByIndexRange,
		types.IntegerValue(returnType),
		types.IntegerValue(index),
	)
}

// MapRemoveByIndexRangeCountOp removes count entries starting at the given
// index.
func MapRemoveByIndexRangeCountOp(bin string, index, count int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByIndexRange,
		types.IntegerValue(returnType),
		types.IntegerValue(index),
		types.IntegerValue(count),
	)
}

// MapRemoveByRankOp removes the entry with the given rank.
func MapRemoveByRankOp(bin string, rank int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByRank,
		types.IntegerValue(returnType),
		types.IntegerValue(rank),
	)
}

// MapRemoveByRankRangeOp removes the entries from the given rank to the
// highest ranked entry.
func MapRemoveByRankRangeOp(bin string, rank int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByRankRange,
		types.IntegerValue(returnType),
		types.IntegerValue(rank),
	)
}

// MapRemoveByRankRangeCountOp removes count entries starting at the given
// rank.
func MapRemoveByRankRangeCountOp(bin string, rank, count int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyMap, bin, MapOpRemoveByRankRange,
		types.IntegerValue(returnType),
		types.IntegerValue(rank),
		types.IntegerValue(count),
	)
}

// MapGetByKeyOp selects the entry with the given key.
func MapGetByKeyOp(bin string, key types.Value, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByKey,
		types.IntegerValue(returnType),
		key,
	)
}

// MapGetByKeyListOp selects the entries with the given keys.
func MapGetByKeyListOp(bin string, keys types.ListValue, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByKeyList,
		types.IntegerValue(returnType),
		keys,
	)
}

// MapGetByKeyRangeOp selects the entries in the half-open key interval
// [begin, end).
func MapGetByKeyRangeOp(bin string, begin, end types.Value, returnType MapReturnType) *Operation {
	args := []types.Value{types.IntegerValue(returnType), begin}
	if end != nil {
		args = append(args, end)
	}
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByKeyInterval, args...)
}

// MapGetByKeyRelIndexRangeOp selects the entries nearest to key and
// greater, by relative index.
func MapGetByKeyRelIndexRangeOp(bin string, key types.Value, index int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByKeyRelIndexRange,
		types.IntegerValue(returnType),
		key,
		types.IntegerValue(index),
	)
}

// MapGetByKeyRelIndexRangeCountOp selects count entries nearest to key and
// greater, by relative index.
func MapGetByKeyRelIndexRangeCountOp(bin string, key types.Value, index, count int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByKeyRelIndexRange,
		types.IntegerValue(returnType),
		key,
		types.IntegerValue(index),
		types.IntegerValue(count),
	)
}

// MapGetByValueOp selects the entries with the given value.
func MapGetByValueOp(bin string, value types.Value, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByValue,
		types.IntegerValue(returnType),
		value,
	)
}

// MapGetByValueListOp selects the entries with one of the given values.
func MapGetByValueListOp(bin string, values types.ListValue, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByValueList,
		types.IntegerValue(returnType),
		values,
	)
}

// MapGetByValueRangeOp selects the entries in the half-open value interval
// [begin, end).
func MapGetByValueRangeOp(bin string, begin, end types.Value, returnType MapReturnType) *Operation {
	args := []types.Value{types.IntegerValue(returnType), begin}
	if end != nil {
		args = append(args, end)
	}
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByValueInterval, args...)
}

// MapGetByValueRelRankRangeOp selects the entries nearest to value and
// greater, by relative rank.
func MapGetByValueRelRankRangeOp(bin string, value types.Value, rank int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByValueRelRankRange,
		types.IntegerValue(returnType),
		value,
		types.IntegerValue(rank),
	)
}

// MapGetByValueRelRankRangeCountOp selects count entries nearest to value
// and greater, by relative rank.
func MapGetByValueRelRankRangeCountOp(bin string, value types.Value, rank, count int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByValueRelRankRange,
		types.IntegerValue(returnType),
		value,
		types.IntegerValue(rank),
		types.IntegerValue(count),
	)
}

// MapGetByIndexOp selects the entry at the given index.
func MapGetByIndexOp(bin string, index int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByIndex,
		types.IntegerValue(returnType),
		types.IntegerValue(index),
	)
}

// MapGetByIndexRangeOp selects the entries from the given index to the end
// of the map.
func MapGetByIndexRangeOp(bin string, index int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByIndexRange,
		types.IntegerValue(returnType),
		types.IntegerValue(index),
	)
}

// MapGetByIndexRangeCountOp selects count entries starting at the given
// index.
func MapGetByIndexRangeCountOp(bin string, index, count int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByIndexRange,
		types.IntegerValue(returnType),
		types.IntegerValue(index),
		types.IntegerValue(count),
	)
}

// MapGetByRankOp selects the entry with the given rank.
func MapGetByRankOp(bin string, rank int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByRank,
		types.IntegerValue(returnType),
		types.IntegerValue(rank),
	)
}

// MapGetByRankRangeOp selects the entries from the given rank to the
// highest ranked entry.
func MapGetByRankRangeOp(bin string, rank int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByRankRange,
		types.IntegerValue(returnType),
		types.IntegerValue(rank),
	)
}

// MapGetByRankRangeCountOp selects count entries starting at the given
// rank.
func MapGetByRankRangeCountOp(bin string, rank, count int64, returnType MapReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyMap, bin, MapOpGetByRankRange,
		types.IntegerValue(returnType),
		types.IntegerValue(rank),
		types.IntegerValue(count),
	)
}

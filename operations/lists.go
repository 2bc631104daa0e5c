package operations

import (
	"github.com/jeeves-cluster-organization/aerowire/types"
)

// List op codes. Lists and maps share one flat numeric space; list codes
// occupy the low range.
const (
	ListOpSetType                uint16 = 0
	ListOpAppend                 uint16 = 1
	ListOpAppendItems            uint16 = 2
	ListOpInsert                 uint16 = 3
	ListOpInsertItems            uint16 = 4
	ListOpPop                    uint16 = 5
	ListOpPopRange               uint16 = 6
	ListOpRemove                 uint16 = 7
	ListOpRemoveRange            uint16 = 8
	ListOpSet                    uint16 = 9
	ListOpTrim                   uint16 = 10
	ListOpClear                  uint16 = 11
	ListOpIncrement              uint16 = 12
	ListOpSort                   uint16 = 13
	ListOpSize                   uint16 = 16
	ListOpGet                    uint16 = 17
	ListOpGetRange               uint16 = 18
	ListOpGetByIndex             uint16 = 19
	ListOpGetByRank              uint16 = 21
	ListOpGetByValue             uint16 = 22
	ListOpGetByValueList         uint16 = 23
	ListOpGetByIndexRange        uint16 = 24
	ListOpGetByValueInterval     uint16 = 25
	ListOpGetByRankRange         uint16 = 26
	ListOpGetByValueRelRankRange uint16 = 27
	ListOpRemoveByIndex          uint16 = 32
	ListOpRemoveByRank           uint16 = 34
	ListOpRemoveByValue          uint16 = 35
	ListOpRemoveByValueList      uint16 = 36
	ListOpRemoveByIndexRange     uint16 = 37
	ListOpRemoveByValueInterval  uint16 = 38
	ListOpRemoveByRankRange      uint16 = 39
	// ListOpRemoveByValueRelRankRange is the top of the list range.
	ListOpRemoveByValueRelRankRange uint16 = 40
)

// ListOrderType is the storage order of a list.
type ListOrderType uint8

const (
	// ListUnordered keeps insertion order. This is the default.
	ListUnordered ListOrderType = 0
	// ListOrdered keeps the list sorted.
	ListOrdered ListOrderType = 1
)

// ListReturnType selects what CDT list read and remove operations return.
type ListReturnType int

const (
	// ListReturnNone returns nothing.
	ListReturnNone ListReturnType = 0
	// ListReturnIndex returns index offsets.
	ListReturnIndex ListReturnType = 1
	// ListReturnReverseIndex returns reverse index offsets.
	ListReturnReverseIndex ListReturnType = 2
	// ListReturnRank returns value order.
	ListReturnRank ListReturnType = 3
	// ListReturnReverseRank returns reverse value order.
	ListReturnReverseRank ListReturnType = 4
	// ListReturnCount returns the number of items selected.
	ListReturnCount ListReturnType = 5
	// ListReturnValues returns the selected values.
	ListReturnValues ListReturnType = 7
	// ListReturnInverted flips the selection to the items outside the
	// specified range.
	ListReturnInverted ListReturnType = 0x10000
)

// ListSortFlags directs the list sort operation.
type ListSortFlags uint8

const (
	// ListSortDefault sorts ascending.
	ListSortDefault ListSortFlags = 0
	// ListSortDescending sorts descending.
	ListSortDescending ListSortFlags = 1
	// ListSortDropDuplicates drops duplicate values.
	ListSortDropDuplicates ListSortFlags = 2
)

// ListWriteFlags restricts list write operations.
type ListWriteFlags uint8

const (
	// ListWriteDefault allows duplicates and unbounded inserts.
	ListWriteDefault ListWriteFlags = 0
	// ListWriteAddUnique only adds values not already present.
	ListWriteAddUnique ListWriteFlags = 1
	// ListWriteInsertBounded rejects inserts outside current bounds.
	ListWriteInsertBounded ListWriteFlags = 2
	// ListWriteNoFail suppresses errors from constraint violations.
	ListWriteNoFail ListWriteFlags = 4
	// ListWritePartial commits the items that do not violate constraints.
	ListWritePartial ListWriteFlags = 8
)

// ListPolicy directs list creation and list item writes.
type ListPolicy struct {
	Order ListOrderType
	Flags ListWriteFlags
}

// DefaultListPolicy returns the policy for an unordered list with default
// write semantics.
func DefaultListPolicy() ListPolicy {
	return ListPolicy{Order: ListUnordered, Flags: ListWriteDefault}
}

// ListOrderFlag returns the creation flag byte for a list order, with pad
// allowing a context index beyond the current bounds.
func ListOrderFlag(order ListOrderType, pad bool) uint8 {
	if order == ListOrdered {
		return 0xc0
	}
	if pad {
		return 0x80
	}
	return 0x40
}

// ListCreateOp creates a list with the given order at the bin or context
// level. Pad permits a context index beyond list bounds; nil entries fill
// the gap.
func ListCreateOp(bin string, order ListOrderType, pad bool) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpSetType,
		types.IntegerValue(ListOrderFlag(order, pad)),
		types.IntegerValue(order),
	)
}

// ListSetOrderOp sets the list order.
func ListSetOrderOp(bin string, order ListOrderType) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpSetType,
		types.IntegerValue(order),
	)
}

// ListAppendOp appends a value to the end of the list. Server returns list
// size.
func ListAppendOp(policy ListPolicy, bin string, value types.Value) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpAppend,
		value,
		types.IntegerValue(policy.Order),
		types.IntegerValue(policy.Flags),
	)
}

// ListAppendItemsOp appends each item to the end of the list. Server
// returns list size.
func ListAppendItemsOp(policy ListPolicy, bin string, values types.ListValue) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpAppendItems,
		values,
		types.IntegerValue(policy.Order),
		types.IntegerValue(policy.Flags),
	)
}

// ListInsertOp inserts a value at the given index. Server returns list
// size.
func ListInsertOp(policy ListPolicy, bin string, index int64, value types.Value) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpInsert,
		types.IntegerValue(index),
		value,
		types.IntegerValue(policy.Flags),
	)
}

// ListInsertItemsOp inserts each item starting at the given index. Server
// returns list size.
func ListInsertItemsOp(policy ListPolicy, bin string, index int64, values types.ListValue) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpInsertItems,
		types.IntegerValue(index),
		values,
		types.IntegerValue(policy.Flags),
	)
}

// ListPopOp removes and returns the item at the given index.
func ListPopOp(bin string, index int64) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpPop,
		types.IntegerValue(index),
	)
}

// ListPopRangeOp removes and returns count items starting at the given
// index.
func ListPopRangeOp(bin string, index, count int64) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpPopRange,
		types.IntegerValue(index),
		types.IntegerValue(count),
	)
}

// ListPopRangeFromOp removes and returns the items from the given index to
// the end of the list.
func ListPopRangeFromOp(bin string, index int64) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpPopRange,
		types.IntegerValue(index),
	)
}

// ListRemoveOp removes the item at the given index. Server returns the
// number of items removed.
func ListRemoveOp(bin string, index int64) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemove,
		types.IntegerValue(index),
	)
}

// ListRemoveRangeOp removes count items starting at the given index.
func ListRemoveRangeOp(bin string, index, count int64) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveRange,
		types.IntegerValue(index),
		types.IntegerValue(count),
	)
}

// ListRemoveRangeFromOp removes the items from the given index to the end
// of the list.
func ListRemoveRangeFromOp(bin string, index int64) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveRange,
		types.IntegerValue(index),
	)
}

// ListSetOp overwrites the item at the given index. Server returns nothing
// by default.
func ListSetOp(bin string, index int64, value types.Value) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpSet,
		types.IntegerValue(index),
		value,
	)
}

// ListTrimOp removes the items outside the range given by index and count.
// Server returns list size after the trim.
func ListTrimOp(bin string, index, count int64) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpTrim,
		types.IntegerValue(index),
		types.IntegerValue(count),
	)
}

// ListClearOp removes all items.
func ListClearOp(bin string) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpClear)
}

// ListIncrementOp increments the integer item at the given index and
// returns the final value.
func ListIncrementOp(policy ListPolicy, bin string, index, value int64) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpIncrement,
		types.IntegerValue(index),
		types.IntegerValue(value),
		types.IntegerValue(policy.Flags),
	)
}

// ListSortOp sorts the list.
func ListSortOp(bin string, flags ListSortFlags) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpSort,
		types.IntegerValue(flags),
	)
}

// ListSizeOp returns the list size.
func ListSizeOp(bin string) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpSize)
}

// ListGetOp returns the item at the given index.
func ListGetOp(bin string, index int64) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGet,
		types.IntegerValue(index),
	)
}

// ListGetRangeOp returns count items starting at the given index.
func ListGetRangeOp(bin string, index, count int64) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetRange,
		types.IntegerValue(index),
		types.IntegerValue(count),
	)
}

// ListGetRangeFromOp returns the items from the given index to the end of
// the list.
func ListGetRangeFromOp(bin string, index int64) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetRange,
		types.IntegerValue(index),
	)
}

// ListGetByValueOp selects the items equal to the given value.
func ListGetByValueOp(bin string, value types.Value, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetByValue,
		types.IntegerValue(returnType),
		value,
	)
}

// ListGetByValueListOp selects the items equal to one of the given values.
func ListGetByValueListOp(bin string, values types.ListValue, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetByValueList,
		types.IntegerValue(returnType),
		values,
	)
}

// ListGetByValueRangeOp selects the items in the half-open value interval
// [begin, end).
func ListGetByValueRangeOp(bin string, begin, end types.Value, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetByValueInterval,
		types.IntegerValue(returnType),
		begin,
		end,
	)
}

// ListGetByIndexOp selects the item at the given index.
func ListGetByIndexOp(bin string, index int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetByIndex,
		types.IntegerValue(returnType),
		types.IntegerValue(index),
	)
}

// ListGetByIndexRangeOp selects the items from the given index to the end
// of the list.
func ListGetByIndexRangeOp(bin string, index int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetByIndexRange,
		types.IntegerValue(returnType),
		types.IntegerValue(index),
	)
}

// ListGetByIndexRangeCountOp selects count items starting at the given
// index.
func ListGetByIndexRangeCountOp(bin string, index, count int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetByIndexRange,
		types.IntegerValue(returnType),
		types.IntegerValue(index),
		types.IntegerValue(count),
	)
}

// ListGetByRankOp selects the item with the given rank.
func ListGetByRankOp(bin string, rank int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetByRank,
		types.IntegerValue(returnType),
		types.IntegerValue(rank),
	)
}

// ListGetByRankRangeOp selects the items from the given rank to the highest
// ranked item.
func ListGetByRankRangeOp(bin string, rank int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetByRankRange,
		types.IntegerValue(returnType),
		types.IntegerValue(rank),
	)
}

// ListGetByRankRangeCountOp selects count items starting at the given rank.
func ListGetByRankRangeCountOp(bin string, rank, count int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetByRankRange,
		types.IntegerValue(returnType),
		types.IntegerValue(rank),
		types.IntegerValue(count),
	)
}

// ListGetByValueRelRankRangeOp selects the items nearest to the given value
// and greater, by relative rank.
func ListGetByValueRelRankRangeOp(bin string, value types.Value, rank int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetByValueRelRankRange,
		types.IntegerValue(returnType),
		value,
		types.IntegerValue(rank),
	)
}

// ListGetByValueRelRankRangeCountOp selects count items nearest to the
// given value and greater, by relative rank.
func ListGetByValueRelRankRangeCountOp(bin string, value types.Value, rank, count int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTRead, familyList, bin, ListOpGetByValueRelRankRange,
		types.IntegerValue(returnType),
		value,
		types.IntegerValue(rank),
		types.IntegerValue(count),
	)
}

// ListRemoveByValueOp removes the items equal to the given value.
func ListRemoveByValueOp(bin string, value types.Value, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveByValue,
		types.IntegerValue(returnType),
		value,
	)
}

// ListRemoveByValueListOp removes the items equal to one of the given
// values.
func ListRemoveByValueListOp(bin string, values types.ListValue, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveByValueList,
		types.IntegerValue(returnType),
		values,
	)
}

// ListRemoveByValueRangeOp removes the items in the half-open value
// interval [begin, end).
func ListRemoveByValueRangeOp(bin string, begin, end types.Value, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveByValueInterval,
		types.IntegerValue(returnType),
		begin,
		end,
	)
}

// ListRemoveByValueRelRankRangeOp removes the items nearest to the given
// value and greater, by relative rank.
func ListRemoveByValueRelRankRangeOp(bin string, value types.Value, rank int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveByValueRelRankRange,
		types.IntegerValue(returnType),
		value,
		types.IntegerValue(rank),
	)
}

// ListRemoveByValueRelRankRangeCountOp removes count items nearest to the
// given value and greater, by relative rank.
func ListRemoveByValueRelRankRangeCountOp(bin string, value types.Value, rank, count int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveByValueRelRankRange,
		types.IntegerValue(returnType),
		value,
		types.IntegerValue(rank),
		types.IntegerValue(count),
	)
}

// ListRemoveByIndexOp removes the item at the given index.
func ListRemoveByIndexOp(bin string, index int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveByIndex,
		types.IntegerValue(returnType),
		types.IntegerValue(index),
	)
}

// ListRemoveByIndexRangeOp removes the items from the given index to the
// end of the list.
func ListRemoveByIndexRangeOp(bin string, index int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveByIndexRange,
		types.IntegerValue(returnType),
		types.IntegerValue(index),
	)
}

// ListRemoveByIndexRangeCountOp removes count items starting at the given
// index.
func ListRemoveByIndexRangeCountOp(bin string, index, count int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveByIndexRange,
		types.IntegerValue(returnType),
		types.IntegerValue(index),
		types.IntegerValue(count),
	)
}

// ListRemoveByRankOp removes the item with the given rank.
func ListRemoveByRankOp(bin string, rank int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveByRank,
		types.IntegerValue(returnType),
		types.IntegerValue(rank),
	)
}

// ListRemoveByRankRangeOp removes the items from the given rank to the
// highest ranked item.
func ListRemoveByRankRangeOp(bin string, rank int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveByRankRange,
		types.IntegerValue(returnType),
		types.IntegerValue(rank),
	)
}

// ListRemoveByRankRangeCountOp removes count items starting at the given
// rank.
func ListRemoveByRankRangeCountOp(bin string, rank, count int64, returnType ListReturnType) *Operation {
	return newCDTOp(OpCDTWrite, familyList, bin, ListOpRemoveByRankRange,
		types.IntegerValue(returnType),
		types.IntegerValue(rank),
		types.IntegerValue(count),
	)
}

package expressions

import (
	"github.com/jeeves-cluster-organization/aerowire/operations"
)

// List expressions compile to CDT module calls under module id 0.

const listModule int64 = 0

// listAddWrite builds a mutating list call. The call's result type follows
// the first context element: a map context yields a map, anything else a
// list.
func listAddWrite(binExp *FilterExpression, ctx []operations.CDTContext, args []expArg) *FilterExpression {
	returnType := TypeList
	if len(ctx) > 0 && ctx[0].ID&0x10 == 0 {
		returnType = TypeMap
	}
	return &FilterExpression{
		cmd:       expOpCall,
		bin:       binExp,
		flags:     listModule | modifyFlag,
		module:    returnType,
		arguments: args,
	}
}

func listAddRead(binExp *FilterExpression, returnType ExpType, args []expArg) *FilterExpression {
	return &FilterExpression{
		cmd:       expOpCall,
		bin:       binExp,
		flags:     listModule,
		module:    returnType,
		arguments: args,
	}
}

// listValueType maps a list return type onto the call's result type.
func listValueType(returnType operations.ListReturnType) ExpType {
	if returnType&^operations.ListReturnInverted == operations.ListReturnValues {
		return TypeList
	}
	return TypeInt
}

// ListAppend appends a value to the end of the list.
func ListAppend(policy operations.ListPolicy, value, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpAppend)),
		argExp(value),
		argInt(int64(policy.Order)),
		argInt(int64(policy.Flags)),
		argCtx(ctx),
	})
}

// ListAppendItems appends each item of a list value.
func ListAppendItems(policy operations.ListPolicy, list, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpAppendItems)),
		argExp(list),
		argInt(int64(policy.Order)),
		argInt(int64(policy.Flags)),
		argCtx(ctx),
	})
}

// ListInsert inserts a value at the given index.
func ListInsert(policy operations.ListPolicy, index, value, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpInsert)),
		argExp(index),
		argExp(value),
		argInt(int64(policy.Flags)),
		argCtx(ctx),
	})
}

// ListInsertItems inserts each item of a list value starting at the given
// index.
func ListInsertItems(policy operations.ListPolicy, index, list, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpInsertItems)),
		argExp(index),
		argExp(list),
		argInt(int64(policy.Flags)),
		argCtx(ctx),
	})
}

// ListIncrement increments list[index] by value.
func ListIncrement(policy operations.ListPolicy, index, value, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpIncrement)),
		argExp(index),
		argExp(value),
		argInt(int64(policy.Order)),
		argInt(int64(policy.Flags)),
		argCtx(ctx),
	})
}

// ListSet overwrites the item at the given index.
func ListSet(policy operations.ListPolicy, index, value, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpSet)),
		argExp(index),
		argExp(value),
		argInt(int64(policy.Flags)),
		argCtx(ctx),
	})
}

// ListClear removes all items.
func ListClear(binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpClear)),
		argCtx(ctx),
	})
}

// ListSort sorts the list.
func ListSort(sortFlags operations.ListSortFlags, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpSort)),
		argInt(int64(sortFlags)),
		argCtx(ctx),
	})
}

// ListRemoveByValue removes the items equal to the given value.
func ListRemoveByValue(value, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpRemoveByValue)),
		argInt(int64(operations.ListReturnNone)),
		argExp(value),
		argCtx(ctx),
	})
}

// ListRemoveByValueList removes the items equal to one of the given values.
func ListRemoveByValueList(values, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpRemoveByValueList)),
		argInt(int64(operations.ListReturnNone)),
		argExp(values),
		argCtx(ctx),
	})
}

// ListRemoveByValueRange removes the items in the half-open value interval
// [begin, end).
func ListRemoveByValueRange(begin, end, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpRemoveByValueInterval)),
		argInt(int64(operations.ListReturnNone)),
		argExp(begin),
		argExp(end),
		argCtx(ctx),
	})
}

// ListRemoveByIndex removes the item at the given index.
func ListRemoveByIndex(index, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpRemoveByIndex)),
		argInt(int64(operations.ListReturnNone)),
		argExp(index),
		argCtx(ctx),
	})
}

// ListRemoveByIndexRange removes the items from the given index to the end
// of the list.
func ListRemoveByIndexRange(index, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpRemoveByIndexRange)),
		argInt(int64(operations.ListReturnNone)),
		argExp(index),
		argCtx(ctx),
	})
}

// ListRemoveByIndexRangeCount removes count items starting at the given
// index.
func ListRemoveByIndexRangeCount(index, count, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpRemoveByIndexRange)),
		argInt(int64(operations.ListReturnNone)),
		argExp(index),
		argExp(count),
		argCtx(ctx),
	})
}

// ListRemoveByRank removes the item with the given rank.
func ListRemoveByRank(rank, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpRemoveByRank)),
		argInt(int64(operations.ListReturnNone)),
		argExp(rank),
		argCtx(ctx),
	})
}

// ListRemoveByRankRange removes the items from the given rank to the
// highest ranked item.
func ListRemoveByRankRange(rank, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.ListOpRemoveByRankRange)),
		argInt(int64(operations.ListReturnNone)),
		argExp(rank),
		argCtx(ctx),
	})
}

// ListSize returns the list size.
func ListSize(binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddRead(binExp, TypeInt, []expArg{
		argInt(int64(operations.ListOpSize)),
		argCtx(ctx),
	})
}

// ListGetByValue selects the items equal to the given value.
func ListGetByValue(returnType operations.ListReturnType, value, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddRead(binExp, listValueType(returnType), []expArg{
		argInt(int64(operations.ListOpGetByValue)),
		argInt(int64(returnType)),
		argExp(value),
		argCtx(ctx),
	})
}

// ListGetByValueRange selects the items in the half-open value interval
// [begin, end).
func ListGetByValueRange(returnType operations.ListReturnType, begin, end, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddRead(binExp, listValueType(returnType), []expArg{
		argInt(int64(operations.ListOpGetByValueInterval)),
		argInt(int64(returnType)),
		argExp(begin),
		argExp(end),
		argCtx(ctx),
	})
}

// ListGetByValueList selects the items equal to one of the given values.
func ListGetByValueList(returnType operations.ListReturnType, values, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddRead(binExp, listValueType(returnType), []expArg{
		argInt(int64(operations.ListOpGetByValueList)),
		argInt(int64(returnType)),
		argExp(values),
		argCtx(ctx),
	})
}

// ListGetByIndex selects the item at the given index, with the given result
// type.
func ListGetByIndex(returnType operations.ListReturnType, valueType ExpType, index, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddRead(binExp, valueType, []expArg{
		argInt(int64(operations.ListOpGetByIndex)),
		argInt(int64(returnType)),
		argExp(index),
		argCtx(ctx),
	})
}

// ListGetByIndexRange selects the items from the given index to the end of
// the list.
func ListGetByIndexRange(returnType operations.ListReturnType, index, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddRead(binExp, listValueType(returnType), []expArg{
		argInt(int64(operations.ListOpGetByIndexRange)),
		argInt(int64(returnType)),
		argExp(index),
		argCtx(ctx),
	})
}

// ListGetByIndexRangeCount selects count items starting at the given index.
func ListGetByIndexRangeCount(returnType operations.ListReturnType, index, count, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddRead(binExp, listValueType(returnType), []expArg{
		argInt(int64(operations.ListOpGetByIndexRange)),
		argInt(int64(returnType)),
		argExp(index),
		argExp(count),
		argCtx(ctx),
	})
}

// ListGetByRank selects the item with the given rank, with the given result
// type.
func ListGetByRank(returnType operations.ListReturnType, valueType ExpType, rank, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddRead(binExp, valueType, []expArg{
		argInt(int64(operations.ListOpGetByRank)),
		argInt(int64(returnType)),
		argExp(rank),
		argCtx(ctx),
	})
}

// ListGetByRankRange selects the items from the given rank to the highest
// ranked item.
func ListGetByRankRange(returnType operations.ListReturnType, rank, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddRead(binExp, listValueType(returnType), []expArg{
		argInt(int64(operations.ListOpGetByRankRange)),
		argInt(int64(returnType)),
		argExp(rank),
		argCtx(ctx),
	})
}

// ListGetByRankRangeCount selects count items starting at the given rank.
func ListGetByRankRangeCount(returnType operations.ListReturnType, rank, count, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return listAddRead(binExp, listValueType(returnType), []expArg{
		argInt(int64(operations.ListOpGetByRankRange)),
		argInt(int64(returnType)),
		argExp(rank),
		argExp(count),
		argCtx(ctx),
	})
}

package expressions

import (
	"github.com/jeeves-cluster-organization/aerowire/operations"
)

// Map expressions compile to CDT module calls under module id 0, sharing
// the numeric space with lists.

const mapModule int64 = 0

// mapAddWrite builds a mutating map call. The call's result type follows
// the first context element: a list context yields a list, anything else a
// map.
func mapAddWrite(binExp *FilterExpression, ctx []operations.CDTContext, args []expArg) *FilterExpression {
	returnType := TypeMap
	if len(ctx) > 0 && ctx[0].ID&0x10 != 0 {
		returnType = TypeList
	}
	return &FilterExpression{
		cmd:       expOpCall,
		bin:       binExp,
		flags:     mapModule | modifyFlag,
		module:    returnType,
		arguments: args,
	}
}

func mapAddRead(binExp *FilterExpression, returnType ExpType, args []expArg) *FilterExpression {
	return &FilterExpression{
		cmd:       expOpCall,
		bin:       binExp,
		flags:     mapModule,
		module:    returnType,
		arguments: args,
	}
}

// mapValueType maps a map return type onto the call's result type.
func mapValueType(returnType operations.MapReturnType) ExpType {
	base := returnType &^ operations.MapReturnInverted
	switch base {
	case operations.MapReturnKey, operations.MapReturnValue:
		return TypeList
	case operations.MapReturnKeyValue:
		return TypeMap
	}
	return TypeInt
}

// MapPut writes one key/value entry.
func MapPut(policy operations.MapPolicy, key, value, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	args := []expArg{
		argInt(mapPutOpCode(policy)),
		argExp(key),
		argExp(value),
	}
	if policy.WriteMode != operations.MapWriteUpdateOnly {
		args = append(args, argInt(int64(policy.Order)))
	}
	args = append(args, argCtx(ctx))
	return mapAddWrite(binExp, ctx, args)
}

func mapPutOpCode(policy operations.MapPolicy) int64 {
	switch policy.WriteMode {
	case operations.MapWriteUpdateOnly:
		return int64(operations.MapOpReplace)
	case operations.MapWriteCreateOnly:
		return int64(operations.MapOpAdd)
	}
	return int64(operations.MapOpPut)
}

// MapPutItems writes each entry of a map value.
func MapPutItems(policy operations.MapPolicy, items, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	op := int64(operations.MapOpPutItems)
	switch policy.WriteMode {
	case operations.MapWriteUpdateOnly:
		op = int64(operations.MapOpReplaceItems)
	case operations.MapWriteCreateOnly:
		op = int64(operations.MapOpAddItems)
	}
	args := []expArg{argInt(op), argExp(items)}
	if policy.WriteMode != operations.MapWriteUpdateOnly {
		args = append(args, argInt(int64(policy.Order)))
	}
	args = append(args, argCtx(ctx))
	return mapAddWrite(binExp, ctx, args)
}

// MapIncrement increments the numeric value stored under key.
func MapIncrement(policy operations.MapPolicy, key, incr, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.MapOpIncrement)),
		argExp(key),
		argExp(incr),
		argInt(int64(policy.Order)),
		argCtx(ctx),
	})
}

// MapClear removes all entries.
func MapClear(binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.MapOpClear)),
		argCtx(ctx),
	})
}

// MapRemoveByKey removes the entry with the given key.
func MapRemoveByKey(key, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.MapOpRemoveByKey)),
		argInt(int64(operations.MapReturnNone)),
		argExp(key),
		argCtx(ctx),
	})
}

// MapRemoveByKeyList removes the entries with the given keys.
func MapRemoveByKeyList(keys, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.MapOpRemoveByKeyList)),
		argInt(int64(operations.MapReturnNone)),
		argExp(keys),
		argCtx(ctx),
	})
}

// MapRemoveByKeyRange removes the entries in the half-open key interval
// [begin, end).
func MapRemoveByKeyRange(begin, end, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.MapOpRemoveByKeyInterval)),
		argInt(int64(operations.MapReturnNone)),
		argExp(begin),
		argExp(end),
		argCtx(ctx),
	})
}

// MapRemoveByValue removes the entries with the given value.
func MapRemoveByValue(value, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.MapOpRemoveByValue)),
		argInt(int64(operations.MapReturnNone)),
		argExp(value),
		argCtx(ctx),
	})
}

// MapRemoveByValueList removes the entries with one of the given values.
func MapRemoveByValueList(values, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.MapOpRemoveByValueList)),
		argInt(int64(operations.MapReturnNone)),
		argExp(values),
		argCtx(ctx),
	})
}

// MapRemoveByIndex removes the entry at the given index.
func MapRemoveByIndex(index, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.MapOpRemoveByIndex)),
		argInt(int64(operations.MapReturnNone)),
		argExp(index),
		argCtx(ctx),
	})
}

// MapRemoveByRank removes the entry with the given rank.
func MapRemoveByRank(rank, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddWrite(binExp, ctx, []expArg{
		argInt(int64(operations.MapOpRemoveByRank)),
		argInt(int64(operations.MapReturnNone)),
		argExp(rank),
		argCtx(ctx),
	})
}

// MapSize returns the number of entries.
func MapSize(binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddRead(binExp, TypeInt, []expArg{
		argInt(int64(operations.MapOpSize)),
		argCtx(ctx),
	})
}

// MapGetByKey selects the entry with the given key, with the given result
// type.
func MapGetByKey(returnType operations.MapReturnType, valueType ExpType, key, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddRead(binExp, valueType, []expArg{
		argInt(int64(operations.MapOpGetByKey)),
		argInt(int64(returnType)),
		argExp(key),
		argCtx(ctx),
	})
}

// MapGetByKeyRange selects the entries in the half-open key interval
// [begin, end).
func MapGetByKeyRange(returnType operations.MapReturnType, begin, end, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddRead(binExp, mapValueType(returnType), []expArg{
		argInt(int64(operations.MapOpGetByKeyInterval)),
		argInt(int64(returnType)),
		argExp(begin),
		argExp(end),
		argCtx(ctx),
	})
}

// MapGetByKeyList selects the entries with the given keys.
func MapGetByKeyList(returnType operations.MapReturnType, keys, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddRead(binExp, mapValueType(returnType), []expArg{
		argInt(int64(operations.MapOpGetByKeyList)),
		argInt(int64(returnType)),
		argExp(keys),
		argCtx(ctx),
	})
}

// MapGetByValue selects the entries with the given value.
func MapGetByValue(returnType operations.MapReturnType, value, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddRead(binExp, mapValueType(returnType), []expArg{
		argInt(int64(operations.MapOpGetByValue)),
		argInt(int64(returnType)),
		argExp(value),
		argCtx(ctx),
	})
}

// MapGetByValueRange selects the entries in the half-open value interval
// [begin, end).
func MapGetByValueRange(returnType operations.MapReturnType, begin, end, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddRead(binExp, mapValueType(returnType), []expArg{
		argInt(int64(operations.MapOpGetByValueInterval)),
		argInt(int64(returnType)),
		argExp(begin),
		argExp(end),
		argCtx(ctx),
	})
}

// MapGetByValueList selects the entries with one of the given values.
func MapGetByValueList(returnType operations.MapReturnType, values, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddRead(binExp, mapValueType(returnType), []expArg{
		argInt(int64(operations.MapOpGetByValueList)),
		argInt(int64(returnType)),
		argExp(values),
		argCtx(ctx),
	})
}

// MapGetByIndex selects the entry at the given index, with the given result
// type.
func MapGetByIndex(returnType operations.MapReturnType, valueType ExpType, index, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddRead(binExp, valueType, []expArg{
		argInt(int64(operations.MapOpGetByIndex)),
		argInt(int64(returnType)),
		argExp(index),
		argCtx(ctx),
	})
}

// MapGetByIndexRange selects the entries from the given index to the end of
// the map.
func MapGetByIndexRange(returnType operations.MapReturnType, index, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddRead(binExp, mapValueType(returnType), []expArg{
		argInt(int64(operations.MapOpGetByIndexRange)),
		argInt(int64(returnType)),
		argExp(index),
		argCtx(ctx),
	})
}

// MapGetByRank selects the entry with the given rank, with the given result
// type.
func MapGetByRank(returnType operations.MapReturnType, valueType ExpType, rank, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddRead(binExp, valueType, []expArg{
		argInt(int64(operations.MapOpGetByRank)),
		argInt(int64(returnType)),
		argExp(rank),
		argCtx(ctx),
	})
}

// MapGetByRankRange selects the entries from the given rank to the highest
// ranked entry.
func MapGetByRankRange(returnType operations.MapReturnType, rank, binExp *FilterExpression, ctx ...operations.CDTContext) *FilterExpression {
	return mapAddRead(binExp, mapValueType(returnType), []expArg{
		argInt(int64(operations.MapOpGetByRankRange)),
		argInt(int64(returnType)),
		argExp(rank),
		argCtx(ctx),
	})
}

package expressions

import (
	"github.com/jeeves-cluster-organization/aerowire/operations"
)

// HyperLogLog expressions compile to CDT module calls under module id 2.

const hllModule int64 = 2

func hllAddWrite(binExp *FilterExpression, args []expArg) *FilterExpression {
	return &FilterExpression{
		cmd:       expOpCall,
		bin:       binExp,
		flags:     hllModule | modifyFlag,
		module:    TypeHLL,
		arguments: args,
	}
}

func hllAddRead(binExp *FilterExpression, returnType ExpType, args []expArg) *FilterExpression {
	return &FilterExpression{
		cmd:       expOpCall,
		bin:       binExp,
		flags:     hllModule,
		module:    returnType,
		arguments: args,
	}
}

// HLLInit creates or resets an HLL set with the given index bits.
func HLLInit(policy operations.HLLPolicy, indexBitCount, binExp *FilterExpression) *FilterExpression {
	return HLLInitWithMinHash(policy, indexBitCount, IntVal(-1), binExp)
}

// HLLInitWithMinHash creates or resets an HLL set with index and minhash
// bits.
func HLLInitWithMinHash(policy operations.HLLPolicy, indexBitCount, minHashBitCount, binExp *FilterExpression) *FilterExpression {
	return hllAddWrite(binExp, []expArg{
		argInt(int64(operations.HLLOpInit)),
		argExp(indexBitCount),
		argExp(minHashBitCount),
		argInt(int64(policy.Flags)),
	})
}

// HLLAdd adds the values of a list expression to the HLL set.
func HLLAdd(policy operations.HLLPolicy, list, binExp *FilterExpression) *FilterExpression {
	return HLLAddWithIndexAndMinHash(policy, list, IntVal(-1), IntVal(-1), binExp)
}

// HLLAddWithIndex adds values, creating the set with indexBitCount when
// absent.
func HLLAddWithIndex(policy operations.HLLPolicy, list, indexBitCount, binExp *FilterExpression) *FilterExpression {
	return HLLAddWithIndexAndMinHash(policy, list, indexBitCount, IntVal(-1), binExp)
}

// HLLAddWithIndexAndMinHash adds values, creating the set with index and
// minhash bits when absent.
func HLLAddWithIndexAndMinHash(policy operations.HLLPolicy, list, indexBitCount, minHashBitCount, binExp *FilterExpression) *FilterExpression {
	return hllAddWrite(binExp, []expArg{
		argInt(int64(operations.HLLOpAdd)),
		argExp(list),
		argExp(indexBitCount),
		argExp(minHashBitCount),
		argInt(int64(policy.Flags)),
	})
}

// HLLGetCount returns the estimated cardinality.
func HLLGetCount(binExp *FilterExpression) *FilterExpression {
	return hllAddRead(binExp, TypeInt, []expArg{
		argInt(int64(operations.HLLOpCount)),
	})
}

// HLLGetUnion returns the union of the bin and the given HLL objects.
func HLLGetUnion(list, binExp *FilterExpression) *FilterExpression {
	return hllAddRead(binExp, TypeHLL, []expArg{
		argInt(int64(operations.HLLOpUnion)),
		argExp(list),
	})
}

// HLLGetUnionCount returns the estimated cardinality of the union.
func HLLGetUnionCount(list, binExp *FilterExpression) *FilterExpression {
	return hllAddRead(binExp, TypeInt, []expArg{
		argInt(int64(operations.HLLOpUnionCount)),
		argExp(list),
	})
}

// HLLGetIntersectCount returns the estimated cardinality of the
// intersection.
func HLLGetIntersectCount(list, binExp *FilterExpression) *FilterExpression {
	return hllAddRead(binExp, TypeInt, []expArg{
		argInt(int64(operations.HLLOpIntersectCount)),
		argExp(list),
	})
}

// HLLGetSimilarity returns the estimated Jaccard similarity.
func HLLGetSimilarity(list, binExp *FilterExpression) *FilterExpression {
	return hllAddRead(binExp, TypeFloat, []expArg{
		argInt(int64(operations.HLLOpSimilarity)),
		argExp(list),
	})
}

// HLLDescribe returns the set's index and minhash bit counts.
func HLLDescribe(binExp *FilterExpression) *FilterExpression {
	return hllAddRead(binExp, TypeList, []expArg{
		argInt(int64(operations.HLLOpDescribe)),
	})
}

// HLLMayContain probes whether the given values may be in the set.
func HLLMayContain(list, binExp *FilterExpression) *FilterExpression {
	return hllAddRead(binExp, TypeBool, []expArg{
		argInt(int64(operations.HLLOpMayContain)),
		argExp(list),
	})
}

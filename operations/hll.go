package operations

import (
	"github.com/jeeves-cluster-organization/aerowire/types"
)

// HyperLogLog op codes, routed under call module 2.
const (
	HLLOpInit           uint16 = 0
	HLLOpAdd            uint16 = 1
	HLLOpSetUnion       uint16 = 2
	HLLOpSetCount       uint16 = 3
	HLLOpFold           uint16 = 4
	HLLOpCount          uint16 = 50
	HLLOpUnion          uint16 = 51
	HLLOpUnionCount     uint16 = 52
	HLLOpIntersectCount uint16 = 53
	HLLOpSimilarity     uint16 = 54
	HLLOpDescribe       uint16 = 55
	// HLLOpMayContain is the top of the HLL range.
	HLLOpMayContain uint16 = 56
)

// HLLWriteFlags restricts HyperLogLog write operations.
type HLLWriteFlags uint8

const (
	// HLLWriteDefault allows create or update.
	HLLWriteDefault HLLWriteFlags = 0
	// HLLWriteCreateOnly fails when the bin already exists.
	HLLWriteCreateOnly HLLWriteFlags = 1
	// HLLWriteUpdateOnly fails when the bin does not exist.
	HLLWriteUpdateOnly HLLWriteFlags = 2
	// HLLWriteNoFail suppresses errors from constraint violations.
	HLLWriteNoFail HLLWriteFlags = 4
	// HLLWriteAllowFold permits folding to the minimum participating index
	// bits.
	HLLWriteAllowFold HLLWriteFlags = 8
)

// HLLPolicy directs HyperLogLog write operations.
type HLLPolicy struct {
	Flags HLLWriteFlags
}

// DefaultHLLPolicy returns the default HyperLogLog policy.
func DefaultHLLPolicy() HLLPolicy {
	return HLLPolicy{Flags: HLLWriteDefault}
}

// HLLInitOp creates or resets an HLL bin with the given index bits.
func HLLInitOp(policy HLLPolicy, bin string, indexBitCount int64) *Operation {
	return HLLInitWithMinHashOp(policy, bin, indexBitCount, -1)
}

// HLLInitWithMinHashOp creates or resets an HLL bin with index and minhash
// bits.
func HLLInitWithMinHashOp(policy HLLPolicy, bin string, indexBitCount, minHashBitCount int64) *Operation {
	return newCDTOp(OpHLLWrite, familyHLL, bin, HLLOpInit,
		types.IntegerValue(indexBitCount),
		types.IntegerValue(minHashBitCount),
		types.IntegerValue(policy.Flags),
	)
}

// HLLAddOp adds values to an existing HLL set. Server returns the number of
// updated registers.
func HLLAddOp(policy HLLPolicy, bin string, list types.ListValue) *Operation {
	return HLLAddWithIndexAndMinHashOp(policy, bin, list, -1, -1)
}

// HLLAddWithIndexOp adds values, creating the HLL bin with indexBitCount
// when absent.
func HLLAddWithIndexOp(policy HLLPolicy, bin string, list types.ListValue, indexBitCount int64) *Operation {
	return HLLAddWithIndexAndMinHashOp(policy, bin, list, indexBitCount, -1)
}

// HLLAddWithIndexAndMinHashOp adds values, creating the HLL bin with index
// and minhash bits when absent.
func HLLAddWithIndexAndMinHashOp(policy HLLPolicy, bin string, list types.ListValue, indexBitCount, minHashBitCount int64) *Operation {
	return newCDTOp(OpHLLWrite, familyHLL, bin, HLLOpAdd,
		list,
		types.IntegerValue(indexBitCount),
		types.IntegerValue(minHashBitCount),
		types.IntegerValue(policy.Flags),
	)
}

// HLLSetUnionOp replaces the bin with the union of the given HLL objects.
func HLLSetUnionOp(policy HLLPolicy, bin string, list types.ListValue) *Operation {
	return newCDTOp(OpHLLWrite, familyHLL, bin, HLLOpSetUnion,
		list,
		types.IntegerValue(policy.Flags),
	)
}

// HLLRefreshCountOp updates and returns the cached cardinality.
func HLLRefreshCountOp(bin string) *Operation {
	return newCDTOp(OpHLLWrite, familyHLL, bin, HLLOpSetCount)
}

// HLLFoldOp folds the index bit count, losing precision. The bin must not
// carry minhash bits.
func HLLFoldOp(bin string, indexBitCount int64) *Operation {
	return newCDTOp(OpHLLWrite, familyHLL, bin, HLLOpFold,
		types.IntegerValue(indexBitCount),
	)
}

// HLLGetCountOp returns the estimated cardinality.
func HLLGetCountOp(bin string) *Operation {
	return newCDTOp(OpHLLRead, familyHLL, bin, HLLOpCount)
}

// HLLGetUnionOp returns the union of the bin and the given HLL objects.
func HLLGetUnionOp(bin string, list types.ListValue) *Operation {
	return newCDTOp(OpHLLRead, familyHLL, bin, HLLOpUnion, list)
}

// HLLGetUnionCountOp returns the estimated cardinality of the union.
func HLLGetUnionCountOp(bin string, list types.ListValue) *Operation {
	return newCDTOp(OpHLLRead, familyHLL, bin, HLLOpUnionCount, list)
}

// HLLGetIntersectCountOp returns the estimated cardinality of the
// intersection.
func HLLGetIntersectCountOp(bin string, list types.ListValue) *Operation {
	return newCDTOp(OpHLLRead, familyHLL, bin, HLLOpIntersectCount, list)
}

// HLLGetSimilarityOp returns the estimated Jaccard similarity.
func HLLGetSimilarityOp(bin string, list types.ListValue) *Operation {
	return newCDTOp(OpHLLRead, familyHLL, bin, HLLOpSimilarity, list)
}

// HLLDescribeOp returns the bin's index and minhash bit counts.
func HLLDescribeOp(bin string) *Operation {
	return newCDTOp(OpHLLRead, familyHLL, bin, HLLOpDescribe)
}

// HLLMayContainOp probes whether the given values may be in the set.
func HLLMayContainOp(bin string, list types.ListValue) *Operation {
	return newCDTOp(OpHLLRead, familyHLL, bin, HLLOpMayContain, list)
}

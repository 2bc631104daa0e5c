package operations

import (
	"github.com/jeeves-cluster-organization/aerowire/types"
)

// Bitwise op codes, routed under call module 1.
const (
	BitOpResize   uint16 = 0
	BitOpInsert   uint16 = 1
	BitOpRemove   uint16 = 2
	BitOpSet      uint16 = 3
	BitOpOr       uint16 = 4
	BitOpXor      uint16 = 5
	BitOpAnd      uint16 = 6
	BitOpNot      uint16 = 7
	BitOpLShift   uint16 = 8
	BitOpRShift   uint16 = 9
	BitOpAdd      uint16 = 10
	BitOpSubtract uint16 = 11
	BitOpSetInt   uint16 = 12
	BitOpGet      uint16 = 50
	BitOpCount    uint16 = 51
	BitOpLScan    uint16 = 52
	BitOpRScan    uint16 = 53
	// BitOpGetInt is the top of the bitwise range.
	BitOpGetInt uint16 = 54
)

// BitResizeFlags directs the resize operation.
type BitResizeFlags uint8

const (
	// BitResizeDefault adds or removes bytes from the end.
	BitResizeDefault BitResizeFlags = 0
	// BitResizeFromFront adds or removes bytes from the front.
	BitResizeFromFront BitResizeFlags = 1
	// BitResizeGrowOnly refuses to shrink.
	BitResizeGrowOnly BitResizeFlags = 2
	// BitResizeShrinkOnly refuses to grow.
	BitResizeShrinkOnly BitResizeFlags = 4
)

// BitWriteFlags restricts bitwise write operations.
type BitWriteFlags uint8

const (
	// BitWriteDefault allows create or update.
	BitWriteDefault BitWriteFlags = 0
	// BitWriteCreateOnly fails when the bin already exists.
	BitWriteCreateOnly BitWriteFlags = 1
	// BitWriteUpdateOnly fails when the bin does not exist.
	BitWriteUpdateOnly BitWriteFlags = 2
	// BitWriteNoFail suppresses errors from constraint violations.
	BitWriteNoFail BitWriteFlags = 4
	// BitWritePartial commits the bits that do not violate constraints.
	BitWritePartial BitWriteFlags = 8
)

// BitOverflowAction selects what add and subtract do on overflow.
type BitOverflowAction uint8

const (
	// BitOverflowFail fails the operation.
	BitOverflowFail BitOverflowAction = 0
	// BitOverflowSaturate clamps to the extreme value.
	BitOverflowSaturate BitOverflowAction = 2
	// BitOverflowWrap wraps around.
	BitOverflowWrap BitOverflowAction = 4
)

// BitPolicy directs bitwise write operations.
type BitPolicy struct {
	Flags BitWriteFlags
}

// DefaultBitPolicy returns the default bitwise policy.
func DefaultBitPolicy() BitPolicy {
	return BitPolicy{Flags: BitWriteDefault}
}

// BitResizeOp resizes the byte array to byteSize.
func BitResizeOp(policy BitPolicy, bin string, byteSize int64, flags BitResizeFlags) *Operation {
	args := []types.Value{
		types.IntegerValue(byteSize),
		types.IntegerValue(policy.Flags),
	}
	if flags != BitResizeDefault {
		args = append(args, types.IntegerValue(flags))
	}
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpResize, args...)
}

// BitInsertOp inserts the given bytes at byteOffset.
func BitInsertOp(policy BitPolicy, bin string, byteOffset int64, value []byte) *Operation {
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpInsert,
		types.IntegerValue(byteOffset),
		types.BlobValue(value),
		types.IntegerValue(policy.Flags),
	)
}

// BitRemoveOp removes byteSize bytes at byteOffset.
func BitRemoveOp(policy BitPolicy, bin string, byteOffset, byteSize int64) *Operation {
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpRemove,
		types.IntegerValue(byteOffset),
		types.IntegerValue(byteSize),
		types.IntegerValue(policy.Flags),
	)
}

// BitSetOp overwrites bitSize bits at bitOffset with the given bytes.
func BitSetOp(policy BitPolicy, bin string, bitOffset, bitSize int64, value []byte) *Operation {
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpSet,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
		types.BlobValue(value),
		types.IntegerValue(policy.Flags),
	)
}

// BitOrOp ors bitSize bits at bitOffset with the given bytes.
func BitOrOp(policy BitPolicy, bin string, bitOffset, bitSize int64, value []byte) *Operation {
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpOr,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
		types.BlobValue(value),
		types.IntegerValue(policy.Flags),
	)
}

// BitXorOp xors bitSize bits at bitOffset with the given bytes.
func BitXorOp(policy BitPolicy, bin string, bitOffset, bitSize int64, value []byte) *Operation {
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpXor,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
		types.BlobValue(value),
		types.IntegerValue(policy.Flags),
	)
}

// BitAndOp ands bitSize bits at bitOffset with the given bytes.
func BitAndOp(policy BitPolicy, bin string, bitOffset, bitSize int64, value []byte) *Operation {
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpAnd,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
		types.BlobValue(value),
		types.IntegerValue(policy.Flags),
	)
}

// BitNotOp negates bitSize bits at bitOffset.
func BitNotOp(policy BitPolicy, bin string, bitOffset, bitSize int64) *Operation {
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpNot,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
		types.IntegerValue(policy.Flags),
	)
}

// BitLShiftOp shifts bitSize bits at bitOffset left by shift.
func BitLShiftOp(policy BitPolicy, bin string, bitOffset, bitSize, shift int64) *Operation {
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpLShift,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
		types.IntegerValue(shift),
		types.IntegerValue(policy.Flags),
	)
}

// BitRShiftOp shifts bitSize bits at bitOffset right by shift.
func BitRShiftOp(policy BitPolicy, bin string, bitOffset, bitSize, shift int64) *Operation {
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpRShift,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
		types.IntegerValue(shift),
		types.IntegerValue(policy.Flags),
	)
}

// bitActionFlags folds the signed bit into the overflow action byte.
func bitActionFlags(action BitOverflowAction, signed bool) int64 {
	flags := int64(action)
	if signed {
		flags |= 1
	}
	return flags
}

// BitAddOp adds value to the bitSize bits at bitOffset. BitSize must be at
// most 64.
func BitAddOp(policy BitPolicy, bin string, bitOffset, bitSize, value int64, signed bool, action BitOverflowAction) *Operation {
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpAdd,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
		types.IntegerValue(value),
		types.IntegerValue(policy.Flags),
		types.IntegerValue(bitActionFlags(action, signed)),
	)
}

// BitSubtractOp subtracts value from the bitSize bits at bitOffset. BitSize
// must be at most 64.
func BitSubtractOp(policy BitPolicy, bin string, bitOffset, bitSize, value int64, signed bool, action BitOverflowAction) *Operation {
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpSubtract,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
		types.IntegerValue(value),
		types.IntegerValue(policy.Flags),
		types.IntegerValue(bitActionFlags(action, signed)),
	)
}

// BitSetIntOp writes value into the bitSize bits at bitOffset. BitSize must
// be at most 64.
func BitSetIntOp(policy BitPolicy, bin string, bitOffset, bitSize, value int64) *Operation {
	return newCDTOp(OpBitWrite, familyBit, bin, BitOpSetInt,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
		types.IntegerValue(value),
		types.IntegerValue(policy.Flags),
	)
}

// BitGetOp returns the bitSize bits at bitOffset.
func BitGetOp(bin string, bitOffset, bitSize int64) *Operation {
	return newCDTOp(OpBitRead, familyBit, bin, BitOpGet,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
	)
}

// BitCountOp returns the number of set bits among the bitSize bits at
// bitOffset.
func BitCountOp(bin string, bitOffset, bitSize int64) *Operation {
	return newCDTOp(OpBitRead, familyBit, bin, BitOpCount,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
	)
}

// BitLScanOp returns the offset of the first bit equal to value, scanning
// left to right.
func BitLScanOp(bin string, bitOffset, bitSize int64, value bool) *Operation {
	return newCDTOp(OpBitRead, familyBit, bin, BitOpLScan,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
		types.BoolValue(value),
	)
}

// BitRScanOp returns the offset of the last bit equal to value, scanning
// right to left.
func BitRScanOp(bin string, bitOffset, bitSize int64, value bool) *Operation {
	return newCDTOp(OpBitRead, familyBit, bin, BitOpRScan,
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
		types.BoolValue(value),
	)
}

// BitGetIntOp returns the bitSize bits at bitOffset as an integer.
func BitGetIntOp(bin string, bitOffset, bitSize int64, signed bool) *Operation {
	args := []types.Value{
		types.IntegerValue(bitOffset),
		types.IntegerValue(bitSize),
	}
	if signed {
		args = append(args, types.IntegerValue(1))
	}
	return newCDTOp(OpBitRead, familyBit, bin, BitOpGetInt, args...)
}

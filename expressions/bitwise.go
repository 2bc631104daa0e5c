package expressions

import (
	"github.com/jeeves-cluster-organization/aerowire/operations"
)

// Bitwise expressions compile to CDT module calls under module id 1.

const bitModule int64 = 1

func bitAddWrite(binExp *FilterExpression, args []expArg) *FilterExpression {
	return &FilterExpression{
		cmd:       expOpCall,
		bin:       binExp,
		flags:     bitModule | modifyFlag,
		module:    TypeBlob,
		arguments: args,
	}
}

func bitAddRead(binExp *FilterExpression, returnType ExpType, args []expArg) *FilterExpression {
	return &FilterExpression{
		cmd:       expOpCall,
		bin:       binExp,
		flags:     bitModule,
		module:    returnType,
		arguments: args,
	}
}

// BitResize resizes the byte array to byteSize.
func BitResize(policy operations.BitPolicy, byteSize *FilterExpression, resizeFlags operations.BitResizeFlags, binExp *FilterExpression) *FilterExpression {
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpResize)),
		argExp(byteSize),
		argInt(int64(policy.Flags)),
		argInt(int64(resizeFlags)),
	})
}

// BitInsert inserts the value bytes at byteOffset.
func BitInsert(policy operations.BitPolicy, byteOffset, value, binExp *FilterExpression) *FilterExpression {
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpInsert)),
		argExp(byteOffset),
		argExp(value),
		argInt(int64(policy.Flags)),
	})
}

// BitRemove removes byteSize bytes at byteOffset.
func BitRemove(policy operations.BitPolicy, byteOffset, byteSize, binExp *FilterExpression) *FilterExpression {
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpRemove)),
		argExp(byteOffset),
		argExp(byteSize),
		argInt(int64(policy.Flags)),
	})
}

// BitSet overwrites bitSize bits at bitOffset with the value bytes.
func BitSet(policy operations.BitPolicy, bitOffset, bitSize, value, binExp *FilterExpression) *FilterExpression {
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpSet)),
		argExp(bitOffset),
		argExp(bitSize),
		argExp(value),
		argInt(int64(policy.Flags)),
	})
}

// BitOr ors bitSize bits at bitOffset with the value bytes.
func BitOr(policy operations.BitPolicy, bitOffset, bitSize, value, binExp *FilterExpression) *FilterExpression {
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpOr)),
		argExp(bitOffset),
		argExp(bitSize),
		argExp(value),
		argInt(int64(policy.Flags)),
	})
}

// BitXor xors bitSize bits at bitOffset with the value bytes.
func BitXor(policy operations.BitPolicy, bitOffset, bitSize, value, binExp *FilterExpression) *FilterExpression {
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpXor)),
		argExp(bitOffset),
		argExp(bitSize),
		argExp(value),
		argInt(int64(policy.Flags)),
	})
}

// BitAnd ands bitSize bits at bitOffset with the value bytes.
func BitAnd(policy operations.BitPolicy, bitOffset, bitSize, value, binExp *FilterExpression) *FilterExpression {
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpAnd)),
		argExp(bitOffset),
		argExp(bitSize),
		argExp(value),
		argInt(int64(policy.Flags)),
	})
}

// BitNot negates bitSize bits at bitOffset.
func BitNot(policy operations.BitPolicy, bitOffset, bitSize, binExp *FilterExpression) *FilterExpression {
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpNot)),
		argExp(bitOffset),
		argExp(bitSize),
		argInt(int64(policy.Flags)),
	})
}

// BitLShift shifts bitSize bits at bitOffset left by shift.
func BitLShift(policy operations.BitPolicy, bitOffset, bitSize, shift, binExp *FilterExpression) *FilterExpression {
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpLShift)),
		argExp(bitOffset),
		argExp(bitSize),
		argExp(shift),
		argInt(int64(policy.Flags)),
	})
}

// BitRShift shifts bitSize bits at bitOffset right by shift.
func BitRShift(policy operations.BitPolicy, bitOffset, bitSize, shift, binExp *FilterExpression) *FilterExpression {
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpRShift)),
		argExp(bitOffset),
		argExp(bitSize),
		argExp(shift),
		argInt(int64(policy.Flags)),
	})
}

// BitAdd adds value to the bitSize bits at bitOffset.
func BitAdd(policy operations.BitPolicy, bitOffset, bitSize, value *FilterExpression, signed bool, action operations.BitOverflowAction, binExp *FilterExpression) *FilterExpression {
	flags := int64(action)
	if signed {
		flags |= 1
	}
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpAdd)),
		argExp(bitOffset),
		argExp(bitSize),
		argExp(value),
		argInt(int64(policy.Flags)),
		argInt(flags),
	})
}

// BitSubtract subtracts value from the bitSize bits at bitOffset.
func BitSubtract(policy operations.BitPolicy, bitOffset, bitSize, value *FilterExpression, signed bool, action operations.BitOverflowAction, binExp *FilterExpression) *FilterExpression {
	flags := int64(action)
	if signed {
		flags |= 1
	}
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpSubtract)),
		argExp(bitOffset),
		argExp(bitSize),
		argExp(value),
		argInt(int64(policy.Flags)),
		argInt(flags),
	})
}

// BitSetInt writes value into the bitSize bits at bitOffset.
func BitSetInt(policy operations.BitPolicy, bitOffset, bitSize, value, binExp *FilterExpression) *FilterExpression {
	return bitAddWrite(binExp, []expArg{
		argInt(int64(operations.BitOpSetInt)),
		argExp(bitOffset),
		argExp(bitSize),
		argExp(value),
		argInt(int64(policy.Flags)),
	})
}

// BitGet returns the bitSize bits at bitOffset.
func BitGet(bitOffset, bitSize, binExp *FilterExpression) *FilterExpression {
	return bitAddRead(binExp, TypeBlob, []expArg{
		argInt(int64(operations.BitOpGet)),
		argExp(bitOffset),
		argExp(bitSize),
	})
}

// BitCount counts the set bits among the bitSize bits at bitOffset.
func BitCount(bitOffset, bitSize, binExp *FilterExpression) *FilterExpression {
	return bitAddRead(binExp, TypeInt, []expArg{
		argInt(int64(operations.BitOpCount)),
		argExp(bitOffset),
		argExp(bitSize),
	})
}

// BitLScan returns the offset of the first bit equal to value, scanning
// left to right.
func BitLScan(bitOffset, bitSize, value, binExp *FilterExpression) *FilterExpression {
	return bitAddRead(binExp, TypeInt, []expArg{
		argInt(int64(operations.BitOpLScan)),
		argExp(bitOffset),
		argExp(bitSize),
		argExp(value),
	})
}

// BitRScan returns the offset of the last bit equal to value, scanning
// right to left.
func BitRScan(bitOffset, bitSize, value, binExp *FilterExpression) *FilterExpression {
	return bitAddRead(binExp, TypeInt, []expArg{
		argInt(int64(operations.BitOpRScan)),
		argExp(bitOffset),
		argExp(bitSize),
		argExp(value),
	})
}

// BitGetInt returns the bitSize bits at bitOffset as an integer.
func BitGetInt(bitOffset, bitSize *FilterExpression, signed bool, binExp *FilterExpression) *FilterExpression {
	args := []expArg{
		argInt(int64(operations.BitOpGetInt)),
		argExp(bitOffset),
		argExp(bitSize),
	}
	if signed {
		args = append(args, argInt(1))
	}
	return bitAddRead(binExp, TypeInt, args)
}

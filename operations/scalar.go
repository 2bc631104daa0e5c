package operations

import (
	"github.com/jeeves-cluster-organization/aerowire/types"
)

// Scalar operation constructors.

// GetOp reads all bins of the record.
func GetOp() *Operation {
	return &Operation{opType: OpRead, binKind: binAll}
}

// GetHeaderOp reads only the record header.
func GetHeaderOp() *Operation {
	return &Operation{opType: OpRead, binKind: binNone}
}

// GetBinOp reads one named bin.
func GetBinOp(bin string) *Operation {
	return &Operation{opType: OpRead, binKind: binNamed, binName: bin}
}

// PutOp writes a bin value.
func PutOp(bin *types.Bin) *Operation {
	return &Operation{opType: OpWrite, binKind: binNamed, binName: bin.Name, value: bin.Value}
}

// AppendOp appends to a string or blob bin.
func AppendOp(bin *types.Bin) *Operation {
	return &Operation{opType: OpAppend, binKind: binNamed, binName: bin.Name, value: bin.Value}
}

// PrependOp prepends to a string or blob bin.
func PrependOp(bin *types.Bin) *Operation {
	return &Operation{opType: OpPrepend, binKind: binNamed, binName: bin.Name, value: bin.Value}
}

// AddOp adds to an integer bin.
func AddOp(bin *types.Bin) *Operation {
	return &Operation{opType: OpIncr, binKind: binNamed, binName: bin.Name, value: bin.Value}
}

// TouchOp updates record metadata without touching bins.
func TouchOp() *Operation {
	return &Operation{opType: OpTouch, binKind: binNone}
}

// DeleteOp deletes the record inside an operate command.
func DeleteOp() *Operation {
	return &Operation{opType: OpDelete, binKind: binNone}
}

// =============================================================================
// EXPRESSION OPERATIONS
// =============================================================================

// ExpWriteFlags controls how an expression write applies its result.
type ExpWriteFlags int64

const (
	// ExpWriteDefault allows create or update.
	ExpWriteDefault ExpWriteFlags = 0
	// ExpWriteCreateOnly fails when the bin already exists.
	ExpWriteCreateOnly ExpWriteFlags = 1 << 0
	// ExpWriteUpdateOnly fails when the bin does not exist.
	ExpWriteUpdateOnly ExpWriteFlags = 1 << 1
	// ExpWriteAllowDelete deletes the bin when the expression resolves to
	// nil.
	ExpWriteAllowDelete ExpWriteFlags = 1 << 2
	// ExpWritePolicyNoFail swallows denied operations.
	ExpWritePolicyNoFail ExpWriteFlags = 1 << 3
	// ExpWriteEvalNoFail swallows expressions resolving to unknown or a
	// non-bin type.
	ExpWriteEvalNoFail ExpWriteFlags = 1 << 4
)

// ExpReadFlags controls how an expression read reports failure.
type ExpReadFlags int64

const (
	// ExpReadDefault fails the operation on evaluation errors.
	ExpReadDefault ExpReadFlags = 0
	// ExpReadEvalNoFail swallows expressions resolving to unknown or a
	// non-bin type.
	ExpReadEvalNoFail ExpReadFlags = 1 << 4
)

// ExpWriteOp evaluates an expression server-side and writes the result into
// the named bin.
func ExpWriteOp(bin string, exp ExpressionPacker, flags ExpWriteFlags) *Operation {
	return &Operation{
		opType:  OpExpWrite,
		binKind: binNamed,
		binName: bin,
		exp:     &expPayload{exp: exp, policy: int64(flags)},
	}
}

// ExpReadOp evaluates an expression server-side and returns the result
// under the given name.
func ExpReadOp(name string, exp ExpressionPacker, flags ExpReadFlags) *Operation {
	return &Operation{
		opType:  OpExpRead,
		binKind: binNamed,
		binName: name,
		exp:     &expPayload{exp: exp, policy: int64(flags)},
	}
}

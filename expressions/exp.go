// Package expressions builds server-evaluated filter expressions: a small
// tree DSL of comparisons, logic, arithmetic, bin and metadata accessors,
// variable binding, and CDT module calls, compiled into a single packed
// blob transmitted with the command.
//
// Expressions are immutable once constructed and may be shared across
// concurrent commands.
package expressions

import (
	"github.com/jeeves-cluster-organization/aerowire/msgpack"
	"github.com/jeeves-cluster-organization/aerowire/operations"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// expOp is the expression op code. The integers are part of the
// compatibility contract.
type expOp int16

const (
	// expOpNone marks a value leaf carrying no operation.
	expOpNone expOp = -1

	expOpUnknown      expOp = 0
	expOpEQ           expOp = 1
	expOpNE           expOp = 2
	expOpGT           expOp = 3
	expOpGE           expOp = 4
	expOpLT           expOp = 5
	expOpLE           expOp = 6
	expOpRegex        expOp = 7
	expOpGeo          expOp = 8
	expOpAnd          expOp = 16
	expOpOr           expOp = 17
	expOpNot          expOp = 18
	expOpXor          expOp = 19
	expOpAdd          expOp = 20
	expOpSub          expOp = 21
	expOpMul          expOp = 22
	expOpDiv          expOp = 23
	expOpPow          expOp = 24
	expOpLog          expOp = 25
	expOpMod          expOp = 26
	expOpAbs          expOp = 27
	expOpFloor        expOp = 28
	expOpCeil         expOp = 29
	expOpToInt        expOp = 30
	expOpToFloat      expOp = 31
	expOpIntAnd       expOp = 32
	expOpIntOr        expOp = 33
	expOpIntXor       expOp = 34
	expOpIntNot       expOp = 35
	expOpIntLshift    expOp = 36
	expOpIntRshift    expOp = 37
	expOpIntARshift   expOp = 38
	expOpIntCount     expOp = 39
	expOpIntLscan     expOp = 40
	expOpIntRscan     expOp = 41
	expOpMin          expOp = 50
	expOpMax          expOp = 51
	expOpDigestModulo expOp = 64
	expOpDeviceSize   expOp = 65
	expOpLastUpdate   expOp = 66
	expOpSinceUpdate  expOp = 67
	expOpVoidTime     expOp = 68
	expOpTTL          expOp = 69
	expOpSetName      expOp = 70
	expOpKeyExists    expOp = 71
	expOpIsTombstone  expOp = 72
	expOpKey          expOp = 80
	expOpBin          expOp = 81
	expOpBinType      expOp = 82
	expOpCond         expOp = 123
	expOpVar          expOp = 124
	expOpLet          expOp = 125
	expOpQuoted       expOp = 126
	expOpCall         expOp = 127
)

// modifyFlag marks a CDT module call as mutating.
const modifyFlag int64 = 0x40

// ExpType names the result type of an expression for bin accessors, key
// accessors, and module calls.
type ExpType int64

const (
	// TypeNil is the nil expression type.
	TypeNil ExpType = 0
	// TypeBool is the boolean expression type.
	TypeBool ExpType = 1
	// TypeInt is the integer expression type.
	TypeInt ExpType = 2
	// TypeString is the string expression type.
	TypeString ExpType = 3
	// TypeList is the list expression type.
	TypeList ExpType = 4
	// TypeMap is the map expression type.
	TypeMap ExpType = 5
	// TypeBlob is the blob expression type.
	TypeBlob ExpType = 6
	// TypeFloat is the float expression type.
	TypeFloat ExpType = 7
	// TypeGeo is the geo string expression type.
	TypeGeo ExpType = 8
	// TypeHLL is the HyperLogLog expression type.
	TypeHLL ExpType = 9
)

// expArg is one argument of a CDT module call: a plain value, a nested
// expression, or a context path.
type expArg struct {
	value types.Value
	exp   *FilterExpression
	ctx   []operations.CDTContext
	isCtx bool
}

func argVal(v types.Value) expArg            { return expArg{value: v} }
func argInt(v int64) expArg                  { return expArg{value: types.IntegerValue(v)} }
func argExp(e *FilterExpression) expArg      { return expArg{exp: e} }
func argCtx(c []operations.CDTContext) expArg { return expArg{ctx: c, isCtx: true} }

// FilterExpression is one node of an expression tree. Nodes form a finite
// tree; a node never appears twice in one tree.
type FilterExpression struct {
	// cmd is the op code, or expOpNone for a value leaf.
	cmd expOp
	// val is the leaf value, bin name, or regex pattern.
	val types.Value
	// bin is the target of regex and module call nodes.
	bin *FilterExpression
	// flags carries regex flags or the module id of a call.
	flags int64
	// module is the expression type of bin accessors and module calls.
	module ExpType
	// exps are the node's children.
	exps []*FilterExpression
	// arguments are the module call arguments.
	arguments []expArg
}

// Size returns the packed size of the expression blob.
func (fe *FilterExpression) Size() (int, error) {
	return fe.pack(nil)
}

// PackExpression encodes the expression tree at the buffer cursor; a nil
// buffer sizes only. It satisfies the operation layer's expression surface.
func (fe *FilterExpression) PackExpression(buf *wire.Buffer) (int, error) {
	return fe.pack(buf)
}

func (fe *FilterExpression) pack(buf *wire.Buffer) (int, error) {
	switch {
	case fe.exps != nil:
		return fe.packChildren(buf)
	case fe.cmd != expOpNone:
		return fe.packCommand(buf)
	default:
		return msgpack.PackValue(buf, fe.val)
	}
}

// packChildren encodes nodes that carry sub-expressions. A node with both a
// value and children is a Def binding: name, then the bound expression.
func (fe *FilterExpression) packChildren(buf *wire.Buffer) (int, error) {
	size := 0
	if fe.val != nil {
		size += msgpack.PackRawString(buf, fe.val.String())
		n, err := fe.exps[0].pack(buf)
		if err != nil {
			return 0, err
		}
		return size + n, nil
	}

	if fe.cmd == expOpLet {
		// Let wire format: LET name1, def1, name2, def2, ..., scope.
		size += msgpack.PackArrayBegin(buf, (len(fe.exps)-1)*2+2)
	} else {
		size += msgpack.PackArrayBegin(buf, len(fe.exps)+1)
	}
	size += msgpack.PackInt64(buf, int64(fe.cmd))
	for _, exp := range fe.exps {
		n, err := exp.pack(buf)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

func (fe *FilterExpression) packCommand(buf *wire.Buffer) (int, error) {
	size := 0
	switch fe.cmd {
	case expOpRegex:
		size += msgpack.PackArrayBegin(buf, 4)
		size += msgpack.PackInt64(buf, int64(fe.cmd))
		size += msgpack.PackInt64(buf, fe.flags)
		size += msgpack.PackRawString(buf, fe.val.String())
		n, err := fe.bin.pack(buf)
		if err != nil {
			return 0, err
		}
		size += n

	case expOpCall:
		size += msgpack.PackArrayBegin(buf, 5)
		size += msgpack.PackInt64(buf, int64(fe.cmd))
		size += msgpack.PackInt64(buf, int64(fe.module))
		size += msgpack.PackInt64(buf, fe.flags)
		n, err := fe.packCallArgs(buf)
		if err != nil {
			return 0, err
		}
		size += n
		n, err = fe.bin.pack(buf)
		if err != nil {
			return 0, err
		}
		size += n

	case expOpBin:
		size += msgpack.PackArrayBegin(buf, 3)
		size += msgpack.PackInt64(buf, int64(fe.cmd))
		size += msgpack.PackInt64(buf, int64(fe.module))
		size += msgpack.PackRawString(buf, fe.val.String())

	case expOpBinType, expOpVar:
		size += msgpack.PackArrayBegin(buf, 2)
		size += msgpack.PackInt64(buf, int64(fe.cmd))
		size += msgpack.PackRawString(buf, fe.val.String())

	default:
		if fe.val != nil {
			size += msgpack.PackArrayBegin(buf, 2)
			size += msgpack.PackInt64(buf, int64(fe.cmd))
			n, err := msgpack.PackValue(buf, fe.val)
			if err != nil {
				return 0, err
			}
			size += n
		} else {
			size += msgpack.PackArrayBegin(buf, 1)
			size += msgpack.PackInt64(buf, int64(fe.cmd))
		}
	}
	return size, nil
}

// packCallArgs encodes the argument block of a module call. A non-empty
// context argument becomes a prefix before the argument array; value and
// expression arguments are counted first, then written.
func (fe *FilterExpression) packCallArgs(buf *wire.Buffer) (int, error) {
	if fe.arguments == nil {
		return msgpack.PackValue(buf, fe.val)
	}

	size := 0
	count := 0
	for _, arg := range fe.arguments {
		if arg.isCtx {
			if len(arg.ctx) == 0 {
				continue
			}
			size += msgpack.PackArrayBegin(buf, 3)
			size += msgpack.PackInt64(buf, 0xff)
			size += msgpack.PackArrayBegin(buf, len(arg.ctx)*2)
			for _, c := range arg.ctx {
				size += msgpack.PackInt64(buf, int64(c.ID))
				n, err := msgpack.PackValue(buf, c.Value)
				if err != nil {
					return 0, err
				}
				size += n
			}
			continue
		}
		count++
	}

	size += msgpack.PackArrayBegin(buf, count)
	for _, arg := range fe.arguments {
		switch {
		case arg.isCtx:
		case arg.exp != nil:
			n, err := arg.exp.pack(buf)
			if err != nil {
				return 0, err
			}
			size += n
		default:
			n, err := msgpack.PackValue(buf, arg.value)
			if err != nil {
				return 0, err
			}
			size += n
		}
	}
	return size, nil
}

// =============================================================================
// KEY AND METADATA ACCESSORS
// =============================================================================

// Key creates a record key accessor of the given type.
func Key(expType ExpType) *FilterExpression {
	return &FilterExpression{cmd: expOpKey, val: types.IntegerValue(expType)}
}

// KeyExists reports whether the user key is stored with the record.
func KeyExists() *FilterExpression {
	return &FilterExpression{cmd: expOpKeyExists}
}

// SetName returns the record set name.
func SetName() *FilterExpression {
	return &FilterExpression{cmd: expOpSetName}
}

// DeviceSize returns the record size on disk, zero for memory namespaces.
func DeviceSize() *FilterExpression {
	return &FilterExpression{cmd: expOpDeviceSize}
}

// LastUpdate returns the record last-update time in nanoseconds since
// epoch.
func LastUpdate() *FilterExpression {
	return &FilterExpression{cmd: expOpLastUpdate}
}

// SinceUpdate returns the milliseconds since the record was last updated.
func SinceUpdate() *FilterExpression {
	return &FilterExpression{cmd: expOpSinceUpdate}
}

// VoidTime returns the record expiration time in nanoseconds since epoch.
func VoidTime() *FilterExpression {
	return &FilterExpression{cmd: expOpVoidTime}
}

// TTL returns the record time to live in seconds.
func TTL() *FilterExpression {
	return &FilterExpression{cmd: expOpTTL}
}

// IsTombstone reports whether the record is deleted but still in tombstone
// state.
func IsTombstone() *FilterExpression {
	return &FilterExpression{cmd: expOpIsTombstone}
}

// DigestModulo returns the record digest modulo the given value.
func DigestModulo(modulo int64) *FilterExpression {
	return &FilterExpression{cmd: expOpDigestModulo, val: types.IntegerValue(modulo)}
}

// =============================================================================
// BIN ACCESSORS
// =============================================================================

func bin(name string, expType ExpType) *FilterExpression {
	return &FilterExpression{cmd: expOpBin, val: types.StringValue(name), module: expType}
}

// IntBin creates a 64 bit integer bin accessor.
func IntBin(name string) *FilterExpression { return bin(name, TypeInt) }

// StringBin creates a string bin accessor.
func StringBin(name string) *FilterExpression { return bin(name, TypeString) }

// BlobBin creates a blob bin accessor.
func BlobBin(name string) *FilterExpression { return bin(name, TypeBlob) }

// FloatBin creates a float bin accessor.
func FloatBin(name string) *FilterExpression { return bin(name, TypeFloat) }

// BoolBin creates a boolean bin accessor.
func BoolBin(name string) *FilterExpression { return bin(name, TypeBool) }

// GeoBin creates a geo bin accessor.
func GeoBin(name string) *FilterExpression { return bin(name, TypeGeo) }

// ListBin creates a list bin accessor.
func ListBin(name string) *FilterExpression { return bin(name, TypeList) }

// MapBin creates a map bin accessor.
func MapBin(name string) *FilterExpression { return bin(name, TypeMap) }

// HLLBin creates a HyperLogLog bin accessor.
func HLLBin(name string) *FilterExpression { return bin(name, TypeHLL) }

// BinType returns the integer particle type of the named bin.
func BinType(name string) *FilterExpression {
	return &FilterExpression{cmd: expOpBinType, val: types.StringValue(name)}
}

// BinExists reports whether the named bin exists.
func BinExists(name string) *FilterExpression {
	return NotEq(BinType(name), IntVal(int64(types.ParticleNull)))
}

// =============================================================================
// VALUE LEAVES
// =============================================================================

// IntVal creates an integer value leaf.
func IntVal(v int64) *FilterExpression {
	return &FilterExpression{cmd: expOpNone, val: types.IntegerValue(v)}
}

// BoolVal creates a boolean value leaf.
func BoolVal(v bool) *FilterExpression {
	return &FilterExpression{cmd: expOpNone, val: types.BoolValue(v)}
}

// StringVal creates a string value leaf.
func StringVal(v string) *FilterExpression {
	return &FilterExpression{cmd: expOpNone, val: types.StringValue(v)}
}

// FloatVal creates a float value leaf.
func FloatVal(v float64) *FilterExpression {
	return &FilterExpression{cmd: expOpNone, val: types.FloatValue(v)}
}

// BlobVal creates a blob value leaf.
func BlobVal(v []byte) *FilterExpression {
	return &FilterExpression{cmd: expOpNone, val: types.BlobValue(v)}
}

// GeoVal creates a geo string value leaf.
func GeoVal(v string) *FilterExpression {
	return &FilterExpression{cmd: expOpNone, val: types.GeoJSONValue(v)}
}

// NilVal creates a nil value leaf.
func NilVal() *FilterExpression {
	return &FilterExpression{cmd: expOpNone, val: types.NullValue{}}
}

// ListVal creates a quoted list value. Quoting keeps the server from
// interpreting the list as a sub-program.
func ListVal(v types.ListValue) *FilterExpression {
	return &FilterExpression{cmd: expOpQuoted, val: v}
}

// MapVal creates a map value leaf.
func MapVal(v types.MapValue) *FilterExpression {
	return &FilterExpression{cmd: expOpNone, val: v}
}

// Unknown creates a value that intentionally fails evaluation. The failure
// is swallowed when the enclosing operation sets an eval-no-fail flag.
func Unknown() *FilterExpression {
	return &FilterExpression{cmd: expOpUnknown}
}

// =============================================================================
// COMPARISON AND LOGIC
// =============================================================================

func pair(cmd expOp, left, right *FilterExpression) *FilterExpression {
	return &FilterExpression{cmd: cmd, exps: []*FilterExpression{left, right}}
}

func variadic(cmd expOp, exps []*FilterExpression) *FilterExpression {
	return &FilterExpression{cmd: cmd, exps: exps}
}

// Eq creates an equality comparison.
func Eq(left, right *FilterExpression) *FilterExpression { return pair(expOpEQ, left, right) }

// NotEq creates an inequality comparison.
func NotEq(left, right *FilterExpression) *FilterExpression { return pair(expOpNE, left, right) }

// Gt creates a greater-than comparison.
func Gt(left, right *FilterExpression) *FilterExpression { return pair(expOpGT, left, right) }

// GtEq creates a greater-or-equal comparison.
func GtEq(left, right *FilterExpression) *FilterExpression { return pair(expOpGE, left, right) }

// Lt creates a less-than comparison.
func Lt(left, right *FilterExpression) *FilterExpression { return pair(expOpLT, left, right) }

// LtEq creates a less-or-equal comparison.
func LtEq(left, right *FilterExpression) *FilterExpression { return pair(expOpLE, left, right) }

// RegexCompare matches a string bin against a POSIX regex with the given
// flags.
func RegexCompare(regex string, flags RegexFlag, binExp *FilterExpression) *FilterExpression {
	return &FilterExpression{
		cmd:   expOpRegex,
		val:   types.StringValue(regex),
		bin:   binExp,
		flags: int64(flags),
	}
}

// GeoCompare compares two geospatial expressions for containment.
func GeoCompare(left, right *FilterExpression) *FilterExpression {
	return pair(expOpGeo, left, right)
}

// And requires every expression to be true.
func And(exps ...*FilterExpression) *FilterExpression { return variadic(expOpAnd, exps) }

// Or requires at least one expression to be true.
func Or(exps ...*FilterExpression) *FilterExpression { return variadic(expOpOr, exps) }

// Not negates the expression.
func Not(exp *FilterExpression) *FilterExpression {
	return variadic(expOpNot, []*FilterExpression{exp})
}

// Xor requires an odd number of the expressions to be true.
func Xor(exps ...*FilterExpression) *FilterExpression { return variadic(expOpXor, exps) }

// =============================================================================
// ARITHMETIC
// =============================================================================

// NumAdd sums the expressions. All must resolve to the same numeric type.
func NumAdd(exps ...*FilterExpression) *FilterExpression { return variadic(expOpAdd, exps) }

// NumSub subtracts the tail from the head; a single argument negates.
func NumSub(exps ...*FilterExpression) *FilterExpression { return variadic(expOpSub, exps) }

// NumMul multiplies the expressions.
func NumMul(exps ...*FilterExpression) *FilterExpression { return variadic(expOpMul, exps) }

// NumDiv divides the head by the product of the tail; a single argument
// takes the reciprocal.
func NumDiv(exps ...*FilterExpression) *FilterExpression { return variadic(expOpDiv, exps) }

// NumPow raises base to exponent. Floats only.
func NumPow(base, exponent *FilterExpression) *FilterExpression {
	return pair(expOpPow, base, exponent)
}

// NumLog takes the logarithm of num with the given base. Floats only.
func NumLog(num, base *FilterExpression) *FilterExpression {
	return pair(expOpLog, num, base)
}

// NumMod takes the remainder of numerator divided by denominator. Integers
// only.
func NumMod(numerator, denominator *FilterExpression) *FilterExpression {
	return pair(expOpMod, numerator, denominator)
}

// NumAbs takes the absolute value.
func NumAbs(value *FilterExpression) *FilterExpression {
	return variadic(expOpAbs, []*FilterExpression{value})
}

// NumFloor rounds down to the closest integral float.
func NumFloor(num *FilterExpression) *FilterExpression {
	return variadic(expOpFloor, []*FilterExpression{num})
}

// NumCeil rounds up to the closest integral float.
func NumCeil(num *FilterExpression) *FilterExpression {
	return variadic(expOpCeil, []*FilterExpression{num})
}

// ToInt converts a float to an integer.
func ToInt(num *FilterExpression) *FilterExpression {
	return variadic(expOpToInt, []*FilterExpression{num})
}

// ToFloat converts an integer to a float.
func ToFloat(num *FilterExpression) *FilterExpression {
	return variadic(expOpToFloat, []*FilterExpression{num})
}

// =============================================================================
// INTEGER BIT OPERATIONS
// =============================================================================

// IntAnd ands two or more integers.
func IntAnd(exps ...*FilterExpression) *FilterExpression { return variadic(expOpIntAnd, exps) }

// IntOr ors two or more integers.
func IntOr(exps ...*FilterExpression) *FilterExpression { return variadic(expOpIntOr, exps) }

// IntXor xors two or more integers.
func IntXor(exps ...*FilterExpression) *FilterExpression { return variadic(expOpIntXor, exps) }

// IntNot complements an integer.
func IntNot(exp *FilterExpression) *FilterExpression {
	return variadic(expOpIntNot, []*FilterExpression{exp})
}

// IntLShift shifts left.
func IntLShift(value, shift *FilterExpression) *FilterExpression {
	return pair(expOpIntLshift, value, shift)
}

// IntRShift shifts right, filling with zeros.
func IntRShift(value, shift *FilterExpression) *FilterExpression {
	return pair(expOpIntRshift, value, shift)
}

// IntARShift shifts right, preserving the sign bit.
func IntARShift(value, shift *FilterExpression) *FilterExpression {
	return pair(expOpIntARshift, value, shift)
}

// IntCount counts the set bits.
func IntCount(exp *FilterExpression) *FilterExpression {
	return variadic(expOpIntCount, []*FilterExpression{exp})
}

// IntLScan scans from the most significant bit for the search value and
// returns its index.
func IntLScan(value, search *FilterExpression) *FilterExpression {
	return pair(expOpIntLscan, value, search)
}

// IntRScan scans from the least significant bit for the search value and
// returns its index.
func IntRScan(value, search *FilterExpression) *FilterExpression {
	return pair(expOpIntRscan, value, search)
}

// Min returns the smallest of the expressions.
func Min(exps ...*FilterExpression) *FilterExpression { return variadic(expOpMin, exps) }

// Max returns the largest of the expressions.
func Max(exps ...*FilterExpression) *FilterExpression { return variadic(expOpMax, exps) }

// =============================================================================
// VARIABLES AND CONTROL
// =============================================================================

// Cond selects from condition/action pairs followed by a default action.
func Cond(exps ...*FilterExpression) *FilterExpression { return variadic(expOpCond, exps) }

// Let introduces Def bindings followed by the scope expression that uses
// them.
func Let(exps ...*FilterExpression) *FilterExpression { return variadic(expOpLet, exps) }

// Def binds a name to an expression inside a Let scope.
func Def(name string, value *FilterExpression) *FilterExpression {
	return &FilterExpression{
		cmd:  expOpNone,
		val:  types.StringValue(name),
		exps: []*FilterExpression{value},
	}
}

// Var retrieves a value bound by Def.
func Var(name string) *FilterExpression {
	return &FilterExpression{cmd: expOpVar, val: types.StringValue(name)}
}

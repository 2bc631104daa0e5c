// Package operations provides the polymorphic operation values used by
// operate-style commands: scalar reads and writes, CDT list and map
// operations, bitwise and HyperLogLog operations, and filter-expression
// reads and writes. Operations are immutable once constructed and may be
// shared across concurrent commands.
package operations

import (
	"github.com/jeeves-cluster-organization/aerowire/msgpack"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// OperationType is the op-frame type byte.
type OperationType uint8

// Operation types. The integers are part of the compatibility contract.
const (
	OpRead     OperationType = 1
	OpWrite    OperationType = 2
	OpCDTRead  OperationType = 3
	OpCDTWrite OperationType = 4
	OpIncr     OperationType = 5
	OpExpRead  OperationType = 7
	OpExpWrite OperationType = 8
	OpAppend   OperationType = 9
	OpPrepend  OperationType = 10
	OpTouch    OperationType = 11
	OpBitRead  OperationType = 12
	OpBitWrite OperationType = 13
	OpDelete   OperationType = 14
	OpHLLRead  OperationType = 15
	OpHLLWrite OperationType = 16
)

type binKind uint8

const (
	binNone binKind = iota
	binAll
	binNamed
)

// ExpressionPacker is implemented by filter expressions. The operations
// package depends only on this surface, so expression construction can live
// in its own package.
type ExpressionPacker interface {
	// PackExpression encodes the expression tree; a nil buffer sizes only.
	PackExpression(buf *wire.Buffer) (int, error)
}

type expPayload struct {
	exp    ExpressionPacker
	policy int64
}

// Operation describes one entry of an operate-style command: an op type, an
// optional context path into a nested collection, a bin selector, and a
// payload.
type Operation struct {
	opType  OperationType
	ctx     []CDTContext
	binKind binKind
	binName string

	value types.Value
	cdt   *CDTOperation
	exp   *expPayload
}

// Type returns the op-frame type byte.
func (op *Operation) Type() OperationType { return op.opType }

// BinName returns the bin name, empty for all-bins and no-bin selectors.
func (op *Operation) BinName() string { return op.binName }

// IsBinAll reports whether the operation addresses every bin.
func (op *Operation) IsBinAll() bool { return op.binKind == binAll }

// IsBinNone reports whether the operation addresses no bin.
func (op *Operation) IsBinNone() bool { return op.binKind == binNone }

// WithContext returns a copy of the operation addressed through the given
// context path. HLL operations ignore context; the server does not support
// nested HLL.
func (op *Operation) WithContext(ctx ...CDTContext) *Operation {
	next := *op
	next.ctx = ctx
	return &next
}

// IsRead reports whether the operation is read flavored.
func (op *Operation) IsRead() bool {
	switch op.opType {
	case OpRead, OpCDTRead, OpBitRead, OpHLLRead, OpExpRead:
		return true
	}
	return false
}

// IsWrite reports whether the operation is write flavored.
func (op *Operation) IsWrite() bool {
	return !op.IsRead()
}

// IsMapOp reports whether the operation targets the map CDT module. Map
// operations force the respond-all-ops message attribute, because their
// composite single response confuses per-op result parsing otherwise.
func (op *Operation) IsMapOp() bool {
	return op.cdt != nil && op.cdt.family == familyMap
}

// particleType returns the particle byte of the op frame.
func (op *Operation) particleType() types.ParticleType {
	switch {
	case op.cdt != nil:
		return types.ParticleBlob
	case op.exp != nil:
		return types.ParticleBlob
	case op.value != nil:
		return op.value.ParticleType()
	}
	return types.ParticleNull
}

// EstimateSize returns the size of the op frame body: bin name plus payload,
// excluding the fixed op header.
func (op *Operation) EstimateSize() (int, error) {
	size := len(op.binName)
	switch {
	case op.cdt != nil:
		n, err := op.cdt.estimateSize(op.ctx)
		if err != nil {
			return 0, err
		}
		size += n
	case op.exp != nil:
		n, err := op.packExp(nil)
		if err != nil {
			return 0, err
		}
		size += n
	case op.value != nil:
		n, err := msgpack.EstimateValue(op.value)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

// WriteTo appends the complete op frame at the buffer cursor and returns
// the bytes written, including the fixed header.
func (op *Operation) WriteTo(buf *wire.Buffer) (int, error) {
	bodySize, err := op.EstimateSize()
	if err != nil {
		return 0, err
	}

	size := buf.WriteUint32(uint32(bodySize + 4))
	size += buf.WriteUint8(uint8(op.opType))
	size += buf.WriteUint8(uint8(op.particleType()))
	size += buf.WriteUint8(0)
	size += buf.WriteUint8(uint8(len(op.binName)))
	size += buf.WriteString(op.binName)

	switch {
	case op.cdt != nil:
		n, err := op.cdt.writeTo(buf, op.ctx)
		if err != nil {
			return 0, err
		}
		size += n
	case op.exp != nil:
		n, err := op.packExp(buf)
		if err != nil {
			return 0, err
		}
		size += n
	case op.value != nil:
		n, err := msgpack.WriteValue(buf, op.value)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

// packExp encodes the expression payload: the packed tree followed by the
// read or write policy flags.
func (op *Operation) packExp(buf *wire.Buffer) (int, error) {
	size := msgpack.PackArrayBegin(buf, 2)
	n, err := op.exp.exp.PackExpression(buf)
	if err != nil {
		return 0, err
	}
	size += n
	size += msgpack.PackInt64(buf, op.exp.policy)
	return size, nil
}

package operations

import (
	"github.com/jeeves-cluster-organization/aerowire/msgpack"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// cdtFamily selects the argument-stream shape of a CDT operation. The
// families share one flat op-code space but differ in how the op code is
// packed without context and in whether context is encoded at all.
type cdtFamily uint8

const (
	familyList cdtFamily = iota
	familyMap
	familyBit
	familyHLL
)

// ctxMarker announces a context spec in a CDT argument stream. The op code
// that follows it appears inside the wrapping array rather than as a raw
// u16.
const ctxMarker = 0xff

// CDTOperation is the op code and argument vector of one collection
// operation. Arguments are plain protocol values; byte and integer
// arguments pack identically through the integer encoder.
type CDTOperation struct {
	op     uint16
	family cdtFamily
	args   []types.Value
}

func (c *CDTOperation) estimateSize(ctx []CDTContext) (int, error) {
	return c.pack(nil, ctx)
}

func (c *CDTOperation) writeTo(buf *wire.Buffer, ctx []CDTContext) (int, error) {
	return c.pack(buf, ctx)
}

func (c *CDTOperation) pack(buf *wire.Buffer, ctx []CDTContext) (int, error) {
	switch c.family {
	case familyBit:
		return c.packBitOp(buf, ctx)
	case familyHLL:
		return c.packHLLOp(buf)
	default:
		return c.packCDTOp(buf, ctx)
	}
}

// packCDTOp encodes a list or map operation. Without context the op code is
// a raw big-endian u16 followed by an optional argument array. With context
// the whole stream becomes [0xff, [id, value, ...], [op, args...]].
func (c *CDTOperation) packCDTOp(buf *wire.Buffer, ctx []CDTContext) (int, error) {
	size := 0
	if len(ctx) == 0 {
		size += msgpack.PackRawU16(buf, c.op)
		if len(c.args) > 0 {
			size += msgpack.PackArrayBegin(buf, len(c.args))
		}
	} else {
		size += msgpack.PackArrayBegin(buf, 3)
		size += msgpack.PackInt64(buf, ctxMarker)
		n, err := packContext(buf, ctx)
		if err != nil {
			return 0, err
		}
		size += n
		size += msgpack.PackArrayBegin(buf, len(c.args)+1)
		size += msgpack.PackInt64(buf, int64(c.op))
	}

	for _, arg := range c.args {
		n, err := msgpack.PackValue(buf, arg)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

// packBitOp encodes a bitwise operation. With context it emits the same
// [0xff, [id, value, ...], [op, args...]] shape as list and map ops; unlike
// them, the op code is always packed inside the op array, never as a raw u16.
func (c *CDTOperation) packBitOp(buf *wire.Buffer, ctx []CDTContext) (int, error) {
	size := 0
	if len(ctx) > 0 {
		size += msgpack.PackArrayBegin(buf, 3)
		size += msgpack.PackInt64(buf, ctxMarker)
		n, err := packContext(buf, ctx)
		if err != nil {
			return 0, err
		}
		size += n
	}

	size += msgpack.PackArrayBegin(buf, len(c.args)+1)
	size += msgpack.PackInt64(buf, int64(c.op))

	for _, arg := range c.args {
		n, err := msgpack.PackValue(buf, arg)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

// packHLLOp encodes a HyperLogLog operation. Context is ignored; the server
// does not support nested HLL.
func (c *CDTOperation) packHLLOp(buf *wire.Buffer) (int, error) {
	size := msgpack.PackArrayBegin(buf, len(c.args)+1)
	size += msgpack.PackInt64(buf, int64(c.op))

	for _, arg := range c.args {
		n, err := msgpack.PackValue(buf, arg)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

// packContext encodes the flat id/value pair array of a context path.
func packContext(buf *wire.Buffer, ctx []CDTContext) (int, error) {
	size := msgpack.PackArrayBegin(buf, len(ctx)*2)
	for _, c := range ctx {
		size += msgpack.PackInt64(buf, int64(c.ID|c.Flags))
		n, err := msgpack.PackValue(buf, c.Value)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

func newCDTOp(opType OperationType, family cdtFamily, bin string, op uint16, args ...types.Value) *Operation {
	return &Operation{
		opType:  opType,
		binKind: binNamed,
		binName: bin,
		cdt:     &CDTOperation{op: op, family: family, args: args},
	}
}

// Package commands assembles complete protocol messages for each request
// shape - single-record writes, deletes, touches, reads, operates, UDF
// applies, scans, queries, and batches - and parses the responses back into
// records.
//
// Every assembler walks its inputs twice: once accumulating sizes into the
// buffer cursor, then again writing into the exactly-sized buffer. The two
// walks must traverse the inputs in the same order.
package commands

import (
	"github.com/jeeves-cluster-organization/aerowire/expressions"
	"github.com/jeeves-cluster-organization/aerowire/msgpack"
	"github.com/jeeves-cluster-organization/aerowire/operations"
	"github.com/jeeves-cluster-organization/aerowire/policy"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// Command wraps one command buffer for the duration of a single request.
type Command struct {
	buf *wire.Buffer
}

// NewCommand creates a command with a fresh buffer.
func NewCommand() *Command {
	return &Command{buf: wire.NewBuffer()}
}

// NewCommandWithBuffer wraps an existing buffer, letting the transport pool
// allocations across requests.
func NewCommandWithBuffer(buf *wire.Buffer) *Command {
	return &Command{buf: buf}
}

// Buffer exposes the underlying buffer for the transport and the response
// parser.
func (c *Command) Buffer() *wire.Buffer {
	return c.buf
}

// Bytes returns the finished frame.
func (c *Command) Bytes() []byte {
	return c.buf.Data
}

// =============================================================================
// HEADER WRITERS
// =============================================================================

// writeHeader fills the remaining header for read-style commands.
func (c *Command) writeHeader(base *policy.BasePolicy, readAttr, writeAttr uint8, fieldCount, opCount uint16) {
	if base.ConsistencyLevel == policy.ConsistencyAll {
		readAttr |= wire.Info1ConsistencyAll
	}

	buf := c.buf
	buf.DataOffset = 8
	buf.WriteUint8(wire.RemainingHeaderSize)
	buf.WriteUint8(readAttr)
	buf.WriteUint8(writeAttr)
	for i := 0; i < 15; i++ {
		buf.WriteUint8(0)
	}
	buf.WriteUint16(fieldCount)
	buf.WriteUint16(opCount)
	buf.DataOffset = wire.TotalHeaderSize
}

// writeHeaderWithPolicy fills the remaining header for write-style
// commands, deriving generation, expiration, and attribute bits from the
// write policy.
func (c *Command) writeHeaderWithPolicy(wp *policy.WritePolicy, readAttr, writeAttr uint8, fieldCount, opCount uint16) {
	var generation uint32
	var infoAttr uint8

	switch wp.RecordExistsAction {
	case policy.Update:
	case policy.UpdateOnly:
		infoAttr |= wire.Info3UpdateOnly
	case policy.Replace:
		infoAttr |= wire.Info3CreateOrReplace
	case policy.ReplaceOnly:
		infoAttr |= wire.Info3ReplaceOnly
	case policy.CreateOnly:
		writeAttr |= wire.Info2CreateOnly
	}

	switch wp.GenerationPolicy {
	case policy.GenerationIgnore:
	case policy.ExpectGenEqual:
		generation = wp.Generation
		writeAttr |= wire.Info2Generation
	case policy.ExpectGenGreater:
		generation = wp.Generation
		writeAttr |= wire.Info2GenerationGT
	}

	if wp.CommitLevel == policy.CommitMaster {
		infoAttr |= wire.Info3CommitMaster
	}
	if wp.ConsistencyLevel == policy.ConsistencyAll {
		readAttr |= wire.Info1ConsistencyAll
	}
	if wp.DurableDelete {
		writeAttr |= wire.Info2DurableDelete
	}

	buf := c.buf
	buf.DataOffset = 8
	buf.WriteUint8(wire.RemainingHeaderSize)
	buf.WriteUint8(readAttr)
	buf.WriteUint8(writeAttr)
	buf.WriteUint8(infoAttr)
	buf.WriteUint8(0) // unused
	buf.WriteUint8(0) // clear the result code
	buf.WriteUint32(generation)
	buf.WriteUint32(uint32(wp.Expiration))
	buf.WriteUint32(0) // timeout slot, patched before send
	buf.WriteUint16(fieldCount)
	buf.WriteUint16(opCount)
	buf.DataOffset = wire.TotalHeaderSize
}

// =============================================================================
// KEY AND FIELD WRITERS
// =============================================================================

// estimateKeySize advances the cursor by the key fields and returns the
// field count.
func (c *Command) estimateKeySize(key *types.Key, sendKey bool) (uint16, error) {
	fieldCount := uint16(0)

	if key.Namespace() != "" {
		c.buf.DataOffset += len(key.Namespace()) + wire.FieldHeaderSize
		fieldCount++
	}
	if key.SetName() != "" {
		c.buf.DataOffset += len(key.SetName()) + wire.FieldHeaderSize
		fieldCount++
	}

	c.buf.DataOffset += wire.DigestSize + wire.FieldHeaderSize
	fieldCount++

	if sendKey && key.UserKey() != nil {
		size, err := msgpack.EstimateValue(key.UserKey())
		if err != nil {
			return 0, err
		}
		// field header plus the particle type byte
		c.buf.DataOffset += size + wire.FieldHeaderSize + 1
		fieldCount++
	}
	return fieldCount, nil
}

func (c *Command) writeKey(key *types.Key, sendKey bool) error {
	if key.Namespace() != "" {
		c.writeFieldString(key.Namespace(), wire.FieldNamespace)
	}
	if key.SetName() != "" {
		c.writeFieldString(key.SetName(), wire.FieldTable)
	}
	c.writeFieldBytes(key.Digest(), wire.FieldDigestRipe)
	if sendKey && key.UserKey() != nil {
		return c.writeFieldValue(key.UserKey(), wire.FieldKey)
	}
	return nil
}

func (c *Command) writeFieldHeader(size int, ftype wire.FieldType) {
	c.buf.WriteInt32(int32(size + 1))
	c.buf.WriteUint8(uint8(ftype))
}

func (c *Command) writeFieldString(field string, ftype wire.FieldType) {
	c.writeFieldHeader(len(field), ftype)
	c.buf.WriteString(field)
}

func (c *Command) writeFieldBytes(b []byte, ftype wire.FieldType) {
	c.writeFieldHeader(len(b), ftype)
	c.buf.WriteBytes(b)
}

func (c *Command) writeFieldValue(v types.Value, ftype wire.FieldType) error {
	size, err := msgpack.EstimateValue(v)
	if err != nil {
		return err
	}
	c.writeFieldHeader(size+1, ftype)
	c.buf.WriteUint8(uint8(v.ParticleType()))
	_, err = msgpack.WriteValue(c.buf, v)
	return err
}

// estimateFilterExpressionSize advances the cursor by the filter field and
// reports whether one is present.
func (c *Command) estimateFilterExpressionSize(fe *expressions.FilterExpression) (uint16, error) {
	if fe == nil {
		return 0, nil
	}
	size, err := fe.Size()
	if err != nil {
		return 0, err
	}
	c.buf.DataOffset += size + wire.FieldHeaderSize
	return 1, nil
}

func (c *Command) writeFilterExpression(fe *expressions.FilterExpression) error {
	if fe == nil {
		return nil
	}
	size, err := fe.Size()
	if err != nil {
		return err
	}
	c.writeFieldHeader(size, wire.FieldFilterExpression)
	_, err = fe.PackExpression(c.buf)
	return err
}

// estimateArgsSize advances the cursor by a UDF argument list field.
func (c *Command) estimateArgsSize(args types.ListValue) error {
	if args != nil {
		size, err := msgpack.PackList(nil, args)
		if err != nil {
			return err
		}
		c.buf.DataOffset += size + wire.FieldHeaderSize
		return nil
	}
	c.buf.DataOffset += msgpack.PackEmptyArgsArray(nil) + wire.FieldHeaderSize
	return nil
}

func (c *Command) writeArgs(args types.ListValue, ftype wire.FieldType) error {
	if args != nil {
		size, err := msgpack.PackList(nil, args)
		if err != nil {
			return err
		}
		c.writeFieldHeader(size, ftype)
		_, err = msgpack.PackList(c.buf, args)
		return err
	}
	c.writeFieldHeader(msgpack.PackEmptyArgsArray(nil), ftype)
	msgpack.PackEmptyArgsArray(c.buf)
	return nil
}

// =============================================================================
// OPERATION FRAME WRITERS
// =============================================================================

func (c *Command) estimateOperationSizeForBin(bin *types.Bin) error {
	if err := bin.Validate(); err != nil {
		return err
	}
	size, err := msgpack.EstimateValue(bin.Value)
	if err != nil {
		return err
	}
	c.buf.DataOffset += len(bin.Name) + wire.OperationHeaderSize + size
	return nil
}

func (c *Command) estimateOperationSizeForBinName(binName string) {
	c.buf.DataOffset += len(binName) + wire.OperationHeaderSize
}

func (c *Command) estimateOperationSize() {
	c.buf.DataOffset += wire.OperationHeaderSize
}

func (c *Command) writeOperationForBin(bin *types.Bin, opType operations.OperationType) error {
	nameLen := len(bin.Name)
	valueLen, err := msgpack.EstimateValue(bin.Value)
	if err != nil {
		return err
	}

	c.buf.WriteInt32(int32(nameLen + valueLen + 4))
	c.buf.WriteUint8(uint8(opType))
	c.buf.WriteUint8(uint8(bin.Value.ParticleType()))
	c.buf.WriteUint8(0)
	c.buf.WriteUint8(uint8(nameLen))
	c.buf.WriteString(bin.Name)
	_, err = msgpack.WriteValue(c.buf, bin.Value)
	return err
}

func (c *Command) writeOperationForBinName(name string, opType operations.OperationType) {
	c.buf.WriteInt32(int32(len(name) + 4))
	c.buf.WriteUint8(uint8(opType))
	c.buf.WriteUint8(0)
	c.buf.WriteUint8(0)
	c.buf.WriteUint8(uint8(len(name)))
	c.buf.WriteString(name)
}

func (c *Command) writeOperationForOperationType(opType operations.OperationType) {
	c.buf.WriteInt32(4)
	c.buf.WriteUint8(uint8(opType))
	c.buf.WriteUint8(0)
	c.buf.WriteUint8(0)
	c.buf.WriteUint8(0)
}

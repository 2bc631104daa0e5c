package commands

import (
	"github.com/jeeves-cluster-organization/aerowire/observability"
	"github.com/jeeves-cluster-organization/aerowire/operations"
	"github.com/jeeves-cluster-organization/aerowire/policy"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// SetWrite assembles a write command: one operation per bin, with the op
// type selecting write, append, prepend, or add semantics.
func (c *Command) SetWrite(wp *policy.WritePolicy, opType operations.OperationType, key *types.Key, bins []*types.Bin) error {
	c.buf.Begin()

	fieldCount, err := c.estimateKeySize(key, wp.SendKey)
	if err != nil {
		return err
	}
	feCount, err := c.estimateFilterExpressionSize(wp.FilterExpression)
	if err != nil {
		return err
	}
	fieldCount += feCount

	for _, bin := range bins {
		if err := c.estimateOperationSizeForBin(bin); err != nil {
			return err
		}
	}

	if err := c.buf.SizeBuffer(); err != nil {
		return err
	}
	c.writeHeaderWithPolicy(wp, 0, wire.Info2Write, fieldCount, uint16(len(bins)))
	if err := c.writeKey(key, wp.SendKey); err != nil {
		return err
	}
	if err := c.writeFilterExpression(wp.FilterExpression); err != nil {
		return err
	}

	for _, bin := range bins {
		if err := c.writeOperationForBin(bin, opType); err != nil {
			return err
		}
	}

	c.buf.End()
	observability.CommandEncoded("write", len(c.buf.Data))
	return nil
}

// SetDelete assembles a delete command.
func (c *Command) SetDelete(wp *policy.WritePolicy, key *types.Key) error {
	c.buf.Begin()

	fieldCount, err := c.estimateKeySize(key, false)
	if err != nil {
		return err
	}
	feCount, err := c.estimateFilterExpressionSize(wp.FilterExpression)
	if err != nil {
		return err
	}
	fieldCount += feCount

	if err := c.buf.SizeBuffer(); err != nil {
		return err
	}
	c.writeHeaderWithPolicy(wp, 0, wire.Info2Write|wire.Info2Delete, fieldCount, 0)
	if err := c.writeKey(key, false); err != nil {
		return err
	}
	if err := c.writeFilterExpression(wp.FilterExpression); err != nil {
		return err
	}
	c.buf.End()
	observability.CommandEncoded("delete", len(c.buf.Data))
	return nil
}

// SetTouch assembles a touch command: a single touch operation refreshing
// generation and expiration.
func (c *Command) SetTouch(wp *policy.WritePolicy, key *types.Key) error {
	c.buf.Begin()

	fieldCount, err := c.estimateKeySize(key, wp.SendKey)
	if err != nil {
		return err
	}
	feCount, err := c.estimateFilterExpressionSize(wp.FilterExpression)
	if err != nil {
		return err
	}
	fieldCount += feCount
	c.estimateOperationSize()

	if err := c.buf.SizeBuffer(); err != nil {
		return err
	}
	c.writeHeaderWithPolicy(wp, 0, wire.Info2Write, fieldCount, 1)
	if err := c.writeKey(key, wp.SendKey); err != nil {
		return err
	}
	if err := c.writeFilterExpression(wp.FilterExpression); err != nil {
		return err
	}
	c.writeOperationForOperationType(operations.OpTouch)
	c.buf.End()
	observability.CommandEncoded("touch", len(c.buf.Data))
	return nil
}

// SetExists assembles an existence probe: a read with no bin data.
func (c *Command) SetExists(base *policy.BasePolicy, key *types.Key) error {
	c.buf.Begin()

	fieldCount, err := c.estimateKeySize(key, false)
	if err != nil {
		return err
	}
	feCount, err := c.estimateFilterExpressionSize(base.FilterExpression)
	if err != nil {
		return err
	}
	fieldCount += feCount

	if err := c.buf.SizeBuffer(); err != nil {
		return err
	}
	c.writeHeader(base, wire.Info1Read|wire.Info1NoBinData, 0, fieldCount, 0)
	if err := c.writeKey(key, false); err != nil {
		return err
	}
	if err := c.writeFilterExpression(base.FilterExpression); err != nil {
		return err
	}
	c.buf.End()
	observability.CommandEncoded("exists", len(c.buf.Data))
	return nil
}

// SetRead assembles a read command in one of its three shapes: all bins,
// no bins, or a named bin list.
func (c *Command) SetRead(rp *policy.ReadPolicy, key *types.Key, bins types.Bins) error {
	switch {
	case bins.IsNone():
		return c.SetReadHeader(rp, key)
	case bins.IsAll():
		return c.SetReadForKeyOnly(rp, key)
	}

	c.buf.Begin()
	fieldCount, err := c.estimateKeySize(key, false)
	if err != nil {
		return err
	}
	feCount, err := c.estimateFilterExpressionSize(rp.FilterExpression)
	if err != nil {
		return err
	}
	fieldCount += feCount
	for _, name := range bins.Names() {
		c.estimateOperationSizeForBinName(name)
	}

	if err := c.buf.SizeBuffer(); err != nil {
		return err
	}
	c.writeHeader(rp, wire.Info1Read, 0, fieldCount, uint16(len(bins.Names())))
	if err := c.writeKey(key, false); err != nil {
		return err
	}
	if err := c.writeFilterExpression(rp.FilterExpression); err != nil {
		return err
	}
	for _, name := range bins.Names() {
		c.writeOperationForBinName(name, operations.OpRead)
	}
	c.buf.End()
	observability.CommandEncoded("read", len(c.buf.Data))
	return nil
}

// SetReadHeader assembles a metadata-only read: one empty-name read op with
// the no-bin-data attribute.
func (c *Command) SetReadHeader(rp *policy.ReadPolicy, key *types.Key) error {
	c.buf.Begin()

	fieldCount, err := c.estimateKeySize(key, false)
	if err != nil {
		return err
	}
	feCount, err := c.estimateFilterExpressionSize(rp.FilterExpression)
	if err != nil {
		return err
	}
	fieldCount += feCount
	c.estimateOperationSizeForBinName("")

	if err := c.buf.SizeBuffer(); err != nil {
		return err
	}
	c.writeHeader(rp, wire.Info1Read|wire.Info1NoBinData, 0, fieldCount, 1)
	if err := c.writeKey(key, false); err != nil {
		return err
	}
	if err := c.writeFilterExpression(rp.FilterExpression); err != nil {
		return err
	}
	c.writeOperationForBinName("", operations.OpRead)
	c.buf.End()
	observability.CommandEncoded("read_header", len(c.buf.Data))
	return nil
}

// SetReadForKeyOnly assembles an all-bins read: zero ops with the get-all
// attribute.
func (c *Command) SetReadForKeyOnly(rp *policy.ReadPolicy, key *types.Key) error {
	c.buf.Begin()

	fieldCount, err := c.estimateKeySize(key, false)
	if err != nil {
		return err
	}
	feCount, err := c.estimateFilterExpressionSize(rp.FilterExpression)
	if err != nil {
		return err
	}
	fieldCount += feCount

	if err := c.buf.SizeBuffer(); err != nil {
		return err
	}
	c.writeHeader(rp, wire.Info1Read|wire.Info1GetAll, 0, fieldCount, 0)
	if err := c.writeKey(key, false); err != nil {
		return err
	}
	if err := c.writeFilterExpression(rp.FilterExpression); err != nil {
		return err
	}
	c.buf.End()
	observability.CommandEncoded("read_all", len(c.buf.Data))
	return nil
}

// SetOperate assembles a mixed operation list, aggregating the message
// attributes from the operation flavors it carries.
func (c *Command) SetOperate(wp *policy.WritePolicy, key *types.Key, ops []*operations.Operation) error {
	c.buf.Begin()

	var readAttr, writeAttr uint8
	for _, op := range ops {
		switch {
		case op.Type() == operations.OpRead && op.IsBinNone():
			readAttr |= wire.Info1Read | wire.Info1NoBinData
		case op.Type() == operations.OpRead && op.IsBinAll():
			readAttr |= wire.Info1Read | wire.Info1GetAll
		case op.IsRead():
			readAttr |= wire.Info1Read
		default:
			writeAttr |= wire.Info2Write
		}

		if wp.RespondPerEachOp || op.IsMapOp() {
			writeAttr |= wire.Info2RespondAllOps
		}

		size, err := op.EstimateSize()
		if err != nil {
			return err
		}
		c.buf.DataOffset += size + wire.OperationHeaderSize
	}

	sendKey := wp.SendKey && writeAttr != 0
	fieldCount, err := c.estimateKeySize(key, sendKey)
	if err != nil {
		return err
	}
	feCount, err := c.estimateFilterExpressionSize(wp.FilterExpression)
	if err != nil {
		return err
	}
	fieldCount += feCount

	if err := c.buf.SizeBuffer(); err != nil {
		return err
	}

	if writeAttr != 0 {
		c.writeHeaderWithPolicy(wp, readAttr, writeAttr, fieldCount, uint16(len(ops)))
	} else {
		c.writeHeader(&wp.BasePolicy, readAttr, writeAttr, fieldCount, uint16(len(ops)))
	}
	if err := c.writeKey(key, sendKey); err != nil {
		return err
	}
	if err := c.writeFilterExpression(wp.FilterExpression); err != nil {
		return err
	}

	for _, op := range ops {
		if _, err := op.WriteTo(c.buf); err != nil {
			return err
		}
	}

	c.buf.End()
	observability.CommandEncoded("operate", len(c.buf.Data))
	return nil
}

// SetUDF assembles a UDF apply: package, function, and argument list
// fields, no ops.
func (c *Command) SetUDF(wp *policy.WritePolicy, key *types.Key, packageName, functionName string, args types.ListValue) error {
	c.buf.Begin()

	fieldCount, err := c.estimateKeySize(key, wp.SendKey)
	if err != nil {
		return err
	}
	feCount, err := c.estimateFilterExpressionSize(wp.FilterExpression)
	if err != nil {
		return err
	}
	fieldCount += feCount

	c.buf.DataOffset += len(packageName) + wire.FieldHeaderSize
	c.buf.DataOffset += len(functionName) + wire.FieldHeaderSize
	if err := c.estimateArgsSize(args); err != nil {
		return err
	}
	fieldCount += 3

	if err := c.buf.SizeBuffer(); err != nil {
		return err
	}
	c.writeHeaderWithPolicy(wp, 0, wire.Info2Write, fieldCount, 0)
	if err := c.writeKey(key, wp.SendKey); err != nil {
		return err
	}
	if err := c.writeFilterExpression(wp.FilterExpression); err != nil {
		return err
	}
	c.writeFieldString(packageName, wire.FieldUDFPackageName)
	c.writeFieldString(functionName, wire.FieldUDFFunction)
	if err := c.writeArgs(args, wire.FieldUDFArgList); err != nil {
		return err
	}
	c.buf.End()
	observability.CommandEncoded("udf", len(c.buf.Data))
	return nil
}

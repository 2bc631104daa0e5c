package commands

import (
	"time"

	"github.com/jeeves-cluster-organization/aerowire/observability"
	"github.com/jeeves-cluster-organization/aerowire/operations"
	"github.com/jeeves-cluster-organization/aerowire/policy"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// scanOptionsByte folds priority and the cluster-change flag into the first
// scan options byte.
func scanOptionsByte(prio policy.Priority, failOnClusterChange bool) uint8 {
	b := uint8(prio) << 4
	if failOnClusterChange {
		b |= 0x08
	}
	return b
}

// SetScan assembles a scan command: namespace, set, scan options, socket
// timeout, and task id fields, plus one read op per named bin.
func (c *Command) SetScan(sp *policy.ScanPolicy, namespace, setName string, bins types.Bins, taskID uint64) error {
	c.buf.Begin()

	fieldCount := uint16(0)
	if namespace != "" {
		c.buf.DataOffset += len(namespace) + wire.FieldHeaderSize
		fieldCount++
	}
	if setName != "" {
		c.buf.DataOffset += len(setName) + wire.FieldHeaderSize
		fieldCount++
	}

	// scan options
	c.buf.DataOffset += 2 + wire.FieldHeaderSize
	fieldCount++
	// scan socket timeout
	c.buf.DataOffset += 4 + wire.FieldHeaderSize
	fieldCount++
	// task id
	c.buf.DataOffset += 8 + wire.FieldHeaderSize
	fieldCount++

	feCount, err := c.estimateFilterExpressionSize(sp.FilterExpression)
	if err != nil {
		return err
	}
	fieldCount += feCount

	binCount := 0
	if !bins.IsAll() && !bins.IsNone() {
		for _, name := range bins.Names() {
			c.estimateOperationSizeForBinName(name)
		}
		binCount = len(bins.Names())
	}

	if err := c.buf.SizeBuffer(); err != nil {
		return err
	}

	readAttr := uint8(wire.Info1Read)
	if bins.IsNone() {
		readAttr |= wire.Info1NoBinData
	}
	c.writeHeader(&sp.BasePolicy, readAttr, 0, fieldCount, uint16(binCount))

	if namespace != "" {
		c.writeFieldString(namespace, wire.FieldNamespace)
	}
	if setName != "" {
		c.writeFieldString(setName, wire.FieldTable)
	}
	if err := c.writeFilterExpression(sp.FilterExpression); err != nil {
		return err
	}

	c.writeFieldHeader(2, wire.FieldScanOptions)
	c.buf.WriteUint8(scanOptionsByte(sp.Priority, sp.FailOnClusterChange))
	c.buf.WriteUint8(sp.ScanPercent)

	c.writeFieldHeader(4, wire.FieldScanTimeout)
	c.buf.WriteUint32(uint32(sp.SocketTimeout / time.Millisecond))

	c.writeFieldHeader(8, wire.FieldTranID)
	c.buf.WriteUint64(taskID)

	if !bins.IsAll() && !bins.IsNone() {
		for _, name := range bins.Names() {
			c.writeOperationForBinName(name, operations.OpRead)
		}
	}

	c.buf.End()
	observability.CommandEncoded("scan", len(c.buf.Data))
	return nil
}

// SetQuery assembles a query command. A statement with no filter is
// internally a scan: the index fields give way to a scan-options field.
func (c *Command) SetQuery(qp *policy.QueryPolicy, stmt *Statement, write bool, taskID uint64) error {
	c.buf.Begin()

	fieldCount := uint16(0)
	filterSize := 0
	binNameSize := 0

	if stmt.Namespace != "" {
		c.buf.DataOffset += len(stmt.Namespace) + wire.FieldHeaderSize
		fieldCount++
	}
	if stmt.SetName != "" {
		c.buf.DataOffset += len(stmt.SetName) + wire.FieldHeaderSize
		fieldCount++
	}
	if stmt.IndexName != "" {
		c.buf.DataOffset += len(stmt.IndexName) + wire.FieldHeaderSize
		fieldCount++
	}

	// task id
	c.buf.DataOffset += 8 + wire.FieldHeaderSize
	fieldCount++

	if stmt.Filter != nil {
		if stmt.Filter.CollectionIndexType() != IndexCollectionDefault {
			c.buf.DataOffset += 1 + wire.FieldHeaderSize
			fieldCount++
		}

		size, err := stmt.Filter.estimateSize()
		if err != nil {
			return err
		}
		filterSize = 1 + size
		c.buf.DataOffset += filterSize + wire.FieldHeaderSize
		fieldCount++

		if names := stmt.Bins.Names(); len(names) > 0 {
			c.buf.DataOffset += wire.FieldHeaderSize
			binNameSize = 1
			for _, name := range names {
				binNameSize += len(name) + 1
			}
			c.buf.DataOffset += binNameSize
			fieldCount++
		}
	} else {
		// A query with no filter is a primary-index scan.
		c.buf.DataOffset += 2 + wire.FieldHeaderSize
		fieldCount++
	}

	if agg := stmt.Aggregation; agg != nil {
		c.buf.DataOffset += 1 + wire.FieldHeaderSize // udf op type
		c.buf.DataOffset += len(agg.PackageName) + wire.FieldHeaderSize
		c.buf.DataOffset += len(agg.FunctionName) + wire.FieldHeaderSize
		if err := c.estimateArgsSize(agg.Args); err != nil {
			return err
		}
		fieldCount += 4
	}

	feCount, err := c.estimateFilterExpressionSize(qp.FilterExpression)
	if err != nil {
		return err
	}
	fieldCount += feCount

	opCount := 0
	if stmt.IsScan() {
		if names := stmt.Bins.Names(); len(names) > 0 {
			for _, name := range names {
				c.estimateOperationSizeForBinName(name)
			}
			opCount = len(names)
		}
	}

	if err := c.buf.SizeBuffer(); err != nil {
		return err
	}

	info1 := uint8(wire.Info1Read)
	if stmt.Bins.IsNone() {
		info1 |= wire.Info1NoBinData
	}
	info2 := uint8(0)
	if write {
		info2 = wire.Info2Write
	}
	c.writeHeader(&qp.BasePolicy, info1, info2, fieldCount, uint16(opCount))

	if stmt.Namespace != "" {
		c.writeFieldString(stmt.Namespace, wire.FieldNamespace)
	}
	if stmt.IndexName != "" {
		c.writeFieldString(stmt.IndexName, wire.FieldIndexName)
	}
	if stmt.SetName != "" {
		c.writeFieldString(stmt.SetName, wire.FieldTable)
	}

	c.writeFieldHeader(8, wire.FieldTranID)
	c.buf.WriteUint64(taskID)

	if stmt.Filter != nil {
		if idxType := stmt.Filter.CollectionIndexType(); idxType != IndexCollectionDefault {
			c.writeFieldHeader(1, wire.FieldIndexType)
			c.buf.WriteUint8(uint8(idxType))
		}

		c.writeFieldHeader(filterSize, wire.FieldIndexRange)
		c.buf.WriteUint8(1)
		if err := stmt.Filter.write(c.buf); err != nil {
			return err
		}

		if names := stmt.Bins.Names(); len(names) > 0 {
			c.writeFieldHeader(binNameSize, wire.FieldQueryBinList)
			c.buf.WriteUint8(uint8(len(names)))
			for _, name := range names {
				c.buf.WriteUint8(uint8(len(name)))
				c.buf.WriteString(name)
			}
		}
	} else {
		c.writeFieldHeader(2, wire.FieldScanOptions)
		c.buf.WriteUint8(scanOptionsByte(qp.Priority, false))
		c.buf.WriteUint8(100)
	}

	if agg := stmt.Aggregation; agg != nil {
		c.writeFieldHeader(1, wire.FieldUDFOp)
		if stmt.Bins.IsNone() {
			c.buf.WriteUint8(2)
		} else {
			c.buf.WriteUint8(1)
		}
		c.writeFieldString(agg.PackageName, wire.FieldUDFPackageName)
		c.writeFieldString(agg.FunctionName, wire.FieldUDFFunction)
		if err := c.writeArgs(agg.Args, wire.FieldUDFArgList); err != nil {
			return err
		}
	}

	if err := c.writeFilterExpression(qp.FilterExpression); err != nil {
		return err
	}

	// scan bin names come last
	if stmt.IsScan() {
		for _, name := range stmt.Bins.Names() {
			c.writeOperationForBinName(name, operations.OpRead)
		}
	}

	c.buf.End()
	observability.CommandEncoded("query", len(c.buf.Data))
	return nil
}

package commands

import (
	"github.com/jeeves-cluster-organization/aerowire/expressions"
	"github.com/jeeves-cluster-organization/aerowire/msgpack"
	"github.com/jeeves-cluster-organization/aerowire/observability"
	"github.com/jeeves-cluster-organization/aerowire/operations"
	"github.com/jeeves-cluster-organization/aerowire/policy"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// BatchRecord is the per-key result slot of a batch element. InDoubt is set
// only for writes, deletes, and UDFs whose outcome a network failure left
// unknown; reads are never in doubt.
type BatchRecord struct {
	Key        *types.Key
	Record     *types.Record
	ResultCode types.ResultCode
	InDoubt    bool

	hasWrite bool
	resolved bool
}

// Resolved reports whether the server answered for this record.
func (br *BatchRecord) Resolved() bool { return br.resolved }

// setRecord stores a successful per-record response.
func (br *BatchRecord) setRecord(rec *types.Record) {
	br.Record = rec
	br.ResultCode = types.ResultOK
	br.resolved = true
}

// setResultCode stores a per-record failure. inDoubt is honored only for
// write-flavored elements.
func (br *BatchRecord) setResultCode(rc types.ResultCode, inDoubt bool) {
	br.ResultCode = rc
	br.InDoubt = inDoubt && br.hasWrite
	br.resolved = true
}

type batchKind uint8

const (
	batchRead batchKind = iota
	batchWrite
	batchDelete
	batchUDF
)

// BatchOperation is one element of a heterogeneous batch: a read, write,
// delete, or UDF apply against a single key. Do not construct directly;
// use the New* helpers.
type BatchOperation struct {
	kind batchKind
	rec  BatchRecord

	readPolicy   *policy.BatchReadPolicy
	writePolicy  *policy.BatchWritePolicy
	deletePolicy *policy.BatchDeletePolicy
	udfPolicy    *policy.BatchUDFPolicy

	bins types.Bins
	ops  []*operations.Operation

	packageName  string
	functionName string
	args         types.ListValue
}

// NewBatchRead creates a batch read of the selected bins.
func NewBatchRead(rp *policy.BatchReadPolicy, key *types.Key, bins types.Bins) *BatchOperation {
	return &BatchOperation{
		kind:       batchRead,
		rec:        BatchRecord{Key: key},
		readPolicy: rp,
		bins:       bins,
	}
}

// NewBatchReadOps creates a batch read carrying explicit read operations.
func NewBatchReadOps(rp *policy.BatchReadPolicy, key *types.Key, ops ...*operations.Operation) *BatchOperation {
	return &BatchOperation{
		kind:       batchRead,
		rec:        BatchRecord{Key: key},
		readPolicy: rp,
		bins:       types.BinsNone(),
		ops:        ops,
	}
}

// NewBatchWrite creates a batch write carrying a mixed operation list with
// at least one write.
func NewBatchWrite(wp *policy.BatchWritePolicy, key *types.Key, ops ...*operations.Operation) *BatchOperation {
	return &BatchOperation{
		kind:        batchWrite,
		rec:         BatchRecord{Key: key, hasWrite: true},
		writePolicy: wp,
		ops:         ops,
	}
}

// NewBatchDelete creates a batch delete.
func NewBatchDelete(dp *policy.BatchDeletePolicy, key *types.Key) *BatchOperation {
	return &BatchOperation{
		kind:         batchDelete,
		rec:          BatchRecord{Key: key, hasWrite: true},
		deletePolicy: dp,
	}
}

// NewBatchUDF creates a batch UDF apply.
func NewBatchUDF(up *policy.BatchUDFPolicy, key *types.Key, packageName, functionName string, args types.ListValue) *BatchOperation {
	return &BatchOperation{
		kind:         batchUDF,
		rec:          BatchRecord{Key: key, hasWrite: true},
		udfPolicy:    up,
		packageName:  packageName,
		functionName: functionName,
		args:         args,
	}
}

// Key returns the element's key.
func (b *BatchOperation) Key() *types.Key { return b.rec.Key }

// Record returns the element's result slot.
func (b *BatchOperation) Record() *BatchRecord { return &b.rec }

// HasWrite reports whether the element mutates the record.
func (b *BatchOperation) HasWrite() bool { return b.rec.hasWrite }

// attrs derives the element's block header. The message-level filter
// expression applies when the element has none of its own.
func (b *BatchOperation) attrs(parentFE *expressions.FilterExpression) (batchAttr, error) {
	var attr batchAttr
	switch b.kind {
	case batchRead:
		attr.setBatchRead(b.readPolicy)
		if b.ops != nil {
			for _, op := range b.ops {
				if op.IsWrite() {
					return attr, types.NewEncodingError("write operations not allowed in batch read")
				}
			}
			attr.adjustRead(b.ops)
			attr.readAttr |= wire.Info1Read
		} else {
			attr.adjustReadForAllBins(b.bins.IsAll())
			if len(b.bins.Names()) > 0 {
				attr.readAttr &^= wire.Info1GetAll | wire.Info1NoBinData
			}
		}
	case batchWrite:
		attr.setBatchWrite(b.writePolicy)
		hasWrite := false
		for _, op := range b.ops {
			if op.IsWrite() {
				hasWrite = true
			}
		}
		if !hasWrite {
			return attr, types.NewEncodingError("batch write operations do not contain a write")
		}
		attr.adjustWrite(b.ops)
	case batchDelete:
		attr.setBatchDelete(b.deletePolicy)
	case batchUDF:
		attr.setBatchUDF(b.udfPolicy)
	}

	if attr.filterExpression == nil {
		attr.filterExpression = parentFE
	}
	return attr, nil
}

// matchHeader implements the batch dedup comparison: two adjacent elements
// share one op block when both are plain reads with the same namespace,
// the same set when sets are sent, the same bin list, and no per-record
// ops or filter expression. Write-flavored elements never match.
func (b *BatchOperation) matchHeader(prev *BatchOperation, sendSetName bool) bool {
	if prev == nil {
		return false
	}
	if b.kind != batchRead || prev.kind != batchRead {
		return false
	}
	if b.ops != nil || prev.ops != nil {
		return false
	}
	if b.filterExpressionOf() != nil || prev.filterExpressionOf() != nil {
		return false
	}
	if b.rec.Key.Namespace() != prev.rec.Key.Namespace() {
		return false
	}
	if sendSetName && b.rec.Key.SetName() != prev.rec.Key.SetName() {
		return false
	}
	if b.bins.IsAll() != prev.bins.IsAll() || b.bins.IsNone() != prev.bins.IsNone() {
		return false
	}
	names, prevNames := b.bins.Names(), prev.bins.Names()
	if len(names) != len(prevNames) {
		return false
	}
	for i, name := range names {
		if name != prevNames[i] {
			return false
		}
	}
	return true
}

func (b *BatchOperation) filterExpressionOf() *expressions.FilterExpression {
	switch b.kind {
	case batchRead:
		if b.readPolicy != nil {
			return b.readPolicy.FilterExpression
		}
	case batchWrite:
		if b.writePolicy != nil {
			return b.writePolicy.FilterExpression
		}
	case batchDelete:
		if b.deletePolicy != nil {
			return b.deletePolicy.FilterExpression
		}
	case batchUDF:
		if b.udfPolicy != nil {
			return b.udfPolicy.FilterExpression
		}
	}
	return nil
}

// =============================================================================
// BATCH ASSEMBLY
// =============================================================================

// SetBatchOperate assembles a batch message for one node's subset of
// records. Adjacent records with matching read headers share a single op
// block.
func (c *Command) SetBatchOperate(bp *policy.BatchPolicy, batch []*BatchOperation) error {
	c.buf.Begin()

	fieldCount := uint16(1)
	feCount, err := c.estimateFilterExpressionSize(bp.FilterExpression)
	if err != nil {
		return err
	}
	fieldCount += feCount

	// batch field header plus count and allow-inline
	c.buf.DataOffset += wire.FieldHeaderSize + 5

	var prev *BatchOperation
	for _, op := range batch {
		c.buf.DataOffset += 4 + wire.DigestSize + 1
		if op.matchHeader(prev, bp.SendSetName) {
			prev = op
			continue
		}
		attr, err := op.attrs(bp.FilterExpression)
		if err != nil {
			return err
		}
		size, err := op.blockSize(&attr, bp.SendSetName)
		if err != nil {
			return err
		}
		c.buf.DataOffset += size
		prev = op
	}

	if err := c.buf.SizeBuffer(); err != nil {
		return err
	}

	c.writeHeader(&bp.BasePolicy, wire.Info1Read|wire.Info1Batch, 0, fieldCount, 0)
	if err := c.writeFilterExpression(bp.FilterExpression); err != nil {
		return err
	}

	fieldSizeOffset := c.buf.DataOffset
	fieldType := wire.FieldBatchIndex
	if bp.SendSetName {
		fieldType = wire.FieldBatchIndexWithSet
	}
	c.writeFieldHeader(0, fieldType)
	c.buf.WriteUint32(uint32(len(batch)))
	if bp.AllowInline {
		c.buf.WriteUint8(1)
	} else {
		c.buf.WriteUint8(0)
	}

	prev = nil
	for i, op := range batch {
		c.buf.WriteUint32(uint32(i))
		c.buf.WriteBytes(op.rec.Key.Digest())
		if op.matchHeader(prev, bp.SendSetName) {
			c.buf.WriteUint8(1)
			prev = op
			continue
		}
		c.buf.WriteUint8(0)
		attr, err := op.attrs(bp.FilterExpression)
		if err != nil {
			return err
		}
		if err := op.writeBlock(c, &attr, bp.SendSetName); err != nil {
			return err
		}
		prev = op
	}

	fieldSize := c.buf.DataOffset - fieldSizeOffset - 4
	c.buf.PatchUint32(fieldSizeOffset, uint32(fieldSize))

	c.buf.End()
	observability.CommandEncoded("batch", len(c.buf.Data))
	observability.BatchSize(len(batch))
	return nil
}

// blockFieldCount counts the fields of one op block: namespace, set when
// sent, filter expression, user key, and UDF fields.
func (b *BatchOperation) blockFieldCount(attr *batchAttr, sendSetName bool) uint16 {
	count := uint16(1) // namespace
	if sendSetName {
		count++
	}
	if attr.filterExpression != nil {
		count++
	}
	if attr.sendKey && b.rec.Key.UserKey() != nil {
		count++
	}
	if b.kind == batchUDF {
		count += 3
	}
	return count
}

// blockSize computes the op block size without touching memory. It must
// mirror writeBlock exactly.
func (b *BatchOperation) blockSize(attr *batchAttr, sendSetName bool) (int, error) {
	size := 0
	if attr.hasWrite {
		// four attr bytes, generation, expiration, field and op counts
		size += 4 + 4 + 4 + 2 + 2
	} else {
		// read attr byte, field and op counts
		size += 1 + 2 + 2
	}

	size += len(b.rec.Key.Namespace()) + wire.FieldHeaderSize
	if sendSetName {
		size += len(b.rec.Key.SetName()) + wire.FieldHeaderSize
	}
	if attr.filterExpression != nil {
		feSize, err := attr.filterExpression.Size()
		if err != nil {
			return 0, err
		}
		size += feSize + wire.FieldHeaderSize
	}
	if attr.sendKey && b.rec.Key.UserKey() != nil {
		keySize, err := msgpack.EstimateValue(b.rec.Key.UserKey())
		if err != nil {
			return 0, err
		}
		size += keySize + wire.FieldHeaderSize + 1
	}

	switch b.kind {
	case batchRead:
		if b.ops != nil {
			for _, op := range b.ops {
				opSize, err := op.EstimateSize()
				if err != nil {
					return 0, err
				}
				size += opSize + wire.OperationHeaderSize
			}
		} else {
			for _, name := range b.bins.Names() {
				size += len(name) + wire.OperationHeaderSize
			}
		}
	case batchWrite:
		for _, op := range b.ops {
			opSize, err := op.EstimateSize()
			if err != nil {
				return 0, err
			}
			size += opSize + wire.OperationHeaderSize
		}
	case batchUDF:
		size += len(b.packageName) + wire.FieldHeaderSize
		size += len(b.functionName) + wire.FieldHeaderSize
		if b.args != nil {
			argsSize, err := msgpack.PackList(nil, b.args)
			if err != nil {
				return 0, err
			}
			size += argsSize + wire.FieldHeaderSize
		} else {
			size += msgpack.PackEmptyArgsArray(nil) + wire.FieldHeaderSize
		}
	}
	return size, nil
}

// writeBlock writes the op block of one batch element: the standalone-style
// header bytes, then fields, then ops.
func (b *BatchOperation) writeBlock(c *Command, attr *batchAttr, sendSetName bool) error {
	opCount := uint16(0)
	switch b.kind {
	case batchRead:
		if b.ops != nil {
			opCount = uint16(len(b.ops))
		} else {
			opCount = uint16(len(b.bins.Names()))
		}
	case batchWrite:
		opCount = uint16(len(b.ops))
	}

	if attr.hasWrite {
		c.buf.WriteUint8(attr.readAttr)
		c.buf.WriteUint8(attr.writeAttr)
		c.buf.WriteUint8(attr.infoAttr)
		c.buf.WriteUint8(attr.txnAttr)
		c.buf.WriteUint32(attr.generation)
		c.buf.WriteUint32(attr.expiration)
	} else {
		c.buf.WriteUint8(attr.readAttr)
	}
	c.buf.WriteUint16(b.blockFieldCount(attr, sendSetName))
	c.buf.WriteUint16(opCount)

	c.writeFieldString(b.rec.Key.Namespace(), wire.FieldNamespace)
	if sendSetName {
		c.writeFieldString(b.rec.Key.SetName(), wire.FieldTable)
	}
	if err := c.writeFilterExpression(attr.filterExpression); err != nil {
		return err
	}
	if attr.sendKey && b.rec.Key.UserKey() != nil {
		if err := c.writeFieldValue(b.rec.Key.UserKey(), wire.FieldKey); err != nil {
			return err
		}
	}

	switch b.kind {
	case batchRead:
		if b.ops != nil {
			for _, op := range b.ops {
				if _, err := op.WriteTo(c.buf); err != nil {
					return err
				}
			}
		} else {
			for _, name := range b.bins.Names() {
				c.writeOperationForBinName(name, operations.OpRead)
			}
		}
	case batchWrite:
		for _, op := range b.ops {
			if _, err := op.WriteTo(c.buf); err != nil {
				return err
			}
		}
	case batchUDF:
		c.writeFieldString(b.packageName, wire.FieldUDFPackageName)
		c.writeFieldString(b.functionName, wire.FieldUDFFunction)
		if err := c.writeArgs(b.args, wire.FieldUDFArgList); err != nil {
			return err
		}
	}
	return nil
}

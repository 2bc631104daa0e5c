package commands

import (
	"github.com/sirupsen/logrus"

	"github.com/jeeves-cluster-organization/aerowire/msgpack"
	"github.com/jeeves-cluster-organization/aerowire/observability"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// Record header layout inside a response, relative to the start of the
// 22 byte record header.
const (
	respInfo3Offset      = 3
	respResultCodeOffset = 5
	respGenerationOffset = 6
	respExpirationOffset = 10
	respBatchIndexOffset = 14
	respFieldCountOffset = 18
	respOpCountOffset    = 20
)

// recordMeta is the decoded 22 byte record header.
type recordMeta struct {
	info3      uint8
	resultCode types.ResultCode
	generation uint32
	expiration uint32
	batchIndex uint32
	fieldCount uint16
	opCount    uint16
}

// readRecordMeta consumes one 22 byte record header at the cursor.
func readRecordMeta(buf *wire.Buffer) recordMeta {
	base := buf.DataOffset
	meta := recordMeta{
		info3:      buf.ReadUint8At(base + respInfo3Offset),
		resultCode: types.ResultCode(buf.ReadUint8At(base + respResultCodeOffset)),
	}
	buf.DataOffset = base + respGenerationOffset
	meta.generation = buf.ReadUint32()
	meta.expiration = buf.ReadUint32()
	meta.batchIndex = buf.ReadUint32()
	meta.fieldCount = buf.ReadUint16()
	meta.opCount = buf.ReadUint16()
	return meta
}

// parseKeyFields walks the response fields, materializing the record key
// from the digest, namespace, set, and user-key echoes. Unknown fields are
// skipped.
func parseKeyFields(buf *wire.Buffer, fieldCount uint16) (*types.Key, error) {
	var namespace, setName string
	var digest []byte
	var userKey types.Value

	for i := uint16(0); i < fieldCount; i++ {
		fieldLen := int(buf.ReadUint32())
		if fieldLen < 1 {
			return nil, types.NewParseError("response field with zero length")
		}
		ftype := wire.FieldType(buf.ReadUint8())
		payload := fieldLen - 1

		switch ftype {
		case wire.FieldNamespace:
			namespace = buf.ReadString(payload)
		case wire.FieldTable:
			setName = buf.ReadString(payload)
		case wire.FieldDigestRipe:
			digest = buf.ReadBlob(payload)
		case wire.FieldKey:
			ptype := types.ParticleType(buf.ReadUint8())
			v, err := msgpack.BytesToParticle(ptype, buf, payload-1)
			if err != nil {
				return nil, err
			}
			userKey = v
		default:
			buf.Skip(payload)
		}
	}

	if digest == nil {
		return nil, nil
	}
	key, err := types.NewKeyWithDigest(namespace, setName, userKey, digest)
	if err != nil {
		return nil, types.NewParseError("response digest echo malformed")
	}
	return key, nil
}

// parseBins walks the response ops, decoding one bin per op frame.
func parseBins(buf *wire.Buffer, opCount uint16) (map[string]types.Value, error) {
	bins := make(map[string]types.Value, opCount)
	for i := uint16(0); i < opCount; i++ {
		opLen := int(buf.ReadUint32())
		buf.Skip(1) // op type echo
		ptype := types.ParticleType(buf.ReadUint8())
		buf.Skip(1) // version
		nameLen := int(buf.ReadUint8())
		if opLen < 4+nameLen {
			return nil, types.NewParseError("response op frame shorter than its bin name")
		}
		name := buf.ReadString(nameLen)

		valueLen := opLen - 4 - nameLen
		value, err := msgpack.BytesToParticle(ptype, buf, valueLen)
		if err != nil {
			observability.ParseFailure()
			return nil, err
		}
		bins[name] = value
	}
	return bins, nil
}

// ParseSingleResponse decodes a complete single-record response message,
// framing word included. A non-zero result code returns a ServerError with
// no record.
func ParseSingleResponse(buf *wire.Buffer) (*types.Record, error) {
	buf.ResetOffset()
	size := buf.ReadMessageSize()
	if size < wire.RemainingHeaderSize {
		observability.ParseFailure()
		return nil, types.NewParseError("response body shorter than the record header")
	}

	meta := readRecordMeta(buf)
	if meta.resultCode != types.ResultOK {
		return nil, types.NewServerError(meta.resultCode)
	}

	key, err := parseKeyFields(buf, meta.fieldCount)
	if err != nil {
		observability.ParseFailure()
		return nil, err
	}
	bins, err := parseBins(buf, meta.opCount)
	if err != nil {
		return nil, err
	}

	return &types.Record{
		Key:        key,
		Bins:       bins,
		Generation: meta.generation,
		Expiration: meta.expiration,
	}, nil
}

// StreamRecord is one decoded element of a multi-record response.
type StreamRecord struct {
	// BatchIndex is the caller-side index echoed by the server; zero for
	// scans and queries.
	BatchIndex uint32
	// ResultCode is the per-record status.
	ResultCode types.ResultCode
	// Record is the decoded record; nil when ResultCode is non-zero.
	Record *types.Record
}

// StreamReader yields records from one framed multi-record response
// message. Multi-record endpoints interleave partial results; the consumer
// feeds each received message into Reset and pulls records until Next
// returns nil, stopping for good once Last reports true.
type StreamReader struct {
	buf  *wire.Buffer
	end  int
	last bool
}

// NewStreamReader starts reading at the message framing word.
func NewStreamReader(buf *wire.Buffer) (*StreamReader, error) {
	r := &StreamReader{}
	if err := r.Reset(buf); err != nil {
		return nil, err
	}
	return r, nil
}

// Reset points the reader at the next framed message.
func (r *StreamReader) Reset(buf *wire.Buffer) error {
	buf.ResetOffset()
	size := buf.ReadMessageSize()
	if 8+size > wire.MaxBufferSize {
		observability.ParseFailure()
		return types.NewParseError("response frame advertises an oversized body")
	}
	r.buf = buf
	r.end = 8 + size
	return nil
}

// Last reports whether the final message of the stream has been consumed.
func (r *StreamReader) Last() bool { return r.last }

// Next decodes the next record, or returns nil when the current message is
// drained or the stream has ended. Cancellation between records is the
// transport's concern; the reader holds no resources.
func (r *StreamReader) Next() (*StreamRecord, error) {
	if r.last || r.buf.DataOffset >= r.end {
		return nil, nil
	}
	if r.end-r.buf.DataOffset < wire.RemainingHeaderSize {
		observability.ParseFailure()
		return nil, types.NewParseError("truncated record header in stream")
	}

	meta := readRecordMeta(r.buf)
	if meta.info3&wire.Info3Last != 0 {
		r.last = true
		if meta.resultCode != types.ResultOK && meta.resultCode != types.ResultKeyNotFound {
			return nil, types.NewServerError(meta.resultCode)
		}
		return nil, nil
	}

	sr := &StreamRecord{BatchIndex: meta.batchIndex, ResultCode: meta.resultCode}
	key, err := parseKeyFields(r.buf, meta.fieldCount)
	if err != nil {
		observability.ParseFailure()
		return nil, err
	}
	if meta.resultCode == types.ResultOK {
		bins, err := parseBins(r.buf, meta.opCount)
		if err != nil {
			return nil, err
		}
		sr.Record = &types.Record{
			Key:        key,
			Bins:       bins,
			Generation: meta.generation,
			Expiration: meta.expiration,
		}
	} else if meta.opCount > 0 {
		// Failed records can still carry op frames; drain them.
		if _, err := parseBins(r.buf, meta.opCount); err != nil {
			return nil, err
		}
	}
	observability.RecordParsed()
	return sr, nil
}

// ApplyBatchResponse decodes one batch response message and stores each
// record into its slot by batch index.
func ApplyBatchResponse(buf *wire.Buffer, batch []*BatchOperation) (last bool, err error) {
	reader, err := NewStreamReader(buf)
	if err != nil {
		return false, err
	}
	for {
		sr, err := reader.Next()
		if err != nil {
			return false, err
		}
		if sr == nil {
			return reader.Last(), nil
		}
		if int(sr.BatchIndex) >= len(batch) {
			logrus.WithField("batch_index", sr.BatchIndex).Debug("batch response index out of range")
			observability.ParseFailure()
			return false, types.NewParseError("batch response index out of range")
		}
		slot := batch[sr.BatchIndex].Record()
		if sr.ResultCode == types.ResultOK {
			slot.setRecord(sr.Record)
		} else {
			slot.setResultCode(sr.ResultCode, false)
		}
	}
}

// MarkInDoubt flags the unresolved write-flavored elements of a batch
// whose outcome a network interruption left unknown. The request must have
// left the client for inDoubt to apply.
func MarkInDoubt(batch []*BatchOperation, commandSent bool) {
	for _, op := range batch {
		rec := op.Record()
		if rec.Resolved() {
			continue
		}
		rec.ResultCode = types.ResultTimeout
		rec.InDoubt = commandSent && op.HasWrite()
	}
}

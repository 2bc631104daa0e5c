// Package wire implements the low-level command buffer for the Aerospike
// binary protocol: a growable byte vector with a forward-only cursor, typed
// big-endian writers and readers, and the 8-byte message framing word.
//
// The buffer is built in two phases. First the caller walks its inputs
// advancing DataOffset without touching memory (size estimation), then calls
// SizeBuffer and walks the inputs a second time writing for real. Both walks
// must visit the inputs in the same order.
package wire

// Message framing.
const (
	// CLMessageVersion is the protocol version byte in the framing word.
	CLMessageVersion = 2
	// ASMessageType identifies an Aerospike message frame.
	ASMessageType = 3

	// TotalHeaderSize is the framing word plus the remaining header.
	TotalHeaderSize = 30
	// RemainingHeaderSize is the fixed header that follows the framing word.
	RemainingHeaderSize = 22
	// FieldHeaderSize is the per-field length+type prefix.
	FieldHeaderSize = 5
	// OperationHeaderSize is the per-operation fixed prefix.
	OperationHeaderSize = 8
	// DigestSize is the length of a record digest.
	DigestSize = 20

	// timeoutOffset is the fixed slot patched right before send.
	timeoutOffset = 22
)

// MaxBufferSize protects against allocating massive memory blocks for
// buffers. Corrupted streams can advertise huge lengths; growing past this
// cap is treated as an encoding error.
const MaxBufferSize = 1024*1024 + 8

// Info1 attribute bits.
const (
	Info1Read           = 1 << 0
	Info1GetAll         = 1 << 1
	Info1Batch          = 1 << 3
	Info1NoBinData      = 1 << 5
	Info1ConsistencyAll = 1 << 6
)

// Info2 attribute bits.
const (
	Info2Write         = 1 << 0
	Info2Delete        = 1 << 1
	Info2Generation    = 1 << 2
	Info2GenerationGT  = 1 << 3
	Info2DurableDelete = 1 << 4
	Info2CreateOnly    = 1 << 5
	Info2RespondAllOps = 1 << 7
)

// Info3 attribute bits.
const (
	Info3Last            = 1 << 0
	Info3CommitMaster    = 1 << 1
	Info3UpdateOnly      = 1 << 3
	Info3CreateOrReplace = 1 << 4
	Info3ReplaceOnly     = 1 << 5
)

// FieldType is the u8 discriminant of a request field.
type FieldType uint8

// Field types understood by servers 4.x and later. The integers are part of
// the compatibility contract.
const (
	FieldNamespace         FieldType = 0
	FieldTable             FieldType = 1
	FieldKey               FieldType = 2
	FieldDigestRipe        FieldType = 4
	FieldTranID            FieldType = 7
	FieldScanOptions       FieldType = 8
	FieldScanTimeout       FieldType = 9
	FieldBatchIndex        FieldType = 0x11
	FieldBatchIndexWithSet FieldType = 0x12
	FieldIndexName         FieldType = 21
	FieldIndexRange        FieldType = 22
	FieldIndexType         FieldType = 26
	FieldUDFPackageName    FieldType = 30
	FieldUDFFunction       FieldType = 31
	FieldUDFArgList        FieldType = 32
	FieldUDFOp             FieldType = 33
	FieldQueryBinList      FieldType = 40
	FieldFilterExpression  FieldType = 43
)

package policy

import (
	"github.com/jeeves-cluster-organization/aerowire/expressions"
)

// BatchPolicy is the message-level policy of a batch command.
type BatchPolicy struct {
	BasePolicy

	// SendSetName transmits the set name per record, enabling mixed-set
	// batches.
	SendSetName bool
	// AllowInline lets the server process in-memory records inline.
	AllowInline bool
}

// NewBatchPolicy returns a batch policy with inline processing enabled.
func NewBatchPolicy() *BatchPolicy {
	return &BatchPolicy{AllowInline: true}
}

// BatchReadPolicy is the per-record policy of a batch read.
type BatchReadPolicy struct {
	// FilterExpression gates this record only; when it evaluates false the
	// record reports a filtered-out result code.
	FilterExpression *expressions.FilterExpression
}

// BatchWritePolicy is the per-record policy of a batch write.
type BatchWritePolicy struct {
	// RecordExistsAction qualifies how an existing record is handled.
	RecordExistsAction RecordExistsAction
	// GenerationPolicy qualifies how Generation restricts the write.
	GenerationPolicy GenerationPolicy
	// CommitLevel selects the replication guarantee.
	CommitLevel CommitLevel
	// Generation is the expected record generation.
	Generation uint32
	// Expiration is the record TTL to apply.
	Expiration Expiration
	// SendKey transmits the user key alongside the digest.
	SendKey bool
	// DurableDelete leaves a tombstone when the write deletes the record.
	DurableDelete bool
	// FilterExpression gates this record only.
	FilterExpression *expressions.FilterExpression
}

// BatchDeletePolicy is the per-record policy of a batch delete.
type BatchDeletePolicy struct {
	// GenerationPolicy qualifies how Generation restricts the delete.
	GenerationPolicy GenerationPolicy
	// CommitLevel selects the replication guarantee.
	CommitLevel CommitLevel
	// Generation is the expected record generation.
	Generation uint32
	// SendKey transmits the user key alongside the digest.
	SendKey bool
	// DurableDelete leaves a tombstone.
	DurableDelete bool
	// FilterExpression gates this record only.
	FilterExpression *expressions.FilterExpression
}

// BatchUDFPolicy is the per-record policy of a batch UDF apply.
type BatchUDFPolicy struct {
	// CommitLevel selects the replication guarantee.
	CommitLevel CommitLevel
	// Expiration is the record TTL to apply.
	Expiration Expiration
	// SendKey transmits the user key alongside the digest.
	SendKey bool
	// DurableDelete leaves a tombstone when the UDF deletes the record.
	DurableDelete bool
	// FilterExpression gates this record only.
	FilterExpression *expressions.FilterExpression
}

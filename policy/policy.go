// Package policy defines the per-command policies consumed by the command
// assemblers: consistency and priority for reads, record-exists and
// generation handling for writes, scan and query tuning, and per-record
// batch policies.
//
// Policies carry no timeout bookkeeping beyond the header slot the
// transport patches; the core never compares times.
package policy

import (
	"time"

	"github.com/jeeves-cluster-organization/aerowire/expressions"
)

// Priority is the server-side priority of a command.
type Priority uint8

const (
	// PriorityDefault defers to the server's configured priority.
	PriorityDefault Priority = 0
	// PriorityLow runs the command at low priority.
	PriorityLow Priority = 1
	// PriorityMedium runs the command at medium priority.
	PriorityMedium Priority = 2
	// PriorityHigh runs the command at high priority.
	PriorityHigh Priority = 3
)

// ConsistencyLevel selects how many replicas must be consulted on reads.
type ConsistencyLevel uint8

const (
	// ConsistencyOne reads from a single replica.
	ConsistencyOne ConsistencyLevel = iota
	// ConsistencyAll involves all replicas in the read.
	ConsistencyAll
)

// RecordExistsAction qualifies how writes treat an existing record.
type RecordExistsAction uint8

const (
	// Update creates or updates; bins are merged.
	Update RecordExistsAction = iota
	// UpdateOnly updates; fails when the record does not exist.
	UpdateOnly
	// Replace creates or replaces the whole record.
	Replace
	// ReplaceOnly replaces; fails when the record does not exist.
	ReplaceOnly
	// CreateOnly creates; fails when the record exists.
	CreateOnly
)

// GenerationPolicy qualifies how writes use the expected generation.
type GenerationPolicy uint8

const (
	// GenerationIgnore does not restrict writes by generation.
	GenerationIgnore GenerationPolicy = iota
	// ExpectGenEqual writes only when the server generation equals the
	// expected one.
	ExpectGenEqual
	// ExpectGenGreater writes only when the expected generation is greater
	// than the server one. Useful for restores.
	ExpectGenGreater
)

// CommitLevel selects the replication guarantee before success is
// reported.
type CommitLevel uint8

const (
	// CommitAll waits for master and all replicas.
	CommitAll CommitLevel = iota
	// CommitMaster waits for the master only.
	CommitMaster
)

// Expiration encodes record time to live in seconds, with reserved values
// for the namespace default, never expire, and don't touch.
type Expiration uint32

const (
	// ExpirationNamespaceDefault applies the namespace default TTL.
	ExpirationNamespaceDefault Expiration = 0
	// ExpirationNever keeps the record forever.
	ExpirationNever Expiration = 0xFFFFFFFF
	// ExpirationDontTouch leaves the current TTL unchanged.
	ExpirationDontTouch Expiration = 0xFFFFFFFE
)

// Seconds returns an expiration of the given number of seconds.
func Seconds(secs uint32) Expiration { return Expiration(secs) }

// BasePolicy holds the fields shared by every command.
type BasePolicy struct {
	// Priority is the server-side command priority.
	Priority Priority
	// ConsistencyLevel selects replica involvement on reads.
	ConsistencyLevel ConsistencyLevel
	// TotalTimeout is patched into the header slot by the transport right
	// before send. Zero leaves the slot empty.
	TotalTimeout time.Duration
	// FilterExpression gates the command server-side. Records failing the
	// filter report a filtered-out result code.
	FilterExpression *expressions.FilterExpression
}

// ReadPolicy is the policy for single-record reads.
type ReadPolicy = BasePolicy

// NewReadPolicy returns a read policy with defaults.
func NewReadPolicy() *ReadPolicy {
	return &ReadPolicy{}
}

// WritePolicy is the policy for single-record writes, deletes, touches,
// operates, and UDF applies.
type WritePolicy struct {
	BasePolicy

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
	// RespondPerEachOp returns one result per operation in an operate
	// command instead of a composite result.
	RespondPerEachOp bool
}

// NewWritePolicy returns a write policy with the given generation and
// expiration.
func NewWritePolicy(generation uint32, expiration Expiration) *WritePolicy {
	return &WritePolicy{
		Generation: generation,
		Expiration: expiration,
	}
}

// ScanPolicy is the policy for full-namespace or set scans.
type ScanPolicy struct {
	BasePolicy

	// ScanPercent is the sampled share of records, 1 to 100.
	ScanPercent uint8
	// FailOnClusterChange aborts the scan when the cluster is in flux.
	FailOnClusterChange bool
	// SocketTimeout is transmitted in the scan-timeout field for the
	// server's socket idle checks.
	SocketTimeout time.Duration
}

// NewScanPolicy returns a scan policy covering every record.
func NewScanPolicy() *ScanPolicy {
	return &ScanPolicy{ScanPercent: 100}
}

// QueryPolicy is the policy for secondary-index queries.
type QueryPolicy struct {
	BasePolicy
}

// NewQueryPolicy returns a query policy with defaults.
func NewQueryPolicy() *QueryPolicy {
	return &QueryPolicy{}
}

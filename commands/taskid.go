package commands

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// NewTaskID derives a scan or query task id from a random UUID. The server
// uses the id to correlate partial results and job status; it only needs
// to be unique per node, not sequential.
func NewTaskID() uint64 {
	id := uuid.New()
	return binary.BigEndian.Uint64(id[:8])
}

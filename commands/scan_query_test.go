package commands

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeves-cluster-organization/aerowire/policy"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

func TestScanAllBins(t *testing.T) {
	sp := policy.NewScanPolicy()
	sp.Priority = policy.PriorityHigh
	sp.FailOnClusterChange = true
	sp.SocketTimeout = 10 * time.Second

	cmd := NewCommand()
	err := cmd.SetScan(sp, "test", "s", types.BinsAll(), 0xCAFE)
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info1Read), frame[readAttrOffset])
	assert.Equal(t, uint16(5), fieldCountOf(frame),
		"ns, set, scan options, scan timeout, task id")
	assert.Equal(t, uint16(0), opCountOf(frame))

	// scan options byte: priority in the high nibble, cluster-change flag
	// at 0x08
	offset := 30
	offset += 5 + 4 // namespace field
	offset += 5 + 1 // set field
	assert.Equal(t, uint32(3), binary.BigEndian.Uint32(frame[offset:offset+4]))
	assert.Equal(t, uint8(wire.FieldScanOptions), frame[offset+4])
	assert.Equal(t, uint8(3<<4|0x08), frame[offset+5])
	assert.Equal(t, uint8(100), frame[offset+6])

	offset += 7
	assert.Equal(t, uint8(wire.FieldScanTimeout), frame[offset+4])
	assert.Equal(t, uint32(10000), binary.BigEndian.Uint32(frame[offset+5:offset+9]))

	offset += 9
	assert.Equal(t, uint8(wire.FieldTranID), frame[offset+4])
	assert.Equal(t, uint64(0xCAFE), binary.BigEndian.Uint64(frame[offset+5:offset+13]))
}

func TestScanNoBinData(t *testing.T) {
	cmd := NewCommand()
	err := cmd.SetScan(policy.NewScanPolicy(), "test", "", types.BinsNone(), 1)
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info1Read|wire.Info1NoBinData), frame[readAttrOffset])
	assert.Equal(t, uint16(4), fieldCountOf(frame), "no set field")
}

func TestScanNamedBins(t *testing.T) {
	cmd := NewCommand()
	err := cmd.SetScan(policy.NewScanPolicy(), "test", "s", types.SomeBins("a", "b"), 1)
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info1Read), frame[readAttrOffset])
	assert.Equal(t, uint16(2), opCountOf(frame))
}

func TestQueryWithRangeFilter(t *testing.T) {
	stmt := NewStatement("test", "s")
	stmt.IndexName = "age-idx"
	stmt.Filter = NewRangeFilter("age", 18, 65)

	cmd := NewCommand()
	err := cmd.SetQuery(policy.NewQueryPolicy(), stmt, false, 7)
	require.NoError(t, err)
	frame := cmd.Bytes()

	assert.Equal(t, uint8(wire.Info1Read), frame[readAttrOffset])
	assert.Equal(t, uint8(0), frame[writeAttrOffset])
	// ns, set, index name, task id, index range
	assert.Equal(t, uint16(5), fieldCountOf(frame))
	assert.Equal(t, uint16(0), opCountOf(frame))
}

func TestQueryCollectionFilterAddsIndexTypeField(t *testing.T) {
	stmt := NewStatement("test", "s")
	stmt.Filter = NewContainsFilter("tags", IndexCollectionList, "blue")

	cmd := NewCommand()
	err := cmd.SetQuery(policy.NewQueryPolicy(), stmt, false, 7)
	require.NoError(t, err)

	// ns, set, task id, index type, index range
	assert.Equal(t, uint16(5), fieldCountOf(cmd.Bytes()))
}

func TestQueryWithoutFilterIsScan(t *testing.T) {
	stmt := NewStatement("test", "s")
	require.True(t, stmt.IsScan())

	cmd := NewCommand()
	err := cmd.SetQuery(policy.NewQueryPolicy(), stmt, false, 7)
	require.NoError(t, err)
	frame := cmd.Bytes()

	// ns, set, task id, scan options
	assert.Equal(t, uint16(4), fieldCountOf(frame))
}

func TestQueryBinListWithFilter(t *testing.T) {
	stmt := NewStatement("test", "s")
	stmt.Filter = NewRangeFilter("age", 0, 10)
	stmt.Bins = types.SomeBins("a", "b")

	cmd := NewCommand()
	err := cmd.SetQuery(policy.NewQueryPolicy(), stmt, false, 7)
	require.NoError(t, err)
	frame := cmd.Bytes()

	// ns, set, task id, index range, query bin list
	assert.Equal(t, uint16(5), fieldCountOf(frame))
	assert.Equal(t, uint16(0), opCountOf(frame), "bin list rides in a field, not ops")
}

func TestQueryAggregation(t *testing.T) {
	stmt := NewStatement("test", "s")
	stmt.Aggregation = &Aggregation{
		PackageName:  "stats",
		FunctionName: "sum",
		Args:         types.ListValue{types.StringValue("bin")},
	}

	cmd := NewCommand()
	err := cmd.SetQuery(policy.NewQueryPolicy(), stmt, false, 7)
	require.NoError(t, err)

	// ns, set, task id, scan options, udf op, package, function, args
	assert.Equal(t, uint16(8), fieldCountOf(cmd.Bytes()))
}

func TestQueryWriteFlag(t *testing.T) {
	stmt := NewStatement("test", "s")

	cmd := NewCommand()
	err := cmd.SetQuery(policy.NewQueryPolicy(), stmt, true, 7)
	require.NoError(t, err)
	assert.Equal(t, uint8(wire.Info2Write), cmd.Bytes()[writeAttrOffset])
}

func TestNewTaskIDIsUnique(t *testing.T) {
	seen := map[uint64]bool{}
	for i := 0; i < 64; i++ {
		id := NewTaskID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

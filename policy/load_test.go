package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileYAML = `
read:
  priority: low
  consistency_all: true
  total_timeout: 250ms
write:
  priority: high
  exists_action: create_only
  commit_master: true
  durable_delete: true
  send_key: true
  expiration_seconds: 300
scan:
  priority: medium
  percent: 50
  fail_on_cluster_change: true
  socket_timeout: 10s
batch:
  send_set_name: true
  allow_inline: true
`

func TestLoadProfile(t *testing.T) {
	p, err := Load([]byte(profileYAML))
	require.NoError(t, err)

	rp, err := p.ReadPolicy()
	require.NoError(t, err)
	assert.Equal(t, PriorityLow, rp.Priority)
	assert.Equal(t, ConsistencyAll, rp.ConsistencyLevel)
	assert.Equal(t, 250*time.Millisecond, rp.TotalTimeout)

	wp, err := p.WritePolicy()
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, wp.Priority)
	assert.Equal(t, CreateOnly, wp.RecordExistsAction)
	assert.Equal(t, CommitMaster, wp.CommitLevel)
	assert.True(t, wp.DurableDelete)
	assert.True(t, wp.SendKey)
	assert.Equal(t, Seconds(300), wp.Expiration)

	sp, err := p.ScanPolicy()
	require.NoError(t, err)
	assert.Equal(t, uint8(50), sp.ScanPercent)
	assert.True(t, sp.FailOnClusterChange)
	assert.Equal(t, 10*time.Second, sp.SocketTimeout)

	bp := p.BatchPolicy()
	assert.True(t, bp.SendSetName)
	assert.True(t, bp.AllowInline)
}

func TestLoadDefaults(t *testing.T) {
	p, err := Load([]byte("{}"))
	require.NoError(t, err)

	sp, err := p.ScanPolicy()
	require.NoError(t, err)
	assert.Equal(t, uint8(100), sp.ScanPercent)

	rp, err := p.ReadPolicy()
	require.NoError(t, err)
	assert.Equal(t, PriorityDefault, rp.Priority)
	assert.Equal(t, ConsistencyOne, rp.ConsistencyLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load([]byte("scan:\n  percent: 101\n"))
	assert.Error(t, err)

	p, err := Load([]byte("read:\n  priority: urgent\n"))
	require.NoError(t, err)
	_, err = p.ReadPolicy()
	assert.Error(t, err)

	p, err = Load([]byte("write:\n  exists_action: upsert\n"))
	require.NoError(t, err)
	_, err = p.WritePolicy()
	assert.Error(t, err)
}

func TestExpirationEncodings(t *testing.T) {
	assert.Equal(t, Expiration(0), ExpirationNamespaceDefault)
	assert.Equal(t, Expiration(0xFFFFFFFF), ExpirationNever)
	assert.Equal(t, Expiration(0xFFFFFFFE), ExpirationDontTouch)
	assert.Equal(t, Expiration(60), Seconds(60))
}

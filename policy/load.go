package policy

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile is a set of named policy defaults loaded from a YAML file, so
// deployments can tune priorities, timeouts, and write semantics without
// recompiling.
type Profile struct {
	Read  ReadProfile  `yaml:"read"`
	Write WriteProfile `yaml:"write"`
	Scan  ScanProfile  `yaml:"scan"`
	Batch BatchProfile `yaml:"batch"`
}

// ReadProfile tunes read policy defaults.
type ReadProfile struct {
	Priority       string `yaml:"priority"`
	ConsistencyAll bool   `yaml:"consistency_all"`
	TotalTimeout   string `yaml:"total_timeout"`
}

// WriteProfile tunes write policy defaults.
type WriteProfile struct {
	Priority          string `yaml:"priority"`
	TotalTimeout      string `yaml:"total_timeout"`
	ExistsAction      string `yaml:"exists_action"`
	CommitMaster      bool   `yaml:"commit_master"`
	DurableDelete     bool   `yaml:"durable_delete"`
	SendKey           bool   `yaml:"send_key"`
	ExpirationSeconds uint32 `yaml:"expiration_seconds"`
}

// ScanProfile tunes scan policy defaults.
type ScanProfile struct {
	Priority            string `yaml:"priority"`
	Percent             uint8  `yaml:"percent"`
	FailOnClusterChange bool   `yaml:"fail_on_cluster_change"`
	SocketTimeout       string `yaml:"socket_timeout"`
}

// BatchProfile tunes batch policy defaults.
type BatchProfile struct {
	SendSetName bool `yaml:"send_set_name"`
	AllowInline bool `yaml:"allow_inline"`
}

// LoadFile reads a policy profile from a YAML file.
func LoadFile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy profile: %w", err)
	}
	return Load(raw)
}

// Load parses a policy profile from YAML bytes.
func Load(raw []byte) (*Profile, error) {
	p := &Profile{
		Scan:  ScanProfile{Percent: 100},
		Batch: BatchProfile{AllowInline: true},
	}
	if err := yaml.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("parse policy profile: %w", err)
	}
	if p.Scan.Percent == 0 || p.Scan.Percent > 100 {
		return nil, fmt.Errorf("scan percent %d out of range 1..100", p.Scan.Percent)
	}
	return p, nil
}

// ReadPolicy materializes the read defaults.
func (p *Profile) ReadPolicy() (*ReadPolicy, error) {
	prio, err := parsePriority(p.Read.Priority)
	if err != nil {
		return nil, err
	}
	timeout, err := parseDuration(p.Read.TotalTimeout)
	if err != nil {
		return nil, err
	}
	rp := NewReadPolicy()
	rp.Priority = prio
	rp.TotalTimeout = timeout
	if p.Read.ConsistencyAll {
		rp.ConsistencyLevel = ConsistencyAll
	}
	return rp, nil
}

// WritePolicy materializes the write defaults.
func (p *Profile) WritePolicy() (*WritePolicy, error) {
	prio, err := parsePriority(p.Write.Priority)
	if err != nil {
		return nil, err
	}
	action, err := parseExistsAction(p.Write.ExistsAction)
	if err != nil {
		return nil, err
	}
	timeout, err := parseDuration(p.Write.TotalTimeout)
	if err != nil {
		return nil, err
	}
	wp := NewWritePolicy(0, Seconds(p.Write.ExpirationSeconds))
	wp.Priority = prio
	wp.TotalTimeout = timeout
	wp.RecordExistsAction = action
	wp.DurableDelete = p.Write.DurableDelete
	wp.SendKey = p.Write.SendKey
	if p.Write.CommitMaster {
		wp.CommitLevel = CommitMaster
	}
	return wp, nil
}

// ScanPolicy materializes the scan defaults.
func (p *Profile) ScanPolicy() (*ScanPolicy, error) {
	prio, err := parsePriority(p.Scan.Priority)
	if err != nil {
		return nil, err
	}
	timeout, err := parseDuration(p.Scan.SocketTimeout)
	if err != nil {
		return nil, err
	}
	sp := NewScanPolicy()
	sp.Priority = prio
	sp.ScanPercent = p.Scan.Percent
	sp.FailOnClusterChange = p.Scan.FailOnClusterChange
	sp.SocketTimeout = timeout
	return sp, nil
}

// BatchPolicy materializes the batch defaults.
func (p *Profile) BatchPolicy() *BatchPolicy {
	bp := NewBatchPolicy()
	bp.SendSetName = p.Batch.SendSetName
	bp.AllowInline = p.Batch.AllowInline
	return bp
}

// parseDuration reads a Go duration string; empty means zero.
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

func parsePriority(s string) (Priority, error) {
	switch s {
	case "", "default":
		return PriorityDefault, nil
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return PriorityDefault, fmt.Errorf("unknown priority %q", s)
}

func parseExistsAction(s string) (RecordExistsAction, error) {
	switch s {
	case "", "update":
		return Update, nil
	case "update_only":
		return UpdateOnly, nil
	case "replace":
		return Replace, nil
	case "replace_only":
		return ReplaceOnly, nil
	case "create_only":
		return CreateOnly, nil
	}
	return Update, fmt.Errorf("unknown exists action %q", s)
}

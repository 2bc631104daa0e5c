// Package main provides the aswire CLI for offline frame inspection.
//
// The CLI reads a JSON request description from stdin, assembles the wire
// frame, and writes a hex dump to stdout. Designed for debugging encoder
// changes and for diffing frames against other client implementations.
//
// Usage:
//
//	# Encode a single-bin write
//	echo '{"namespace":"test","set":"s","key":42,"bins":{"a":7}}' | aswire write
//
//	# Encode a read of two bins
//	echo '{"namespace":"test","set":"s","key":42,"bin_names":["a","b"]}' | aswire read
//
//	# Encode a delete
//	echo '{"namespace":"test","set":"s","key":42}' | aswire delete
//
//	# Encode an existence probe
//	echo '{"namespace":"test","set":"s","key":42}' | aswire exists
package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jeeves-cluster-organization/aerowire/commands"
	"github.com/jeeves-cluster-organization/aerowire/operations"
	"github.com/jeeves-cluster-organization/aerowire/policy"
	"github.com/jeeves-cluster-organization/aerowire/types"
)

const (
	cmdWrite   = "write"
	cmdRead    = "read"
	cmdDelete  = "delete"
	cmdExists  = "exists"
	cmdTouch   = "touch"
	cmdVersion = "version"
)

const version = "1.0.0"

// request is the JSON request description read from stdin.
type request struct {
	Namespace string         `json:"namespace"`
	Set       string         `json:"set"`
	Key       any            `json:"key"`
	Bins      map[string]any `json:"bins,omitempty"`
	BinNames  []string       `json:"bin_names,omitempty"`
	SendKey   bool           `json:"send_key,omitempty"`
	Profile   string         `json:"profile,omitempty"`
}

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if len(os.Args) < 2 {
		log.Error("missing command; want write|read|delete|exists|touch|version")
		os.Exit(2)
	}
	command := os.Args[1]

	if command == cmdVersion {
		fmt.Println("aswire " + version)
		return
	}

	raw, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		log.WithError(err).Error("reading stdin")
		os.Exit(1)
	}

	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		log.WithError(err).Error("parsing request JSON")
		os.Exit(1)
	}

	frame, err := encode(command, &req)
	if err != nil {
		log.WithError(err).WithField("command", command).Error("encoding frame")
		os.Exit(1)
	}

	fmt.Println(hex.Dump(frame))
	log.WithFields(logrus.Fields{
		"command": command,
		"bytes":   len(frame),
	}).Info("frame encoded")
}

func encode(command string, req *request) ([]byte, error) {
	key, err := types.NewKey(req.Namespace, req.Set, normalizeKey(req.Key))
	if err != nil {
		return nil, err
	}

	wp := policy.NewWritePolicy(0, policy.ExpirationNamespaceDefault)
	wp.SendKey = req.SendKey
	rp := policy.NewReadPolicy()
	if req.Profile != "" {
		profile, err := policy.LoadFile(req.Profile)
		if err != nil {
			return nil, err
		}
		if wp, err = profile.WritePolicy(); err != nil {
			return nil, err
		}
		wp.SendKey = req.SendKey
		if rp, err = profile.ReadPolicy(); err != nil {
			return nil, err
		}
	}

	cmd := commands.NewCommand()
	switch command {
	case cmdWrite:
		bins := make([]*types.Bin, 0, len(req.Bins))
		for name, value := range req.Bins {
			bins = append(bins, types.NewBin(name, normalizeKey(value)))
		}
		if err := cmd.SetWrite(wp, operations.OpWrite, key, bins); err != nil {
			return nil, err
		}
	case cmdRead:
		bins := types.BinsAll()
		if len(req.BinNames) > 0 {
			bins = types.SomeBins(req.BinNames...)
		}
		if err := cmd.SetRead(rp, key, bins); err != nil {
			return nil, err
		}
	case cmdDelete:
		if err := cmd.SetDelete(wp, key); err != nil {
			return nil, err
		}
	case cmdExists:
		if err := cmd.SetExists(rp, key); err != nil {
			return nil, err
		}
	case cmdTouch:
		if err := cmd.SetTouch(wp, key); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
	return cmd.Bytes(), nil
}

// normalizeKey maps JSON numbers onto protocol integers where they are
// integral, since encoding/json decodes every number as float64.
func normalizeKey(v any) any {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return v
}

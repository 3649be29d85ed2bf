// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads and validates the run configuration the CLI
// collaborator feeds into the simulator core.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/luxfi/netsim/kernel"
	"github.com/luxfi/netsim/network"
)

// Sentinel validation errors, wrapped into a ConfigError by Validate.
var (
	ErrNumRunsTooLow       = errors.New("numRuns must be >= 1")
	ErrNumConsensusTooLow  = errors.New("numConsensus must be >= 1")
	ErrNumNodesTooLow      = errors.New("numNodes must be >= 4")
	ErrInvalidRate         = errors.New("processing rate must be > 0 or the transparent sentinel -1")
	ErrBaseTimeLimitTooLow = errors.New("baseTimeLimit must be > 0")
	ErrUnknownNetworkType  = errors.New("unrecognized networkType")
)

// ConfigError wraps a validation failure with the offending field.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: field %q: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// RunConfig is the JSON-encoded run configuration described in §6, plus
// the wall-clock safety valve §4.1's is_over() calls for.
type RunConfig struct {
	NumRuns              int           `json:"numRuns"`
	NumConsensus         int           `json:"numConsensus"`
	StartingSeed         int64         `json:"startingSeed"`
	SeedMultiplier       int64         `json:"seedMultiplier"`
	NumNodes             int           `json:"numNodes"`
	NodeProcessingRate   float64       `json:"nodeProcessingRate"`
	SwitchProcessingRate float64       `json:"switchProcessingRate"`
	BaseTimeLimit        float64       `json:"baseTimeLimit"`
	NetworkType          string        `json:"networkType"`
	NetworkParameters    []int         `json:"networkParameters"`
	MaxWallClock         time.Duration `json:"maxWallClock"`
}

// Load reads and JSON-decodes a RunConfig from path, then validates it.
func Load(path string) (*RunConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()

	var cfg RunConfig
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validRate(r float64) bool {
	return r == kernel.TransparentRate || r > 0
}

// Validate checks the count, rate, time-limit and networkType fields
// named in §6, returning a *ConfigError naming the first offending
// field. networkParameters are checked by network.Build, not here.
func (c *RunConfig) Validate() error {
	switch {
	case c.NumRuns < 1:
		return &ConfigError{Field: "numRuns", Err: ErrNumRunsTooLow}
	case c.NumConsensus < 1:
		return &ConfigError{Field: "numConsensus", Err: ErrNumConsensusTooLow}
	case c.NumNodes < 4:
		return &ConfigError{Field: "numNodes", Err: ErrNumNodesTooLow}
	case !validRate(c.NodeProcessingRate):
		return &ConfigError{Field: "nodeProcessingRate", Err: ErrInvalidRate}
	case !validRate(c.SwitchProcessingRate):
		return &ConfigError{Field: "switchProcessingRate", Err: ErrInvalidRate}
	case c.BaseTimeLimit <= 0:
		return &ConfigError{Field: "baseTimeLimit", Err: ErrBaseTimeLimitTooLow}
	}
	if _, err := ParseNetworkType(c.NetworkType); err != nil {
		return &ConfigError{Field: "networkType", Err: err}
	}
	return nil
}

// ParseNetworkType maps the JSON enum name onto a network.Kind.
func ParseNetworkType(s string) (network.Kind, error) {
	switch s {
	case "Clique":
		return network.Clique, nil
	case "Mesh":
		return network.Mesh, nil
	case "Torus":
		return network.Torus, nil
	case "Butterfly":
		return network.Butterfly, nil
	case "FoldedClos":
		return network.FoldedClos, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownNetworkType, s)
	}
}

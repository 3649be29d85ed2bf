// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/netsim/config"
)

func cliqueQuartetConfig() *config.RunConfig {
	return &config.RunConfig{
		NumRuns:              1,
		NumConsensus:         1,
		StartingSeed:         1,
		SeedMultiplier:       7,
		NumNodes:             4,
		NodeProcessingRate:   -1,
		SwitchProcessingRate: -1,
		BaseTimeLimit:        10000,
		NetworkType:          "Clique",
	}
}

func TestRunTrialsIBFTReachesSnapshot(t *testing.T) {
	cfg := cliqueQuartetConfig()
	var buf bytes.Buffer
	require.NoError(t, runTrials(cfg, "ibft", &buf))

	out := buf.String()
	require.Contains(t, out, "--- trial 0 snapshot")
	require.Contains(t, out, "consensus_count=1")
}

func TestRunTrialsHotStuffReachesSnapshot(t *testing.T) {
	cfg := cliqueQuartetConfig()
	var buf bytes.Buffer
	require.NoError(t, runTrials(cfg, "hotstuff", &buf))

	out := buf.String()
	require.Contains(t, out, "--- trial 0 snapshot")
	require.Contains(t, out, "consensus_count=1")
}

func TestRunTrialsMultipleRunsUseDistinctSeeds(t *testing.T) {
	cfg := cliqueQuartetConfig()
	cfg.NumRuns = 2
	var buf bytes.Buffer
	require.NoError(t, runTrials(cfg, "ibft", &buf))

	out := buf.String()
	require.True(t, strings.Contains(out, "trial 0 snapshot") && strings.Contains(out, "trial 1 snapshot"))
	// startingSeed 1, seedMultiplier 7: trial 0 uses seed 1, trial 1 seed 8.
	require.Contains(t, out, "trial 0 snapshot (seed=1)")
	require.Contains(t, out, "trial 1 snapshot (seed=8)")
}

func TestRunTrialsRejectsUnknownTopology(t *testing.T) {
	cfg := cliqueQuartetConfig()
	cfg.NetworkType = "Hypercube"
	var buf bytes.Buffer
	require.Error(t, runTrials(cfg, "ibft", &buf))
}

// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hotstuff

import (
	"testing"

	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/netsim/kernel"
	"github.com/luxfi/netsim/network"
)

func buildCliqueQuartet(t *testing.T, baseTimeLimit float64) ([]*Validator, kernel.Registry) {
	t.Helper()
	ids := make([]kernel.NodeID, 4)
	for i := range ids {
		ids[i] = kernel.NodeID{Name: "val", Seq: i}
	}

	stream := kernel.NewStream(0)
	fab, err := network.BuildClique(ids, kernel.TransparentRate, stream)
	require.NoError(t, err)

	reg := kernel.Registry{}
	for _, sw := range fab.Switches {
		reg[sw.ID()] = sw
	}

	validators := make([]*Validator, len(ids))
	for i, id := range ids {
		uplink := network.NewUplink(fab.EndpointUplinks[id], stream.Sub(int64(i)))
		sampler := kernel.NewExpSampler(stream, kernel.TransparentRate)
		v := NewValidator(id, i, ids, uplink, sampler, baseTimeLimit, log.NewNoOpLogger())
		validators[i] = v
		reg[id] = v
	}
	return validators, reg
}

func runTrial(t *testing.T, validators []*Validator, reg kernel.Registry, targetCount int) {
	t.Helper()
	ids := make([]kernel.NodeID, len(validators))
	counters := make(map[kernel.NodeID]kernel.ConsensusCounter, len(validators))
	for i, v := range validators {
		ids[i] = v.ID()
		counters[v.ID()] = v
	}

	sim := kernel.NewSimulator(reg, ids, counters, targetCount, 0, nil, log.NewNoOpLogger(), nil)
	for _, v := range validators {
		sim.Schedule(kernel.PollQueueEvent{At: 0, Node: v.ID()})
		sim.Schedule(kernel.QueueMessageEvent{At: 0, Node: v.ID(), Payload: kernel.Payload{
			Message: Bootstrap{}, LastHop: v.ID(), FinalDestination: v.ID(),
		}})
	}
	for _, n := range reg {
		if _, ok := n.(*Validator); ok {
			continue
		}
		sim.Schedule(kernel.PollQueueEvent{At: 0, Node: n.ID()})
	}
	require.NoError(t, sim.Run())
}

func TestHotStuffQuartetReachesSingleDecision(t *testing.T) {
	validators, reg := buildCliqueQuartet(t, 10000)
	runTrial(t, validators, reg, 1)

	for _, v := range validators {
		require.Equal(t, 1, v.ConsensusCount())
		require.Equal(t, 1, v.view)
		require.Equal(t, PhaseNewView, v.phase)
	}
}

func TestHotStuffLeaderRotation(t *testing.T) {
	v := &Validator{validators: make([]kernel.NodeID, 4)}
	require.Equal(t, 0, v.leader(0))
	require.Equal(t, 1, v.leader(1))
	require.Equal(t, 2, v.leader(2))
	require.Equal(t, 0, v.leader(4))
}

func TestHotStuffQuorum(t *testing.T) {
	v := &Validator{validators: make([]kernel.NodeID, 4)}
	require.Equal(t, 1, v.f())
	require.Equal(t, 3, v.quorum())
}

func TestHotStuffSafetyRuleRejectsStaleJustification(t *testing.T) {
	v := &Validator{validators: make([]kernel.NodeID, 4)}
	require.True(t, v.safeToVote(nil)) // no lockedQC yet: anything is safe

	v.lockedQC = &QC{View: 5}
	require.False(t, v.safeToVote(nil))
	require.False(t, v.safeToVote(&QC{View: 5}))
	require.True(t, v.safeToVote(&QC{View: 6}))
}

// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"io"

	"github.com/luxfi/log"

	"github.com/luxfi/netsim/config"
	"github.com/luxfi/netsim/consensus/hotstuff"
	"github.com/luxfi/netsim/consensus/ibft"
	"github.com/luxfi/netsim/kernel"
	"github.com/luxfi/netsim/network"
	"github.com/luxfi/netsim/stats"
)

// consensusCounter is the subset of both protocols' Validator types this
// driver needs: vote on trial termination and report into the final
// snapshot.
type consensusCounter interface {
	kernel.ConsensusCounter
	kernel.Node
	Stats() *stats.ConsensusStatistics
	StateLabel() string
}

// runTrials runs cfg.NumRuns independent trials of the named protocol,
// writing one trace line per dispatched event followed by a final
// per-validator snapshot to out.
func runTrials(cfg *config.RunConfig, protocol string, out io.Writer) error {
	kind, err := config.ParseNetworkType(cfg.NetworkType)
	if err != nil {
		return err
	}
	logger := log.NewLogger("netsim")

	metrics, err := kernel.NewMetrics(nil)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	for trial := 0; trial < cfg.NumRuns; trial++ {
		seed := kernel.SeedForTrial(cfg.StartingSeed, cfg.SeedMultiplier, trial)
		stream := kernel.NewStream(seed)

		validatorIDs := make([]kernel.NodeID, cfg.NumNodes)
		for i := range validatorIDs {
			validatorIDs[i] = kernel.NodeID{Name: fmt.Sprintf("validator-%d", i), Seq: i}
		}

		fab, err := network.Build(kind, validatorIDs, cfg.NetworkParameters, cfg.SwitchProcessingRate, stream)
		if err != nil {
			return fmt.Errorf("trial %d: %w", trial, err)
		}

		reg := kernel.Registry{}
		for _, sw := range fab.Switches {
			reg[sw.ID()] = sw
		}

		validators := make([]consensusCounter, len(validatorIDs))
		for i, id := range validatorIDs {
			uplink := network.NewUplink(fab.EndpointUplinks[id], stream.Sub(int64(i)))
			sampler := kernel.NewExpSampler(stream, cfg.NodeProcessingRate)

			var v consensusCounter
			switch protocol {
			case "hotstuff":
				v = hotstuffValidator{hotstuff.NewValidator(id, i, validatorIDs, uplink, sampler, cfg.BaseTimeLimit, logger)}
			default:
				v = ibftValidator{ibft.NewValidator(id, i, validatorIDs, uplink, sampler, cfg.BaseTimeLimit, logger)}
			}
			validators[i] = v
			reg[id] = v
		}

		counters := make(map[kernel.NodeID]kernel.ConsensusCounter, len(validators))
		for _, v := range validators {
			counters[v.ID()] = v
		}

		sim := kernel.NewSimulator(reg, validatorIDs, counters, cfg.NumConsensus, cfg.MaxWallClock, out, logger, metrics)
		for _, v := range validators {
			sim.Schedule(kernel.PollQueueEvent{At: 0, Node: v.ID()})
			sim.Schedule(kernel.QueueMessageEvent{At: 0, Node: v.ID(), Payload: bootstrapPayload(protocol, v.ID())})
		}
		for _, sw := range fab.Switches {
			sim.Schedule(kernel.PollQueueEvent{At: 0, Node: sw.ID()})
		}

		if err := sim.Run(); err != nil {
			return fmt.Errorf("trial %d: %w", trial, err)
		}

		snapshot := stats.Snapshot{Entries: make([]stats.Entry, len(validators))}
		for i, v := range validators {
			hits := v.ConsensusCount()
			snapshot.Entries[i] = stats.Entry{
				Validator:     v.ID(),
				State:         v.StateLabel(),
				CumulativeAge: v.Stats().Total(),
				ConsensusHits: hits,
			}
			metrics.Decisions.Add(float64(hits))
		}
		fmt.Fprintf(out, "--- trial %d snapshot (seed=%d) ---\n", trial, seed)
		if _, err := snapshot.WriteTo(out); err != nil {
			return fmt.Errorf("trial %d: writing snapshot: %w", trial, err)
		}
	}
	return nil
}

func bootstrapPayload(protocol string, id kernel.NodeID) kernel.Payload {
	if protocol == "hotstuff" {
		return kernel.Payload{Message: hotstuff.Bootstrap{}, LastHop: id, FinalDestination: id}
	}
	return kernel.Payload{Message: ibft.Bootstrap{}, LastHop: id, FinalDestination: id}
}

// ibftValidator/hotstuffValidator adapt each protocol's Validator onto
// the driver's StateLabel accessor, since the two state-name types
// aren't otherwise interchangeable.
type ibftValidator struct{ *ibft.Validator }

func (v ibftValidator) StateLabel() string { return string(v.State()) }

type hotstuffValidator struct{ *hotstuff.Validator }

func (v hotstuffValidator) StateLabel() string { return string(v.Phase()) }

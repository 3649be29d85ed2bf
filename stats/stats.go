// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package stats holds the per-validator bookkeeping a consensus state
// machine updates as it runs, and the final snapshot the CLI collaborator
// prints once a trial ends.
package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/luxfi/netsim/kernel"
)

// ConsensusStatistics accumulates, per validator, how much simulated time
// was spent in each protocol state and how many consensus instances have
// been decided. A validator charges the elapsed time of an event interval
// to whichever state it was in for the duration of that interval, not the
// state it transitions to.
type ConsensusStatistics struct {
	stateTime map[string]float64
	count     int
}

// NewConsensusStatistics returns a zeroed accumulator.
func NewConsensusStatistics() *ConsensusStatistics {
	return &ConsensusStatistics{stateTime: make(map[string]float64)}
}

// Charge adds d to the cumulative time recorded against state.
func (c *ConsensusStatistics) Charge(state string, d float64) {
	c.stateTime[state] += d
}

// IncConsensusCount records that the validator reached a decision.
func (c *ConsensusStatistics) IncConsensusCount() {
	c.count++
}

// ConsensusCount returns the number of decisions reached so far. This
// satisfies kernel.ConsensusCounter.
func (c *ConsensusStatistics) ConsensusCount() int { return c.count }

// StateTime returns the cumulative time charged against state.
func (c *ConsensusStatistics) StateTime(state string) float64 { return c.stateTime[state] }

// Total returns the sum of cumulative time across every state — used to
// check the statistics-consistency invariant against the validator's
// final simulated time.
func (c *ConsensusStatistics) Total() float64 {
	var total float64
	for _, d := range c.stateTime {
		total += d
	}
	return total
}

// Entry is one validator's row in a Snapshot.
type Entry struct {
	Validator     kernel.NodeID
	State         string
	CumulativeAge float64
	ConsensusHits int
}

// Snapshot is the final per-validator listing §6 describes: state,
// cumulative time in state, and consensus count, one row per validator.
type Snapshot struct {
	Entries []Entry
}

// WriteTo writes one line per validator, ordered by validator Seq so
// output is deterministic across runs.
func (s Snapshot) WriteTo(w io.Writer) (int64, error) {
	entries := append([]Entry(nil), s.Entries...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Validator.Seq < entries[j].Validator.Seq })

	var written int64
	for _, e := range entries {
		n, err := fmt.Fprintf(w, "%s: state=%s cumulative_time=%.6f consensus_count=%d\n",
			e.Validator, e.State, e.CumulativeAge, e.ConsensusHits)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

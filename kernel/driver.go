// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"fmt"
	"io"
	"time"

	"github.com/luxfi/log"
)

// ConsensusCounter is implemented by anything the Simulator needs to poll
// for trial termination — in practice a validator, asked how many times
// it has reached COMMITTED/DECIDE.
type ConsensusCounter interface {
	ConsensusCount() int
}

// Simulator is the single-threaded event-loop driver: pop the earliest
// event, dispatch it, reschedule the events it produces, and repeat
// until the trial is over.
type Simulator struct {
	queue    *EventQueue
	registry Registry

	validators  []NodeID
	counters    map[NodeID]ConsensusCounter
	targetCount int

	wallBudget time.Duration
	start      time.Time

	out     io.Writer
	logger  log.Logger
	metrics *Metrics

	dispatched int
}

// NewSimulator builds a driver over reg, tracking validators for the
// numConsensus termination condition. out receives one trace line per
// dispatched event (nil discards tracing). wallBudget of zero disables
// the wall-clock termination condition.
func NewSimulator(
	reg Registry,
	validators []NodeID,
	counters map[NodeID]ConsensusCounter,
	targetCount int,
	wallBudget time.Duration,
	out io.Writer,
	logger log.Logger,
	metrics *Metrics,
) *Simulator {
	return &Simulator{
		queue:       NewEventQueue(),
		registry:    reg,
		validators:  validators,
		counters:    counters,
		targetCount: targetCount,
		wallBudget:  wallBudget,
		out:         out,
		logger:      logger,
		metrics:     metrics,
	}
}

// Schedule enqueues a bootstrap or externally-produced event.
func (s *Simulator) Schedule(e Event) {
	s.queue.Schedule(e)
}

// IsOver reports whether the trial should stop: the heap drained, the
// wall-clock budget expired, or every tracked validator reached the
// configured consensus count. A zero targetCount or an empty validator
// list disables the consensus-count condition rather than vacuously
// satisfying it, so callers exercising the queue alone (tests) aren't
// short-circuited before a single event dispatches.
func (s *Simulator) IsOver() bool {
	if s.wallBudget > 0 {
		if s.start.IsZero() {
			s.start = time.Now()
		} else if time.Since(s.start) > s.wallBudget {
			return true
		}
	}
	if s.queue.Len() == 0 {
		return true
	}
	if s.targetCount > 0 && len(s.validators) > 0 {
		for _, id := range s.validators {
			if s.counters[id].ConsensusCount() < s.targetCount {
				return false
			}
		}
		return true
	}
	return false
}

// Step pops and dispatches the single earliest event, returning its
// trace line. Callers normally use Run instead; Step is exposed for
// tests that need to inspect the schedule one event at a time.
func (s *Simulator) Step() (string, error) {
	ev, ok := s.queue.Pop()
	if !ok {
		return "", io.EOF
	}
	followups, err := ev.Simulate(s.registry)
	if err != nil {
		return "", err
	}
	for _, f := range followups {
		s.queue.Schedule(f)
	}
	s.dispatched++
	if s.metrics != nil {
		s.metrics.EventsDispatched.Inc()
		if pe, ok := ev.(ProcessPayloadEvent); ok {
			if n, ok := s.registry[pe.Node]; ok {
				if b, ok := n.(interface{ QueueDepth() int }); ok {
					s.metrics.QueueDepth.WithLabelValues(pe.Node.String()).Set(float64(b.QueueDepth()))
				}
			}
		}
	}
	return ev.String(), nil
}

// Run drives the event loop to completion, writing one trace line per
// dispatched event to s.out.
func (s *Simulator) Run() error {
	s.start = time.Now()
	for !s.IsOver() {
		line, err := s.Step()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("kernel: step failed: %w", err)
		}
		if s.out != nil {
			fmt.Fprintln(s.out, line)
		}
	}
	s.logger.Debug("trial finished", "events_dispatched", s.dispatched)
	return nil
}

// Dispatched returns the number of events processed so far.
func (s *Simulator) Dispatched() int { return s.dispatched }

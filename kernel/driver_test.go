// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"strings"
	"testing"
	"time"

	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"
)

// echoNode bounces the first payload it receives back to its sender,
// then ignores every later payload. It exists only to exercise the Queue/Poll/Process
// event cycle end to end.
type echoNode struct {
	Base
	sampler *ExpSampler
	echoed  int
}

func (n *echoNode) Process(now float64, p Payload) (float64, []Send, *TimerArm) {
	d := n.sampler.Draw()
	if n.echoed > 0 {
		return d, nil, nil
	}
	n.echoed++
	return d, []Send{{To: p.LastHop, Payload: Payload{
		Message:          "echo",
		LastHop:          n.ID(),
		FinalDestination: p.LastHop,
	}}}, nil
}

func (n *echoNode) OnTimer(float64, uint64) ([]Send, *TimerArm) { return nil, nil }

func newEchoNode(name string, rate float64, stream *Stream) *echoNode {
	return &echoNode{Base: NewBase(NodeID{Name: name, Seq: -1}), sampler: NewExpSampler(stream, rate)}
}

func TestSimulatorDeliversAndTerminates(t *testing.T) {
	stream := NewStream(1)
	a := newEchoNode("a", TransparentRate, stream)
	b := newEchoNode("b", TransparentRate, stream)

	reg := Registry{a.ID(): a, b.ID(): b}

	var out strings.Builder
	sim := NewSimulator(reg, nil, nil, 0, 0, &out, log.NewNoOpLogger(), nil)
	sim.Schedule(PollQueueEvent{At: 0, Node: a.ID()})
	sim.Schedule(PollQueueEvent{At: 0, Node: b.ID()})
	sim.Schedule(QueueMessageEvent{At: 0, Node: a.ID(), Payload: Payload{
		Message: "ping", LastHop: b.ID(), FinalDestination: a.ID(),
	}})

	require.NoError(t, sim.Run())
	require.True(t, sim.IsOver())
	require.Greater(t, sim.Dispatched(), 0)
	require.Contains(t, out.String(), "ping")
}

func TestSimulatorRespectsWallClockBudget(t *testing.T) {
	reg := Registry{}
	sim := NewSimulator(reg, nil, nil, 0, time.Microsecond, nil, log.NewNoOpLogger(), nil)
	// A single far-future pending event keeps the queue-empty condition
	// from firing first, isolating the wall-clock guard. The first call
	// only starts the clock; the second, after sleeping well past the
	// budget, must observe the expiry.
	sim.Schedule(fakeEvent{at: 1_000_000})
	require.False(t, sim.IsOver())
	time.Sleep(time.Millisecond)
	require.True(t, sim.IsOver())
}

func TestSimulatorUnknownNodeIsRuntimeInvariantError(t *testing.T) {
	reg := Registry{}
	sim := NewSimulator(reg, nil, nil, 0, 0, nil, log.NewNoOpLogger(), nil)
	sim.Schedule(PollQueueEvent{At: 0, Node: NodeID{Name: "ghost"}})
	err := sim.Run()
	require.ErrorIs(t, err, ErrUnknownNode)
}

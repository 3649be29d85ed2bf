// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package kernel implements the discrete-event simulation core: the
// priority-queue event loop, the deterministic RNG/exponential sampler,
// and the node capability interface that switches and validators
// implement to participate in it.
package kernel

import "fmt"

// NodeID is a stable opaque identifier for any participant in the
// simulated fabric. Seq is the node's creation-order index — a
// validator's position in [0, N) for validators, or just a stable
// tie-break key for switches and plain endpoints. Routing and leader
// rotation both rely on Seq being dense and deterministic.
type NodeID struct {
	Name string
	Seq  int
}

func (id NodeID) String() string {
	return id.Name
}

// Payload is an in-flight message. It is immutable once created and is
// owned by at most one node's ingress queue at a time.
type Payload struct {
	Message          any
	LastHop          NodeID
	FinalDestination NodeID
}

// Send pairs an outbound payload with the neighbor it should be queued
// at next.
type Send struct {
	To      NodeID
	Payload Payload
}

// TimerArm requests that the driver schedule a TimerExpiryEvent for the
// originating node Delay time units from now, carrying Tag. A node
// compares Tag against its own current tag when the expiry fires to
// discard stale timers from rounds it has since advanced past (§5).
type TimerArm struct {
	Delay float64
	Tag   uint64
}

// Node is the capability every participant (switch or validator) in the
// fabric must implement. The ingress queue and busy/idle bookkeeping are
// generic (see Base); Process and OnTimer carry the domain-specific
// behavior.
type Node interface {
	ID() NodeID

	Enqueue(p Payload)
	Dequeue() (Payload, bool)
	IsBusy() bool
	SetBusy(busy bool)

	// Process is invoked when the node begins servicing one payload. It
	// returns the drawn service duration, the payloads to emit once that
	// duration elapses, and optionally a timer to arm (nil if none) —
	// e.g. a consensus round timer started on entering a new round.
	Process(now float64, p Payload) (duration float64, outbound []Send, timer *TimerArm)

	// OnTimer is invoked when a TimerExpiry event for this node fires.
	// Implementations that don't use timers (plain switches) return nil
	// for both results. The returned timer, if any, replaces the one
	// that just fired (e.g. the next round's doubled timeout).
	OnTimer(now float64, tag uint64) (outbound []Send, timer *TimerArm)
}

// Registry resolves a NodeID to the live Node instance. The simulator
// arena (switches, endpoints, validators) is built once at topology
// construction time and indexed by id for the lifetime of a trial.
type Registry map[NodeID]Node

func (r Registry) lookup(id NodeID) (Node, error) {
	n, ok := r[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return n, nil
}

// Base implements the generic ingress-queue/busy-flag machinery common to
// every node, per the "Node abstraction" component. Concrete node types
// embed Base and add their own Process/OnTimer.
type Base struct {
	id    NodeID
	queue []Payload
	busy  bool
}

// NewBase constructs a Base for the given id.
func NewBase(id NodeID) Base {
	return Base{id: id}
}

func (b *Base) ID() NodeID { return b.id }

func (b *Base) Enqueue(p Payload) {
	b.queue = append(b.queue, p)
}

// Dequeue pops the oldest payload, preserving FIFO order.
func (b *Base) Dequeue() (Payload, bool) {
	if len(b.queue) == 0 {
		return Payload{}, false
	}
	p := b.queue[0]
	b.queue = b.queue[1:]
	return p, true
}

func (b *Base) IsBusy() bool       { return b.busy }
func (b *Base) SetBusy(busy bool)  { b.busy = busy }
func (b *Base) QueueDepth() int    { return len(b.queue) }

// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import "fmt"

// Event is the sum type dispatched by the Simulator. Each variant's
// Simulate method advances the node it targets and returns the
// follow-up events produced, which the driver reschedules.
type Event interface {
	Time() float64
	Simulate(reg Registry) ([]Event, error)
	String() string
}

// QueueMessageEvent delivers a payload into a node's ingress queue. If
// the node is idle, it immediately produces a PollQueueEvent at the same
// timestamp so the new arrival is picked up without waiting for an
// unrelated poll.
type QueueMessageEvent struct {
	At      float64
	Node    NodeID
	Payload Payload
}

func (e QueueMessageEvent) Time() float64 { return e.At }

func (e QueueMessageEvent) Simulate(reg Registry) ([]Event, error) {
	n, err := reg.lookup(e.Node)
	if err != nil {
		return nil, err
	}
	n.Enqueue(e.Payload)
	if n.IsBusy() {
		return nil, nil
	}
	return []Event{PollQueueEvent{At: e.At, Node: e.Node}}, nil
}

func (e QueueMessageEvent) String() string {
	return fmt.Sprintf("t=%.6f %s: queue <- %s (from %s, dest %s)",
		e.At, e.Node, e.Payload.Message, e.Payload.LastHop, e.Payload.FinalDestination)
}

// PollQueueEvent clears the node's busy flag (a no-op the first time it
// fires for a node) and, if the ingress queue is non-empty, dequeues one
// payload into a ProcessPayloadEvent at the same timestamp. Otherwise the
// node goes idle.
type PollQueueEvent struct {
	At   float64
	Node NodeID
}

func (e PollQueueEvent) Time() float64 { return e.At }

func (e PollQueueEvent) Simulate(reg Registry) ([]Event, error) {
	n, err := reg.lookup(e.Node)
	if err != nil {
		return nil, err
	}
	n.SetBusy(false)
	payload, ok := n.Dequeue()
	if !ok {
		return nil, nil
	}
	n.SetBusy(true)
	return []Event{ProcessPayloadEvent{At: e.At, Node: e.Node, Payload: payload}}, nil
}

func (e PollQueueEvent) String() string {
	return fmt.Sprintf("t=%.6f %s: poll", e.At, e.Node)
}

// ProcessPayloadEvent begins servicing one payload: it draws a service
// time from the node's sampler (via Node.Process), and at now+duration
// emits one QueueMessageEvent per outbound send plus a PollQueueEvent for
// this node so it can continue draining its queue.
type ProcessPayloadEvent struct {
	At      float64
	Node    NodeID
	Payload Payload
}

func (e ProcessPayloadEvent) Time() float64 { return e.At }

func (e ProcessPayloadEvent) Simulate(reg Registry) ([]Event, error) {
	n, err := reg.lookup(e.Node)
	if err != nil {
		return nil, err
	}
	duration, outbound, timer := n.Process(e.At, e.Payload)
	t2 := e.At + duration

	events := make([]Event, 0, len(outbound)+2)
	for _, send := range outbound {
		events = append(events, QueueMessageEvent{At: t2, Node: send.To, Payload: send.Payload})
	}
	events = append(events, PollQueueEvent{At: t2, Node: e.Node})
	if timer != nil {
		events = append(events, TimerExpiryEvent{At: t2 + timer.Delay, Node: e.Node, Tag: timer.Tag})
	}
	return events, nil
}

func (e ProcessPayloadEvent) String() string {
	return fmt.Sprintf("t=%.6f %s: process %s", e.At, e.Node, e.Payload.Message)
}

// TimerExpiryEvent fires a consensus round timeout. Tag lets a node
// discard stale expiries from rounds it has already advanced past.
type TimerExpiryEvent struct {
	At   float64
	Node NodeID
	Tag  uint64
}

func (e TimerExpiryEvent) Time() float64 { return e.At }

func (e TimerExpiryEvent) Simulate(reg Registry) ([]Event, error) {
	n, err := reg.lookup(e.Node)
	if err != nil {
		return nil, err
	}
	outbound, timer := n.OnTimer(e.At, e.Tag)
	events := make([]Event, 0, len(outbound)+1)
	for _, send := range outbound {
		events = append(events, QueueMessageEvent{At: e.At, Node: send.To, Payload: send.Payload})
	}
	if timer != nil {
		events = append(events, TimerExpiryEvent{At: e.At + timer.Delay, Node: e.Node, Tag: timer.Tag})
	}
	return events, nil
}

func (e TimerExpiryEvent) String() string {
	return fmt.Sprintf("t=%.6f %s: timer expiry (tag %d)", e.At, e.Node, e.Tag)
}

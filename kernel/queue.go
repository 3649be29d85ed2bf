// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import "container/heap"

// item wraps an Event with its insertion sequence number so that events
// sharing a timestamp still compare deterministically — lower sequence
// number (earlier insertion) dispatches first.
type item struct {
	event Event
	seq   uint64
}

// itemHeap is a container/heap.Interface ordered by (time, seq).
type itemHeap []*item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	ti, tj := h[i].event.Time(), h[j].event.Time()
	if ti != tj {
		return ti < tj
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	*h = append(*h, x.(*item))
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// EventQueue is the simulator's min-heap of pending events, keyed by
// time with FIFO tie-break.
type EventQueue struct {
	h       itemHeap
	nextSeq uint64
}

// NewEventQueue returns an empty queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	heap.Init(&q.h)
	return q
}

// Schedule inserts an event, O(log n).
func (q *EventQueue) Schedule(e Event) {
	heap.Push(&q.h, &item{event: e, seq: q.nextSeq})
	q.nextSeq++
}

// Pop removes and returns the earliest event, or (nil, false) if empty.
func (q *EventQueue) Pop() (Event, bool) {
	if len(q.h) == 0 {
		return nil, false
	}
	it := heap.Pop(&q.h).(*item)
	return it.event, true
}

// Len reports the number of pending events.
func (q *EventQueue) Len() int { return len(q.h) }

// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeEvent struct {
	at float64
}

func (f fakeEvent) Time() float64                      { return f.at }
func (f fakeEvent) Simulate(Registry) ([]Event, error) { return nil, nil }
func (f fakeEvent) String() string                     { return "fake" }

func TestEventQueueOrdersByTime(t *testing.T) {
	q := NewEventQueue()
	q.Schedule(fakeEvent{at: 3})
	q.Schedule(fakeEvent{at: 1})
	q.Schedule(fakeEvent{at: 2})

	var order []float64
	for {
		e, ok := q.Pop()
		if !ok {
			break
		}
		order = append(order, e.Time())
	}
	require.Equal(t, []float64{1, 2, 3}, order)
}

func TestEventQueueTieBreaksByInsertionOrder(t *testing.T) {
	q := NewEventQueue()
	type tagged struct {
		fakeEvent
		id int
	}
	q.Schedule(tagged{fakeEvent{at: 5}, 1})
	q.Schedule(tagged{fakeEvent{at: 5}, 2})
	q.Schedule(tagged{fakeEvent{at: 5}, 3})

	var ids []int
	for {
		e, ok := q.Pop()
		if !ok {
			break
		}
		ids = append(ids, e.(tagged).id)
	}
	require.Equal(t, []int{1, 2, 3}, ids)
}

func TestEventQueueLen(t *testing.T) {
	q := NewEventQueue()
	require.Equal(t, 0, q.Len())
	q.Schedule(fakeEvent{at: 1})
	require.Equal(t, 1, q.Len())
	_, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, 0, q.Len())

	_, ok = q.Pop()
	require.False(t, ok)
}

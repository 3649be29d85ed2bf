// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/netsim/kernel"
)

func sw(seq int) kernel.NodeID { return kernel.NodeID{Name: "sw", Seq: seq} }
func ep(seq int) kernel.NodeID { return kernel.NodeID{Name: "ep", Seq: seq} }

// line graph: ep0 -- sw0 -- sw1 -- sw2 -- ep1
func lineGraph() *Graph {
	return &Graph{
		Switches: []kernel.NodeID{sw(0), sw(1), sw(2)},
		AttachedEndpoint: map[kernel.NodeID][]kernel.NodeID{
			sw(0): {ep(0)},
			sw(2): {ep(1)},
		},
		SwitchNeighbors: map[kernel.NodeID][]kernel.NodeID{
			sw(0): {sw(1)},
			sw(1): {sw(0), sw(2)},
			sw(2): {sw(1)},
		},
	}
}

func TestBuildRouterLineGraphShortestPaths(t *testing.T) {
	r, err := BuildRouter(lineGraph())
	require.NoError(t, err)

	next, ok := r.Route(sw(0), ep(1))
	require.True(t, ok)
	require.Equal(t, sw(1), next)

	next, ok = r.Route(sw(1), ep(1))
	require.True(t, ok)
	require.Equal(t, sw(2), next)

	next, ok = r.Route(sw(2), ep(1))
	require.True(t, ok)
	require.Equal(t, ep(1), next) // directly attached, next hop is the endpoint itself

	require.Equal(t, 2, r.Diameter())
}

func TestBuildRouterFailsOnUnreachableEndpoint(t *testing.T) {
	g := &Graph{
		Switches: []kernel.NodeID{sw(0), sw(1)},
		AttachedEndpoint: map[kernel.NodeID][]kernel.NodeID{
			sw(0): {ep(0)},
			sw(1): {ep(1)},
		},
		SwitchNeighbors: map[kernel.NodeID][]kernel.NodeID{}, // no edges: sw(0) can't reach ep(1)
	}

	_, err := BuildRouter(g)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnreachableEndpoint)
}

func TestBuildRouterTieBreaksOnLowerSwitchSeq(t *testing.T) {
	// ep0 attached to both sw0 and sw1; from sw2, both are distance 1 but
	// the lower-Seq switch must win the tie-break.
	g := &Graph{
		Switches: []kernel.NodeID{sw(0), sw(1), sw(2)},
		AttachedEndpoint: map[kernel.NodeID][]kernel.NodeID{
			sw(0): {ep(0)},
			sw(1): {ep(0)},
		},
		SwitchNeighbors: map[kernel.NodeID][]kernel.NodeID{
			sw(2): {sw(1), sw(0)}, // listed out of order on purpose
			sw(0): {sw(2)},
			sw(1): {sw(2)},
		},
	}

	r, err := BuildRouter(g)
	require.NoError(t, err)

	next, ok := r.Route(sw(2), ep(0))
	require.True(t, ok)
	require.Equal(t, sw(0), next)
}

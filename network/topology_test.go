// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/netsim/kernel"
)

func endpointSet(n int) []kernel.NodeID {
	eps := make([]kernel.NodeID, n)
	for i := range eps {
		eps[i] = kernel.NodeID{Name: "val", Seq: i}
	}
	return eps
}

func TestBuildCliqueReachesEveryEndpoint(t *testing.T) {
	eps := endpointSet(5)
	stream := kernel.NewStream(1)
	fab, err := BuildClique(eps, kernel.TransparentRate, stream)
	require.NoError(t, err)
	require.Len(t, fab.Switches, 5)
	require.Equal(t, 1, fab.Router.Diameter()) // every switch is at most one hop from any endpoint's attach switch
}

func TestBuildMeshCornerToCornerDistance(t *testing.T) {
	// 3x3 mesh, no wraparound: corner to opposite corner is 4 switch hops.
	eps := endpointSet(9)
	stream := kernel.NewStream(1)
	fab, err := buildGrid(eps, 3, kernel.TransparentRate, stream, false)
	require.NoError(t, err)

	cur := fab.EndpointUplinks[eps[0]][0]
	hops := 0
	for cur != eps[8] {
		next, ok := fab.Router.Route(cur, eps[8])
		require.True(t, ok)
		if next != eps[8] { // the final delivery to the endpoint is not a switch hop
			hops++
		}
		cur = next
	}
	require.Equal(t, 4, hops)
}

func TestBuildTorusCornerToCornerDistance(t *testing.T) {
	// 3x3 torus: wraparound makes every axis distance at most 1, so corner
	// to corner is 2 switch hops.
	eps := endpointSet(9)
	stream := kernel.NewStream(1)
	fab, err := buildGrid(eps, 3, kernel.TransparentRate, stream, true)
	require.NoError(t, err)

	cur := fab.EndpointUplinks[eps[0]][0]
	hops := 0
	for cur != eps[8] {
		next, ok := fab.Router.Route(cur, eps[8])
		require.True(t, ok)
		if next != eps[8] { // the final delivery to the endpoint is not a switch hop
			hops++
		}
		cur = next
	}
	require.Equal(t, 2, hops)
}

func TestBuildGridRejectsNonDivisibleSideLength(t *testing.T) {
	eps := endpointSet(10)
	stream := kernel.NewStream(1)
	_, err := buildGrid(eps, 3, kernel.TransparentRate, stream, false)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotDivisible)
}

func TestBuildFoldedClosReachesEveryEndpoint(t *testing.T) {
	eps := endpointSet(64)
	stream := kernel.NewStream(7)
	fab, err := buildButterflyLike(eps, 5, 1, 0, kernel.TransparentRate, stream, true)
	require.NoError(t, err)

	for _, sw := range fab.Switches {
		for _, ep := range eps {
			_, ok := fab.Router.Route(sw.ID(), ep)
			require.True(t, ok, "switch %s must reach endpoint %s", sw.ID(), ep)
		}
	}
}

func TestBuildButterflyReachesEveryEndpoint(t *testing.T) {
	eps := endpointSet(64)
	stream := kernel.NewStream(7)
	fab, err := buildButterflyLike(eps, 4, 0, 1, kernel.TransparentRate, stream, false)
	require.NoError(t, err)

	for _, sw := range fab.Switches {
		for _, ep := range eps {
			_, ok := fab.Router.Route(sw.ID(), ep)
			require.True(t, ok, "switch %s must reach endpoint %s", sw.ID(), ep)
		}
	}
}

func TestFlushedAndSpreadGroupsPartitionFully(t *testing.T) {
	flushed := flushedGroups(10, 3)
	require.Len(t, flushed, 4)
	require.Len(t, flushed[0], 3)
	require.Len(t, flushed[3], 1) // remainder lands in the last, short block

	spread := spreadGroups(10, 3)
	require.Len(t, spread, 4)
	sizes := map[int]int{}
	for _, g := range spread {
		sizes[len(g)]++
	}
	require.Equal(t, 2, sizes[3]) // round-robin puts the remainder on the earliest groups
	require.Equal(t, 2, sizes[2])
}

func TestParam3Validation(t *testing.T) {
	_, _, _, err := param3([]int{2, 0})
	require.ErrorIs(t, err, ErrMissingParameters)

	_, _, _, err = param3([]int{1, 0, 0})
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, _, _, err = param3([]int{2, 2, 0})
	require.ErrorIs(t, err, ErrInvalidParameter)

	radix, mode, scheme, err := param3([]int{5, 1, 0})
	require.NoError(t, err)
	require.Equal(t, 5, radix)
	require.Equal(t, 1, mode)
	require.Equal(t, 0, scheme)
}

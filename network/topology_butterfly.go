// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import (
	"math"

	"github.com/luxfi/netsim/kernel"
)

// flushedGroups partitions [0,n) into consecutive blocks of up to k
// elements each — "flushed": selected by mode 0 at layer 1 and by
// scheme 0 at higher layers.
func flushedGroups(n, k int) [][]int {
	var groups [][]int
	for start := 0; start < n; start += k {
		end := start + k
		if end > n {
			end = n
		}
		g := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			g = append(g, i)
		}
		groups = append(groups, g)
	}
	return groups
}

// spreadGroups partitions [0,n) round-robin across ceil(n/k) groups, so
// the remainder lands on the earliest groups — "spread": selected by
// mode 1 at layer 1 and by scheme 1 at higher layers. It yields the same
// number of groups as flushedGroups for the same n and k.
func spreadGroups(n, k int) [][]int {
	numGroups := (n + k - 1) / k
	groups := make([][]int, numGroups)
	for i := 0; i < n; i++ {
		g := i % numGroups
		groups[g] = append(groups[g], i)
	}
	return groups
}

func groupsFor(n, k, selector int) [][]int {
	if selector == 0 {
		return flushedGroups(n, k)
	}
	return spreadGroups(n, k)
}

// butterflyLevels returns L = ceil(log_k(ceil(N/k))) per §4.8, or 1 when
// ceil(N/k) <= 1. Nothing in this package calls it: the layer
// construction below stops the moment a layer reduces to a single
// switch instead of counting to L.
func butterflyLevels(numNodes, radix int) int {
	g1 := (numNodes + radix - 1) / radix
	if g1 <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log(float64(g1)) / math.Log(float64(radix))))
}

// buildButterflyLike constructs Butterfly (bidirectional=false) and
// FoldedClos (bidirectional=true) — same layered skeleton, differing
// only in how each parent-child edge is wired: Butterfly adds two
// directed edges (up and the pre-wired way down), FoldedClos one
// bidirectional link. The resulting switch graphs have the same
// connectivity.
//
// Layer 1 groups endpoints per mode (0 flushed, 1 spread). Every higher
// layer groups the previous layer's switches, k at a time, per scheme
// (0 flushed, 1 spread) — reusing the one assignment rule §4.8 fully
// specifies, applied recursively; see DESIGN.md. Both schemes produce
// ceil(n/k) groups per layer, so the scheme changes which switches share
// a parent, not the number of groups or the layer count.
func buildButterflyLike(endpoints []kernel.NodeID, radix, mode, scheme int, switchRate float64, stream *kernel.Stream, bidirectional bool) (*Fabric, error) {
	prefix := "bf-sw-"
	if bidirectional {
		prefix = "fc-sw-"
	}
	b := newSwitchBuilder(prefix, switchRate, stream)

	layer1Groups := groupsFor(len(endpoints), radix, mode)
	currentLayer := make([]*Switch, len(layer1Groups))
	for i, group := range layer1Groups {
		sw := b.newSwitch()
		for _, idx := range group {
			b.attach(sw, endpoints[idx])
		}
		currentLayer[i] = sw
	}

	for len(currentLayer) > 1 {
		groups := groupsFor(len(currentLayer), radix, scheme)
		nextLayer := make([]*Switch, len(groups))
		for i, group := range groups {
			parent := b.newSwitch()
			for _, childIdx := range group {
				child := currentLayer[childIdx]
				if bidirectional {
					b.link(parent, child)
				} else {
					b.linkDirected(child, parent) // upward
					b.linkDirected(parent, child) // pre-wired downward return path
				}
			}
			nextLayer[i] = parent
		}
		currentLayer = nextLayer
	}

	uplinks := make(map[kernel.NodeID][]kernel.NodeID, len(endpoints))
	for i, group := range layer1Groups {
		sw := b.switches[i].ID() // layer-1 switches are the first len(layer1Groups) created
		for _, idx := range group {
			uplinks[endpoints[idx]] = []kernel.NodeID{sw}
		}
	}

	return b.build(uplinks)
}

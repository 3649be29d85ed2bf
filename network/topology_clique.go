// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import "github.com/luxfi/netsim/kernel"

// BuildClique wires one proxy switch per endpoint, with every proxy a
// neighbor of every other proxy — a fully-connected switch mesh.
func BuildClique(endpoints []kernel.NodeID, switchRate float64, stream *kernel.Stream) (*Fabric, error) {
	b := newSwitchBuilder("clique-sw-", switchRate, stream)

	switches := make([]*Switch, len(endpoints))
	for i, ep := range endpoints {
		sw := b.newSwitch()
		b.attach(sw, ep)
		switches[i] = sw
	}
	for i := 0; i < len(switches); i++ {
		for j := i + 1; j < len(switches); j++ {
			b.link(switches[i], switches[j])
		}
	}

	uplinks := make(map[kernel.NodeID][]kernel.NodeID, len(endpoints))
	for i, ep := range endpoints {
		uplinks[ep] = []kernel.NodeID{switches[i].ID()}
	}

	return b.build(uplinks)
}

// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import "github.com/luxfi/netsim/kernel"

// buildGrid constructs Mesh (wrap=false) and Torus (wrap=true): an
// n x (N/n) grid of one switch per endpoint, 4-neighborhood, with
// wraparound on both axes iff wrap.
func buildGrid(endpoints []kernel.NodeID, n int, switchRate float64, stream *kernel.Stream, wrap bool) (*Fabric, error) {
	total := len(endpoints)
	if total%n != 0 {
		return nil, newTopologyError(ErrNotDivisible, "numNodes=%d not divisible by side length %d", total, n)
	}
	rows := n
	cols := total / n

	prefix := "mesh-sw-"
	if wrap {
		prefix = "torus-sw-"
	}
	b := newSwitchBuilder(prefix, switchRate, stream)

	grid := make([][]*Switch, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]*Switch, cols)
		for c := 0; c < cols; c++ {
			sw := b.newSwitch()
			idx := r*cols + c
			b.attach(sw, endpoints[idx])
			grid[r][c] = sw
		}
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cur := grid[r][c]
			if wrap {
				b.link(cur, grid[r][(c+1)%cols])
				b.link(cur, grid[(r+1)%rows][c])
			} else {
				if c+1 < cols {
					b.link(cur, grid[r][c+1])
				}
				if r+1 < rows {
					b.link(cur, grid[r+1][c])
				}
			}
		}
	}

	uplinks := make(map[kernel.NodeID][]kernel.NodeID, total)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			idx := r*cols + c
			uplinks[endpoints[idx]] = []kernel.NodeID{grid[r][c].ID()}
		}
	}

	return b.build(uplinks)
}

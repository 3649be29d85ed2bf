// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import (
	"sort"

	"github.com/luxfi/netsim/kernel"
)

// Graph is the switch-level topology handed to the routing engine: every
// switch's directly-attached endpoints and its neighboring switches.
// Edges listed in SwitchNeighbors are traversed as given — undirected
// topologies list both directions, butterfly's directed topology lists
// only the upward (and pre-wired downward) edges.
type Graph struct {
	Switches         []kernel.NodeID
	AttachedEndpoint map[kernel.NodeID][]kernel.NodeID // switch -> endpoints wired directly to it
	SwitchNeighbors  map[kernel.NodeID][]kernel.NodeID // switch -> adjacent switches, edge direction as stored
}

// RoutingTable maps, for one switch, every endpoint in the fabric to the
// next hop (another switch, or the endpoint itself if directly attached)
// on a shortest path.
type RoutingTable map[kernel.NodeID]kernel.NodeID

// Router holds the per-switch routing tables computed for a Graph, plus
// the fabric diameter observed while computing them.
type Router struct {
	tables   map[kernel.NodeID]RoutingTable
	diameter int
}

// Route returns the next hop from sw towards dest.
func (r *Router) Route(sw, dest kernel.NodeID) (kernel.NodeID, bool) {
	t, ok := r.tables[sw]
	if !ok {
		return kernel.NodeID{}, false
	}
	next, ok := t[dest]
	return next, ok
}

// Diameter returns the longest shortest-path hop count observed between
// any switch and any endpoint during construction.
func (r *Router) Diameter() int { return r.diameter }

// BuildRouter computes, for every switch in g, a total routing table over
// every endpoint in the fabric via multi-source BFS seeded from each
// endpoint's directly-attached switch(es), relaxed over the switch graph.
// Ties between equal-distance neighbors are broken by the lower switch
// id, so the result is deterministic. Construction fails with a
// TopologyError if any endpoint is unreachable from any switch.
func BuildRouter(g *Graph) (*Router, error) {
	allEndpoints := make(map[kernel.NodeID]struct{})
	attachSwitch := make(map[kernel.NodeID][]kernel.NodeID) // endpoint -> switches it's directly wired to
	for sw, eps := range g.AttachedEndpoint {
		for _, ep := range eps {
			allEndpoints[ep] = struct{}{}
			attachSwitch[ep] = append(attachSwitch[ep], sw)
		}
	}

	tables := make(map[kernel.NodeID]RoutingTable, len(g.Switches))
	for _, sw := range g.Switches {
		tables[sw] = make(RoutingTable)
	}

	diameter := 0
	for ep := range allEndpoints {
		dist, nextHop := bfsFromEndpoint(g, ep, attachSwitch[ep])
		for _, sw := range g.Switches {
			hop, ok := nextHop[sw]
			if !ok {
				return nil, newTopologyError(ErrUnreachableEndpoint, "endpoint %s unreachable from switch %s", ep, sw)
			}
			tables[sw][ep] = hop
			if d := dist[sw]; d > diameter {
				diameter = d
			}
		}
	}

	return &Router{tables: tables, diameter: diameter}, nil
}

// bfsFromEndpoint runs a BFS rooted at every switch directly attached to
// ep (multi-source, all at distance 0 since the endpoint link itself
// isn't modeled as a switch-switch hop) and returns, per switch, the
// distance to ep and the next hop on a shortest path towards it.
func bfsFromEndpoint(g *Graph, ep kernel.NodeID, roots []kernel.NodeID) (map[kernel.NodeID]int, map[kernel.NodeID]kernel.NodeID) {
	dist := make(map[kernel.NodeID]int)
	next := make(map[kernel.NodeID]kernel.NodeID)

	sort.Slice(roots, func(i, j int) bool { return roots[i].Seq < roots[j].Seq })

	var frontier []kernel.NodeID
	for _, r := range roots {
		dist[r] = 0
		next[r] = ep
		frontier = append(frontier, r)
	}

	for len(frontier) > 0 {
		var nextFrontier []kernel.NodeID
		for _, cur := range frontier {
			neighbors := append([]kernel.NodeID(nil), g.SwitchNeighbors[cur]...)
			sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].Seq < neighbors[j].Seq })
			for _, nb := range neighbors {
				if _, seen := dist[nb]; seen {
					continue
				}
				dist[nb] = dist[cur] + 1
				next[nb] = cur
				nextFrontier = append(nextFrontier, nb)
			}
		}
		sort.Slice(nextFrontier, func(i, j int) bool { return nextFrontier[i].Seq < nextFrontier[j].Seq })
		frontier = nextFrontier
	}

	return dist, next
}

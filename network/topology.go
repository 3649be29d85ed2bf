// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import (
	"fmt"

	"github.com/luxfi/netsim/kernel"
)

// Kind names one of the five supported topology families.
type Kind int

const (
	Clique Kind = iota
	Mesh
	Torus
	Butterfly
	FoldedClos
)

func (k Kind) String() string {
	switch k {
	case Clique:
		return "Clique"
	case Mesh:
		return "Mesh"
	case Torus:
		return "Torus"
	case Butterfly:
		return "Butterfly"
	case FoldedClos:
		return "FoldedClos"
	default:
		return "Unknown"
	}
}

// Fabric is everything a finished topology build hands back: the live
// Switch nodes (ready to be added to a kernel.Registry), the routing
// engine over them, and each endpoint's uplink switches.
type Fabric struct {
	Switches        []*Switch
	Router          *Router
	EndpointUplinks map[kernel.NodeID][]kernel.NodeID
}

// switchBuilder is shared scaffolding every topology constructor uses to
// allocate switch ids in a deterministic sequence and assemble the final
// Fabric once the switch-switch and switch-endpoint edges are known.
type switchBuilder struct {
	prefix   string
	seq      int
	rate     float64
	stream   *kernel.Stream
	switches []*Switch
	byID     map[kernel.NodeID]*Switch
	graph    *Graph
}

func newSwitchBuilder(prefix string, rate float64, stream *kernel.Stream) *switchBuilder {
	return &switchBuilder{
		prefix: prefix,
		rate:   rate,
		stream: stream,
		byID:   make(map[kernel.NodeID]*Switch),
		graph: &Graph{
			AttachedEndpoint: make(map[kernel.NodeID][]kernel.NodeID),
			SwitchNeighbors:  make(map[kernel.NodeID][]kernel.NodeID),
		},
	}
}

func (b *switchBuilder) newSwitch() *Switch {
	id := kernel.NodeID{Name: fmt.Sprintf("%s%d", b.prefix, b.seq), Seq: b.seq}
	b.seq++
	sw := NewSwitch(id, kernel.NewExpSampler(b.stream, b.rate), nil) // router attached below
	b.switches = append(b.switches, sw)
	b.byID[id] = sw
	b.graph.Switches = append(b.graph.Switches, id)
	return sw
}

// attach wires endpoint ep directly to switch sw.
func (b *switchBuilder) attach(sw *Switch, ep kernel.NodeID) {
	id := sw.ID()
	b.graph.AttachedEndpoint[id] = append(b.graph.AttachedEndpoint[id], ep)
}

// link wires a (bidirectional by default) switch-switch edge.
func (b *switchBuilder) link(a, c *Switch) {
	ai, ci := a.ID(), c.ID()
	b.graph.SwitchNeighbors[ai] = append(b.graph.SwitchNeighbors[ai], ci)
	b.graph.SwitchNeighbors[ci] = append(b.graph.SwitchNeighbors[ci], ai)
}

// linkDirected wires a single directed switch-switch edge from a to c.
func (b *switchBuilder) linkDirected(a, c *Switch) {
	ai, ci := a.ID(), c.ID()
	b.graph.SwitchNeighbors[ai] = append(b.graph.SwitchNeighbors[ai], ci)
}

func (b *switchBuilder) build(endpointUplinks map[kernel.NodeID][]kernel.NodeID) (*Fabric, error) {
	router, err := BuildRouter(b.graph)
	if err != nil {
		return nil, err
	}
	for _, sw := range b.switches {
		sw.router = router
	}
	return &Fabric{Switches: b.switches, Router: router, EndpointUplinks: endpointUplinks}, nil
}

// Build dispatches to the constructor for kind. endpoints must be given
// in validator-index order (endpoints[i].Seq == i) since several
// topologies (mesh, torus, butterfly) assign first-layer switches based
// on that order. params are the topology's networkParameters, validated
// per §4.8; switchRate is switchProcessingRate (possibly
// kernel.TransparentRate); stream is the simulator's shared sampler
// stream.
func Build(kind Kind, endpoints []kernel.NodeID, params []int, switchRate float64, stream *kernel.Stream) (*Fabric, error) {
	switch kind {
	case Clique:
		return BuildClique(endpoints, switchRate, stream)
	case Mesh:
		n, err := param1(params)
		if err != nil {
			return nil, err
		}
		return buildGrid(endpoints, n, switchRate, stream, false)
	case Torus:
		n, err := param1(params)
		if err != nil {
			return nil, err
		}
		return buildGrid(endpoints, n, switchRate, stream, true)
	case Butterfly:
		radix, mode, scheme, err := param3(params)
		if err != nil {
			return nil, err
		}
		return buildButterflyLike(endpoints, radix, mode, scheme, switchRate, stream, false)
	case FoldedClos:
		radix, mode, scheme, err := param3(params)
		if err != nil {
			return nil, err
		}
		return buildButterflyLike(endpoints, radix, mode, scheme, switchRate, stream, true)
	default:
		return nil, newTopologyError(ErrInvalidParameter, "unknown topology kind %d", kind)
	}
}

func param1(params []int) (int, error) {
	if len(params) < 1 {
		return 0, newTopologyError(ErrMissingParameters, "expected 1 parameter (side length), got %d", len(params))
	}
	if params[0] <= 0 {
		return 0, newTopologyError(ErrInvalidParameter, "side length must be positive, got %d", params[0])
	}
	return params[0], nil
}

func param3(params []int) (radix, mode, scheme int, err error) {
	if len(params) < 3 {
		return 0, 0, 0, newTopologyError(ErrMissingParameters, "expected 3 parameters (radix, mode, scheme), got %d", len(params))
	}
	radix, mode, scheme = params[0], params[1], params[2]
	if radix <= 1 {
		return 0, 0, 0, newTopologyError(ErrInvalidParameter, "radix must be >= 2, got %d", radix)
	}
	if mode != 0 && mode != 1 {
		return 0, 0, 0, newTopologyError(ErrInvalidParameter, "mode must be 0 (flushed) or 1 (spread), got %d", mode)
	}
	if scheme != 0 && scheme != 1 {
		return 0, 0, 0, newTopologyError(ErrInvalidParameter, "higher-layer scheme must be 0 or 1, got %d", scheme)
	}
	return radix, mode, scheme, nil
}

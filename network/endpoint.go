// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import "github.com/luxfi/netsim/kernel"

// Uplink picks the first-hop switch for a locally-originated payload:
// uniformly at random among the endpoint's uplink switches, typically
// just one. It draws from a stream dedicated to this endpoint (derived
// deterministically from the endpoint's id) rather than the shared
// service-time stream, so uplink choice and service-time sampling don't
// perturb each other's sequences (§4.4, design notes).
type Uplink struct {
	switches []kernel.NodeID
	stream   *kernel.Stream
}

// NewUplink builds an uplink selector over switches, drawing from
// stream.
func NewUplink(switches []kernel.NodeID, stream *kernel.Stream) *Uplink {
	return &Uplink{switches: switches, stream: stream}
}

// Choose returns one uplink switch, drawn uniformly at random.
func (u *Uplink) Choose() kernel.NodeID {
	if len(u.switches) == 1 {
		return u.switches[0]
	}
	idx := int(u.stream.Float64() * float64(len(u.switches)))
	if idx >= len(u.switches) {
		idx = len(u.switches) - 1
	}
	return u.switches[idx]
}

// Switches returns the endpoint's configured uplinks.
func (u *Uplink) Switches() []kernel.NodeID { return u.switches }

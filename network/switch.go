// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import (
	"fmt"

	"github.com/luxfi/netsim/kernel"
)

// Switch is a store-and-forward relay: on processing a payload it looks
// up the routing table for the payload's final destination and emits
// exactly one outbound send to that next hop. Switches never originate
// traffic and never use timers.
type Switch struct {
	kernel.Base
	sampler *kernel.ExpSampler
	router  *Router
}

// NewSwitch constructs a switch with the given service-time sampler.
// router is attached after BuildRouter runs over the whole fabric (every
// switch shares the same *Router, one routing table per switch within
// it).
func NewSwitch(id kernel.NodeID, sampler *kernel.ExpSampler, router *Router) *Switch {
	return &Switch{Base: kernel.NewBase(id), sampler: sampler, router: router}
}

func (s *Switch) Process(now float64, p kernel.Payload) (float64, []kernel.Send, *kernel.TimerArm) {
	hop, ok := s.router.Route(s.ID(), p.FinalDestination)
	if !ok {
		// RuntimeInvariantError: BuildRouter guarantees totality, so this
		// only fires if a switch was added to the fabric after routing
		// was computed.
		panic(fmt.Sprintf("network: switch %s has no route to %s", s.ID(), p.FinalDestination))
	}
	return s.sampler.Draw(), []kernel.Send{{To: hop, Payload: p}}, nil
}

func (s *Switch) OnTimer(float64, uint64) ([]kernel.Send, *kernel.TimerArm) { return nil, nil }

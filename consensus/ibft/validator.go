// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ibft

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/netsim/internal/container"
	"github.com/luxfi/netsim/kernel"
	"github.com/luxfi/netsim/network"
	"github.com/luxfi/netsim/stats"
)

// round collects, for one (height, view) pair, the senders seen so far
// for each vote kind. It's reset whenever the validator advances view or
// height.
type round struct {
	prepareSenders container.Set[kernel.NodeID]
	commitSenders  container.Set[kernel.NodeID]
}

func newRound() *round {
	return &round{
		prepareSenders: container.NewSet[kernel.NodeID](0),
		commitSenders:  container.NewSet[kernel.NodeID](0),
	}
}

// Validator runs one IBFT instance per node, embedding the kernel's FIFO
// queue/busy-flag machinery and the network uplink used to originate
// messages onto the fabric.
type Validator struct {
	kernel.Base
	sampler *kernel.ExpSampler
	uplink  *network.Uplink
	logger  log.Logger
	stats   *stats.ConsensusStatistics

	self       int
	validators []kernel.NodeID

	baseTimeLimit float64

	height   int
	view     int
	state    State
	timerTag uint64

	lastEventTime float64

	cur          *round
	preparedCert *PreparedCertificate
	proposal     ids.ID

	// roundChangeSenders[v] tracks distinct senders of ROUND_CHANGE for
	// exactly view v. A quorum is counted per view: ROUND_CHANGE messages
	// for different future views are not pooled together.
	roundChangeSenders map[int]container.Set[kernel.NodeID]
}

// NewValidator constructs a validator at index self (its position in
// [0, N) used for leader rotation) out of the full validator id list.
func NewValidator(
	id kernel.NodeID,
	self int,
	validators []kernel.NodeID,
	uplink *network.Uplink,
	sampler *kernel.ExpSampler,
	baseTimeLimit float64,
	logger log.Logger,
) *Validator {
	return &Validator{
		Base:               kernel.NewBase(id),
		sampler:            sampler,
		uplink:             uplink,
		logger:             logger,
		stats:              stats.NewConsensusStatistics(),
		self:               self,
		validators:         validators,
		baseTimeLimit:      baseTimeLimit,
		height:             0,
		view:               0,
		state:              StateNewRound,
		cur:                newRound(),
		roundChangeSenders: make(map[int]container.Set[kernel.NodeID]),
	}
}

// Stats exposes the accumulator for the CLI's final snapshot.
func (v *Validator) Stats() *stats.ConsensusStatistics { return v.stats }

// ConsensusCount satisfies kernel.ConsensusCounter.
func (v *Validator) ConsensusCount() int { return v.stats.ConsensusCount() }

// State returns the validator's current IBFT state, for the final
// per-validator snapshot.
func (v *Validator) State() State { return v.state }

func (v *Validator) n() int { return len(v.validators) }

func (v *Validator) f() int { return (v.n() - 1) / 3 }

func (v *Validator) quorum() int { return 2*v.f() + 1 }

func (v *Validator) leader(height, view int) int { return (height + view) % v.n() }

func (v *Validator) isLeader() bool { return v.leader(v.height, v.view) == v.self }

// charge accumulates the time elapsed since the validator's last observed
// event against whichever state it was in throughout that interval.
func (v *Validator) charge(now float64) {
	if now > v.lastEventTime {
		v.stats.Charge(string(v.state), now-v.lastEventTime)
	}
	v.lastEventTime = now
}

// broadcast emits one outbound send per validator other than self,
// addressed via each recipient's own uplink switch would require the
// recipient's network.Uplink — instead every send targets the recipient
// validator id directly as final destination, routed through THIS
// validator's uplink switch (the only hop this node can originate onto).
func (v *Validator) broadcast(msg any) []kernel.Send {
	hop := v.uplink.Choose()
	sends := make([]kernel.Send, 0, v.n()-1)
	for _, id := range v.validators {
		if id == v.ID() {
			continue
		}
		sends = append(sends, kernel.Send{
			To: hop,
			Payload: kernel.Payload{
				Message:          msg,
				LastHop:          v.ID(),
				FinalDestination: id,
			},
		})
	}
	return sends
}

func (v *Validator) roundTimer() *kernel.TimerArm {
	v.timerTag++
	delay := v.baseTimeLimit
	for i := 0; i < v.view; i++ {
		delay *= 2
	}
	return &kernel.TimerArm{Delay: delay, Tag: v.timerTag}
}

// enterNewRound resets per-round bookkeeping and, if this validator
// leads (height, view), proposes. It arms no timer; every caller arms
// the round timer itself via roundTimer.
func (v *Validator) enterNewRound() []kernel.Send {
	v.cur = newRound()
	v.state = StateNewRound
	if v.isLeader() {
		v.proposal = blockID(v.height, v.view)
		v.state = StatePreprepared
		v.logger.Info("ibft leader proposing", "validator", v.ID(), "height", v.height, "view", v.view)
		return v.broadcast(PrePrepare{Height: v.height, View: v.view, Block: v.proposal})
	}
	return nil
}

// Process advances the state machine in response to one incoming
// message. It satisfies kernel.Node.
func (v *Validator) Process(now float64, p kernel.Payload) (float64, []kernel.Send, *kernel.TimerArm) {
	v.charge(now)
	duration := v.sampler.Draw()

	var outbound []kernel.Send
	var timer *kernel.TimerArm

	switch msg := p.Message.(type) {
	case Bootstrap:
		outbound = v.enterNewRound()
		timer = v.roundTimer()
	case PrePrepare:
		outbound = v.onPrePrepare(msg, p.LastHop)
	case Prepare:
		outbound = v.onPrepare(msg, p.LastHop)
	case Commit:
		outbound, timer = v.onCommit(msg, p.LastHop)
	case RoundChange:
		outbound, timer = v.onRoundChange(msg, p.LastHop)
	}

	return duration, outbound, timer
}

func (v *Validator) onPrePrepare(msg PrePrepare, from kernel.NodeID) []kernel.Send {
	if msg.Height != v.height || msg.View != v.view || v.state != StateNewRound {
		return nil // stale or out-of-order proposal, ignored per §7
	}
	if v.leader(msg.Height, msg.View) != indexOf(v.validators, from) {
		return nil
	}
	v.proposal = msg.Block
	v.state = StatePreprepared
	v.logger.Debug("ibft pre-prepare accepted", "validator", v.ID(), "height", v.height, "view", v.view)
	return v.broadcast(Prepare{Height: v.height, View: v.view, BlockHash: msg.Block})
}

func (v *Validator) onPrepare(msg Prepare, from kernel.NodeID) []kernel.Send {
	if msg.Height != v.height || msg.View != v.view || v.state != StatePreprepared {
		return nil
	}
	if msg.BlockHash != v.proposal {
		return nil
	}
	v.cur.prepareSenders.Add(from)
	v.cur.prepareSenders.Add(v.ID()) // own implicit vote, idempotent
	if v.cur.prepareSenders.Len() < v.quorum() {
		return nil
	}
	v.preparedCert = &PreparedCertificate{View: v.view, BlockHash: v.proposal}
	v.state = StatePrepared
	v.logger.Info("ibft prepared", "validator", v.ID(), "height", v.height, "view", v.view)
	return v.broadcast(Commit{Height: v.height, View: v.view, BlockHash: v.proposal})
}

func (v *Validator) onCommit(msg Commit, from kernel.NodeID) ([]kernel.Send, *kernel.TimerArm) {
	if msg.Height != v.height || msg.View != v.view || v.state != StatePrepared {
		return nil, nil
	}
	if msg.BlockHash != v.proposal {
		return nil, nil
	}
	v.cur.commitSenders.Add(from)
	v.cur.commitSenders.Add(v.ID())
	if v.cur.commitSenders.Len() < v.quorum() {
		return nil, nil
	}
	v.state = StateCommitted
	v.stats.IncConsensusCount()
	v.logger.Info("ibft decided", "validator", v.ID(), "height", v.height, "count", v.stats.ConsensusCount())

	v.height++
	v.view = 0
	v.preparedCert = nil
	v.roundChangeSenders = make(map[int]container.Set[kernel.NodeID])
	outbound := v.enterNewRound()
	return outbound, v.roundTimer()
}

func (v *Validator) onRoundChange(msg RoundChange, from kernel.NodeID) ([]kernel.Send, *kernel.TimerArm) {
	if msg.Height != v.height || msg.View < v.view+1 {
		return nil, nil
	}
	set, ok := v.roundChangeSenders[msg.View]
	if !ok {
		set = container.NewSet[kernel.NodeID](0)
		v.roundChangeSenders[msg.View] = set
	}
	set.Add(from)
	if set.Len() < v.quorum() {
		return nil, nil
	}
	v.view = msg.View
	v.roundChangeSenders = make(map[int]container.Set[kernel.NodeID])
	v.logger.Info("ibft round change quorum reached", "validator", v.ID(), "height", v.height, "view", v.view)
	outbound := v.enterNewRound()
	return outbound, v.roundTimer()
}

// OnTimer fires a round-change on an un-stale round timer expiry.
func (v *Validator) OnTimer(now float64, tag uint64) ([]kernel.Send, *kernel.TimerArm) {
	v.charge(now)
	if tag != v.timerTag || v.state == StateCommitted {
		return nil, nil // stale per §5's timer-tagging invariant
	}
	v.state = StateRoundChange
	nextView := v.view + 1
	v.logger.Info("ibft round timer expired", "validator", v.ID(), "height", v.height, "view", v.view, "next_view", nextView)
	outbound := v.broadcast(RoundChange{Height: v.height, View: nextView, PreparedCert: v.preparedCert})
	return outbound, v.roundTimer()
}

func indexOf(ids []kernel.NodeID, id kernel.NodeID) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}

// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hotstuff

import (
	"github.com/luxfi/log"

	"github.com/luxfi/netsim/internal/container"
	"github.com/luxfi/netsim/kernel"
	"github.com/luxfi/netsim/network"
	"github.com/luxfi/netsim/stats"
)

// Validator runs one HotStuff pacemaker per node. Only the fields needed
// to drive the five-phase view and the safety rule on proposals are
// kept — there's no real chained-block history in this simulator, so
// lockedQC/prepareQC stand in for "the highest justified state so far"
// rather than a parent pointer into an actual block tree.
type Validator struct {
	kernel.Base
	sampler *kernel.ExpSampler
	uplink  *network.Uplink
	logger  log.Logger
	stats   *stats.ConsensusStatistics

	self       int
	validators []kernel.NodeID

	baseTimeLimit float64

	view     int
	phase    Phase
	timerTag uint64

	lastEventTime float64

	lockedQC  *QC
	prepareQC *QC
	proposal  *QC // the block+view this validator is currently voting through

	newViewSenders       container.Set[kernel.NodeID]
	highQC               *QC
	prepareVoteSenders   container.Set[kernel.NodeID]
	preCommitVoteSenders container.Set[kernel.NodeID]
	commitVoteSenders    container.Set[kernel.NodeID]
}

// NewValidator constructs a validator at index self out of the full
// validator id list.
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
		Base:          kernel.NewBase(id),
		sampler:       sampler,
		uplink:        uplink,
		logger:        logger,
		stats:         stats.NewConsensusStatistics(),
		self:          self,
		validators:    validators,
		baseTimeLimit: baseTimeLimit,
		view:          0,
		phase:         PhaseNewView,
	}
}

// Stats exposes the accumulator for the CLI's final snapshot.
func (v *Validator) Stats() *stats.ConsensusStatistics { return v.stats }

// ConsensusCount satisfies kernel.ConsensusCounter.
func (v *Validator) ConsensusCount() int { return v.stats.ConsensusCount() }

// Phase returns the validator's current HotStuff phase, for the final
// per-validator snapshot.
func (v *Validator) Phase() Phase { return v.phase }

func (v *Validator) n() int { return len(v.validators) }

func (v *Validator) f() int { return (v.n() - 1) / 3 }

func (v *Validator) quorum() int { return v.n() - v.f() }

func (v *Validator) leader(view int) int { return view % v.n() }

func (v *Validator) isLeader() bool { return v.leader(v.view) == v.self }

func (v *Validator) charge(now float64) {
	if now > v.lastEventTime {
		v.stats.Charge(string(v.phase), now-v.lastEventTime)
	}
	v.lastEventTime = now
}

func (v *Validator) sendTo(to kernel.NodeID, msg any) kernel.Send {
	return kernel.Send{
		To: v.uplink.Choose(),
		Payload: kernel.Payload{
			Message:          msg,
			LastHop:          v.ID(),
			FinalDestination: to,
		},
	}
}

func (v *Validator) broadcast(msg any) []kernel.Send {
	sends := make([]kernel.Send, 0, v.n()-1)
	for _, id := range v.validators {
		if id == v.ID() {
			continue
		}
		sends = append(sends, v.sendTo(id, msg))
	}
	return sends
}

func (v *Validator) viewTimer() *kernel.TimerArm {
	v.timerTag++
	delay := v.baseTimeLimit
	for i := 0; i < v.view; i++ {
		delay *= 2
	}
	return &kernel.TimerArm{Delay: delay, Tag: v.timerTag}
}

func (v *Validator) resetVoteSets() {
	v.newViewSenders = container.NewSet[kernel.NodeID](0)
	v.highQC = nil
	v.prepareVoteSenders = container.NewSet[kernel.NodeID](0)
	v.preCommitVoteSenders = container.NewSet[kernel.NodeID](0)
	v.commitVoteSenders = container.NewSet[kernel.NodeID](0)
}

// enterNewView resets per-view bookkeeping for view and, if non-leader,
// sends NEW_VIEW to the new leader.
func (v *Validator) enterNewView() []kernel.Send {
	v.phase = PhaseNewView
	v.resetVoteSets()
	v.proposal = nil
	if v.isLeader() {
		return nil
	}
	leaderID := v.validators[v.leader(v.view)]
	return []kernel.Send{v.sendTo(leaderID, NewView{View: v.view, PrepareQC: v.prepareQC})}
}

// Process advances the pacemaker in response to one incoming message. It
// satisfies kernel.Node.
func (v *Validator) Process(now float64, p kernel.Payload) (float64, []kernel.Send, *kernel.TimerArm) {
	v.charge(now)
	duration := v.sampler.Draw()

	var outbound []kernel.Send
	var timer *kernel.TimerArm

	switch msg := p.Message.(type) {
	case Bootstrap:
		outbound = v.enterNewView()
		timer = v.viewTimer()
	case NewView:
		outbound = v.onNewView(msg, p.LastHop)
	case Prepare:
		outbound = v.onPrepare(msg)
	case PrepareVote:
		outbound = v.onPrepareVote(msg, p.LastHop)
	case PreCommit:
		outbound = v.onPreCommit(msg)
	case PreCommitVote:
		outbound = v.onPreCommitVote(msg, p.LastHop)
	case Commit:
		outbound = v.onCommitMsg(msg)
	case CommitVote:
		outbound, timer = v.onCommitVote(msg, p.LastHop)
	case Decide:
		outbound, timer = v.onDecide(msg)
	}

	return duration, outbound, timer
}

func (v *Validator) onNewView(msg NewView, from kernel.NodeID) []kernel.Send {
	if msg.View != v.view || !v.isLeader() || v.phase != PhaseNewView {
		return nil
	}
	if v.highQC == nil || (msg.PrepareQC != nil && msg.PrepareQC.View > v.highQC.View) {
		if msg.PrepareQC != nil {
			v.highQC = msg.PrepareQC
		}
	}
	v.newViewSenders.Add(from)
	v.newViewSenders.Add(v.ID())
	if v.newViewSenders.Len() < v.quorum() {
		return nil
	}
	block := blockID(v.view)
	v.phase = PhasePrepare
	v.proposal = &QC{View: v.view, BlockHash: block}
	v.logger.Info("hotstuff leader proposing", "validator", v.ID(), "view", v.view)
	return v.broadcast(Prepare{View: v.view, Proposal: block, HighQC: v.highQC})
}

// safeToVote implements the simplified safety rule: accept the genesis
// proposal (no lockedQC yet), or a proposal justified by a highQC newer
// than what's locked. There's no chained block history to check literal
// extension against, so HighQC.View > lockedQC.View stands in for it.
func (v *Validator) safeToVote(highQC *QC) bool {
	if v.lockedQC == nil {
		return true
	}
	return highQC != nil && highQC.View > v.lockedQC.View
}

func (v *Validator) onPrepare(msg Prepare) []kernel.Send {
	if msg.View != v.view || v.phase != PhaseNewView {
		return nil
	}
	if !v.safeToVote(msg.HighQC) {
		return nil
	}
	v.proposal = &QC{View: msg.View, BlockHash: msg.Proposal}
	v.phase = PhasePrepare
	leaderID := v.validators[v.leader(v.view)]
	return []kernel.Send{v.sendTo(leaderID, PrepareVote{View: v.view, BlockHash: msg.Proposal})}
}

func (v *Validator) onPrepareVote(msg PrepareVote, from kernel.NodeID) []kernel.Send {
	if msg.View != v.view || !v.isLeader() || v.phase != PhasePrepare {
		return nil
	}
	if v.proposal == nil || msg.BlockHash != v.proposal.BlockHash {
		return nil
	}
	v.prepareVoteSenders.Add(from)
	v.prepareVoteSenders.Add(v.ID())
	if v.prepareVoteSenders.Len() < v.quorum() {
		return nil
	}
	qc := QC{View: v.view, BlockHash: msg.BlockHash}
	v.phase = PhasePreCommit
	v.logger.Debug("hotstuff prepare quorum", "validator", v.ID(), "view", v.view)
	return v.broadcast(PreCommit{View: v.view, QC: qc})
}

func (v *Validator) onPreCommit(msg PreCommit) []kernel.Send {
	if msg.View != v.view || v.phase != PhasePrepare {
		return nil
	}
	v.prepareQC = &msg.QC
	v.phase = PhasePreCommit
	leaderID := v.validators[v.leader(v.view)]
	return []kernel.Send{v.sendTo(leaderID, PreCommitVote{View: v.view, BlockHash: msg.QC.BlockHash})}
}

func (v *Validator) onPreCommitVote(msg PreCommitVote, from kernel.NodeID) []kernel.Send {
	if msg.View != v.view || !v.isLeader() || v.phase != PhasePreCommit {
		return nil
	}
	v.preCommitVoteSenders.Add(from)
	v.preCommitVoteSenders.Add(v.ID())
	if v.preCommitVoteSenders.Len() < v.quorum() {
		return nil
	}
	qc := QC{View: v.view, BlockHash: msg.BlockHash}
	v.phase = PhaseCommit
	v.logger.Debug("hotstuff pre-commit quorum", "validator", v.ID(), "view", v.view)
	return v.broadcast(Commit{View: v.view, QC: qc})
}

func (v *Validator) onCommitMsg(msg Commit) []kernel.Send {
	if msg.View != v.view || v.phase != PhasePreCommit {
		return nil
	}
	v.lockedQC = &msg.QC
	v.phase = PhaseCommit
	leaderID := v.validators[v.leader(v.view)]
	return []kernel.Send{v.sendTo(leaderID, CommitVote{View: v.view, BlockHash: msg.QC.BlockHash})}
}

func (v *Validator) onCommitVote(msg CommitVote, from kernel.NodeID) ([]kernel.Send, *kernel.TimerArm) {
	if msg.View != v.view || !v.isLeader() || v.phase != PhaseCommit {
		return nil, nil
	}
	v.commitVoteSenders.Add(from)
	v.commitVoteSenders.Add(v.ID())
	if v.commitVoteSenders.Len() < v.quorum() {
		return nil, nil
	}
	qc := QC{View: v.view, BlockHash: msg.BlockHash}
	outbound := v.broadcast(Decide{View: v.view, QC: qc})
	advanced, timer := v.decideAndAdvance(qc)
	return append(outbound, advanced...), timer
}

// decideAndAdvance executes the decided block locally, moves on to the
// next view (arming its timer), and mirrors what a replica does on
// receiving Decide. Used by the leader itself too, since it never
// receives its own Decide.
func (v *Validator) decideAndAdvance(qc QC) ([]kernel.Send, *kernel.TimerArm) {
	v.phase = PhaseDecide
	v.lockedQC = &qc
	v.stats.IncConsensusCount()
	v.logger.Info("hotstuff decided", "validator", v.ID(), "view", v.view, "count", v.stats.ConsensusCount())
	v.view++
	outbound := v.enterNewView()
	return outbound, v.viewTimer()
}

func (v *Validator) onDecide(msg Decide) ([]kernel.Send, *kernel.TimerArm) {
	if msg.View != v.view || v.phase != PhaseCommit {
		return nil, nil
	}
	return v.decideAndAdvance(msg.QC)
}

// OnTimer advances to the next view on an un-stale per-view timer
// expiry, per §5's timer-tagging invariant.
func (v *Validator) OnTimer(now float64, tag uint64) ([]kernel.Send, *kernel.TimerArm) {
	v.charge(now)
	if tag != v.timerTag {
		return nil, nil
	}
	v.logger.Info("hotstuff view timer expired", "validator", v.ID(), "view", v.view)
	v.view++
	outbound := v.enterNewView()
	return outbound, v.viewTimer()
}

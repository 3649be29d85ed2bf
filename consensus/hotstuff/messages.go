// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hotstuff implements the chained HotStuff pacemaker's five-phase
// view: NEW_VIEW, PREPARE, PRE_COMMIT, COMMIT, DECIDE.
package hotstuff

import (
	"crypto/sha256"
	"fmt"

	"github.com/luxfi/ids"
)

// Phase names a validator's position within a view.
type Phase string

const (
	PhaseNewView   Phase = "NEW_VIEW"
	PhasePrepare   Phase = "PREPARE"
	PhasePreCommit Phase = "PRE_COMMIT"
	PhaseCommit    Phase = "COMMIT"
	PhaseDecide    Phase = "DECIDE"
)

// QC is a quorum certificate: n-f matching votes for a block proposed in
// a given view.
type QC struct {
	View      int
	BlockHash ids.ID
}

// NewView is sent by a replica to the view's leader to report the
// highest prepareQC it has observed so far.
type NewView struct {
	View      int
	PrepareQC *QC
}

// Prepare is the leader's proposal for view, justified by HighQC — the
// highest prepareQC collected from the NEW_VIEW round.
type Prepare struct {
	View     int
	Proposal ids.ID
	HighQC   *QC
}

// PrepareVote is a replica's vote for a Prepare proposal it accepted.
type PrepareVote struct {
	View      int
	BlockHash ids.ID
}

// PreCommit carries the prepareQC the leader formed from a PrepareVote
// quorum.
type PreCommit struct {
	View int
	QC   QC
}

// PreCommitVote acknowledges a PreCommit message.
type PreCommitVote struct {
	View      int
	BlockHash ids.ID
}

// Commit carries the precommitQC the leader formed from a PreCommitVote
// quorum; replicas lock on QC upon receipt.
type Commit struct {
	View int
	QC   QC
}

// CommitVote acknowledges a Commit message.
type CommitVote struct {
	View      int
	BlockHash ids.ID
}

// Decide carries the commitQC the leader formed from a CommitVote
// quorum; replicas execute and advance to the next view upon receipt.
type Decide struct {
	View int
	QC   QC
}

// Bootstrap is delivered once to every validator at simulated time zero
// to start view 0.
type Bootstrap struct{}

func blockID(view int) ids.ID {
	sum := sha256.Sum256([]byte(fmt.Sprintf("hotstuff-block-%d", view)))
	return ids.ID(sum)
}

func (m NewView) String() string       { return fmt.Sprintf("NEW-VIEW(v=%d)", m.View) }
func (m Prepare) String() string       { return fmt.Sprintf("PREPARE(v=%d,block=%s)", m.View, m.Proposal) }
func (m PrepareVote) String() string   { return fmt.Sprintf("PREPARE-VOTE(v=%d)", m.View) }
func (m PreCommit) String() string     { return fmt.Sprintf("PRE-COMMIT(v=%d)", m.View) }
func (m PreCommitVote) String() string { return fmt.Sprintf("PRE-COMMIT-VOTE(v=%d)", m.View) }
func (m Commit) String() string        { return fmt.Sprintf("COMMIT(v=%d)", m.View) }
func (m CommitVote) String() string    { return fmt.Sprintf("COMMIT-VOTE(v=%d)", m.View) }
func (m Decide) String() string        { return fmt.Sprintf("DECIDE(v=%d)", m.View) }
func (m Bootstrap) String() string     { return "BOOTSTRAP" }

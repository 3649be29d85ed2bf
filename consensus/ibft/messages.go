// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ibft implements the IBFT consensus state machine: pre-prepare,
// prepare, commit and round-change, driven by payloads arriving through
// the kernel's event loop.
package ibft

import (
	"crypto/sha256"
	"fmt"

	"github.com/luxfi/ids"
)

// State names a validator's position in the IBFT round.
type State string

const (
	StateNewRound    State = "NEW_ROUND"
	StatePreprepared State = "PREPREPARED"
	StatePrepared    State = "PREPARED"
	StateRoundChange State = "ROUND_CHANGE"
	StateCommitted   State = "COMMITTED"
)

// PreparedCertificate is the evidence a validator carries into a new
// round once it has collected a prepare quorum: the block it prepared
// and the view in which it did so.
type PreparedCertificate struct {
	View      int
	BlockHash ids.ID
}

// PrePrepare proposes a block for (height, view); broadcast once by the
// view's leader.
type PrePrepare struct {
	Height int
	View   int
	Block  ids.ID
}

// Prepare votes for a proposed block by hash.
type Prepare struct {
	Height    int
	View      int
	BlockHash ids.ID
}

// Commit votes to finalize a prepared block.
type Commit struct {
	Height    int
	View      int
	BlockHash ids.ID
}

// RoundChange requests advancing past a timed-out view, optionally
// carrying the sender's prepared certificate from an earlier round.
type RoundChange struct {
	Height       int
	View         int
	PreparedCert *PreparedCertificate
}

// blockID deterministically derives the block proposed at (height, view)
// — there's no real transaction payload in this simulator, only the
// identity the protocol needs to agree on.
func blockID(height, view int) ids.ID {
	sum := sha256.Sum256([]byte(fmt.Sprintf("ibft-block-%d-%d", height, view)))
	return ids.ID(sum)
}

func (m PrePrepare) String() string {
	return fmt.Sprintf("PRE-PREPARE(h=%d,v=%d,block=%s)", m.Height, m.View, m.Block)
}
func (m Prepare) String() string {
	return fmt.Sprintf("PREPARE(h=%d,v=%d,hash=%s)", m.Height, m.View, m.BlockHash)
}
func (m Commit) String() string {
	return fmt.Sprintf("COMMIT(h=%d,v=%d,hash=%s)", m.Height, m.View, m.BlockHash)
}
func (m RoundChange) String() string {
	return fmt.Sprintf("ROUND-CHANGE(h=%d,v=%d)", m.Height, m.View)
}

// Bootstrap is delivered once to every validator at simulated time zero
// to start instance 0, view 0: the leader proposes, every replica arms
// its round timer.
type Bootstrap struct{}

func (m Bootstrap) String() string { return "BOOTSTRAP" }

// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"fmt"

	"github.com/0xbuidlman/substrate/dot/types"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// Subround subrounds in a grandpa round
type Subround byte

const (
	// Prevote subround
	Prevote Subround = iota
	// Precommit subround
	Precommit
	// PrimaryProposal subround
	PrimaryProposal
)

func (s Subround) String() string {
	switch s {
	case Prevote:
		return "prevote"
	case Precommit:
		return "precommit"
	case PrimaryProposal:
		return "primaryProposal"
	}
	return "unknown"
}

// FullVote is the payload a voter signs: the vote qualified by its stage,
// round and authority set id
type FullVote struct {
	Stage Subround
	Vote  types.GrandpaVote
	Round uint64
	SetID uint64
}

// Encode returns the SCALE encoding of the FullVote
func (f *FullVote) Encode() ([]byte, error) {
	return scale.Marshal(*f)
}

func (f *FullVote) String() string {
	return fmt.Sprintf("FullVote stage=%s vote={%s} round=%d setID=%d",
		f.Stage, f.Vote, f.Round, f.SetID)
}

// NewAuthorities is the event emitted when an authority set change takes effect
type NewAuthorities struct {
	AuthoritySet []types.GrandpaAuthoritiesRaw
}

func (e NewAuthorities) String() string {
	return fmt.Sprintf("NewAuthorities %v", e.AuthoritySet)
}

// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"

	"github.com/ChainSafe/gossamer/pkg/scale"
)

// NewBabeConsensusDigest constructs a new scale.VaryingDataType for a BABE consensus digest
func NewBabeConsensusDigest() scale.VaryingDataType {
	return scale.MustNewVaryingDataType(BabeNextAuthorities{}, BABEOnDisabled{})
}

// NewGrandpaConsensusDigest constructs a new scale.VaryingDataType for a GRANDPA consensus digest
func NewGrandpaConsensusDigest() scale.VaryingDataType {
	return scale.MustNewVaryingDataType(GrandpaScheduledChange{}, GrandpaForcedChange{},
		GrandpaOnDisabled{}, GrandpaPause{}, GrandpaResume{})
}

// GrandpaScheduledChange announces an upcoming authority set change, to be
// applied after the given number of finalised blocks
type GrandpaScheduledChange struct {
	Auths []GrandpaAuthoritiesRaw
	Delay uint32
}

// Index returns VDT index
func (g GrandpaScheduledChange) Index() uint { return 1 }

func (g GrandpaScheduledChange) String() string {
	return fmt.Sprintf("GrandpaScheduledChange Auths=%v Delay=%d", g.Auths, g.Delay)
}

// GrandpaForcedChange announces an authority set change that applies without
// waiting for finality
type GrandpaForcedChange struct {
	// BestFinalizedBlock is the last finalised block when the change was scheduled;
	// voters replaying the chain treat the change as applying from there
	BestFinalizedBlock uint32
	Auths              []GrandpaAuthoritiesRaw
	Delay              uint32
}

// Index returns VDT index
func (g GrandpaForcedChange) Index() uint { return 2 }

func (g GrandpaForcedChange) String() string {
	return fmt.Sprintf("GrandpaForcedChange BestFinalizedBlock=%d Auths=%v Delay=%d",
		g.BestFinalizedBlock, g.Auths, g.Delay)
}

// GrandpaOnDisabled disables the authority with the given index
type GrandpaOnDisabled struct {
	ID uint64
}

// Index returns VDT index
func (g GrandpaOnDisabled) Index() uint { return 3 }

func (g GrandpaOnDisabled) String() string {
	return fmt.Sprintf("GrandpaOnDisabled ID=%d", g.ID)
}

// GrandpaPause pauses the current authority set after the given delay
type GrandpaPause struct {
	Delay uint32
}

// Index returns VDT index
func (g GrandpaPause) Index() uint { return 4 }

func (g GrandpaPause) String() string {
	return fmt.Sprintf("GrandpaPause Delay=%d", g.Delay)
}

// GrandpaResume resumes a paused authority set after the given delay
type GrandpaResume struct {
	Delay uint32
}

// Index returns VDT index
func (g GrandpaResume) Index() uint { return 5 }

func (g GrandpaResume) String() string {
	return fmt.Sprintf("GrandpaResume Delay=%d", g.Delay)
}

// BabeNextAuthorities is the BABE consensus message announcing the authority
// set for the next epoch
type BabeNextAuthorities struct {
	Auths []AuthorityRaw
}

// Index returns VDT index
func (d BabeNextAuthorities) Index() uint { return 1 }

func (d BabeNextAuthorities) String() string {
	return fmt.Sprintf("BabeNextAuthorities Auths=%v", d.Auths)
}

// BABEOnDisabled disables the BABE authority with the given index
type BABEOnDisabled struct {
	ID uint32
}

// Index returns VDT index
func (d BABEOnDisabled) Index() uint { return 2 }

func (d BABEOnDisabled) String() string {
	return fmt.Sprintf("BABEOnDisabled ID=%d", d.ID)
}

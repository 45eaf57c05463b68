// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"

	"github.com/0xbuidlman/substrate/lib/common"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// ConsensusEngineID is a 4-character identifier of the consensus engine that produced the digest
type ConsensusEngineID [4]byte

// ToBytes turns ConsensusEngineID to a byte array
func (h ConsensusEngineID) ToBytes() []byte {
	b := [4]byte(h)
	return b[:]
}

func (h ConsensusEngineID) String() string {
	return string(h.ToBytes())
}

// BabeEngineID is the hard-coded babe ID
var BabeEngineID = ConsensusEngineID{'B', 'A', 'B', 'E'}

// GrandpaEngineID is the hard-coded grandpa ID
var GrandpaEngineID = ConsensusEngineID{'F', 'R', 'N', 'K'}

// NewDigestItem returns a new VaryingDataType to represent a DigestItem
func NewDigestItem() scale.VaryingDataType {
	return scale.MustNewVaryingDataType(ChangesTrieRootDigest{}, PreRuntimeDigest{}, ConsensusDigest{}, SealDigest{})
}

// Digest is a block header digest: an ordered list of digest items
type Digest = scale.VaryingDataTypeSlice

// NewDigest returns a new Digest as a varying data type slice
func NewDigest() Digest {
	return scale.NewVaryingDataTypeSlice(NewDigestItem())
}

// ChangesTrieRootDigest contains the root of the changes trie at a given block, if the runtime supports it
type ChangesTrieRootDigest struct {
	Hash common.Hash
}

// Index returns VDT index
func (d ChangesTrieRootDigest) Index() uint { return 2 }

func (d ChangesTrieRootDigest) String() string {
	return fmt.Sprintf("ChangesTrieRootDigest Hash=%s", d.Hash)
}

// PreRuntimeDigest contains messages from the consensus engine to the runtime
type PreRuntimeDigest struct {
	ConsensusEngineID ConsensusEngineID
	Data              []byte
}

// Index returns VDT index
func (d PreRuntimeDigest) Index() uint { return 6 }

// NewBABEPreRuntimeDigest returns a PreRuntimeDigest with the BABE consensus ID
func NewBABEPreRuntimeDigest(data []byte) *PreRuntimeDigest {
	return &PreRuntimeDigest{
		ConsensusEngineID: BabeEngineID,
		Data:              data,
	}
}

func (d PreRuntimeDigest) String() string {
	return fmt.Sprintf("PreRuntimeDigest ConsensusEngineID=%s Data=0x%x", d.ConsensusEngineID, d.Data)
}

// ConsensusDigest contains messages from the runtime to the consensus engine
type ConsensusDigest struct {
	ConsensusEngineID ConsensusEngineID
	Data              []byte
}

// Index returns VDT index
func (d ConsensusDigest) Index() uint { return 4 }

func (d ConsensusDigest) String() string {
	return fmt.Sprintf("ConsensusDigest ConsensusEngineID=%s Data=0x%x", d.ConsensusEngineID, d.Data)
}

// SealDigest contains the seal or signature of the block producer
type SealDigest struct {
	ConsensusEngineID ConsensusEngineID
	Data              []byte
}

// Index returns VDT index
func (d SealDigest) Index() uint { return 5 }

func (d SealDigest) String() string {
	return fmt.Sprintf("SealDigest ConsensusEngineID=%s Data=0x%x", d.ConsensusEngineID, d.Data)
}

// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"

	"github.com/0xbuidlman/substrate/lib/common"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// Header is a state block header
type Header struct {
	ParentHash     common.Hash `json:"parentHash"`
	Number         uint        `json:"number"`
	StateRoot      common.Hash `json:"stateRoot"`
	ExtrinsicsRoot common.Hash `json:"extrinsicsRoot"`
	Digest         Digest      `json:"digest"`
	hashCache      *common.Hash
}

// NewHeader creates a new block header and sets its hash field
func NewHeader(parentHash, stateRoot, extrinsicsRoot common.Hash,
	number uint, digest Digest) *Header {
	bh := &Header{
		ParentHash:     parentHash,
		Number:         number,
		StateRoot:      stateRoot,
		ExtrinsicsRoot: extrinsicsRoot,
		Digest:         digest,
	}

	bh.Hash()
	return bh
}

// NewEmptyHeader returns a new header with all zero values
func NewEmptyHeader() *Header {
	return &Header{
		Digest: NewDigest(),
	}
}

// Exists returns a boolean indicating if the header exists
func (bh *Header) Exists() bool {
	return bh != nil
}

// Empty returns a boolean indicating is the header is empty
func (bh *Header) Empty() bool {
	if !bh.StateRoot.IsEmpty() || !bh.ExtrinsicsRoot.IsEmpty() || !bh.ParentHash.IsEmpty() {
		return false
	}
	return bh.Number == 0 && len(bh.Digest.Types) == 0
}

// DeepCopy returns a deep copy of the header
func (bh *Header) DeepCopy() (*Header, error) {
	cp := NewEmptyHeader()
	copy(cp.ParentHash[:], bh.ParentHash[:])
	copy(cp.StateRoot[:], bh.StateRoot[:])
	copy(cp.ExtrinsicsRoot[:], bh.ExtrinsicsRoot[:])
	cp.Number = bh.Number

	if len(bh.Digest.Types) > 0 {
		cp.Digest = NewDigest()
		for _, d := range bh.Digest.Types {
			val, err := d.Value()
			if err != nil {
				return nil, err
			}

			err = cp.Digest.Add(val)
			if err != nil {
				return nil, err
			}
		}
	}

	return cp, nil
}

// String returns the formatted header as a string
func (bh *Header) String() string {
	return fmt.Sprintf("ParentHash=%s Number=%d StateRoot=%s ExtrinsicsRoot=%s Digest=%v Hash=%s",
		bh.ParentHash, bh.Number, bh.StateRoot, bh.ExtrinsicsRoot, bh.Digest, bh.Hash())
}

// Hash returns the blake2b hash of the SCALE encoded header. If the header has
// been hashed before, the cached hash is returned; mutating a header after
// hashing it is a bug.
func (bh *Header) Hash() common.Hash {
	if bh.hashCache == nil {
		enc, err := scale.Marshal(*bh)
		if err != nil {
			return common.Hash{}
		}

		hash, err := common.Blake2bHash(enc)
		if err != nil {
			return common.Hash{}
		}

		bh.hashCache = &hash
	}

	return *bh.hashCache
}

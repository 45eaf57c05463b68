// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"errors"
	"fmt"

	"github.com/0xbuidlman/substrate/dot/types"
	"github.com/0xbuidlman/substrate/lib/crypto/sr25519"
	"github.com/ChainSafe/chaindb"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

const babePrefix = "babe"

var (
	randomnessKey    = storageKey("Babe", "Randomness")
	vrfOutputsKey    = storageKey("Babe", "UnderConstruction")
	babeAuthsKey     = storageKey("Babe", "Authorities")
	lastTimestampKey = storageKey("Timestamp", "Now")
)

// BabeState persists the block-production side of consensus: the rolling
// randomness value, the journal of VRF outputs folded in during the current
// epoch, the authority list and the last accepted timestamp.
type BabeState struct {
	db chaindb.Database
}

// NewBabeState returns a BabeState backed by a prefixed table of db
func NewBabeState(db chaindb.Database) *BabeState {
	return &BabeState{
		db: chaindb.NewTable(db, babePrefix),
	}
}

// Randomness returns the current epoch randomness. A fresh database yields
// the all-zero value.
func (s *BabeState) Randomness() (types.Randomness, error) {
	var randomness types.Randomness

	enc, err := s.db.Get(randomnessKey)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return randomness, nil
	} else if err != nil {
		return randomness, err
	}

	if len(enc) != types.RandomnessLength {
		return randomness, fmt.Errorf("stored randomness is %d bytes, expected %d",
			len(enc), types.RandomnessLength)
	}

	copy(randomness[:], enc)
	return randomness, nil
}

// SetRandomness stores the epoch randomness
func (s *BabeState) SetRandomness(randomness types.Randomness) error {
	return s.db.Put(randomnessKey, randomness[:])
}

// VRFOutputs returns the journal of VRF outputs accumulated during the
// current epoch
func (s *BabeState) VRFOutputs() ([][sr25519.VRFOutputLength]byte, error) {
	enc, err := s.db.Get(vrfOutputsKey)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var outputs [][sr25519.VRFOutputLength]byte
	err = scale.Unmarshal(enc, &outputs)
	if err != nil {
		return nil, fmt.Errorf("decoding vrf output journal: %w", err)
	}

	return outputs, nil
}

// AppendVRFOutput appends a VRF output to the epoch journal
func (s *BabeState) AppendVRFOutput(output [sr25519.VRFOutputLength]byte) error {
	outputs, err := s.VRFOutputs()
	if err != nil {
		return err
	}

	outputs = append(outputs, output)
	enc, err := scale.Marshal(outputs)
	if err != nil {
		return err
	}

	return s.db.Put(vrfOutputsKey, enc)
}

// ClearVRFOutputs resets the epoch journal
func (s *BabeState) ClearVRFOutputs() error {
	err := s.db.Del(vrfOutputsKey)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Authorities returns the current BABE authority list
func (s *BabeState) Authorities() ([]types.AuthorityRaw, error) {
	enc, err := s.db.Get(babeAuthsKey)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var auths []types.AuthorityRaw
	err = scale.Unmarshal(enc, &auths)
	if err != nil {
		return nil, fmt.Errorf("decoding authorities: %w", err)
	}

	return auths, nil
}

// SetAuthorities stores the BABE authority list
func (s *BabeState) SetAuthorities(auths []types.AuthorityRaw) error {
	enc, err := scale.Marshal(auths)
	if err != nil {
		return err
	}

	return s.db.Put(babeAuthsKey, enc)
}

// LastTimestamp returns the timestamp accepted in the previous block, in
// milliseconds. Zero on a fresh database.
func (s *BabeState) LastTimestamp() (uint64, error) {
	enc, err := s.db.Get(lastTimestampKey)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	var ts uint64
	err = scale.Unmarshal(enc, &ts)
	if err != nil {
		return 0, fmt.Errorf("decoding last timestamp: %w", err)
	}

	return ts, nil
}

// SetLastTimestamp stores the timestamp accepted in this block
func (s *BabeState) SetLastTimestamp(ts uint64) error {
	enc, err := scale.Marshal(ts)
	if err != nil {
		return err
	}

	return s.db.Put(lastTimestampKey, enc)
}

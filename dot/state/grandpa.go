// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"errors"
	"fmt"

	"github.com/0xbuidlman/substrate/dot/types"
	"github.com/ChainSafe/chaindb"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

const grandpaPrefix = "grandpa"

var (
	grandpaAuthsKey  = storageKey("GrandpaFinality", "Authorities")
	pendingChangeKey = storageKey("GrandpaFinality", "PendingChange")
	nextForcedKey    = storageKey("GrandpaFinality", "NextForced")
	currentSetIDKey  = storageKey("GrandpaFinality", "CurrentSetId")
)

// ErrNoPendingChange is returned when no authority set change is scheduled
var ErrNoPendingChange = errors.New("no pending authority set change")

// GrandpaState persists the finality side of consensus: the active authority
// set, at most one pending change, the forced-change cooldown and the set id.
type GrandpaState struct {
	db chaindb.Database
}

// NewGrandpaState returns a GrandpaState backed by a prefixed table of db
func NewGrandpaState(db chaindb.Database) *GrandpaState {
	return &GrandpaState{
		db: chaindb.NewTable(db, grandpaPrefix),
	}
}

// Authorities returns the active authority set
func (s *GrandpaState) Authorities() ([]types.GrandpaAuthoritiesRaw, error) {
	enc, err := s.db.Get(grandpaAuthsKey)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var auths []types.GrandpaAuthoritiesRaw
	err = scale.Unmarshal(enc, &auths)
	if err != nil {
		return nil, fmt.Errorf("decoding authorities: %w", err)
	}

	return auths, nil
}

// SetAuthorities stores the active authority set
func (s *GrandpaState) SetAuthorities(auths []types.GrandpaAuthoritiesRaw) error {
	enc, err := scale.Marshal(auths)
	if err != nil {
		return err
	}

	return s.db.Put(grandpaAuthsKey, enc)
}

// PendingChange returns the scheduled authority set change, or
// ErrNoPendingChange when none is scheduled
func (s *GrandpaState) PendingChange() (*types.StoredPendingChange, error) {
	enc, err := s.db.Get(pendingChangeKey)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return nil, ErrNoPendingChange
	} else if err != nil {
		return nil, err
	}

	return types.DecodeStoredPendingChange(enc)
}

// HasPendingChange reports whether an authority set change is scheduled
func (s *GrandpaState) HasPendingChange() (bool, error) {
	return has(s.db, pendingChangeKey)
}

// SetPendingChange stores the scheduled authority set change
func (s *GrandpaState) SetPendingChange(change *types.StoredPendingChange) error {
	enc, err := scale.Marshal(*change)
	if err != nil {
		return err
	}

	return s.db.Put(pendingChangeKey, enc)
}

// DeletePendingChange removes the scheduled authority set change, if any
func (s *GrandpaState) DeletePendingChange() error {
	err := s.db.Del(pendingChangeKey)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return nil
	}
	return err
}

// NextForced returns the earliest block number at which the next forced
// change may be scheduled. The second return is false when no forced change
// has ever been scheduled.
func (s *GrandpaState) NextForced() (uint32, bool, error) {
	enc, err := s.db.Get(nextForcedKey)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}

	var number uint32
	err = scale.Unmarshal(enc, &number)
	if err != nil {
		return 0, false, fmt.Errorf("decoding next forced: %w", err)
	}

	return number, true, nil
}

// SetNextForced stores the forced-change cooldown block number
func (s *GrandpaState) SetNextForced(number uint32) error {
	enc, err := scale.Marshal(number)
	if err != nil {
		return err
	}

	return s.db.Put(nextForcedKey, enc)
}

// SetID returns the current authority set id. Zero on a fresh database.
func (s *GrandpaState) SetID() (uint64, error) {
	enc, err := s.db.Get(currentSetIDKey)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	var id uint64
	err = scale.Unmarshal(enc, &id)
	if err != nil {
		return 0, fmt.Errorf("decoding set id: %w", err)
	}

	return id, nil
}

// IncrementSetID bumps the authority set id, returning the new value
func (s *GrandpaState) IncrementSetID() (uint64, error) {
	id, err := s.SetID()
	if err != nil {
		return 0, err
	}

	id++
	enc, err := scale.Marshal(id)
	if err != nil {
		return 0, err
	}

	return id, s.db.Put(currentSetIDKey, enc)
}

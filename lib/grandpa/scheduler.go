// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"fmt"

	"github.com/0xbuidlman/substrate/dot/types"
	"github.com/ChainSafe/gossamer/pkg/scale"
	log "github.com/ChainSafe/log15"
)

var logger = log.New("pkg", "grandpa")

// GrandpaState is the persisted state the scheduler reads and writes
type GrandpaState interface {
	Authorities() ([]types.GrandpaAuthoritiesRaw, error)
	SetAuthorities([]types.GrandpaAuthoritiesRaw) error
	PendingChange() (*types.StoredPendingChange, error)
	HasPendingChange() (bool, error)
	SetPendingChange(*types.StoredPendingChange) error
	DeletePendingChange() error
	NextForced() (uint32, bool, error)
	SetNextForced(uint32) error
	SetID() (uint64, error)
	IncrementSetID() (uint64, error)
}

// System is the host surface the scheduler reports through: header logs go
// to the block under construction, events to the block's event record
type System interface {
	DepositLog(item scale.VaryingDataTypeValue) error
	DepositEvent(event any) error
}

// Scheduler manages authority set changes: at most one change may be pending
// at a time, forced changes are rate-limited, and a change takes effect at
// exactly its scheduled block plus its delay.
type Scheduler struct {
	state  GrandpaState
	system System
}

// NewScheduler returns a Scheduler over the given state and system sink
func NewScheduler(state GrandpaState, system System) (*Scheduler, error) {
	if state == nil {
		return nil, errNilState
	}
	if system == nil {
		return nil, errNilSystem
	}

	return &Scheduler{
		state:  state,
		system: system,
	}, nil
}

// ScheduleChange schedules an authority set change to take effect delay
// blocks after current, the block doing the scheduling. A non-nil forced
// marks the change as forced and carries the last finalised block number;
// forced changes are refused until the cooldown from the previous forced
// change has expired. On any refusal no state is modified.
func (s *Scheduler) ScheduleChange(current uint32, next []types.GrandpaAuthoritiesRaw,
	delay uint32, forced *uint32) error {
	pending, err := s.state.HasPendingChange()
	if err != nil {
		return fmt.Errorf("checking pending change: %w", err)
	}
	if pending {
		return ErrChangeAlreadyPending
	}

	if forced != nil {
		nextForced, set, err := s.state.NextForced()
		if err != nil {
			return fmt.Errorf("reading forced cooldown: %w", err)
		}
		if set && current < nextForced {
			return fmt.Errorf("%w: block %d, allowed from %d", ErrTooSoon, current, nextForced)
		}
	}

	change := &types.StoredPendingChange{
		ScheduledAt:     current,
		Delay:           delay,
		NextAuthorities: next,
		Forced:          forced,
	}

	// the pending change is written first so a failed write cannot consume
	// the forced cooldown
	err = s.state.SetPendingChange(change)
	if err != nil {
		return fmt.Errorf("writing pending change: %w", err)
	}

	if forced != nil {
		// cooldown runs until one delay past the effective block
		err = s.state.SetNextForced(current + 2*delay)
		if err != nil {
			return fmt.Errorf("writing forced cooldown: %w", err)
		}
	}

	logger.Info("scheduled authority set change", "scheduledAt", current,
		"delay", delay, "forced", forced != nil, "authorities", len(next))
	return nil
}

// OnFinalize applies the pending change if the block being finalised is
// exactly the change's effective block. The new set is announced both in a
// GRANDPA-tagged header log and a NewAuthorities event at that block.
func (s *Scheduler) OnFinalize(number uint32) error {
	pending, err := s.state.HasPendingChange()
	if err != nil {
		return fmt.Errorf("checking pending change: %w", err)
	}
	if !pending {
		return nil
	}

	change, err := s.state.PendingChange()
	if err != nil {
		return fmt.Errorf("reading pending change: %w", err)
	}

	if number != change.EffectiveNumber() {
		return nil
	}

	return s.applyChange(change.NextAuthorities, change.Forced, func() error {
		return s.state.DeletePendingChange()
	})
}

// OnNewSession rotates the authority set when the session validators differ
// from the active set. The rotation is instantaneous: it does not create a
// pending change and is exempt from the forced-change cooldown.
func (s *Scheduler) OnNewSession(changed bool, validators []types.GrandpaAuthoritiesRaw) error {
	if !changed {
		return nil
	}

	current, err := s.state.Authorities()
	if err != nil {
		return fmt.Errorf("reading authorities: %w", err)
	}

	if types.GrandpaAuthoritiesRawEqual(current, validators) {
		return nil
	}

	return s.applyChange(validators, nil, nil)
}

// applyChange installs the new set, bumps the set id, emits the header log
// and the event, then runs cleanup
func (s *Scheduler) applyChange(next []types.GrandpaAuthoritiesRaw,
	forced *uint32, cleanup func() error) error {
	err := s.state.SetAuthorities(next)
	if err != nil {
		return fmt.Errorf("writing authorities: %w", err)
	}

	setID, err := s.state.IncrementSetID()
	if err != nil {
		return fmt.Errorf("incrementing set id: %w", err)
	}

	if cleanup != nil {
		err = cleanup()
		if err != nil {
			return err
		}
	}

	digest := types.NewGrandpaConsensusDigest()
	if forced != nil {
		err = digest.Set(types.GrandpaForcedChange{
			BestFinalizedBlock: *forced,
			Auths:              next,
		})
	} else {
		err = digest.Set(types.GrandpaScheduledChange{
			Auths: next,
		})
	}
	if err != nil {
		return fmt.Errorf("setting consensus digest: %w", err)
	}

	enc, err := scale.Marshal(digest)
	if err != nil {
		return fmt.Errorf("encoding consensus digest: %w", err)
	}

	err = s.system.DepositLog(types.ConsensusDigest{
		ConsensusEngineID: types.GrandpaEngineID,
		Data:              enc,
	})
	if err != nil {
		return fmt.Errorf("depositing consensus log: %w", err)
	}

	err = s.system.DepositEvent(NewAuthorities{AuthoritySet: next})
	if err != nil {
		return fmt.Errorf("depositing event: %w", err)
	}

	logger.Info("applied authority set change", "setID", setID, "authorities", len(next))
	return nil
}

// Authorities returns the active authority set
func (s *Scheduler) Authorities() ([]types.GrandpaAuthoritiesRaw, error) {
	return s.state.Authorities()
}

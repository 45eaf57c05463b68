// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package babe

import (
	"fmt"

	"github.com/0xbuidlman/substrate/dot/types"
	"github.com/0xbuidlman/substrate/lib/common"
	"github.com/0xbuidlman/substrate/lib/crypto/sr25519"
	"github.com/ChainSafe/gossamer/pkg/scale"
	log "github.com/ChainSafe/log15"
)

var logger = log.New("pkg", "babe")

// BabeState is the persisted state the module reads and writes
type BabeState interface {
	Randomness() (types.Randomness, error)
	SetRandomness(types.Randomness) error
	AppendVRFOutput([sr25519.VRFOutputLength]byte) error
	Authorities() ([]types.AuthorityRaw, error)
	SetAuthorities([]types.AuthorityRaw) error
	LastTimestamp() (uint64, error)
	SetLastTimestamp(uint64) error
}

// System is the host surface the module reports through: header logs go to
// the block under construction
type System interface {
	DepositLog(item scale.VaryingDataTypeValue) error
}

// Service implements the block-production consensus rules: pre-digest
// processing, the randomness accumulator, the inherent slot check and
// session rotation of the authority set.
type Service struct {
	state         BabeState
	system        System
	minimumPeriod uint64
}

// NewService returns a BABE Service. minimumPeriod is the minimum block
// period in milliseconds; the slot duration is twice that.
func NewService(state BabeState, system System, minimumPeriod uint64) (*Service, error) {
	if state == nil {
		return nil, errNilState
	}
	if system == nil {
		return nil, errNilSystem
	}
	if minimumPeriod == 0 {
		return nil, errZeroMinimumPeriod
	}

	return &Service{
		state:         state,
		system:        system,
		minimumPeriod: minimumPeriod,
	}, nil
}

// SlotDuration returns the slot duration in milliseconds. Slots last twice
// the minimum block period so that an honest author whose clock drifts by up
// to half a slot still lands in the right one.
func (s *Service) SlotDuration() uint64 {
	return s.minimumPeriod * 2
}

// Randomness returns the current epoch randomness. It is public knowledge
// the moment the contributing VRF outputs are on chain, and a slot leader
// can bias it by withholding blocks; do not use it where an unbiasable
// source is required.
func (s *Service) Randomness() (types.Randomness, error) {
	return s.state.Randomness()
}

// OnInitialize processes the header digest of a block entering execution.
// The digest must carry exactly one BABE pre-runtime item and it must decode;
// its VRF output is folded into the epoch randomness. State is untouched on
// any failure.
func (s *Service) OnInitialize(digest types.Digest) error {
	var preDigest *types.BabePreDigest

	for _, d := range digest.Types {
		val, err := d.Value()
		if err != nil {
			return fmt.Errorf("reading digest item: %w", err)
		}

		prd, ok := val.(types.PreRuntimeDigest)
		if !ok || prd.ConsensusEngineID != types.BabeEngineID {
			continue
		}

		if preDigest != nil {
			return ErrMultiplePreRuntimeDigests
		}

		preDigest, err = types.DecodeBabePreDigest(prd.Data)
		if err != nil {
			return err
		}
	}

	if preDigest == nil {
		return ErrNoPreRuntimeDigest
	}

	current, err := s.state.Randomness()
	if err != nil {
		return fmt.Errorf("reading randomness: %w", err)
	}

	next := accumulateRandomness(current, preDigest.VRFOutput)

	err = s.state.SetRandomness(next)
	if err != nil {
		return fmt.Errorf("writing randomness: %w", err)
	}

	err = s.state.AppendVRFOutput(preDigest.VRFOutput)
	if err != nil {
		return fmt.Errorf("journaling vrf output: %w", err)
	}

	logger.Debug("processed pre-runtime digest", "slot", preDigest.SlotNumber,
		"authority", preDigest.AuthorityIndex, "randomness", fmt.Sprintf("0x%x", next))
	return nil
}

// accumulateRandomness folds a VRF output into the epoch randomness:
// next = blake2b_256(current || output)
func accumulateRandomness(current types.Randomness,
	output [sr25519.VRFOutputLength]byte) (next types.Randomness) {
	buf := make([]byte, 0, types.RandomnessLength+sr25519.VRFOutputLength)
	buf = append(buf, current[:]...)
	buf = append(buf, output[:]...)
	return types.Randomness(common.MustBlake2bHash(buf))
}

// CheckInherent verifies that the given timestamp lands in the slot the block
// author claimed via the babeslot inherent
func (s *Service) CheckInherent(data *types.InherentData, timestamp uint64) error {
	claimed, err := data.GetInherentUint64(types.Babeslot)
	if err != nil {
		return fmt.Errorf("reading babeslot inherent: %w", err)
	}

	timestampSlot := timestamp / s.SlotDuration()
	if claimed != timestampSlot {
		return fmt.Errorf("%w: claimed slot %d, timestamp slot %d",
			ErrInvalidSlot, claimed, timestampSlot)
	}

	return nil
}

// NoteTimestamp records the timestamp accepted in this block. Timestamps
// must advance by at least the minimum period between blocks.
func (s *Service) NoteTimestamp(timestamp uint64) error {
	last, err := s.state.LastTimestamp()
	if err != nil {
		return fmt.Errorf("reading last timestamp: %w", err)
	}

	if last != 0 && timestamp < last+s.minimumPeriod {
		return fmt.Errorf("%w: %d < %d + minimum period %d",
			errTimestampTooEarly, timestamp, last, s.minimumPeriod)
	}

	return s.state.SetLastTimestamp(timestamp)
}

// CurrentSlot returns the slot the given timestamp (milliseconds) falls in
func (s *Service) CurrentSlot(timestamp uint64) uint64 {
	return timestamp / s.SlotDuration()
}

// OnNewSession rotates the authority set. BABE authority changes are
// instantaneous: the new list is active from the next block and the change is
// announced in a BABE-tagged consensus log.
func (s *Service) OnNewSession(changed bool, validators []types.AuthorityRaw) error {
	if !changed {
		return nil
	}

	err := s.state.SetAuthorities(validators)
	if err != nil {
		return fmt.Errorf("writing authorities: %w", err)
	}

	digest := types.NewBabeConsensusDigest()
	err = digest.Set(types.BabeNextAuthorities{Auths: validators})
	if err != nil {
		return fmt.Errorf("setting consensus digest: %w", err)
	}

	enc, err := scale.Marshal(digest)
	if err != nil {
		return fmt.Errorf("encoding consensus digest: %w", err)
	}

	err = s.system.DepositLog(types.ConsensusDigest{
		ConsensusEngineID: types.BabeEngineID,
		Data:              enc,
	})
	if err != nil {
		return fmt.Errorf("depositing consensus log: %w", err)
	}

	logger.Info("rotated authority set", "count", len(validators))
	return nil
}

// ClaimSlot attempts to claim the slot with the given keypair. On success it
// returns the pre-digest to embed in the block header; if the VRF output is
// over the threshold it returns ErrNotAuthorized.
func (s *Service) ClaimSlot(slot, epoch uint64, threshold *scale.Uint128,
	keypair *sr25519.Keypair, authorityIndex uint32) (*types.BabePreDigest, error) {
	randomness, err := s.state.Randomness()
	if err != nil {
		return nil, fmt.Errorf("reading randomness: %w", err)
	}

	proof, err := claimPrimarySlot(randomness, slot, epoch, threshold, keypair)
	if err != nil {
		return nil, err
	}

	logger.Trace("claimed slot", "slot", slot, "authority", authorityIndex)
	return types.NewBabePreDigest(proof.Output, proof.Proof, authorityIndex, slot), nil
}

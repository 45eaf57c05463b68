// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"fmt"
	"math"

	"github.com/0xbuidlman/substrate/dot/types"
	"github.com/0xbuidlman/substrate/lib/crypto/ed25519"
	"github.com/0xbuidlman/substrate/lib/transaction"
)

// equivocationReportPriority orders accepted reports ahead of ordinary
// transactions but below inherents
const equivocationReportPriority uint64 = 10

// EquivocationProof is evidence that a voter signed two distinct votes in
// the same round, stage and authority set
type EquivocationProof struct {
	SetID    uint64
	Round    uint64
	Stage    Subround
	Offender ed25519.PublicKeyBytes
	First    types.GrandpaSignedVote
	Second   types.GrandpaSignedVote
}

func (p *EquivocationProof) String() string {
	return fmt.Sprintf("EquivocationProof setID=%d round=%d stage=%s offender=%s",
		p.SetID, p.Round, p.Stage, p.Offender)
}

// ValidateUnsigned verifies an equivocation report submitted as an unsigned
// transaction. Both votes must carry a valid signature from the offender
// over the stage-qualified payload, and the two votes must differ. A valid
// report is marked high-priority, non-expiring and propagatable.
func ValidateUnsigned(proof *EquivocationProof) (*transaction.Validity, error) {
	if proof.Stage != Prevote && proof.Stage != Precommit {
		return nil, fmt.Errorf("%w: %s", errInvalidStage, proof.Stage)
	}

	if proof.First.Vote == proof.Second.Vote {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEquivocationProof, errIdenticalVotes)
	}

	offender, err := ed25519.NewPublicKey(proof.Offender[:])
	if err != nil {
		return nil, fmt.Errorf("decoding offender key: %w", err)
	}

	for _, signed := range []types.GrandpaSignedVote{proof.First, proof.Second} {
		fv := FullVote{
			Stage: proof.Stage,
			Vote:  signed.Vote,
			Round: proof.Round,
			SetID: proof.SetID,
		}

		msg, err := fv.Encode()
		if err != nil {
			return nil, fmt.Errorf("encoding vote payload: %w", err)
		}

		ok, err := offender.Verify(msg, signed.Signature[:])
		if err != nil {
			return nil, fmt.Errorf("verifying signature: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidEquivocationProof, errInvalidSignature)
		}
	}

	logger.Debug("accepted equivocation report", "offender", proof.Offender,
		"round", proof.Round, "setID", proof.SetID)

	return &transaction.Validity{
		Priority:  equivocationReportPriority,
		Longevity: math.MaxUint64,
		Propagate: true,
	}, nil
}

// NewEquivocationProof assembles a proof from two signed votes by the same
// voter
func NewEquivocationProof(setID, round uint64, stage Subround,
	offender ed25519.PublicKeyBytes, first, second types.GrandpaSignedVote) *EquivocationProof {
	return &EquivocationProof{
		SetID:    setID,
		Round:    round,
		Stage:    stage,
		Offender: offender,
		First:    first,
		Second:   second,
	}
}

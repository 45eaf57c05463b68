// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"math"
	"testing"

	"github.com/0xbuidlman/substrate/dot/types"
	"github.com/0xbuidlman/substrate/lib/common"
	"github.com/0xbuidlman/substrate/lib/crypto/ed25519"
	"github.com/stretchr/testify/require"
)

func signTestVote(t *testing.T, kp *ed25519.Keypair, stage Subround,
	vote types.GrandpaVote, round, setID uint64) types.GrandpaSignedVote {
	t.Helper()

	fv := FullVote{
		Stage: stage,
		Vote:  vote,
		Round: round,
		SetID: setID,
	}

	msg, err := fv.Encode()
	require.NoError(t, err)

	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	pub := kp.Public().(*ed25519.PublicKey)
	return types.GrandpaSignedVote{
		Vote:        vote,
		Signature:   ed25519.NewSignatureBytes(sig),
		AuthorityID: pub.AsBytes(),
	}
}

func newTestEquivocationProof(t *testing.T, stage Subround) (*EquivocationProof, *ed25519.Keypair) {
	t.Helper()

	kp, err := ed25519.GenerateKeypair()
	require.NoError(t, err)

	const round, setID = uint64(1), uint64(0)
	first := signTestVote(t, kp, stage,
		types.GrandpaVote{Hash: common.Hash{0x0a}, Number: 10}, round, setID)
	second := signTestVote(t, kp, stage,
		types.GrandpaVote{Hash: common.Hash{0x0b}, Number: 10}, round, setID)

	offender := kp.Public().(*ed25519.PublicKey).AsBytes()
	return NewEquivocationProof(setID, round, stage, offender, first, second), kp
}

func TestValidateUnsigned_ValidReport(t *testing.T) {
	for _, stage := range []Subround{Prevote, Precommit} {
		proof, _ := newTestEquivocationProof(t, stage)

		validity, err := ValidateUnsigned(proof)
		require.NoError(t, err)
		require.Equal(t, uint64(10), validity.Priority)
		require.Equal(t, uint64(math.MaxUint64), validity.Longevity)
		require.True(t, validity.Propagate)
		require.Empty(t, validity.Requires)
		require.Empty(t, validity.Provides)
	}
}

func TestValidateUnsigned_IdenticalVotes(t *testing.T) {
	proof, _ := newTestEquivocationProof(t, Prevote)
	proof.Second = proof.First

	_, err := ValidateUnsigned(proof)
	require.ErrorIs(t, err, ErrInvalidEquivocationProof)
}

func TestValidateUnsigned_WrongSignature(t *testing.T) {
	proof, kp := newTestEquivocationProof(t, Prevote)

	// signature over a different round does not verify against the payload
	proof.Second = signTestVote(t, kp, Prevote, proof.Second.Vote, proof.Round+1, proof.SetID)
	proof.Second.Vote = types.GrandpaVote{Hash: common.Hash{0x0b}, Number: 10}

	_, err := ValidateUnsigned(proof)
	require.ErrorIs(t, err, ErrInvalidEquivocationProof)
}

func TestValidateUnsigned_ForeignSigner(t *testing.T) {
	proof, _ := newTestEquivocationProof(t, Prevote)

	other, err := ed25519.GenerateKeypair()
	require.NoError(t, err)

	// the second vote is signed by someone other than the offender
	proof.Second = signTestVote(t, other, Prevote, proof.Second.Vote, proof.Round, proof.SetID)

	_, err = ValidateUnsigned(proof)
	require.ErrorIs(t, err, ErrInvalidEquivocationProof)
}

func TestValidateUnsigned_InvalidStage(t *testing.T) {
	proof, _ := newTestEquivocationProof(t, PrimaryProposal)

	_, err := ValidateUnsigned(proof)
	require.ErrorIs(t, err, errInvalidStage)
}

// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package babe

import (
	"math/big"
	"testing"

	"github.com/0xbuidlman/substrate/dot/types"
	"github.com/0xbuidlman/substrate/lib/crypto/sr25519"
	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/stretchr/testify/require"
)

func maxThreshold(t *testing.T) *scale.Uint128 {
	t.Helper()
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	threshold, err := scale.NewUint128(max)
	require.NoError(t, err)
	return threshold
}

func zeroThreshold(t *testing.T) *scale.Uint128 {
	t.Helper()
	threshold, err := scale.NewUint128(big.NewInt(0))
	require.NoError(t, err)
	return threshold
}

func TestCalculateThreshold_InvalidConstants(t *testing.T) {
	_, err := CalculateThreshold(5, 4, 3)
	require.ErrorIs(t, err, errInvalidThresholdConstants)
}

func TestCalculateThreshold_ShrinksWithAuthorities(t *testing.T) {
	few, err := CalculateThreshold(1, 4, 2)
	require.NoError(t, err)

	many, err := CalculateThreshold(1, 4, 20)
	require.NoError(t, err)

	require.Equal(t, 1, few.Compare(many))
}

func TestClaimPrimarySlot_BelowThresholdVerifies(t *testing.T) {
	kp, err := sr25519.GenerateKeypair()
	require.NoError(t, err)

	randomness := types.Randomness{0x01}
	const slot, epoch = uint64(88), uint64(2)

	proof, err := claimPrimarySlot(randomness, slot, epoch, maxThreshold(t), kp)
	require.NoError(t, err)

	pub := kp.Public().(*sr25519.PublicKey)

	ok, err := checkPrimaryThreshold(randomness, slot, epoch, proof.Output, maxThreshold(t), pub)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = pub.VrfVerify(makeTranscript(randomness, slot, epoch), proof.Output, proof.Proof)
	require.NoError(t, err)
	require.True(t, ok)

	// verification binds the transcript: a different slot must fail
	ok, _ = pub.VrfVerify(makeTranscript(randomness, slot+1, epoch), proof.Output, proof.Proof)
	require.False(t, ok)
}

func TestClaimPrimarySlot_OverThreshold(t *testing.T) {
	kp, err := sr25519.GenerateKeypair()
	require.NoError(t, err)

	_, err = claimPrimarySlot(types.Randomness{}, 1, 0, zeroThreshold(t), kp)
	require.ErrorIs(t, err, ErrNotAuthorized)
}

// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"testing"

	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/stretchr/testify/require"
)

func testAuthorities() []GrandpaAuthoritiesRaw {
	return []GrandpaAuthoritiesRaw{
		{Key: [32]byte{1}, ID: 1},
		{Key: [32]byte{2}, ID: 2},
		{Key: [32]byte{3}, ID: 3},
	}
}

func TestStoredPendingChange_DecodeRoundTrip(t *testing.T) {
	forced := uint32(5)
	change := &StoredPendingChange{
		ScheduledAt:     27,
		Delay:           10,
		NextAuthorities: testAuthorities(),
		Forced:          &forced,
	}

	enc, err := scale.Marshal(*change)
	require.NoError(t, err)

	res, err := DecodeStoredPendingChange(enc)
	require.NoError(t, err)
	require.Equal(t, change, res)
}

func TestStoredPendingChange_DecodesFromLegacy(t *testing.T) {
	legacy := legacyPendingChange{
		ScheduledAt:     27,
		Delay:           10,
		NextAuthorities: testAuthorities(),
	}

	enc, err := scale.Marshal(legacy)
	require.NoError(t, err)

	res, err := DecodeStoredPendingChange(enc)
	require.NoError(t, err)
	require.Equal(t, legacy.ScheduledAt, res.ScheduledAt)
	require.Equal(t, legacy.Delay, res.Delay)
	require.Equal(t, legacy.NextAuthorities, res.NextAuthorities)
	require.Nil(t, res.Forced)
}

func TestStoredPendingChange_EffectiveNumber(t *testing.T) {
	change := &StoredPendingChange{ScheduledAt: 10, Delay: 5}
	require.Equal(t, uint32(15), change.EffectiveNumber())
}

func TestGrandpaAuthoritiesRawEqual(t *testing.T) {
	auths := testAuthorities()

	reordered := []GrandpaAuthoritiesRaw{auths[2], auths[0], auths[1]}
	require.True(t, GrandpaAuthoritiesRawEqual(auths, reordered))

	shorter := auths[:2]
	require.False(t, GrandpaAuthoritiesRawEqual(auths, shorter))

	different := testAuthorities()
	different[0].ID = 99
	require.False(t, GrandpaAuthoritiesRawEqual(auths, different))
}

func TestGrandpaConsensusDigest_RoundTrip(t *testing.T) {
	digest := NewGrandpaConsensusDigest()
	err := digest.Set(GrandpaScheduledChange{
		Auths: testAuthorities(),
		Delay: 3,
	})
	require.NoError(t, err)

	enc, err := scale.Marshal(digest)
	require.NoError(t, err)

	res := NewGrandpaConsensusDigest()
	err = scale.Unmarshal(enc, &res)
	require.NoError(t, err)

	val, err := res.Value()
	require.NoError(t, err)
	change, ok := val.(GrandpaScheduledChange)
	require.True(t, ok)
	require.Equal(t, uint32(3), change.Delay)
	require.Equal(t, testAuthorities(), change.Auths)
}

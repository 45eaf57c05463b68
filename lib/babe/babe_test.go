// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package babe

import (
	"testing"

	"github.com/0xbuidlman/substrate/dot/state"
	"github.com/0xbuidlman/substrate/dot/types"
	"github.com/0xbuidlman/substrate/lib/common"
	"github.com/0xbuidlman/substrate/lib/crypto/sr25519"
	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/stretchr/testify/require"
)

const testMinimumPeriod uint64 = 3000

type testSystem struct {
	logs   []scale.VaryingDataTypeValue
	events []any
}

func (s *testSystem) DepositLog(item scale.VaryingDataTypeValue) error {
	s.logs = append(s.logs, item)
	return nil
}

func (s *testSystem) DepositEvent(event any) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T) (*Service, *state.BabeState, *testSystem) {
	t.Helper()

	babeState := state.NewBabeState(state.NewInMemoryDB(t))
	sys := new(testSystem)

	srv, err := NewService(babeState, sys, testMinimumPeriod)
	require.NoError(t, err)
	return srv, babeState, sys
}

func newTestPreRuntimeDigest(t *testing.T, slot uint64) (types.PreRuntimeDigest, *types.BabePreDigest) {
	t.Helper()

	kp, err := sr25519.GenerateKeypair()
	require.NoError(t, err)

	out, proof, err := kp.VrfSign(makeTranscript(types.Randomness{}, slot, 0))
	require.NoError(t, err)

	preDigest := types.NewBabePreDigest(out, proof, 0, slot)
	prd, err := preDigest.ToPreRuntimeDigest()
	require.NoError(t, err)
	return *prd, preDigest
}

func TestNewService(t *testing.T) {
	babeState := state.NewBabeState(state.NewInMemoryDB(t))
	sys := new(testSystem)

	_, err := NewService(nil, sys, testMinimumPeriod)
	require.ErrorIs(t, err, errNilState)

	_, err = NewService(babeState, nil, testMinimumPeriod)
	require.ErrorIs(t, err, errNilSystem)

	// a zero period would make the slot arithmetic divide by zero
	_, err = NewService(babeState, sys, 0)
	require.ErrorIs(t, err, errZeroMinimumPeriod)

	srv, err := NewService(babeState, sys, testMinimumPeriod)
	require.NoError(t, err)
	require.NotNil(t, srv)
}

func TestService_OnInitialize(t *testing.T) {
	srv, babeState, _ := newTestService(t)

	prd, preDigest := newTestPreRuntimeDigest(t, 7)
	digest := types.NewDigest()
	require.NoError(t, digest.Add(prd))

	err := srv.OnInitialize(digest)
	require.NoError(t, err)

	buf := append([]byte{}, make([]byte, types.RandomnessLength)...)
	buf = append(buf, preDigest.VRFOutput[:]...)
	expected := types.Randomness(common.MustBlake2bHash(buf))

	randomness, err := babeState.Randomness()
	require.NoError(t, err)
	require.Equal(t, expected, randomness)

	outputs, err := babeState.VRFOutputs()
	require.NoError(t, err)
	require.Equal(t, [][32]byte{preDigest.VRFOutput}, outputs)
}

func TestService_OnInitialize_AccumulatesAcrossBlocks(t *testing.T) {
	srv, babeState, _ := newTestService(t)

	var current types.Randomness
	for slot := uint64(1); slot <= 3; slot++ {
		prd, preDigest := newTestPreRuntimeDigest(t, slot)
		digest := types.NewDigest()
		require.NoError(t, digest.Add(prd))
		require.NoError(t, srv.OnInitialize(digest))

		current = accumulateRandomness(current, preDigest.VRFOutput)
	}

	randomness, err := babeState.Randomness()
	require.NoError(t, err)
	require.Equal(t, current, randomness)

	outputs, err := babeState.VRFOutputs()
	require.NoError(t, err)
	require.Len(t, outputs, 3)
}

func TestService_OnInitialize_NoPreDigest(t *testing.T) {
	srv, babeState, _ := newTestService(t)

	err := srv.OnInitialize(types.NewDigest())
	require.ErrorIs(t, err, ErrNoPreRuntimeDigest)

	randomness, err := babeState.Randomness()
	require.NoError(t, err)
	require.Equal(t, types.Randomness{}, randomness)
}

func TestService_OnInitialize_MultiplePreDigests(t *testing.T) {
	srv, babeState, _ := newTestService(t)

	first, _ := newTestPreRuntimeDigest(t, 1)
	second, _ := newTestPreRuntimeDigest(t, 2)
	digest := types.NewDigest()
	require.NoError(t, digest.Add(first, second))

	err := srv.OnInitialize(digest)
	require.ErrorIs(t, err, ErrMultiplePreRuntimeDigests)

	randomness, err := babeState.Randomness()
	require.NoError(t, err)
	require.Equal(t, types.Randomness{}, randomness)
}

func TestService_OnInitialize_UndecodablePreDigest(t *testing.T) {
	srv, babeState, _ := newTestService(t)

	digest := types.NewDigest()
	require.NoError(t, digest.Add(*types.NewBABEPreRuntimeDigest([]byte{0x01, 0x02})))

	err := srv.OnInitialize(digest)
	require.Error(t, err)

	randomness, err := babeState.Randomness()
	require.NoError(t, err)
	require.Equal(t, types.Randomness{}, randomness)
}

func TestService_OnInitialize_IgnoresOtherEngines(t *testing.T) {
	srv, _, _ := newTestService(t)

	prd, _ := newTestPreRuntimeDigest(t, 1)
	other := types.PreRuntimeDigest{
		ConsensusEngineID: types.GrandpaEngineID,
		Data:              []byte{0xde, 0xad},
	}

	digest := types.NewDigest()
	require.NoError(t, digest.Add(other, prd))

	err := srv.OnInitialize(digest)
	require.NoError(t, err)
}

func TestService_CheckInherent(t *testing.T) {
	srv, _, _ := newTestService(t)
	require.Equal(t, uint64(6000), srv.SlotDuration())

	timestamp := uint64(12_000_000)
	slot := timestamp / srv.SlotDuration()

	data := types.NewInherentData()
	require.NoError(t, data.SetInherent(types.Timstap0, timestamp))
	require.NoError(t, data.SetInherent(types.Babeslot, slot))

	require.NoError(t, srv.CheckInherent(data, timestamp))

	// a timestamp from the next slot no longer matches
	err := srv.CheckInherent(data, timestamp+srv.SlotDuration())
	require.ErrorIs(t, err, ErrInvalidSlot)
}

func TestService_CheckInherent_MissingSlot(t *testing.T) {
	srv, _, _ := newTestService(t)

	data := types.NewInherentData()
	require.NoError(t, data.SetInherent(types.Timstap0, uint64(1000)))

	err := srv.CheckInherent(data, 1000)
	require.ErrorIs(t, err, types.ErrInherentNotFound)
}

func TestService_NoteTimestamp(t *testing.T) {
	srv, _, _ := newTestService(t)

	require.NoError(t, srv.NoteTimestamp(10_000))

	// must advance by at least the minimum period
	err := srv.NoteTimestamp(10_000 + testMinimumPeriod - 1)
	require.ErrorIs(t, err, errTimestampTooEarly)

	require.NoError(t, srv.NoteTimestamp(10_000+testMinimumPeriod))
}

func TestService_OnNewSession(t *testing.T) {
	srv, babeState, sys := newTestService(t)

	validators := []types.AuthorityRaw{
		{Key: [32]byte{1}, Weight: 1},
		{Key: [32]byte{2}, Weight: 1},
	}

	require.NoError(t, srv.OnNewSession(false, validators))
	require.Empty(t, sys.logs)

	require.NoError(t, srv.OnNewSession(true, validators))

	auths, err := babeState.Authorities()
	require.NoError(t, err)
	require.Equal(t, validators, auths)

	require.Len(t, sys.logs, 1)
	consensus, ok := sys.logs[0].(types.ConsensusDigest)
	require.True(t, ok)
	require.Equal(t, types.BabeEngineID, consensus.ConsensusEngineID)

	decoded := types.NewBabeConsensusDigest()
	require.NoError(t, scale.Unmarshal(consensus.Data, &decoded))

	val, err := decoded.Value()
	require.NoError(t, err)
	next, ok := val.(types.BabeNextAuthorities)
	require.True(t, ok)
	require.Equal(t, validators, next.Auths)
}

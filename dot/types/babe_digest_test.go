// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"testing"

	"github.com/0xbuidlman/substrate/lib/crypto/sr25519"
	"github.com/gtank/merlin"
	"github.com/stretchr/testify/require"
)

func newTestVRFOutputAndProof(t *testing.T) (out [sr25519.VRFOutputLength]byte,
	proof [sr25519.VRFProofLength]byte) {
	t.Helper()

	kp, err := sr25519.GenerateKeypair()
	require.NoError(t, err)

	transcript := merlin.NewTranscript("vrf-test")
	out, proof, err = kp.VrfSign(transcript)
	require.NoError(t, err)
	return out, proof
}

func TestBabePreDigest_EncodeAndDecode(t *testing.T) {
	out, proof := newTestVRFOutputAndProof(t)

	digest := NewBabePreDigest(out, proof, 17, 420)
	enc, err := digest.Encode()
	require.NoError(t, err)
	// 32 + 64 + 4 + 8, no length prefixes
	require.Equal(t, 108, len(enc))

	res, err := DecodeBabePreDigest(enc)
	require.NoError(t, err)
	require.Equal(t, digest, res)
}

func TestDecodeBabePreDigest_BadVRFOutput(t *testing.T) {
	out, proof := newTestVRFOutputAndProof(t)

	digest := NewBabePreDigest(out, proof, 0, 1)
	enc, err := digest.Encode()
	require.NoError(t, err)

	// a field element of all 0xff is not canonical
	for i := 0; i < sr25519.VRFOutputLength; i++ {
		enc[i] = 0xff
	}

	_, err = DecodeBabePreDigest(enc)
	require.Error(t, err)
}

func TestDecodeBabePreDigest_BadVRFProof(t *testing.T) {
	out, proof := newTestVRFOutputAndProof(t)

	digest := NewBabePreDigest(out, proof, 0, 1)
	enc, err := digest.Encode()
	require.NoError(t, err)

	for i := sr25519.VRFOutputLength; i < sr25519.VRFOutputLength+sr25519.VRFProofLength; i++ {
		enc[i] = 0xff
	}

	_, err = DecodeBabePreDigest(enc)
	require.Error(t, err)
}

func TestDecodeBabePreDigest_WrongLength(t *testing.T) {
	out, proof := newTestVRFOutputAndProof(t)

	digest := NewBabePreDigest(out, proof, 7, 0x1122334455667788)
	enc, err := digest.Encode()
	require.NoError(t, err)

	// dropping the last byte must fail, not decode a shifted slot number
	_, err = DecodeBabePreDigest(enc[:len(enc)-1])
	require.Error(t, err)

	_, err = DecodeBabePreDigest(append(enc, 0x00))
	require.Error(t, err)

	_, err = DecodeBabePreDigest(nil)
	require.Error(t, err)
}

func TestBabePreDigest_ToPreRuntimeDigest(t *testing.T) {
	out, proof := newTestVRFOutputAndProof(t)

	digest := NewBabePreDigest(out, proof, 1, 2)
	prd, err := digest.ToPreRuntimeDigest()
	require.NoError(t, err)
	require.Equal(t, BabeEngineID, prd.ConsensusEngineID)

	res, err := DecodeBabePreDigest(prd.Data)
	require.NoError(t, err)
	require.Equal(t, digest, res)
}

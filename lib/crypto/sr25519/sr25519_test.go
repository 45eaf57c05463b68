// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package sr25519

import (
	"testing"

	bip39 "github.com/cosmos/go-bip39"
	"github.com/gtank/merlin"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	msg := []byte("helloworld")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	pub := kp.Public().(*PublicKey)
	ok, err := pub.Verify(msg, sig)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = pub.Verify([]byte("other"), sig)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPublicKeys(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	priv := kp.Private().(*PrivateKey)
	kp2, err := NewKeypair(priv.key)
	require.NoError(t, err)
	require.Equal(t, kp.Public(), kp2.Public())
}

func TestEncodeAndDecodePublicKey(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	enc := kp.Public().Encode()
	res := new(PublicKey)
	err = res.Decode(enc)
	require.NoError(t, err)
	require.Equal(t, kp.Public().Hex(), res.Hex())
}

func TestNewKeypairFromSeed(t *testing.T) {
	seed := make([]byte, SeedLength)
	seed[0] = 1

	kp, err := NewKeypairFromSeed(seed)
	require.NoError(t, err)

	kp2, err := NewKeypairFromSeed(seed)
	require.NoError(t, err)
	require.Equal(t, kp.Public().Encode(), kp2.Public().Encode())

	_, err = NewKeypairFromSeed([]byte{0x01})
	require.Error(t, err)
}

func TestNewKeypairFromMnenomic(t *testing.T) {
	entropy, err := bip39.NewEntropy(128)
	require.NoError(t, err)

	mnemonic, err := bip39.NewMnemonic(entropy)
	require.NoError(t, err)

	kp, err := NewKeypairFromMnenomic(mnemonic, "")
	require.NoError(t, err)

	kp2, err := NewKeypairFromMnenomic(mnemonic, "")
	require.NoError(t, err)
	require.Equal(t, kp.Public().Encode(), kp2.Public().Encode())

	_, err = NewKeypairFromMnenomic("not a mnemonic", "")
	require.Error(t, err)
}

func TestNewPublicKey_InvalidPoint(t *testing.T) {
	in := make([]byte, PublicKeyLength)
	for i := range in {
		in[i] = 0xff
	}

	_, err := NewPublicKey(in)
	require.Error(t, err)
}

func TestVrfSignAndVerify(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	transcript := merlin.NewTranscript("vrf-test")
	out, proof, err := kp.VrfSign(transcript)
	require.NoError(t, err)

	pub := kp.Public().(*PublicKey)
	verifyTranscript := merlin.NewTranscript("vrf-test")
	ok, err := pub.VrfVerify(verifyTranscript, out, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package babe

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/0xbuidlman/substrate/dot/types"
	"github.com/0xbuidlman/substrate/lib/crypto"
	"github.com/0xbuidlman/substrate/lib/crypto/sr25519"
	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/gtank/merlin"
)

var vrfInOutLabel = []byte("substrate-babe-vrf")

// makeTranscript creates a transcript for the BABE slot-leadership VRF
func makeTranscript(randomness types.Randomness, slot, epoch uint64) *merlin.Transcript {
	t := merlin.NewTranscript("BABE")
	crypto.AppendUint64(t, []byte("slot number"), slot)
	crypto.AppendUint64(t, []byte("current epoch"), epoch)
	t.AppendMessage([]byte("chain randomness"), randomness[:])
	return t
}

// VrfOutputAndProof is a VRF output and proof produced by a successful slot claim
type VrfOutputAndProof struct {
	Output [sr25519.VRFOutputLength]byte
	Proof  [sr25519.VRFProofLength]byte
}

// claimPrimarySlot checks if a slot can be claimed by the keypair. If it can,
// the VRF output and proof are returned; otherwise ErrNotAuthorized.
func claimPrimarySlot(randomness types.Randomness,
	slot, epoch uint64,
	threshold *scale.Uint128,
	keypair *sr25519.Keypair,
) (*VrfOutputAndProof, error) {
	transcript := makeTranscript(randomness, slot, epoch)

	out, proof, err := keypair.VrfSign(transcript)
	if err != nil {
		return nil, fmt.Errorf("vrf sign: %w", err)
	}

	pub, ok := keypair.Public().(*sr25519.PublicKey)
	if !ok {
		return nil, errors.New("keypair public key is not sr25519")
	}

	ok, err = checkPrimaryThreshold(randomness, slot, epoch, out, threshold, pub)
	if err != nil {
		return nil, fmt.Errorf("check threshold: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: slot %d", ErrNotAuthorized, slot)
	}

	return &VrfOutputAndProof{
		Output: out,
		Proof:  proof,
	}, nil
}

// checkPrimaryThreshold returns true if the authority was authorized to produce a
// block in the given slot
func checkPrimaryThreshold(randomness types.Randomness,
	slot, epoch uint64,
	output [sr25519.VRFOutputLength]byte,
	threshold *scale.Uint128,
	pub *sr25519.PublicKey,
) (bool, error) {
	t := makeTranscript(randomness, slot, epoch)
	inout, err := sr25519.AttachInput(output, pub, t)
	if err != nil {
		return false, fmt.Errorf("attaching vrf input: %w", err)
	}

	res, err := inout.MakeBytes(16, vrfInOutLabel)
	if err != nil {
		return false, fmt.Errorf("making vrf bytes: %w", err)
	}

	inoutUint, err := scale.NewUint128(res)
	if err != nil {
		return false, fmt.Errorf("reading vrf bytes: %w", err)
	}

	logger.Trace("checkPrimaryThreshold", "inout", fmt.Sprintf("0x%x", res),
		"threshold", threshold.String())
	return inoutUint.Compare(threshold) < 0, nil
}

// CalculateThreshold returns the slot-leadership threshold
// equation: threshold = 2^128 * (1 - (1-c)^(1/numAuths))
// where c = C1/C2
func CalculateThreshold(C1, C2 uint64, numAuths int) (*scale.Uint128, error) {
	c := float64(C1) / float64(C2)
	if c > 1 {
		return nil, errInvalidThresholdConstants
	}

	// 1 - (1-c)^(1/numAuths)
	pp := 1 - c
	ppExp := math.Pow(pp, 1/float64(numAuths))
	p := 1 - ppExp
	pRat := new(big.Rat).SetFloat64(p)

	// 1 << 128
	shift := new(big.Int).Lsh(big.NewInt(1), 128)
	numer := new(big.Int).Mul(shift, pRat.Num())
	theta := new(big.Int).Div(numer, pRat.Denom())

	return scale.NewUint128(theta)
}

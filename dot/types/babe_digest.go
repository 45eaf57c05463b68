// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"

	"github.com/0xbuidlman/substrate/lib/crypto/sr25519"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// RandomnessLength is the length of the epoch randomness in bytes
const RandomnessLength = 32

// Randomness is the epoch randomness used to seed the slot-leadership VRF
type Randomness [RandomnessLength]byte

// BabePreDigest is the slot leadership claim a block author embeds in the
// header of every block. The encoding is a fixed-layout concatenation of
// the VRF output, the VRF proof, the author index and the slot number;
// there are no length prefixes and no optional fields.
type BabePreDigest struct {
	VRFOutput      [sr25519.VRFOutputLength]byte
	VRFProof       [sr25519.VRFProofLength]byte
	AuthorityIndex uint32
	SlotNumber     uint64
}

// NewBabePreDigest returns a new BabePreDigest
func NewBabePreDigest(vrfOutput [sr25519.VRFOutputLength]byte, vrfProof [sr25519.VRFProofLength]byte,
	authorityIndex uint32, slotNumber uint64) *BabePreDigest {
	return &BabePreDigest{
		VRFOutput:      vrfOutput,
		VRFProof:       vrfProof,
		AuthorityIndex: authorityIndex,
		SlotNumber:     slotNumber,
	}
}

func (d BabePreDigest) String() string {
	return fmt.Sprintf("BabePreDigest SlotNumber=%d AuthorityIndex=%d VRFOutput=0x%x VRFProof=0x%x",
		d.SlotNumber, d.AuthorityIndex, d.VRFOutput, d.VRFProof)
}

// Encode returns the SCALE encoding of the pre-digest
func (d *BabePreDigest) Encode() ([]byte, error) {
	return scale.Marshal(*d)
}

// ToPreRuntimeDigest returns the BabePreDigest wrapped in a BABE-tagged PreRuntimeDigest
func (d *BabePreDigest) ToPreRuntimeDigest() (*PreRuntimeDigest, error) {
	enc, err := d.Encode()
	if err != nil {
		return nil, err
	}
	return NewBABEPreRuntimeDigest(enc), nil
}

// babePreDigestLength is the exact encoded size of a pre-digest: the VRF
// output, the VRF proof, the author index and the slot number
const babePreDigestLength = sr25519.VRFOutputLength + sr25519.VRFProofLength + 4 + 8

// DecodeBabePreDigest decodes the input into a BabePreDigest. The input must
// be exactly the fixed encoded length and the VRF output and proof bytes are
// checked to be well-formed curve elements; the author index and slot number
// are read as plain fixed-width integers with no range validation.
func DecodeBabePreDigest(in []byte) (*BabePreDigest, error) {
	if len(in) != babePreDigestLength {
		return nil, fmt.Errorf("cannot decode BABE pre-runtime digest: expected %d bytes, got %d",
			babePreDigestLength, len(in))
	}

	var digest BabePreDigest
	err := scale.Unmarshal(in, &digest)
	if err != nil {
		return nil, fmt.Errorf("cannot decode BABE pre-runtime digest: %w", err)
	}

	if _, err = sr25519.NewVRFOutput(digest.VRFOutput); err != nil {
		return nil, fmt.Errorf("cannot decode BABE pre-runtime digest: %w", err)
	}

	if _, err = sr25519.NewVRFProof(digest.VRFProof); err != nil {
		return nil, fmt.Errorf("cannot decode BABE pre-runtime digest: %w", err)
	}

	return &digest, nil
}

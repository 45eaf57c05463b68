// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package sr25519

import (
	"errors"
	"fmt"

	"github.com/0xbuidlman/substrate/lib/common"
	"github.com/0xbuidlman/substrate/lib/crypto"

	"github.com/ChainSafe/go-schnorrkel"
	"github.com/gtank/merlin"
)

// PublicKeyLength is the fixed Public Key Length
const PublicKeyLength int = 32

// SeedLength is the fixed Seed Length
const SeedLength int = 32

// PrivateKeyLength is the fixed Private Key Length
const PrivateKeyLength int = 32

// SignatureLength is the fixed Signature Length
const SignatureLength int = 64

// VRFOutputLength is the fixed VRF Output Length
const VRFOutputLength int = 32

// VRFProofLength is the fixed VRF Proof Length
const VRFProofLength int = 64

// SigningContext is the context used to sign and verify non-VRF messages
var SigningContext = []byte("substrate")

// Keypair is a sr25519 public-private keypair
type Keypair struct {
	public  *PublicKey
	private *PrivateKey
}

// PublicKey holds reference to a schnorrkel.PublicKey
type PublicKey struct {
	key *schnorrkel.PublicKey
}

// PrivateKey holds reference to a schnorrkel.SecretKey
type PrivateKey struct {
	key *schnorrkel.SecretKey
}

// NewKeypair returns a sr25519 Keypair given a schnorrkel secret key
func NewKeypair(priv *schnorrkel.SecretKey) (*Keypair, error) {
	pub, err := priv.Public()
	if err != nil {
		return nil, err
	}

	return &Keypair{
		public:  &PublicKey{key: pub},
		private: &PrivateKey{key: priv},
	}, nil
}

// NewKeypairFromSeed returns a new sr25519 Keypair given a 32 byte seed
func NewKeypairFromSeed(keystr []byte) (*Keypair, error) {
	if len(keystr) != SeedLength {
		return nil, fmt.Errorf("cannot generate key from seed: seed is not %d bytes long", SeedLength)
	}

	buf := [SeedLength]byte{}
	copy(buf[:], keystr)
	msc, err := schnorrkel.NewMiniSecretKeyFromRaw(buf)
	if err != nil {
		return nil, err
	}

	priv := msc.ExpandEd25519()
	pub := msc.Public()
	return &Keypair{
		public:  &PublicKey{key: pub},
		private: &PrivateKey{key: priv},
	}, nil
}

// NewKeypairFromMnenomic returns a new Keypair using the given mnemonic and password
func NewKeypairFromMnenomic(mnemonic, password string) (*Keypair, error) {
	msc, err := schnorrkel.MiniSecretKeyFromMnemonic(mnemonic, password)
	if err != nil {
		return nil, err
	}

	priv := msc.ExpandEd25519()
	pub := msc.Public()
	return &Keypair{
		public:  &PublicKey{key: pub},
		private: &PrivateKey{key: priv},
	}, nil
}

// GenerateKeypair returns a new sr25519 keypair
func GenerateKeypair() (*Keypair, error) {
	priv, pub, err := schnorrkel.GenerateKeypair()
	if err != nil {
		return nil, err
	}

	return &Keypair{
		public:  &PublicKey{key: pub},
		private: &PrivateKey{key: priv},
	}, nil
}

// NewPublicKey returns a sr25519 PublicKey that consists of the 32 input bytes.
// It fails if the bytes are not a valid ristretto point.
func NewPublicKey(in []byte) (*PublicKey, error) {
	if len(in) != PublicKeyLength {
		return nil, errors.New("cannot create public key: input is not 32 bytes")
	}

	buf := [PublicKeyLength]byte{}
	copy(buf[:], in)

	key := new(schnorrkel.PublicKey)
	err := key.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("decoding public key: %w", err)
	}

	return &PublicKey{key: key}, nil
}

// NewVRFOutput decodes a schnorrkel VRF output from its 32 byte encoding.
// It fails if the bytes are not a valid ristretto point.
func NewVRFOutput(in [VRFOutputLength]byte) (*schnorrkel.VrfOutput, error) {
	output := new(schnorrkel.VrfOutput)
	err := output.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("decoding vrf output: %w", err)
	}

	return output, nil
}

// NewVRFProof decodes a schnorrkel VRF proof from its 64 byte encoding.
// It fails if either scalar is not canonical.
func NewVRFProof(in [VRFProofLength]byte) (*schnorrkel.VrfProof, error) {
	proof := new(schnorrkel.VrfProof)
	err := proof.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("decoding vrf proof: %w", err)
	}

	return proof, nil
}

// AttachInput wraps schnorrkel's AttachInput, returning the VrfInOut for the
// given output, public key and transcript
func AttachInput(output [VRFOutputLength]byte, pub *PublicKey, t *merlin.Transcript) (*schnorrkel.VrfInOut, error) {
	out, err := NewVRFOutput(output)
	if err != nil {
		return nil, err
	}

	inout, err := out.AttachInput(pub.key, t)
	if err != nil {
		return nil, err
	}

	return inout, nil
}

// Type returns Sr25519Type
func (kp *Keypair) Type() crypto.KeyType {
	return crypto.Sr25519Type
}

// Sign uses the keypair to sign the message using the sr25519 signature algorithm
func (kp *Keypair) Sign(msg []byte) ([]byte, error) {
	return kp.private.Sign(msg)
}

// Public returns the public key corresponding to this keypair
func (kp *Keypair) Public() crypto.PublicKey {
	return kp.public
}

// Private returns the private key corresponding to this keypair
func (kp *Keypair) Private() crypto.PrivateKey {
	return kp.private
}

// VrfSign creates a VRF output and proof from a transcript, used for slot leadership
func (kp *Keypair) VrfSign(t *merlin.Transcript) (
	out [VRFOutputLength]byte, proof [VRFProofLength]byte, err error) {
	inout, vrfproof, err := kp.private.key.VrfSign(t)
	if err != nil {
		return out, proof, err
	}

	return inout.Output().Encode(), vrfproof.Encode(), nil
}

// Sign uses the sr25519 signature algorithm to sign the message
func (k *PrivateKey) Sign(msg []byte) ([]byte, error) {
	if k.key == nil {
		return nil, errors.New("key is nil")
	}
	t := schnorrkel.NewSigningContext(SigningContext, msg)
	sig, err := k.key.Sign(t)
	if err != nil {
		return nil, err
	}
	enc := sig.Encode()
	return enc[:], nil
}

// Public returns the public key corresponding to the sr25519 private key
func (k *PrivateKey) Public() (crypto.PublicKey, error) {
	if k.key == nil {
		return nil, errors.New("key is nil")
	}
	pub, err := k.key.Public()
	if err != nil {
		return nil, err
	}
	return &PublicKey{key: pub}, nil
}

// Encode returns the 32-byte encoding of the private key
func (k *PrivateKey) Encode() []byte {
	if k.key == nil {
		return nil
	}
	enc := k.key.Encode()
	return enc[:]
}

// Decode decodes the input bytes into a sr25519 private key
func (k *PrivateKey) Decode(in []byte) error {
	if len(in) != PrivateKeyLength {
		return errors.New("input to sr25519 private key decode is not 32 bytes")
	}
	b := [PrivateKeyLength]byte{}
	copy(b[:], in)
	k.key = &schnorrkel.SecretKey{}
	return k.key.Decode(b)
}

// Hex returns the private key as a 0x prefixed hex string
func (k *PrivateKey) Hex() string {
	return common.BytesToHex(k.Encode())
}

// Verify uses the sr25519 signature algorithm to verify that the message was signed by
// this public key; it returns true if this key created the signature for the message,
// false otherwise
func (k *PublicKey) Verify(msg, sig []byte) (bool, error) {
	if k.key == nil {
		return false, errors.New("key is nil")
	}

	if len(sig) != SignatureLength {
		return false, errors.New("invalid signature length")
	}

	b := [SignatureLength]byte{}
	copy(b[:], sig)

	s := &schnorrkel.Signature{}
	err := s.Decode(b)
	if err != nil {
		return false, err
	}

	t := schnorrkel.NewSigningContext(SigningContext, msg)
	return k.key.Verify(s, t)
}

// VrfVerify confirms that the VRF output and proof were produced by this
// public key over the given transcript
func (k *PublicKey) VrfVerify(t *merlin.Transcript,
	out [VRFOutputLength]byte, proof [VRFProofLength]byte) (bool, error) {
	output, err := NewVRFOutput(out)
	if err != nil {
		return false, err
	}

	vrfproof, err := NewVRFProof(proof)
	if err != nil {
		return false, err
	}

	return k.key.VrfVerify(t, output, vrfproof)
}

// Encode returns the 32-byte encoding of the public key
func (k *PublicKey) Encode() []byte {
	if k.key == nil {
		return nil
	}

	enc := k.key.Encode()
	return enc[:]
}

// Decode decodes the input bytes into a sr25519 public key
func (k *PublicKey) Decode(in []byte) error {
	if len(in) != PublicKeyLength {
		return errors.New("input to sr25519 public key decode is not 32 bytes")
	}
	b := [PublicKeyLength]byte{}
	copy(b[:], in)
	k.key = &schnorrkel.PublicKey{}
	return k.key.Decode(b)
}

// AsBytes returns the public key as a [32]byte
func (k *PublicKey) AsBytes() [PublicKeyLength]byte {
	b := [PublicKeyLength]byte{}
	copy(b[:], k.Encode())
	return b
}

// Hex returns the public key as a 0x prefixed hex string
func (k *PublicKey) Hex() string {
	return common.BytesToHex(k.Encode())
}

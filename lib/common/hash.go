// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"encoding/hex"
	"fmt"
)

// HashLength is the expected length of a Hash in bytes
const HashLength = 32

// Hash is the blake2b-256 hash type used across the chain
type Hash [HashLength]byte

// NewHash casts a byte array to a Hash
// if the input is longer than 32 bytes, it takes the first 32 bytes
func NewHash(in []byte) (res Hash) {
	res = [32]byte{}
	copy(res[:], in)
	return res
}

// Bytes returns the byte slice of the hash
func (h Hash) Bytes() []byte {
	b := [32]byte(h)
	return b[:]
}

// IsEmpty returns true if the hash is the zero value
func (h Hash) IsEmpty() bool {
	return h == Hash{}
}

// String returns the hex string for the hash
func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

// Short returns the first 4 bytes and the last 4 bytes of the hex string for the hash
func (h Hash) Short() string {
	const nBytes = 4
	return fmt.Sprintf("0x%x...%x", h[:nBytes], h[len(h)-nBytes:])
}

// HexToHash turns a 0x prefixed hex string into type Hash
func HexToHash(in string) (Hash, error) {
	if len(in) < 2 || in[:2] != "0x" {
		return [32]byte{}, ErrNoPrefix
	}

	in = in[2:]
	out, err := hex.DecodeString(in)
	if err != nil {
		return [32]byte{}, err
	}

	if len(out) != 32 {
		return [32]byte{}, fmt.Errorf("%w: got %d bytes", ErrWrongHashLength, len(out))
	}

	var buf = [32]byte{}
	copy(buf[:], out)
	return buf, nil
}

// MustHexToHash turns a 0x prefixed hex string into type Hash.
// It panics if it cannot decode the string.
func MustHexToHash(in string) Hash {
	hash, err := HexToHash(in)
	if err != nil {
		panic(err)
	}

	return hash
}

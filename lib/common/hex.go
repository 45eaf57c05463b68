// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPrefix is returned when a hex string does not have a 0x prefix
	ErrNoPrefix = errors.New("could not byteify non 0x prefixed string")
	// ErrWrongHashLength is returned when a hex string does not decode to 32 bytes
	ErrWrongHashLength = errors.New("input is not 32 bytes")
)

// HexToBytes turns a 0x prefixed hex string into a byte slice
func HexToBytes(in string) ([]byte, error) {
	if len(in) < 2 {
		return nil, errors.New("invalid string")
	}

	if strings.Compare(in[:2], "0x") != 0 {
		return nil, ErrNoPrefix
	}

	if len(in)%2 != 0 {
		return nil, errors.New("cannot decode a odd length string")
	}

	in = in[2:]
	out, err := hex.DecodeString(in)
	return out, err
}

// MustHexToBytes turns a 0x prefixed hex string into a byte slice.
// It panics if it cannot decode the string.
func MustHexToBytes(in string) []byte {
	out, err := HexToBytes(in)
	if err != nil {
		panic(err)
	}

	return out
}

// BytesToHex turns a byte slice into a 0x prefixed hex string
func BytesToHex(in []byte) string {
	s := hex.EncodeToString(in)
	return fmt.Sprintf("0x%s", s)
}

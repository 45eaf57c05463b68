// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"

	"github.com/ChainSafe/gossamer/pkg/scale"
)

// InherentIdentifier is an 8-byte tag identifying an inherent datum
type InherentIdentifier [8]byte

var (
	// Timstap0 is the identifier for the timestamp inherent
	Timstap0 = InherentIdentifier{'t', 'i', 'm', 's', 't', 'a', 'p', '0'}
	// Babeslot is the identifier for the BABE slot inherent
	Babeslot = InherentIdentifier{'b', 'a', 'b', 'e', 's', 'l', 'o', 't'}
)

func (ii InherentIdentifier) String() string {
	return string(ii[:])
}

// InherentData contains the inherent data provided to a block author.
// Each identifier maps to the SCALE encoding of its datum.
type InherentData struct {
	Data map[InherentIdentifier][]byte
}

// NewInherentData returns InherentData
func NewInherentData() *InherentData {
	return &InherentData{
		Data: make(map[InherentIdentifier][]byte),
	}
}

func (d *InherentData) String() string {
	str := ""
	for k, v := range d.Data {
		str = str + fmt.Sprintf("key=%s\tvalue=0x%x\n", k, v)
	}
	return str
}

// SetInherent sets a inherent datum, replacing any existing datum under the
// same identifier
func (d *InherentData) SetInherent(inherentIdentifier InherentIdentifier, value any) error {
	data, err := scale.Marshal(value)
	if err != nil {
		return err
	}

	d.Data[inherentIdentifier] = data
	return nil
}

// GetInherentUint64 returns the inherent under the given identifier decoded as
// a uint64, or an error if it is absent or malformed
func (d *InherentData) GetInherentUint64(inherentIdentifier InherentIdentifier) (uint64, error) {
	enc, has := d.Data[inherentIdentifier]
	if !has {
		return 0, fmt.Errorf("%w: %s", ErrInherentNotFound, inherentIdentifier)
	}

	var value uint64
	err := scale.Unmarshal(enc, &value)
	if err != nil {
		return 0, fmt.Errorf("decoding inherent %s: %w", inherentIdentifier, err)
	}

	return value, nil
}

// ErrInherentNotFound is returned when the requested inherent is not present
var ErrInherentNotFound = fmt.Errorf("inherent not found")

// Encode will encode a given []byte using scale.Encode
func (d *InherentData) Encode() ([]byte, error) {
	length := big.NewInt(int64(len(d.Data)))

	keys := make([]InherentIdentifier, 0, len(d.Data))
	for key := range d.Data {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	buffer := bytes.Buffer{}

	l, err := scale.Marshal(length)
	if err != nil {
		return nil, err
	}

	_, err = buffer.Write(l)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		v := d.Data[key]

		_, err = buffer.Write(key[:])
		if err != nil {
			return nil, err
		}

		venc, err := scale.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("scale encoding encoded value: %w", err)
		}
		_, err = buffer.Write(venc)
		if err != nil {
			return nil, err
		}
	}

	return buffer.Bytes(), nil
}

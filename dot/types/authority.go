// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"

	"github.com/0xbuidlman/substrate/lib/crypto"
	"github.com/0xbuidlman/substrate/lib/crypto/sr25519"
)

// Authority is a BABE block-production authority: a public key plus a voting weight.
// Both fields are immutable once the authority is part of a set.
type Authority struct {
	Key    crypto.PublicKey
	Weight uint64
}

// NewAuthority returns an Authority with the given key and weight
func NewAuthority(pub crypto.PublicKey, weight uint64) *Authority {
	return &Authority{
		Key:    pub,
		Weight: weight,
	}
}

// ToRaw returns the Authority with its key in byte form
func (a *Authority) ToRaw() *AuthorityRaw {
	raw := new(AuthorityRaw)
	copy(raw.Key[:], a.Key.Encode())
	raw.Weight = a.Weight
	return raw
}

// FromRawSr25519 sets the Authority given an AuthorityRaw. It converts the byte
// representation of the authority public key into a sr25519.PublicKey.
func (a *Authority) FromRawSr25519(raw *AuthorityRaw) error {
	key, err := sr25519.NewPublicKey(raw.Key[:])
	if err != nil {
		return err
	}

	a.Key = key
	a.Weight = raw.Weight
	return nil
}

// AuthorityRaw is a BABE authority with the key as a byte array
type AuthorityRaw struct {
	Key    [sr25519.PublicKeyLength]byte
	Weight uint64
}

func (a AuthorityRaw) String() string {
	return fmt.Sprintf("[key=0x%x weight=%d]", a.Key, a.Weight)
}

// BABEAuthorityRawToAuthority turns a slice of AuthorityRaw into a slice of Authority
func BABEAuthorityRawToAuthority(adr []AuthorityRaw) ([]Authority, error) {
	ad := make([]Authority, len(adr))
	for i, r := range adr {
		r := r
		err := ad[i].FromRawSr25519(&r)
		if err != nil {
			return nil, err
		}
	}

	return ad, nil
}

// AuthoritiesToRaw turns a slice of Authority into a slice of AuthorityRaw
func AuthoritiesToRaw(auths []Authority) []AuthorityRaw {
	raw := make([]AuthorityRaw, len(auths))
	for i, auth := range auths {
		raw[i] = *auth.ToRaw()
	}
	return raw
}

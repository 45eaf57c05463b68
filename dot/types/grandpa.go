// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"
	"sort"

	"github.com/0xbuidlman/substrate/lib/common"
	"github.com/0xbuidlman/substrate/lib/crypto/ed25519"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// GrandpaAuthoritiesRaw represents a GRANDPA authority where their key is a byte array
type GrandpaAuthoritiesRaw struct {
	Key [ed25519.PublicKeyLength]byte
	ID  uint64
}

func (a GrandpaAuthoritiesRaw) String() string {
	return fmt.Sprintf("[key=0x%x id=%d]", a.Key, a.ID)
}

// GrandpaVoter represents a GRANDPA voter
type GrandpaVoter struct {
	Key ed25519.PublicKey
	ID  uint64
}

// PublicKeyBytes returns the voter key as PublicKeyBytes
func (gv *GrandpaVoter) PublicKeyBytes() ed25519.PublicKeyBytes {
	return gv.Key.AsBytes()
}

// String returns a formatted GrandpaVoter string
func (gv *GrandpaVoter) String() string {
	return fmt.Sprintf("[key=0x%s id=%d]", gv.PublicKeyBytes(), gv.ID)
}

// GrandpaVoters represents []GrandpaVoter
type GrandpaVoters []GrandpaVoter

// String returns a formatted Voters string
func (v GrandpaVoters) String() string {
	str := ""
	for _, w := range v {
		str = str + w.String() + " "
	}
	return str
}

// NewGrandpaVotersFromAuthoritiesRaw returns an array of GrandpaVoters given an array of GrandpaAuthoritiesRaw
func NewGrandpaVotersFromAuthoritiesRaw(ad []GrandpaAuthoritiesRaw) (GrandpaVoters, error) {
	v := make([]GrandpaVoter, len(ad))

	for i, d := range ad {
		key, err := ed25519.NewPublicKey(d.Key[:])
		if err != nil {
			return nil, err
		}

		v[i] = GrandpaVoter{
			Key: *key,
			ID:  d.ID,
		}
	}

	return v, nil
}

// GrandpaAuthoritiesRawEqual compares two authority lists ignoring order.
// Ordering matters for author-index lookups but not for deciding whether a
// session rotation actually changed the set.
func GrandpaAuthoritiesRawEqual(a, b []GrandpaAuthoritiesRaw) bool {
	if len(a) != len(b) {
		return false
	}

	sorted := func(in []GrandpaAuthoritiesRaw) []GrandpaAuthoritiesRaw {
		cp := make([]GrandpaAuthoritiesRaw, len(in))
		copy(cp, in)
		sort.Slice(cp, func(i, j int) bool {
			ki, kj := cp[i].Key, cp[j].Key
			for x := range ki {
				if ki[x] != kj[x] {
					return ki[x] < kj[x]
				}
			}
			return cp[i].ID < cp[j].ID
		})
		return cp
	}

	as, bs := sorted(a), sorted(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// StoredPendingChange is the persisted form of a scheduled authority set
// change. Forced is nil for standard changes. An earlier release persisted
// only the first three fields; DecodeStoredPendingChange still accepts that
// encoding.
type StoredPendingChange struct {
	ScheduledAt     uint32
	Delay           uint32
	NextAuthorities []GrandpaAuthoritiesRaw
	Forced          *uint32
}

// EffectiveNumber returns the block number at which the change takes effect
func (c *StoredPendingChange) EffectiveNumber() uint32 {
	return c.ScheduledAt + c.Delay
}

func (c *StoredPendingChange) String() string {
	forced := "none"
	if c.Forced != nil {
		forced = fmt.Sprintf("%d", *c.Forced)
	}
	return fmt.Sprintf("StoredPendingChange ScheduledAt=%d Delay=%d NextAuthorities=%v Forced=%s",
		c.ScheduledAt, c.Delay, c.NextAuthorities, forced)
}

type legacyPendingChange struct {
	ScheduledAt     uint32
	Delay           uint32
	NextAuthorities []GrandpaAuthoritiesRaw
}

// DecodeStoredPendingChange decodes a persisted pending change, falling back
// to the legacy three-field encoding when the Forced option byte is missing
func DecodeStoredPendingChange(in []byte) (*StoredPendingChange, error) {
	change := new(StoredPendingChange)
	err := scale.Unmarshal(in, change)
	if err == nil {
		return change, nil
	}

	var legacy legacyPendingChange
	if legacyErr := scale.Unmarshal(in, &legacy); legacyErr != nil {
		return nil, fmt.Errorf("decoding pending change: %w", err)
	}

	return &StoredPendingChange{
		ScheduledAt:     legacy.ScheduledAt,
		Delay:           legacy.Delay,
		NextAuthorities: legacy.NextAuthorities,
	}, nil
}

// GrandpaVote represents a vote for a block with the given hash and number
type GrandpaVote struct {
	Hash   common.Hash
	Number uint32
}

func (v GrandpaVote) String() string {
	return fmt.Sprintf("hash=%s number=%d", v.Hash, v.Number)
}

// GrandpaSignedVote is a vote plus the signature and identity of the voter
type GrandpaSignedVote struct {
	Vote        GrandpaVote
	Signature   ed25519.SignatureBytes
	AuthorityID ed25519.PublicKeyBytes
}

func (s *GrandpaSignedVote) String() string {
	return fmt.Sprintf("SignedVote %s authority=%s", s.Vote, s.AuthorityID)
}

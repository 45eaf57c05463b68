// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"fmt"

	"github.com/0xbuidlman/substrate/lib/common"
)

// Extrinsic is a generic transaction whose format is verified in the runtime
type Extrinsic []byte

// Hash returns the blake2b hash of the extrinsic
func (e Extrinsic) Hash() common.Hash {
	return common.MustBlake2bHash(e)
}

// Validity struct see: https://github.com/paritytech/substrate/blob/master/core/sr-primitives/src/transaction_validity.rs
type Validity struct {
	Priority  uint64
	Requires  [][]byte
	Provides  [][]byte
	Longevity uint64
	Propagate bool
}

// NewValidity returns Validity
func NewValidity(priority uint64, requires, provides [][]byte, longevity uint64, propagate bool) *Validity {
	return &Validity{
		Priority:  priority,
		Requires:  requires,
		Provides:  provides,
		Longevity: longevity,
		Propagate: propagate,
	}
}

func (v *Validity) String() string {
	return fmt.Sprintf("priority=%d longevity=%d propagate=%t", v.Priority, v.Longevity, v.Propagate)
}

// ValidTransaction is a transaction accepted into the pool along with its validity
type ValidTransaction struct {
	Extrinsic Extrinsic
	Validity  *Validity
}

// NewValidTransaction returns ValidTransaction
func NewValidTransaction(extrinsic Extrinsic, validity *Validity) *ValidTransaction {
	return &ValidTransaction{
		Extrinsic: extrinsic,
		Validity:  validity,
	}
}

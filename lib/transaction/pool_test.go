// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	p := NewPool()
	require.Equal(t, 0, p.Len())

	validity := NewValidity(10, nil, nil, 64, true)
	txA := NewValidTransaction(Extrinsic{0x01}, validity)
	txB := NewValidTransaction(Extrinsic{0x02}, validity)

	hashA := p.Insert(txA)
	hashB := p.Insert(txB)
	require.NotEqual(t, hashA, hashB)
	require.Equal(t, 2, p.Len())

	// reinserting the same extrinsic does not grow the pool
	p.Insert(txA)
	require.Equal(t, 2, p.Len())

	txs := p.Transactions()
	require.Len(t, txs, 2)

	p.Remove(hashA)
	require.Equal(t, 1, p.Len())

	p.Remove(hashA)
	require.Equal(t, 1, p.Len())
}

// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package babe

import (
	"errors"
)

var (
	// ErrNoPreRuntimeDigest is returned when a block carries no BABE pre-runtime digest
	ErrNoPreRuntimeDigest = errors.New("block has no BABE pre-runtime digest")

	// ErrMultiplePreRuntimeDigests is returned when a block carries more than one BABE pre-runtime digest
	ErrMultiplePreRuntimeDigests = errors.New("block has multiple BABE pre-runtime digests")

	// ErrInvalidSlot is returned when the timestamp inherent does not land in the claimed slot
	ErrInvalidSlot = errors.New("timestamp is outside the claimed slot")

	// ErrNotAuthorized is returned by slot claiming when the VRF output is over the threshold
	ErrNotAuthorized = errors.New("not authorized to produce block")

	// errInvalidThresholdConstants is returned when C1/C2 is not a valid probability
	errInvalidThresholdConstants = errors.New("invalid threshold constants: C1/C2 must be <= 1")

	errTimestampTooEarly = errors.New("timestamp did not advance by the minimum period")

	errNilState          = errors.New("state is nil")
	errNilSystem         = errors.New("system is nil")
	errZeroMinimumPeriod = errors.New("minimum period must be greater than zero")
)

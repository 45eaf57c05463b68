// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"errors"
)

var (
	// ErrChangeAlreadyPending is returned when a change is scheduled while another is pending
	ErrChangeAlreadyPending = errors.New("authority set change already pending")

	// ErrTooSoon is returned when a forced change is scheduled before the cooldown expires
	ErrTooSoon = errors.New("forced change scheduled too soon after the last one")

	// ErrInvalidEquivocationProof is returned when an equivocation proof fails verification
	ErrInvalidEquivocationProof = errors.New("invalid equivocation proof")

	errIdenticalVotes   = errors.New("first and second votes are identical")
	errInvalidStage     = errors.New("equivocation stage must be prevote or precommit")
	errInvalidSignature = errors.New("signature does not verify under the offender key")

	errNilState  = errors.New("state is nil")
	errNilSystem = errors.New("system is nil")
)

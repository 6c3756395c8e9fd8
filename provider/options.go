// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package provider

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/ava-labs/counterdapp/consts"
)

type Options struct {
	// Commitment is used for blockhashes, account reads, and as the level
	// SendAndConfirm waits for.
	Commitment          rpc.CommitmentType
	PreflightCommitment rpc.CommitmentType
	SkipPreflight       bool

	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

func DefaultOptions() Options {
	return Options{
		Commitment:          rpc.CommitmentProcessed,
		PreflightCommitment: rpc.CommitmentProcessed,
		ConfirmTimeout:      consts.DefaultConfirmTimeout,
		PollInterval:        consts.DefaultPollInterval,
	}
}

func (o Options) Verify() error {
	if _, ok := commitmentRank(o.Commitment); !ok {
		return fmt.Errorf("%w: unknown commitment %q", ErrInvalidOptions, o.Commitment)
	}
	if _, ok := commitmentRank(o.PreflightCommitment); !ok {
		return fmt.Errorf("%w: unknown preflight commitment %q", ErrInvalidOptions, o.PreflightCommitment)
	}
	if o.ConfirmTimeout <= 0 || o.PollInterval <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidOptions)
	}
	return nil
}

func commitmentRank(c rpc.CommitmentType) (int, bool) {
	switch c {
	case rpc.CommitmentProcessed:
		return 0, true
	case rpc.CommitmentConfirmed:
		return 1, true
	case rpc.CommitmentFinalized:
		return 2, true
	default:
		return 0, false
	}
}

func statusRank(s rpc.ConfirmationStatusType) int {
	switch s {
	case rpc.ConfirmationStatusProcessed:
		return 0
	case rpc.ConfirmationStatusConfirmed:
		return 1
	case rpc.ConfirmationStatusFinalized:
		return 2
	default:
		return -1
	}
}

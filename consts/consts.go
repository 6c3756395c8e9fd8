// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "time"

const (
	Name = "counter"

	// ProgramID is the address the counter program is deployed at.
	ProgramID = "RpXAja7ZvyqmCqS2k13hydLoumcZ76Mk4tHVAnhfDHD"

	// UpdateAmount is the value every front-end passes to update.
	UpdateAmount = 100

	DiscriminatorLen = 8
	Uint64Len        = 8
	PublicKeyLen     = 32
	SecretKeyLen     = 64

	// CounterAccountSize is the on-chain size of the counter account:
	// discriminator followed by a u64.
	CounterAccountSize = DiscriminatorLen + Uint64Len

	DefaultConfirmTimeout = 30 * time.Second
	DefaultPollInterval   = 250 * time.Millisecond
	DefaultHTTPTimeout    = 60 * time.Second

	MaxUint64 = ^uint64(0)
)

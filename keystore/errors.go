// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keystore

import "errors"

var (
	ErrDuplicate       = errors.New("duplicate")
	ErrNoKeys          = errors.New("no available keys")
	ErrNotFound        = errors.New("not found")
	ErrAuthFailed      = errors.New("keystore authentication failed")
	ErrInvalidEnvelope = errors.New("invalid key envelope")
	ErrClosed          = errors.New("keystore closed")
)

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wallet

import "errors"

var (
	ErrUnknownAdapter   = errors.New("unknown wallet adapter")
	ErrDuplicateAdapter = errors.New("duplicate wallet adapter")
	ErrInvalidKey       = errors.New("invalid private key")
	ErrInvalidMnemonic  = errors.New("invalid mnemonic")
	ErrEmptySecret      = errors.New("secret is empty")
)

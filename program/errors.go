// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import "errors"

var (
	ErrMissingProvider      = errors.New("missing provider")
	ErrUnknownInstruction   = errors.New("unknown instruction")
	ErrMissingAccount       = errors.New("missing account")
	ErrArgumentCount        = errors.New("wrong number of arguments")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountDiscriminator = errors.New("account discriminator mismatch")
	ErrAccountOwner         = errors.New("account not owned by program")
	ErrAccountSize          = errors.New("account data too short")
)

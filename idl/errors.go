// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package idl

import "errors"

var (
	ErrMissingName        = errors.New("missing name")
	ErrDuplicateName      = errors.New("duplicate name")
	ErrUnsupportedType    = errors.New("unsupported type")
	ErrUnsupportedKind    = errors.New("unsupported kind")
	ErrInvalidAddress     = errors.New("invalid program address")
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrUnknownAccount     = errors.New("unknown account")
	ErrNoInstructions     = errors.New("no instructions")
)

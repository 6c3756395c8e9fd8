// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package provider

import "errors"

var (
	ErrMissingWallet     = errors.New("missing wallet")
	ErrMissingSigner     = errors.New("missing signer")
	ErrUnexpectedSigner  = errors.New("signer is not part of transaction")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrConfirmTimeout    = errors.New("transaction confirmation timed out")
	ErrInvalidOptions    = errors.New("invalid options")
)

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dispatcher

import "errors"

var (
	ErrMissingLogger  = errors.New("missing logger")
	ErrMissingWallets = errors.New("missing wallet source")
	ErrMissingClient  = errors.New("missing rpc client")
	ErrUnknownAction  = errors.New("unknown action")

	// ErrWalletNotConnected is returned, without contacting the network,
	// when an action is invoked before a wallet is connected.
	ErrWalletNotConnected = errors.New("wallet not connected")

	// ErrTransaction wraps every failure after the wallet check: building
	// the provider or program, the remote call, and the account fetch.
	ErrTransaction = errors.New("transaction error")
)

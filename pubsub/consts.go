// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import "time"

const (
	KiB = 1024

	defaultReadBufferSize     = KiB
	defaultWriteBufferSize    = KiB
	defaultWriteWait          = 10 * time.Second
	defaultPongWait           = 60 * time.Second
	defaultMaxReadMessageSize = 4 * KiB
	defaultMaxPendingMessages = 1024
	defaultReplaySize         = 64
)

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/ava-labs/counterdapp/dispatcher"
	"github.com/ava-labs/counterdapp/pubsub"
)

var _ dispatcher.EventSink = (*EventFeed)(nil)

// EventFeed publishes dispatcher events to websocket subscribers as JSON.
type EventFeed struct {
	log *zap.Logger
	ps  *pubsub.Server
}

func NewEventFeed(log *zap.Logger, ps *pubsub.Server) *EventFeed {
	return &EventFeed{log: log, ps: ps}
}

func (f *EventFeed) Publish(e dispatcher.Event) {
	b, err := json.Marshal(e)
	if err != nil {
		f.log.Warn("unable to encode event", zap.Error(err))
		return
	}
	f.ps.Publish(b)
}

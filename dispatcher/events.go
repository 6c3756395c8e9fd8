// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dispatcher

import "time"

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Event describes the outcome of one action. Front-ends render the feed of
// events the way the browser console showed results.
type Event struct {
	Action    string    `json:"action"`
	Status    string    `json:"status"`
	Account   string    `json:"account"`
	Wallet    string    `json:"wallet,omitempty"`
	Data      string    `json:"data,omitempty"`
	Signature string    `json:"signature,omitempty"`
	Error     string    `json:"error,omitempty"`
	Time      time.Time `json:"time"`
}

type EventSink interface {
	Publish(Event)
}

type EventSinkFunc func(Event)

func (f EventSinkFunc) Publish(e Event) {
	f(e)
}

type nopSink struct{}

func (nopSink) Publish(Event) {}

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wallet

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Context supplies the network endpoint and the configured adapters to
// everything below it and tracks which wallet, if any, is connected.
type Context struct {
	log      *zap.Logger
	endpoint string
	adapters map[string]Adapter

	lock      sync.RWMutex
	connected Wallet
	adapter   string
}

func NewContext(log *zap.Logger, endpoint string, adapters ...Adapter) (*Context, error) {
	m := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		if _, ok := m[a.Name()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAdapter, a.Name())
		}
		m[a.Name()] = a
	}
	return &Context{
		log:      log,
		endpoint: endpoint,
		adapters: m,
	}, nil
}

func (c *Context) Endpoint() string {
	return c.endpoint
}

// Adapters returns the sorted names of the configured adapters.
func (c *Context) Adapters() []string {
	names := maps.Keys(c.adapters)
	slices.Sort(names)
	return names
}

// Connect connects the adapter named [name] and makes its wallet the active
// one. A failed connect leaves the previous wallet in place.
func (c *Context) Connect(ctx context.Context, name string) (Wallet, error) {
	a, ok := c.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAdapter, name)
	}
	w, err := a.Connect(ctx)
	if err != nil {
		return nil, err
	}

	c.lock.Lock()
	c.connected = w
	c.adapter = name
	c.lock.Unlock()

	c.log.Info("wallet connected",
		zap.String("adapter", name),
		zap.Stringer("publicKey", w.PublicKey()),
	)
	return w, nil
}

// AutoConnect tries to connect [name] and only logs on failure. An empty
// name is a no-op.
func (c *Context) AutoConnect(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if _, err := c.Connect(ctx, name); err != nil {
		c.log.Warn("unable to auto-connect wallet",
			zap.String("adapter", name),
			zap.Error(err),
		)
	}
}

func (c *Context) Disconnect() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.connected == nil {
		return
	}
	c.log.Info("wallet disconnected", zap.String("adapter", c.adapter))
	c.connected = nil
	c.adapter = ""
}

// Wallet returns the connected wallet. ok is false when nothing is
// connected.
func (c *Context) Wallet() (Wallet, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.connected, c.connected != nil
}

// Adapter returns the name of the connected adapter, or "".
func (c *Context) Adapter() string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.adapter
}

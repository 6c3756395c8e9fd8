// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import "sync"

// Connections represents a collection of connections to clients.
type Connections struct {
	lock  sync.RWMutex
	conns map[*Connection]struct{}
}

// NewConnections returns a new Connections instance.
func NewConnections() *Connections {
	return &Connections{conns: map[*Connection]struct{}{}}
}

// Conns returns a list of all connections in [c].
func (c *Connections) Conns() []*Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()

	conns := make([]*Connection, 0, len(c.conns))
	for conn := range c.conns {
		conns = append(conns, conn)
	}
	return conns
}

// Has returns if the connection [conn] is in [c].
func (c *Connections) Has(conn *Connection) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	_, ok := c.conns[conn]
	return ok
}

// Remove removes [conn] from [c].
func (c *Connections) Remove(conn *Connection) {
	c.lock.Lock()
	defer c.lock.Unlock()

	delete(c.conns, conn)
}

// Add adds [conn] to the [c].
func (c *Connections) Add(conn *Connection) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.conns[conn] = struct{}{}
}

// Len returns the number of connections in [c].
func (c *Connections) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return len(c.conns)
}

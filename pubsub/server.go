// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ava-labs/counterdapp/utils"
)

type Config struct {
	// Size of the ws read buffer
	ReadBufferSize int `yaml:"readBufferSize"`
	// Size of the ws write buffer
	WriteBufferSize int `yaml:"writeBufferSize"`
	// Maximum number of pending messages to send to a peer.
	MaxPendingMessages int `yaml:"maxPendingMessages"`
	// Maximum message size in bytes allowed from peer.
	MaxReadMessageSize int64 `yaml:"maxReadMessageSize"`
	// Time allowed to write a message to the peer.
	WriteWait time.Duration `yaml:"writeWait"`
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration `yaml:"pongWait"`
	// Number of recent messages replayed to new subscribers.
	ReplaySize int `yaml:"replaySize"`
	// Cross-origin pages allowed to subscribe. Same-origin pages and
	// non-browser clients are always allowed.
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

func NewDefaultServerConfig() Config {
	return Config{
		ReadBufferSize:     defaultReadBufferSize,
		WriteBufferSize:    defaultWriteBufferSize,
		MaxPendingMessages: defaultMaxPendingMessages,
		MaxReadMessageSize: defaultMaxReadMessageSize,
		WriteWait:          defaultWriteWait,
		PongWait:           defaultPongWait,
		ReplaySize:         defaultReplaySize,
	}
}

// Send pings to peer with this period. Must be less than PongWait.
func (c Config) pingPeriod() time.Duration {
	return (c.PongWait * 9) / 10
}

// Server maintains the set of subscribers and fans published messages out to
// them. Recent messages are kept and replayed to every new subscriber.
//
// Mount the server on a route and connect with websocket.DefaultDialer.Dial().
type Server struct {
	log      *zap.Logger
	config   Config
	callback Callback
	upgrader websocket.Upgrader

	lock   sync.RWMutex
	conns  *Connections
	replay utils.BoundedBuffer[[]byte]
	closed bool
}

// New returns a new Server instance. The callback function [r] is called
// by the server in response to messages if not nil.
func New(log *zap.Logger, config Config, r Callback) (*Server, error) {
	if config.MaxPendingMessages < config.ReplaySize {
		config.MaxPendingMessages = config.ReplaySize
	}
	replay, err := utils.NewBoundedBuffer[[]byte](config.ReplaySize, nil)
	if err != nil {
		return nil, err
	}
	return &Server{
		log:      log,
		config:   config,
		callback: r,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return utils.OriginAllowed(config.AllowedOrigins, r)
			},
		},
		conns:  NewConnections(),
		replay: replay,
	}, nil
}

// ServeHTTP adds a connection to the server, and starts go routines for
// reading and writing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := &Connection{
		s:    s,
		conn: wsConn,
		send: make(chan []byte, s.config.MaxPendingMessages),
	}

	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		_ = wsConn.Close()
		return
	}
	// Queue the replay while holding the lock so nothing published
	// concurrently can overtake it.
	for _, msg := range s.replay.Items() {
		conn.send <- msg
	}
	conn.active.Store(true)
	s.conns.Add(conn)
	s.lock.Unlock()

	go conn.writePump()
	go conn.readPump()
}

// Publish sends [msg] to every subscriber and remembers it for replay.
func (s *Server) Publish(msg []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return
	}
	s.replay.Insert(msg)
	for _, conn := range s.conns.Conns() {
		if !conn.Send(msg) {
			s.log.Debug(
				"dropping message to subscribed connection due to too many pending messages",
			)
		}
	}
}

// Len returns the number of subscribers.
func (s *Server) Len() int {
	return s.conns.Len()
}

// removeConnection removes [conn] from the servers connection set.
func (s *Server) removeConnection(conn *Connection) {
	s.conns.Remove(conn)
}

// Close disconnects every subscriber and rejects new ones.
func (s *Server) Close() {
	s.lock.Lock()
	s.closed = true
	s.lock.Unlock()

	for _, conn := range s.conns.Conns() {
		conn.deactivate()
	}
}

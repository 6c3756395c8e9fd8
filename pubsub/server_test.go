// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	u := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
		_ = conn.Close()
	})
	return conn
}

func waitForLen(t *testing.T, s *Server, n int) {
	require.Eventually(t, func() bool {
		return s.Len() == n
	}, time.Second, 10*time.Millisecond)
}

func read(t *testing.T, conn *websocket.Conn) string {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func TestServerPublish(t *testing.T) {
	require := require.New(t)

	s, err := New(zap.NewNop(), NewDefaultServerConfig(), nil)
	require.NoError(err)
	ts := httptest.NewServer(s)
	defer ts.Close()

	conn := dial(t, ts)
	waitForLen(t, s, 1)

	s.Publish([]byte("dummy_msg"))
	require.Equal("dummy_msg", read(t, conn))

	// the server notices the subscriber leaving
	require.NoError(conn.Close())
	waitForLen(t, s, 0)
}

func TestServerReplay(t *testing.T) {
	require := require.New(t)

	config := NewDefaultServerConfig()
	config.ReplaySize = 2
	s, err := New(zap.NewNop(), config, nil)
	require.NoError(err)
	ts := httptest.NewServer(s)
	defer ts.Close()

	s.Publish([]byte("a"))
	s.Publish([]byte("b"))
	s.Publish([]byte("c"))

	conn := dial(t, ts)
	require.Equal("b", read(t, conn))
	require.Equal("c", read(t, conn))

	s.Publish([]byte("d"))
	require.Equal("d", read(t, conn))
}

func TestServerCallback(t *testing.T) {
	require := require.New(t)

	s, err := New(zap.NewNop(), NewDefaultServerConfig(), func(msg []byte, c *Connection) {
		c.Send(append([]byte("echo:"), msg...))
	})
	require.NoError(err)
	ts := httptest.NewServer(s)
	defer ts.Close()

	conn := dial(t, ts)
	require.NoError(conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	require.Equal("echo:ping", read(t, conn))
}

func TestServerClose(t *testing.T) {
	require := require.New(t)

	s, err := New(zap.NewNop(), NewDefaultServerConfig(), nil)
	require.NoError(err)
	ts := httptest.NewServer(s)
	defer ts.Close()

	conn := dial(t, ts)
	waitForLen(t, s, 1)

	s.Close()
	require.NoError(conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(err)
	waitForLen(t, s, 0)

	// publishing after close is a no-op
	s.Publish([]byte("late"))
}

func TestNewInvalidReplay(t *testing.T) {
	config := NewDefaultServerConfig()
	config.ReplaySize = 0
	_, err := New(zap.NewNop(), config, nil)
	require.Error(t, err)
}

func TestServerOrigin(t *testing.T) {
	require := require.New(t)

	config := NewDefaultServerConfig()
	config.AllowedOrigins = []string{"https://app.example"}
	s, err := New(zap.NewNop(), config, nil)
	require.NoError(err)
	ts := httptest.NewServer(s)
	defer ts.Close()

	u := "ws" + strings.TrimPrefix(ts.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(u, http.Header{"Origin": []string{"https://evil.example"}})
	require.ErrorIs(err, websocket.ErrBadHandshake)
	require.Equal(http.StatusForbidden, resp.StatusCode)
	require.NoError(resp.Body.Close())
	require.Zero(s.Len())

	conn, resp, err := websocket.DefaultDialer.Dial(u, http.Header{"Origin": []string{"https://app.example"}})
	require.NoError(err)
	defer resp.Body.Close()
	defer conn.Close()
	waitForLen(t, s, 1)
}

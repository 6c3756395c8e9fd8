// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/counterdapp/consts"
)

func TestDefaults(t *testing.T) {
	require := require.New(t)

	c := New()
	require.NoError(c.Verify())

	endpoint, err := c.RPCEndpoint()
	require.NoError(err)
	require.Equal("http://127.0.0.1:8899", endpoint)
	require.Equal(rpc.CommitmentProcessed, c.GetCommitment())
	// the server only answers same-origin pages unless told otherwise
	require.Empty(c.AllowedOrigins)

	programID, err := c.GetProgramID()
	require.NoError(err)
	require.Equal(consts.ProgramID, programID.String())
}

func TestEndpointOverridesNetwork(t *testing.T) {
	require := require.New(t)

	c := New()
	c.Network = DevNet
	endpoint, err := c.RPCEndpoint()
	require.NoError(err)
	require.Equal(rpc.DevNet.RPC, endpoint)

	c.Endpoint = "http://localhost:9999"
	c.Network = "nowhere"
	require.NoError(c.Verify())
	endpoint, err = c.RPCEndpoint()
	require.NoError(err)
	require.Equal("http://localhost:9999", endpoint)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"UnknownNetwork", func(c *Config) { c.Network = "moonnet" }, ErrUnknownNetwork},
		{"BadCommitment", func(c *Config) { c.Commitment = "eventually" }, ErrInvalidCommitment},
		{"BadProgramID", func(c *Config) { c.ProgramID = "not-a-key" }, ErrInvalidProgramID},
		{"ZeroTimeout", func(c *Config) { c.ConfirmTimeout = 0 }, ErrInvalidTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.modify(c)
			require.ErrorIs(t, c.Verify(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	// missing file falls back to defaults
	c, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(err)
	require.Equal(New(), c)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(os.WriteFile(path, []byte(`
network: devnet
commitment: confirmed
wallet: mnemonic
confirmTimeout: 5s
`), fsModeWrite))
	c, err = Load(path)
	require.NoError(err)
	require.Equal(DevNet, c.Network)
	require.Equal(rpc.CommitmentConfirmed, c.GetCommitment())
	require.Equal("mnemonic", c.Wallet)
	require.Equal(5*time.Second, c.ConfirmTimeout)
	// untouched fields keep defaults
	require.Equal(consts.ProgramID, c.ProgramID)

	require.NoError(os.WriteFile(path, []byte("network: moonnet\n"), fsModeWrite))
	_, err = Load(path)
	require.ErrorIs(err, ErrUnknownNetwork)
}

func TestSaveRoundTrip(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	c := New()
	c.Endpoint = "http://10.0.0.1:8899"
	require.NoError(c.Save(path))

	loaded, err := Load(path)
	require.NoError(err)
	require.Equal(c, loaded)
}

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wallet

import (
	"context"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const endpoint = "http://127.0.0.1:8899"

func TestContextAdapters(t *testing.T) {
	require := require.New(t)

	c, err := NewContext(zap.NewNop(), endpoint,
		NewMnemonicAdapter(StaticSecret(testMnemonic), nil),
		NewKeypairAdapter("~/.config/solana/id.json"),
		NewBase58Adapter(StaticSecret("")),
	)
	require.NoError(err)
	require.Equal(endpoint, c.Endpoint())
	require.Equal([]string{Base58AdapterName, KeypairAdapterName, MnemonicAdapterName}, c.Adapters())

	_, err = NewContext(zap.NewNop(), endpoint,
		NewKeypairAdapter("a"),
		NewKeypairAdapter("b"),
	)
	require.ErrorIs(err, ErrDuplicateAdapter)
}

func TestContextConnect(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	c, err := NewContext(zap.NewNop(), endpoint, NewMnemonicAdapter(StaticSecret(testMnemonic), nil))
	require.NoError(err)

	w, ok := c.Wallet()
	require.False(ok)
	require.Nil(w)
	require.Empty(c.Adapter())

	_, err = c.Connect(ctx, "phantom")
	require.ErrorIs(err, ErrUnknownAdapter)

	connected, err := c.Connect(ctx, MnemonicAdapterName)
	require.NoError(err)
	w, ok = c.Wallet()
	require.True(ok)
	require.Equal(connected.PublicKey(), w.PublicKey())
	require.Equal(MnemonicAdapterName, c.Adapter())

	c.Disconnect()
	_, ok = c.Wallet()
	require.False(ok)
	require.Empty(c.Adapter())

	// disconnecting twice is harmless
	c.Disconnect()
}

func TestContextFailedConnectKeepsWallet(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	priv, err := FromMnemonic(testMnemonic, "")
	require.NoError(err)

	c, err := NewContext(zap.NewNop(), endpoint,
		NewBase58Adapter(StaticSecret(base58.Encode(priv))),
		NewMnemonicAdapter(StaticSecret("not a mnemonic"), nil),
	)
	require.NoError(err)

	_, err = c.Connect(ctx, Base58AdapterName)
	require.NoError(err)
	_, err = c.Connect(ctx, MnemonicAdapterName)
	require.ErrorIs(err, ErrInvalidMnemonic)

	w, ok := c.Wallet()
	require.True(ok)
	require.Equal(priv.PublicKey(), w.PublicKey())
	require.Equal(Base58AdapterName, c.Adapter())
}

func TestContextAutoConnect(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	core, logs := observer.New(zapcore.InfoLevel)
	c, err := NewContext(zap.New(core), endpoint, NewBase58Adapter(StaticSecret("")))
	require.NoError(err)

	c.AutoConnect(ctx, "")
	require.Zero(logs.Len())

	c.AutoConnect(ctx, Base58AdapterName)
	_, ok := c.Wallet()
	require.False(ok)

	entries := logs.FilterMessage("unable to auto-connect wallet").All()
	require.Len(entries, 1)
	require.Equal(Base58AdapterName, entries[0].ContextMap()["adapter"])
}

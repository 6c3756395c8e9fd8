// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dispatcher

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/counterdapp/consts"
	"github.com/ava-labs/counterdapp/countertest"
	"github.com/ava-labs/counterdapp/program"
	"github.com/ava-labs/counterdapp/provider"
	"github.com/ava-labs/counterdapp/wallet"
)

var programID = solana.MustPublicKeyFromBase58(consts.ProgramID)

type recorder struct {
	lock   sync.Mutex
	events []Event
}

func (r *recorder) Publish(e Event) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.events = append(r.events, e)
}

func (r *recorder) Events() []Event {
	r.lock.Lock()
	defer r.lock.Unlock()

	return append([]Event{}, r.events...)
}

type harness struct {
	d        *Dispatcher
	ledger   *countertest.Ledger
	wallets  *wallet.Context
	logs     *observer.ObservedLogs
	events   *recorder
	registry *prometheus.Registry
}

func newHarness(t *testing.T, connect bool) *harness {
	require := require.New(t)

	ledger, err := countertest.NewLedger(programID)
	require.NoError(err)
	user, err := solana.NewRandomPrivateKey()
	require.NoError(err)

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	wallets, err := wallet.NewContext(log, "http://127.0.0.1:8899",
		wallet.NewBase58Adapter(wallet.StaticSecret(base58.Encode(user))),
	)
	require.NoError(err)
	if connect {
		_, err := wallets.Connect(context.Background(), wallet.Base58AdapterName)
		require.NoError(err)
	}

	opts := provider.DefaultOptions()
	opts.PollInterval = time.Millisecond
	opts.ConfirmTimeout = time.Second
	events := &recorder{}
	registry := prometheus.NewRegistry()
	d, err := New(log, wallets, ledger, Config{
		ProgramID:  programID,
		Options:    opts,
		Registerer: registry,
		Events:     events,
	})
	require.NoError(err)
	return &harness{
		d:        d,
		ledger:   ledger,
		wallets:  wallets,
		logs:     logs,
		events:   events,
		registry: registry,
	}
}

func (h *harness) errorLogs() int {
	return h.logs.FilterMessage("transaction error").Len()
}

func TestNewValidation(t *testing.T) {
	require := require.New(t)
	ledger, err := countertest.NewLedger(programID)
	require.NoError(err)

	_, err = New(nil, &wallet.Context{}, ledger, Config{})
	require.ErrorIs(err, ErrMissingLogger)
	_, err = New(zap.NewNop(), nil, ledger, Config{})
	require.ErrorIs(err, ErrMissingWallets)
	_, err = New(zap.NewNop(), &wallet.Context{}, nil, Config{})
	require.ErrorIs(err, ErrMissingClient)

	// registering twice with the same registry collides
	registry := prometheus.NewRegistry()
	_, err = New(zap.NewNop(), &wallet.Context{}, ledger, Config{Registerer: registry})
	require.NoError(err)
	_, err = New(zap.NewNop(), &wallet.Context{}, ledger, Config{Registerer: registry})
	require.Error(err)
}

func TestNotConnected(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, false)

	actions := []func() (*CounterAccount, error){
		func() (*CounterAccount, error) { return h.d.Initialize(ctx) },
		func() (*CounterAccount, error) { return h.d.Increment(ctx) },
		func() (*CounterAccount, error) { return h.d.Decrement(ctx) },
		func() (*CounterAccount, error) { return h.d.Update(ctx, big.NewInt(consts.UpdateAmount)) },
	}
	for _, action := range actions {
		acct, err := action()
		require.ErrorIs(err, ErrWalletNotConnected)
		require.NotErrorIs(err, ErrTransaction)
		require.Nil(acct)
	}
	require.Zero(h.ledger.Sends())
	require.Zero(h.errorLogs())
	require.Empty(h.events.Events())
	require.Equal(float64(4), testutil.ToFloat64(h.d.metrics.notConnected))
}

func TestIncrementBeforeInitialize(t *testing.T) {
	require := require.New(t)
	h := newHarness(t, true)

	acct, err := h.d.Increment(context.Background())
	require.ErrorIs(err, ErrTransaction)
	require.Nil(acct)
	require.Equal(uint64(1), h.ledger.Sends())
	require.Zero(h.ledger.Accepted())

	require.Equal(1, h.errorLogs())
	entry := h.logs.FilterMessage("transaction error").All()[0]
	require.Equal(zapcore.ErrorLevel, entry.Level)
	require.Equal(Increment, entry.ContextMap()["action"])

	events := h.events.Events()
	require.Len(events, 1)
	require.Equal(StatusError, events[0].Status)
	require.Equal(Increment, events[0].Action)
	require.Equal(h.d.Session().Address().String(), events[0].Account)
	require.NotEmpty(events[0].Error)
	require.Equal(float64(1), testutil.ToFloat64(h.d.metrics.failures.WithLabelValues(Increment)))
}

func TestInitializeThenIncrement(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, true)

	acct, err := h.d.Initialize(ctx)
	require.NoError(err)
	require.Equal(uint64(0), acct.Data)
	require.Equal(1, h.logs.FilterMessage("account").Len())

	acct, err = h.d.Increment(ctx)
	require.NoError(err)
	require.Equal(uint64(1), acct.Data)

	v, ok := h.ledger.Counter(h.d.Session().Address())
	require.True(ok)
	require.Equal(uint64(1), v)

	entries := h.logs.FilterMessage("account data").All()
	require.Len(entries, 1)
	require.Equal("1", entries[0].ContextMap()["data"])

	events := h.events.Events()
	require.Len(events, 2)
	for _, e := range events {
		require.Equal(StatusOK, e.Status)
		require.NotEmpty(e.Signature)
	}
	require.Equal("1", events[1].Data)
	require.Zero(h.errorLogs())
	require.Zero(h.d.Inflight())
}

func TestUpdateOverwrites(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, true)

	_, err := h.d.Initialize(ctx)
	require.NoError(err)

	for _, prior := range []int{3, 0, 250} {
		_, err = h.d.Update(ctx, big.NewInt(int64(prior)))
		require.NoError(err)
		acct, err := h.d.Update(ctx, big.NewInt(consts.UpdateAmount))
		require.NoError(err)
		require.Equal(uint64(consts.UpdateAmount), acct.Data)
	}

	acct, err := h.d.Increment(ctx)
	require.NoError(err)
	require.Equal(uint64(101), acct.Data)

	// nil falls back to the fixed amount
	acct, err = h.d.Update(ctx, nil)
	require.NoError(err)
	require.Equal(uint64(consts.UpdateAmount), acct.Data)
}

func TestUpdateOutOfRange(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, true)

	_, err := h.d.Initialize(ctx)
	require.NoError(err)
	sends := h.ledger.Sends()

	_, err = h.d.Update(ctx, big.NewInt(-1))
	require.ErrorIs(err, ErrTransaction)
	require.ErrorIs(err, program.ErrInvalidArgument)
	require.Equal(sends, h.ledger.Sends())
	require.Equal(1, h.errorLogs())
}

func TestDecrementUnderflow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, true)

	_, err := h.d.Initialize(ctx)
	require.NoError(err)
	_, err = h.d.Decrement(ctx)
	require.ErrorIs(err, ErrTransaction)

	v, ok := h.ledger.Counter(h.d.Session().Address())
	require.True(ok)
	require.Zero(v)
}

func TestConcurrentIncrements(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, true)

	_, err := h.d.Initialize(ctx)
	require.NoError(err)

	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, err := h.d.Increment(ctx)
			return err
		})
	}
	require.NoError(g.Wait())

	require.Equal(uint64(3), h.ledger.Sends())
	v, _ := h.ledger.Counter(h.d.Session().Address())
	require.Equal(uint64(2), v)
	require.Equal(float64(2), testutil.ToFloat64(h.d.metrics.actions.WithLabelValues(Increment)))
}

func TestResetForgetsAccount(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, true)

	_, err := h.d.Initialize(ctx)
	require.NoError(err)
	old := h.d.Session().Address()

	addr, err := h.d.Reset()
	require.NoError(err)
	require.NotEqual(old, addr)
	require.Equal(addr, h.d.Session().Address())
	require.Equal(1, h.logs.FilterMessage("session reset").Len())

	_, err = h.d.Increment(ctx)
	require.ErrorIs(err, ErrTransaction)
	require.Equal(1, h.errorLogs())

	// the old account is untouched
	v, ok := h.ledger.Counter(old)
	require.True(ok)
	require.Zero(v)

	// the new account works once initialized
	_, err = h.d.Initialize(ctx)
	require.NoError(err)
	acct, err := h.d.Increment(ctx)
	require.NoError(err)
	require.Equal(uint64(1), acct.Data)
}

func TestDisconnectStopsActions(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, true)

	_, err := h.d.Initialize(ctx)
	require.NoError(err)
	h.wallets.Disconnect()

	_, err = h.d.Increment(ctx)
	require.ErrorIs(err, ErrWalletNotConnected)
	require.Equal(uint64(1), h.ledger.Sends())
}

func TestDo(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, true)

	tests := []struct {
		action   string
		amount   *big.Int
		expected uint64
	}{
		{action: Initialize, expected: 0},
		{action: Increment, expected: 1},
		{action: Update, amount: big.NewInt(7), expected: 7},
		{action: Decrement, expected: 6},
	}
	for _, tt := range tests {
		acct, err := h.d.Do(ctx, tt.action, tt.amount)
		require.NoError(err)
		require.Equal(tt.expected, acct.Data)
	}

	sends := h.ledger.Sends()
	for _, action := range []string{"reset", "double", "increment "} {
		_, err := h.d.Do(ctx, action, nil)
		require.ErrorIs(err, ErrUnknownAction)
		require.NotErrorIs(err, ErrTransaction)
	}
	require.Equal(sends, h.ledger.Sends())
	require.Zero(h.errorLogs())
	// only the four real actions ever become label values
	require.Equal(4, testutil.CollectAndCount(h.d.metrics.actions))
	require.Equal(4, testutil.CollectAndCount(h.d.metrics.latency))
}

func TestTransportFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newHarness(t, true)

	h.ledger.FailSends(context.DeadlineExceeded)
	_, err := h.d.Initialize(ctx)
	require.ErrorIs(err, ErrTransaction)
	require.ErrorIs(err, context.DeadlineExceeded)
	require.Equal(1, h.errorLogs())

	h.ledger.FailSends(nil)
	_, err = h.d.Initialize(ctx)
	require.NoError(err)
}

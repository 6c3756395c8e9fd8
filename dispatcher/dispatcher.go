// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dispatcher runs the four counter actions on behalf of whichever
// wallet is connected.
package dispatcher

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/counterdapp/consts"
	"github.com/ava-labs/counterdapp/idl"
	"github.com/ava-labs/counterdapp/program"
	"github.com/ava-labs/counterdapp/provider"
	"github.com/ava-labs/counterdapp/trace"
	"github.com/ava-labs/counterdapp/wallet"
)

const (
	Initialize = "initialize"
	Increment  = "increment"
	Decrement  = "decrement"
	Update     = "update"

	counterAccountName = "MyAccount"
)

// CounterAccount is the state the program keeps in the Counter Account.
type CounterAccount struct {
	Data uint64 `json:"data"`
}

// WalletSource exposes the connected wallet, if any.
type WalletSource interface {
	Wallet() (wallet.Wallet, bool)
}

type Config struct {
	ProgramID solana.PublicKey
	Options   provider.Options

	// Optional. Defaults are the embedded counter IDL, a no-op tracer, a
	// private registry, and no event sink.
	IDL        *idl.IDL
	Tracer     trace.Tracer
	Registerer prometheus.Registerer
	Events     EventSink
}

type Dispatcher struct {
	log       *zap.Logger
	wallets   WalletSource
	client    provider.RPCClient
	idl       *idl.IDL
	programID solana.PublicKey
	opts      provider.Options
	tracer    trace.Tracer
	events    EventSink
	metrics   *Metrics
	session   *Session
	inflight  *atomic.Int64
}

func New(
	log *zap.Logger,
	wallets WalletSource,
	client provider.RPCClient,
	cfg Config,
) (*Dispatcher, error) {
	if log == nil {
		return nil, ErrMissingLogger
	}
	if wallets == nil {
		return nil, ErrMissingWallets
	}
	if client == nil {
		return nil, ErrMissingClient
	}
	desc := cfg.IDL
	if desc == nil {
		var err error
		desc, err = idl.Counter()
		if err != nil {
			return nil, err
		}
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = trace.Noop()
	}
	events := cfg.Events
	if events == nil {
		events = nopSink{}
	}
	registerer := cfg.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	inflight := atomic.NewInt64(0)
	metrics, err := NewMetrics(registerer, inflight)
	if err != nil {
		return nil, err
	}
	session, err := NewSession()
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		log:       log,
		wallets:   wallets,
		client:    client,
		idl:       desc,
		programID: cfg.ProgramID,
		opts:      cfg.Options,
		tracer:    tracer,
		events:    events,
		metrics:   metrics,
		session:   session,
		inflight:  inflight,
	}, nil
}

func (d *Dispatcher) Session() *Session {
	return d.session
}

// Inflight is the number of actions currently waiting on the network.
func (d *Dispatcher) Inflight() int64 {
	return d.inflight.Load()
}

// Reset starts a new session with a fresh Counter Account. The previous
// account stays on chain but this dispatcher forgets it.
func (d *Dispatcher) Reset() (solana.PublicKey, error) {
	addr, err := d.session.Reset()
	if err != nil {
		return solana.PublicKey{}, err
	}
	d.metrics.resets.Inc()
	d.log.Info("session reset", zap.Stringer("account", addr))
	return addr, nil
}

// Initialize creates the Counter Account on chain. The Counter Account key
// signs alongside the wallet.
func (d *Dispatcher) Initialize(ctx context.Context) (*CounterAccount, error) {
	return d.run(ctx, Initialize, nil, true)
}

func (d *Dispatcher) Increment(ctx context.Context) (*CounterAccount, error) {
	return d.run(ctx, Increment, nil, false)
}

func (d *Dispatcher) Decrement(ctx context.Context) (*CounterAccount, error) {
	return d.run(ctx, Decrement, nil, false)
}

// Update sets the counter to [amount]. A nil amount means
// consts.UpdateAmount.
func (d *Dispatcher) Update(ctx context.Context, amount *big.Int) (*CounterAccount, error) {
	if amount == nil {
		amount = big.NewInt(consts.UpdateAmount)
	}
	return d.run(ctx, Update, []any{amount}, false)
}

// Do runs the action named [action]. Unknown names are rejected before
// anything is counted or sent.
func (d *Dispatcher) Do(ctx context.Context, action string, amount *big.Int) (*CounterAccount, error) {
	switch action {
	case Initialize:
		return d.Initialize(ctx)
	case Increment:
		return d.Increment(ctx)
	case Decrement:
		return d.Decrement(ctx)
	case Update:
		return d.Update(ctx, amount)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

func (d *Dispatcher) run(ctx context.Context, action string, args []any, counterSigns bool) (*CounterAccount, error) {
	w, ok := d.wallets.Wallet()
	if !ok {
		d.metrics.notConnected.Inc()
		return nil, ErrWalletNotConnected
	}
	counter := d.session.Counter()

	ctx, span := d.tracer.Start(ctx, "Dispatcher."+action, oteltrace.WithAttributes(
		attribute.String("account", counter.PublicKey().String()),
		attribute.String("wallet", w.PublicKey().String()),
	))
	defer span.End()

	d.inflight.Inc()
	defer d.inflight.Dec()
	d.metrics.actions.WithLabelValues(action).Inc()
	start := time.Now()

	acct, sig, err := d.invoke(ctx, w, counter, action, args, counterSigns)
	d.metrics.latency.WithLabelValues(action).Observe(time.Since(start).Seconds())
	event := Event{
		Action:  action,
		Account: counter.PublicKey().String(),
		Wallet:  w.PublicKey().String(),
		Time:    time.Now(),
	}
	if sig != (solana.Signature{}) {
		event.Signature = sig.String()
	}
	if err != nil {
		d.metrics.failures.WithLabelValues(action).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.log.Error("transaction error",
			zap.String("action", action),
			zap.Stringer("account", counter.PublicKey()),
			zap.Error(err),
		)
		event.Status = StatusError
		event.Error = err.Error()
		d.events.Publish(event)
		return nil, fmt.Errorf("%w: %s: %w", ErrTransaction, action, err)
	}

	data := strconv.FormatUint(acct.Data, 10)
	if action == Initialize {
		d.log.Info("account",
			zap.Stringer("account", counter.PublicKey()),
			zap.String("data", data),
		)
	} else {
		d.log.Info("account data", zap.String("data", data))
	}
	event.Status = StatusOK
	event.Data = data
	d.events.Publish(event)
	return acct, nil
}

// invoke builds a fresh provider and program for one call, sends it, and
// reads the Counter Account back.
func (d *Dispatcher) invoke(
	ctx context.Context,
	w wallet.Wallet,
	counter *wallet.Keypair,
	action string,
	args []any,
	counterSigns bool,
) (*CounterAccount, solana.Signature, error) {
	p, err := provider.New(d.log, d.client, w, d.opts)
	if err != nil {
		return nil, solana.Signature{}, err
	}
	prog, err := program.New(d.idl, d.programID, p)
	if err != nil {
		return nil, solana.Signature{}, err
	}
	c := program.Context{
		Accounts: map[string]solana.PublicKey{
			"myAccount":     counter.PublicKey(),
			"user":          w.PublicKey(),
			"systemProgram": solana.SystemProgramID,
		},
	}
	if counterSigns {
		c.Signers = []wallet.Wallet{counter}
	}
	sig, err := prog.RPC(ctx, action, args, c)
	if err != nil {
		return nil, sig, err
	}
	var acct CounterAccount
	if err := prog.Fetch(ctx, counterAccountName, counter.PublicKey(), &acct); err != nil {
		return nil, sig, err
	}
	return &acct, sig, nil
}

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ava-labs/counterdapp/cli"
	"github.com/ava-labs/counterdapp/cli/prompt"
	"github.com/ava-labs/counterdapp/config"
	"github.com/ava-labs/counterdapp/dispatcher"
	"github.com/ava-labs/counterdapp/keystore"
	"github.com/ava-labs/counterdapp/provider"
	"github.com/ava-labs/counterdapp/trace"
	"github.com/ava-labs/counterdapp/wallet"
)

const (
	secretKeyEnv          = "COUNTER_SECRET_KEY"
	mnemonicEnv           = "COUNTER_MNEMONIC"
	mnemonicPassphraseEnv = "COUNTER_MNEMONIC_PASSPHRASE"
	keystorePassphraseEnv = "COUNTER_KEYSTORE_PASSPHRASE"

	maxMnemonicLen = 1024
)

var _ cli.Controller = (*Controller)(nil)

type Handler struct {
	h *cli.Handler

	cfg       *config.Config
	log       *zap.Logger
	logCloser io.Closer
	tracer    trace.Tracer
	client    *rpc.Client
	wallets   *wallet.Context

	interactive *atomic.Bool
}

func NewHandler(h *cli.Handler, cfg *config.Config, log *zap.Logger, logCloser io.Closer) (*Handler, error) {
	endpoint, err := cfg.RPCEndpoint()
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(&cfg.Trace)
	if err != nil {
		return nil, err
	}
	interactive := atomic.NewBool(true)
	// The wallet context and the provider read the same endpoint.
	wallets, err := wallet.NewContext(log, endpoint,
		wallet.NewKeypairAdapter(cfg.KeypairPath),
		wallet.NewBase58Adapter(envSecret(secretKeyEnv, interactive, func() (string, error) {
			return prompt.Secret("secret key (base58)", false)
		})),
		wallet.NewMnemonicAdapter(
			envSecret(mnemonicEnv, interactive, func() (string, error) {
				return prompt.String("mnemonic", 1, maxMnemonicLen)
			}),
			envSecret(mnemonicPassphraseEnv, interactive, func() (string, error) {
				return prompt.Secret("bip39 passphrase", true)
			}),
		),
		wallet.NewKeystoreAdapter(h.Keystore()),
	)
	if err != nil {
		return nil, err
	}
	return &Handler{
		h:           h,
		cfg:         cfg,
		log:         log,
		logCloser:   logCloser,
		tracer:      tracer,
		client:      rpc.New(endpoint),
		wallets:     wallets,
		interactive: interactive,
	}, nil
}

// envSecret reads [env] and, while [interactive] is set, falls back to
// asking the user. Otherwise a missing variable is an error.
func envSecret(env string, interactive *atomic.Bool, ask func() (string, error)) wallet.SecretSource {
	return func(context.Context) (string, error) {
		if v, ok := os.LookupEnv(env); ok {
			return v, nil
		}
		if !interactive.Load() {
			return "", fmt.Errorf("%w: set %s", ErrMissingSecret, env)
		}
		return ask()
	}
}

// DisablePrompts makes wallet secrets come only from the environment. Used
// once requests, not a person at the terminal, drive connects.
func (h *Handler) DisablePrompts() {
	h.interactive.Store(false)
}

func (h *Handler) Root() *cli.Handler {
	return h.h
}

func (h *Handler) Config() *config.Config {
	return h.cfg
}

func (h *Handler) Log() *zap.Logger {
	return h.log
}

func (h *Handler) Wallets() *wallet.Context {
	return h.wallets
}

// ConnectDefault connects the configured wallet adapter, if any.
func (h *Handler) ConnectDefault(ctx context.Context) {
	if h.cfg.Wallet == "" {
		return
	}
	h.wallets.AutoConnect(ctx, h.cfg.Wallet)
}

func (h *Handler) Options() provider.Options {
	opts := provider.DefaultOptions()
	opts.Commitment = h.cfg.GetCommitment()
	opts.PreflightCommitment = h.cfg.GetCommitment()
	opts.ConfirmTimeout = h.cfg.ConfirmTimeout
	return opts
}

// NewDispatcher wires a dispatcher to the handler's wallet context and RPC
// client.
func (h *Handler) NewDispatcher(registerer prometheus.Registerer, events dispatcher.EventSink) (*dispatcher.Dispatcher, error) {
	programID, err := h.cfg.GetProgramID()
	if err != nil {
		return nil, err
	}
	return dispatcher.New(h.log, h.wallets, h.client, dispatcher.Config{
		ProgramID:  programID,
		Options:    h.Options(),
		Tracer:     h.tracer,
		Registerer: registerer,
		Events:     events,
	})
}

func (h *Handler) Close() error {
	h.wallets.Disconnect()
	_ = h.log.Sync()
	return errors.Join(
		h.client.Close(),
		h.tracer.Close(),
		h.h.CloseDatabase(),
		h.logCloser.Close(),
	)
}

type Controller struct {
	databasePath string
}

func NewController(databasePath string) *Controller {
	return &Controller{databasePath}
}

func (c *Controller) DatabasePath() string {
	return c.databasePath
}

func (*Controller) KeystoreConfig() keystore.Config {
	cfg := keystore.NewDefaultConfig()
	cfg.Passphrase = os.Getenv(keystorePassphraseEnv)
	return cfg
}

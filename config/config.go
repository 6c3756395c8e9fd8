// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/counterdapp/consts"
	"github.com/ava-labs/counterdapp/trace"
)

const (
	LocalNet    = "localnet"
	DevNet      = "devnet"
	TestNet     = "testnet"
	MainNetBeta = "mainnet-beta"

	fsModeWrite = 0o600
)

var (
	ErrUnknownNetwork    = errors.New("unknown network")
	ErrInvalidCommitment = errors.New("invalid commitment")
	ErrInvalidProgramID  = errors.New("invalid program id")
	ErrInvalidTimeout    = errors.New("invalid confirm timeout")
)

var clusters = map[string]rpc.Cluster{
	LocalNet:    rpc.LocalNet,
	DevNet:      rpc.DevNet,
	TestNet:     rpc.TestNet,
	MainNetBeta: rpc.MainNetBeta,
}

// Config is the single source of truth for where every component talks to.
// The wallet context and the dispatcher both read [Endpoint] so they can
// never disagree about the target network.
type Config struct {
	// Network selects a well-known cluster. Ignored when Endpoint is set.
	Network string `yaml:"network"`
	// Endpoint overrides the cluster RPC URL.
	Endpoint   string `yaml:"endpoint"`
	Commitment string `yaml:"commitment"`
	ProgramID  string `yaml:"programID"`

	// Wallet is the adapter connected at startup. Empty disables auto-connect.
	Wallet       string `yaml:"wallet"`
	KeypairPath  string `yaml:"keypairPath"`
	KeystorePath string `yaml:"keystorePath"`

	LogLevel     string `yaml:"logLevel"`
	LogDirectory string `yaml:"logDirectory"`

	ListenAddress string `yaml:"listenAddress"`
	// AllowedOrigins lists cross-origin pages that may drive the server.
	// Empty means same-origin only.
	AllowedOrigins []string      `yaml:"allowedOrigins"`
	ConfirmTimeout time.Duration `yaml:"confirmTimeout"`

	Trace trace.Config `yaml:"trace"`
}

func New() *Config {
	return &Config{
		Network:        LocalNet,
		Commitment:     string(rpc.CommitmentProcessed),
		ProgramID:      consts.ProgramID,
		Wallet:         "keypair",
		KeypairPath:    "~/.config/solana/id.json",
		KeystorePath:   ".counter-cli",
		LogLevel:       "info",
		ListenAddress:  "127.0.0.1:8080",
		ConfirmTimeout: consts.DefaultConfirmTimeout,
		Trace: trace.Config{
			AppName:         consts.Name,
			Agent:           "counter-cli",
			TraceSampleRate: 1,
		},
	}
}

// Load reads a YAML config from [path] on top of the defaults. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	c := New()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	return c, c.Verify()
}

// Save writes the config to [path] as YAML.
func (c *Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, fsModeWrite)
}

func (c *Config) Verify() error {
	if c.Endpoint == "" {
		if _, ok := clusters[c.Network]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownNetwork, c.Network)
		}
	}
	switch rpc.CommitmentType(c.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCommitment, c.Commitment)
	}
	if _, err := solana.PublicKeyFromBase58(c.ProgramID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProgramID, err)
	}
	if c.ConfirmTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.ConfirmTimeout)
	}
	return nil
}

// RPCEndpoint resolves the URL every remote call is sent to.
func (c *Config) RPCEndpoint() (string, error) {
	if c.Endpoint != "" {
		return c.Endpoint, nil
	}
	cluster, ok := clusters[c.Network]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, c.Network)
	}
	return cluster.RPC, nil
}

func (c *Config) GetCommitment() rpc.CommitmentType {
	return rpc.CommitmentType(c.Commitment)
}

func (c *Config) GetProgramID() (solana.PublicKey, error) {
	return solana.PublicKeyFromBase58(c.ProgramID)
}

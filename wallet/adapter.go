// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/tyler-smith/go-bip39"

	"github.com/ava-labs/counterdapp/consts"
	"github.com/ava-labs/counterdapp/utils"
)

const (
	KeypairAdapterName  = "keypair"
	Base58AdapterName   = "base58"
	MnemonicAdapterName = "mnemonic"
	KeystoreAdapterName = "keystore"
)

// Adapter gives a key custody mechanism a common connect interface.
type Adapter interface {
	Name() string
	Connect(ctx context.Context) (Wallet, error)
}

// SecretSource supplies a secret on demand (environment, prompt, ...).
type SecretSource func(ctx context.Context) (string, error)

// StaticSecret returns a SecretSource that always yields [s].
func StaticSecret(s string) SecretSource {
	return func(context.Context) (string, error) {
		return s, nil
	}
}

// DefaultKeyGetter is implemented by stores that track a default key.
type DefaultKeyGetter interface {
	GetDefaultKey() (solana.PrivateKey, error)
}

var (
	_ Adapter = (*KeypairAdapter)(nil)
	_ Adapter = (*Base58Adapter)(nil)
	_ Adapter = (*MnemonicAdapter)(nil)
	_ Adapter = (*KeystoreAdapter)(nil)
)

// KeypairAdapter loads a solana-keygen JSON key file.
type KeypairAdapter struct {
	path string
}

func NewKeypairAdapter(path string) *KeypairAdapter {
	return &KeypairAdapter{path: path}
}

func (*KeypairAdapter) Name() string { return KeypairAdapterName }

func (a *KeypairAdapter) Connect(context.Context) (Wallet, error) {
	path, err := utils.ExpandHome(a.path)
	if err != nil {
		return nil, err
	}
	priv, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return NewKeypair(priv)
}

// Base58Adapter decodes a base58 secret key, the export format of most
// browser wallets.
type Base58Adapter struct {
	secret SecretSource
}

func NewBase58Adapter(secret SecretSource) *Base58Adapter {
	return &Base58Adapter{secret: secret}
}

func (*Base58Adapter) Name() string { return Base58AdapterName }

func (a *Base58Adapter) Connect(ctx context.Context) (Wallet, error) {
	s, err := a.secret(ctx)
	if err != nil {
		return nil, err
	}
	priv, err := ParseBase58(s)
	if err != nil {
		return nil, err
	}
	return NewKeypair(priv)
}

// ParseBase58 decodes a base58 encoded 64 byte secret key.
func ParseBase58(s string) (solana.PrivateKey, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return nil, ErrEmptySecret
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(b) != consts.SecretKeyLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, consts.SecretKeyLen, len(b))
	}
	return solana.PrivateKey(b), nil
}

// MnemonicAdapter derives a key from a BIP-39 phrase the same way
// solana-keygen does without a derivation path: the first 32 bytes of the
// BIP-39 seed are the ed25519 seed.
type MnemonicAdapter struct {
	mnemonic   SecretSource
	passphrase SecretSource
}

func NewMnemonicAdapter(mnemonic SecretSource, passphrase SecretSource) *MnemonicAdapter {
	if passphrase == nil {
		passphrase = StaticSecret("")
	}
	return &MnemonicAdapter{mnemonic: mnemonic, passphrase: passphrase}
}

func (*MnemonicAdapter) Name() string { return MnemonicAdapterName }

func (a *MnemonicAdapter) Connect(ctx context.Context) (Wallet, error) {
	mnemonic, err := a.mnemonic(ctx)
	if err != nil {
		return nil, err
	}
	passphrase, err := a.passphrase(ctx)
	if err != nil {
		return nil, err
	}
	priv, err := FromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return NewKeypair(priv)
}

func FromMnemonic(mnemonic string, passphrase string) (solana.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if len(mnemonic) == 0 {
		return nil, ErrEmptySecret
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])), nil
}

// KeystoreAdapter connects the default key of a local keystore.
type KeystoreAdapter struct {
	store DefaultKeyGetter
}

func NewKeystoreAdapter(store DefaultKeyGetter) *KeystoreAdapter {
	return &KeystoreAdapter{store: store}
}

func (*KeystoreAdapter) Name() string { return KeystoreAdapterName }

func (a *KeystoreAdapter) Connect(context.Context) (Wallet, error) {
	priv, err := a.store.GetDefaultKey()
	if err != nil {
		return nil, err
	}
	return NewKeypair(priv)
}

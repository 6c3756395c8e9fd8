// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/hdevalence/ed25519consensus"

	"github.com/ava-labs/counterdapp/consts"
)

// Wallet is the capability a connected adapter hands out: an identity and
// the ability to sign with it. Callers never see the secret.
type Wallet interface {
	PublicKey() solana.PublicKey
	SignMessage(ctx context.Context, msg []byte) (solana.Signature, error)
}

var _ Wallet = (*Keypair)(nil)

// Keypair is a Wallet backed by an in-memory ed25519 key.
type Keypair struct {
	priv solana.PrivateKey
	pub  solana.PublicKey
}

func NewKeypair(priv solana.PrivateKey) (*Keypair, error) {
	if len(priv) != consts.SecretKeyLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, consts.SecretKeyLen, len(priv))
	}
	// The trailing 32 bytes must be the public key of the leading seed.
	derived := ed25519.NewKeyFromSeed(priv[:ed25519.SeedSize])
	if !derived.Equal(ed25519.PrivateKey(priv)) {
		return nil, fmt.Errorf("%w: public key does not match seed", ErrInvalidKey)
	}
	return &Keypair{priv: priv, pub: priv.PublicKey()}, nil
}

// GenerateKeypair returns a Wallet for a fresh random key.
func GenerateKeypair() (*Keypair, error) {
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	return NewKeypair(priv)
}

func (k *Keypair) PublicKey() solana.PublicKey {
	return k.pub
}

func (k *Keypair) PrivateKey() solana.PrivateKey {
	return k.priv
}

func (k *Keypair) SignMessage(_ context.Context, msg []byte) (solana.Signature, error) {
	return k.priv.Sign(msg)
}

// Verify returns whether [sig] is a valid signature of [msg] by [pub]. We use
// ZIP-215 validation rules so signatures produced by any ed25519 signer are
// judged consistently.
func Verify(msg []byte, pub solana.PublicKey, sig solana.Signature) bool {
	return ed25519consensus.Verify(ed25519.PublicKey(pub[:]), msg, sig[:])
}

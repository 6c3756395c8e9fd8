// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keystore

import (
	"crypto/rand"

	"github.com/near/borsh-go"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	envelopeVersion = 1
	saltSize        = 16
)

// envelope is the at-rest form of a secret key. The KDF parameters travel
// with the ciphertext so they can be tuned without breaking old entries.
type envelope struct {
	Version     uint8
	KDFTime     uint32
	KDFMemoryKB uint32
	KDFThreads  uint8
	Salt        []byte
	Nonce       []byte
	Ciphertext  []byte
}

func seal(cfg Config, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	env := envelope{
		Version:     envelopeVersion,
		KDFTime:     cfg.KDFTime,
		KDFMemoryKB: cfg.KDFMemoryKB,
		KDFThreads:  cfg.KDFThreads,
		Salt:        salt,
	}
	key := deriveKey(cfg.Passphrase, &env)
	defer clear(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	env.Nonce = make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(env.Nonce); err != nil {
		return nil, err
	}
	env.Ciphertext = aead.Seal(nil, env.Nonce, plaintext, nil)
	return borsh.Serialize(env)
}

func open(passphrase string, raw []byte) ([]byte, error) {
	var env envelope
	if err := borsh.Deserialize(&env, raw); err != nil {
		return nil, ErrInvalidEnvelope
	}
	if env.Version != envelopeVersion || len(env.Salt) != saltSize ||
		len(env.Nonce) != chacha20poly1305.NonceSizeX || env.KDFThreads == 0 {
		return nil, ErrInvalidEnvelope
	}
	key := deriveKey(passphrase, &env)
	defer clear(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func deriveKey(passphrase string, env *envelope) []byte {
	return argon2.IDKey([]byte(passphrase), env.Salt, env.KDFTime, env.KDFMemoryKB, env.KDFThreads, chacha20poly1305.KeySize)
}

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keystore

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/counterdapp/consts"
)

const (
	defaultPrefix = 0x0
	keyPrefix     = 0x1

	defaultKeyKey = "key"
)

type Config struct {
	Passphrase  string
	Sync        bool
	KDFTime     uint32
	KDFMemoryKB uint32
	KDFThreads  uint8
}

func NewDefaultConfig() Config {
	return Config{
		Sync:        true,
		KDFTime:     2,
		KDFMemoryKB: 64 * 1024,
		KDFThreads:  1,
	}
}

// Store keeps sealed secret keys and the default key selection in a local
// pebble database.
type Store struct {
	cfg Config

	lock sync.RWMutex
	db   *pebble.DB
}

func Open(dir string, cfg Config) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("unable to open keystore: %w", err)
	}
	return &Store{cfg: cfg, db: db}, nil
}

func (s *Store) writeOpts() *pebble.WriteOptions {
	if s.cfg.Sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

func prefixed(prefix byte, key []byte) []byte {
	k := make([]byte, 1+len(key))
	k[0] = prefix
	copy(k[1:], key)
	return k
}

// get returns a copy of the value stored at [k] or nil when it is missing.
func (s *Store) get(k []byte) ([]byte, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	v, closer, err := s.db.Get(k)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return bytes.Clone(v), nil
}

func (s *Store) StoreDefault(key string, value []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.db == nil {
		return ErrClosed
	}
	return s.db.Set(prefixed(defaultPrefix, []byte(key)), value, s.writeOpts())
}

func (s *Store) GetDefault(key string) ([]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.get(prefixed(defaultPrefix, []byte(key)))
}

// StoreKey seals [privateKey] under the configured passphrase.
func (s *Store) StoreKey(privateKey solana.PrivateKey) error {
	if len(privateKey) != consts.SecretKeyLen {
		return fmt.Errorf("%w: expected %d byte secret key", ErrInvalidEnvelope, consts.SecretKeyLen)
	}
	publicKey := privateKey.PublicKey()
	k := prefixed(keyPrefix, publicKey[:])

	s.lock.Lock()
	defer s.lock.Unlock()

	has, err := s.get(k)
	if err != nil {
		return err
	}
	if has != nil {
		return ErrDuplicate
	}
	sealed, err := seal(s.cfg, privateKey)
	if err != nil {
		return err
	}
	return s.db.Set(k, sealed, s.writeOpts())
}

func (s *Store) GetKey(publicKey solana.PublicKey) (solana.PrivateKey, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, err := s.get(prefixed(keyPrefix, publicKey[:]))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, publicKey)
	}
	plain, err := open(s.cfg.Passphrase, v)
	if err != nil {
		return nil, err
	}
	return solana.PrivateKey(plain), nil
}

// PublicKeys lists stored identities without unsealing anything.
func (s *Store) PublicKeys() ([]solana.PublicKey, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.db == nil {
		return nil, ErrClosed
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{keyPrefix},
		UpperBound: []byte{keyPrefix + 1},
	})
	if err != nil {
		return nil, err
	}
	publicKeys := []solana.PublicKey{}
	for iter.First(); iter.Valid(); iter.Next() {
		k := iter.Key()
		if len(k) != 1+consts.PublicKeyLen {
			continue
		}
		publicKeys = append(publicKeys, solana.PublicKeyFromBytes(k[1:]))
	}
	if err := iter.Error(); err != nil {
		_ = iter.Close()
		return nil, err
	}
	return publicKeys, iter.Close()
}

func (s *Store) GetKeys() ([]solana.PrivateKey, error) {
	publicKeys, err := s.PublicKeys()
	if err != nil {
		return nil, err
	}
	privateKeys := make([]solana.PrivateKey, 0, len(publicKeys))
	for _, pk := range publicKeys {
		priv, err := s.GetKey(pk)
		if err != nil {
			return nil, err
		}
		privateKeys = append(privateKeys, priv)
	}
	return privateKeys, nil
}

// StoreDefaultKey selects [pk] as the default. The key must already be
// stored.
func (s *Store) StoreDefaultKey(pk solana.PublicKey) error {
	s.lock.RLock()
	v, err := s.get(prefixed(keyPrefix, pk[:]))
	s.lock.RUnlock()
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, pk)
	}
	return s.StoreDefault(defaultKeyKey, pk[:])
}

func (s *Store) GetDefaultPublicKey() (solana.PublicKey, error) {
	v, err := s.GetDefault(defaultKeyKey)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if len(v) != consts.PublicKeyLen {
		return solana.PublicKey{}, ErrNoKeys
	}
	return solana.PublicKeyFromBytes(v), nil
}

func (s *Store) GetDefaultKey() (solana.PrivateKey, error) {
	pk, err := s.GetDefaultPublicKey()
	if err != nil {
		return nil, err
	}
	return s.GetKey(pk)
}

func (s *Store) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("unable to close keystore: %w", err)
	}
	// Allow the store to be closed multiple times
	s.db = nil
	return nil
}

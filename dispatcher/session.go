// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dispatcher

import (
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/counterdapp/wallet"
)

// Session owns the Counter Account key pair. The key is generated when the
// session starts and lives until Reset; it is never persisted.
type Session struct {
	lock    sync.RWMutex
	counter *wallet.Keypair
}

func NewSession() (*Session, error) {
	kp, err := wallet.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	return &Session{counter: kp}, nil
}

// Counter returns the current Counter Account key pair.
func (s *Session) Counter() *wallet.Keypair {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.counter
}

func (s *Session) Address() solana.PublicKey {
	return s.Counter().PublicKey()
}

// Reset replaces the Counter Account with a fresh, uninitialized one.
func (s *Session) Reset() (solana.PublicKey, error) {
	kp, err := wallet.GenerateKeypair()
	if err != nil {
		return solana.PublicKey{}, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.counter = kp
	return kp.PublicKey(), nil
}

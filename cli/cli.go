// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"github.com/ava-labs/counterdapp/keystore"
	"github.com/ava-labs/counterdapp/utils"
)

type Handler struct {
	c Controller

	store *keystore.Store
}

func New(c Controller) (*Handler, error) {
	path, err := utils.ExpandHome(c.DatabasePath())
	if err != nil {
		return nil, err
	}
	store, err := keystore.Open(path, c.KeystoreConfig())
	if err != nil {
		return nil, err
	}
	return &Handler{c, store}, nil
}

// Keystore exposes the underlying store so it can back a wallet adapter.
func (h *Handler) Keystore() *keystore.Store {
	return h.store
}

func (h *Handler) CloseDatabase() error {
	return h.store.Close()
}

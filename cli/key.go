// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"encoding/json"
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/counterdapp/cli/prompt"
	"github.com/ava-labs/counterdapp/keystore"
	"github.com/ava-labs/counterdapp/utils"
	"github.com/ava-labs/counterdapp/wallet"
)

const maxSecretLen = 1024

// GenerateKey creates a new key, stores it and makes it the default.
func (h *Handler) GenerateKey() (solana.PublicKey, error) {
	kp, err := wallet.GenerateKeypair()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return h.storeAsDefault(kp.PrivateKey(), "created")
}

// ImportKeypairFile imports a solana-keygen JSON key file.
func (h *Handler) ImportKeypairFile(path string) (solana.PublicKey, error) {
	path, err := utils.ExpandHome(path)
	if err != nil {
		return solana.PublicKey{}, err
	}
	priv, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return h.importKey(priv)
}

// ImportBase58 imports a base58 secret key, prompting for it when [secret] is
// empty.
func (h *Handler) ImportBase58(secret string) (solana.PublicKey, error) {
	if secret == "" {
		var err error
		secret, err = prompt.Secret("secret key (base58)", false)
		if err != nil {
			return solana.PublicKey{}, err
		}
	}
	priv, err := wallet.ParseBase58(secret)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return h.importKey(priv)
}

// ImportMnemonic imports the key derived from a BIP-39 phrase and optional
// passphrase.
func (h *Handler) ImportMnemonic() (solana.PublicKey, error) {
	mnemonic, err := prompt.String("mnemonic", 1, maxSecretLen)
	if err != nil {
		return solana.PublicKey{}, err
	}
	passphrase, err := prompt.Secret("bip39 passphrase", true)
	if err != nil {
		return solana.PublicKey{}, err
	}
	priv, err := wallet.FromMnemonic(mnemonic, passphrase)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return h.importKey(priv)
}

func (h *Handler) importKey(priv solana.PrivateKey) (solana.PublicKey, error) {
	if _, err := wallet.NewKeypair(priv); err != nil {
		return solana.PublicKey{}, err
	}
	return h.storeAsDefault(priv, "imported")
}

func (h *Handler) storeAsDefault(priv solana.PrivateKey, verb string) (solana.PublicKey, error) {
	pk := priv.PublicKey()
	if err := h.store.StoreKey(priv); err != nil {
		return solana.PublicKey{}, err
	}
	if err := h.store.StoreDefaultKey(pk); err != nil {
		return solana.PublicKey{}, err
	}
	utils.Outf("{{green}}%s address:{{/}} %s\n", verb, pk)
	return pk, nil
}

// ListKeys prints every stored key and marks the default.
func (h *Handler) ListKeys() ([]solana.PublicKey, error) {
	keys, err := h.store.PublicKeys()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		utils.Outf("{{red}}no stored keys{{/}}\n")
		return nil, nil
	}
	def, err := h.store.GetDefaultPublicKey()
	if err != nil && !errors.Is(err, keystore.ErrNoKeys) {
		return nil, err
	}
	utils.Outf("{{cyan}}stored keys:{{/}} %d\n", len(keys))
	for i, k := range keys {
		marker := ""
		if k == def {
			marker = " {{green}}(default){{/}}"
		}
		utils.Outf("%d) {{cyan}}address:{{/}} %s"+marker+"\n", i, k)
	}
	return keys, nil
}

func (h *Handler) SetKey() error {
	keys, err := h.ListKeys()
	if err != nil || len(keys) == 0 {
		return err
	}

	// Select key
	keyIndex, err := prompt.Choice("set default key", len(keys))
	if err != nil {
		return err
	}
	return h.store.StoreDefaultKey(keys[keyIndex])
}

// GetDefaultKey prints and returns the default key.
func (h *Handler) GetDefaultKey(log bool) (solana.PrivateKey, error) {
	priv, err := h.store.GetDefaultKey()
	if err != nil {
		return nil, err
	}
	if log {
		utils.Outf("{{yellow}}address:{{/}} %s\n", priv.PublicKey())
	}
	return priv, nil
}

// ExportKey writes the default key to [path] in solana-keygen format so it
// can be used with the keypair wallet.
func (h *Handler) ExportKey(path string) error {
	priv, err := h.GetDefaultKey(true)
	if err != nil {
		return err
	}
	path, err = utils.ExpandHome(path)
	if err != nil {
		return err
	}
	b, err := keygenJSON(priv)
	if err != nil {
		return err
	}
	if err := utils.SaveBytes(path, b); err != nil {
		return err
	}
	utils.Outf("{{green}}exported key:{{/}} %s\n", path)
	return nil
}

// keygenJSON renders [priv] as a JSON array of byte values. Marshalling the
// []byte directly would produce base64.
func keygenJSON(priv solana.PrivateKey) ([]byte, error) {
	return json.Marshal(utils.Map(func(b byte) int { return int(b) }, priv))
}

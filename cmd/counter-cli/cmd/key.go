// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use: "key",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var genKeyCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create a key and make it the default",
	RunE: func(*cobra.Command, []string) error {
		_, err := handler.Root().GenerateKey()
		return err
	},
}

var importKeyCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import a solana-keygen key file",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		_, err := handler.Root().ImportKeypairFile(args[0])
		return err
	},
}

var importBase58KeyCmd = &cobra.Command{
	Use:   "import-base58 [secret]",
	Short: "Import a base58 secret key (prompts when omitted)",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) > 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		secret := ""
		if len(args) == 1 {
			secret = args[0]
		}
		_, err := handler.Root().ImportBase58(secret)
		return err
	},
}

var importMnemonicKeyCmd = &cobra.Command{
	Use:   "import-mnemonic",
	Short: "Import the key derived from a BIP-39 phrase",
	RunE: func(*cobra.Command, []string) error {
		_, err := handler.Root().ImportMnemonic()
		return err
	},
}

var setKeyCmd = &cobra.Command{
	Use:   "set",
	Short: "Choose the default key",
	RunE: func(*cobra.Command, []string) error {
		return handler.Root().SetKey()
	},
}

var listKeyCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keys",
	RunE: func(*cobra.Command, []string) error {
		_, err := handler.Root().ListKeys()
		return err
	},
}

var exportKeyCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the default key as a solana-keygen file",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		return handler.Root().ExportKey(args[0])
	},
}

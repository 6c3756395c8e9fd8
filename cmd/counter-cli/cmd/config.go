// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/counterdapp/utils"
)

var configCmd = &cobra.Command{
	Use: "config",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective config to --config",
	RunE: func(*cobra.Command, []string) error {
		_, err := os.Stat(configFile)
		switch {
		case err == nil && !forceConfig:
			return fmt.Errorf("%w: %s", ErrConfigExists, configFile)
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return err
		}
		if err := handler.Config().Save(configFile); err != nil {
			return err
		}
		utils.Outf("{{green}}wrote config:{{/}} %s\n", configFile)
		return nil
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	RunE: func(*cobra.Command, []string) error {
		b, err := yaml.Marshal(handler.Config())
		if err != nil {
			return err
		}
		endpoint, err := handler.Config().RPCEndpoint()
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}endpoint:{{/}} %s\n", endpoint)
		utils.Outf("%s", b)
		return nil
	},
}

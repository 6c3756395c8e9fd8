// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/counterdapp/server"
)

var prometheusCmd = &cobra.Command{
	Use: "prometheus",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var generatePrometheusCmd = &cobra.Command{
	Use: "generate",
	RunE: func(*cobra.Command, []string) error {
		uris := prometheusURIs
		if len(uris) == 0 {
			uris = []string{"http://" + handler.Config().ListenAddress}
		}
		return handler.Root().GeneratePrometheus(
			uris,
			server.MetricsEndpoint,
			prometheusBaseURI,
			prometheusOpenBrowser,
			startPrometheus,
			prometheusFile,
			prometheusData,
		)
	},
}

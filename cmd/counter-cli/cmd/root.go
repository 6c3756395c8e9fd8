// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/counterdapp/cli"
	"github.com/ava-labs/counterdapp/config"
	"github.com/ava-labs/counterdapp/logging"
	"github.com/ava-labs/counterdapp/utils"
)

const defaultConfig = "counter.yaml"

var (
	handler *Handler

	configFile   string
	dbPath       string
	network      string
	endpoint     string
	walletName   string
	logLevel     string
	logDirectory string

	forceConfig bool

	listenAddress string
	openBrowser   bool

	serverURI string

	prometheusURIs        []string
	prometheusBaseURI     string
	prometheusOpenBrowser bool
	prometheusFile        string
	prometheusData        string
	startPrometheus       bool

	rootCmd = &cobra.Command{
		Use:        "counter-cli",
		Short:      "Counter program CLI",
		SuggestFor: []string{"counter-cli", "countercli"},
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(
		configCmd,
		keyCmd,
		actionCmd,
		consoleCmd,
		serveCmd,
		remoteCmd,
		prometheusCmd,
	)
	rootCmd.PersistentFlags().StringVar(
		&configFile,
		"config",
		defaultConfig,
		"path to config file (defaults are used when missing)",
	)
	rootCmd.PersistentFlags().StringVar(
		&dbPath,
		"database",
		"",
		"path to keystore database (will create it missing)",
	)
	rootCmd.PersistentFlags().StringVar(
		&network,
		"network",
		"",
		"cluster to use (localnet, devnet, testnet, mainnet-beta)",
	)
	rootCmd.PersistentFlags().StringVar(
		&endpoint,
		"endpoint",
		"",
		"RPC endpoint (overrides --network)",
	)
	rootCmd.PersistentFlags().StringVar(
		&walletName,
		"wallet",
		"",
		"wallet adapter to connect at startup (keypair, base58, mnemonic, keystore)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"",
		"log level (debug, info, warn, error)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logDirectory,
		"log-dir",
		"",
		"directory for rotated log files",
	)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, logCloser, err := logging.New(logging.NewConfig("counter-cli", cfg.LogLevel, cfg.LogDirectory))
		if err != nil {
			return err
		}
		rpcEndpoint, err := cfg.RPCEndpoint()
		if err != nil {
			return err
		}
		log.Debug("loaded config",
			zap.String("path", configFile),
			zap.String("endpoint", rpcEndpoint),
			zap.String("programID", cfg.ProgramID),
		)
		utils.Outf("{{yellow}}database:{{/}} %s\n", cfg.KeystorePath)
		controller := NewController(cfg.KeystorePath)
		root, err := cli.New(controller)
		if err != nil {
			return errors.Join(err, logCloser.Close())
		}
		h, err := NewHandler(root, cfg, log, logCloser)
		if err != nil {
			return errors.Join(err, root.CloseDatabase(), logCloser.Close())
		}
		handler = h
		return nil
	}
	rootCmd.SilenceErrors = true

	// config
	initConfigCmd.PersistentFlags().BoolVar(
		&forceConfig,
		"force",
		false,
		"overwrite an existing config",
	)
	configCmd.AddCommand(
		initConfigCmd,
		showConfigCmd,
	)

	// key
	keyCmd.AddCommand(
		genKeyCmd,
		importKeyCmd,
		importBase58KeyCmd,
		importMnemonicKeyCmd,
		setKeyCmd,
		listKeyCmd,
		exportKeyCmd,
	)

	// actions
	actionCmd.AddCommand(
		initializeCmd,
		incrementCmd,
		decrementCmd,
		updateCmd,
		sequenceCmd,
	)

	// serve
	serveCmd.PersistentFlags().StringVar(
		&listenAddress,
		"listen",
		"",
		"address to serve the page on (defaults to config)",
	)
	serveCmd.PersistentFlags().BoolVar(
		&openBrowser,
		"open",
		false,
		"open the page in a browser",
	)

	// remote
	remoteCmd.PersistentFlags().StringVar(
		&serverURI,
		"uri",
		"",
		"counter server URI (defaults to the configured listen address)",
	)
	remoteCmd.AddCommand(
		remoteStatusCmd,
		remoteConnectCmd,
		remoteDisconnectCmd,
		remoteActionCmd,
		remoteResetCmd,
	)

	// prometheus
	generatePrometheusCmd.PersistentFlags().StringSliceVar(
		&prometheusURIs,
		"uris",
		nil,
		"counter servers to scrape (defaults to the configured listen address)",
	)
	generatePrometheusCmd.PersistentFlags().StringVar(
		&prometheusBaseURI,
		"prometheus-base-uri",
		"http://localhost:9090",
		"prometheus server location",
	)
	generatePrometheusCmd.PersistentFlags().BoolVar(
		&prometheusOpenBrowser,
		"prometheus-open-browser",
		true,
		"open browser to prometheus dashboard",
	)
	generatePrometheusCmd.PersistentFlags().StringVar(
		&prometheusFile,
		"prometheus-file",
		"/tmp/prometheus.yaml",
		"prometheus file location",
	)
	generatePrometheusCmd.PersistentFlags().StringVar(
		&prometheusData,
		"prometheus-data",
		fmt.Sprintf("/tmp/prometheus-%d", time.Now().Unix()),
		"prometheus data location",
	)
	generatePrometheusCmd.PersistentFlags().BoolVar(
		&startPrometheus,
		"prometheus-start",
		true,
		"start local prometheus server",
	)
	prometheusCmd.AddCommand(
		generatePrometheusCmd,
	)
}

// loadConfig reads [configFile] and applies any flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("database") {
		cfg.KeystorePath = dbPath
	}
	if flags.Changed("network") {
		cfg.Network = network
		// An explicit network replaces whatever endpoint the file pinned.
		cfg.Endpoint = ""
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint = endpoint
	}
	if flags.Changed("wallet") {
		cfg.Wallet = walletName
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-dir") {
		cfg.LogDirectory = logDirectory
	}
	return cfg, cfg.Verify()
}

func Execute() error {
	return execute(rootCmd)
}

// execute runs [root] and then closes the handler. Cobra skips post-run
// hooks when RunE fails, so the close cannot live there.
func execute(root *cobra.Command) error {
	err := root.Execute()
	if handler == nil {
		return err
	}
	closeErr := handler.Close()
	handler = nil
	return errors.Join(err, closeErr)
}

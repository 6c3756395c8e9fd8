// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/ava-labs/counterdapp/dispatcher"
	"github.com/ava-labs/counterdapp/utils"
)

const consoleHelp = `commands:
  initialize | increment | decrement | update [amount]
  reset                  new Counter Account
  wallet [adapter]       show, connect, or "wallet disconnect"
  status
  exit
`

var errExitConsole = errors.New("exit")

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive session sharing one Counter Account",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		d, err := newSessionDispatcher(ctx)
		if err != nil {
			return err
		}
		utils.Outf("%s", consoleHelp)
		for {
			line, err := (&promptui.Prompt{Label: "counter"}).Run()
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			if err != nil {
				return err
			}
			err = consoleLine(ctx, d, line)
			if errors.Is(err, errExitConsole) {
				return nil
			}
			// Action failures were already reported; keep the session.
			if err != nil {
				handler.Log().Debug(err.Error())
			}
		}
	},
}

func consoleLine(ctx context.Context, d *dispatcher.Dispatcher, line string) error {
	tokens, err := shellwords.Parse(line)
	if err != nil {
		utils.Outf("{{red}}unable to parse:{{/}} %v\n", err)
		return err
	}
	if len(tokens) == 0 {
		return nil
	}
	switch tokens[0] {
	case "exit", "quit":
		return errExitConsole
	case "help":
		utils.Outf("%s", consoleHelp)
		return nil
	case "reset":
		addr, err := d.Reset()
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}counter account:{{/}} %s\n", addr)
		return nil
	case "status":
		printStatus(d)
		return nil
	case "wallet":
		return consoleWallet(ctx, tokens[1:])
	}
	steps, err := parseSteps(tokens)
	if err != nil {
		utils.Outf("{{red}}%v{{/}}\n", err)
		return err
	}
	for _, s := range steps {
		if err := runStep(ctx, d, s); err != nil {
			return err
		}
	}
	return nil
}

func consoleWallet(ctx context.Context, args []string) error {
	wallets := handler.Wallets()
	switch {
	case len(args) == 0:
		printWallet()
		return nil
	case len(args) > 1:
		return fmt.Errorf("%w: wallet takes at most one argument", ErrInvalidArgs)
	case args[0] == "disconnect":
		wallets.Disconnect()
		printWallet()
		return nil
	}
	if _, err := wallets.Connect(ctx, args[0]); err != nil {
		utils.Outf("{{red}}unable to connect %s:{{/}} %v\n", args[0], err)
		return err
	}
	printWallet()
	return nil
}

func printWallet() {
	wallets := handler.Wallets()
	w, ok := wallets.Wallet()
	if !ok {
		utils.Outf("{{yellow}}wallet:{{/}} not connected {{cyan}}adapters:{{/}} %v\n", wallets.Adapters())
		return
	}
	utils.Outf("{{yellow}}wallet:{{/}} %s (%s)\n", w.PublicKey(), wallets.Adapter())
}

func printStatus(d *dispatcher.Dispatcher) {
	utils.Outf("{{yellow}}endpoint:{{/}} %s\n", handler.Wallets().Endpoint())
	utils.Outf("{{yellow}}program:{{/}} %s\n", handler.Config().ProgramID)
	utils.Outf("{{yellow}}counter account:{{/}} %s\n", d.Session().Address())
	printWallet()
}

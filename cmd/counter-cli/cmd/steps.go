// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ava-labs/counterdapp/cli/prompt"
	"github.com/ava-labs/counterdapp/dispatcher"
	"github.com/ava-labs/counterdapp/utils"
)

// step is one action with its optional update amount.
type step struct {
	action string
	amount *big.Int
}

func isAction(s string) bool {
	switch s {
	case dispatcher.Initialize, dispatcher.Increment, dispatcher.Decrement, dispatcher.Update:
		return true
	default:
		return false
	}
}

// parseSteps turns "initialize increment update 7 decrement" into steps. A
// number may only follow update; update without one uses the default amount.
func parseSteps(tokens []string) ([]step, error) {
	steps := make([]step, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		action := tokens[i]
		if !isAction(action) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, action)
		}
		s := step{action: action}
		if action == dispatcher.Update && i+1 < len(tokens) && !isAction(tokens[i+1]) {
			amount, err := prompt.ParseAmount(tokens[i+1])
			if err != nil {
				return nil, err
			}
			s.amount = amount
			i++
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// runStep dispatches [s] and reports the outcome on stdout.
func runStep(ctx context.Context, d *dispatcher.Dispatcher, s step) error {
	acct, err := d.Do(ctx, s.action, s.amount)
	switch {
	case errors.Is(err, dispatcher.ErrWalletNotConnected):
		utils.Outf("{{red}}%s:{{/}} wallet not connected\n", s.action)
		return err
	case err != nil:
		utils.Outf("{{red}}%s failed:{{/}} %v\n", s.action, err)
		return err
	}
	utils.Outf(
		"{{green}}%s:{{/}} {{cyan}}account:{{/}} %s {{cyan}}data:{{/}} %d\n",
		s.action,
		d.Session().Address(),
		acct.Data,
	)
	return nil
}

// newSessionDispatcher connects the configured wallet and returns a
// dispatcher with a fresh Counter Account.
func newSessionDispatcher(ctx context.Context) (*dispatcher.Dispatcher, error) {
	handler.ConnectDefault(ctx)
	d, err := handler.NewDispatcher(nil, nil)
	if err != nil {
		return nil, err
	}
	if w, ok := handler.Wallets().Wallet(); ok {
		utils.Outf("{{yellow}}wallet:{{/}} %s (%s)\n", w.PublicKey(), handler.Wallets().Adapter())
	}
	utils.Outf("{{yellow}}counter account:{{/}} %s\n", d.Session().Address())
	return d, nil
}

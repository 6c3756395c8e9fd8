// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ava-labs/counterdapp/dispatcher"
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Run counter actions against a fresh Counter Account",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

func actionRunE(action string) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		steps, err := parseSteps(append([]string{action}, args...))
		if err != nil {
			return err
		}
		if len(steps) != 1 {
			return ErrInvalidArgs
		}
		ctx := context.Background()
		d, err := newSessionDispatcher(ctx)
		if err != nil {
			return err
		}
		return runStep(ctx, d, steps[0])
	}
}

var initializeCmd = &cobra.Command{
	Use:   dispatcher.Initialize,
	Short: "Create a Counter Account",
	RunE:  actionRunE(dispatcher.Initialize),
}

var incrementCmd = &cobra.Command{
	Use:   dispatcher.Increment,
	Short: "Add one to the Counter Account",
	RunE:  actionRunE(dispatcher.Increment),
}

var decrementCmd = &cobra.Command{
	Use:   dispatcher.Decrement,
	Short: "Subtract one from the Counter Account",
	RunE:  actionRunE(dispatcher.Decrement),
}

var updateCmd = &cobra.Command{
	Use:   dispatcher.Update + " [amount]",
	Short: "Overwrite the Counter Account (defaults to 100)",
	RunE:  actionRunE(dispatcher.Update),
}

var sequenceCmd = &cobra.Command{
	Use:   "sequence [actions...]",
	Short: "Run several actions against one Counter Account",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) == 0 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		steps, err := parseSteps(args)
		if err != nil {
			return err
		}
		ctx := context.Background()
		d, err := newSessionDispatcher(ctx)
		if err != nil {
			return err
		}
		for _, s := range steps {
			if err := runStep(ctx, d, s); err != nil {
				return err
			}
		}
		return nil
	},
}

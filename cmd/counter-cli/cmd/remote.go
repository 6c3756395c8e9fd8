// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ava-labs/counterdapp/consts"
	"github.com/ava-labs/counterdapp/dispatcher"
	"github.com/ava-labs/counterdapp/server"
	"github.com/ava-labs/counterdapp/utils"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Drive a running counter server",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

func remoteClient() *server.Client {
	uri := serverURI
	if uri == "" {
		uri = "http://" + handler.Config().ListenAddress
	}
	return server.NewClient(uri)
}

func printWalletReply(w *server.WalletReply) {
	if !w.Connected {
		utils.Outf("{{yellow}}wallet:{{/}} not connected\n")
		return
	}
	utils.Outf("{{yellow}}wallet:{{/}} %s (%s)\n", w.PublicKey, w.Adapter)
}

var remoteStatusCmd = &cobra.Command{
	Use: "status",
	RunE: func(*cobra.Command, []string) error {
		status, err := remoteClient().Status(context.Background())
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}endpoint:{{/}} %s\n", status.Endpoint)
		utils.Outf("{{yellow}}program:{{/}} %s\n", status.ProgramID)
		utils.Outf("{{yellow}}counter account:{{/}} %s\n", status.Account)
		utils.Outf("{{yellow}}adapters:{{/}} %v {{yellow}}inflight:{{/}} %d\n", status.Adapters, status.Inflight)
		printWalletReply(&status.WalletReply)
		return nil
	},
}

var remoteConnectCmd = &cobra.Command{
	Use: "connect [adapter]",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		w, err := remoteClient().Connect(context.Background(), args[0])
		if err != nil {
			return err
		}
		printWalletReply(w)
		return nil
	},
}

var remoteDisconnectCmd = &cobra.Command{
	Use: "disconnect",
	RunE: func(*cobra.Command, []string) error {
		w, err := remoteClient().Disconnect(context.Background())
		if err != nil {
			return err
		}
		printWalletReply(w)
		return nil
	},
}

var remoteResetCmd = &cobra.Command{
	Use: "reset",
	RunE: func(*cobra.Command, []string) error {
		addr, err := remoteClient().Reset(context.Background())
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}counter account:{{/}} %s\n", addr)
		return nil
	},
}

var remoteActionCmd = &cobra.Command{
	Use:   "action [initialize|increment|decrement|update] [amount]",
	Short: "Run one action on the server's session",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) == 0 || len(args) > 2 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		steps, err := parseSteps(args)
		if err != nil {
			return err
		}
		if len(steps) != 1 {
			return ErrInvalidArgs
		}
		var (
			ctx   = context.Background()
			c     = remoteClient()
			s     = steps[0]
			reply *server.ActionReply
		)
		switch s.action {
		case dispatcher.Initialize:
			reply, err = c.Initialize(ctx)
		case dispatcher.Increment:
			reply, err = c.Increment(ctx)
		case dispatcher.Decrement:
			reply, err = c.Decrement(ctx)
		case dispatcher.Update:
			amount := strconv.FormatUint(consts.UpdateAmount, 10)
			if s.amount != nil {
				amount = s.amount.String()
			}
			reply, err = c.Update(ctx, amount)
		}
		if err != nil {
			utils.Outf("{{red}}%s failed:{{/}} %v\n", s.action, err)
			return err
		}
		utils.Outf("{{green}}%s:{{/}} {{cyan}}account:{{/}} %s {{cyan}}data:{{/}} %s\n", s.action, reply.Account, reply.Data)
		return nil
	},
}

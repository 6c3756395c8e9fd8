// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/counterdapp/pubsub"
	"github.com/ava-labs/counterdapp/server"
	"github.com/ava-labs/counterdapp/utils"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the counter page, JSON-RPC service, and event feed",
	RunE: func(*cobra.Command, []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var (
			cfg     = handler.Config()
			log     = handler.Log()
			wallets = handler.Wallets()
		)
		handler.ConnectDefault(ctx)
		// From here on connects arrive over HTTP and must not block on stdin.
		handler.DisablePrompts()

		registry := prometheus.NewRegistry()
		if err := errors.Join(
			registry.Register(collectors.NewGoCollector()),
			registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})),
		); err != nil {
			return err
		}
		feedConfig := pubsub.NewDefaultServerConfig()
		feedConfig.AllowedOrigins = cfg.AllowedOrigins
		feed, err := pubsub.New(log, feedConfig, nil)
		if err != nil {
			return err
		}
		d, err := handler.NewDispatcher(registry, server.NewEventFeed(log, feed))
		if err != nil {
			return err
		}

		addr := cfg.ListenAddress
		if listenAddress != "" {
			addr = listenAddress
		}
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		s := server.New(log, listener, server.NewDefaultHTTPConfig(), cfg.AllowedOrigins, shutdownTimeout)
		page, err := server.NewPage(cfg.ProgramID, wallets.Endpoint(), wallets.Adapters())
		if err != nil {
			return err
		}
		svc := server.NewService(log, wallets, d, cfg.ProgramID)
		if err := s.RegisterCounter(svc, page, feed, registry); err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := s.Dispatch(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info("shutting down")
			feed.Close()
			return s.Shutdown()
		})

		uri := "http://" + s.Addr().String()
		utils.Outf("{{green}}serving:{{/}} %s\n", uri)
		if openBrowser {
			if err := browser.OpenURL(uri); err != nil {
				log.Warn("unable to open browser", zap.Error(err))
			}
		}
		return g.Wait()
	},
}

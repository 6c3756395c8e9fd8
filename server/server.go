// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ava-labs/counterdapp/utils"
)

type HTTPConfig struct {
	ReadTimeout       time.Duration `yaml:"readTimeout"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
	WriteTimeout      time.Duration `yaml:"writeTimeout"`
	IdleTimeout       time.Duration `yaml:"idleTimeout"`
}

func NewDefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// Actions wait for confirmation, so writes get as long as the
		// confirmation timeout plus some slack.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Server maintains the HTTP router.
type Server struct {
	// log this server writes to
	log *zap.Logger

	shutdownTimeout time.Duration

	// Maps endpoints to handlers
	router *mux.Router

	handler http.Handler
	srv     *http.Server

	// Listener used to serve traffic
	listener net.Listener
}

// New returns an instance of a Server.
func New(
	log *zap.Logger,
	listener net.Listener,
	httpConfig HTTPConfig,
	allowedOrigins []string,
	shutdownTimeout time.Duration,
) *Server {
	router := mux.NewRouter()
	// An empty origin list means same-origin only. rs/cors treats an empty
	// AllowedOrigins as "*", so the list is matched here instead.
	corsHandler := cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return utils.OriginListed(allowedOrigins, origin)
		},
		AllowCredentials: true,
	}).Handler(router)
	gzipHandler := gziphandler.GzipHandler(corsHandler)
	// cors only decorates responses, so foreign origins are refused before
	// they reach a handler that can sign.
	var handler http.Handler = http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if !utils.OriginAllowed(allowedOrigins, r) {
				log.Debug("rejected request",
					zap.String("origin", r.Header.Get("Origin")),
					zap.String("path", r.URL.Path),
				)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			// Upgrades need the raw connection, which the gzip writer hides.
			if websocket.IsWebSocketUpgrade(r) {
				corsHandler.ServeHTTP(w, r)
				return
			}
			gzipHandler.ServeHTTP(w, r)
		},
	)

	log.Info("API created",
		zap.Strings("allowedOrigins", allowedOrigins),
	)

	return &Server{
		log:             log,
		shutdownTimeout: shutdownTimeout,
		router:          router,
		handler:         handler,
		srv: &http.Server{
			Handler:           handler,
			ReadTimeout:       httpConfig.ReadTimeout,
			ReadHeaderTimeout: httpConfig.ReadHeaderTimeout,
			WriteTimeout:      httpConfig.WriteTimeout,
			IdleTimeout:       httpConfig.IdleTimeout,
		},
		listener: listener,
	}
}

// Handler is the fully wrapped handler the server serves.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr is the address the server listens on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) AddRoute(handler http.Handler, path string, methods ...string) {
	s.log.Info("adding route",
		zap.String("path", path),
	)
	route := s.router.Handle(path, handler)
	if len(methods) > 0 {
		route.Methods(methods...)
	}
}

// Dispatch serves until Shutdown is called.
func (s *Server) Dispatch() error {
	return s.srv.Serve(s.listener)
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}

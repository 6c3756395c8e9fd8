// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterCounter mounts the page, the JSON-RPC service, the event feed,
// and the metrics endpoint.
func (s *Server) RegisterCounter(
	svc *Service,
	page http.Handler,
	events http.Handler,
	gatherer prometheus.Gatherer,
) error {
	handler, err := NewHandler(svc, Name)
	if err != nil {
		return err
	}
	s.AddRoute(page, "/", http.MethodGet)
	s.AddRoute(handler, Endpoint, http.MethodPost)
	s.AddRoute(events, EventsEndpoint)
	s.AddRoute(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), MetricsEndpoint, http.MethodGet)
	return nil
}

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dispatcher

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"

	"github.com/ava-labs/counterdapp/consts"
)

type Metrics struct {
	actions      *prometheus.CounterVec
	failures     *prometheus.CounterVec
	notConnected prometheus.Counter
	resets       prometheus.Counter
	latency      *prometheus.HistogramVec
}

// NewMetrics registers the dispatcher metrics with [r]. [inflight] backs a
// gauge of actions currently waiting on the network.
func NewMetrics(r prometheus.Registerer, inflight *atomic.Int64) (*Metrics, error) {
	m := &Metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "actions",
			Help:      "number of actions that reached the network",
		}, []string{"action"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "action_failures",
			Help:      "number of actions that ended in a transaction error",
		}, []string{"action"}),
		notConnected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "not_connected",
			Help:      "number of actions rejected because no wallet was connected",
		}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "session_resets",
			Help:      "number of times the counter account was replaced",
		}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: consts.Name,
			Name:      "action_latency_seconds",
			Help:      "time spent sending, confirming, and fetching",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"action"}),
	}
	inflightGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: consts.Name,
		Name:      "inflight_actions",
		Help:      "number of actions waiting on the network",
	}, func() float64 {
		return float64(inflight.Load())
	})
	return m, errors.Join(
		r.Register(m.actions),
		r.Register(m.failures),
		r.Register(m.notConnected),
		r.Register(m.resets),
		r.Register(m.latency),
		r.Register(inflightGauge),
	)
}

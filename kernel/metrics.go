// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	metric "github.com/luxfi/metric"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the operational instrumentation the driver updates as it
// dispatches events. This is separate from ConsensusStatistics (the
// per-validator state-time accounting the spec describes as core data):
// Metrics is about the kernel's own throughput and queueing behavior.
type Metrics struct {
	EventsDispatched prometheus.Counter
	QueueDepth       *prometheus.GaugeVec
	Decisions        prometheus.Counter
}

// NewMetrics registers a fresh collector set under namespace "netsim"
// into gatherer and returns the handles the driver writes to.
func NewMetrics(gatherer metric.MultiGatherer) (*Metrics, error) {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		EventsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netsim",
			Name:      "events_dispatched_total",
			Help:      "Total simulator events dispatched across all trials.",
		}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "netsim",
			Name:      "node_queue_depth",
			Help:      "Ingress queue depth observed after the node's most recent ProcessPayload event.",
		}, []string{"node"}),
		Decisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netsim",
			Name:      "consensus_decisions_total",
			Help:      "Total consensus decisions reached across all validators and trials.",
		}),
	}

	reg.MustRegister(m.EventsDispatched, m.QueueDepth, m.Decisions)

	if gatherer != nil {
		if err := gatherer.Register("netsim", reg); err != nil {
			return nil, err
		}
	}
	return m, nil
}

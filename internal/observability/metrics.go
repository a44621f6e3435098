// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "paper_ingest"

// Metrics holds the counters for one ingest run. They live on a private
// registry so each run starts from zero.
type Metrics struct {
	Registry *prometheus.Registry

	// ItemsProcessed counts queue items by outcome
	// (ingested, skipped, unmatched, failed).
	ItemsProcessed *prometheus.CounterVec

	// CatalogRequests counts catalog calls by catalog and result
	// (ok, not_found, unavailable).
	CatalogRequests *prometheus.CounterVec

	// RecordsStored counts rows written, by table.
	RecordsStored *prometheus.CounterVec

	// MatchScore observes the top candidate's similarity per resolution.
	MatchScore prometheus.Histogram

	// ItemDuration observes seconds spent per queue item.
	ItemDuration prometheus.Histogram
}

// NewMetrics registers the run metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		ItemsProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_processed_total",
			Help:      "Queue items processed, by outcome.",
		}, []string{"outcome"}),
		CatalogRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Catalog requests, by catalog and result.",
		}, []string{"catalog", "result"}),
		RecordsStored: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_stored_total",
			Help:      "Rows written, by table.",
		}, []string{"table"}),
		MatchScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_score",
			Help:      "Similarity of the top-ranked candidate.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1},
		}),
		ItemDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "item_duration_seconds",
			Help:      "Time spent per queue item.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
}

// WriteTextfile writes all metrics to path in the node exporter textfile
// collector format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

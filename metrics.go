// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sassoftware/viya-afm-xtract/afm"
)

const metricsNamespace = "afm_xtract"

// Metrics holds the Prometheus counters and histograms of an extraction run.
type Metrics struct {
	DocumentsProcessed *prometheus.CounterVec // labels: variant, outcome={success,error}
	PagesRead          prometheus.Counter
	PageFailures       prometheus.Counter
	RecordsEmitted     *prometheus.CounterVec // labels: family, table
	RowsSkipped        *prometheus.CounterVec // labels: family, reason
	Collisions         *prometheus.CounterVec // labels: family
	FamilyDuration     *prometheus.HistogramVec
}

func newMetrics(help bool) *Metrics {
	h := func(s string) string {
		if help {
			return s
		}
		return ""
	}
	return &Metrics{
		DocumentsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "documents_processed_total",
			Help:      h("Manuals processed by variant and outcome."),
		}, []string{"variant", "outcome"}),
		PagesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pages_read_total",
			Help:      h("Pages whose text was extracted."),
		}),
		PageFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "page_failures_total",
			Help:      h("Pages whose text could not be extracted after all retries."),
		}),
		RecordsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "records_emitted_total",
			Help:      h("Records written per table."),
		}, []string{"family", "table"}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_skipped_total",
			Help:      h("Lines skipped during reconstruction by reason."),
		}, []string{"family", "reason"}),
		Collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "record_collisions_total",
			Help:      h("Records rejected because their key was already present."),
		}, []string{"family"}),
		FamilyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "family_duration_seconds",
			Help:      h("Time to reconstruct one table family."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"family"}),
	}
}

// NewMetrics creates the run metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics(true)
	reg.MustRegister(
		m.DocumentsProcessed,
		m.PagesRead,
		m.PageFailures,
		m.RecordsEmitted,
		m.RowsSkipped,
		m.Collisions,
		m.FamilyDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

// observeTable mirrors a finished table's counts.
func (m *Metrics) observeTable(t *afm.Table) {
	if m == nil {
		return
	}
	m.RecordsEmitted.WithLabelValues(t.Family, t.Name).Add(float64(t.Len()))
	for reason, n := range t.Stats.Skipped {
		if reason == afm.SkipCollision {
			continue
		}
		m.RowsSkipped.WithLabelValues(t.Family, string(reason)).Add(float64(n))
	}
	if t.Stats.Collisions > 0 {
		m.Collisions.WithLabelValues(t.Family).Add(float64(t.Stats.Collisions))
	}
}

func (m *Metrics) pageRead() {
	if m != nil {
		m.PagesRead.Inc()
	}
}

func (m *Metrics) pageFailed() {
	if m != nil {
		m.PageFailures.Inc()
	}
}

func (m *Metrics) familyDone(family string, seconds float64) {
	if m != nil {
		m.FamilyDuration.WithLabelValues(family).Observe(seconds)
	}
}

func (m *Metrics) documentDone(variant Variant, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.DocumentsProcessed.WithLabelValues(string(variant), outcome).Inc()
}

// WriteMetrics writes everything gathered by g to path in the text exposition format.
func WriteMetrics(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}

// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the knowledge portal core.
var (
	// Counters.
	ContentSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_submissions_total",
			Help: "Total number of content items submitted",
		},
		[]string{"kind"},
	)

	ModerationDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_decisions_total",
			Help: "Total number of moderation decisions taken",
		},
		[]string{"kind", "decision"},
	)

	BadgesAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badges_awarded_total",
			Help: "Total number of badges awarded",
		},
		[]string{"badge"},
	)

	PointRecomputesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "point_recomputes_total",
			Help: "Total number of per-user point recomputations",
		},
	)

	VersesIngestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "verses_ingested_total",
			Help: "Total number of scripture verses loaded by the ingestion pipeline",
		},
	)

	IngestionLinesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingestion_lines_skipped_total",
			Help: "Total number of malformed source lines skipped during ingestion",
		},
	)

	// Gauges.
	PendingContentItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pending_content_items",
			Help: "Current number of content items awaiting moderation",
		},
		[]string{"kind"},
	)
)

// RecordSubmission increments the submissions counter.
func RecordSubmission(kind string) {
	ContentSubmissionsTotal.WithLabelValues(kind).Inc()
}

// RecordModerationDecision increments the moderation decisions counter.
func RecordModerationDecision(kind, decision string) {
	ModerationDecisionsTotal.WithLabelValues(kind, decision).Inc()
}

// RecordBadgeAwarded increments the badge award counter.
func RecordBadgeAwarded(badge string) {
	BadgesAwardedTotal.WithLabelValues(badge).Inc()
}

// RecordPointRecompute increments the point recompute counter.
func RecordPointRecompute() {
	PointRecomputesTotal.Inc()
}

// RecordVersesIngested adds to the ingested verses counter.
func RecordVersesIngested(count int) {
	VersesIngestedTotal.Add(float64(count))
}

// RecordIngestionLineSkipped increments the skipped lines counter.
func RecordIngestionLineSkipped() {
	IngestionLinesSkippedTotal.Inc()
}

// SetPendingContentItems updates the pending items gauge for a kind.
func SetPendingContentItems(kind string, count int) {
	PendingContentItems.WithLabelValues(kind).Set(float64(count))
}

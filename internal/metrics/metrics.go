package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Layout metrics.
	LayoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netviz_layouts_total",
			Help: "Total number of layout passes run",
		},
		[]string{"algorithm", "status"},
	)

	LayoutDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netviz_layout_duration_seconds",
			Help:    "Layout pass duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)

	LayoutNodeCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netviz_layout_node_count",
			Help:    "Number of nodes laid out per call",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// Solver metrics.
	SolverRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netviz_solver_retries_total",
			Help: "Total number of solver retries after a scanline-constraint error",
		},
		[]string{"reason"},
	)

	SolverFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netviz_solver_fallbacks_total",
			Help: "Total number of grid-layout fallbacks due to unrecoverable solver errors",
		},
		[]string{"reason"},
	)

	// Rendering metrics.
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netviz_render_duration_seconds",
			Help:    "SVG render duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"theme"},
	)

	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netviz_renders_total",
			Help: "Total number of SVG render passes",
		},
		[]string{"theme", "status"},
	)

	// Sheet-builder metrics.
	SheetsBuiltTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "netviz_sheets_built_total",
			Help: "Total number of hierarchical sheets built",
		},
	)

	// Merge metrics.
	MergeNodesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netviz_merge_nodes_skipped_total",
			Help: "Total number of nodes skipped during a graph merge",
		},
		[]string{"reason"},
	)

	MergeLinksSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netviz_merge_links_skipped_total",
			Help: "Total number of links skipped during a graph merge",
		},
		[]string{"reason"},
	)

	// Diagnostics metrics.
	DiagnosticsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netviz_diagnostics_total",
			Help: "Total number of structured diagnostics emitted by validation",
		},
		[]string{"kind"},
	)
)

// RecordLayout records layout pass metrics.
func RecordLayout(algorithm, status string, duration float64, nodeCount int) {
	LayoutsTotal.WithLabelValues(algorithm, status).Inc()
	LayoutDuration.WithLabelValues(algorithm).Observe(duration)
	LayoutNodeCount.Observe(float64(nodeCount))
}

// RecordSolverRetry records a scanline-constraint retry.
func RecordSolverRetry(reason string) {
	SolverRetriesTotal.WithLabelValues(reason).Inc()
}

// RecordSolverFallback records a grid-layout fallback.
func RecordSolverFallback(reason string) {
	SolverFallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordRender records SVG render metrics.
func RecordRender(theme, status string, duration float64) {
	RendersTotal.WithLabelValues(theme, status).Inc()
	RenderDuration.WithLabelValues(theme).Observe(duration)
}

// RecordSheetBuilt records one hierarchical sheet having been built.
func RecordSheetBuilt() {
	SheetsBuiltTotal.Inc()
}

// RecordMergeSkip records a node or link skipped during merge.
func RecordMergeSkip(kind, reason string) {
	switch kind {
	case "node":
		MergeNodesSkippedTotal.WithLabelValues(reason).Inc()
	case "link":
		MergeLinksSkippedTotal.WithLabelValues(reason).Inc()
	}
}

// RecordDiagnostic records one validation diagnostic by kind.
func RecordDiagnostic(kind string) {
	DiagnosticsTotal.WithLabelValues(kind).Inc()
}

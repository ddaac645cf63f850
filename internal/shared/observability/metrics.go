package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "texgraph_parse_seconds",
		Help:    "Time spent raw-parsing a project file.",
		Buckets: prometheus.DefBuckets,
	})

	AnnotatePassDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "texgraph_annotate_pass_seconds",
		Help:    "Time spent in one annotator pipeline step.",
		Buckets: prometheus.DefBuckets,
	}, []string{"step"})

	FilesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "texgraph_files_processed_total",
		Help: "Total number of project files run through the annotator.",
	})

	FileErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "texgraph_file_errors_total",
		Help: "Total number of files that failed to read or raw-parse.",
	})

	ShapingFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "texgraph_shaping_failures_total",
		Help: "Total number of caught, non-fatal shaping failures.",
	})

	DefinitionsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "texgraph_definitions_total",
		Help: "Definitions known to the store after the last run, by kind and category.",
	}, []string{"kind", "category"})

	TraversalQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "texgraph_traversal_queue_depth",
		Help: "Current number of discovered files waiting to be processed.",
	})

	ResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "texgraph_resolve_seconds",
		Help:    "Wall time for a full project resolve run.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "texgraph_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

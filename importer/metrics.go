package importer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// File-level metrics
	FilesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printlog_files_processed_total",
			Help: "Spool files fully read and deleted",
		},
	)

	FilesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printlog_files_skipped_total",
			Help: "Spool files skipped by the quarantine name filter",
		},
	)

	FilesFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printlog_files_failed_total",
			Help: "Spool files aborted by an I/O error and left for retry",
		},
	)

	// Record-level metrics
	LinesRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printlog_lines_read_total",
			Help: "Log lines read from spool files",
		},
	)

	ParseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printlog_parse_failures_total",
			Help: "Lines dropped for a wrong field count",
		},
	)

	ValidationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printlog_validation_failures_total",
			Help: "Parsed records rejected by validation rules",
		},
	)

	EventsPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printlog_events_persisted_total",
			Help: "Printing events inserted",
		},
	)

	EventsDuplicate = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printlog_events_duplicate_total",
			Help: "Records rejected by the dedup index (already imported)",
		},
	)

	PersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printlog_persist_failures_total",
			Help: "Records that failed to persist for reasons other than dedup",
		},
	)

	LastImportTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "printlog_last_import_timestamp_seconds",
			Help: "Unix time of the last successfully processed spool file",
		},
	)
)

// Package observability provides Prometheus metrics and OpenTelemetry
// tracing instrumentation for the wire layer.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// ENCODER METRICS
// =============================================================================

var (
	commandsEncodedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aerowire_commands_encoded_total",
			Help: "Total number of protocol commands encoded",
		},
		[]string{"kind"}, // kind: write, read, operate, batch, scan, query, ...
	)

	commandBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aerowire_command_bytes",
			Help:    "Encoded command frame size in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 4, 10),
		},
		[]string{"kind"},
	)

	batchRecordsPerMessage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aerowire_batch_records_per_message",
			Help:    "Number of records packed into one batch message",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)
)

// =============================================================================
// PARSER METRICS
// =============================================================================

var (
	recordsParsedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aerowire_records_parsed_total",
			Help: "Total number of response records decoded",
		},
	)

	parseFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aerowire_parse_failures_total",
			Help: "Total number of malformed response frames or records",
		},
	)
)

// CommandEncoded records one finished command frame.
func CommandEncoded(kind string, bytes int) {
	commandsEncodedTotal.WithLabelValues(kind).Inc()
	commandBytes.WithLabelValues(kind).Observe(float64(bytes))
}

// BatchSize records the record count of one batch message.
func BatchSize(records int) {
	batchRecordsPerMessage.Observe(float64(records))
}

// RecordParsed records one decoded response record.
func RecordParsed() {
	recordsParsedTotal.Inc()
}

// ParseFailure records one malformed frame or record.
func ParseFailure() {
	parseFailuresTotal.Inc()
}

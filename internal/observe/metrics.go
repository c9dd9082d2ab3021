// Package observe provides application-wide observability primitives for
// the spell checker: OpenTelemetry metrics, distributed tracing, structured
// logging, and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all spell-checker
// metrics.
const meterName = "github.com/Itay-Saig/Automatic-Spell-Checker"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// CheckDuration tracks end-to-end spell check latency.
	CheckDuration metric.Float64Histogram

	// BuildDuration tracks language model build latency.
	BuildDuration metric.Float64Histogram

	// FetchDuration tracks corpus acquisition latency.
	FetchDuration metric.Float64Histogram

	// --- Counters ---

	// Checks counts spell check calls. Use with attributes:
	//   attribute.String("kind", ...), attribute.String("status", ...)
	Checks metric.Int64Counter

	// Corrections counts applied token corrections. Use with attribute:
	//   attribute.String("distance", ...)
	Corrections metric.Int64Counter

	// Candidates counts ranked correction candidates produced.
	Candidates metric.Int64Counter

	// --- Error counters ---

	// FetchErrors counts corpus source fetch failures. Use with attribute:
	//   attribute.String("source", ...)
	FetchErrors metric.Int64Counter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) spanning
// sub-millisecond check calls up to full corpus fetches and model builds.
var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.CheckDuration, err = m.Float64Histogram("spellcheck.check.duration",
		metric.WithDescription("Latency of a spell check call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.BuildDuration, err = m.Float64Histogram("spellcheck.model.build.duration",
		metric.WithDescription("Latency of a language model build."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.FetchDuration, err = m.Float64Histogram("spellcheck.corpus.fetch.duration",
		metric.WithDescription("Latency of corpus acquisition across all sources."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Checks, err = m.Int64Counter("spellcheck.checks",
		metric.WithDescription("Total spell check calls by kind and status."),
	); err != nil {
		return nil, err
	}
	if met.Corrections, err = m.Int64Counter("spellcheck.corrections",
		metric.WithDescription("Total applied token corrections by edit distance."),
	); err != nil {
		return nil, err
	}
	if met.Candidates, err = m.Int64Counter("spellcheck.candidates",
		metric.WithDescription("Total ranked correction candidates produced."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.FetchErrors, err = m.Int64Counter("spellcheck.corpus.fetch.errors",
		metric.WithDescription("Total corpus source fetch failures by source."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("spellcheck.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordCheck is a convenience method that records a spell check counter
// increment with the standard attribute set.
func (m *Metrics) RecordCheck(ctx context.Context, kind, status string) {
	m.Checks.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("status", status),
		),
	)
}

// RecordCorrection is a convenience method that records an applied token
// correction, attributed by its edit distance.
func (m *Metrics) RecordCorrection(ctx context.Context, distance int) {
	m.Corrections.Add(ctx, 1,
		metric.WithAttributes(attribute.String("distance", strconv.Itoa(distance))),
	)
}

// RecordCandidates is a convenience method that records the number of ranked
// candidates produced for one token.
func (m *Metrics) RecordCandidates(ctx context.Context, n int) {
	m.Candidates.Add(ctx, int64(n))
}

// RecordFetchError is a convenience method that records a corpus source
// fetch failure.
func (m *Metrics) RecordFetchError(ctx context.Context, source string) {
	m.FetchErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("source", source)),
	)
}

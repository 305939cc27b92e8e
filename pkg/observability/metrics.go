package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/gitseek/pkg/bisect"
)

const (
	metricProbesTotal    = "gitseek.probes.total"
	metricProbeErrors    = "gitseek.probe.errors.total"
	metricFallbackScans  = "gitseek.fallback.scans.total"
	metricSearchDuration = "gitseek.search.duration.seconds"
	metricSearchesTotal  = "gitseek.searches.total"

	attrPhase  = "phase"
	attrFound  = "found"
	attrStatus = "status"
)

// durationBucketBoundaries covers 10ms to 600s: small repositories resolve
// in well under a second while deep histories with large payloads can take
// minutes.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// SearchMetrics holds the OTel instruments for search telemetry.
type SearchMetrics struct {
	probesTotal    metric.Int64Counter
	probeErrors    metric.Int64Counter
	fallbackScans  metric.Int64Counter
	searchDuration metric.Float64Histogram
	searchesTotal  metric.Int64Counter
}

// NewSearchMetrics creates the search instruments from the given meter.
func NewSearchMetrics(mt metric.Meter) (*SearchMetrics, error) {
	probes, err := mt.Int64Counter(metricProbesTotal,
		metric.WithDescription("Total number of commit probes"),
		metric.WithUnit("{probe}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricProbesTotal, err)
	}

	probeErrs, err := mt.Int64Counter(metricProbeErrors,
		metric.WithDescription("Probes that failed to retrieve or inspect content"),
		metric.WithUnit("{probe}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricProbeErrors, err)
	}

	fallbacks, err := mt.Int64Counter(metricFallbackScans,
		metric.WithDescription("Probes issued by the linear fallback scan"),
		metric.WithUnit("{probe}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFallbackScans, err)
	}

	duration, err := mt.Float64Histogram(metricSearchDuration,
		metric.WithDescription("End-to-end search duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSearchDuration, err)
	}

	searches, err := mt.Int64Counter(metricSearchesTotal,
		metric.WithDescription("Total number of completed searches"),
		metric.WithUnit("{search}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSearchesTotal, err)
	}

	return &SearchMetrics{
		probesTotal:    probes,
		probeErrors:    probeErrs,
		fallbackScans:  fallbacks,
		searchDuration: duration,
		searchesTotal:  searches,
	}, nil
}

// Sink returns an event consumer that records one set of counters per probe.
func (sm *SearchMetrics) Sink(ctx context.Context) bisect.EventSink {
	return func(event bisect.ProbeEvent) {
		attrs := metric.WithAttributes(
			attribute.String(attrPhase, event.Phase.String()),
			attribute.Bool(attrFound, event.Found),
		)

		sm.probesTotal.Add(ctx, 1, attrs)

		if event.Err != nil {
			sm.probeErrors.Add(ctx, 1, metric.WithAttributes(
				attribute.String(attrPhase, event.Phase.String()),
			))
		}

		if event.Fallback {
			sm.fallbackScans.Add(ctx, 1, metric.WithAttributes(
				attribute.String(attrPhase, event.Phase.String()),
			))
		}
	}
}

// RecordSearch records a completed search with its status and duration.
func (sm *SearchMetrics) RecordSearch(ctx context.Context, status string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(attrStatus, status))

	sm.searchesTotal.Add(ctx, 1, attrs)
	sm.searchDuration.Record(ctx, duration.Seconds(), attrs)
}

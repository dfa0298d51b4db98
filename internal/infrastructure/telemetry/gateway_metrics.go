// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// GatewayMetrics provides domain metrics for the gateway.
// It tracks upstream ERP calls, page cache effectiveness and the
// transfer reconciliation transform.
type GatewayMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Upstream metrics
	upstreamRequestTotal    *Counter
	upstreamRequestDuration *Histogram

	// Cache metrics
	cacheRequestTotal *Counter

	// Reconciliation metrics
	reconcileRunTotal    *Counter
	reconcileMergedTotal *Counter
	reconcileOrphanTotal *Counter
	reconcileDuration    *Histogram
}

// GatewayMetricsConfig holds configuration for gateway metrics.
type GatewayMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewGatewayMetrics creates a new GatewayMetrics instance.
func NewGatewayMetrics(cfg GatewayMetricsConfig) (*GatewayMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	gm := &GatewayMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error

	gm.upstreamRequestTotal, err = NewCounter(
		cfg.Meter,
		"gateway_upstream_request_total",
		"Total number of upstream ERP API calls",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	gm.upstreamRequestDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "gateway_upstream_request_duration_seconds",
		Description: "Duration of upstream ERP API calls",
		Unit:        "s",
		Boundaries:  UpstreamDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	gm.cacheRequestTotal, err = NewCounter(
		cfg.Meter,
		"gateway_page_cache_request_total",
		"Total number of page cache lookups, labeled by outcome",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	gm.reconcileRunTotal, err = NewCounter(
		cfg.Meter,
		"gateway_reconcile_run_total",
		"Total number of transfer reconciliation runs",
		"{runs}",
	)
	if err != nil {
		return nil, err
	}

	gm.reconcileMergedTotal, err = NewCounter(
		cfg.Meter,
		"gateway_reconcile_merged_total",
		"Total number of transfer pairs merged into synthetic records",
		"{transfers}",
	)
	if err != nil {
		return nil, err
	}

	gm.reconcileOrphanTotal, err = NewCounter(
		cfg.Meter,
		"gateway_reconcile_orphan_total",
		"Total number of transfer legs passed through without a counterpart",
		"{records}",
	)
	if err != nil {
		return nil, err
	}

	gm.reconcileDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "gateway_reconcile_duration_seconds",
		Description: "Duration of the reconciliation transform",
		Unit:        "s",
		Boundaries:  SmallDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return gm, nil
}

// UpstreamOutcome classifies the result of an upstream call for metrics labeling.
type UpstreamOutcome string

const (
	UpstreamOutcomeSuccess     UpstreamOutcome = "success"
	UpstreamOutcomeTimeout     UpstreamOutcome = "timeout"
	UpstreamOutcomeUnavailable UpstreamOutcome = "unavailable"
	UpstreamOutcomeRejected    UpstreamOutcome = "rejected"
	UpstreamOutcomePayload     UpstreamOutcome = "bad_payload"
)

// RecordUpstreamRequest records one upstream ERP API call.
func (gm *GatewayMetrics) RecordUpstreamRequest(ctx context.Context, endpoint string, statusCode int, outcome UpstreamOutcome, d time.Duration) {
	gm.upstreamRequestTotal.Inc(ctx,
		AttrUpstreamEndpoint.String(endpoint),
		AttrUpstreamStatus.Int(statusCode),
		AttrUpstreamOutcome.String(string(outcome)),
	)
	gm.upstreamRequestDuration.RecordDuration(ctx, d,
		AttrUpstreamEndpoint.String(endpoint),
		AttrUpstreamOutcome.String(string(outcome)),
	)
}

// CacheOutcome classifies a page cache lookup for metrics labeling.
type CacheOutcome string

const (
	CacheOutcomeHit  CacheOutcome = "hit"
	CacheOutcomeMiss CacheOutcome = "miss"
)

// RecordCacheLookup records one page cache lookup.
func (gm *GatewayMetrics) RecordCacheLookup(ctx context.Context, backend string, outcome CacheOutcome) {
	gm.cacheRequestTotal.Inc(ctx,
		AttrCacheBackend.String(backend),
		AttrCacheOutcome.String(string(outcome)),
	)
}

// RecordReconcile records one reconciliation run together with the number of
// merged transfers and orphaned legs it produced.
func (gm *GatewayMetrics) RecordReconcile(ctx context.Context, merged, orphans int, d time.Duration) {
	gm.reconcileRunTotal.Inc(ctx)
	if merged > 0 {
		gm.reconcileMergedTotal.Add(ctx, int64(merged))
	}
	if orphans > 0 {
		gm.reconcileOrphanTotal.Add(ctx, int64(orphans))
	}
	gm.reconcileDuration.RecordDuration(ctx, d)
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewGatewayMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

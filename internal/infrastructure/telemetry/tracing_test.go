package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// withSpanRecorder installs an in-memory tracer provider for the duration of
// the test so spans can be inspected without an exporter.
func withSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestStartSpan_Defaults(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartSpan(context.Background(), "activity.reconcile")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "activity.reconcile", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
}

func TestStartSpan_Options(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartSpan(context.Background(), "upstream.fetch_page",
		WithSpanKind(trace.SpanKindClient),
		WithAttribute(SpanAttrUpstreamEndpoint, "/api/inventory/transactions"),
		WithAttribute(SpanAttrPage, 2),
	)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "/api/inventory/transactions", attrs[SpanAttrUpstreamEndpoint].AsString())
	assert.Equal(t, int64(2), attrs[SpanAttrPage].AsInt64())
}

func TestStartServiceSpan_NamingConvention(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartServiceSpan(context.Background(), "dashboard", "summary")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "dashboard.summary", spans[0].Name())
}

func TestSetAttributes_Conversions(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartSpan(context.Background(), "conversions")
	SetAttributes(span,
		"s", "text",
		"i", 42,
		"i64", int64(7),
		"f", 0.5,
		"b", true,
		"slice", []string{"a", "b"},
		123, "skipped, key is not a string",
		"dangling",
	)
	span.End()

	attrs := attrMap(recorder.Ended()[0].Attributes())
	assert.Equal(t, "text", attrs["s"].AsString())
	assert.Equal(t, int64(42), attrs["i"].AsInt64())
	assert.Equal(t, int64(7), attrs["i64"].AsInt64())
	assert.Equal(t, 0.5, attrs["f"].AsFloat64())
	assert.True(t, attrs["b"].AsBool())
	assert.Equal(t, []string{"a", "b"}, attrs["slice"].AsStringSlice())
	assert.NotContains(t, attrs, attribute.Key("dangling"))
}

func TestSetAttribute_Single(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartSpan(context.Background(), "single")
	SetAttribute(span, SpanAttrCacheHit, true)
	span.End()

	attrs := attrMap(recorder.Ended()[0].Attributes())
	assert.True(t, attrs[SpanAttrCacheHit].AsBool())
}

func TestRecordError_SetsErrorStatus(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartSpan(context.Background(), "failing")
	RecordError(span, errors.New("upstream returned HTTP 500"))
	span.End()

	recorded := recorder.Ended()[0]
	assert.Equal(t, codes.Error, recorded.Status().Code)
	assert.Equal(t, "upstream returned HTTP 500", recorded.Status().Description)
	require.Len(t, recorded.Events(), 1)
	assert.Equal(t, "exception", recorded.Events()[0].Name)
}

func TestRecordError_NilInputs(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartSpan(context.Background(), "healthy")
	RecordError(span, nil)
	RecordError(nil, errors.New("ignored"))
	span.End()

	recorded := recorder.Ended()[0]
	assert.Equal(t, codes.Unset, recorded.Status().Code)
	assert.Empty(t, recorded.Events())
}

func TestSetOK(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartSpan(context.Background(), "ok")
	SetOK(span)
	span.End()

	assert.Equal(t, codes.Ok, recorder.Ended()[0].Status().Code)
}

func TestAddEvent(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartSpan(context.Background(), "evented")
	AddEvent(span, "page_cached",
		SpanAttrCacheBackend, "memory",
		SpanAttrRecordCount, 20,
	)
	span.End()

	events := recorder.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "page_cached", events[0].Name)

	attrs := attrMap(events[0].Attributes)
	assert.Equal(t, "memory", attrs[SpanAttrCacheBackend].AsString())
	assert.Equal(t, int64(20), attrs[SpanAttrRecordCount].AsInt64())
}

func TestTraceAndSpanIDs(t *testing.T) {
	withSpanRecorder(t)

	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))

	ctx, span := StartSpan(context.Background(), "identified")
	defer span.End()

	assert.Len(t, GetTraceID(ctx), 32)
	assert.Len(t, GetSpanID(ctx), 16)
	assert.Equal(t, span, SpanFromContext(ctx))
}

func TestNilSpanGuards(t *testing.T) {
	assert.NotPanics(t, func() {
		SetAttributes(nil, "k", "v")
		SetAttribute(nil, "k", "v")
		SetOK(nil)
		AddEvent(nil, "event")
	})
}

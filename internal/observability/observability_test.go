package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	span, ctx := NewSpan(context.Background(), "suggestions.compute")
	assert.NotNil(t, ctx)
	span.SetError(errors.New("boom"))
	span.SetError(nil)
	span.End()
}

func TestInitTracing_Stdout(t *testing.T) {
	prev := Tracer
	t.Cleanup(func() { Tracer = prev })
	shutdown, err := InitTracing(TracingConfig{
		ServiceName:    "informatch-test",
		ServiceVersion: "test",
		Environment:    "test",
		Enabled:        true,
		Exporter:       "stdout",
		SamplerRatio:   1,
	})
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	ctx, span := StartRequest(context.Background(), "GET")
	assert.True(t, span.SpanContext().IsSampled())
	NameRequest(span, "GET", "/api/suggestions")
	inner, _ := NewSpan(ctx, "suggestions.compute")
	inner.End()
	span.End()
}

func TestNewResource(t *testing.T) {
	res, err := newResource("informatch-api", TracingConfig{Environment: "staging", ServiceVersion: "1.4.0"})
	require.NoError(t, err)
	get := func(key attribute.Key) string {
		v, ok := res.Set().Value(key)
		require.True(t, ok, key)
		return v.Emit()
	}
	assert.Equal(t, "informatch-api", get(semconv.ServiceNameKey))
	assert.Equal(t, ServiceNamespace, get(semconv.ServiceNamespaceKey))
	assert.Equal(t, "staging", get(semconv.DeploymentEnvironmentKey))
	assert.Equal(t, "1.4.0", get(semconv.ServiceVersionKey))

	res, err = newResource("informatch-api", TracingConfig{})
	require.NoError(t, err)
	assert.Equal(t, "development", get(semconv.DeploymentEnvironmentKey))
	_, hasVersion := res.Set().Value(semconv.ServiceVersionKey)
	assert.False(t, hasVersion)
}

func TestNewSampler(t *testing.T) {
	assert.Contains(t, newSampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, newSampler(2).Description(), "AlwaysOnSampler")
	assert.Contains(t, newSampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased{0.25}")
	assert.True(t, strings.HasPrefix(newSampler(0.25).Description(), "ParentBased"))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled, Remote: true,
	})
	ctx := trace.ContextWithRemoteSpanContext(context.Background(), parent)

	got := newSampler(0).ShouldSample(sdktrace.SamplingParameters{
		ParentContext: ctx, TraceID: traceID, Name: "GET /api/matches",
	})
	assert.Equal(t, sdktrace.RecordAndSample, got.Decision, "a sampled caller keeps its trace")

	got = newSampler(0).ShouldSample(sdktrace.SamplingParameters{
		ParentContext: context.Background(), TraceID: traceID, Name: "GET /api/matches",
	})
	assert.Equal(t, sdktrace.Drop, got.Decision)
}

func counterValue(t *testing.T, outcome string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, SuggestionsComputed.WithLabelValues(outcome).Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserveSuggestions(t *testing.T) {
	before := counterValue(t, "no_profile")
	ObserveSuggestions("no_profile", 0, time.Now())
	assert.Equal(t, before+1, counterValue(t, "no_profile"))
}

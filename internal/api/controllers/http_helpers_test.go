package controllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func remoteTraceContext() (context.Context, trace.SpanContext) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	return trace.ContextWithRemoteSpanContext(context.Background(), sc), sc
}

func TestRequestContextCarriesPropagatedTrace(t *testing.T) {
	parent, sc := remoteTraceContext()

	var reqCtx fasthttp.RequestCtx
	reqCtx.SetUserValue("traceCtx", parent)

	got := requestContext(&reqCtx)
	assert.Equal(t, sc.TraceID(), trace.SpanContextFromContext(got).TraceID())
}

func TestRequestContextFallsBackToBackground(t *testing.T) {
	var reqCtx fasthttp.RequestCtx

	got := requestContext(&reqCtx)
	assert.False(t, trace.SpanContextFromContext(got).IsValid())
}

// Handler spans must join the trace extracted by the middleware, so a request
// carrying W3C trace headers shows up under the caller's trace id.
func TestHandlerSpanJoinsPropagatedTrace(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	parent, sc := remoteTraceContext()

	var reqCtx fasthttp.RequestCtx
	reqCtx.SetUserValue("traceCtx", parent)

	_, span := tracer.Start(requestContext(&reqCtx), "Controller.Dashboard.Stats")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "Controller.Dashboard.Stats", spans[0].Name)
	assert.Equal(t, sc.TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, sc.SpanID(), spans[0].Parent.SpanID())
}

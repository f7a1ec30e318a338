package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func newRecordedTracer() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()

	return recorder, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
}

func TestSpanEndMarksFailure(t *testing.T) {
	recorder, tp := newRecordedTracer()
	tracer := tp.Tracer("test")

	_, span := StartSpan(context.Background(), tracer, zap.NewNop(), "CaptureSnapshot",
		attribute.String("reference", "e1"))
	span.AddEvent("collecting candidates")
	span.End(errors.New("boom"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	assert.Equal(t, "CaptureSnapshot", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "boom", ended[0].Status().Description)

	names := make([]string, 0, len(ended[0].Events()))
	for _, event := range ended[0].Events() {
		names = append(names, event.Name)
	}

	assert.Contains(t, names, "collecting candidates")
	assert.Contains(t, names, "exception", "the error must be recorded on the span")
}

func TestSpanEndMarksSuccess(t *testing.T) {
	recorder, tp := newRecordedTracer()
	tracer := tp.Tracer("test")

	_, span := StartSpan(context.Background(), tracer, zap.NewNop(), "ResolveRef")
	span.End(nil)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
}

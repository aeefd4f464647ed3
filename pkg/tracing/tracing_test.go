package tracing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), NewConfig("site", ""), slog.Default())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestConfig_Validate(t *testing.T) {
	cfg := NewConfig("", "")
	assert.Error(t, cfg.Validate())

	cfg = NewConfig("site", "collector:4317")
	cfg.SamplingRatio = 2
	assert.Error(t, cfg.Validate())
}

func TestTraceContextRoundTrip(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	existing := []sarama.RecordHeader{{Key: []byte("k"), Value: []byte("v")}}
	headers := InjectTraceContext(ctx, existing)
	require.Greater(t, len(headers), len(existing))
	assert.Len(t, existing, 1, "input headers must not be mutated")

	consumed := make([]*sarama.RecordHeader, len(headers))
	for i := range headers {
		consumed[i] = &headers[i]
	}
	out := trace.SpanContextFromContext(ExtractTraceContext(context.Background(), consumed))
	assert.Equal(t, traceID, out.TraceID())
	assert.Equal(t, spanID, out.SpanID())
}

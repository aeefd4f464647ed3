package tracing

import (
	"context"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel/propagation"
)

// Only W3C trace context travels in message headers; baggage stays local.
var headerPropagator = propagation.TraceContext{}

// InjectTraceContext returns headers plus the trace context of ctx.
// The input slice is left untouched.
func InjectTraceContext(ctx context.Context, headers []sarama.RecordHeader) []sarama.RecordHeader {
	carrier := propagation.MapCarrier{}
	headerPropagator.Inject(ctx, carrier)

	out := make([]sarama.RecordHeader, len(headers), len(headers)+len(carrier))
	copy(out, headers)
	for k, v := range carrier {
		out = append(out, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	return out
}

// ExtractTraceContext continues the trace carried in consumed message headers.
func ExtractTraceContext(ctx context.Context, headers []*sarama.RecordHeader) context.Context {
	carrier := propagation.MapCarrier{}
	for _, h := range headers {
		if h != nil {
			carrier[string(h.Key)] = string(h.Value)
		}
	}
	return headerPropagator.Extract(ctx, carrier)
}

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samims/ecowatt/internal/metrics"
	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/pkg/tracing"
)

// EventPublisher hands order and lead events to the bus.
type EventPublisher interface {
	Publish(ctx context.Context, ev model.Event) error
}

// Producer publishes events through a sarama async producer.
type Producer struct {
	asyncProducer sarama.AsyncProducer
	topic         string
	log           *slog.Logger
	wg            sync.WaitGroup
	closeOnce     sync.Once
	tracer        *tracing.Tracer
}

var _ EventPublisher = (*Producer)(nil)

// NewSaramaConfig returns the producer settings shared by the storefront.
func NewSaramaConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	return cfg
}

func NewProducer(asyncProducer sarama.AsyncProducer, topic string, log *slog.Logger) (*Producer, error) {
	if asyncProducer == nil || log == nil {
		return nil, fmt.Errorf("kafka producer: nil dependencies provided")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka producer: topic must not be empty")
	}
	return &Producer{
		asyncProducer: asyncProducer,
		topic:         topic,
		log:           log.With("component", "eventProducer"),
		tracer:        tracing.New("event-producer"),
	}, nil
}

// Start launches the success and error drain loops.
func (p *Producer) Start(ctx context.Context) {
	p.wg.Add(2)
	go p.handleSuccess(ctx)
	go p.handleErrors(ctx)
}

func (p *Producer) handleSuccess(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case msg, ok := <-p.asyncProducer.Successes():
			if !ok {
				return
			}
			key, _ := msg.Key.Encode()
			p.log.Debug("Event delivered",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("key", string(key)))
		case <-ctx.Done():
			return
		}
	}
}

func (p *Producer) handleErrors(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case perr, ok := <-p.asyncProducer.Errors():
			if !ok {
				return
			}
			p.log.Error("Event delivery failed",
				slog.String("topic", perr.Msg.Topic),
				slog.Any("error", perr.Err))
		case <-ctx.Done():
			return
		}
	}
}

// Publish queues ev keyed by its entity id.
func (p *Producer) Publish(ctx context.Context, ev model.Event) error {
	ctx, span := p.tracer.StartClientSpan(ctx, "EventPublish")
	defer span.End()

	data, err := json.Marshal(ev)
	if err != nil {
		p.tracer.RecordError(span, err)
		metrics.EventsPublished.WithLabelValues(string(ev.Type), "error").Inc()
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(ev.EntityID),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
		Headers:   tracing.InjectTraceContext(ctx, nil),
	}

	select {
	case p.asyncProducer.Input() <- msg:
		span.SetAttributes(
			attribute.String(tracing.AttrMessagingDestination, p.topic),
			attribute.String("event.type", string(ev.Type)),
			attribute.String("event.entity_id", ev.EntityID),
		)
		metrics.EventsPublished.WithLabelValues(string(ev.Type), "queued").Inc()
		return nil
	case <-ctx.Done():
		p.tracer.RecordError(span, ctx.Err())
		metrics.EventsPublished.WithLabelValues(string(ev.Type), "cancelled").Inc()
		return ctx.Err()
	}
}

// Close flushes the producer and waits for the drain loops.
func (p *Producer) Close() {
	p.closeOnce.Do(func() {
		p.log.Info("Closing event producer")
		p.asyncProducer.AsyncClose()
		p.wg.Wait()
	})
}

// NopPublisher logs events when no broker is configured.
type NopPublisher struct {
	Log *slog.Logger
}

func (n NopPublisher) Publish(_ context.Context, ev model.Event) error {
	n.Log.Info("Event bus disabled, dropping event",
		slog.String("type", string(ev.Type)),
		slog.String("entity_id", ev.EntityID))
	metrics.EventsPublished.WithLabelValues(string(ev.Type), "dropped").Inc()
	return nil
}

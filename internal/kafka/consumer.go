package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/samims/ecowatt/internal/metrics"
	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/pkg/tracing"
)

// EventHandler receives decoded events.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev model.Event) error
}

// Consumer reads events from a topic using a consumer group.
type Consumer struct {
	topic         string
	handler       EventHandler
	consumerGroup sarama.ConsumerGroup
	log           *slog.Logger
	tracer        *tracing.Tracer
}

func NewConsumerConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Version = sarama.V2_1_0_0
	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	return cfg
}

func NewConsumer(topic string, consumerGroup sarama.ConsumerGroup, handler EventHandler, log *slog.Logger) *Consumer {
	return &Consumer{
		topic:         topic,
		consumerGroup: consumerGroup,
		handler:       handler,
		log:           log.With("component", "eventConsumer"),
		tracer:        tracing.New("event-consumer"),
	}
}

// Start blocks consuming until ctx is cancelled or the group is closed.
func (c *Consumer) Start(ctx context.Context) error {
	defer func() {
		if err := c.consumerGroup.Close(); err != nil {
			c.log.Warn("Failed to close consumer group", slog.Any("error", err))
		}
	}()

	c.log.Info("Event consumer started", slog.String("topic", c.topic))

	backoff := time.Second
	for {
		err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
		if err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return err
			}
			c.log.Error("Error consuming events", slog.Any("error", err))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if ctx.Err() != nil {
			c.log.Info("Context cancelled, stopping consumer")
			return ctx.Err()
		}
	}
}

func (c *Consumer) Setup(session sarama.ConsumerGroupSession) error {
	for topic, partitions := range session.Claims() {
		c.log.Info("Partition assignment",
			slog.String("topic", topic),
			slog.Any("partitions", partitions))
	}
	return nil
}

func (c *Consumer) Cleanup(_ sarama.ConsumerGroupSession) error {
	return nil
}

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		c.process(session.Context(), message)
		session.MarkMessage(message, "")
	}
	return nil
}

// process decodes and dispatches one message. Undecodable messages are
// skipped; handler errors are logged and the message is still committed,
// since notifications are best effort.
func (c *Consumer) process(ctx context.Context, message *sarama.ConsumerMessage) {
	ctx = tracing.ExtractTraceContext(ctx, message.Headers)
	ctx, span := c.tracer.StartConsumerSpan(ctx, "EventConsume")
	defer span.End()
	c.tracer.AddKafkaAttributes(span, message.Topic, "process", message.Partition, message.Offset)

	var ev model.Event
	if err := json.Unmarshal(message.Value, &ev); err != nil || !ev.Type.Valid() {
		c.log.Error("Failed to decode event", slog.Any("error", err), slog.Int64("offset", message.Offset))
		metrics.EventsConsumed.WithLabelValues("unknown", "invalid").Inc()
		return
	}

	if err := c.handler.HandleEvent(ctx, ev); err != nil {
		c.tracer.RecordError(span, err)
		c.log.Error("Event handling failed", slog.String("entity_id", ev.EntityID), slog.Any("error", err))
		metrics.EventsConsumed.WithLabelValues(string(ev.Type), "error").Inc()
		return
	}
	metrics.EventsConsumed.WithLabelValues(string(ev.Type), "ok").Inc()
}

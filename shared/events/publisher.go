package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	"github.com/Avdeevkonst/dip-user/shared/metrics"
	"github.com/Avdeevkonst/dip-user/shared/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer MessageWriter
	log    *zap.Logger
	now    func() time.Time
}

// WriteBatchTimeout bounds how long a synchronous single-message write
// waits for its batch to fill.
const WriteBatchTimeout = 10 * time.Millisecond

// NewWriter returns a writer that routes by each message's Topic.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           WriteBatchTimeout,
		AllowAutoTopicCreation: true,
	}
}

func NewPublisher(writer MessageWriter, log *zap.Logger) *Publisher {
	return &Publisher{writer: writer, log: log, now: time.Now}
}

// Publish encodes payload as a plain JSON object and writes it to kind's topic.
func (p *Publisher) Publish(ctx context.Context, kind Kind, payload any) error {
	topic, ok := Topics[kind]
	if !ok {
		return apperr.Validation(fmt.Sprintf("Unknown event kind %q", kind))
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return apperr.Internal("Failed to encode event", fmt.Errorf("failed to marshal event: %w", err))
	}

	msg := kafka.Message{
		Topic: topic,
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(kind)},
			{Key: HeaderPublishedAt, Value: []byte(p.now().UTC().Format(time.RFC3339Nano))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.EventsPublished.WithLabelValues(topic, "error").Inc()
		p.log.Error("publish failed", zap.String("topic", topic), zap.Error(err))
		return apperr.Transport("Failed to publish event", fmt.Errorf("failed to publish event: %w", err))
	}

	metrics.EventsPublished.WithLabelValues(topic, "ok").Inc()
	p.log.Info("published event", zap.String("topic", topic), zap.ByteString("payload", value))
	return nil
}

func (p *Publisher) PublishCar(ctx context.Context, car models.Car) error {
	return p.Publish(ctx, KindCar, car)
}

func (p *Publisher) PublishRoad(ctx context.Context, road models.Road) error {
	return p.Publish(ctx, KindRoad, road)
}

func (p *Publisher) PublishRoadCondition(ctx context.Context, condition models.RoadCondition) error {
	return p.Publish(ctx, KindRoadCondition, condition)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Avdeevkonst/dip-user/shared/metrics"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Handler func(ctx context.Context, event Event) error

// MessageReader is the part of *kafka.Reader the subscriber needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Subscriber struct {
	reader     MessageReader
	handler    Handler
	log        *zap.Logger
	retryDelay time.Duration
}

type SubscriberConfig struct {
	Brokers    []string
	GroupID    string
	Topics     []string
	Handler    Handler
	RetryDelay time.Duration
}

// NewReader builds a consumer-group reader over several topics.
func NewReader(config SubscriberConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		GroupID:     config.GroupID,
		GroupTopics: config.Topics,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
}

func NewSubscriber(reader MessageReader, config SubscriberConfig, log *zap.Logger) *Subscriber {
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Second
	}
	return &Subscriber{
		reader:     reader,
		handler:    config.Handler,
		log:        log,
		retryDelay: config.RetryDelay,
	}
}

// Start consumes until ctx is cancelled. A message is committed only after
// its handler succeeds. A failing message is retried in place every
// RetryDelay, so later offsets on its partition are never committed past it.
func (s *Subscriber) Start(ctx context.Context) error {
	s.log.Info("subscriber started")
	defer s.reader.Close()

	for {
		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("subscriber stopping")
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			s.log.Warn("error reading messages", zap.Error(err))
			if err := s.wait(ctx); err != nil {
				return err
			}
			continue
		}

		if err := s.handle(ctx, msg); err != nil {
			s.log.Info("subscriber stopping")
			return err
		}

		if err := s.reader.CommitMessages(ctx, msg); err != nil {
			s.log.Warn("failed to commit message", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// handle runs the handler until it succeeds or ctx is done.
func (s *Subscriber) handle(ctx context.Context, msg kafka.Message) error {
	for {
		err := s.processMessage(ctx, msg)
		if err == nil {
			metrics.EventsConsumed.WithLabelValues(msg.Topic, "ok").Inc()
			return nil
		}
		metrics.EventsConsumed.WithLabelValues(msg.Topic, "error").Inc()
		s.log.Error("failed to process message, retrying",
			zap.String("topic", msg.Topic), zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset), zap.Duration("retry_in", s.retryDelay), zap.Error(err))
		if err := s.wait(ctx); err != nil {
			return err
		}
	}
}

func (s *Subscriber) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.retryDelay):
		return nil
	}
}

func (s *Subscriber) processMessage(ctx context.Context, msg kafka.Message) error {
	event := Event{
		Topic:     msg.Topic,
		Key:       msg.Key,
		Timestamp: msg.Time,
		Data:      msg.Value,
	}
	for _, h := range msg.Headers {
		if h.Key == HeaderEventType {
			event.Type = Kind(h.Value)
		}
	}
	if event.Type == "" {
		event.Type = KindForTopic(msg.Topic)
	}
	if err := s.handler(ctx, event); err != nil {
		return fmt.Errorf("handle %s: %w", msg.Topic, err)
	}
	return nil
}

// KindForTopic is the reverse of Topics; empty for unknown topics.
func KindForTopic(topic string) Kind {
	for kind, t := range Topics {
		if t == topic {
			return kind
		}
	}
	return ""
}

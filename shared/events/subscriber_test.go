package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func TestSubscriberCommitsHandledMessages(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Topic: "RoadCondition", Offset: 1, Value: []byte(`{"name":"ok"}`)},
		{Topic: "Road", Offset: 2, Value: []byte(`{}`), Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte("road")}}},
	}}

	var mu sync.Mutex
	var seen []Event
	ctx, cancel := context.WithCancel(context.Background())
	handler := func(_ context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e)
		if len(seen) == 2 {
			cancel()
		}
		return nil
	}

	sub := NewSubscriber(reader, SubscriberConfig{Handler: handler, RetryDelay: time.Millisecond}, zap.NewNop())
	err := sub.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, KindRoadCondition, seen[0].Type)
	assert.Equal(t, KindRoad, seen[1].Type)

	reader.mu.Lock()
	defer reader.mu.Unlock()
	assert.True(t, reader.closed)
}

func TestSubscriberRetriesFailedMessageBeforeMovingOn(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Topic: "Car", Offset: 1, Value: []byte(`{"plate_number":"А123ВС45"}`)},
		{Topic: "Road", Offset: 2, Value: []byte(`{}`)},
	}}

	var mu sync.Mutex
	var topics []string
	calls := 0
	ctx, cancel := context.WithCancel(context.Background())
	handler := func(_ context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		topics = append(topics, e.Topic)
		switch calls {
		case 1:
			return errors.New("store unavailable")
		case 3:
			cancel()
		}
		return nil
	}

	sub := NewSubscriber(reader, SubscriberConfig{Handler: handler, RetryDelay: 10 * time.Millisecond}, zap.NewNop())
	err := sub.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Car", "Car", "Road"}, topics)

	reader.mu.Lock()
	defer reader.mu.Unlock()
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestSubscriberNeverCommitsPastFailingMessage(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Topic: "Car", Offset: 1, Value: []byte(`{"bad":true}`)},
		{Topic: "Road", Offset: 2, Value: []byte(`{}`)},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	var mu sync.Mutex
	var topics []string
	handler := func(_ context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		topics = append(topics, e.Topic)
		if e.Topic == "Car" {
			return errors.New("cannot decode")
		}
		return nil
	}

	sub := NewSubscriber(reader, SubscriberConfig{Handler: handler, RetryDelay: 5 * time.Millisecond}, zap.NewNop())
	err := sub.Start(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, len(topics), 1)
	assert.NotContains(t, topics, "Road")

	reader.mu.Lock()
	defer reader.mu.Unlock()
	assert.Empty(t, reader.committed)
}

func TestKindForTopic(t *testing.T) {
	assert.Equal(t, KindCar, KindForTopic("Car"))
	assert.Equal(t, KindRoadCondition, KindForTopic("RoadCondition"))
	assert.Equal(t, Kind(""), KindForTopic("Bus"))
}

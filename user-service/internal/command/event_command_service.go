package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Avdeevkonst/dip-user/shared/cqrs"
	"github.com/Avdeevkonst/dip-user/shared/events"
	"github.com/Avdeevkonst/dip-user/shared/models"
	"github.com/Avdeevkonst/dip-user/shared/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultCarCount    = 50
	DefaultCarInterval = time.Second
	maxGeneratedSpeed  = 50
)

var carModels = []string{"BMW", "Mercedes-Benz", "Lada", "Toyota"}

// EventPublisher is implemented by *events.Publisher.
type EventPublisher interface {
	PublishCar(ctx context.Context, car models.Car) error
	PublishRoad(ctx context.Context, road models.Road) error
	PublishRoadCondition(ctx context.Context, condition models.RoadCondition) error
}

// EventCommandService publishes traffic events and consumes them back.
type EventCommandService struct {
	publisher EventPublisher
	log       *zap.Logger
}

func NewEventCommandService(publisher EventPublisher, log *zap.Logger) *EventCommandService {
	return &EventCommandService{publisher: publisher, log: log}
}

func (s *EventCommandService) PublishCar(ctx context.Context, car models.Car) error {
	return s.publisher.PublishCar(ctx, car)
}

func (s *EventCommandService) PublishRoad(ctx context.Context, road models.Road) error {
	return s.publisher.PublishRoad(ctx, road)
}

func (s *EventCommandService) PublishRoadCondition(ctx context.Context, condition models.RoadCondition) error {
	return s.publisher.PublishRoadCondition(ctx, condition)
}

// PublishGeneratedCars publishes cmd.Count random cars, waiting
// cmd.Interval between them. It stops early when ctx ends and reports how
// many were published.
func (s *EventCommandService) PublishGeneratedCars(ctx context.Context, cmd cqrs.PublishCarsCommand) (int, error) {
	if cmd.Count <= 0 {
		cmd.Count = DefaultCarCount
	}
	if cmd.Interval < 0 {
		cmd.Interval = DefaultCarInterval
	}

	published := 0
	for i := 0; i < cmd.Count; i++ {
		if err := s.publisher.PublishCar(ctx, GenerateCarPayload()); err != nil {
			return published, err
		}
		published++

		if i == cmd.Count-1 || cmd.Interval == 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return published, ctx.Err()
		case <-time.After(cmd.Interval):
		}
	}
	return published, nil
}

// GenerateCarPayload returns a random car on a random road.
func GenerateCarPayload() models.Car {
	return models.Car{
		PlateNumber:  utils.GeneratePlateNumber(),
		RoadID:       uuid.New(),
		Model:        carModels[utils.RandomInt(len(carModels))],
		AverageSpeed: utils.RandomInt(maxGeneratedSpeed + 1),
		Latitude:     utils.RandomFloat(-90, 90),
		Longitude:    utils.RandomFloat(-180, 180),
	}
}

// HandleEvent is the Kafka subscriber handler. It decodes each message by
// topic and logs it.
func (s *EventCommandService) HandleEvent(ctx context.Context, event events.Event) error {
	var payload any
	switch event.Topic {
	case events.CarTopic:
		payload = &models.Car{}
	case events.RoadTopic:
		payload = &models.Road{}
	case events.RoadConditionTopic:
		payload = &models.RoadCondition{}
	default:
		s.log.Warn("ignoring event from unknown topic", zap.String("topic", event.Topic))
		return nil
	}

	if err := json.Unmarshal(event.Data, payload); err != nil {
		return fmt.Errorf("failed to unmarshal %s event: %w", event.Type, err)
	}
	s.log.Info("received event",
		zap.String("topic", event.Topic),
		zap.String("type", string(event.Type)),
		zap.Any("payload", payload))
	return nil
}

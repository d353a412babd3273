package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	"github.com/Avdeevkonst/dip-user/shared/cqrs"
	"github.com/Avdeevkonst/dip-user/shared/events"
	"github.com/Avdeevkonst/dip-user/shared/models"
	"github.com/Avdeevkonst/dip-user/shared/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPublisher struct {
	cars       []models.Car
	roads      []models.Road
	conditions []models.RoadCondition
	failAfter  int
	err        error
}

func (m *mockPublisher) PublishCar(_ context.Context, car models.Car) error {
	if m.err != nil && len(m.cars) >= m.failAfter {
		return m.err
	}
	m.cars = append(m.cars, car)
	return nil
}

func (m *mockPublisher) PublishRoad(_ context.Context, road models.Road) error {
	m.roads = append(m.roads, road)
	return nil
}

func (m *mockPublisher) PublishRoadCondition(_ context.Context, condition models.RoadCondition) error {
	m.conditions = append(m.conditions, condition)
	return nil
}

func TestGenerateCarPayload(t *testing.T) {
	for i := 0; i < 50; i++ {
		car := GenerateCarPayload()
		assert.True(t, utils.ValidatePlateNumber(car.PlateNumber), car.PlateNumber)
		assert.Contains(t, carModels, car.Model)
		assert.GreaterOrEqual(t, car.AverageSpeed, 0)
		assert.LessOrEqual(t, car.AverageSpeed, maxGeneratedSpeed)
		assert.GreaterOrEqual(t, car.Latitude, -90.0)
		assert.LessOrEqual(t, car.Latitude, 90.0)
	}
}

func TestPublishGeneratedCars(t *testing.T) {
	pub := &mockPublisher{}
	svc := NewEventCommandService(pub, zap.NewNop())

	n, err := svc.PublishGeneratedCars(context.Background(), cqrs.PublishCarsCommand{Count: 3, Interval: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, pub.cars, 3)
}

func TestPublishGeneratedCarsStopsOnCancel(t *testing.T) {
	pub := &mockPublisher{}
	svc := NewEventCommandService(pub, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := svc.PublishGeneratedCars(ctx, cqrs.PublishCarsCommand{Count: 5, Interval: time.Hour})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, n)
}

func TestPublishGeneratedCarsBrokerFailure(t *testing.T) {
	pub := &mockPublisher{failAfter: 2, err: apperr.Transport("Failed to publish event", errors.New("broker down"))}
	svc := NewEventCommandService(pub, zap.NewNop())

	n, err := svc.PublishGeneratedCars(context.Background(), cqrs.PublishCarsCommand{Count: 5})
	assert.True(t, apperr.IsKind(err, apperr.KindTransport))
	assert.Equal(t, 2, n)
}

func TestHandleEvent(t *testing.T) {
	svc := NewEventCommandService(&mockPublisher{}, zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, svc.HandleEvent(ctx, events.Event{
		Topic: events.RoadConditionTopic,
		Type:  events.KindRoadCondition,
		Data:  []byte(`{"weather_status":"ICY","jam_status":"LOW","name":"M10","description":"slippery"}`),
	}))
	assert.Error(t, svc.HandleEvent(ctx, events.Event{Topic: events.CarTopic, Data: []byte(`not json`)}))
	assert.NoError(t, svc.HandleEvent(ctx, events.Event{Topic: "Bus", Data: []byte(`not json`)}))
}

func TestPublishForwards(t *testing.T) {
	pub := &mockPublisher{}
	svc := NewEventCommandService(pub, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.PublishCar(ctx, models.Car{PlateNumber: "А123ВС45"}))
	require.NoError(t, svc.PublishRoad(ctx, models.Road{Name: "M10"}))
	require.NoError(t, svc.PublishRoadCondition(ctx, models.RoadCondition{Name: "M10"}))
	assert.Equal(t, "А123ВС45", pub.cars[0].PlateNumber)
	assert.Len(t, pub.roads, 1)
	assert.Len(t, pub.conditions, 1)
}

package events

import "time"

// Kind names a publishable event.
type Kind string

const (
	KindCar           Kind = "car"
	KindRoad          Kind = "road"
	KindRoadCondition Kind = "road-condition"
)

// Topic names on the broker
const (
	CarTopic           = "Car"
	RoadTopic          = "Road"
	RoadConditionTopic = "RoadCondition"
)

// Topics maps each kind to its fixed topic.
var Topics = map[Kind]string{
	KindCar:           CarTopic,
	KindRoad:          RoadTopic,
	KindRoadCondition: RoadConditionTopic,
}

// Message headers
const (
	HeaderEventType   = "event-type"
	HeaderPublishedAt = "published-at"
)

// Event is a message as seen by a subscriber handler.
type Event struct {
	Topic     string
	Type      Kind
	Key       []byte
	Timestamp time.Time
	Data      []byte
}

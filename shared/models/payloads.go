package models

import "github.com/google/uuid"

// Weather status of a road section.
type Weather string

const (
	WeatherDry    Weather = "DRY"
	WeatherWet    Weather = "WET"
	WeatherSnowy  Weather = "SNOWY"
	WeatherCloudy Weather = "CLOUDY"
	WeatherIcy    Weather = "ICY"
	WeatherMuddy  Weather = "MUDDY"
)

// Jam is the traffic jam level.
type Jam string

const (
	JamLow    Jam = "LOW"
	JamMedium Jam = "MEDIUM"
	JamHigh   Jam = "HIGH"
)

// Car is raw telemetry from traffic sensors.
type Car struct {
	PlateNumber  string    `json:"plate_number" validate:"required,plate"`
	RoadID       uuid.UUID `json:"road_id" validate:"required"`
	Model        string    `json:"model" validate:"required,max=100"`
	AverageSpeed int       `json:"average_speed" validate:"gte=0"`
	Latitude     float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64   `json:"longitude" validate:"gte=-180,lte=180"`
}

type RoadCondition struct {
	RoadID        uuid.UUID `json:"road_id" validate:"required"`
	WeatherStatus Weather   `json:"weather_status" validate:"required,oneof=DRY WET SNOWY CLOUDY ICY MUDDY"`
	JamStatus     Jam       `json:"jam_status" validate:"required,oneof=LOW MEDIUM HIGH"`
	Name          string    `json:"name" validate:"required,min=1,max=100"`
	Description   string    `json:"description" validate:"required,min=1,max=400"`
}

type Road struct {
	Start       string  `json:"start" validate:"required,min=1,max=255"`
	End         string  `json:"end" validate:"required,min=1,max=255"`
	Length      float64 `json:"length" validate:"gt=0"`
	City        string  `json:"city" validate:"required,min=1,max=255"`
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Street      string  `json:"street" validate:"required,min=1,max=255"`
	Description string  `json:"description" validate:"required,min=1,max=400"`
}

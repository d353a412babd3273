package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	"github.com/Avdeevkonst/dip-user/shared/cqrs"
	"github.com/Avdeevkonst/dip-user/shared/middleware"
	"github.com/Avdeevkonst/dip-user/shared/models"
	"github.com/gin-gonic/gin"
)

const (
	defaultPublishCount    = 50
	defaultPublishInterval = time.Second
	maxPublishCount        = 1000
)

// EventCommander defines the publishing operations used by EventHandler.
type EventCommander interface {
	PublishCar(context.Context, models.Car) error
	PublishRoad(context.Context, models.Road) error
	PublishRoadCondition(context.Context, models.RoadCondition) error
	PublishGeneratedCars(context.Context, cqrs.PublishCarsCommand) (int, error)
}

type EventHandler struct {
	commands EventCommander
}

func NewEventHandler(commands EventCommander) *EventHandler {
	return &EventHandler{commands: commands}
}

func (h *EventHandler) CreateCar(c *gin.Context) {
	var req models.Car
	if !bindPayload(c, &req) {
		return
	}
	if err := h.commands.PublishCar(c.Request.Context(), req); err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Car data published"})
}

func (h *EventHandler) CreateRoad(c *gin.Context) {
	var req models.Road
	if !bindPayload(c, &req) {
		return
	}
	if err := h.commands.PublishRoad(c.Request.Context(), req); err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Road data published"})
}

func (h *EventHandler) CreateRoadCondition(c *gin.Context) {
	var req models.RoadCondition
	if !bindPayload(c, &req) {
		return
	}
	if err := h.commands.PublishRoadCondition(c.Request.Context(), req); err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Road condition data published"})
}

// Publish runs the car generator: ?count=50&interval=1s by default.
// interval also accepts a plain number of seconds.
func (h *EventHandler) Publish(c *gin.Context) {
	cmd := cqrs.PublishCarsCommand{Count: defaultPublishCount, Interval: defaultPublishInterval}

	if raw, ok := c.GetQuery("count"); ok {
		count, err := strconv.Atoi(raw)
		if err != nil || count <= 0 {
			middleware.RespondWithValidationError(c, []apperr.FieldError{
				{Field: "count", Message: "Value must be greater than 0", Type: "gt"},
			})
			return
		}
		if count > maxPublishCount {
			middleware.RespondWithValidationError(c, []apperr.FieldError{
				{Field: "count", Message: fmt.Sprintf("Value must be at most %d", maxPublishCount), Type: "max"},
			})
			return
		}
		cmd.Count = count
	}
	if raw, ok := c.GetQuery("interval"); ok {
		interval, err := parseInterval(raw)
		if err != nil || interval < 0 {
			middleware.RespondWithValidationError(c, []apperr.FieldError{
				{Field: "interval", Message: "Value must be a non-negative duration", Type: "duration"},
			})
			return
		}
		cmd.Interval = interval
	}

	published, err := h.commands.PublishGeneratedCars(c.Request.Context(), cmd)
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car data published", "published": published})
}

func parseInterval(raw string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(raw)
}

func bindPayload(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.RespondWithAppError(c, apperr.Validation("Invalid request body"))
		return false
	}
	if validationErrors := middleware.ValidateRequest(obj); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return false
	}
	return true
}

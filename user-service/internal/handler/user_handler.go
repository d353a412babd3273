package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	"github.com/Avdeevkonst/dip-user/shared/cqrs"
	"github.com/Avdeevkonst/dip-user/shared/middleware"
	"github.com/Avdeevkonst/dip-user/shared/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	SignUp(context.Context, cqrs.SignUpCommand) (*models.User, error)
	UpdateUser(context.Context, cqrs.UpdateUserCommand) (*models.UserView, error)
	DeleteUser(context.Context, cqrs.DeleteUserCommand) error
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetUser(context.Context, cqrs.GetUserQuery) (*models.UserView, error)
	ListUsers(context.Context, cqrs.ListUsersQuery) ([]*models.UserView, error)
}

// UserHandler routes requests to the command or query service as appropriate.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
}

type CreateUserRequest struct {
	Login       string      `json:"login" validate:"required,min=8,max=25"`
	Password    string      `json:"password" validate:"required,min=8,max=25"`
	Username    string      `json:"username" validate:"required,min=8,max=25"`
	Role        models.Role `json:"role" validate:"required,oneof=student instructor admin superadmin"`
	IsActive    *bool       `json:"is_active"`
	IsSuperuser *bool       `json:"is_superuser"`
}

type SignUpRequest struct {
	User CreateUserRequest `json:"user"`
}

type UpdateUserRequest struct {
	Login       *string      `json:"login" validate:"omitempty,min=8,max=25"`
	Password    *string      `json:"password" validate:"omitempty,min=8,max=25"`
	Username    *string      `json:"username" validate:"omitempty,min=8,max=25"`
	Role        *models.Role `json:"role" validate:"omitempty,oneof=student instructor admin superadmin"`
	IsActive    *bool        `json:"is_active"`
	IsSuperuser *bool        `json:"is_superuser"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

func (h *UserHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithAppError(c, apperr.Validation("Invalid request body"))
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	isActive := true
	if req.User.IsActive != nil {
		isActive = *req.User.IsActive
	}
	isSuperuser := false
	if req.User.IsSuperuser != nil {
		isSuperuser = *req.User.IsSuperuser
	}

	user, err := h.commands.SignUp(c.Request.Context(), cqrs.SignUpCommand{
		Login:       req.User.Login,
		Username:    req.User.Username,
		Password:    req.User.Password,
		Role:        req.User.Role,
		IsActive:    isActive,
		IsSuperuser: isSuperuser,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewUserView(user))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	view, err := h.queries.GetUser(c.Request.Context(), cqrs.GetUserQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var q cqrs.ListUsersQuery
	var details []apperr.FieldError

	if v, ok := c.GetQuery("login"); ok {
		q.Login = &v
	}
	if v, ok := c.GetQuery("username"); ok {
		q.Username = &v
	}
	if v, ok := c.GetQuery("role"); ok {
		role := models.Role(v)
		if !role.Valid() {
			details = append(details, apperr.FieldError{Field: "role", Message: "Value must be one of: student instructor admin superadmin", Type: "oneof"})
		}
		q.Role = &role
	}
	var err error
	if q.IsActive, err = boolQuery(c, "is_active"); err != nil {
		details = append(details, apperr.FieldError{Field: "is_active", Message: "Value must be a boolean", Type: "boolean"})
	}
	if q.IsSuperuser, err = boolQuery(c, "is_superuser"); err != nil {
		details = append(details, apperr.FieldError{Field: "is_superuser", Message: "Value must be a boolean", Type: "boolean"})
	}
	if details != nil {
		middleware.RespondWithValidationError(c, details)
		return
	}

	views, err := h.queries.ListUsers(c.Request.Context(), q)
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithAppError(c, apperr.Validation("Invalid request body"))
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.UpdateUser(c.Request.Context(), cqrs.UpdateUserCommand{
		UserID:      userID,
		Login:       req.Login,
		Username:    req.Username,
		Password:    req.Password,
		Role:        req.Role,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.commands.DeleteUser(c.Request.Context(), cqrs.DeleteUserCommand{UserID: userID}); err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		middleware.RespondWithValidationError(c, []apperr.FieldError{
			{Field: "user_id", Message: "Value must be a UUID", Type: "uuid"},
		})
		return uuid.Nil, false
	}
	return userID, true
}

func boolQuery(c *gin.Context, key string) (*bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

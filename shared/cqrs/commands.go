package cqrs

import (
	"time"

	"github.com/Avdeevkonst/dip-user/shared/models"
	"github.com/google/uuid"
)

type SignUpCommand struct {
	Login       string
	Username    string
	Password    string
	Role        models.Role
	IsActive    bool
	IsSuperuser bool
}

// UpdateUserCommand is a partial update: nil fields are left untouched.
type UpdateUserCommand struct {
	UserID      uuid.UUID
	Login       *string
	Username    *string
	Password    *string
	Role        *models.Role
	IsActive    *bool
	IsSuperuser *bool
}

type DeleteUserCommand struct {
	UserID uuid.UUID
}

type PublishCarsCommand struct {
	Count    int
	Interval time.Duration
}

type LoginCommand struct {
	Login    string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}

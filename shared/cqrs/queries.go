package cqrs

import (
	"github.com/Avdeevkonst/dip-user/shared/models"
	"github.com/google/uuid"
)

// GetUserQuery fetches a single user by ID.
type GetUserQuery struct {
	UserID uuid.UUID
}

// ListUsersQuery filters users; nil fields do not constrain the result.
type ListUsersQuery struct {
	Login       *string
	Username    *string
	Role        *models.Role
	IsActive    *bool
	IsSuperuser *bool
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// UserView is the response and cache projection of a user.
// It never carries the password hash.
type UserView struct {
	ID          uuid.UUID  `json:"id"`
	Login       string     `json:"login"`
	Username    string     `json:"username"`
	Role        Role       `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsSuperuser bool       `json:"is_superuser"`
}

func NewUserView(u *User) *UserView {
	view := &UserView{
		ID:          u.ID,
		Login:       u.Login,
		Username:    u.Username,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
	}
	if u.UpdatedAt.Valid {
		updated := u.UpdatedAt.Time
		view.UpdatedAt = &updated
	}
	return view
}

package query

import (
	"context"

	"github.com/Avdeevkonst/dip-user/shared/cqrs"
	"github.com/Avdeevkonst/dip-user/shared/models"
	"github.com/Avdeevkonst/dip-user/user-service/internal/repository"
	"github.com/google/uuid"
)

// UserReader is implemented by *repository.UserReadRepository.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserView, error)
	List(ctx context.Context, filter repository.UserFilter) ([]*models.UserView, error)
}

// UserQueryService reads user views from the Redis cache (with a Postgres fallback).
type UserQueryService struct {
	readRepo UserReader
}

func NewUserQueryService(readRepo UserReader) *UserQueryService {
	return &UserQueryService{readRepo: readRepo}
}

func (s *UserQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	return s.readRepo.GetByID(ctx, q.UserID)
}

func (s *UserQueryService) ListUsers(ctx context.Context, q cqrs.ListUsersQuery) ([]*models.UserView, error) {
	return s.readRepo.List(ctx, repository.UserFilter{
		Login:       q.Login,
		Username:    q.Username,
		Role:        q.Role,
		IsActive:    q.IsActive,
		IsSuperuser: q.IsSuperuser,
	})
}

package command

import (
	"context"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	"github.com/Avdeevkonst/dip-user/shared/cqrs"
	"github.com/Avdeevkonst/dip-user/shared/database"
	"github.com/Avdeevkonst/dip-user/shared/models"
	"github.com/Avdeevkonst/dip-user/shared/utils"
	"github.com/Avdeevkonst/dip-user/user-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ViewCache is the read-model side the command service keeps current.
type ViewCache interface {
	CacheUserView(ctx context.Context, view *models.UserView)
	InvalidateUserView(ctx context.Context, userID uuid.UUID)
}

// UserCommandService writes user state to PostgreSQL and keeps the Redis
// read model up to date.
type UserCommandService struct {
	sessions *database.SessionFactory
	cache    ViewCache
	log      *zap.Logger
}

func NewUserCommandService(sessions *database.SessionFactory, cache ViewCache, log *zap.Logger) *UserCommandService {
	return &UserCommandService{sessions: sessions, cache: cache, log: log}
}

// SignUp stores a new user with a hashed password. A taken login is a
// conflict.
func (s *UserCommandService) SignUp(ctx context.Context, cmd cqrs.SignUpCommand) (*models.User, error) {
	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}
	user := &models.User{
		ID:          uuid.New(),
		Login:       cmd.Login,
		Username:    cmd.Username,
		Password:    passwordHash,
		Role:        cmd.Role,
		IsActive:    cmd.IsActive,
		IsSuperuser: cmd.IsSuperuser,
	}

	var created *models.User
	err = s.sessions.Do(ctx, func(ctx context.Context, uow *database.UnitOfWork) error {
		var err error
		created, err = repository.NewUserCrud(uow).CreateUser(ctx, user)
		if err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user signed up", zap.Stringer("user", created))
	s.cache.CacheUserView(ctx, models.NewUserView(created))
	return created, nil
}

func (s *UserCommandService) UpdateUser(ctx context.Context, cmd cqrs.UpdateUserCommand) (*models.UserView, error) {
	changes := repository.UserChanges{
		Login:       cmd.Login,
		Username:    cmd.Username,
		Role:        cmd.Role,
		IsActive:    cmd.IsActive,
		IsSuperuser: cmd.IsSuperuser,
	}
	if cmd.Password != nil {
		passwordHash, err := utils.HashPassword(*cmd.Password)
		if err != nil {
			return nil, apperr.Internal("Failed to hash password", err)
		}
		changes.Password = &passwordHash
	}

	var updated *models.User
	err := s.sessions.Do(ctx, func(ctx context.Context, uow *database.UnitOfWork) error {
		var err error
		updated, err = repository.NewUserCrud(uow).UpdateUser(ctx, cmd.UserID, changes)
		if err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	view := models.NewUserView(updated)
	s.cache.CacheUserView(ctx, view)
	return view, nil
}

func (s *UserCommandService) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
	err := s.sessions.Do(ctx, func(ctx context.Context, uow *database.UnitOfWork) error {
		users := repository.NewUserCrud(uow)
		if _, err := users.GetUser(ctx, cmd.UserID); err != nil {
			return err
		}
		if _, err := users.DeleteUser(ctx, cmd.UserID); err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateUserView(ctx, cmd.UserID)
	return nil
}

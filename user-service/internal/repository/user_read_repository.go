package repository

import (
	"context"
	"time"

	"github.com/Avdeevkonst/dip-user/shared/database"
	"github.com/Avdeevkonst/dip-user/shared/models"
	sharedredis "github.com/Avdeevkonst/dip-user/shared/redis"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const userViewKeyPrefix = "user:view:"

// UserReadRepository handles all read operations for users.
// It uses Redis as the primary read store, falling back to PostgreSQL on a miss.
type UserReadRepository struct {
	sessions *database.SessionFactory
	cache    *sharedredis.ViewCache[models.UserView]
}

func NewUserReadRepository(sessions *database.SessionFactory, redisClient goredis.Cmdable, ttl time.Duration, log *zap.Logger) *UserReadRepository {
	return &UserReadRepository{
		sessions: sessions,
		cache:    sharedredis.NewViewCache[models.UserView](redisClient, userViewKeyPrefix, ttl, log),
	}
}

// GetByID returns a UserView from Redis first, then PostgreSQL.
func (r *UserReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserView, error) {
	if view, ok := r.cache.Get(ctx, id.String()); ok {
		return view, nil
	}

	var view *models.UserView
	err := r.sessions.Do(ctx, func(ctx context.Context, uow *database.UnitOfWork) error {
		user, err := NewUserCrud(uow).GetUser(ctx, id)
		if err != nil {
			return err
		}
		view = models.NewUserView(user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.CacheUserView(ctx, view)
	return view, nil
}

// List always reads PostgreSQL; filtered lists are not cached.
func (r *UserReadRepository) List(ctx context.Context, filter UserFilter) ([]*models.UserView, error) {
	views := []*models.UserView{}
	err := r.sessions.Do(ctx, func(ctx context.Context, uow *database.UnitOfWork) error {
		users, err := NewUserCrud(uow).ListUsers(ctx, filter)
		if err != nil {
			return err
		}
		for _, u := range users {
			views = append(views, models.NewUserView(u))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// CacheUserView stores or refreshes the Redis read model for a user.
// Called by the command service after every mutation.
func (r *UserReadRepository) CacheUserView(ctx context.Context, view *models.UserView) {
	r.cache.Set(ctx, view.ID.String(), view)
}

// InvalidateUserView removes the Redis read model entry for a deleted user.
func (r *UserReadRepository) InvalidateUserView(ctx context.Context, userID uuid.UUID) {
	r.cache.Delete(ctx, userID.String())
}

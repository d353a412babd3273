package repository

import (
	"context"

	"github.com/Avdeevkonst/dip-user/shared/database"
	"github.com/Avdeevkonst/dip-user/shared/models"
	"github.com/google/uuid"
)

// UserCrud is the user repository bound to one unit of work.
type UserCrud struct {
	*database.CrudEntity[models.User, *models.User]
}

func NewUserCrud(uow *database.UnitOfWork) *UserCrud {
	return &UserCrud{CrudEntity: database.NewCrudEntity[models.User](uow)}
}

// UserFilter selects users; nil fields do not constrain the result.
type UserFilter struct {
	ID          *uuid.UUID
	Login       *string
	Username    *string
	Role        *models.Role
	IsActive    *bool
	IsSuperuser *bool
}

func (f UserFilter) Fields() database.Fields {
	return database.Fields{
		database.Opt("id", f.ID),
		database.Opt("login", f.Login),
		database.Opt("username", f.Username),
		database.Opt("role", f.Role),
		database.Opt("is_active", f.IsActive),
		database.Opt("is_superuser", f.IsSuperuser),
	}
}

// UserChanges is a partial update; nil fields are left untouched.
// Password must already be hashed.
type UserChanges struct {
	Login       *string
	Username    *string
	Password    *string
	Role        *models.Role
	IsActive    *bool
	IsSuperuser *bool
}

func (c UserChanges) Fields() database.Fields {
	return database.Fields{
		database.Opt("login", c.Login),
		database.Opt("username", c.Username),
		database.Opt("password", c.Password),
		database.Opt("role", c.Role),
		database.Opt("is_active", c.IsActive),
		database.Opt("is_superuser", c.IsSuperuser),
	}
}

func (r *UserCrud) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	return r.Create(ctx, user)
}

func (r *UserCrud) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.GetByID(ctx, id)
}

// FindByLogin returns nil without error when no user has login.
func (r *UserCrud) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	return r.GetOptionalByConditions(ctx, database.Fields{database.Set("login", login)})
}

func (r *UserCrud) ListUsers(ctx context.Context, filter UserFilter) ([]*models.User, error) {
	return r.GetMany(ctx, filter.Fields())
}

func (r *UserCrud) UpdateUser(ctx context.Context, id uuid.UUID, changes UserChanges) (*models.User, error) {
	return r.Update(ctx, changes.Fields(), UserFilter{ID: &id}.Fields())
}

func (r *UserCrud) DeleteUser(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.Delete(ctx, UserFilter{ID: &id}.Fields())
}

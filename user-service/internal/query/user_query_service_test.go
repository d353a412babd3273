package query

import (
	"context"
	"testing"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	"github.com/Avdeevkonst/dip-user/shared/cqrs"
	"github.com/Avdeevkonst/dip-user/shared/models"
	"github.com/Avdeevkonst/dip-user/user-service/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReader struct {
	getFn  func(uuid.UUID) (*models.UserView, error)
	listFn func(repository.UserFilter) ([]*models.UserView, error)
}

func (m *mockReader) GetByID(_ context.Context, id uuid.UUID) (*models.UserView, error) {
	return m.getFn(id)
}

func (m *mockReader) List(_ context.Context, f repository.UserFilter) ([]*models.UserView, error) {
	return m.listFn(f)
}

func TestGetUser(t *testing.T) {
	id := uuid.New()
	svc := NewUserQueryService(&mockReader{getFn: func(got uuid.UUID) (*models.UserView, error) {
		if got != id {
			return nil, apperr.NotFound("No such object")
		}
		return &models.UserView{ID: id, Login: "driver001"}, nil
	}})

	view, err := svc.GetUser(context.Background(), cqrs.GetUserQuery{UserID: id})
	require.NoError(t, err)
	assert.Equal(t, "driver001", view.Login)

	_, err = svc.GetUser(context.Background(), cqrs.GetUserQuery{UserID: uuid.New()})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListUsersPassesFilter(t *testing.T) {
	role := models.RoleAdmin
	active := true
	var seen repository.UserFilter
	svc := NewUserQueryService(&mockReader{listFn: func(f repository.UserFilter) ([]*models.UserView, error) {
		seen = f
		return []*models.UserView{}, nil
	}})

	_, err := svc.ListUsers(context.Background(), cqrs.ListUsersQuery{Role: &role, IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, &role, seen.Role)
	assert.Equal(t, &active, seen.IsActive)
	assert.Nil(t, seen.Login)
	assert.Nil(t, seen.ID)
}

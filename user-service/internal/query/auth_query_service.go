package query

import (
	"context"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	"github.com/Avdeevkonst/dip-user/shared/auth"
	"github.com/Avdeevkonst/dip-user/shared/cqrs"
	"github.com/Avdeevkonst/dip-user/shared/database"
	"github.com/Avdeevkonst/dip-user/shared/models"
	"github.com/Avdeevkonst/dip-user/shared/utils"
	"github.com/Avdeevkonst/dip-user/user-service/internal/repository"
	"github.com/google/uuid"
)

// AuthQueryService handles login and token refresh. Neither mutates state,
// so both live on the query side.
type AuthQueryService struct {
	sessions *database.SessionFactory
	tokens   *auth.TokenIssuer
}

func NewAuthQueryService(sessions *database.SessionFactory, tokens *auth.TokenIssuer) *AuthQueryService {
	return &AuthQueryService{sessions: sessions, tokens: tokens}
}

// Login checks the password of an active user and returns a signed token.
// Unknown login, wrong password and inactive user all look the same.
func (s *AuthQueryService) Login(ctx context.Context, cmd cqrs.LoginCommand) (string, error) {
	var user *models.User
	err := s.sessions.Do(ctx, func(ctx context.Context, uow *database.UnitOfWork) error {
		var err error
		user, err = repository.NewUserCrud(uow).FindByLogin(ctx, cmd.Login)
		return err
	})
	if err != nil {
		return "", err
	}
	if user == nil || !user.IsActive || !utils.CheckPassword(cmd.Password, user.Password) {
		return "", apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID, user.Login, user.Role)
	if err != nil {
		return "", apperr.Internal("Failed to generate token", err)
	}
	return token, nil
}

// RefreshToken reissues a still-valid token with a fresh expiry.
func (s *AuthQueryService) RefreshToken(_ context.Context, cmd cqrs.RefreshTokenCommand) (string, error) {
	claims, err := s.tokens.Parse(cmd.Token)
	if err != nil {
		return "", apperr.Unauthorized("Invalid token")
	}

	token, err := s.tokens.Issue(uuid.MustParse(claims.Subject), claims.Login, claims.Role)
	if err != nil {
		return "", apperr.Internal("Failed to generate token", err)
	}
	return token, nil
}

package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	"github.com/Avdeevkonst/dip-user/shared/cqrs"
	"github.com/gin-gonic/gin"
)

// ---- mock implementation ----

type mockAuthQuerier struct {
	loginFn   func(cqrs.LoginCommand) (string, error)
	refreshFn func(cqrs.RefreshTokenCommand) (string, error)
}

func (m *mockAuthQuerier) Login(_ context.Context, cmd cqrs.LoginCommand) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}
func (m *mockAuthQuerier) RefreshToken(_ context.Context, cmd cqrs.RefreshTokenCommand) (string, error) {
	if m.refreshFn != nil {
		return m.refreshFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}

func newAuthTestRouter(qrys AuthQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(qrys)
	v1 := r.Group("/api/v1/user")
	v1.POST("/login", h.Login)
	v1.POST("/refresh", h.RefreshToken)
	return r
}

// ---- tests ----

func TestLogin_Success(t *testing.T) {
	qrys := &mockAuthQuerier{loginFn: func(cmd cqrs.LoginCommand) (string, error) {
		if cmd.Login != "driver001" || cmd.Password != "Secret123" {
			t.Errorf("unexpected command %+v", cmd)
		}
		return "signed.jwt.token", nil
	}}
	w := doRequest(newAuthTestRouter(qrys), http.MethodPost, "/api/v1/user/login",
		map[string]string{"login": "driver001", "password": "Secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if decodeBody(t, w)["token"] != "signed.jwt.token" {
		t.Error("unexpected token")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	qrys := &mockAuthQuerier{loginFn: func(cqrs.LoginCommand) (string, error) {
		return "", apperr.Unauthorized("Invalid credentials")
	}}
	w := doRequest(newAuthTestRouter(qrys), http.MethodPost, "/api/v1/user/login",
		map[string]string{"login": "driver001", "password": "Wrong1234"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	w := doRequest(newAuthTestRouter(&mockAuthQuerier{}), http.MethodPost, "/api/v1/user/login",
		map[string]string{"login": "driver001"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRefreshToken(t *testing.T) {
	qrys := &mockAuthQuerier{refreshFn: func(cmd cqrs.RefreshTokenCommand) (string, error) {
		if cmd.Token != "old" {
			return "", apperr.Unauthorized("Invalid token")
		}
		return "new", nil
	}}
	router := newAuthTestRouter(qrys)

	w := doRequest(router, http.MethodPost, "/api/v1/user/refresh", map[string]string{"token": "old"})
	if w.Code != http.StatusOK || decodeBody(t, w)["token"] != "new" {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, "/api/v1/user/refresh", map[string]string{"token": "stale"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

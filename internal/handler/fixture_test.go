package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"docportal/internal/auth"
	"docportal/internal/model"
	"docportal/internal/repository"
	"docportal/internal/service"
	"docportal/internal/web"
)

const testCookie = "docportal-session"

type fixture struct {
	echo    *echo.Echo
	users   service.UserStore
	auth    service.AuthService
	codec   *auth.SessionCodec
	cookies *auth.CookieHelper
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := repository.NewFileUserRepository(filepath.Join(t.TempDir(), "users.json"))
	users, err := service.NewUserStore(repo, []model.NewUser{
		{Username: "alice", Email: "alice@example.com", Password: "pw1", Name: "Alice", Role: model.RoleAdmin},
		{Username: "bob", Email: "bob@example.com", Password: "pw2", Name: "Bob", Role: model.RoleViewer},
	}, nil, nil)
	require.NoError(t, err)

	codec := auth.NewSessionCodec(auth.SessionConfig{Secret: []byte("handler-secret"), Lifetime: time.Hour})
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Validator = NewValidator()
	e.Renderer = renderer

	return &fixture{
		echo:    e,
		users:   users,
		auth:    service.NewAuthService(users, codec, nil, nil),
		codec:   codec,
		cookies: auth.NewCookieHelper(auth.CookieConfig{Name: testCookie, MaxAge: time.Hour}),
	}
}

func (f *fixture) user(t *testing.T, key string) *model.User {
	t.Helper()
	u, err := f.users.GetByUsernameOrEmail(context.Background(), key)
	require.NoError(t, err)
	return u
}

func (f *fixture) sessionCookie(t *testing.T, key string) *http.Cookie {
	t.Helper()
	token, err := f.codec.Issue(f.user(t, key))
	require.NoError(t, err)
	return &http.Cookie{Name: testCookie, Value: token}
}

// context builds an echo context for a request; body is sent as JSON when it
// starts with "{", as a form otherwise.
func (f *fixture) context(method, target, body string, cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		if strings.HasPrefix(body, "{") {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		} else {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		}
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return f.echo.NewContext(req, rec), rec
}

// statusOf returns the status carried by an echo error, or the recorder's code.
func statusOf(err error, rec *httptest.ResponseRecorder) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return rec.Code
}

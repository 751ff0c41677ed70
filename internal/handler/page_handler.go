package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"docportal/internal/auth"
	apperrors "docportal/internal/errors"
	"docportal/internal/middleware"
	"docportal/internal/model"
	"docportal/internal/service"
	"docportal/internal/web"
)

const defaultLanding = "/docs"

// PageHandler serves the server-rendered pages outside the document tree.
type PageHandler struct {
	authService service.AuthService
	users       service.UserStore
	cookies     *auth.CookieHelper
}

// NewPageHandler creates a page handler.
func NewPageHandler(authService service.AuthService, users service.UserStore, cookies *auth.CookieHelper) *PageHandler {
	return &PageHandler{authService: authService, users: users, cookies: cookies}
}

type loginView struct {
	Redirect string
	Username string
	Error    string
}

type adminView struct {
	UserCount  int
	AdminCount int
}

type adminUsersView struct {
	Users []model.User
}

type errorView struct {
	Status  int
	Message string
}

// sessionFor prefers the claims attached by the gate and falls back to the cookie
// on paths the gate does not cover.
func sessionFor(c echo.Context, authService service.AuthService, cookies *auth.CookieHelper) *auth.Claims {
	if claims, ok := middleware.Session(c); ok {
		return claims
	}
	if claims, ok := authService.Session(cookies.Token(c)); ok {
		return claims
	}
	return nil
}

func renderError(c echo.Context, user *auth.Claims, status int, message string) error {
	return c.Render(status, "error", web.View{
		Title: http.StatusText(status),
		User:  user,
		Data:  errorView{Status: status, Message: message},
	})
}

// safeRedirect keeps post-login redirects on this site.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return defaultLanding
	}
	return target
}

// Home renders the landing page, or sends signed-in users to the documents.
func (h *PageHandler) Home(c echo.Context) error {
	if user := sessionFor(c, h.authService, h.cookies); user != nil {
		return c.Redirect(http.StatusFound, defaultLanding)
	}
	return c.Render(http.StatusOK, "home", web.View{})
}

// LoginPage renders the sign-in form.
func (h *PageHandler) LoginPage(c echo.Context) error {
	redirect := safeRedirect(c.QueryParam("redirect"))
	if user := sessionFor(c, h.authService, h.cookies); user != nil {
		return c.Redirect(http.StatusFound, redirect)
	}
	return c.Render(http.StatusOK, "login", web.View{
		Title: "Sign in",
		Data:  loginView{Redirect: redirect},
	})
}

// LoginSubmit handles the sign-in form post.
func (h *PageHandler) LoginSubmit(c echo.Context) error {
	redirect := safeRedirect(c.FormValue("redirect"))
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	fail := func(status int, message string) error {
		return c.Render(status, "login", web.View{
			Title: "Sign in",
			Data:  loginView{Redirect: redirect, Username: username, Error: message},
		})
	}

	if username == "" || password == "" {
		return fail(http.StatusBadRequest, "Username and password are required")
	}

	token, _, err := h.authService.Login(c.Request().Context(), username, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return fail(http.StatusUnauthorized, "Invalid username or password")
		}
		c.Logger().Error(err)
		return fail(http.StatusInternalServerError, "Sign in is unavailable, try again later")
	}

	h.cookies.SetSession(c, token)
	return c.Redirect(http.StatusSeeOther, redirect)
}

// LogoutSubmit clears the session and returns to the landing page.
func (h *PageHandler) LogoutSubmit(c echo.Context) error {
	h.cookies.ClearSession(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

// requireAdminPage re-validates the cookie for admin pages.
func (h *PageHandler) requireAdminPage(c echo.Context) (*auth.Claims, error) {
	claims, ok := h.authService.Session(h.cookies.Token(c))
	if !ok {
		return nil, c.Redirect(http.StatusFound, middleware.LoginRedirect(c.Request().URL.Path))
	}
	if !claims.IsAdmin() {
		return nil, renderError(c, claims, http.StatusForbidden, "Admin access required.")
	}
	return claims, nil
}

// Admin renders the administration overview.
func (h *PageHandler) Admin(c echo.Context) error {
	claims, err := h.requireAdminPage(c)
	if claims == nil {
		return err
	}

	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, "admin", web.View{
		Title: "Administration",
		User:  claims,
		Data: adminView{
			UserCount:  len(users),
			AdminCount: lo.CountBy(users, func(u model.User) bool { return u.IsAdmin() }),
		},
	})
}

// AdminUsers renders the account list.
func (h *PageHandler) AdminUsers(c echo.Context) error {
	claims, err := h.requireAdminPage(c)
	if claims == nil {
		return err
	}

	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, "admin_users", web.View{
		Title: "Users",
		User:  claims,
		Data:  adminUsersView{Users: users},
	})
}

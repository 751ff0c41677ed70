package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"docportal/internal/auth"
	apperrors "docportal/internal/errors"
	"docportal/internal/model"
	"docportal/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookies     *auth.CookieHelper
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookies *auth.CookieHelper) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// SessionUser is the account summary returned after login.
type SessionUser struct {
	Username string     `json:"username"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Success bool        `json:"success"`
	User    SessionUser `json:"user"`
}

// SuccessResponse acknowledges an operation without a payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// MeUser is the identity carried by the current session.
type MeUser struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
}

// MeResponse wraps the current session identity.
type MeResponse struct {
	User MeUser `json:"user"`
}

// Login godoc
// @Summary Login with username or email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest("Username and password are required")
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
			Error: "Internal server error",
			Code:  "LOGIN_FAILED",
		}).SetInternal(err)
	}

	h.cookies.SetSession(c, token)
	return c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		User: SessionUser{
			Username: user.Username,
			Name:     user.Name,
			Role:     user.Role,
		},
	})
}

// Logout godoc
// @Summary Logout and clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.ClearSession(c)
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Me godoc
// @Summary Current session identity
// @Tags auth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := h.authService.Session(h.cookies.Token(c))
	if !ok {
		return unauthorized("Not authenticated")
	}

	return c.JSON(http.StatusOK, MeResponse{User: MeUser{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Name:     claims.Name,
		Role:     claims.Role,
	}})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"docportal/internal/auth"
	apperrors "docportal/internal/errors"
	"docportal/internal/model"
	"docportal/internal/service"
)

// UserHandler exposes account administration. Every endpoint re-validates
// the session cookie and requires the admin role.
type UserHandler struct {
	users       service.UserStore
	authService service.AuthService
	cookies     *auth.CookieHelper
}

// NewUserHandler creates a handler layer.
func NewUserHandler(users service.UserStore, authService service.AuthService, cookies *auth.CookieHelper) *UserHandler {
	return &UserHandler{users: users, authService: authService, cookies: cookies}
}

// CreateUserRequest represents an account creation request.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin viewer"`
}

// UpdateUserRequest represents a partial account update. Empty fields are ignored.
type UpdateUserRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin viewer"`
}

// UserResponse wraps a single account.
type UserResponse struct {
	User model.User `json:"user"`
}

// UserListResponse wraps every account.
type UserListResponse struct {
	Users []model.User `json:"users"`
}

func (h *UserHandler) requireAdmin(c echo.Context) (*auth.Claims, error) {
	claims, ok := h.authService.Session(h.cookies.Token(c))
	if !ok {
		return nil, unauthorized("Unauthorized")
	}
	if !claims.IsAdmin() {
		return nil, echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
			Error: "Forbidden: Admin access required",
			Code:  "FORBIDDEN",
		})
	}
	return claims, nil
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} UserListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	if _, err := h.requireAdmin(c); err != nil {
		return err
	}

	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, UserListResponse{Users: users})
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	if _, err := h.requireAdmin(c); err != nil {
		return err
	}

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(createValidationMessage(err))
	}

	user, err := h.users.Create(c.Request().Context(), model.NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, UserResponse{User: *user})
}

// createValidationMessage reports a bad role only when every field is present.
func createValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "All fields are required"
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return "All fields are required"
		}
	}
	return "Invalid role"
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	if _, err := h.requireAdmin(c); err != nil {
		return err
	}

	user, err := h.users.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{User: *user})
}

// UpdateUser godoc
// @Summary Update user
// @Description Only non-empty fields are applied. A new password is re-hashed.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/{id} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	if _, err := h.requireAdmin(c); err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest("Invalid role")
	}

	user, err := h.users.Update(c.Request().Context(), c.Param("id"), req.patch())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{User: *user})
}

func (r UpdateUserRequest) patch() model.UserPatch {
	var p model.UserPatch
	if r.Username != "" {
		p.Username = model.Some(r.Username)
	}
	if r.Email != "" {
		p.Email = model.Some(r.Email)
	}
	if r.Password != "" {
		p.Password = model.Some(r.Password)
	}
	if r.Name != "" {
		p.Name = model.Some(r.Name)
	}
	if r.Role != "" {
		p.Role = model.Some(model.Role(r.Role))
	}
	return p
}

// DeleteUser godoc
// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	claims, err := h.requireAdmin(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if id == claims.UserID {
		return httpError(apperrors.ErrSelfDelete)
	}

	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

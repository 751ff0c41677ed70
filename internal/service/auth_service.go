package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"docportal/internal/auth"
	apperrors "docportal/internal/errors"
	"docportal/internal/metrics"
	"docportal/internal/model"
)

// AuthService handles authentication operations.
type AuthService interface {
	Verify(ctx context.Context, usernameOrEmail, password string) (*model.User, error)
	Login(ctx context.Context, usernameOrEmail, password string) (token string, user *model.User, err error)
	Session(token string) (*auth.Claims, bool)
}

type authService struct {
	users   UserStore
	codec   *auth.SessionCodec
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewAuthService creates a new authentication service.
func NewAuthService(users UserStore, codec *auth.SessionCodec, logger *zap.Logger, m *metrics.Metrics) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		users:   users,
		codec:   codec,
		logger:  logger,
		metrics: m,
	}
}

// Verify checks the password of the account matching usernameOrEmail.
// Unknown accounts and wrong passwords both yield ErrInvalidCredentials.
func (s *authService) Verify(ctx context.Context, usernameOrEmail, password string) (*model.User, error) {
	user, err := s.users.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.users.TouchLastLogin(ctx, user.ID)
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *authService) Login(ctx context.Context, usernameOrEmail, password string) (string, *model.User, error) {
	user, err := s.Verify(ctx, usernameOrEmail, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			s.metrics.ObserveLogin(metrics.LoginFailure)
			s.logger.Info("login rejected", zap.String("username", usernameOrEmail))
		} else {
			s.metrics.ObserveLogin(metrics.LoginError)
		}
		return "", nil, err
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		s.metrics.ObserveLogin(metrics.LoginError)
		return "", nil, fmt.Errorf("issue session: %w", err)
	}

	s.metrics.ObserveLogin(metrics.LoginSuccess)
	s.logger.Info("login succeeded", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return token, user, nil
}

// Session validates a session token.
func (s *authService) Session(token string) (*auth.Claims, bool) {
	return s.codec.Validate(token)
}

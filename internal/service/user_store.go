package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "docportal/internal/errors"
	"docportal/internal/metrics"
	"docportal/internal/model"
	"docportal/internal/repository"
)

const bcryptCost = 10

// UserStore owns the portal accounts.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsernameOrEmail(ctx context.Context, key string) (*model.User, error)
	Create(ctx context.Context, in model.NewUser) (*model.User, error)
	Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string)
}

type userStore struct {
	repo     repository.UserRepository
	defaults []model.User
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	// mu serializes read-modify-write cycles within this process only.
	mu sync.Mutex
}

// NewUserStore builds a UserStore over repo. The seed accounts are hashed once
// and written to the repository the first time it turns out to be empty.
func NewUserStore(repo repository.UserRepository, seed []model.NewUser, logger *zap.Logger, m *metrics.Metrics) (UserStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	now := time.Now().UTC()
	defaults := make([]model.User, 0, len(seed))
	for _, in := range seed {
		user, err := newUserRecord(in, now)
		if err != nil {
			return nil, fmt.Errorf("seed user %q: %w", in.Username, err)
		}
		defaults = append(defaults, *user)
	}

	return &userStore{
		repo:     repo,
		defaults: defaults,
		logger:   logger,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func newUserRecord(in model.NewUser, createdAt time.Time) (*model.User, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, in.Role)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	return &model.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         in.Role,
		CreatedAt:    createdAt,
	}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// load returns the persisted snapshot, seeding the repository when it is empty.
func (s *userStore) load(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.Load(ctx)
	if err == nil {
		return users, nil
	}
	if !errors.Is(err, repository.ErrNoSnapshot) {
		return nil, err
	}

	users = slices.Clone(s.defaults)
	if err := s.repo.Save(ctx, users); err != nil {
		s.logger.Error("failed to seed user store", zap.Error(err))
		s.metrics.ObserveStoreFailure("seed")
	} else {
		s.logger.Info("user store seeded with default accounts", zap.Int("count", len(users)))
	}
	return users, nil
}

// snapshot is load for read paths: failures are logged and degrade to the default set.
func (s *userStore) snapshot(ctx context.Context) []model.User {
	users, err := s.load(ctx)
	if err != nil {
		s.logger.Error("failed to read user store, serving defaults", zap.Error(err))
		s.metrics.ObserveStoreFailure("load")
		return slices.Clone(s.defaults)
	}
	return users
}

func (s *userStore) save(ctx context.Context, users []model.User) error {
	if err := s.repo.Save(ctx, users); err != nil {
		s.metrics.ObserveStoreFailure("save")
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// List returns every account.
func (s *userStore) List(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot(ctx), nil
}

// GetByID finds an account by its identifier.
func (s *userStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := lo.Find(s.snapshot(ctx), func(u model.User) bool { return u.ID == id })
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &user, nil
}

// GetByUsernameOrEmail finds an account whose username or email equals key.
func (s *userStore) GetByUsernameOrEmail(ctx context.Context, key string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := lo.Find(s.snapshot(ctx), func(u model.User) bool {
		return u.Username == key || u.Email == key
	})
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &user, nil
}

// Create adds an account with a freshly hashed password.
func (s *userStore) Create(ctx context.Context, in model.NewUser) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if lo.ContainsBy(users, func(u model.User) bool {
		return u.Username == in.Username || u.Email == in.Email
	}) {
		return nil, apperrors.ErrDuplicateIdentity
	}

	user, err := newUserRecord(in, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, append(users, *user)); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Update applies the set fields of patch to the account.
func (s *userStore) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	_, idx, ok := lo.FindIndexOf(users, func(u model.User) bool { return u.ID == id })
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}

	others := lo.Reject(users, func(u model.User, _ int) bool { return u.ID == id })
	if username, set := patch.Username.Get(); set && lo.ContainsBy(others, func(u model.User) bool { return u.Username == username }) {
		return nil, apperrors.ErrDuplicateIdentity
	}
	if email, set := patch.Email.Get(); set && lo.ContainsBy(others, func(u model.User) bool { return u.Email == email }) {
		return nil, apperrors.ErrDuplicateIdentity
	}

	user := users[idx]
	if role, set := patch.Role.Get(); set {
		if !role.Valid() {
			return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, role)
		}
		if user.Role == model.RoleAdmin && role != model.RoleAdmin && countAdmins(others) == 0 {
			return nil, apperrors.ErrLastAdmin
		}
		user.Role = role
	}
	if username, set := patch.Username.Get(); set {
		user.Username = username
	}
	if email, set := patch.Email.Get(); set {
		user.Email = email
	}
	if name, set := patch.Name.Get(); set {
		user.Name = name
	}
	if password, set := patch.Password.Get(); set {
		hash, err := hashPassword(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	users[idx] = user
	if err := s.save(ctx, users); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", zap.String("user_id", user.ID))
	return &user, nil
}

// Delete removes the account unless it is the last admin.
func (s *userStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	remaining := lo.Reject(users, func(u model.User, _ int) bool { return u.ID == id })
	if len(remaining) == len(users) {
		return apperrors.ErrUserNotFound
	}
	if countAdmins(remaining) == 0 {
		return apperrors.ErrLastAdmin
	}

	if err := s.save(ctx, remaining); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// TouchLastLogin records a successful login. Failures are logged and swallowed.
func (s *userStore) TouchLastLogin(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", id), zap.Error(err))
		s.metrics.ObserveStoreFailure("touch")
		return
	}

	_, idx, ok := lo.FindIndexOf(users, func(u model.User) bool { return u.ID == id })
	if !ok {
		return
	}

	now := s.now()
	users[idx].LastLogin = &now
	if err := s.save(ctx, users); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", id), zap.Error(err))
	}
}

func countAdmins(users []model.User) int {
	return lo.CountBy(users, func(u model.User) bool { return u.Role == model.RoleAdmin })
}

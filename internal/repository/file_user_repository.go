package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"

	"docportal/internal/model"
)

// userRecord is the on-disk shape of a user. Unlike model.User it keeps the hash.
type userRecord struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"passwordHash"`
	Name         string     `json:"name"`
	Role         model.Role `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

func newUserRecord(u model.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}

func (r userRecord) toDomain() model.User {
	return model.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt,
		LastLogin:    r.LastLogin,
	}
}

type fileUserRepository struct {
	path string
}

// NewFileUserRepository builds a repository backed by a JSON file at path.
func NewFileUserRepository(path string) UserRepository {
	return &fileUserRepository{path: path}
}

// Load reads the snapshot, returning ErrNoSnapshot when the file does not exist.
func (r *fileUserRepository) Load(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var records []userRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}

	users := make([]model.User, 0, len(records))
	for _, rec := range records {
		users = append(users, rec.toDomain())
	}
	return users, nil
}

// Save atomically replaces the file with the given users.
func (r *fileUserRepository) Save(ctx context.Context, users []model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records := make([]userRecord, 0, len(users))
	for _, u := range users {
		records = append(records, newUserRecord(u))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if err := atomic.WriteFile(r.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	return nil
}

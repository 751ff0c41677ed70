package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "docportal/internal/errors"
	"docportal/internal/model"
	"docportal/internal/repository"
	"docportal/internal/service"
)

func newStore(t *testing.T) service.UserStore {
	t.Helper()
	repo := repository.NewFileUserRepository(filepath.Join(t.TempDir(), "users.json"))
	store, err := service.NewUserStore(repo, []model.NewUser{
		{Username: "admin", Email: "admin@example.com", Password: "admin123", Name: "Admin", Role: model.RoleAdmin},
	}, nil, nil)
	require.NoError(t, err)
	return store
}

func TestRun_InitAndList(t *testing.T) {
	store := newStore(t)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), store, []string{"init"}, &out))
	assert.Contains(t, out.String(), "1 account(s)")

	out.Reset()
	require.NoError(t, run(context.Background(), store, []string{"list"}, &out))
	assert.Contains(t, out.String(), "admin@example.com")
	assert.Contains(t, out.String(), "never")
}

func TestRun_Add(t *testing.T) {
	store := newStore(t)
	var out bytes.Buffer

	err := run(context.Background(), store, []string{"add", "-username", "ops", "-email", "ops@example.com", "-name", "Ops", "-password", "s3cret"}, &out)

	require.NoError(t, err)
	user, err := store.GetByUsernameOrEmail(context.Background(), "ops")
	require.NoError(t, err)
	assert.Equal(t, model.RoleViewer, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))

	err = run(context.Background(), store, []string{"add", "-username", "ops", "-email", "x@example.com", "-name", "Dup", "-password", "x"}, &out)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateIdentity)
}

func TestRun_PasswdPrompts(t *testing.T) {
	store := newStore(t)
	orig := readPassword
	readPassword = func() (string, error) { return "rotated", nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), store, []string{"passwd", "-username", "admin@example.com"}, &out))

	user, err := store.GetByUsernameOrEmail(context.Background(), "admin")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("rotated")))
	assert.Contains(t, out.String(), "password updated for admin")
}

func TestRun_Errors(t *testing.T) {
	store := newStore(t)

	tests := [][]string{
		nil,
		{"bogus"},
		{"add", "-username", "x"},
		{"passwd"},
		{"passwd", "-username", "ghost", "-password", "x"},
	}
	for _, args := range tests {
		assert.Error(t, run(context.Background(), store, args, &bytes.Buffer{}), "%v", args)
	}
}

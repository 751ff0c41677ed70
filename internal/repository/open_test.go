package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docportal/internal/config"
)

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	repo, err := Open(&config.Config{UsersStore: BackendFile, UsersFile: path})

	require.NoError(t, err)
	assert.Equal(t, path, repo.(*fileUserRepository).path)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(&config.Config{UsersStore: "postgres"})

	assert.ErrorContains(t, err, `unknown users store "postgres"`)
}

package repository

import (
	"path/filepath"
	"testing"

	"github.com/abelzeko/water-samples/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserRepository(t *testing.T) *SQLiteUserRepository {
	t.Helper()
	repo, err := NewSQLiteUserRepository(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndGetUser(t *testing.T) {
	repo := newTestUserRepository(t)

	err := repo.SaveUser(entities.User{
		Username:     "julian",
		Name:         "Julian",
		Email:        "julian@empresa.com",
		PasswordHash: "hash-1",
	})
	require.NoError(t, err)

	u, err := repo.GetUserByUsername("julian")
	require.NoError(t, err)
	assert.Equal(t, "Julian", u.Name)
	assert.Equal(t, "julian@empresa.com", u.Email)
	assert.Equal(t, "hash-1", u.PasswordHash)
	assert.NotZero(t, u.ID)
}

func TestSaveUserReplacesExisting(t *testing.T) {
	repo := newTestUserRepository(t)

	require.NoError(t, repo.SaveUser(entities.User{Username: "julian", PasswordHash: "old"}))
	require.NoError(t, repo.SaveUser(entities.User{Username: "julian", Name: "Julian", PasswordHash: "new"}))

	n, err := repo.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	u, err := repo.GetUserByUsername("julian")
	require.NoError(t, err)
	assert.Equal(t, "new", u.PasswordHash)
	assert.Equal(t, "Julian", u.Name)
}

func TestGetUnknownUser(t *testing.T) {
	repo := newTestUserRepository(t)

	_, err := repo.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsersOrdered(t *testing.T) {
	repo := newTestUserRepository(t)
	require.NoError(t, repo.SaveUser(entities.User{Username: "zoe", PasswordHash: "x"}))
	require.NoError(t, repo.SaveUser(entities.User{Username: "ana", PasswordHash: "y"}))

	users, err := repo.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ana", users[0].Username)
	assert.Equal(t, "zoe", users[1].Username)
}

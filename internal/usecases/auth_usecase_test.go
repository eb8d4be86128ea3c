package usecases

import (
	"path/filepath"
	"testing"

	"github.com/abelzeko/water-samples/internal/entities"
	"github.com/abelzeko/water-samples/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) (*AuthUseCase, *repository.SQLiteUserRepository) {
	t.Helper()
	repo, err := repository.NewSQLiteUserRepository(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	uc := NewAuthUseCase(repo)
	uc.cost = bcrypt.MinCost
	return uc, repo
}

func TestCheckStatuses(t *testing.T) {
	uc, _ := newTestAuth(t)
	require.NoError(t, uc.AddUser("julian", "Julian", "julian@empresa.com", "clave_mateo1"))

	assert.Equal(t, entities.AuthPending, uc.Check("", "").Status)
	assert.Equal(t, entities.AuthPending, uc.Check("julian", "").Status)
	assert.Equal(t, entities.AuthRejected, uc.Check("julian", "wrong").Status)
	assert.Equal(t, entities.AuthRejected, uc.Check("nobody", "clave_mateo1").Status)

	id := uc.Check(" julian ", "clave_mateo1")
	assert.Equal(t, entities.AuthAuthenticated, id.Status)
	assert.True(t, id.Authenticated())
	assert.Equal(t, "Julian", id.Name)
	assert.Equal(t, "julian@empresa.com", id.Email)
}

func TestAddUserRequiresCredentials(t *testing.T) {
	uc, _ := newTestAuth(t)
	assert.Error(t, uc.AddUser("", "", "", "x"))
	assert.Error(t, uc.AddUser("ana", "", "", ""))
}

func TestSeedUsersOnlyWhenEmpty(t *testing.T) {
	uc, repo := newTestAuth(t)
	hash, err := HashPassword("secreto", bcrypt.MinCost)
	require.NoError(t, err)

	n, err := uc.SeedUsers([]string{"ana:Ana:ana@empresa.com:" + hash})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, uc.Check("ana", "secreto").Authenticated())

	n, err = uc.SeedUsers([]string{"otro:Otro:otro@empresa.com:" + hash})
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := repo.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestParseSeedUser(t *testing.T) {
	hash, err := HashPassword("x", bcrypt.MinCost)
	require.NoError(t, err)

	u, err := ParseSeedUser("julian:Julian:julian@empresa.com:" + hash)
	require.NoError(t, err)
	assert.Equal(t, "julian", u.Username)
	assert.Equal(t, hash, u.PasswordHash)

	_, err = ParseSeedUser("julian:Julian")
	assert.Error(t, err)
	_, err = ParseSeedUser("julian:Julian:j@e.com:plaintext")
	assert.Error(t, err)
}

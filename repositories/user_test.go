package repositories

import (
	"chat-relay/errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateUser_RoundTrip(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(newTestDB(t))

	created, err := repo.CreateUser("alice", "hashed-secret", "user")
	req.NoError(err)
	req.NotEmpty(created.ID)

	found, err := repo.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal(created.ID, found.ID)
	req.Equal("hashed-secret", found.PasswordHash)
	req.Equal("user", found.Role)
}

func TestUserRepository_CreateUser_RejectsDuplicate(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.CreateUser("alice", "hash-1", "user")
	req.NoError(err)

	_, err = repo.CreateUser("alice", "hash-2", "user")

	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestUserRepository_GetUserByUsername_Unknown(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.GetUserByUsername("ghost")

	req.ErrorIs(err, badger.ErrKeyNotFound)
}

func TestUserRepository_CountUsers(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(newTestDB(t))

	count, err := repo.CountUsers()
	req.NoError(err)
	req.Zero(count)

	_, err = repo.CreateUser("alice", "hash", "admin")
	req.NoError(err)
	_, err = repo.CreateUser("bob", "hash", "user")
	req.NoError(err)

	count, err = repo.CountUsers()
	req.NoError(err)
	req.Equal(2, count)
}

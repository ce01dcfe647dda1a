package repository

import (
	"context"
	"testing"

	"revlink/internal/models"
	"revlink/internal/phonehash"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositorySetPhoneHash(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "verifier")
	hash := phonehash.Hash("5551112222")

	require.NoError(t, repo.SetPhoneHash(ctx, user.ID, hash))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PhoneHash)
	assert.Equal(t, hash, *got.PhoneHash)
	assert.True(t, got.PhoneVerified())

	// Re-verification overwrites the previous hash; no history is kept.
	newHash := phonehash.Hash("5553334444")
	require.NoError(t, repo.SetPhoneHash(ctx, user.ID, newHash))
	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, newHash, *got.PhoneHash)
}

func TestUserRepositorySetPhoneHashMissingUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	err := repo.SetPhoneHash(context.Background(), uuid.New(), phonehash.Hash("5550000000"))
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestUserRepositoryFindByPhoneHashes(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	verified := createTestUser(t, db, "alice")
	require.NoError(t, repo.SetPhoneHash(ctx, verified.ID, phonehash.Hash("5551112222")))

	// Unverified users must never match, whatever hashes are probed.
	createTestUser(t, db, "bob")

	t.Run("matching hash returns the verified profile", func(t *testing.T) {
		users, err := repo.FindByPhoneHashes(ctx, []string{phonehash.Hash("555-111-2222")})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, verified.ID, users[0].ID)
	})

	t.Run("no match returns empty list", func(t *testing.T) {
		users, err := repo.FindByPhoneHashes(ctx, []string{phonehash.Hash("5559998888")})
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("empty input returns empty list without querying", func(t *testing.T) {
		users, err := repo.FindByPhoneHashes(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("null hash rows are never returned", func(t *testing.T) {
		// Probe with every stored hash value; only the verified row matches.
		users, err := repo.FindByPhoneHashes(ctx, []string{
			phonehash.Hash("5551112222"),
			phonehash.Hash(""),
		})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, verified.ID, users[0].ID)
	})
}

func TestUserRepositoryCreateDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "taken")
	err := repo.Create(ctx, &models.User{
		ID:       uuid.New(),
		Username: "taken",
		Email:    "other@example.com",
	})
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeAlreadyExists, appErr.Code)
}

package users

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/services"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := filepath.Join(t.TempDir(), "test_users.db")

	db, err := database.NewDatabase(dbPath, logger.Silent)
	require.NoError(t, err)

	repo := NewRepository(db.DB)

	cleanup := func() {
		db.Close()
	}

	return repo, cleanup
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newUser(n int, refs ...entities.RefSet) *entities.User {
	user := &entities.User{
		ID:           uuid.NewString(),
		Name:         fmt.Sprintf("User %d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "hash",
		CreatedAt:    baseTime.Add(time.Duration(n) * time.Minute),
		UpdatedAt:    baseTime.Add(time.Duration(n) * time.Minute),
	}
	if len(refs) > 0 {
		user.FavoriteBookIDs = refs[0]
	}
	if len(refs) > 1 {
		user.OwnedBookIDs = refs[1]
	}
	return user
}

func TestRepository_CreateUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	fav1, fav2, owned := uuid.NewString(), uuid.NewString(), uuid.NewString()
	user := newUser(1, entities.NewRefSet(fav2, fav1), entities.NewRefSet(owned))

	require.NoError(t, repo.CreateUser(ctx, user))

	got, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "User 1", got.Name)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, entities.RefSet{fav2, fav1}, got.FavoriteBookIDs)
	assert.Equal(t, entities.RefSet{owned}, got.OwnedBookIDs)
}

func TestRepository_CreateUser_DuplicateEmail(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, newUser(1)))
	dup := newUser(2)
	dup.Email = "user1@example.com"

	err := repo.CreateUser(ctx, dup)

	require.Error(t, err)
	assert.True(t, services.IsDuplicateKey(err, "email"))

	got, err := repo.GetUser(ctx, dup.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_GetUser_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.GetUser(context.Background(), uuid.NewString())

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestRepository_GetUserByEmail(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	created := newUser(1)
	require.NoError(t, repo.CreateUser(ctx, created))

	user, err := repo.GetUserByEmail(ctx, "user1@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)
	assert.NotNil(t, user.FavoriteBookIDs)

	missing, err := repo.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_ListUsers(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	book := uuid.NewString()
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.CreateUser(ctx, newUser(i, entities.NewRefSet(book))))
	}

	users, total, err := repo.ListUsers(ctx, 0, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, "User 3", users[0].Name)
	assert.Equal(t, "User 2", users[1].Name)
	assert.Equal(t, entities.RefSet{book}, users[0].FavoriteBookIDs)
	assert.Empty(t, users[0].OwnedBookIDs)
}

func TestRepository_SaveUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	a, b, c := uuid.NewString(), uuid.NewString(), uuid.NewString()
	user := newUser(1, entities.NewRefSet(a, b), entities.NewRefSet(c))
	require.NoError(t, repo.CreateUser(ctx, user))

	t.Run("replaces columns and reference sets", func(t *testing.T) {
		user.Name = "Renamed"
		user.FavoriteBookIDs = entities.NewRefSet(c, a)
		user.OwnedBookIDs = entities.NewRefSet()

		saved, err := repo.SaveUser(ctx, user)
		require.NoError(t, err)
		assert.True(t, saved)

		got, err := repo.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, entities.RefSet{c, a}, got.FavoriteBookIDs)
		assert.Empty(t, got.OwnedBookIDs)
		assert.True(t, user.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("missing user", func(t *testing.T) {
		saved, err := repo.SaveUser(ctx, newUser(2))

		require.NoError(t, err)
		assert.False(t, saved)
	})

	t.Run("taken email", func(t *testing.T) {
		other := newUser(3)
		require.NoError(t, repo.CreateUser(ctx, other))
		other.Email = user.Email

		_, err := repo.SaveUser(ctx, other)

		assert.True(t, services.IsDuplicateKey(err, "email"))
	})
}

func TestRepository_DeleteUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := newUser(1, entities.NewRefSet(uuid.NewString()))
	require.NoError(t, repo.CreateUser(ctx, user))

	deleted, err := repo.DeleteUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, user.Email, deleted.Email)
	assert.Len(t, deleted.FavoriteBookIDs, 1)

	var refs int64
	require.NoError(t, repo.db.Model(&entities.FavoriteBookRef{}).Where("user_id = ?", user.ID).Count(&refs).Error)
	assert.Zero(t, refs)

	again, err := repo.DeleteUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestRepository_BookRefs(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := newUser(1)
	require.NoError(t, repo.CreateUser(ctx, user))
	b1, b2 := uuid.NewString(), uuid.NewString()

	t.Run("add keeps insertion order", func(t *testing.T) {
		_, err := repo.AddBookRef(ctx, user.ID, entities.RefFavorites, b1)
		require.NoError(t, err)

		got, err := repo.AddBookRef(ctx, user.ID, entities.RefFavorites, b2)
		require.NoError(t, err)
		assert.Equal(t, entities.RefSet{b1, b2}, got.FavoriteBookIDs)
		assert.Empty(t, got.OwnedBookIDs)
		assert.True(t, got.UpdatedAt.After(user.UpdatedAt))
	})

	t.Run("add is idempotent", func(t *testing.T) {
		got, err := repo.AddBookRef(ctx, user.ID, entities.RefFavorites, b1)

		require.NoError(t, err)
		assert.Equal(t, entities.RefSet{b1, b2}, got.FavoriteBookIDs)
	})

	t.Run("sets are independent", func(t *testing.T) {
		got, err := repo.AddBookRef(ctx, user.ID, entities.RefOwned, b2)

		require.NoError(t, err)
		assert.Equal(t, entities.RefSet{b2}, got.OwnedBookIDs)
		assert.Equal(t, entities.RefSet{b1, b2}, got.FavoriteBookIDs)
	})

	t.Run("remove", func(t *testing.T) {
		got, err := repo.RemoveBookRef(ctx, user.ID, entities.RefFavorites, b1)

		require.NoError(t, err)
		assert.Equal(t, entities.RefSet{b2}, got.FavoriteBookIDs)
		assert.Equal(t, entities.RefSet{b2}, got.OwnedBookIDs)
	})

	t.Run("remove non-member is a no-op", func(t *testing.T) {
		got, err := repo.RemoveBookRef(ctx, user.ID, entities.RefFavorites, uuid.NewString())

		require.NoError(t, err)
		assert.Equal(t, entities.RefSet{b2}, got.FavoriteBookIDs)
	})

	t.Run("missing user", func(t *testing.T) {
		got, err := repo.AddBookRef(ctx, uuid.NewString(), entities.RefFavorites, b1)

		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRepository_UserSummaries(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := newUser(1)
	require.NoError(t, repo.CreateUser(ctx, user))

	summaries, err := repo.UserSummaries(ctx, []string{user.ID, uuid.NewString()})

	require.NoError(t, err)
	assert.Equal(t, map[string]entities.OwnerSummary{
		user.ID: {ID: user.ID, Name: "User 1", Email: "user1@example.com"},
	}, summaries)
}

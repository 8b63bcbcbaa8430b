package docstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/services"
)

// setupTestStore connects to MONGODB_TEST_URI and uses a throwaway database.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := Connect(ctx, uri, "bookstore_test_"+uuid.NewString()[:8])
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = store.DB.Drop(ctx)
		_ = store.Close(ctx)
	})
	return store
}

func testBook(n int) *entities.Book {
	created := time.Date(2024, 1, 1, 12, n, 0, 0, time.UTC)
	return &entities.Book{
		ID:            uuid.NewString(),
		Title:         fmt.Sprintf("Book %d", n),
		Author:        "Test Author",
		Price:         float64(n),
		ISBN:          fmt.Sprintf("978000000%04d", n),
		PublishedDate: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
		InStock:       true,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestDuplicateField(t *testing.T) {
	err := errors.New(`E11000 duplicate key error collection: db.users index: email_1 dup key: { email: "a@b.c" }`)
	assert.Equal(t, "email", duplicateField(err))
	assert.Equal(t, "", duplicateField(errors.New("boom")))
}

func TestBookQuery(t *testing.T) {
	minPrice, inStock := 5.0, false
	query := bookQuery(entities.BookFilter{Search: "go", Category: "a.b", MinPrice: &minPrice, InStock: &inStock})

	assert.Contains(t, query, "$text")
	assert.Contains(t, query, "category")
	assert.Equal(t, false, query["inStock"])
	assert.NotContains(t, query, "owner")
}

func TestBookCollection(t *testing.T) {
	store := setupTestStore(t)
	books := NewBookCollection(store.DB)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		require.NoError(t, books.CreateBook(ctx, testBook(i)))
	}

	t.Run("duplicate isbn", func(t *testing.T) {
		err := books.CreateBook(ctx, testBook(1))

		assert.True(t, services.IsDuplicateKey(err, "isbn"))
	})

	t.Run("list newest first", func(t *testing.T) {
		page, total, err := books.ListBooks(ctx, entities.BookFilter{}, 10, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(12), total)
		require.Len(t, page, 2)
		assert.Equal(t, "Book 2", page[0].Title)
	})

	t.Run("price range", func(t *testing.T) {
		minPrice, maxPrice := 3.0, 5.0
		_, total, err := books.ListBooks(ctx, entities.BookFilter{MinPrice: &minPrice, MaxPrice: &maxPrice}, 0, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("get save delete", func(t *testing.T) {
		book := testBook(50)
		require.NoError(t, books.CreateBook(ctx, book))

		book.Title = "Renamed"
		saved, err := books.SaveBook(ctx, book)
		require.NoError(t, err)
		assert.True(t, saved)

		got, err := books.GetBook(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)

		deleted, err := books.DeleteBook(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, book.ID, deleted.ID)

		got, err = books.GetBook(ctx, book.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestUserCollection_BookRefs(t *testing.T) {
	store := setupTestStore(t)
	users := NewUserCollection(store.DB)
	ctx := context.Background()

	user := &entities.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, users.CreateUser(ctx, user))

	dup := *user
	dup.ID = uuid.NewString()
	assert.True(t, services.IsDuplicateKey(users.CreateUser(ctx, &dup), "email"))

	book := uuid.NewString()
	_, err := users.AddBookRef(ctx, user.ID, entities.RefFavorites, book)
	require.NoError(t, err)
	got, err := users.AddBookRef(ctx, user.ID, entities.RefFavorites, book)
	require.NoError(t, err)
	assert.Equal(t, entities.RefSet{book}, got.FavoriteBookIDs)

	got, err = users.RemoveBookRef(ctx, user.ID, entities.RefFavorites, uuid.NewString())
	require.NoError(t, err)
	assert.Len(t, got.FavoriteBookIDs, 1)

	got, err = users.AddBookRef(ctx, uuid.NewString(), entities.RefFavorites, book)
	require.NoError(t, err)
	assert.Nil(t, got)

	byEmail, err := users.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

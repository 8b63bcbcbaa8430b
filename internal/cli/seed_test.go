package cli

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/database/users"
	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/entrypoint"
	"github.com/mrlokans/bookstore/internal/services"
)

func setupSeedServices(t *testing.T) (*services.BookService, *services.UserService) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test_seed.db"), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bookRepo := books.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)
	return services.NewBookService(bookRepo, userRepo), services.NewUserService(userRepo, bookRepo, bcrypt.MinCost)
}

func TestSeedCommand_Run(t *testing.T) {
	bookService, userService := setupSeedServices(t)
	ctx := context.Background()
	cmd := &SeedCommand{ExtraBooks: 5}

	t.Run("first run inserts everything", func(t *testing.T) {
		result, err := cmd.Run(ctx, bookService, userService)

		require.NoError(t, err)
		assert.Equal(t, len(sampleBooks)+5, result.BooksCreated)
		assert.Equal(t, len(sampleUsers), result.UsersCreated)

		alice, err := userService.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, alice)
		assert.NotEmpty(t, alice.FavoriteBooks)
		assert.Len(t, alice.OwnedBooks, 2)

		outOfStock := false
		page, err := bookService.List(ctx, services.BookListQuery{BookFilter: entities.BookFilter{InStock: &outOfStock, Search: "Sapiens"}})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.False(t, page.Items[0].InStock)
	})

	t.Run("second run skips existing records", func(t *testing.T) {
		result, err := cmd.Run(ctx, bookService, userService)

		require.NoError(t, err)
		assert.Zero(t, result.BooksCreated)
		assert.Equal(t, len(sampleBooks)+5, result.BooksSkipped)
		assert.Equal(t, len(sampleUsers), result.UsersSkipped)

		page, err := bookService.List(ctx, services.BookListQuery{Limit: 100})
		require.NoError(t, err)
		assert.Equal(t, int64(len(sampleBooks)+5), page.Pagination.Total)
	})
}

func TestCloseStores_LogsError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	closeStores(&entrypoint.Stores{Close: func(context.Context) error { return errors.New("disk full") }})
	assert.Contains(t, buf.String(), "Failed to close store: disk full")

	buf.Reset()
	closeStores(&entrypoint.Stores{Close: func(context.Context) error { return nil }})
	assert.Empty(t, buf.String())
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand("test")

	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "seed")
	assert.Equal(t, "test", root.Version)
}

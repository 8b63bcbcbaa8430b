package entrypoint

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.NewConfig()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "entrypoint.db")
	cfg.Database.StoreTimeout = 5 * time.Second
	cfg.Auth.BcryptCost = bcrypt.MinCost
	return cfg
}

func TestOpenStores_SQLite(t *testing.T) {
	ctx := context.Background()
	stores, err := OpenStores(ctx, testConfig(t))
	require.NoError(t, err)
	defer stores.Close(ctx)

	require.NoError(t, stores.Health.Ping(ctx))

	bookService, userService := NewServices(stores, testConfig(t))
	book, err := bookService.Create(ctx, services.BookInput{
		Title:  "Dune",
		Author: "Frank Herbert",
		Price:  func() *float64 { v := 9.99; return &v }(),
		ISBN:   "978-0441013593",
	})
	require.NoError(t, err)

	user, err := userService.Create(ctx, services.UserInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	user, err = userService.AddToFavorites(ctx, user.ID, book.ID)
	require.NoError(t, err)
	require.Len(t, user.FavoriteBooks, 1)
	assert.Equal(t, "Dune", user.FavoriteBooks[0].Title)
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "postgres"

	stores, err := OpenStores(context.Background(), cfg)
	assert.Nil(t, stores)
	assert.ErrorContains(t, err, `unknown database driver "postgres"`)
}

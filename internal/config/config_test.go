package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(3000), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, DefaultMongoURI, cfg.Mongo.URI)
	assert.Equal(t, "bookstore", cfg.Mongo.Database)
	assert.Equal(t, 10*time.Second, cfg.Database.StoreTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.False(t, cfg.IsProduction())
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_Env(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("MONGODB_URI", "mongodb://db:27017/library?retryWrites=true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example")

	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "library", cfg.Mongo.Database)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestConfig_Validate(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")

	assert.Error(t, NewConfig().Validate())
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BOOKSTORE_TEST_VALUE=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BOOKSTORE_TEST_VALUE") })

	LoadDotEnv(path)

	assert.Equal(t, "from-file", os.Getenv("BOOKSTORE_TEST_VALUE"))
}

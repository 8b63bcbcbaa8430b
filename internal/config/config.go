package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Mongo
		CORS
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		Env                      string
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver       string
		Path         string
		StoreTimeout time.Duration
	}
	Mongo struct {
		URI      string
		Database string
	}
	CORS struct {
		AllowedOrigins []string
	}
	Auth struct {
		BcryptCost int
	}
)

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Global.Env == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

// Validate checks the settings that cannot fall back to a default.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMongo, DriverSQLite:
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q (expected %q or %q)", c.Database.Driver, DriverMongo, DriverSQLite)
	}
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("invalid PORT %d", c.HTTP.Port)
	}
	return nil
}

// LoadDotEnv reads .env files into the process environment. Variables that
// are already set win.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err == nil {
			log.Printf("Loaded environment from %s", f)
		}
	}
}

// mongoDatabase returns the database named in the URI path, or the default.
func mongoDatabase(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil {
		return DefaultMongoDatabase
	}
	if name := strings.Trim(parsed.Path, "/"); name != "" {
		return name
	}
	return DefaultMongoDatabase
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	// Storage defaults
	v.SetDefault("database_driver", DriverMongo)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("mongodb_uri", DefaultMongoURI)
	v.SetDefault("mongodb_database", "")
	v.SetDefault("store_timeout", "10s")

	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("bcrypt_cost", 10)

	mongoURI := v.GetString("MONGODB_URI")
	mongoDB := v.GetString("MONGODB_DATABASE")
	if mongoDB == "" {
		mongoDB = mongoDatabase(mongoURI)
	}

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			Env:                      v.GetString("APP_ENV"),
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:       strings.ToLower(v.GetString("DATABASE_DRIVER")),
			Path:         v.GetString("DATABASE_PATH"),
			StoreTimeout: v.GetDuration("STORE_TIMEOUT"),
		},
		Mongo: Mongo{
			URI:      mongoURI,
			Database: mongoDB,
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Auth: Auth{
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
	}
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/services"
)

// DriverName is the sqlite driver registered with a Unicode-aware
// unicode_lower(text) SQL function. SQLite's built-in LOWER only folds ASCII.
const DriverName = "sqlite3_bookstore"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("unicode_lower", unicodeLower, true)
		},
	})
}

func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	default:
		return v
	}
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the sqlite database at dbPath and migrates the schema.
func NewDatabase(dbPath string, logLevel logger.LogLevel) (*Database, error) {
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: DriverName, DSN: dbPath}), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// sqlite serializes writers anyway; a single connection avoids SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.FavoriteBookRef{},
		&entities.OwnedBookRef{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database is reachable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// TranslateError maps unique constraint violations to
// services.DuplicateKeyError and passes other errors through.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return &services.DuplicateKeyError{Field: constraintColumn(sqliteErr.Error())}
		}
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &services.DuplicateKeyError{}
	}
	return err
}

// constraintColumn extracts the column from messages like
// "UNIQUE constraint failed: books.isbn".
func constraintColumn(msg string) string {
	_, cols, found := strings.Cut(msg, "constraint failed: ")
	if !found {
		return ""
	}
	first, _, _ := strings.Cut(cols, ",")
	if _, column, ok := strings.Cut(first, "."); ok {
		return strings.TrimSpace(column)
	}
	return strings.TrimSpace(first)
}

package services

import (
	"context"

	"github.com/mrlokans/bookstore/internal/entities"
)

// Store methods return a nil record with a nil error when no record matches
// the id. Errors are reserved for validation, duplicate keys and store
// failures.

// BookStore persists books. Implemented by the sqlite and document backends.
type BookStore interface {
	CreateBook(ctx context.Context, book *entities.Book) error
	// ListBooks returns one page of books matching filter, newest first,
	// together with the total number of matches.
	ListBooks(ctx context.Context, filter entities.BookFilter, offset, limit int) ([]entities.Book, int64, error)
	GetBook(ctx context.Context, id string) (*entities.Book, error)
	// SaveBook overwrites the stored record. It reports false when the record
	// no longer exists.
	SaveBook(ctx context.Context, book *entities.Book) (bool, error)
	DeleteBook(ctx context.Context, id string) (*entities.Book, error)
	BookResolver
}

// BookResolver looks up book projections by id. Unknown ids are absent from
// the result.
type BookResolver interface {
	BookSummaries(ctx context.Context, ids []string) (map[string]entities.BookSummary, error)
}

// UserStore persists users and their book reference sets.
type UserStore interface {
	CreateUser(ctx context.Context, user *entities.User) error
	ListUsers(ctx context.Context, offset, limit int) ([]entities.User, int64, error)
	GetUser(ctx context.Context, id string) (*entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	SaveUser(ctx context.Context, user *entities.User) (bool, error)
	DeleteUser(ctx context.Context, id string) (*entities.User, error)
	// AddBookRef adds bookID to the user's set in a single atomic update.
	// Adding an existing member leaves the set unchanged.
	AddBookRef(ctx context.Context, userID string, kind entities.RefKind, bookID string) (*entities.User, error)
	// RemoveBookRef pulls bookID from the user's set. Removing a non-member
	// is not an error.
	RemoveBookRef(ctx context.Context, userID string, kind entities.RefKind, bookID string) (*entities.User, error)
	OwnerResolver
}

// OwnerResolver looks up owner projections by user id.
type OwnerResolver interface {
	UserSummaries(ctx context.Context, ids []string) (map[string]entities.OwnerSummary, error)
}

package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookstore/internal/cli"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/database/users"
	"github.com/mrlokans/bookstore/internal/docstore"
	"github.com/mrlokans/bookstore/internal/http"
	"github.com/mrlokans/bookstore/internal/services"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ services.BookStore = (*books.Repository)(nil)
var _ services.BookStore = (*docstore.BookCollection)(nil)

// UserStore implementations
var _ services.UserStore = (*users.Repository)(nil)
var _ services.UserStore = (*docstore.UserCollection)(nil)

// =============================================================================
// Access Layer
// =============================================================================

var _ http.BookAccess = (*services.BookService)(nil)
var _ http.UserAccess = (*services.UserService)(nil)

var _ cli.BookCreator = (*services.BookService)(nil)
var _ cli.UserSeeder = (*services.UserService)(nil)

// =============================================================================
// Health
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)
var _ http.Pinger = (*docstore.Store)(nil)

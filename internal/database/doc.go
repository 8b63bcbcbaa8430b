// Package database provides the sqlite data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, error translation
//	├── books/           # Book CRUD, filtering and paging
//	└── users/           # Users and their favourite/owned book sets
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./bookstore.db", logger.Warn)
//
//	booksRepo := books.NewRepository(db.DB)
//	usersRepo := users.NewRepository(db.DB)
//
//	book, err := booksRepo.GetBook(ctx, id)
//
// # Interface Implementations
//
//   - books.Repository: implements services.BookStore
//   - users.Repository: implements services.UserStore
//   - Database: implements http.Pinger
//
// The MongoDB backend in internal/docstore implements the same interfaces.
package database

// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Storage Interfaces (internal/services/interfaces.go)
//
//   - BookStore: book persistence, paging and filtering
//   - UserStore: user persistence and atomic favourite/owned set updates
//   - BookResolver / OwnerResolver: id to projection lookups used when
//     expanding references in responses
//
// Two backends implement them: the gorm/sqlite repositories under
// internal/database and the MongoDB collections under internal/docstore.
//
// ## HTTP Interfaces (internal/http)
//
//   - BookAccess / UserAccess: what the controllers need from the services
//   - Pinger: store reachability for /health
//
// ## CLI Interfaces (internal/cli)
//
//   - BookCreator / UserSeeder: what the seed command needs
//
// # Adding a New Backend
//
//  1. Create a package with types implementing services.BookStore and services.UserStore
//  2. Return nil, nil from lookups when the id is unknown
//  3. Translate unique index violations into *services.DuplicateKeyError
//  4. Register it in entrypoint.OpenStores under a new DATABASE_DRIVER value
//  5. Add compile-time checks to checks.go
package interfaces

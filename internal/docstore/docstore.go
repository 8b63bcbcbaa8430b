// Package docstore provides MongoDB-backed storage for books and users.
//
// Books and users live in the "books" and "users" collections, keyed by
// string ids. Reference sets are arrays on the user document mutated with
// $addToSet and $pull, so each mutation is a single atomic update.
//
// # Usage
//
//	store, err := docstore.Connect(ctx, uri, "bookstore")
//	books := docstore.NewBookCollection(store.DB)
//	users := docstore.NewUserCollection(store.DB)
package docstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrlokans/bookstore/internal/services"
)

const (
	booksCollection = "books"
	usersCollection = "users"
)

// Store owns the client connection and the application database handle.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect opens a client for uri, verifies connectivity and ensures the
// indexes the access layer relies on.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	store := &Store{Client: client, DB: client.Database(database)}
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Printf("Connected to MongoDB database %s", database)
	return store, nil
}

// EnsureIndexes creates the unique and text indexes. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.DB.Collection(booksCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "isbn", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "author", Value: "text"}, {Key: "category", Value: "text"}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create book indexes: %w", err)
	}

	_, err = s.DB.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// translateError maps duplicate key errors to services.DuplicateKeyError.
func translateError(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return &services.DuplicateKeyError{Field: duplicateField(err)}
}

// duplicateField extracts the key from messages such as
// `E11000 duplicate key error collection: db.users index: email_1 dup key: { email: "a@b.c" }`.
func duplicateField(err error) string {
	var we mongo.WriteException
	msg := err.Error()
	if errors.As(err, &we) && len(we.WriteErrors) > 0 {
		msg = we.WriteErrors[0].Message
	}
	_, rest, found := strings.Cut(msg, "dup key: {")
	if !found {
		return ""
	}
	field, _, _ := strings.Cut(rest, ":")
	return strings.TrimSpace(field)
}

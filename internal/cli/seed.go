package cli

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/services"
)

// BookCreator is the part of the book access layer the seeder uses.
type BookCreator interface {
	Create(ctx context.Context, in services.BookInput) (*entities.Book, error)
}

// UserSeeder is the part of the user access layer the seeder uses.
type UserSeeder interface {
	Create(ctx context.Context, in services.UserInput) (*entities.User, error)
	AddToFavorites(ctx context.Context, userID, bookID string) (*entities.User, error)
	AddOwnedBook(ctx context.Context, userID, bookID string) (*entities.User, error)
}

// SeedCommand inserts a sample catalogue and two users. Records that
// already exist (same ISBN or email) are skipped, so it can run repeatedly.
type SeedCommand struct {
	ExtraBooks int
	Verbose    bool
}

// SeedResult counts what a run inserted and skipped.
type SeedResult struct {
	BooksCreated int
	BooksSkipped int
	UsersCreated int
	UsersSkipped int
}

func ptr[T any](v T) *T { return &v }

var sampleBooks = []services.BookInput{
	{Title: "The Go Programming Language", Author: "Alan Donovan", Price: ptr(39.99), ISBN: "978-0134190440", PublishedDate: "2015-10-26", Category: "Programming", Description: "A thorough introduction to Go."},
	{Title: "Dune", Author: "Frank Herbert", Price: ptr(9.99), ISBN: "978-0441013593", PublishedDate: "1965-08-01", Category: "Science Fiction"},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Price: ptr(7.5), ISBN: "978-0141439518", PublishedDate: "1813-01-28", Category: "Fiction"},
	{Title: "Cosmos", Author: "Carl Sagan", Price: ptr(14.0), ISBN: "978-0345539434", PublishedDate: "1980-10-12", Category: "Science"},
	{Title: "Foundation", Author: "Isaac Asimov", Price: ptr(8.99), ISBN: "978-0553293357", PublishedDate: "1951-06-01", Category: "Science Fiction"},
	{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Price: ptr(45.0), ISBN: "978-1449373320", PublishedDate: "2017-03-16", Category: "Programming"},
	{Title: "Sapiens", Author: "Yuval Noah Harari", Price: ptr(18.0), ISBN: "978-0062316097", PublishedDate: "2015-02-10", Category: "History", InStock: ptr(false)},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Price: ptr(10.99), ISBN: "978-0547928227", PublishedDate: "1937-09-21", Category: "Fantasy"},
}

var sampleUsers = []services.UserInput{
	{Name: "Alice Reader", Email: "alice@example.com", Password: "password123"},
	{Name: "Bob Collector", Email: "bob@example.com", Password: "password123"},
}

var extraCategories = []string{"Fiction", "Science Fiction", "History", "Science", "Programming", "Mystery", "Biography", "Philosophy"}

func (cmd *SeedCommand) Run(ctx context.Context, books BookCreator, users UserSeeder) (*SeedResult, error) {
	result := &SeedResult{}

	inputs := append([]services.BookInput{}, sampleBooks...)
	for i := 0; i < cmd.ExtraBooks; i++ {
		inputs = append(inputs, generatedBook(i))
	}

	var created []*entities.Book
	for _, in := range inputs {
		book, err := books.Create(ctx, in)
		if services.IsDuplicateKey(err, "") {
			result.BooksSkipped++
			cmd.logf("Skipping existing book %q", in.Title)
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to seed book %q: %w", in.Title, err)
		}
		result.BooksCreated++
		created = append(created, book)
		cmd.logf("Created book %q", book.Title)
	}

	for i, in := range sampleUsers {
		user, err := users.Create(ctx, in)
		if services.IsDuplicateKey(err, "") {
			result.UsersSkipped++
			cmd.logf("Skipping existing user %s", in.Email)
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to seed user %s: %w", in.Email, err)
		}
		result.UsersCreated++
		cmd.logf("Created user %s", user.Email)

		// Each new user favourites and owns a different slice of the new books.
		for j, book := range created {
			if j%len(sampleUsers) != i {
				continue
			}
			if _, err := users.AddToFavorites(ctx, user.ID, book.ID); err != nil {
				return result, fmt.Errorf("failed to add favourite: %w", err)
			}
			if j < 2*len(sampleUsers) {
				if _, err := users.AddOwnedBook(ctx, user.ID, book.ID); err != nil {
					return result, fmt.Errorf("failed to add owned book: %w", err)
				}
			}
		}
	}

	log.Printf("Seed finished: %d books created (%d skipped), %d users created (%d skipped)",
		result.BooksCreated, result.BooksSkipped, result.UsersCreated, result.UsersSkipped)
	return result, nil
}

func (cmd *SeedCommand) logf(format string, args ...any) {
	if cmd.Verbose {
		log.Printf(format, args...)
	}
}

func generatedBook(i int) services.BookInput {
	return services.BookInput{
		Title:         fmt.Sprintf("Generated Book %d", i+1),
		Author:        fmt.Sprintf("Author %d", rand.Intn(50)+1),
		Price:         ptr(float64(rand.Intn(5000)) / 100),
		ISBN:          fmt.Sprintf("979-%010d", i+1),
		PublishedDate: fmt.Sprintf("%d-01-01", 1950+rand.Intn(75)),
		Category:      extraCategories[rand.Intn(len(extraCategories))],
	}
}

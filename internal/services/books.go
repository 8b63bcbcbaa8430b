package services

import (
	"context"
	"strings"
	"time"

	"github.com/mrlokans/bookstore/internal/entities"
)

// dateLayouts are the accepted publishedDate formats.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// BookInput is the payload for creating a book.
type BookInput struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Price         *float64 `json:"price"`
	ISBN          string   `json:"isbn"`
	PublishedDate string   `json:"publishedDate"`
	Owner         string   `json:"owner"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	InStock       *bool    `json:"inStock"`
}

// BookPatch holds field-level changes. Nil fields are left untouched; an
// empty Owner clears the reference.
type BookPatch struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	Price         *float64 `json:"price"`
	ISBN          *string  `json:"isbn"`
	PublishedDate *string  `json:"publishedDate"`
	Owner         *string  `json:"owner"`
	Category      *string  `json:"category"`
	Description   *string  `json:"description"`
	InStock       *bool    `json:"inStock"`
}

// BookListQuery selects one page of books.
type BookListQuery struct {
	Page  int
	Limit int
	entities.BookFilter
}

// BookService is the access layer for books.
type BookService struct {
	store  BookStore
	owners OwnerResolver
}

// NewBookService creates a book access layer. owners resolves book owner
// references.
func NewBookService(store BookStore, owners OwnerResolver) *BookService {
	return &BookService{store: store, owners: owners}
}

// Create validates and persists a new book.
func (s *BookService) Create(ctx context.Context, in BookInput) (*entities.Book, error) {
	book, problems := in.build()
	problems = append(problems, validateBook(book)...)
	if err := newValidationError(problems); err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := timestamp()
	book.ID = id
	book.CreatedAt = now
	book.UpdatedAt = now

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}
	if err := s.resolveOwners(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// List returns the page of books selected by q, newest first.
func (s *BookService) List(ctx context.Context, q BookListQuery) (*Page[entities.Book], error) {
	page, limit := normalizePage(q.Page, q.Limit)

	filter := q.BookFilter
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Category = strings.TrimSpace(filter.Category)
	if filter.Owner != "" {
		if err := validateID(filter.Owner); err != nil {
			return nil, err
		}
	}

	books, total, err := s.store.ListBooks(ctx, filter, pageOffset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []entities.Book{}
	}

	refs := make([]*entities.Book, len(books))
	for i := range books {
		refs[i] = &books[i]
	}
	if err := s.resolveOwners(ctx, refs...); err != nil {
		return nil, err
	}

	return &Page[entities.Book]{
		Items:      books,
		Pagination: NewPagination(page, limit, total),
	}, nil
}

// Get returns the book with its owner resolved, or nil when absent.
func (s *BookService) Get(ctx context.Context, id string) (*entities.Book, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	book, err := s.store.GetBook(ctx, id)
	if err != nil || book == nil {
		return nil, err
	}
	if err := s.resolveOwners(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Update applies patch, re-validates the whole record and saves it. It
// returns nil when the book does not exist.
func (s *BookService) Update(ctx context.Context, id string, patch BookPatch) (*entities.Book, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	book, err := s.store.GetBook(ctx, id)
	if err != nil || book == nil {
		return nil, err
	}

	problems := patch.apply(book)
	problems = append(problems, validateBook(book)...)
	if err := newValidationError(problems); err != nil {
		return nil, err
	}
	book.UpdatedAt = timestamp()

	saved, err := s.store.SaveBook(ctx, book)
	if err != nil || !saved {
		return nil, err
	}
	if err := s.resolveOwners(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes the book and returns its last state, or nil when absent.
// Users referencing the book keep the dangling id.
func (s *BookService) Delete(ctx context.Context, id string) (*entities.Book, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.store.DeleteBook(ctx, id)
}

func (in BookInput) build() (*entities.Book, []FieldError) {
	var problems []FieldError

	book := &entities.Book{
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		ISBN:        strings.TrimSpace(in.ISBN),
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		InStock:     true,
	}
	if in.Price == nil {
		problems = append(problems, FieldError{Field: "price", Message: "Price must be a number"})
	} else {
		book.Price = *in.Price
	}
	if in.InStock != nil {
		book.InStock = *in.InStock
	}
	book.PublishedDate, _ = parseDate(in.PublishedDate)
	if owner := strings.TrimSpace(in.Owner); owner != "" {
		if !isValidID(owner) {
			problems = append(problems, FieldError{Field: "owner", Message: "Owner must be a valid user id"})
		}
		book.OwnerID = &owner
	}
	return book, problems
}

func (p BookPatch) apply(book *entities.Book) []FieldError {
	var problems []FieldError

	if p.Title != nil {
		book.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		book.Author = strings.TrimSpace(*p.Author)
	}
	if p.Price != nil {
		book.Price = *p.Price
	}
	if p.ISBN != nil {
		book.ISBN = strings.TrimSpace(*p.ISBN)
	}
	if p.PublishedDate != nil {
		book.PublishedDate, _ = parseDate(*p.PublishedDate)
	}
	if p.Owner != nil {
		owner := strings.TrimSpace(*p.Owner)
		switch {
		case owner == "":
			book.OwnerID = nil
			book.Owner = nil
		case !isValidID(owner):
			problems = append(problems, FieldError{Field: "owner", Message: "Owner must be a valid user id"})
		default:
			book.OwnerID = &owner
			book.Owner = nil
		}
	}
	if p.Category != nil {
		book.Category = strings.TrimSpace(*p.Category)
	}
	if p.Description != nil {
		book.Description = strings.TrimSpace(*p.Description)
	}
	if p.InStock != nil {
		book.InStock = *p.InStock
	}
	return problems
}

// validateBook checks the record-level constraints.
func validateBook(book *entities.Book) []FieldError {
	problems := validateStruct(book)
	if book.PublishedDate.IsZero() {
		problems = append(problems, FieldError{Field: "publishedDate", Message: "Published date must be a valid date"})
	}
	return problems
}

// parseDate returns the zero time when value is empty or not a known format.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// timestamp is truncated to milliseconds so both backends round-trip it
// unchanged.
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

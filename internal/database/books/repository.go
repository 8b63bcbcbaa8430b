// Package books provides sqlite-backed storage for books.
//
// This package implements the BookStore interface defined in
// internal/services/interfaces.go.
//
// # Interface Implementation
//
//	var _ services.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	page, total, err := repo.ListBooks(ctx, filter, 0, 10)
package books

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/entities"
)

// unicode_lower comes with the driver opened by database.NewDatabase.
const searchColumns = "(unicode_lower(title) LIKE ? ESCAPE '\\' OR unicode_lower(author) LIKE ? ESCAPE '\\' OR unicode_lower(category) LIKE ? ESCAPE '\\')"

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts a new book. A taken ISBN yields a DuplicateKeyError.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book) error {
	return database.TranslateError(r.db.WithContext(ctx).Create(book).Error)
}

// ListBooks returns one page of matching books, newest first, and the total
// match count.
func (r *Repository) ListBooks(ctx context.Context, filter entities.BookFilter, offset, limit int) ([]entities.Book, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []entities.Book
	err := r.filtered(ctx, filter).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error
	return books, total, err
}

// filtered builds the WHERE clause for filter. All present filters are
// AND-ed; search terms are OR-ed among themselves.
func (r *Repository) filtered(ctx context.Context, filter entities.BookFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.Book{})

	if terms := strings.Fields(filter.Search); len(terms) > 0 {
		clauses := make([]string, 0, len(terms))
		args := make([]any, 0, len(terms)*3)
		for _, term := range terms {
			pattern := containsPattern(term)
			clauses = append(clauses, searchColumns)
			args = append(args, pattern, pattern, pattern)
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	if filter.Category != "" {
		query = query.Where("unicode_lower(category) LIKE ? ESCAPE '\\'", containsPattern(filter.Category))
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.InStock != nil {
		query = query.Where("in_stock = ?", *filter.InStock)
	}
	if filter.Owner != "" {
		query = query.Where("owner_id = ?", filter.Owner)
	}
	return query
}

// GetBook retrieves a book by ID, or nil when absent.
func (r *Repository) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// SaveBook overwrites every column except the creation time.
func (r *Repository) SaveBook(ctx context.Context, book *entities.Book) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(book).
		Select("*").
		Omit("id", "created_at").
		Updates(book)
	if result.Error != nil {
		return false, database.TranslateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteBook removes a book and returns its last state, or nil when absent.
func (r *Repository) DeleteBook(ctx context.Context, id string) (*entities.Book, error) {
	book, err := r.GetBook(ctx, id)
	if err != nil || book == nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Book{})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return book, nil
}

// BookSummaries returns title, author and price for each existing id.
func (r *Repository) BookSummaries(ctx context.Context, ids []string) (map[string]entities.BookSummary, error) {
	var rows []entities.Book
	err := r.db.WithContext(ctx).
		Select("id", "title", "author", "price").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]entities.BookSummary, len(rows))
	for _, row := range rows {
		price := row.Price
		summaries[row.ID] = entities.BookSummary{ID: row.ID, Title: row.Title, Author: row.Author, Price: &price}
	}
	return summaries, nil
}

// containsPattern builds a case-insensitive LIKE pattern that matches value
// literally anywhere in the column.
func containsPattern(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(value))
	return "%" + escaped + "%"
}

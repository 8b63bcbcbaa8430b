package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/services"
)

// BookAccess defines the book operations used by the controller.
type BookAccess interface {
	Create(ctx context.Context, in services.BookInput) (*entities.Book, error)
	List(ctx context.Context, q services.BookListQuery) (*services.Page[entities.Book], error)
	Get(ctx context.Context, id string) (*entities.Book, error)
	Update(ctx context.Context, id string, patch services.BookPatch) (*entities.Book, error)
	Delete(ctx context.Context, id string) (*entities.Book, error)
}

type BooksController struct {
	books BookAccess
}

func NewBooksController(books BookAccess) *BooksController {
	return &BooksController{books: books}
}

// CreateBook creates a book.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var in services.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := bc.books.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err, "create book")
		return
	}
	respondData(c, http.StatusCreated, book)
}

// ListBooks returns a filtered page of books.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	q, ok := parseBookListQuery(c)
	if !ok {
		return
	}

	page, err := bc.books.List(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "list books")
		return
	}
	respondPage(c, page)
}

// GetBook returns a single book.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.books.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "Book")
		return
	}
	respondData(c, http.StatusOK, book)
}

// UpdateBook applies a partial update.
// PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	var patch services.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := bc.books.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondServiceError(c, err, "update book")
		return
	}
	if book == nil {
		respondNotFound(c, "Book")
		return
	}
	respondData(c, http.StatusOK, book)
}

// DeleteBook removes a book.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	book, err := bc.books.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "delete book")
		return
	}
	if book == nil {
		respondNotFound(c, "Book")
		return
	}
	respondMessage(c, "Book deleted successfully", nil)
}

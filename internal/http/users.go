package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/services"
)

// UserAccess defines the user operations used by the controller.
type UserAccess interface {
	Create(ctx context.Context, in services.UserInput) (*entities.User, error)
	List(ctx context.Context, page, limit int) (*services.Page[entities.User], error)
	Get(ctx context.Context, id string) (*entities.User, error)
	Update(ctx context.Context, id string, patch services.UserPatch) (*entities.User, error)
	Delete(ctx context.Context, id string) (*entities.User, error)
	AddToFavorites(ctx context.Context, userID, bookID string) (*entities.User, error)
	RemoveFromFavorites(ctx context.Context, userID, bookID string) (*entities.User, error)
	AddOwnedBook(ctx context.Context, userID, bookID string) (*entities.User, error)
	RemoveOwnedBook(ctx context.Context, userID, bookID string) (*entities.User, error)
}

// bookRefRequest is the body of the favourites and owned-books mutations.
type bookRefRequest struct {
	BookID string `json:"bookId" binding:"required"`
}

type refMutation func(ctx context.Context, userID, bookID string) (*entities.User, error)

type UsersController struct {
	users UserAccess
}

func NewUsersController(users UserAccess) *UsersController {
	return &UsersController{users: users}
}

// CreateUser registers a user.
// POST /api/users
func (uc *UsersController) CreateUser(c *gin.Context) {
	var in services.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := uc.users.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err, "create user")
		return
	}
	respondData(c, http.StatusCreated, user)
}

// ListUsers returns a page of users.
// GET /api/users
func (uc *UsersController) ListUsers(c *gin.Context) {
	page, limit, ok := parsePageQuery(c)
	if !ok {
		return
	}

	result, err := uc.users.List(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err, "list users")
		return
	}
	respondPage(c, result)
}

// GetUser returns a single user.
// GET /api/users/:id
func (uc *UsersController) GetUser(c *gin.Context) {
	user, ok := uc.lookup(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, user)
}

// UpdateUser applies a partial update.
// PUT /api/users/:id
func (uc *UsersController) UpdateUser(c *gin.Context) {
	var patch services.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := uc.users.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondServiceError(c, err, "update user")
		return
	}
	if user == nil {
		respondNotFound(c, "User")
		return
	}
	respondData(c, http.StatusOK, user)
}

// DeleteUser removes a user.
// DELETE /api/users/:id
func (uc *UsersController) DeleteUser(c *gin.Context) {
	user, err := uc.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "delete user")
		return
	}
	if user == nil {
		respondNotFound(c, "User")
		return
	}
	respondMessage(c, "User deleted successfully", nil)
}

// AddFavorite adds a book to the user's favourites.
// POST /api/users/:id/favorites
func (uc *UsersController) AddFavorite(c *gin.Context) {
	uc.mutate(c, uc.users.AddToFavorites, "Book added to favorites", "add favorite")
}

// RemoveFavorite removes a book from the user's favourites.
// DELETE /api/users/:id/favorites
func (uc *UsersController) RemoveFavorite(c *gin.Context) {
	uc.mutate(c, uc.users.RemoveFromFavorites, "Book removed from favorites", "remove favorite")
}

// AddOwnedBook adds a book to the user's owned books.
// POST /api/users/:id/books
func (uc *UsersController) AddOwnedBook(c *gin.Context) {
	uc.mutate(c, uc.users.AddOwnedBook, "Book added to owned books", "add owned book")
}

// RemoveOwnedBook removes a book from the user's owned books.
// DELETE /api/users/:id/books
func (uc *UsersController) RemoveOwnedBook(c *gin.Context) {
	uc.mutate(c, uc.users.RemoveOwnedBook, "Book removed from owned books", "remove owned book")
}

// GetFavorites returns the user's resolved favourites.
// GET /api/users/:id/favorites
func (uc *UsersController) GetFavorites(c *gin.Context) {
	user, ok := uc.lookup(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, user.FavoriteBooks)
}

// GetOwnedBooks returns the user's resolved owned books.
// GET /api/users/:id/books
func (uc *UsersController) GetOwnedBooks(c *gin.Context) {
	user, ok := uc.lookup(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, user.OwnedBooks)
}

func (uc *UsersController) lookup(c *gin.Context) (*entities.User, bool) {
	user, err := uc.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get user")
		return nil, false
	}
	if user == nil {
		respondNotFound(c, "User")
		return nil, false
	}
	return user, true
}

func (uc *UsersController) mutate(c *gin.Context, apply refMutation, message, context string) {
	var req bookRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []services.FieldError{{Field: "bookId", Message: "Book id is required"}})
		return
	}

	user, err := apply(c.Request.Context(), c.Param("id"), req.BookID)
	if err != nil {
		respondServiceError(c, err, context)
		return
	}
	if user == nil {
		respondNotFound(c, "User")
		return
	}
	respondMessage(c, message, user)
}

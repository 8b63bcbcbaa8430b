package services

import (
	"context"
	"strings"

	"github.com/mrlokans/bookstore/internal/entities"
)

// UserInput is the payload for creating a user.
type UserInput struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	FavoriteBooks []string `json:"favoriteBooks"`
	OwnedBooks    []string `json:"ownedBooks"`
}

// UserPatch holds field-level changes. Reference sets, when present, replace
// the stored sets.
type UserPatch struct {
	Name          *string   `json:"name"`
	Email         *string   `json:"email"`
	Password      *string   `json:"password"`
	FavoriteBooks *[]string `json:"favoriteBooks"`
	OwnedBooks    *[]string `json:"ownedBooks"`
}

// UserService is the access layer for users and their book references.
type UserService struct {
	store      UserStore
	books      BookResolver
	bcryptCost int
}

// NewUserService creates a user access layer. books resolves favourite and
// owned book references.
func NewUserService(store UserStore, books BookResolver, bcryptCost int) *UserService {
	return &UserService{store: store, books: books, bcryptCost: bcryptCost}
}

// Create validates the input, hashes the password and persists the user.
// A taken email yields a DuplicateKeyError on "email".
func (s *UserService) Create(ctx context.Context, in UserInput) (*entities.User, error) {
	user := &entities.User{
		Name:            strings.TrimSpace(in.Name),
		Email:           normalizeEmail(in.Email),
		FavoriteBookIDs: entities.NewRefSet(in.FavoriteBooks...),
		OwnedBookIDs:    entities.NewRefSet(in.OwnedBooks...),
	}

	problems := validateStruct(user)
	problems = append(problems, passwordProblems(in.Password)...)
	problems = append(problems, refProblems("favoriteBooks", user.FavoriteBookIDs)...)
	problems = append(problems, refProblems("ownedBooks", user.OwnedBookIDs)...)
	if err := newValidationError(problems); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := timestamp()
	user.ID = id
	user.PasswordHash = hash
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	if err := s.resolveBooks(ctx, false, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns a page of users, newest first, with books resolved to
// title and author.
func (s *UserService) List(ctx context.Context, page, limit int) (*Page[entities.User], error) {
	page, limit = normalizePage(page, limit)

	users, total, err := s.store.ListUsers(ctx, pageOffset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []entities.User{}
	}

	refs := make([]*entities.User, len(users))
	for i := range users {
		refs[i] = &users[i]
	}
	if err := s.resolveBooks(ctx, false, refs...); err != nil {
		return nil, err
	}

	return &Page[entities.User]{
		Items:      users,
		Pagination: NewPagination(page, limit, total),
	}, nil
}

// Get returns the user with books resolved to title, author and price, or
// nil when absent.
func (s *UserService) Get(ctx context.Context, id string) (*entities.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}
	if err := s.resolveBooks(ctx, true, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail looks a user up by exact (normalized) email, or returns nil.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil || user == nil {
		return nil, err
	}
	if err := s.resolveBooks(ctx, false, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies patch, re-validates and saves. Returns nil when absent.
func (s *UserService) Update(ctx context.Context, id string, patch UserPatch) (*entities.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		user.Email = normalizeEmail(*patch.Email)
	}
	if patch.FavoriteBooks != nil {
		user.FavoriteBookIDs = entities.NewRefSet(*patch.FavoriteBooks...)
	}
	if patch.OwnedBooks != nil {
		user.OwnedBookIDs = entities.NewRefSet(*patch.OwnedBooks...)
	}

	problems := validateStruct(user)
	if patch.Password != nil {
		problems = append(problems, passwordProblems(*patch.Password)...)
	}
	problems = append(problems, refProblems("favoriteBooks", user.FavoriteBookIDs)...)
	problems = append(problems, refProblems("ownedBooks", user.OwnedBookIDs)...)
	if err := newValidationError(problems); err != nil {
		return nil, err
	}

	if patch.Password != nil {
		hash, err := HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = timestamp()

	saved, err := s.store.SaveUser(ctx, user)
	if err != nil || !saved {
		return nil, err
	}
	if err := s.resolveBooks(ctx, false, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user and returns its last state, or nil when absent.
// Books owned by the user keep the dangling reference.
func (s *UserService) Delete(ctx context.Context, id string) (*entities.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.store.DeleteUser(ctx, id)
}

// AddToFavorites adds bookID to the user's favourites. Repeated calls leave a
// single entry. The book is not required to exist.
func (s *UserService) AddToFavorites(ctx context.Context, userID, bookID string) (*entities.User, error) {
	return s.mutateRefs(ctx, userID, bookID, entities.RefFavorites, true)
}

// RemoveFromFavorites removes bookID from the user's favourites if present.
func (s *UserService) RemoveFromFavorites(ctx context.Context, userID, bookID string) (*entities.User, error) {
	return s.mutateRefs(ctx, userID, bookID, entities.RefFavorites, false)
}

// AddOwnedBook adds bookID to the user's owned books.
func (s *UserService) AddOwnedBook(ctx context.Context, userID, bookID string) (*entities.User, error) {
	return s.mutateRefs(ctx, userID, bookID, entities.RefOwned, true)
}

// RemoveOwnedBook removes bookID from the user's owned books if present.
func (s *UserService) RemoveOwnedBook(ctx context.Context, userID, bookID string) (*entities.User, error) {
	return s.mutateRefs(ctx, userID, bookID, entities.RefOwned, false)
}

func (s *UserService) mutateRefs(ctx context.Context, userID, bookID string, kind entities.RefKind, add bool) (*entities.User, error) {
	if err := validateID(userID); err != nil {
		return nil, err
	}
	bookID = strings.TrimSpace(bookID)
	if !isValidID(bookID) {
		return nil, &ValidationError{Fields: []FieldError{{Field: "bookId", Message: "Book id must be a valid id"}}}
	}

	var (
		user *entities.User
		err  error
	)
	if add {
		user, err = s.store.AddBookRef(ctx, userID, kind, bookID)
	} else {
		user, err = s.store.RemoveBookRef(ctx, userID, kind, bookID)
	}
	if err != nil || user == nil {
		return nil, err
	}
	if err := s.resolveBooks(ctx, false, user); err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func refProblems(field string, refs entities.RefSet) []FieldError {
	for _, id := range refs {
		if !isValidID(id) {
			return []FieldError{{Field: field, Message: "Book references must be valid ids"}}
		}
	}
	return nil
}

// Package users provides sqlite-backed storage for users and their book
// reference sets.
//
// Reference sets live in the user_favorite_books and user_owned_books join
// tables. Each row's composite primary key makes membership unique, so adding
// a member is an insert-or-ignore and removing one is a plain delete.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.AddBookRef(ctx, userID, entities.RefFavorites, bookID)
package users

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts the user together with its reference sets. A taken email
// yields a DuplicateKeyError.
func (r *Repository) CreateUser(ctx context.Context, user *entities.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return writeRefs(tx, user)
	})
	return database.TranslateError(err)
}

// ListUsers returns one page of users, newest first, and the total count.
func (r *Repository) ListUsers(ctx context.Context, offset, limit int) ([]entities.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []entities.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	if err := r.loadRefs(ctx, users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// GetUser retrieves a user by ID, or nil when absent.
func (r *Repository) GetUser(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by exact email, or nil when absent.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	users := []entities.User{user}
	if err := r.loadRefs(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

// SaveUser overwrites the user's columns and replaces both reference sets.
func (r *Repository) SaveUser(ctx context.Context, user *entities.User) (bool, error) {
	saved := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(user).Select("*").Omit("id", "created_at").Updates(user)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		saved = true

		if err := tx.Where("user_id = ?", user.ID).Delete(&entities.FavoriteBookRef{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&entities.OwnedBookRef{}).Error; err != nil {
			return err
		}
		return writeRefs(tx, user)
	})
	if err != nil {
		return false, database.TranslateError(err)
	}
	return saved, nil
}

// DeleteUser removes the user and its reference rows, returning the last
// state, or nil when absent. Books owned by the user are left untouched.
func (r *Repository) DeleteUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := r.GetUser(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}

	deleted := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&entities.FavoriteBookRef{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.OwnedBookRef{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entities.User{})
		deleted = result.RowsAffected > 0
		return result.Error
	})
	if err != nil || !deleted {
		return nil, err
	}
	return user, nil
}

// AddBookRef inserts bookID into the set unless already present.
func (r *Repository) AddBookRef(ctx context.Context, userID string, kind entities.RefKind, bookID string) (*entities.User, error) {
	return r.mutateRef(ctx, userID, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(newRef(kind, userID, bookID)).Error
	})
}

// RemoveBookRef deletes bookID from the set if present.
func (r *Repository) RemoveBookRef(ctx context.Context, userID string, kind entities.RefKind, bookID string) (*entities.User, error) {
	return r.mutateRef(ctx, userID, func(tx *gorm.DB) error {
		return tx.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(newRef(kind, userID, bookID)).Error
	})
}

// mutateRef applies change and bumps updated_at, returning nil when the user
// does not exist.
func (r *Repository) mutateRef(ctx context.Context, userID string, change func(tx *gorm.DB) error) (*entities.User, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.User{}).
			Where("id = ?", userID).
			Update("updated_at", time.Now().UTC().Truncate(time.Millisecond))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		found = true
		return change(tx)
	})
	if err != nil || !found {
		return nil, err
	}
	return r.GetUser(ctx, userID)
}

// UserSummaries returns name and email for each existing id.
func (r *Repository) UserSummaries(ctx context.Context, ids []string) (map[string]entities.OwnerSummary, error) {
	var rows []entities.User
	err := r.db.WithContext(ctx).
		Select("id", "name", "email").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]entities.OwnerSummary, len(rows))
	for _, row := range rows {
		summaries[row.ID] = entities.OwnerSummary{ID: row.ID, Name: row.Name, Email: row.Email}
	}
	return summaries, nil
}

// loadRefs fills both reference sets for users in insertion order.
func (r *Repository) loadRefs(ctx context.Context, users []entities.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]string, len(users))
	byID := make(map[string]*entities.User, len(users))
	for i := range users {
		ids[i] = users[i].ID
		byID[users[i].ID] = &users[i]
		users[i].FavoriteBookIDs = entities.NewRefSet()
		users[i].OwnedBookIDs = entities.NewRefSet()
	}

	var favorites []entities.FavoriteBookRef
	if err := r.db.WithContext(ctx).Where("user_id IN ?", ids).Order("rowid").Find(&favorites).Error; err != nil {
		return err
	}
	for _, ref := range favorites {
		u := byID[ref.UserID]
		u.FavoriteBookIDs = u.FavoriteBookIDs.Add(ref.BookID)
	}

	var owned []entities.OwnedBookRef
	if err := r.db.WithContext(ctx).Where("user_id IN ?", ids).Order("rowid").Find(&owned).Error; err != nil {
		return err
	}
	for _, ref := range owned {
		u := byID[ref.UserID]
		u.OwnedBookIDs = u.OwnedBookIDs.Add(ref.BookID)
	}
	return nil
}

// writeRefs inserts the user's reference sets in order.
func writeRefs(tx *gorm.DB, user *entities.User) error {
	for _, kind := range []entities.RefKind{entities.RefFavorites, entities.RefOwned} {
		for _, bookID := range user.Refs(kind) {
			ref := newRef(kind, user.ID, bookID)
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(ref).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func newRef(kind entities.RefKind, userID, bookID string) any {
	if kind == entities.RefOwned {
		return &entities.OwnedBookRef{UserID: userID, BookID: bookID}
	}
	return &entities.FavoriteBookRef{UserID: userID, BookID: bookID}
}

package entities

import "time"

// RefKind names one of the book reference sets held by a user.
type RefKind string

const (
	RefFavorites RefKind = "favoriteBooks"
	RefOwned     RefKind = "ownedBooks"
)

// User is an account record. The reference sets store book ids only; the
// FavoriteBooks/OwnedBooks projections are filled in at read time.
type User struct {
	ID              string        `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Name            string        `gorm:"size:50;not null" bson:"name" json:"name" validate:"required,min=2,max=50"`
	Email           string        `gorm:"uniqueIndex;size:254;not null" bson:"email" json:"email" validate:"required,email"`
	PasswordHash    string        `gorm:"not null" bson:"password" json:"-"`
	FavoriteBookIDs RefSet        `gorm:"-" bson:"favoriteBooks" json:"-"`
	OwnedBookIDs    RefSet        `gorm:"-" bson:"ownedBooks" json:"-"`
	FavoriteBooks   []BookSummary `gorm:"-" bson:"-" json:"favoriteBooks"`
	OwnedBooks      []BookSummary `gorm:"-" bson:"-" json:"ownedBooks"`
	CreatedAt       time.Time     `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Refs returns the reference set of the given kind.
func (u *User) Refs(kind RefKind) RefSet {
	if kind == RefOwned {
		return u.OwnedBookIDs
	}
	return u.FavoriteBookIDs
}

// SetRefs replaces the reference set of the given kind.
func (u *User) SetRefs(kind RefKind, refs RefSet) {
	if kind == RefOwned {
		u.OwnedBookIDs = refs
		return
	}
	u.FavoriteBookIDs = refs
}

// FavoriteBookRef is a row of the favourites set in relational stores.
// The composite primary key makes membership unique.
type FavoriteBookRef struct {
	UserID    string `gorm:"primaryKey;size:36"`
	BookID    string `gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time
}

func (FavoriteBookRef) TableName() string { return "user_favorite_books" }

// OwnedBookRef is a row of the owned-books set in relational stores.
type OwnedBookRef struct {
	UserID    string `gorm:"primaryKey;size:36"`
	BookID    string `gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time
}

func (OwnedBookRef) TableName() string { return "user_owned_books" }

package entities

import (
	"time"
)

// Book is a catalogue record. OwnerID is a weak reference to a User; Owner is
// only populated when the reference is resolved at read time.
type Book struct {
	ID            string        `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Title         string        `gorm:"size:200;not null" bson:"title" json:"title" validate:"required,max=200"`
	Author        string        `gorm:"size:100;not null" bson:"author" json:"author" validate:"required,max=100"`
	Price         float64       `gorm:"not null;index" bson:"price" json:"price" validate:"gte=0"`
	ISBN          string        `gorm:"uniqueIndex;size:17;not null" bson:"isbn" json:"isbn" validate:"required,min=10,max=17"`
	PublishedDate time.Time     `gorm:"not null" bson:"publishedDate" json:"publishedDate"`
	OwnerID       *string       `gorm:"index;size:36" bson:"owner,omitempty" json:"-"`
	Owner         *OwnerSummary `gorm:"-" bson:"-" json:"owner"`
	Category      string        `gorm:"size:100;index" bson:"category,omitempty" json:"category,omitempty"`
	Description   string        `gorm:"size:1000" bson:"description,omitempty" json:"description,omitempty" validate:"max=1000"`
	InStock       bool          `gorm:"not null;index" bson:"inStock" json:"inStock"`
	CreatedAt     time.Time     `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// OwnerSummary is the projection of a User embedded in book responses.
type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BookSummary is the projection of a Book embedded in user responses.
// Price is only set by projections that request it.
type BookSummary struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Price  *float64 `json:"price,omitempty"`
}

// BookFilter holds the optional list filters. Nil and empty values are not
// applied.
type BookFilter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	InStock  *bool
	Owner    string
}

// HasPriceRange reports whether either price bound is set.
func (f BookFilter) HasPriceRange() bool {
	return f.MinPrice != nil || f.MaxPrice != nil
}

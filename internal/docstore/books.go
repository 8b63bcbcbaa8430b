package docstore

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrlokans/bookstore/internal/entities"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// BookCollection stores books in the "books" collection.
type BookCollection struct {
	coll *mongo.Collection
}

// NewBookCollection creates a book store on db.
func NewBookCollection(db *mongo.Database) *BookCollection {
	return &BookCollection{coll: db.Collection(booksCollection)}
}

func (c *BookCollection) CreateBook(ctx context.Context, book *entities.Book) error {
	_, err := c.coll.InsertOne(ctx, book)
	return translateError(err)
}

func (c *BookCollection) ListBooks(ctx context.Context, filter entities.BookFilter, offset, limit int) ([]entities.Book, int64, error) {
	query := bookQuery(filter)

	total, err := c.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := c.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	books := []entities.Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// bookQuery translates filter into a query document. Top-level keys are
// implicitly AND-ed.
func bookQuery(filter entities.BookFilter) bson.M {
	query := bson.M{}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}
	if filter.Category != "" {
		query["category"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Category), Options: "i"}
	}
	if filter.HasPriceRange() {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}
	if filter.InStock != nil {
		query["inStock"] = *filter.InStock
	}
	if filter.Owner != "" {
		query["owner"] = filter.Owner
	}
	return query
}

func (c *BookCollection) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *BookCollection) SaveBook(ctx context.Context, book *entities.Book) (bool, error) {
	result, err := c.coll.ReplaceOne(ctx, bson.M{"_id": book.ID}, book)
	if err != nil {
		return false, translateError(err)
	}
	return result.MatchedCount > 0, nil
}

func (c *BookCollection) DeleteBook(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := c.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *BookCollection) BookSummaries(ctx context.Context, ids []string) (map[string]entities.BookSummary, error) {
	opts := options.Find().SetProjection(bson.M{"title": 1, "author": 1, "price": 1})
	cursor, err := c.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}

	var rows []entities.Book
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	summaries := make(map[string]entities.BookSummary, len(rows))
	for _, row := range rows {
		price := row.Price
		summaries[row.ID] = entities.BookSummary{ID: row.ID, Title: row.Title, Author: row.Author, Price: &price}
	}
	return summaries, nil
}

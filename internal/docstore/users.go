package docstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrlokans/bookstore/internal/entities"
)

// UserCollection stores users in the "users" collection.
type UserCollection struct {
	coll *mongo.Collection
}

// NewUserCollection creates a user store on db.
func NewUserCollection(db *mongo.Database) *UserCollection {
	return &UserCollection{coll: db.Collection(usersCollection)}
}

func (c *UserCollection) CreateUser(ctx context.Context, user *entities.User) error {
	_, err := c.coll.InsertOne(ctx, withArrays(user))
	return translateError(err)
}

func (c *UserCollection) ListUsers(ctx context.Context, offset, limit int) ([]entities.User, int64, error) {
	total, err := c.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := c.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}

	users := []entities.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (c *UserCollection) GetUser(ctx context.Context, id string) (*entities.User, error) {
	return c.findOne(ctx, bson.M{"_id": id})
}

func (c *UserCollection) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return c.findOne(ctx, bson.M{"email": email})
}

func (c *UserCollection) findOne(ctx context.Context, filter bson.M) (*entities.User, error) {
	var user entities.User
	err := c.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *UserCollection) SaveUser(ctx context.Context, user *entities.User) (bool, error) {
	result, err := c.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, withArrays(user))
	if err != nil {
		return false, translateError(err)
	}
	return result.MatchedCount > 0, nil
}

func (c *UserCollection) DeleteUser(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	err := c.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *UserCollection) AddBookRef(ctx context.Context, userID string, kind entities.RefKind, bookID string) (*entities.User, error) {
	return c.updateRefs(ctx, userID, "$addToSet", kind, bookID)
}

func (c *UserCollection) RemoveBookRef(ctx context.Context, userID string, kind entities.RefKind, bookID string) (*entities.User, error) {
	return c.updateRefs(ctx, userID, "$pull", kind, bookID)
}

// updateRefs applies op to the reference array and returns the updated
// document, or nil when the user does not exist.
func (c *UserCollection) updateRefs(ctx context.Context, userID, op string, kind entities.RefKind, bookID string) (*entities.User, error) {
	update := bson.M{
		op:     bson.M{string(kind): bookID},
		"$set": bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user entities.User
	err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *UserCollection) UserSummaries(ctx context.Context, ids []string) (map[string]entities.OwnerSummary, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1})
	cursor, err := c.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}

	var rows []entities.User
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	summaries := make(map[string]entities.OwnerSummary, len(rows))
	for _, row := range rows {
		summaries[row.ID] = entities.OwnerSummary{ID: row.ID, Name: row.Name, Email: row.Email}
	}
	return summaries, nil
}

// withArrays returns a copy of user whose reference sets encode as arrays,
// never null, so later $addToSet updates apply.
func withArrays(user *entities.User) *entities.User {
	doc := *user
	if doc.FavoriteBookIDs == nil {
		doc.FavoriteBookIDs = entities.NewRefSet()
	}
	if doc.OwnedBookIDs == nil {
		doc.OwnedBookIDs = entities.NewRefSet()
	}
	return &doc
}

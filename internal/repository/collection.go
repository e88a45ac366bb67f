package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/bootcamp-api/internal/query"
)

// Collection wraps one mongo collection with the narrow document-store
// surface the rest of the service uses. It satisfies query.Collection.
type Collection struct {
	col *mongo.Collection
}

func NewCollection(db *mongo.Database, name string) *Collection {
	return &Collection{col: db.Collection(name)}
}

// EnsureIndexes creates the given indexes, ignoring "already exists".
func (c *Collection) EnsureIndexes(ctx context.Context, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	_, err := c.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (c *Collection) Find(ctx context.Context, filter bson.M, opts query.FindOptions) ([]bson.M, error) {
	fo := options.Find()
	if len(opts.Projection) > 0 {
		proj := bson.D{}
		for _, f := range opts.Projection {
			proj = append(proj, bson.E{Key: f, Value: 1})
		}
		fo.SetProjection(proj)
	}
	if len(opts.Sort) > 0 {
		sort := bson.D{}
		for _, s := range opts.Sort {
			dir := 1
			if s.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: s.Field, Value: dir})
		}
		fo.SetSort(sort)
	}
	if opts.Skip > 0 {
		fo.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}

	cur, err := c.col.Find(ctx, filter, fo)
	if err != nil {
		return nil, err
	}
	var out []bson.M
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Collection) Count(ctx context.Context, filter bson.M) (int64, error) {
	return c.col.CountDocuments(ctx, filter)
}

// FindByID decodes the document with the given hex id into out.
func (c *Collection) FindByID(ctx context.Context, id string, out interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	err = c.col.FindOne(ctx, bson.M{"_id": oid}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (c *Collection) InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error) {
	res, err := c.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid, nil
}

// UpdateByID applies a $set patch and decodes the updated document into out.
func (c *Collection) UpdateByID(ctx context.Context, id string, patch bson.M, out interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = c.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": patch}, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// DeleteByID removes the document and decodes its last state into out.
func (c *Collection) DeleteByID(ctx context.Context, id string, out interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	err = c.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/bootcamp-api/internal/models"
)

type mongoUserRepo struct {
	col *mongo.Collection
}

// NewMongoUserRepo wraps the collection and creates its indexes. The repo is
// usable even when index creation fails; callers decide how loudly to report
// the error, since without the unique email index duplicate registrations
// are no longer rejected.
func NewMongoUserRepo(ctx context.Context, db *mongo.Database, collection string) (UserRepository, error) {
	col := db.Collection(collection)
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "resetPasswordToken", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return &mongoUserRepo{col: col}, err
}

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = time.Now().UTC()
	_, err := r.col.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return r.findOne(ctx, bson.M{
		"resetPasswordToken":  tokenHash,
		"resetPasswordExpire": bson.M{"$gt": now},
	})
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) UpdateDetails(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"password": passwordHash}})
}

func (r *mongoUserRepo) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expire time.Time) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"resetPasswordToken":  tokenHash,
		"resetPasswordExpire": expire,
	}})
}

func (r *mongoUserRepo) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	return r.updateByID(ctx, id, bson.M{"$unset": bson.M{
		"resetPasswordToken":  "",
		"resetPasswordExpire": "",
	}})
}

func (r *mongoUserRepo) ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"password": passwordHash},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	})
}

func (r *mongoUserRepo) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

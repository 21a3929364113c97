package repository

import (
	"context"

	"movierec/internal/db"
	"movierec/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	col     *mongo.Collection
	ratings *mongo.Collection
}

func NewUserRepository(d *mongo.Database) *UserRepository {
	return &UserRepository{
		col:     d.Collection(db.Users),
		ratings: d.Collection(db.Ratings),
	}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.UserDoc, error) {
	var u models.UserDoc
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID int) (*models.UserDoc, error) {
	var u models.UserDoc
	err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetNextUserID siguiente id libre, mirando también los usuarios que solo
// existen en ratings (MovieLens).
func (r *UserRepository) GetNextUserID(ctx context.Context) (int, error) {
	maxID := 0
	for _, col := range []*mongo.Collection{r.col, r.ratings} {
		opts := options.FindOne().
			SetSort(bson.D{{Key: "userId", Value: -1}}).
			SetProjection(bson.M{"userId": 1})
		var raw bson.M
		err := col.FindOne(ctx, bson.M{}, opts).Decode(&raw)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return 0, err
		}
		if id := asInt(raw["userId"]); id > maxID {
			maxID = id
		}
	}
	return maxID + 1, nil
}

func (r *UserRepository) Insert(ctx context.Context, u *models.UserDoc) error {
	_, err := r.col.InsertOne(ctx, u)
	return err
}

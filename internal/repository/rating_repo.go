package repository

import (
	"context"
	"time"

	"movierec/internal/db"
	"movierec/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository(d *mongo.Database) *RatingRepository {
	return &RatingRepository{col: d.Collection(db.Ratings)}
}

func (r *RatingRepository) Upsert(ctx context.Context, userID, movieID int, rating float64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID, "movieId": movieID},
		bson.M{"$set": bson.M{
			"rating": rating,
			// guardamos epoch (int64)
			"timestamp": time.Now().Unix(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// helpers de casteo seguro: la migración desde CSV deja ints como int32,
// int64 o double según el lote
func asInt(v any) int {
	switch x := v.(type) {
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float64:
		return int(x)
	default:
		return 0
	}
}

func asInt64(v any) int64 {
	switch x := v.(type) {
	case int32:
		return int64(x)
	case int64:
		return x
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch x := v.(type) {
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

func decodeRating(raw bson.M) models.Rating {
	return models.Rating{
		UserID:    asInt(raw["userId"]),
		MovieID:   asInt(raw["movieId"]),
		Rating:    asFloat64(raw["rating"]),
		Timestamp: asInt64(raw["timestamp"]),
	}
}

func (r *RatingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Rating, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Rating
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, decodeRating(raw))
	}
	return out, cur.Err()
}

// Sample primeros `limit` ratings en orden natural (no es un muestreo aleatorio).
func (r *RatingRepository) Sample(ctx context.Context, limit int) ([]models.Rating, error) {
	return r.find(ctx, bson.M{},
		options.Find().
			SetLimit(int64(limit)).
			SetBatchSize(10_000).
			SetProjection(bson.M{"_id": 0}),
	)
}

func (r *RatingRepository) GetByUser(ctx context.Context, userID, limit, offset int) ([]models.Rating, error) {
	return r.find(ctx,
		bson.M{"userId": userID},
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(int64(limit)).
			SetSkip(int64(offset)),
	)
}

// Counts total de ratings y de usuarios distintos que calificaron.
func (r *RatingRepository) Counts(ctx context.Context) (ratings, users int64, err error) {
	ratings, err = r.col.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, 0, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$userId"}}},
		{{Key: "$count", Value: "users"}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline, options.Aggregate().SetAllowDiskUse(true))
	if err != nil {
		return ratings, 0, err
	}
	defer cur.Close(ctx)

	var res struct {
		Users int64 `bson:"users"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&res); err != nil {
			return ratings, 0, err
		}
	}
	return ratings, res.Users, cur.Err()
}

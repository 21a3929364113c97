package repository

import (
	"context"
	"regexp"

	"movierec/internal/db"
	"movierec/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MovieRepository struct {
	col     *mongo.Collection
	ratings *mongo.Collection
}

func NewMovieRepository(d *mongo.Database) *MovieRepository {
	return &MovieRepository{
		col:     d.Collection(db.Movies),
		ratings: d.Collection(db.Ratings),
	}
}

func (r *MovieRepository) GetByID(ctx context.Context, movieID int) (*models.Movie, error) {
	var m models.Movie
	err := r.col.FindOne(ctx, bson.M{"movieId": movieID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// movieFilter arma el filtro de Mongo: género como regex sin mayúsculas
// sobre el string "A|B|C", año exacto y búsqueda de texto sobre el título.
func movieFilter(f models.MovieFilter) bson.M {
	filter := bson.M{}
	if f.Genre != "" {
		filter["genres"] = bson.M{"$regex": regexp.QuoteMeta(f.Genre), "$options": "i"}
	}
	if f.Year > 0 {
		filter["year"] = f.Year
	}
	if f.Search != "" {
		filter["$text"] = bson.M{"$search": f.Search}
	}
	return filter
}

// prealocación máxima de Batch; el resto crece con append
const batchPrealloc = 1000

// Batch página de películas en orden natural de la colección.
// limit <= 0 devuelve una página vacía (para Mongo 0 sería "sin límite").
func (r *MovieRepository) Batch(ctx context.Context, offset, limit int, f models.MovieFilter) ([]models.Movie, error) {
	if limit <= 0 {
		return []models.Movie{}, nil
	}
	offset = max(offset, 0)
	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 0})

	cur, err := r.col.Find(ctx, movieFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Movie, 0, min(limit, batchPrealloc))
	for cur.Next(ctx) {
		var m models.Movie
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

// RatingStats promedio, cantidad, mínimo y máximo de los ratings de la película.
// Sin ratings devuelve todo en cero.
func (r *MovieRepository) RatingStats(ctx context.Context, movieID int) (models.RatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"movieId": movieID}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"avg_rating":    bson.M{"$avg": "$rating"},
			"total_ratings": bson.M{"$sum": 1},
			"min_rating":    bson.M{"$min": "$rating"},
			"max_rating":    bson.M{"$max": "$rating"},
		}}},
	}

	cur, err := r.ratings.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingStats{}, err
	}
	defer cur.Close(ctx)

	var stats models.RatingStats
	if cur.Next(ctx) {
		if err := cur.Decode(&stats); err != nil {
			return models.RatingStats{}, err
		}
	}
	return stats, cur.Err()
}

// CountRaters usuarios distintos que calificaron la película.
func (r *MovieRepository) CountRaters(ctx context.Context, movieID int) (int, error) {
	users, err := r.ratings.Distinct(ctx, "userId", bson.M{"movieId": movieID})
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

// Genres cuenta películas por género, de más a menos.
func (r *MovieRepository) Genres(ctx context.Context) ([]models.GenreCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{"genres": bson.M{"$split": bson.A{"$genres", "|"}}}}},
		{{Key: "$unwind", Value: "$genres"}},
		{{Key: "$match", Value: bson.M{"genres": bson.M{"$ne": "Unknown"}}}},
		{{Key: "$group", Value: bson.M{"_id": "$genres", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.GenreCount
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

package repository

import (
	"context"
	"time"

	"movierec/internal/db"
	"movierec/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecommendationRepository struct {
	col *mongo.Collection
}

func NewRecommendationRepository(d *mongo.Database) *RecommendationRepository {
	return &RecommendationRepository{
		col: d.Collection(db.Recommendations),
	}
}

func (r *RecommendationRepository) Insert(ctx context.Context, run *models.RecommendationRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	_, err := r.col.InsertOne(ctx, run)
	return err
}

// FindByUser historial del usuario, más reciente primero.
func (r *RecommendationRepository) FindByUser(ctx context.Context, userID int, limit int64) ([]models.RecommendationRun, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.RecommendationRun{}
	for cur.Next(ctx) {
		var run models.RecommendationRun
		if err := cur.Decode(&run); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, cur.Err()
}

package service

import (
	"context"
	"fmt"
	"math"

	"movierec/internal/engine"
	"movierec/internal/models"
)

type RatingService struct {
	ratings RatingStore
	movies  MovieStore
}

func NewRatingService(r RatingStore, m MovieStore) *RatingService {
	return &RatingService{
		ratings: r,
		movies:  m,
	}
}

// validRating escala de MovieLens: 0.5 a 5 en pasos de 0.5.
func validRating(v float64) bool {
	return v >= 0.5 && v <= 5 && math.Mod(v*2, 1) == 0
}

// AddOrUpdate guarda el rating del usuario. La matriz del motor no cambia
// hasta la próxima recarga.
func (s *RatingService) AddOrUpdate(ctx context.Context, userID, movieID int, rating float64) error {
	if !validRating(rating) {
		return fmt.Errorf("%w: rating %v fuera de escala (0.5-5, pasos de 0.5)", engine.ErrInvalidArgument, rating)
	}

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return err
	}
	if movie == nil {
		return fmt.Errorf("película %d: %w", movieID, engine.ErrNotFound)
	}

	return s.ratings.Upsert(ctx, userID, movieID, rating)
}

func (s *RatingService) GetByUser(ctx context.Context, userID, limit, offset int) ([]models.Rating, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.ratings.GetByUser(ctx, userID, limit, offset)
}

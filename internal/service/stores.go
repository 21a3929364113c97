package service

import (
	"context"
	"errors"
	"time"

	"movierec/internal/models"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Lo que los servicios necesitan de cada repositorio. Los de
// internal/repository los implementan; en tests se usan fakes.

type MovieStore interface {
	GetByID(ctx context.Context, movieID int) (*models.Movie, error)
	Batch(ctx context.Context, offset, limit int, f models.MovieFilter) ([]models.Movie, error)
	RatingStats(ctx context.Context, movieID int) (models.RatingStats, error)
	CountRaters(ctx context.Context, movieID int) (int, error)
	Genres(ctx context.Context) ([]models.GenreCount, error)
}

type RatingStore interface {
	Upsert(ctx context.Context, userID, movieID int, rating float64) error
	GetByUser(ctx context.Context, userID, limit, offset int) ([]models.Rating, error)
}

type HistoryStore interface {
	Insert(ctx context.Context, run *models.RecommendationRun) error
	FindByUser(ctx context.Context, userID int, limit int64) ([]models.RecommendationRun, error)
}

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.UserDoc, error)
	FindByID(ctx context.Context, userID int) (*models.UserDoc, error)
	GetNextUserID(ctx context.Context) (int, error)
	Insert(ctx context.Context, u *models.UserDoc) error
}

type ResultCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CacheAdmin operaciones de mantenimiento sobre la cache externa.
type CacheAdmin interface {
	Stats(ctx context.Context) (map[string]string, error)
	ClearPattern(ctx context.Context, pattern string) (int, error)
}

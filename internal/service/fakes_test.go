package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"movierec/internal/engine"
	"movierec/internal/models"

	"github.com/goccy/go-json"
)

type fakeMovieStore struct {
	mu         sync.Mutex
	movies     []models.Movie
	stats      map[int]models.RatingStats
	batchCalls int
	lastLimit  int
	// si no es nil, GetByID falla con este error
	getErr error
}

func (f *fakeMovieStore) GetByID(ctx context.Context, id int) (*models.Movie, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, m := range f.movies {
		if m.MovieID == id {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMovieStore) Batch(ctx context.Context, offset, limit int, flt models.MovieFilter) ([]models.Movie, error) {
	f.mu.Lock()
	f.batchCalls++
	f.lastLimit = limit
	f.mu.Unlock()

	var out []models.Movie
	for _, m := range f.movies {
		if flt.Genre != "" && !strings.Contains(strings.ToLower(m.Genres), strings.ToLower(flt.Genre)) {
			continue
		}
		if flt.Search != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(flt.Search)) {
			continue
		}
		if flt.Year != 0 && (m.Year == nil || *m.Year != flt.Year) {
			continue
		}
		out = append(out, m)
	}
	if offset >= len(out) {
		return []models.Movie{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMovieStore) RatingStats(ctx context.Context, id int) (models.RatingStats, error) {
	return f.stats[id], nil
}

func (f *fakeMovieStore) CountRaters(ctx context.Context, id int) (int, error) {
	return f.stats[id].Count, nil
}

func (f *fakeMovieStore) Genres(ctx context.Context) ([]models.GenreCount, error) {
	return []models.GenreCount{{Genre: "Drama", Count: 2}}, nil
}

type fakeRatings struct {
	ratings []models.Rating
}

func (f *fakeRatings) Sample(ctx context.Context, limit int) ([]models.Rating, error) {
	if len(f.ratings) > limit {
		return f.ratings[:limit], nil
	}
	return f.ratings, nil
}

type fakeHistory struct {
	runs []models.RecommendationRun
}

func (f *fakeHistory) Insert(ctx context.Context, run *models.RecommendationRun) error {
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeHistory) FindByUser(ctx context.Context, userID int, limit int64) ([]models.RecommendationRun, error) {
	var out []models.RecommendationRun
	for _, r := range f.runs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dest)
}

func (c *memCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = b
	c.mu.Unlock()
	return nil
}

func (c *memCache) Stats(ctx context.Context) (map[string]string, error) {
	return map[string]string{"keys": "n/a"}, nil
}

func (c *memCache) ClearPattern(ctx context.Context, pattern string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.data)
	c.data = map[string][]byte{}
	return n, nil
}

func year(y int) *int { return &y }

// catálogo chico: 1-3 comparten géneros, 4 es popular (12 ratings de 4.5)
func fixture() (*fakeMovieStore, []models.Rating) {
	store := &fakeMovieStore{
		movies: []models.Movie{
			{MovieID: 1, Title: "Toy Story (1995)", Genres: "Animation|Comedy", Year: year(1995)},
			{MovieID: 2, Title: "Jumanji (1995)", Genres: "Adventure|Comedy", Year: year(1995)},
			{MovieID: 3, Title: "Heat (1995)", Genres: "Action|Crime", Year: year(1995)},
			{MovieID: 4, Title: "Casino (1995)", Genres: "Crime|Drama", Year: year(1995)},
			{MovieID: 5, Title: "Toy Story 2 (1999)", Genres: "Animation|Comedy", Year: year(1999)},
		},
		stats: map[int]models.RatingStats{
			1: {Average: 4.0, Count: 3},
			3: {Average: 3.0, Count: 2},
			4: {Average: 4.5, Count: 12},
		},
	}

	var ratings []models.Rating
	for u := 1; u <= 12; u++ {
		ratings = append(ratings, models.Rating{UserID: u, MovieID: 4, Rating: 4.5})
	}
	ratings = append(ratings,
		models.Rating{UserID: 1, MovieID: 1, Rating: 5},
		models.Rating{UserID: 1, MovieID: 5, Rating: 4},
		models.Rating{UserID: 2, MovieID: 1, Rating: 4},
		models.Rating{UserID: 2, MovieID: 5, Rating: 5},
		models.Rating{UserID: 3, MovieID: 3, Rating: 3},
	)
	return store, ratings
}

func readyEngine(t *testing.T, store *fakeMovieStore, ratings []models.Rating, c engine.ResultCache) *engine.Engine {
	t.Helper()
	e := engine.New(store, &fakeRatings{ratings: ratings}, c, engine.Options{})
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return e
}

package engine

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"movierec/internal/cache"
	"movierec/internal/models"
	"movierec/internal/similarity"

	"github.com/goccy/go-json"
)

// ---- fakes ----

type fakeMovies struct {
	mu     sync.Mutex
	movies []models.Movie
	err    error
	delay  time.Duration
	calls  atomic.Int32
}

func (f *fakeMovies) Batch(ctx context.Context, offset, limit int, _ models.MovieFilter) ([]models.Movie, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := f.movies[min(offset, len(f.movies)):]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMovies) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
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

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

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

// ---- fixtures ----

func newTestEngine(t *testing.T, movies []models.Movie, ratings []models.Rating, c ResultCache) *Engine {
	t.Helper()
	e := New(&fakeMovies{movies: movies}, &fakeRatings{ratings: ratings}, c, Options{})
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return e
}

// u1:[5,0,3] u2:[4,0,0] u3:[0,5,5] sobre m1,m2,m3
func smallFixture() ([]models.Movie, []models.Rating) {
	movies := []models.Movie{
		{MovieID: 1, Title: "One", Genres: "Action|Comedy"},
		{MovieID: 2, Title: "Two", Genres: "Action"},
		{MovieID: 3, Title: "Three", Genres: "Comedy|Action"},
		{MovieID: 3, Title: "Three (dup)", Genres: "Comedy|Action"},
		{MovieID: 4, Title: "Four", Genres: "Drama"},
	}
	ratings := []models.Rating{
		{UserID: 1, MovieID: 1, Rating: 5},
		{UserID: 1, MovieID: 3, Rating: 3},
		{UserID: 2, MovieID: 1, Rating: 4},
		{UserID: 3, MovieID: 2, Rating: 5},
		{UserID: 3, MovieID: 3, Rating: 5},
	}
	return movies, ratings
}

func popularFixture() ([]models.Movie, []models.Rating) {
	movies := []models.Movie{
		{MovieID: 10, Title: "Ten", Genres: "Drama"},
		{MovieID: 11, Title: "Eleven", Genres: "Drama|Romance"},
		{MovieID: 12, Title: "Twelve", Genres: "Comedy"},
		{MovieID: 13, Title: "Thirteen", Genres: "Horror"},
	}
	var ratings []models.Rating
	add := func(movie, users int, rating float64) {
		for u := 1; u <= users; u++ {
			ratings = append(ratings, models.Rating{UserID: u, MovieID: movie, Rating: rating})
		}
	}
	add(10, 12, 4.0)
	add(11, 10, 5.0)
	add(12, 12, 3.0) // promedio bajo
	add(13, 5, 5.0)  // pocos ratings
	add(14, 20, 4.5) // no está en la muestra de películas
	return movies, ratings
}

func ids(items []models.Recommendation) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.MovieID
	}
	return out
}

// ---- tests ----

func TestNotInitialized(t *testing.T) {
	movies, ratings := smallFixture()
	e := New(&fakeMovies{movies: movies}, &fakeRatings{ratings: ratings}, nil, Options{})
	ctx := context.Background()

	if e.State() != StateUninitialized {
		t.Fatalf("State() = %v", e.State())
	}
	if _, err := e.MovieSimilarity(1, 3, similarity.Cosine); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("MovieSimilarity err = %v, want ErrNotInitialized", err)
	}
	if _, err := e.RecommendationsForMovie(ctx, 1, similarity.Cosine, 5); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("RecommendationsForMovie err = %v", err)
	}
	if _, err := e.RecommendationsForUser(ctx, 1, similarity.Cosine, 5); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("RecommendationsForUser err = %v", err)
	}
	if _, err := e.PopularMovies(ctx, 5); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("PopularMovies err = %v", err)
	}
	if e.Info().Loaded {
		t.Error("Info().Loaded should be false")
	}
}

func TestMovieSimilarityEndToEnd(t *testing.T) {
	movies, ratings := smallFixture()
	e := newTestEngine(t, movies, ratings, nil)

	got, err := e.MovieSimilarity(1, 3, similarity.Cosine)
	if err != nil {
		t.Fatalf("MovieSimilarity() error = %v", err)
	}
	// columnas completas [5,4,0] y [3,0,5]
	want := 15 / (math.Sqrt(41) * math.Sqrt(34))
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("MovieSimilarity(1,3) = %v, want %v", got, want)
	}

	// segunda llamada sale de la SimCache con el mismo valor
	again, _ := e.MovieSimilarity(3, 1, similarity.Cosine)
	if again != got {
		t.Errorf("symmetric lookup = %v, want %v", again, got)
	}
}

func TestMovieSimilarityAbsentIsZero(t *testing.T) {
	movies, ratings := smallFixture()
	e := newTestEngine(t, movies, ratings, nil)

	for _, m := range similarity.Methods() {
		got, err := e.MovieSimilarity(1, 999, m)
		if err != nil || got != 0 {
			t.Errorf("%s: MovieSimilarity(1, 999) = %v, %v; want 0, nil", m, got, err)
		}
		// la 4 está en la muestra de películas pero nadie la calificó
		if got, _ := e.MovieSimilarity(4, 1, m); got != 0 {
			t.Errorf("%s: MovieSimilarity(4, 1) = %v, want 0", m, got)
		}
	}
}

func TestUserSimilarity(t *testing.T) {
	movies, ratings := smallFixture()
	e := newTestEngine(t, movies, ratings, nil)

	// filas [5,0,3] y [4,0,0]
	got, err := e.UserSimilarity(1, 2, similarity.Cosine)
	if err != nil {
		t.Fatalf("UserSimilarity() error = %v", err)
	}
	want := 20 / (math.Sqrt(34) * 4)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("UserSimilarity(1,2) = %v, want %v", got, want)
	}
	if got, _ := e.UserSimilarity(1, 42, similarity.Pearson); got != 0 {
		t.Errorf("UserSimilarity with unknown user = %v, want 0", got)
	}
	if _, err := e.UserSimilarity(1, 2, similarity.Method("dice")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestInvalidMethod(t *testing.T) {
	movies, ratings := smallFixture()
	e := newTestEngine(t, movies, ratings, nil)

	_, err := e.MovieSimilarity(1, 3, similarity.Method("jaccard"))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
	if !errors.Is(err, similarity.ErrInvalidMethod) {
		t.Errorf("err = %v, should wrap ErrInvalidMethod", err)
	}
	if _, err := e.GenreRecommendations([]string{"Drama"}, "jaccard", 5); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("GenreRecommendations err = %v, want ErrInvalidArgument", err)
	}
}

func TestRecommendationsForMovie(t *testing.T) {
	movies, ratings := smallFixture()
	e := newTestEngine(t, movies, ratings, nil)

	for _, m := range similarity.Methods() {
		t.Run(string(m), func(t *testing.T) {
			got, err := e.RecommendationsForMovie(context.Background(), 3, m, 10)
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			seen := map[int]bool{}
			for i, r := range got {
				if r.MovieID == 3 {
					t.Error("result contains the queried movie")
				}
				if seen[r.MovieID] {
					t.Errorf("duplicate movie %d", r.MovieID)
				}
				seen[r.MovieID] = true
				if r.Score <= 0 {
					t.Errorf("non-positive score %v for movie %d", r.Score, r.MovieID)
				}
				if i > 0 && got[i-1].Score < r.Score {
					t.Error("results not sorted by score")
				}
			}
		})
	}

	// coseno: m2 ([0,0,5]) es ortogonal a m1 ([5,4,0])
	got, _ := e.RecommendationsForMovie(context.Background(), 1, similarity.Cosine, 10)
	if !reflect.DeepEqual(ids(got), []int{3}) {
		t.Errorf("ids = %v, want [3]", ids(got))
	}
	if got, _ := e.RecommendationsForMovie(context.Background(), 1, similarity.Cosine, 0); len(got) != 0 {
		t.Errorf("limit 0 returned %d items", len(got))
	}
}

func TestRecommendationsForUser(t *testing.T) {
	movies := []models.Movie{
		{MovieID: 1, Title: "A"}, {MovieID: 2, Title: "B"}, {MovieID: 3, Title: "C"},
		{MovieID: 4, Title: "D"}, {MovieID: 5, Title: "E"},
	}
	ratings := []models.Rating{
		{UserID: 1, MovieID: 1, Rating: 5}, {UserID: 1, MovieID: 2, Rating: 5},
		{UserID: 2, MovieID: 1, Rating: 5}, {UserID: 2, MovieID: 2, Rating: 5},
		{UserID: 2, MovieID: 3, Rating: 4}, {UserID: 2, MovieID: 4, Rating: 2},
		{UserID: 3, MovieID: 1, Rating: 1}, {UserID: 3, MovieID: 5, Rating: 5},
	}
	e := newTestEngine(t, movies, ratings, nil)

	got, err := e.RecommendationsForUser(context.Background(), 1, similarity.Cosine, 10)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	// 5 (rating 5 de u3) antes que 3 (rating 4 de u2); 4 queda fuera por rating < 3
	if !reflect.DeepEqual(ids(got), []int{5, 3}) {
		t.Fatalf("ids = %v, want [5 3]", ids(got))
	}
	if got[0].Strategy != models.StrategyUserBased || got[0].Rating != 5 {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].UserSimilarity <= got[0].UserSimilarity {
		t.Errorf("u2 should be the closer neighbour: %v vs %v", got[1].UserSimilarity, got[0].UserSimilarity)
	}
}

func TestRecommendationsForUserFallsBackToPopular(t *testing.T) {
	movies, ratings := popularFixture()
	e := newTestEngine(t, movies, ratings, nil)
	ctx := context.Background()

	popular, err := e.PopularMovies(ctx, 5)
	if err != nil {
		t.Fatalf("PopularMovies() error = %v", err)
	}
	got, err := e.RecommendationsForUser(ctx, 999, similarity.Pearson, 5)
	if err != nil {
		t.Fatalf("RecommendationsForUser() error = %v", err)
	}
	if !reflect.DeepEqual(got, popular) {
		t.Errorf("fallback = %v, want popular %v", ids(got), ids(popular))
	}
}

func TestPopularMovies(t *testing.T) {
	movies, ratings := popularFixture()
	e := newTestEngine(t, movies, ratings, nil)

	got, err := e.PopularMovies(context.Background(), 10)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if !reflect.DeepEqual(ids(got), []int{11, 10}) {
		t.Fatalf("ids = %v, want [11 10]", ids(got))
	}
	for _, r := range got {
		if r.RatingCount < PopularMinRatings || r.AvgRating < PopularMinAverage {
			t.Errorf("movie %d breaks thresholds: count=%d avg=%v", r.MovieID, r.RatingCount, r.AvgRating)
		}
	}

	one, _ := e.PopularMovies(context.Background(), 1)
	if !reflect.DeepEqual(ids(one), []int{11}) {
		t.Errorf("limit 1 ids = %v", ids(one))
	}
}

func TestResultCacheRoundTrip(t *testing.T) {
	movies, ratings := popularFixture()
	mc := newMemCache()
	e := newTestEngine(t, movies, ratings, mc)
	ctx := context.Background()

	first, err := e.PopularMovies(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.PopularMovies(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if mc.hits != 1 {
		t.Errorf("cache hits = %d, want 1", mc.hits)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached list differs:\n%+v\n%+v", first, second)
	}

	// lo guardado en la cache es lo que se devuelve
	year := 1999
	planted := []models.Recommendation{
		{MovieID: 42, Title: "Planted", Year: &year, Score: 0.9, Strategy: models.StrategySimilarity, Similarity: 0.9},
		{MovieID: 7, Title: "Second", Score: 0.5, Strategy: models.StrategySimilarity, Similarity: 0.5},
	}
	if err := mc.SetJSON(ctx, cache.Key("rec", 10, similarity.Cosine), planted, time.Minute); err != nil {
		t.Fatal(err)
	}
	got, err := e.RecommendationsForMovie(ctx, 10, similarity.Cosine, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, planted) {
		t.Errorf("got %+v, want %+v", got, planted)
	}
}

func TestInitializeFailedThenRetry(t *testing.T) {
	movies, ratings := smallFixture()
	fm := &fakeMovies{movies: movies, err: errors.New("mongo caído")}
	e := New(fm, &fakeRatings{ratings: ratings}, nil, Options{})
	ctx := context.Background()

	if err := e.Initialize(ctx); err == nil {
		t.Fatal("expected error")
	}
	if e.State() != StateFailed {
		t.Fatalf("State() = %v, want failed", e.State())
	}
	if e.Info().LastError == "" {
		t.Error("Info().LastError should be set")
	}
	if _, err := e.PopularMovies(ctx, 5); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("err = %v, want ErrNotInitialized", err)
	}

	fm.setErr(nil)
	if err := e.Initialize(ctx); err != nil {
		t.Fatalf("retry error = %v", err)
	}
	if e.State() != StateReady {
		t.Fatalf("State() = %v, want ready", e.State())
	}
	info := e.Info()
	if info.MoviesLoaded != 4 || info.RatingsLoaded != 5 || info.MatrixShape != [2]int{3, 3} {
		t.Errorf("Info() = %+v", info)
	}
}

func TestConcurrentInitializeLoadsOnce(t *testing.T) {
	movies, ratings := smallFixture()
	fm := &fakeMovies{movies: movies, delay: 50 * time.Millisecond}
	e := New(fm, &fakeRatings{ratings: ratings}, nil, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := e.Initialize(context.Background()); err != nil {
				t.Errorf("Initialize() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if n := fm.calls.Load(); n != 1 {
		t.Errorf("movie loads = %d, want 1", n)
	}
}

func TestReloadKeepsSnapshotOnFailure(t *testing.T) {
	movies, ratings := smallFixture()
	fm := &fakeMovies{movies: movies}
	e := New(fm, &fakeRatings{ratings: ratings}, nil, Options{})
	ctx := context.Background()
	if err := e.Initialize(ctx); err != nil {
		t.Fatal(err)
	}

	fm.setErr(errors.New("timeout"))
	if err := e.Reload(ctx); err == nil {
		t.Fatal("expected reload error")
	}
	if e.State() != StateReady {
		t.Errorf("State() = %v, want ready", e.State())
	}
	if v, err := e.MovieSimilarity(1, 3, similarity.Cosine); err != nil || v == 0 {
		t.Errorf("old snapshot not served: %v, %v", v, err)
	}

	fm.setErr(nil)
	if err := e.Reload(ctx); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if e.Info().LastError != "" {
		t.Error("LastError should be cleared after a good reload")
	}
}

func TestWaitReady(t *testing.T) {
	movies, ratings := smallFixture()
	e := New(&fakeMovies{movies: movies}, &fakeRatings{ratings: ratings}, nil, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := e.WaitReady(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitReady before init = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- e.WaitReady(context.Background()) }()
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitReady() = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitReady did not return after Initialize")
	}
}

func TestContentRecommendations(t *testing.T) {
	movies, ratings := smallFixture()
	e := newTestEngine(t, movies, ratings, nil)

	got, err := e.ContentRecommendations(1, 10)
	if err != nil {
		t.Fatal(err)
	}
	// 3 comparte los dos géneros (1.0), 2 solo Action (0.5), 4 ninguno
	if !reflect.DeepEqual(ids(got), []int{3, 2}) {
		t.Fatalf("ids = %v, want [3 2]", ids(got))
	}
	if got[0].Score != 1 || got[1].Score != 0.5 {
		t.Errorf("scores = %v, %v", got[0].Score, got[1].Score)
	}
	if got, _ := e.ContentRecommendations(999, 10); len(got) != 0 {
		t.Errorf("unknown movie returned %v", ids(got))
	}
}

func TestCollaborativeRecommendations(t *testing.T) {
	movies := []models.Movie{{MovieID: 20}, {MovieID: 21}, {MovieID: 22}}
	ratings := []models.Rating{
		{UserID: 1, MovieID: 20, Rating: 5}, {UserID: 2, MovieID: 20, Rating: 4},
		{UserID: 3, MovieID: 20, Rating: 4.5}, {UserID: 4, MovieID: 20, Rating: 2},
		{UserID: 1, MovieID: 21, Rating: 5}, {UserID: 2, MovieID: 21, Rating: 4},
		{UserID: 3, MovieID: 22, Rating: 5}, {UserID: 4, MovieID: 22, Rating: 5},
	}
	e := newTestEngine(t, movies, ratings, nil)

	got, err := e.CollaborativeRecommendations(20, 10)
	if err != nil {
		t.Fatal(err)
	}
	// 22 solo tiene un fan de 20 (u4 no cuenta)
	if !reflect.DeepEqual(ids(got), []int{21}) {
		t.Fatalf("ids = %v, want [21]", ids(got))
	}
	if got[0].Score != 4.5 {
		t.Errorf("score = %v, want 4.5", got[0].Score)
	}
}

func TestHybridRecommendations(t *testing.T) {
	movies, ratings := popularFixture()
	e := newTestEngine(t, movies, ratings, nil)

	got, err := e.HybridRecommendations(context.Background(), 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range got {
		if r.MovieID == 10 {
			t.Error("hybrid output contains the target movie")
		}
		if r.Strategy != models.StrategyHybrid {
			t.Errorf("strategy = %q", r.Strategy)
		}
	}
	if len(got) == 0 || got[0].MovieID != 11 {
		t.Errorf("ids = %v, want 11 first", ids(got))
	}
}

func TestGenreRecommendations(t *testing.T) {
	movies, ratings := smallFixture()
	e := newTestEngine(t, movies, ratings, nil)

	got, err := e.GenreRecommendations([]string{"comedy", "ACTION"}, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	// 1 y 3 tienen los dos géneros, 2 solo uno; 4 no aparece
	if !reflect.DeepEqual(ids(got), []int{1, 3, 2}) {
		t.Errorf("ids = %v, want [1 3 2]", ids(got))
	}

	withMetric, err := e.GenreRecommendations([]string{"Action"}, "cosine", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(withMetric) != 3 || withMetric[0].Strategy != "cosine" {
		t.Errorf("got %+v", withMetric)
	}

	if _, err := e.GenreRecommendations(nil, "", 10); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty genres err = %v", err)
	}
}

func TestRecommendationsForUserCapsNeighbours(t *testing.T) {
	// u1 y 60 vecinos idénticos en la película 1; cada vecino tiene además
	// una película que solo él calificó
	movies := []models.Movie{{MovieID: 1, Title: "Shared"}}
	ratings := []models.Rating{{UserID: 1, MovieID: 1, Rating: 5}}
	for u := 2; u <= 61; u++ {
		own := 100 + u
		movies = append(movies, models.Movie{MovieID: own, Title: "Own"})
		ratings = append(ratings,
			models.Rating{UserID: u, MovieID: 1, Rating: 5},
			models.Rating{UserID: u, MovieID: own, Rating: 4},
		)
	}
	e := newTestEngine(t, movies, ratings, nil)

	got, err := e.RecommendationsForUser(context.Background(), 1, similarity.Cosine, 100)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(got) != NeighbourCount {
		t.Fatalf("got %d recommendations, want %d (one per neighbour)", len(got), NeighbourCount)
	}
	// empate de similitud: ganan los ids de usuario más bajos (2..51)
	for _, r := range got {
		if r.MovieID < 102 || r.MovieID > 151 {
			t.Errorf("movie %d comes from a neighbour outside the top %d", r.MovieID, NeighbourCount)
		}
	}
}

type brokenCache struct {
	gets, sets atomic.Int32
}

func (c *brokenCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	c.gets.Add(1)
	return false, errors.New("circuit breaker is open")
}

func (c *brokenCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	c.sets.Add(1)
	return errors.New("circuit breaker is open")
}

func TestBrokenResultCacheDegrades(t *testing.T) {
	movies, ratings := popularFixture()
	c := &brokenCache{}
	e := newTestEngine(t, movies, ratings, c)
	ctx := context.Background()

	popular, err := e.PopularMovies(ctx, 5)
	if err != nil || !reflect.DeepEqual(ids(popular), []int{11, 10}) {
		t.Errorf("PopularMovies() = %v, %v", ids(popular), err)
	}
	recs, err := e.RecommendationsForMovie(ctx, 10, similarity.Cosine, 5)
	if err != nil || len(recs) == 0 {
		t.Errorf("RecommendationsForMovie() = %v, %v", ids(recs), err)
	}
	fallback, err := e.RecommendationsForUser(ctx, 999, similarity.Cosine, 5)
	if err != nil || !reflect.DeepEqual(ids(fallback), ids(popular)) {
		t.Errorf("fallback = %v, %v", ids(fallback), err)
	}
	if c.gets.Load() == 0 || c.sets.Load() == 0 {
		t.Errorf("cache was not consulted (gets %d, sets %d)", c.gets.Load(), c.sets.Load())
	}
}

func TestHugeLimitsDoNotPreallocate(t *testing.T) {
	movies, ratings := popularFixture()
	e := newTestEngine(t, movies, ratings, nil)
	ctx := context.Background()
	huge := math.MaxInt / 2

	popular, err := e.PopularMovies(ctx, huge)
	if err != nil || len(popular) != 2 {
		t.Errorf("PopularMovies(huge) = %v, %v", ids(popular), err)
	}
	recs, err := e.RecommendationsForMovie(ctx, 10, similarity.Cosine, huge)
	if err != nil || len(recs) == 0 {
		t.Errorf("RecommendationsForMovie(huge) = %v, %v", ids(recs), err)
	}
	genre, err := e.GenreRecommendations([]string{"drama"}, "", huge)
	if err != nil || len(genre) != 2 {
		t.Errorf("GenreRecommendations(huge) = %v, %v", ids(genre), err)
	}
	hybrid, err := e.HybridRecommendations(ctx, 10, huge)
	if err != nil || len(hybrid) == 0 {
		t.Errorf("HybridRecommendations(huge) = %v, %v", ids(hybrid), err)
	}
}

func TestReloadWhileServing(t *testing.T) {
	movies, ratings := smallFixture()
	e := newTestEngine(t, movies, ratings, nil)
	ctx := context.Background()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for _, m := range similarity.Methods() {
					if _, err := e.MovieSimilarity(1, 3, m); err != nil {
						t.Errorf("MovieSimilarity() during reload: %v", err)
						return
					}
				}
			}
		}()
	}
	for i := 0; i < 20; i++ {
		if err := e.Reload(ctx); err != nil {
			t.Fatalf("Reload() error = %v", err)
		}
	}
	close(stop)
	wg.Wait()
}

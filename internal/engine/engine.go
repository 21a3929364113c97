package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"movierec/internal/cache"
	"movierec/internal/models"
	"movierec/internal/similarity"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Umbrales fijos de las estrategias.
const (
	NeighbourCount        = 50
	NeighbourMinRating    = 3.0
	PopularMinRatings     = 10
	PopularMinAverage     = 3.5
	CollaborativeMinScore = 4.0
	CollaborativeMinUsers = 2
)

// MovieSource es la parte del movie store que usa el motor.
type MovieSource interface {
	Batch(ctx context.Context, offset, limit int, f models.MovieFilter) ([]models.Movie, error)
}

// RatingSource devuelve los primeros N ratings (orden natural).
type RatingSource interface {
	Sample(ctx context.Context, limit int) ([]models.Rating, error)
}

// ResultCache es la cache externa con TTL (Redis en producción).
type ResultCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type State int32

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

type Options struct {
	MovieSample      int
	RatingSample     int
	SimCacheCapacity int
	// cuántos resultados se calculan y guardan en la cache externa
	MaxResults int
	PopularTTL time.Duration
	Logger     *zerolog.Logger
}

func (o *Options) defaults() {
	if o.MovieSample <= 0 {
		o.MovieSample = 10_000
	}
	if o.RatingSample <= 0 {
		o.RatingSample = 100_000
	}
	if o.SimCacheCapacity <= 0 {
		o.SimCacheCapacity = 1_000_000
	}
	if o.MaxResults <= 0 {
		o.MaxResults = 50
	}
	if o.PopularTTL <= 0 {
		o.PopularTTL = cache.TTLPopular
	}
}

// Engine construye la matriz una vez y responde recomendaciones sobre ella.
// Los datos cargados viven en un snapshot inmutable que se publica de forma
// atómica, así ninguna lectura ve una matriz a medio construir.
type Engine struct {
	movies  MovieSource
	ratings RatingSource
	cache   ResultCache
	opts    Options
	log     zerolog.Logger

	state atomic.Int32
	snap  atomic.Pointer[snapshot]
	group singleflight.Group

	readyOnce sync.Once
	ready     chan struct{}

	mu      sync.Mutex
	lastErr error
}

// New no carga nada; llamar Initialize (o Reload) antes de usarlo.
// cache puede ser nil.
func New(movies MovieSource, ratings RatingSource, cache ResultCache, opts Options) *Engine {
	opts.defaults()
	lg := zerolog.Nop()
	if opts.Logger != nil {
		lg = *opts.Logger
	}
	e := &Engine{
		movies:  movies,
		ratings: ratings,
		cache:   cache,
		opts:    opts,
		log:     lg,
		ready:   make(chan struct{}),
	}
	engineState.Set(float64(StateUninitialized))
	return e
}

func (e *Engine) State() State { return State(e.state.Load()) }

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
	engineState.Set(float64(s))
}

// Initialize carga la matriz si todavía no está lista. Llamadas concurrentes
// comparten la misma carga; después de un fallo, la siguiente llamada reintenta.
func (e *Engine) Initialize(ctx context.Context) error {
	if e.State() == StateReady {
		return nil
	}
	_, err, _ := e.group.Do("load", func() (any, error) {
		if e.State() == StateReady {
			return nil, nil
		}
		return nil, e.load(ctx)
	})
	return err
}

// Reload reconstruye la matriz aunque ya esté lista. Si falla, se sigue
// sirviendo la anterior.
func (e *Engine) Reload(ctx context.Context) error {
	_, err, _ := e.group.Do("load", func() (any, error) {
		return nil, e.load(ctx)
	})
	return err
}

// WaitReady bloquea hasta que haya una matriz publicada o termine ctx.
func (e *Engine) WaitReady(ctx context.Context) error {
	select {
	case <-e.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) load(ctx context.Context) error {
	prev := e.snap.Load()
	if prev == nil {
		e.setState(StateLoading)
	}
	e.log.Info().
		Int("movie_sample", e.opts.MovieSample).
		Int("rating_sample", e.opts.RatingSample).
		Msg("cargando datos para el motor")

	start := time.Now()
	snap, err := e.build(ctx)
	if err != nil {
		engineLoadErrors.Inc()
		e.mu.Lock()
		e.lastErr = err
		e.mu.Unlock()
		if prev == nil {
			e.setState(StateFailed)
			e.log.Error().Err(err).Msg("no se pudo inicializar el motor")
		} else {
			e.log.Warn().Err(err).Msg("recarga fallida, se mantiene la matriz anterior")
		}
		return err
	}
	snap.loadDuration = time.Since(start)

	e.snap.Store(snap)
	e.mu.Lock()
	e.lastErr = nil
	e.mu.Unlock()
	e.setState(StateReady)
	e.readyOnce.Do(func() { close(e.ready) })
	if prev != nil {
		prev.sims.Close()
	}

	users, movies := snap.matrix.Shape()
	engineLoadSeconds.Set(snap.loadDuration.Seconds())
	e.log.Info().
		Int("movies", len(snap.movies)).
		Int("ratings", len(snap.ratings)).
		Int("matrix_users", users).
		Int("matrix_movies", movies).
		Dur("took", snap.loadDuration).
		Msg("motor listo")
	return nil
}

func (e *Engine) build(ctx context.Context) (*snapshot, error) {
	var (
		movies  []models.Movie
		ratings []models.Rating
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := e.movies.Batch(gctx, 0, e.opts.MovieSample, models.MovieFilter{})
		if err != nil {
			return fmt.Errorf("cargando películas: %w", err)
		}
		movies = m
		return nil
	})
	g.Go(func() error {
		r, err := e.ratings.Sample(gctx, e.opts.RatingSample)
		if err != nil {
			return fmt.Errorf("cargando ratings: %w", err)
		}
		ratings = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sims, err := NewSimCache(e.opts.SimCacheCapacity)
	if err != nil {
		return nil, err
	}
	return newSnapshot(movies, ratings, sims), nil
}

// current devuelve el snapshot publicado o ErrNotInitialized.
func (e *Engine) current() (*snapshot, error) {
	s := e.snap.Load()
	if s == nil {
		return nil, ErrNotInitialized
	}
	return s, nil
}

// AvailableMethods nombres de las métricas soportadas.
func (e *Engine) AvailableMethods() []string {
	return similarity.Names()
}

// Info estado del motor para /api/stats y /api/health.
func (e *Engine) Info() models.EngineInfo {
	info := models.EngineInfo{
		State:            e.State().String(),
		AvailableMethods: e.AvailableMethods(),
	}
	e.mu.Lock()
	if e.lastErr != nil {
		info.LastError = e.lastErr.Error()
	}
	e.mu.Unlock()

	s := e.snap.Load()
	if s == nil {
		return info
	}
	users, movies := s.matrix.Shape()
	info.Loaded = true
	info.MoviesLoaded = len(s.movies)
	info.RatingsLoaded = len(s.ratings)
	info.MatrixShape = [2]int{users, movies}
	info.LoadDuration = s.loadDuration.String()
	info.SimCacheHitRatio = s.sims.Ratio()
	return info
}

// Movie metadata de la película en la muestra cargada.
func (e *Engine) Movie(movieID int) (models.Movie, bool, error) {
	s, err := e.current()
	if err != nil {
		return models.Movie{}, false, err
	}
	m, ok := s.movie(movieID)
	return m, ok, nil
}

// MovieStats promedio y cantidad de ratings de la película en la muestra.
func (e *Engine) MovieStats(movieID int) (models.RatingStats, bool, error) {
	s, err := e.current()
	if err != nil {
		return models.RatingStats{}, false, err
	}
	st, ok := s.stats[movieID]
	if !ok {
		return models.RatingStats{}, false, nil
	}
	return st.ratingStats(), true, nil
}

// ===================== snapshot =====================

type movieStat struct {
	sum      float64
	count    int
	min, max float64
}

func (m movieStat) mean() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

func (m movieStat) ratingStats() models.RatingStats {
	return models.RatingStats{Average: m.mean(), Count: m.count, Min: m.min, Max: m.max}
}

// snapshot no se modifica después de publicarse (salvo la SimCache, que es
// concurrente).
type snapshot struct {
	movies    []models.Movie // sin ids repetidos, en orden de carga
	movieByID map[int]int    // movieId -> índice en movies
	ratings   []models.Rating
	matrix    *RatingMatrix

	stats   map[int]movieStat
	byMovie map[int][]models.Rating
	byUser  map[int][]models.Rating
	popular []int // candidatos que pasan los umbrales, ya ordenados

	sims         *SimCache
	loadDuration time.Duration
}

func newSnapshot(movies []models.Movie, ratings []models.Rating, sims *SimCache) *snapshot {
	s := &snapshot{
		movies:    make([]models.Movie, 0, len(movies)),
		movieByID: make(map[int]int, len(movies)),
		ratings:   ratings,
		matrix:    BuildMatrix(ratings),
		stats:     make(map[int]movieStat),
		byMovie:   make(map[int][]models.Rating),
		byUser:    make(map[int][]models.Rating),
		sims:      sims,
	}

	for _, m := range movies {
		if _, dup := s.movieByID[m.MovieID]; dup {
			continue
		}
		s.movieByID[m.MovieID] = len(s.movies)
		s.movies = append(s.movies, m)
	}

	for _, r := range ratings {
		st := s.stats[r.MovieID]
		if st.count == 0 || r.Rating < st.min {
			st.min = r.Rating
		}
		if st.count == 0 || r.Rating > st.max {
			st.max = r.Rating
		}
		st.sum += r.Rating
		st.count++
		s.stats[r.MovieID] = st

		s.byMovie[r.MovieID] = append(s.byMovie[r.MovieID], r)
		s.byUser[r.UserID] = append(s.byUser[r.UserID], r)
	}

	for id, st := range s.stats {
		if st.count >= PopularMinRatings && st.mean() >= PopularMinAverage {
			s.popular = append(s.popular, id)
		}
	}
	sort.Slice(s.popular, func(i, j int) bool {
		a, b := s.stats[s.popular[i]], s.stats[s.popular[j]]
		if a.mean() != b.mean() {
			return a.mean() > b.mean()
		}
		if a.count != b.count {
			return a.count > b.count
		}
		return s.popular[i] < s.popular[j]
	})

	return s
}

func (s *snapshot) movie(id int) (models.Movie, bool) {
	i, ok := s.movieByID[id]
	if !ok {
		return models.Movie{}, false
	}
	return s.movies[i], true
}

// recommendation arma el ítem con los datos de la película y sus stats.
func (s *snapshot) recommendation(m models.Movie, score float64, strategy string) models.Recommendation {
	r := models.Recommendation{
		MovieID:  m.MovieID,
		Title:    m.Title,
		Genres:   m.Genres,
		Year:     m.Year,
		Score:    score,
		Strategy: strategy,
	}
	if st, ok := s.stats[m.MovieID]; ok {
		r.AvgRating = st.mean()
		r.RatingCount = st.count
	}
	return r
}

package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"movierec/internal/cache"
	"movierec/internal/engine"
	"movierec/internal/logging"
	"movierec/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	similarInDetail = 5
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// pageSize aplica el default y el tope a los listados.
func pageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	return min(limit, MaxPageSize)
}

type MovieService struct {
	movies MovieStore
	engine *engine.Engine
	cache  ResultCache
	log    zerolog.Logger
}

// cache puede ser nil.
func NewMovieService(m MovieStore, e *engine.Engine, c ResultCache) *MovieService {
	return &MovieService{
		movies: m,
		engine: e,
		cache:  c,
		log:    logging.Component("movies"),
	}
}

func (s *MovieService) getCached(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		s.log.Warn().Err(err).Msg("cache no disponible")
		return false
	}
	return ok
}

func (s *MovieService) setCached(ctx context.Context, key string, v any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, ttl); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo guardar en cache")
	}
}

// List página `page` (desde 1) de películas con filtros.
func (s *MovieService) List(ctx context.Context, page, limit int, f models.MovieFilter) (*models.MoviePage, error) {
	if page < 1 {
		page = 1
	}
	limit = pageSize(limit)
	if page > math.MaxInt/limit {
		return nil, fmt.Errorf("%w: página %d fuera de rango", engine.ErrInvalidArgument, page)
	}
	movies, err := s.movies.Batch(ctx, (page-1)*limit, limit, f)
	if err != nil {
		return nil, err
	}
	return &models.MoviePage{
		Movies:  movies,
		Page:    page,
		Limit:   limit,
		HasMore: len(movies) == limit,
	}, nil
}

// Detail película con stats de ratings, cantidad de usuarios y similares por género.
func (s *MovieService) Detail(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	m, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("película %d: %w", movieID, engine.ErrNotFound)
	}

	detail := &models.MovieDetail{Movie: *m, SimilarMovies: []models.Recommendation{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := s.movies.RatingStats(gctx, movieID)
		if err != nil {
			s.log.Warn().Err(err).Int("movie_id", movieID).Msg("sin stats de ratings")
			return nil
		}
		detail.Stats = st
		return nil
	})
	g.Go(func() error {
		n, err := s.movies.CountRaters(gctx, movieID)
		if err != nil {
			s.log.Warn().Err(err).Int("movie_id", movieID).Msg("sin conteo de usuarios")
			return nil
		}
		detail.UsersWhoRated = n
		return nil
	})
	_ = g.Wait()

	// similares solo si el motor ya cargó
	if similar, err := s.engine.ContentRecommendations(movieID, similarInDetail); err == nil {
		detail.SimilarMovies = similar
	}
	return detail, nil
}

func (s *MovieService) Genres(ctx context.Context) ([]models.GenreCount, error) {
	return s.movies.Genres(ctx)
}

type SearchRequest struct {
	Query string
	Genre string
	Year  int
	Limit int
}

// Search busca en el store. Sin ningún filtro devuelve las populares; las
// búsquedas solo por texto se cachean 15 minutos.
func (s *MovieService) Search(ctx context.Context, req SearchRequest) ([]models.Recommendation, error) {
	req.Limit = pageSize(req.Limit)
	if req.Query == "" && req.Genre == "" && req.Year == 0 {
		return s.engine.PopularMovies(ctx, req.Limit)
	}

	textOnly := req.Genre == "" && req.Year == 0
	key := cache.Key("search", strings.ToLower(req.Query), req.Limit)
	var cached []models.Recommendation
	if textOnly && s.getCached(ctx, key, &cached) && len(cached) > 0 {
		return cached, nil
	}

	movies, err := s.movies.Batch(ctx, 0, req.Limit, models.MovieFilter{
		Search: req.Query,
		Genre:  req.Genre,
		Year:   req.Year,
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Recommendation, 0, len(movies))
	for _, m := range movies {
		r := models.Recommendation{
			MovieID:  m.MovieID,
			Title:    m.Title,
			Genres:   m.Genres,
			Year:     m.Year,
			Strategy: models.StrategySearch,
		}
		if st, ok, _ := s.engine.MovieStats(m.MovieID); ok {
			r.AvgRating = st.Average
			r.RatingCount = st.Count
		}
		out = append(out, r)
	}

	if textOnly && len(out) > 0 {
		s.setCached(ctx, key, out, cache.TTLSearch)
	}
	return out, nil
}

// ByGenre películas de un género con sus stats, ordenadas por rating
// promedio. Se cachea 30 minutos.
func (s *MovieService) ByGenre(ctx context.Context, genre string, limit int) ([]models.Recommendation, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return nil, fmt.Errorf("%w: género vacío", engine.ErrInvalidArgument)
	}
	limit = pageSize(limit)

	key := cache.Key("genre", strings.ToLower(genre), limit)
	var cached []models.Recommendation
	if s.getCached(ctx, key, &cached) && len(cached) > 0 {
		return cached, nil
	}

	movies, err := s.movies.Batch(ctx, 0, limit, models.MovieFilter{Genre: genre})
	if err != nil {
		return nil, err
	}

	out := make([]models.Recommendation, len(movies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, m := range movies {
		i, m := i, m // go 1.21: copia por iteración
		g.Go(func() error {
			st, err := s.movies.RatingStats(gctx, m.MovieID)
			if err != nil {
				return err
			}
			out[i] = models.Recommendation{
				MovieID:     m.MovieID,
				Title:       m.Title,
				Genres:      m.Genres,
				Year:        m.Year,
				Score:       genreShare(m, genre),
				Strategy:    models.StrategyGenre,
				AvgRating:   st.Average,
				RatingCount: st.Count,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgRating > out[j].AvgRating })

	if len(out) > 0 {
		s.setCached(ctx, key, out, cache.TTLGenre)
	}
	return out, nil
}

// genreShare fracción de los géneros de la película que coinciden con genre.
func genreShare(m models.Movie, genre string) float64 {
	gl := m.GenreList()
	if len(gl) == 0 {
		return 0
	}
	n := 0
	for _, g := range gl {
		if strings.EqualFold(g, genre) {
			n++
		}
	}
	return float64(n) / float64(len(gl))
}

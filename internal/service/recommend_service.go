package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"movierec/internal/engine"
	"movierec/internal/logging"
	"movierec/internal/models"
	"movierec/internal/similarity"

	"github.com/rs/zerolog"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50 // por seguridad, no deja pedir 1000 ítems
)

// Estrategias aceptadas por /api/recommendations además de las métricas.
var movieStrategies = []string{
	models.StrategyContent,
	models.StrategyCollaborative,
	models.StrategyPopular,
	models.StrategyHybrid,
}

var strategyExplanations = map[string]string{
	models.StrategyContent:       "Recomendaciones basadas en similitud de contenido (géneros)",
	models.StrategyCollaborative: "Recomendaciones basadas en usuarios similares",
	models.StrategyPopular:       "Películas más populares",
	models.StrategyHybrid:        "Combinación de métodos de contenido y colaborativo",
}

func explain(method string) string {
	if e, ok := strategyExplanations[method]; ok {
		return e
	}
	if m, err := similarity.ParseMethod(method); err == nil {
		return similarity.Explanation(m)
	}
	return "Método de recomendación"
}

// Strategies estrategias + métricas, en el orden en que se muestran.
func Strategies() []string {
	return append(slices.Clone(movieStrategies), similarity.Names()...)
}

func invalidStrategy(method string) error {
	return fmt.Errorf("%w: método %q no válido (disponibles: %s)",
		engine.ErrInvalidArgument, method, strings.Join(Strategies(), ", "))
}

type RecommendService struct {
	engine   *engine.Engine
	movies   MovieStore
	history  HistoryStore
	maxLimit int
	log      zerolog.Logger
}

// history puede ser nil (no se guarda historial).
func NewRecommendService(e *engine.Engine, movies MovieStore, history HistoryStore, maxLimit int) *RecommendService {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	return &RecommendService{
		engine:   e,
		movies:   movies,
		history:  history,
		maxLimit: maxLimit,
		log:      logging.Component("recommend"),
	}
}

func (s *RecommendService) clamp(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, s.maxLimit)
}

// ensureMovie devuelve ErrNotFound si la película no está en el store.
// Si el store falla se sigue igual: el motor trabaja con su muestra.
func (s *RecommendService) ensureMovie(ctx context.Context, movieID int) (*models.Movie, error) {
	m, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		s.log.Warn().Err(err).Int("movie_id", movieID).Msg("no se pudo verificar la película")
		return nil, nil
	}
	if m == nil {
		return nil, fmt.Errorf("película %d: %w", movieID, engine.ErrNotFound)
	}
	return m, nil
}

// ====== Recomendaciones por película ======

type MovieRecRequest struct {
	MovieID int
	Method  string
	Limit   int
}

// ForMovie despacha a la estrategia pedida (por defecto hybrid). Un nombre
// de métrica usa la similitud sobre la matriz de ratings.
func (s *RecommendService) ForMovie(ctx context.Context, req MovieRecRequest) (*models.RecommendationList, error) {
	if req.Method == "" {
		req.Method = models.StrategyHybrid
	}
	var metric similarity.Method
	if !slices.Contains(movieStrategies, req.Method) {
		m, err := similarity.ParseMethod(req.Method)
		if err != nil {
			return nil, invalidStrategy(req.Method)
		}
		metric = m
	}
	limit := s.clamp(req.Limit)

	if _, err := s.ensureMovie(ctx, req.MovieID); err != nil {
		return nil, err
	}

	var (
		items []models.Recommendation
		err   error
	)
	switch req.Method {
	case models.StrategyContent:
		items, err = s.engine.ContentRecommendations(req.MovieID, limit)
	case models.StrategyCollaborative:
		items, err = s.engine.CollaborativeRecommendations(req.MovieID, limit)
	case models.StrategyPopular:
		items, err = s.engine.PopularMovies(ctx, limit)
	case models.StrategyHybrid:
		items, err = s.engine.HybridRecommendations(ctx, req.MovieID, limit)
	default:
		items, err = s.engine.RecommendationsForMovie(ctx, req.MovieID, metric, limit)
	}
	if err != nil {
		return nil, err
	}

	id := req.MovieID
	return &models.RecommendationList{
		MovieID:         &id,
		Method:          req.Method,
		Explanation:     explain(req.Method),
		Recommendations: items,
		Count:           len(items),
	}, nil
}

// ====== Recomendaciones por usuario ======

type UserRecRequest struct {
	UserID int
	Method string
	Limit  int
	// guarda la corrida en el historial del usuario
	Save bool
}

func (s *RecommendService) ForUser(ctx context.Context, req UserRecRequest) (*models.RecommendationList, error) {
	if req.Method == "" {
		req.Method = string(similarity.Cosine)
	}
	m, err := similarity.ParseMethod(req.Method)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrInvalidArgument, err)
	}
	limit := s.clamp(req.Limit)

	items, err := s.engine.RecommendationsForUser(ctx, req.UserID, m, limit)
	if err != nil {
		return nil, err
	}

	// guardar historial en Mongo (no rompemos la respuesta si falla)
	if req.Save && s.history != nil {
		run := &models.RecommendationRun{
			UserID: req.UserID,
			Algo:   models.StrategyUserBased,
			Metric: req.Method,
			Params: map[string]any{
				"limit":     limit,
				"neighbors": engine.NeighbourCount,
			},
			Items: items,
		}
		if err := s.history.Insert(ctx, run); err != nil {
			s.log.Warn().Err(err).Int("user_id", req.UserID).Msg("error guardando historial")
		}
	}

	id := req.UserID
	return &models.RecommendationList{
		UserID:          &id,
		Method:          req.Method,
		Explanation:     similarity.Explanation(m),
		Recommendations: items,
		Count:           len(items),
	}, nil
}

// History corridas guardadas del usuario, más reciente primero.
func (s *RecommendService) History(ctx context.Context, userID, limit int) ([]models.RecommendationRun, error) {
	if s.history == nil {
		return []models.RecommendationRun{}, nil
	}
	return s.history.FindByUser(ctx, userID, int64(s.clamp(limit)))
}

// ====== Similitud entre dos películas ======

func (s *RecommendService) Similarity(ctx context.Context, id1, id2 int, method string) (*models.SimilarityResult, error) {
	if method == "" {
		method = string(similarity.Cosine)
	}
	m, err := similarity.ParseMethod(method)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrInvalidArgument, err)
	}

	m1, err := s.lookupMovie(ctx, id1)
	if err != nil {
		return nil, err
	}
	m2, err := s.lookupMovie(ctx, id2)
	if err != nil {
		return nil, err
	}

	selected, err := s.engine.MovieSimilarity(id1, id2, m)
	if err != nil {
		return nil, err
	}
	all := make(map[string]float64, len(similarity.Methods()))
	for _, other := range similarity.Methods() {
		v, err := s.engine.MovieSimilarity(id1, id2, other)
		if err != nil {
			return nil, err
		}
		all[string(other)] = v
	}

	return &models.SimilarityResult{
		Movie1:         *m1,
		Movie2:         *m2,
		SelectedMethod: method,
		Similarity:     selected,
		Explanation:    similarity.Explanation(m),
		AllMethods:     all,
		Comparison:     compare(*m1, *m2),
	}, nil
}

// lookupMovie busca en el store y, si no está o el store falla, en la
// muestra del motor. ErrNotFound solo si no aparece en ninguno.
func (s *RecommendService) lookupMovie(ctx context.Context, movieID int) (*models.Movie, error) {
	m, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		s.log.Warn().Err(err).Int("movie_id", movieID).Msg("store no disponible, se usa la muestra del motor")
	}
	if m != nil {
		return m, nil
	}
	mv, ok, eerr := s.engine.Movie(movieID)
	if ok {
		return &mv, nil
	}
	if err != nil && eerr != nil {
		return nil, eerr
	}
	return nil, fmt.Errorf("película %d: %w", movieID, engine.ErrNotFound)
}

func compare(a, b models.Movie) models.MovieComparison {
	var c models.MovieComparison
	bg := b.GenreList()
	for _, g := range a.GenreList() {
		if slices.Contains(bg, g) {
			c.GenresMatch = true
			break
		}
	}
	ya, yb := 0, 0
	if a.Year != nil {
		ya = *a.Year
	}
	if b.Year != nil {
		yb = *b.Year
	}
	c.YearDiff = ya - yb
	if c.YearDiff < 0 {
		c.YearDiff = -c.YearDiff
	}
	return c
}

// ====== Recomendaciones por géneros ======

// ByGenres películas de cualquiera de los géneros. Con una métrica se ordena
// por similitud media entre candidatos; con una estrategia, por géneros compartidos.
func (s *RecommendService) ByGenres(ctx context.Context, genres []string, method string, limit int) (*models.RecommendationList, error) {
	if method == "" {
		method = models.StrategyHybrid
	}
	engineMethod := ""
	if !slices.Contains(movieStrategies, method) {
		if _, err := similarity.ParseMethod(method); err != nil {
			return nil, invalidStrategy(method)
		}
		engineMethod = method
	}

	var clean []string
	for _, g := range genres {
		if g = strings.TrimSpace(g); g != "" {
			clean = append(clean, g)
		}
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("%w: debe especificar al menos un género", engine.ErrInvalidArgument)
	}

	items, err := s.engine.GenreRecommendations(clean, engineMethod, s.clamp(limit))
	if err != nil {
		return nil, err
	}
	return &models.RecommendationList{
		Genres:          clean,
		Method:          method,
		Explanation:     explain(method),
		Recommendations: items,
		Count:           len(items),
	}, nil
}

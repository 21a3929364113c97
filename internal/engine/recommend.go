package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"movierec/internal/cache"
	"movierec/internal/models"
	"movierec/internal/similarity"
)

var (
	simHits   = simCacheLookups.WithLabelValues("hit")
	simMisses = simCacheLookups.WithLabelValues("miss")
)

func observe(op string, start time.Time) {
	operationSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func checkMethod(m similarity.Method) error {
	if _, err := similarity.ParseMethod(string(m)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return nil
}

func byScore(items []models.Recommendation) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].MovieID < items[j].MovieID
	})
}

func head(items []models.Recommendation, limit int) []models.Recommendation {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// ===================== cache externa =====================

// cachedList lee una lista de la cache externa. Una lista guardada sirve si
// alcanza para limit o si ya estaba completa (menos de MaxResults ítems).
// Los errores de cache se loguean y cuentan como miss.
func (e *Engine) cachedList(ctx context.Context, kind, key string, limit int) ([]models.Recommendation, bool) {
	if e.cache == nil {
		return nil, false
	}
	var items []models.Recommendation
	ok, err := e.cache.GetJSON(ctx, key, &items)
	if err != nil {
		e.log.Warn().Err(err).Str("kind", kind).Msg("cache externa no disponible")
		resultCacheLookups.WithLabelValues(kind, "error").Inc()
		return nil, false
	}
	if !ok || len(items) == 0 || (len(items) < limit && len(items) >= e.opts.MaxResults) {
		resultCacheLookups.WithLabelValues(kind, "miss").Inc()
		return nil, false
	}
	resultCacheLookups.WithLabelValues(kind, "hit").Inc()
	return head(items, limit), true
}

func (e *Engine) storeList(ctx context.Context, kind, key string, items []models.Recommendation, ttl time.Duration) {
	if e.cache == nil || len(items) == 0 {
		return
	}
	if err := e.cache.SetJSON(ctx, key, items, ttl); err != nil {
		e.log.Warn().Err(err).Str("kind", kind).Msg("no se pudo guardar en cache externa")
	}
}

// ===================== similitud =====================

// MovieSimilarity similitud entre dos columnas de la matriz. Si alguna de
// las películas no está en la matriz devuelve 0.
func (e *Engine) MovieSimilarity(a, b int, m similarity.Method) (float64, error) {
	s, err := e.current()
	if err != nil {
		return 0, err
	}
	if err := checkMethod(m); err != nil {
		return 0, err
	}
	return s.movieSimilarity(a, nil, b, m), nil
}

// UserSimilarity lo mismo sobre filas (usuarios); no se cachea.
func (e *Engine) UserSimilarity(a, b int, m similarity.Method) (float64, error) {
	s, err := e.current()
	if err != nil {
		return 0, err
	}
	if err := checkMethod(m); err != nil {
		return 0, err
	}
	if !s.matrix.HasUser(a) || !s.matrix.HasUser(b) {
		return 0, nil
	}
	v, err := similarity.Compute(s.matrix.Row(a), s.matrix.Row(b), m)
	if err != nil {
		return 0, nil
	}
	return v, nil
}

// movieSimilarity usa colA si ya se copió la columna de a.
func (s *snapshot) movieSimilarity(a int, colA []float64, b int, m similarity.Method) float64 {
	if !s.matrix.HasMovie(a) || !s.matrix.HasMovie(b) {
		return 0
	}
	if v, ok := s.sims.Get(a, b, m); ok {
		simHits.Inc()
		return v
	}
	simMisses.Inc()

	if colA == nil {
		colA = s.matrix.Column(a)
	}
	v, err := similarity.Compute(colA, s.matrix.Column(b), m)
	if err != nil {
		return 0
	}
	s.sims.Set(a, b, m, v)
	return v
}

// ===================== por película =====================

// RecommendationsForMovie películas más parecidas a movieID según la métrica.
// Solo similitudes estrictamente positivas; nunca incluye movieID.
func (e *Engine) RecommendationsForMovie(ctx context.Context, movieID int, m similarity.Method, limit int) ([]models.Recommendation, error) {
	defer observe("movie", time.Now())

	s, err := e.current()
	if err != nil {
		return nil, err
	}
	if err := checkMethod(m); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.Recommendation{}, nil
	}

	key := cache.Key("rec", movieID, m)
	if items, ok := e.cachedList(ctx, "movie", key, limit); ok {
		return items, nil
	}

	n := max(limit, e.opts.MaxResults)
	out := []models.Recommendation{}
	if s.matrix.HasMovie(movieID) {
		colA := s.matrix.Column(movieID)
		for _, mv := range s.movies {
			if mv.MovieID == movieID {
				continue
			}
			sim := s.movieSimilarity(movieID, colA, mv.MovieID, m)
			if sim <= 0 {
				continue
			}
			r := s.recommendation(mv, sim, models.StrategySimilarity)
			r.Similarity = sim
			out = append(out, r)
		}
	}
	byScore(out)
	out = head(out, n)

	e.storeList(ctx, "movie", key, out, cache.TTLRecommendations)
	return head(out, limit), nil
}

// ===================== por usuario =====================

type neighbour struct {
	row int
	id  int
	sim float64
}

// RecommendationsForUser filtrado colaborativo usuario-usuario. Si el usuario
// no está en la matriz o no sale ningún candidato, devuelve PopularMovies.
func (e *Engine) RecommendationsForUser(ctx context.Context, userID int, m similarity.Method, limit int) ([]models.Recommendation, error) {
	defer observe("user", time.Now())

	s, err := e.current()
	if err != nil {
		return nil, err
	}
	if err := checkMethod(m); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.Recommendation{}, nil
	}
	if !s.matrix.HasUser(userID) {
		return e.PopularMovies(ctx, limit)
	}

	target := s.matrix.Row(userID)
	users := s.matrix.Users()
	neighbours := make([]neighbour, 0, len(users))
	for i, u := range users {
		if u == userID {
			continue
		}
		sim, err := similarity.Compute(target, s.matrix.rowView(i), m)
		if err != nil || sim < 0 {
			continue
		}
		neighbours = append(neighbours, neighbour{row: i, id: u, sim: sim})
	}
	sort.Slice(neighbours, func(i, j int) bool {
		if neighbours[i].sim != neighbours[j].sim {
			return neighbours[i].sim > neighbours[j].sim
		}
		return neighbours[i].id < neighbours[j].id
	})
	if len(neighbours) > NeighbourCount {
		neighbours = neighbours[:NeighbourCount]
	}

	movies := s.matrix.Movies()
	seen := make(map[int]bool)
	var out []models.Recommendation
	for _, nb := range neighbours {
		row := s.matrix.rowView(nb.row)
		for j, movieID := range movies {
			rating := row[j]
			if rating < NeighbourMinRating || target[j] != 0 || seen[movieID] {
				continue
			}
			mv, ok := s.movie(movieID)
			if !ok {
				continue
			}
			seen[movieID] = true
			r := s.recommendation(mv, rating, models.StrategyUserBased)
			r.Rating = rating
			r.UserSimilarity = nb.sim
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return e.PopularMovies(ctx, limit)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].UserSimilarity > out[j].UserSimilarity
	})
	return head(out, limit), nil
}

// ===================== populares =====================

// PopularMovies películas con al menos 10 ratings y promedio >= 3.5,
// ordenadas por promedio.
func (e *Engine) PopularMovies(ctx context.Context, limit int) ([]models.Recommendation, error) {
	defer observe("popular", time.Now())

	s, err := e.current()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.Recommendation{}, nil
	}

	key := cache.Key("popular")
	if items, ok := e.cachedList(ctx, "popular", key, limit); ok {
		return items, nil
	}

	n := min(max(limit, e.opts.MaxResults), len(s.popular))
	out := make([]models.Recommendation, 0, n)
	for _, id := range s.popular {
		if len(out) == n {
			break
		}
		mv, ok := s.movie(id)
		if !ok {
			continue
		}
		out = append(out, s.recommendation(mv, s.stats[id].mean(), models.StrategyPopular))
	}

	e.storeList(ctx, "popular", key, out, e.opts.PopularTTL)
	return head(out, limit), nil
}

// ===================== contenido / colaborativo / híbrido =====================

// ContentRecommendations parecido por géneros: |compartidos| / max(|g1|, |g2|),
// sobre películas que comparten alguno de los dos primeros géneros.
func (e *Engine) ContentRecommendations(movieID, limit int) ([]models.Recommendation, error) {
	s, err := e.current()
	if err != nil {
		return nil, err
	}
	return s.content(movieID, limit), nil
}

func (s *snapshot) content(movieID, limit int) []models.Recommendation {
	out := []models.Recommendation{}
	target, ok := s.movie(movieID)
	if !ok || limit <= 0 {
		return out
	}
	tg := target.GenreList()
	if len(tg) == 0 {
		return out
	}
	primary := tg[:min(2, len(tg))]
	own := make(map[string]bool, len(tg))
	for _, g := range tg {
		own[g] = true
	}

	for _, mv := range s.movies {
		if mv.MovieID == movieID {
			continue
		}
		g := mv.GenreList()
		if !sharesAny(g, primary) {
			continue
		}
		shared := 0
		for _, x := range g {
			if own[x] {
				shared++
			}
		}
		score := float64(shared) / float64(max(len(tg), len(g)))
		if score <= 0 {
			continue
		}
		r := s.recommendation(mv, score, models.StrategyContent)
		r.Similarity = score
		out = append(out, r)
	}
	byScore(out)
	return head(out, limit)
}

func sharesAny(genres, want []string) bool {
	for _, g := range genres {
		for _, w := range want {
			if g == w {
				return true
			}
		}
	}
	return false
}

// CollaborativeRecommendations "a quienes les gustó X también les gustó":
// usuarios que le dieron >= 4 a movieID y sus otros ratings >= 4, con al
// menos 2 usuarios por película, ordenado por promedio.
func (e *Engine) CollaborativeRecommendations(movieID, limit int) ([]models.Recommendation, error) {
	s, err := e.current()
	if err != nil {
		return nil, err
	}
	return s.collaborative(movieID, limit), nil
}

func (s *snapshot) collaborative(movieID, limit int) []models.Recommendation {
	out := []models.Recommendation{}
	if limit <= 0 {
		return out
	}

	fans := make(map[int]bool)
	for _, r := range s.byMovie[movieID] {
		if r.Rating >= CollaborativeMinScore {
			fans[r.UserID] = true
		}
	}
	if len(fans) == 0 {
		return out
	}

	agg := make(map[int]movieStat)
	for u := range fans {
		for _, r := range s.byUser[u] {
			if r.MovieID == movieID || r.Rating < CollaborativeMinScore {
				continue
			}
			st := agg[r.MovieID]
			st.sum += r.Rating
			st.count++
			agg[r.MovieID] = st
		}
	}

	for id, st := range agg {
		if st.count < CollaborativeMinUsers {
			continue
		}
		mv, ok := s.movie(id)
		if !ok {
			continue
		}
		r := s.recommendation(mv, st.mean(), models.StrategyCollaborative)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		ci, cj := agg[out[i].MovieID].count, agg[out[j].MovieID].count
		if ci != cj {
			return ci > cj
		}
		return out[i].MovieID < out[j].MovieID
	})
	return head(out, limit)
}

// HybridRecommendations mezcla contenido, colaborativo y populares por posición.
func (e *Engine) HybridRecommendations(ctx context.Context, movieID, limit int) ([]models.Recommendation, error) {
	defer observe("hybrid", time.Now())

	s, err := e.current()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.Recommendation{}, nil
	}

	popular, err := e.PopularMovies(ctx, limit)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Recommendation, 0, len(popular))
	for _, p := range popular {
		if p.MovieID != movieID {
			filtered = append(filtered, p)
		}
	}

	return Blend(limit,
		WeightedList{Weight: WeightContent, Items: s.content(movieID, limit)},
		WeightedList{Weight: WeightCollaborative, Items: s.collaborative(movieID, limit)},
		WeightedList{Weight: WeightPopular, Items: filtered},
	), nil
}

// ===================== por géneros =====================

// GenreRecommendations películas de cualquiera de los géneros pedidos. Con
// una métrica de similitud el score es la similitud media contra los demás
// candidatos; con "" o "genre" es |compartidos| / max(|géneros|, |pedidos|).
func (e *Engine) GenreRecommendations(genres []string, method string, limit int) ([]models.Recommendation, error) {
	defer observe("genre", time.Now())

	s, err := e.current()
	if err != nil {
		return nil, err
	}

	var metric similarity.Method
	useMetric := method != "" && method != models.StrategyGenre
	if useMetric {
		metric, err = similarity.ParseMethod(method)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	want := make(map[string]bool, len(genres))
	for _, g := range genres {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			want[g] = true
		}
	}
	if len(want) == 0 {
		return nil, fmt.Errorf("%w: no se indicaron géneros", ErrInvalidArgument)
	}
	if limit <= 0 {
		return []models.Recommendation{}, nil
	}

	type candidate struct {
		movie   models.Movie
		matched int
		genres  int
	}
	maxCands := len(s.movies)
	if limit <= maxCands/5 {
		maxCands = limit * 5
	}
	var cands []candidate
	for _, mv := range s.movies {
		if len(cands) >= maxCands {
			break
		}
		gl := mv.GenreList()
		matched := 0
		for _, g := range gl {
			if want[strings.ToLower(g)] {
				matched++
			}
		}
		if matched > 0 {
			cands = append(cands, candidate{movie: mv, matched: matched, genres: len(gl)})
		}
	}

	strategy := models.StrategyGenre
	if useMetric {
		strategy = string(metric)
	}
	out := make([]models.Recommendation, 0, len(cands))
	for i, c := range cands {
		var score float64
		if useMetric {
			if len(cands) > 1 {
				sum := 0.0
				for j, other := range cands {
					if i != j {
						sum += s.movieSimilarity(c.movie.MovieID, nil, other.movie.MovieID, metric)
					}
				}
				score = sum / float64(len(cands)-1)
			}
		} else {
			score = float64(c.matched) / float64(max(c.genres, len(want)))
		}
		r := s.recommendation(c.movie, score, strategy)
		if useMetric {
			r.Similarity = score
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].AvgRating != out[j].AvgRating {
			return out[i].AvgRating > out[j].AvgRating
		}
		return out[i].MovieID < out[j].MovieID
	})
	return head(out, limit), nil
}

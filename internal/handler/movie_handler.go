package handler

import (
	"net/http"
	"strings"

	"movierec/internal/models"
	"movierec/internal/service"

	"github.com/go-chi/chi/v5"
)

type MovieHandler struct {
	svc *service.MovieService
	rec *service.RecommendService
}

func NewMovieHandler(s *service.MovieService, rec *service.RecommendService) *MovieHandler {
	return &MovieHandler{svc: s, rec: rec}
}

// @Summary Listar películas
// @Tags movies
// @Produce json
// @Param page query int false "página (desde 1)"
// @Param limit query int false "tamaño de página (default 20)"
// @Param genre query string false "género"
// @Param search query string false "texto en el título"
// @Param year query int false "año"
// @Success 200 {object} models.MoviePage
// @Router /api/movies [get]
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok1 := queryInt(r, "page", 1)
	limit, ok2 := queryInt(r, "limit", 20)
	year, ok3 := queryInt(r, "year", 0)
	if !ok1 || !ok2 || !ok3 {
		writeMessage(w, http.StatusBadRequest, "page, limit y year deben ser números")
		return
	}
	q := r.URL.Query()
	res, err := h.svc.List(r.Context(), page, limit, models.MovieFilter{
		Genre:  q.Get("genre"),
		Search: q.Get("search"),
		Year:   year,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary Detalle de película
// @Description Incluye stats de ratings, cantidad de usuarios y 5 similares por género
// @Tags movies
// @Produce json
// @Param id path int true "movieId"
// @Success 200 {object} models.MovieDetail
// @Failure 404 {object} errorResponse
// @Router /api/movies/{id} [get]
func (h *MovieHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "ID de película debe ser un número")
		return
	}
	d, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type searchResponse struct {
	Movies []models.Recommendation `json:"movies"`
	Count  int                     `json:"count"`
	Query  string                  `json:"query"`
}

// @Summary Buscar películas
// @Description Sin filtros devuelve las populares
// @Tags movies
// @Produce json
// @Param q query string false "texto"
// @Param genre query string false "género"
// @Param year query int false "año"
// @Param limit query int false "máximo (default 20)"
// @Success 200 {object} searchResponse
// @Router /api/search [get]
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, ok1 := queryInt(r, "limit", 20)
	year, ok2 := queryInt(r, "year", 0)
	if !ok1 || !ok2 {
		writeMessage(w, http.StatusBadRequest, "limit y year deben ser números")
		return
	}
	q := r.URL.Query()
	req := service.SearchRequest{
		Query: strings.TrimSpace(q.Get("q")),
		Genre: q.Get("genre"),
		Year:  year,
		Limit: limit,
	}
	movies, err := h.svc.Search(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Movies: movies, Count: len(movies), Query: req.Query})
}

// @Summary Géneros con cantidad de películas
// @Tags movies
// @Produce json
// @Success 200 {array} models.GenreCount
// @Router /api/genres [get]
func (h *MovieHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.svc.Genres(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"genres": genres, "count": len(genres)})
}

// @Summary Películas de un género
// @Description Ordenadas por rating promedio
// @Tags movies
// @Produce json
// @Param genre path string true "género"
// @Param limit query int false "máximo (default 20)"
// @Success 200 {object} map[string]any
// @Router /api/genres/{genre} [get]
func (h *MovieHandler) ByGenre(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 20)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "limit debe ser un número")
		return
	}
	genre := chi.URLParam(r, "genre")
	movies, err := h.svc.ByGenre(r.Context(), genre, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"genre":  genre,
		"movies": movies,
		"count":  len(movies),
	})
}

// @Summary Recomendaciones por varios géneros
// @Tags recommend
// @Produce json
// @Param genres query string true "géneros separados por coma"
// @Param method query string false "content|collaborative|popular|hybrid|cosine|euclidean|manhattan|pearson"
// @Param limit query int false "máximo (default 20)"
// @Success 200 {object} models.RecommendationList
// @Failure 400 {object} errorResponse
// @Router /api/genre-recommendations [get]
func (h *MovieHandler) GenreRecommendations(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 20)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "limit debe ser un número")
		return
	}
	q := r.URL.Query()
	list, err := h.rec.ByGenres(r.Context(), strings.Split(q.Get("genres"), ","), q.Get("method"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

package handler

import (
	"net/http"

	"movierec/internal/service"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(s *service.RatingService) *RatingHandler { return &RatingHandler{svc: s} }

type ratingRequest struct {
	MovieID int     `json:"movieId" validate:"required,gt=0"`
	Rating  float64 `json:"rating" validate:"required"`
}

// @Summary Crear/actualizar mi rating
// @Description La matriz del motor se actualiza en la próxima recarga
// @Tags me
// @Accept json
// @Security BearerAuth
// @Param body body ratingRequest true "rating (0.5 a 5, pasos de 0.5)"
// @Success 204
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/me/ratings [post]
func (h *RatingHandler) PostMyRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := UserIDFromContext(r.Context())
	if err := h.svc.AddOrUpdate(r.Context(), userID, req.MovieID, req.Rating); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Mis ratings
// @Tags me
// @Produce json
// @Security BearerAuth
// @Param limit query int false "cantidad (default 50)"
// @Param offset query int false "desde"
// @Success 200 {array} models.Rating
// @Router /api/me/ratings [get]
func (h *RatingHandler) GetMyRatings(w http.ResponseWriter, r *http.Request) {
	limit, ok1 := queryInt(r, "limit", 50)
	offset, ok2 := queryInt(r, "offset", 0)
	if !ok1 || !ok2 {
		writeMessage(w, http.StatusBadRequest, "limit y offset deben ser números")
		return
	}
	list, err := h.svc.GetByUser(r.Context(), UserIDFromContext(r.Context()), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

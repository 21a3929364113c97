package handler

import (
	"net/http"

	"movierec/internal/models"
	"movierec/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

type userResponse struct {
	UserID          int      `json:"userId"`
	Username        string   `json:"username,omitempty"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	PreferredGenres []string `json:"preferredGenres,omitempty"`
	CreatedAt       string   `json:"createdAt"`
}

func toUserResponse(u *models.UserDoc) userResponse {
	return userResponse{
		UserID:          u.UserID,
		Username:        u.Username,
		Email:           u.Email,
		Role:            u.Role,
		PreferredGenres: u.PreferredGenres,
		CreatedAt:       u.CreatedAt,
	}
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: s}
}

type registerRequest struct {
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=8"`
	Username        string   `json:"username" validate:"omitempty,max=50"`
	PreferredGenres []string `json:"preferredGenres"`
}

// @Summary Register
// @Description Crea un usuario nuevo (role admin solo para ADMIN_EMAILS)
// @Tags auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "datos"
// @Success 201 {object} userResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.svc.Register(r.Context(), service.RegisterUserData{
		Email:           req.Email,
		Password:        req.Password,
		Username:        req.Username,
		PreferredGenres: req.PreferredGenres,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "credenciales"
// @Success 200 {object} loginResponse
// @Failure 401 {object} errorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: toUserResponse(u)})
}

// @Summary Usuario autenticado
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} userResponse
// @Router /api/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetUserByID(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if u == nil {
		writeMessage(w, http.StatusNotFound, "usuario no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

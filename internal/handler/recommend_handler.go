package handler

import (
	"context"
	"net/http"
	"time"

	"movierec/internal/engine"
	"movierec/internal/models"
	"movierec/internal/service"
	"movierec/internal/similarity"

	"github.com/gorilla/websocket"
)

// tiempo máximo que el WebSocket espera a que el motor termine de cargar
const wsReadyTimeout = 2 * time.Minute

type RecommendHandler struct {
	svc    *service.RecommendService
	engine *engine.Engine
}

func NewRecommendHandler(s *service.RecommendService, e *engine.Engine) *RecommendHandler {
	return &RecommendHandler{svc: s, engine: e}
}

type methodsResponse struct {
	Methods         []string                     `json:"methods"`
	Details         map[string]models.MethodInfo `json:"details"`
	Strategies      []string                     `json:"strategies"`
	Recommendations map[string]string            `json:"recommendations"`
}

// @Summary Métricas de similitud disponibles
// @Tags recommend
// @Produce json
// @Success 200 {object} methodsResponse
// @Router /api/methods [get]
func (h *RecommendHandler) Methods(w http.ResponseWriter, r *http.Request) {
	details := make(map[string]models.MethodInfo)
	for _, m := range similarity.Methods() {
		details[string(m)] = similarity.Info(m)
	}
	writeJSON(w, http.StatusOK, methodsResponse{
		Methods:    h.engine.AvailableMethods(),
		Details:    details,
		Strategies: service.Strategies(),
		Recommendations: map[string]string{
			"for_movies":     string(similarity.Cosine),
			"for_users":      string(similarity.Pearson),
			"for_comparison": string(similarity.Euclidean),
			"for_robust":     string(similarity.Manhattan),
		},
	})
}

// @Summary Recomendaciones para una película
// @Tags recommend
// @Produce json
// @Param id path int true "movieId"
// @Param method query string false "content|collaborative|popular|hybrid o una métrica (default hybrid)"
// @Param limit query int false "cantidad (default 10, máx 50)"
// @Success 200 {object} models.RecommendationList
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /api/recommendations/{id} [get]
func (h *RecommendHandler) ForMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "ID de película debe ser un número")
		return
	}
	limit, ok := queryInt(r, "limit", service.DefaultLimit)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "limit debe ser un número")
		return
	}
	list, err := h.svc.ForMovie(r.Context(), service.MovieRecRequest{
		MovieID: id,
		Method:  r.URL.Query().Get("method"),
		Limit:   limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// @Summary Recomendaciones basadas en usuarios similares
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param method query string false "cosine|euclidean|manhattan|pearson (default cosine)"
// @Param limit query int false "cantidad (default 10, máx 50)"
// @Success 200 {object} models.RecommendationList
// @Failure 503 {object} errorResponse
// @Router /api/user-recommendations/{id} [get]
func (h *RecommendHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "ID de usuario debe ser un número")
		return
	}
	h.forUser(w, r, id, false)
}

// @Summary Mis recomendaciones
// @Description Se guardan en el historial del usuario
// @Tags me
// @Produce json
// @Security BearerAuth
// @Param method query string false "métrica (default cosine)"
// @Param limit query int false "cantidad (default 10, máx 50)"
// @Success 200 {object} models.RecommendationList
// @Router /api/me/recommendations [get]
func (h *RecommendHandler) Mine(w http.ResponseWriter, r *http.Request) {
	h.forUser(w, r, UserIDFromContext(r.Context()), true)
}

func (h *RecommendHandler) forUser(w http.ResponseWriter, r *http.Request, userID int, save bool) {
	limit, ok := queryInt(r, "limit", service.DefaultLimit)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "limit debe ser un número")
		return
	}
	list, err := h.svc.ForUser(r.Context(), service.UserRecRequest{
		UserID: userID,
		Method: r.URL.Query().Get("method"),
		Limit:  limit,
		Save:   save,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// @Summary Historial de mis recomendaciones
// @Tags me
// @Produce json
// @Security BearerAuth
// @Param limit query int false "cantidad (default 10)"
// @Success 200 {array} models.RecommendationRun
// @Router /api/me/history [get]
func (h *RecommendHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", service.DefaultLimit)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "limit debe ser un número")
		return
	}
	runs, err := h.svc.History(r.Context(), UserIDFromContext(r.Context()), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// @Summary Similitud entre dos películas
// @Tags recommend
// @Produce json
// @Param id1 path int true "movieId 1"
// @Param id2 path int true "movieId 2"
// @Param method query string false "métrica (default cosine)"
// @Success 200 {object} models.SimilarityResult
// @Failure 404 {object} errorResponse
// @Router /api/similarity/{id1}/{id2} [get]
func (h *RecommendHandler) Similarity(w http.ResponseWriter, r *http.Request) {
	id1, ok1 := pathInt(r, "id1")
	id2, ok2 := pathInt(r, "id2")
	if !ok1 || !ok2 {
		writeMessage(w, http.StatusBadRequest, "los IDs de película deben ser números")
		return
	}
	if h.engine.State() != engine.StateReady {
		writeError(w, r, engine.ErrNotInitialized)
		return
	}
	res, err := h.svc.Similarity(r.Context(), id1, id2, r.URL.Query().Get("method"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsMessage struct {
	Type        string                     `json:"type"`
	Msg         string                     `json:"msg,omitempty"`
	Error       string                     `json:"error,omitempty"`
	UserID      int                        `json:"userId,omitempty"`
	Items       *models.RecommendationList `json:"items,omitempty"`
	GeneratedAt *time.Time                 `json:"generatedAt,omitempty"`
}

// @Summary Recomendaciones de usuario por WebSocket
// @Description Si el motor está cargando, avisa y espera a que quede listo
// @Tags recommend
// @Param id path int true "userId"
// @Param method query string false "métrica (default cosine)"
// @Param limit query int false "cantidad (default 10, máx 50)"
// @Success 101
// @Router /api/ws/user-recommendations/{id} [get]
func (h *RecommendHandler) ForUserWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "ID de usuario debe ser un número")
		return
	}
	limit, _ := queryInt(r, "limit", service.DefaultLimit)
	method := r.URL.Query().Get("method")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade ya respondió con el error
		return
	}
	defer conn.Close()

	_ = conn.WriteJSON(wsMessage{Type: "start", Msg: "Conexión WS abierta, iniciando cálculo…"})

	if h.engine.State() != engine.StateReady {
		_ = conn.WriteJSON(wsMessage{Type: "waiting", Msg: "El motor se está inicializando…"})
		ctx, cancel := context.WithTimeout(r.Context(), wsReadyTimeout)
		err := h.engine.WaitReady(ctx)
		cancel()
		if err != nil {
			_ = conn.WriteJSON(wsMessage{Type: "error", Error: "Sistema no inicializado"})
			return
		}
	}

	list, err := h.svc.ForUser(r.Context(), service.UserRecRequest{UserID: userID, Method: method, Limit: limit})
	if err != nil {
		_ = conn.WriteJSON(wsMessage{Type: "error", Error: err.Error()})
		return
	}

	now := time.Now()
	_ = conn.WriteJSON(wsMessage{
		Type:        "recommendations",
		UserID:      userID,
		Items:       list,
		GeneratedAt: &now,
	})
}

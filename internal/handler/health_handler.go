package handler

import (
	"net/http"
	"strconv"

	"movierec/internal/service"
)

type SystemHandler struct {
	svc *service.SystemService
}

func NewSystemHandler(s *service.SystemService) *SystemHandler {
	return &SystemHandler{svc: s}
}

// @Summary Healthcheck
// @Description status healthy, initializing o degraded (si la carga falló)
// @Tags health
// @Produce json
// @Success 200 {object} service.Health
// @Router /api/health [get]
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Health(r.Context()))
}

// @Summary Estadísticas del sistema
// @Tags health
// @Produce json
// @Success 200 {object} models.SystemStats
// @Router /api/stats [get]
func (h *SystemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// @Summary Inicializar (o recargar) el motor
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param force query bool false "recarga aunque ya esté listo"
// @Success 200 {object} map[string]string
// @Router /api/admin/init [post]
func (h *SystemHandler) Init(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	status, err := h.svc.Init(r.Context(), force)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error inicializando sistema: "+err.Error())
		return
	}
	msg := "Sistema inicializado correctamente"
	if status == "already_initialized" {
		msg = "Sistema ya inicializado"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status, "message": msg})
}

// @Summary Limpiar la cache de Redis
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /api/admin/cache/clear [post]
func (h *SystemHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ClearCache(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Cache limpiado correctamente",
		"deleted": n,
	})
}

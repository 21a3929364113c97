package handler

import (
	"errors"
	"net/http"
	"strconv"

	"movierec/internal/engine"
	"movierec/internal/logging"
	"movierec/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate = validator.New()

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		lg := logging.Component("http")
		lg.Warn().Err(err).Msg("no se pudo escribir la respuesta")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor traduce los errores de servicio/motor a códigos HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNotInitialized):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		lg := logging.Component("http")
		lg.Error().Err(err).Str("path", r.URL.Path).Msg("error interno")
		msg = "Error interno del servidor"
	}
	if status == http.StatusServiceUnavailable {
		msg = "Sistema no inicializado"
	}
	writeMessage(w, status, msg)
}

// decodeBody lee JSON y valida los tags `validate`.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// pathInt parámetro numérico de la ruta.
func pathInt(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	return n, err == nil
}

// queryInt devuelve def si falta; ok=false si no es un número.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"movierec/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movierec_http_requests_total",
		Help: "Requests HTTP por ruta, método y código.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "movierec_http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// routePattern usa el patrón de chi ("/api/movies/{id}") para no explotar
// la cardinalidad de las métricas.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// AccessLog una línea de log por request, con el request id de chi,
// y las métricas HTTP.
func AccessLog(next http.Handler) http.Handler {
	lg := logging.Component("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		took := time.Since(start)
		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(route, r.Method).Observe(took.Seconds())

		ev := lg.Info()
		if status >= 500 {
			ev = lg.Error()
		}
		ev.Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("took", took).
			Msg("request")
	})
}

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	engineState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "movierec_engine_state",
		Help: "Estado del motor: 0 uninitialized, 1 loading, 2 ready, 3 failed",
	})

	engineLoadSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "movierec_engine_load_seconds",
		Help: "Duración de la última carga de la matriz",
	})

	engineLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movierec_engine_load_errors_total",
		Help: "Cargas de la matriz que fallaron",
	})

	simCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movierec_similarity_cache_lookups_total",
		Help: "Consultas a la cache de similitudes en proceso",
	}, []string{"result"})

	resultCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movierec_result_cache_lookups_total",
		Help: "Consultas a la cache externa de resultados",
	}, []string{"kind", "result"})

	operationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "movierec_engine_operation_seconds",
		Help:    "Tiempo de cálculo por operación del motor",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"operation"})
)

package service

import (
	"context"
	"time"

	"movierec/internal/engine"
	"movierec/internal/logging"
	"movierec/internal/models"

	"github.com/rs/zerolog"
)

// DBStatsFunc devuelve el resumen de la base (db.Stats en producción).
type DBStatsFunc func(ctx context.Context) (models.DatabaseStats, error)

// SystemService salud, estadísticas, inicialización y limpieza de cache.
type SystemService struct {
	engine  *engine.Engine
	dbStats DBStatsFunc
	cache   CacheAdmin
	started time.Time
	log     zerolog.Logger
}

// dbStats y cache pueden ser nil.
func NewSystemService(e *engine.Engine, dbStats DBStatsFunc, cache CacheAdmin) *SystemService {
	return &SystemService{
		engine:  e,
		dbStats: dbStats,
		cache:   cache,
		started: time.Now(),
		log:     logging.Component("system"),
	}
}

func (s *SystemService) Uptime() time.Duration { return time.Since(s.started) }

type Health struct {
	Status      string            `json:"status"`
	Initialized bool              `json:"initialized"`
	Engine      string            `json:"engine"`
	Uptime      float64           `json:"uptime"`
	Cache       map[string]string `json:"cache"`
	Timestamp   time.Time         `json:"timestamp"`
}

func (s *SystemService) Health(ctx context.Context) Health {
	state := s.engine.State()
	h := Health{
		Status:      "initializing",
		Initialized: state == engine.StateReady,
		Engine:      state.String(),
		Uptime:      s.Uptime().Seconds(),
		Cache:       s.cacheStats(ctx),
		Timestamp:   time.Now().UTC(),
	}
	switch state {
	case engine.StateReady:
		h.Status = "healthy"
	case engine.StateFailed:
		h.Status = "degraded"
	}
	return h
}

func (s *SystemService) cacheStats(ctx context.Context) map[string]string {
	if s.cache == nil {
		return map[string]string{"status": "disabled"}
	}
	st, err := s.cache.Stats(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("sin stats de cache")
		if st == nil {
			st = map[string]string{}
		}
		st["status"] = "unavailable"
		return st
	}
	st["status"] = "connected"
	return st
}

func (s *SystemService) Stats(ctx context.Context) (*models.SystemStats, error) {
	out := &models.SystemStats{
		Cache:  s.cacheStats(ctx),
		Engine: s.engine.Info(),
		Uptime: s.Uptime().Seconds(),
	}
	if s.dbStats != nil {
		st, err := s.dbStats(ctx)
		if err != nil {
			return nil, err
		}
		out.Database = st
	}
	return out, nil
}

// Init carga el motor si no está listo; con force recarga aunque lo esté.
// Devuelve "already_initialized", "initialized" o "reloaded".
func (s *SystemService) Init(ctx context.Context, force bool) (string, error) {
	if s.engine.State() == engine.StateReady {
		if !force {
			return "already_initialized", nil
		}
		if err := s.engine.Reload(ctx); err != nil {
			return "", err
		}
		return "reloaded", nil
	}
	if err := s.engine.Initialize(ctx); err != nil {
		return "", err
	}
	return "initialized", nil
}

// ClearCache borra todas las claves de la cache externa.
func (s *SystemService) ClearCache(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.ClearPattern(ctx, "*")
}

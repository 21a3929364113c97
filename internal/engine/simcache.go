package engine

import (
	"fmt"
	"sync"

	"movierec/internal/similarity"

	"github.com/dgraph-io/ristretto/v2"
)

// SimCache memoiza similitudes película-película dentro del proceso.
// Es acotada (ristretto, costo 1 por entrada) y segura para uso concurrente.
// Los valores son funciones puras de la matriz, así que si dos requests
// calculan el mismo par a la vez gana la última escritura sin problema.
//
// Después de Close, Get es siempre miss y Set no hace nada: un request que
// todavía tiene el snapshot anterior puede seguir usándola durante un reload.
type SimCache struct {
	c *ristretto.Cache[string, float64]

	mu     sync.RWMutex
	closed bool
}

func NewSimCache(capacity int) (*SimCache, error) {
	if capacity <= 0 {
		capacity = 1_000_000
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, float64]{
		NumCounters: int64(capacity) * 10,
		MaxCost:     int64(capacity),
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("simcache: %w", err)
	}
	return &SimCache{c: c}, nil
}

// la similitud es simétrica, así que el par se normaliza (menor, mayor)
func simKey(a, b int, m similarity.Method) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d_%s", a, b, m)
}

func (s *SimCache) Get(a, b int, m similarity.Method) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, false
	}
	return s.c.Get(simKey(a, b, m))
}

func (s *SimCache) Set(a, b int, m similarity.Method, v float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	s.c.Set(simKey(a, b, m), v, 1)
}

// Clear vacía la cache. ristretto no admite Clear concurrente con Set.
func (s *SimCache) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.c.Clear()
	}
}

// Wait espera a que se apliquen los Set pendientes.
func (s *SimCache) Wait() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.closed {
		s.c.Wait()
	}
}

// Close libera los goroutines de ristretto. Es idempotente.
func (s *SimCache) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.c.Close()
}

// Ratio de aciertos desde el arranque.
func (s *SimCache) Ratio() float64 {
	if s.c.Metrics == nil {
		return 0
	}
	return s.c.Metrics.Ratio()
}

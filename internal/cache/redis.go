package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"movierec/internal/logging"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// TTL por tipo de resultado
const (
	TTLRecommendations = 30 * time.Minute
	TTLPopular         = time.Hour
	TTLSearch          = 15 * time.Minute
	TTLGenre           = 30 * time.Minute
)

type Options struct {
	Addr     string
	Password string
	DB       int

	DialTimeout time.Duration
	MaxRetries  int

	// fallos consecutivos antes de abrir el circuito
	FailureThreshold uint32
	// cuánto queda abierto el circuito antes de probar de nuevo
	OpenTimeout time.Duration
}

// RedisCache es la cache externa (entre procesos) con TTL.
// Todas las llamadas pasan por un circuit breaker: si Redis se cae, las
// llamadas fallan rápido y quien llama recalcula.
type RedisCache struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker[[]byte]
	log    zerolog.Logger
}

func NewRedisCache(opts Options) *RedisCache {
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}

	lg := logging.Component("redis")
	c := &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:        opts.Addr,
			Password:    opts.Password,
			DB:          opts.DB,
			DialTimeout: opts.DialTimeout,
			MaxRetries:  opts.MaxRetries,
		}),
		log: lg,
	}
	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "redis",
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			lg.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker cambió de estado")
		},
	})
	return c
}

// Ping verifica la conexión (no pasa por el breaker).
func (c *RedisCache) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("redis no configurado")
	}
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// BreakerState estado del circuito (closed|half-open|open).
func (c *RedisCache) BreakerState() string {
	if c == nil {
		return "disabled"
	}
	return c.cb.State().String()
}

// Key genera una clave estable: md5 de "prefix:arg1:arg2...".
func Key(prefix string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, prefix)
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	sum := md5.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

// =======================================================
//  Helpers JSON para usar desde los servicios
// =======================================================

// GetJSON lee una key de Redis, si existe deserializa el JSON en `dest`.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}

	val, err := c.cb.Execute(func() ([]byte, error) {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			// no existe la clave, no cuenta como fallo
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, nil
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serializa `value` a JSON y lo guarda en Redis con TTL.
func (c *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	_, err = c.cb.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, key, b, ttl).Err()
	})
	return err
}

// ClearPattern borra las claves que matchean el patrón (SCAN + DEL, nunca KEYS).
func (c *RedisCache) ClearPattern(ctx context.Context, pattern string) (int, error) {
	if c == nil {
		return 0, nil
	}

	deleted := 0
	iter := c.client.Scan(ctx, 0, pattern, 500).Iterator()
	batch := make([]string, 0, 500)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		deleted += int(n)
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return deleted, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}
	if err := flush(); err != nil {
		return deleted, err
	}

	c.log.Info().Str("pattern", pattern).Int("deleted", deleted).Msg("cache limpiada")
	return deleted, nil
}

var statKeys = []string{
	"connected_clients",
	"used_memory_human",
	"keyspace_hits",
	"keyspace_misses",
	"total_commands_processed",
}

// Stats devuelve algunas métricas de INFO.
func (c *RedisCache) Stats(ctx context.Context) (map[string]string, error) {
	out := map[string]string{"breaker": c.BreakerState()}
	if c == nil {
		return out, nil
	}

	info, err := c.client.Info(ctx).Result()
	if err != nil {
		return out, err
	}
	for k, v := range parseInfo(info) {
		for _, want := range statKeys {
			if k == want {
				out[k] = v
			}
		}
	}
	return out, nil
}

func parseInfo(info string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

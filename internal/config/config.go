package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	MongoURI  string `koanf:"mongo_uri" validate:"required,uri"`
	MongoDB   string `koanf:"mongo_db" validate:"required"`
	RedisAddr string `koanf:"redis_addr" validate:"required,hostname_port"`
	RedisPass string `koanf:"redis_password"`
	RedisDB   int    `koanf:"redis_db" validate:"gte=0"`
	JWTSecret string `koanf:"jwt_secret" validate:"required,min=8"`
	HTTPPort  string `koanf:"http_port" validate:"required,numeric"`

	LogLevel  string `koanf:"log_level" validate:"oneof=trace debug info warn error disabled"`
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`

	// tamaño de las muestras que carga el motor (primeras N filas)
	MovieSampleSize  int `koanf:"movie_sample_size" validate:"gt=0"`
	RatingSampleSize int `koanf:"rating_sample_size" validate:"gt=0"`
	SimCacheCapacity int `koanf:"sim_cache_capacity" validate:"gt=0"`

	CacheTTL           time.Duration `koanf:"cache_ttl" validate:"gt=0"`
	RateLimit          int           `koanf:"rate_limit" validate:"gte=0"`
	RateWindow         time.Duration `koanf:"rate_window" validate:"gt=0"`
	CORSOrigins        []string      `koanf:"cors_origins"`
	MaxRecommendations int           `koanf:"max_recommendations" validate:"gt=0"`

	// emails que reciben role admin al registrarse
	AdminEmails []string `koanf:"admin_emails" validate:"dive,email"`

	DataDir   string `koanf:"data_dir"`
	BatchSize int    `koanf:"batch_size" validate:"gt=0"`
}

var validate = validator.New()

func defaultConfig() *Config {
	return &Config{
		MongoURI:  "mongodb://localhost:27017",
		MongoDB:   "movie_recommendations",
		RedisAddr: "localhost:6379",
		JWTSecret: "super-secret",
		HTTPPort:  "8080",

		LogLevel:  "info",
		LogFormat: "json",

		MovieSampleSize:  10000,
		RatingSampleSize: 100000,
		SimCacheCapacity: 1_000_000,

		CacheTTL:           time.Hour,
		RateLimit:          100,
		RateWindow:         time.Minute,
		CORSOrigins:        []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		MaxRecommendations: 50,

		DataDir:   "data",
		BatchSize: 1000,
	}
}

// variables de entorno que se leen; la clave koanf es el nombre en minúsculas
var envKeys = []string{
	"MONGO_URI", "MONGO_DB", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"JWT_SECRET", "HTTP_PORT", "LOG_LEVEL", "LOG_FORMAT",
	"MOVIE_SAMPLE_SIZE", "RATING_SAMPLE_SIZE", "SIM_CACHE_CAPACITY",
	"CACHE_TTL", "RATE_LIMIT", "RATE_WINDOW", "CORS_ORIGINS", "MAX_RECOMMENDATIONS",
	"ADMIN_EMAILS", "DATA_DIR", "BATCH_SIZE",
}

var (
	sliceKeys    = []string{"cors_origins", "admin_emails"}
	durationKeys = []string{"cache_ttl", "rate_window"}
)

// Load arma la config en capas: defaults, .env (godotenv) y entorno.
// Un valor mal escrito (RATE_LIMIT=abc) es un error, no se reemplaza por el default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("cargando defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("cargando entorno: %w", err)
	}
	if err := splitLists(k); err != nil {
		return nil, err
	}
	if err := secondsToDurations(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config inválida: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config inválida: %w", err)
	}
	return cfg, nil
}

// envTransform deja pasar solo las variables conocidas y no vacías.
func envTransform(key string) string {
	for _, known := range envKeys {
		if key == known {
			if os.Getenv(key) == "" {
				return ""
			}
			return strings.ToLower(key)
		}
	}
	return ""
}

// splitLists "a, ,b" -> [a b] para las listas que vienen del entorno.
func splitLists(k *koanf.Koanf) error {
	for _, path := range sliceKeys {
		v, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var out []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// secondsToDurations acepta segundos a secas ("3600") además de "15m",
// como el CACHE_TTL original.
func secondsToDurations(k *koanf.Koanf) error {
	for _, path := range durationKeys {
		v, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		secs, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		if err := k.Set(path, time.Duration(secs)*time.Second); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "movierec/docs" // swagger docs

	"movierec/internal/cache"
	"movierec/internal/config"
	"movierec/internal/db"
	"movierec/internal/engine"
	"movierec/internal/handler"
	"movierec/internal/logging"
	"movierec/internal/models"
	"movierec/internal/repository"
	"movierec/internal/service"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// @title MovieRec API
// @version 1.0
// @description Recomendaciones de películas (contenido, colaborativo, híbrido) sobre MovieLens, Mongo y Redis
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		lg := logging.Component("config")
		lg.Fatal().Err(err).Msg("no se pudo cargar la configuración")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	lg := logging.Component("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mongo y Redis
	client, database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		lg.Fatal().Err(err).Msg("no se pudo conectar a MongoDB")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	if err := db.EnsureIndexes(ctx, database); err != nil {
		lg.Warn().Err(err).Msg("no se pudieron crear los índices")
	}

	redisCache := cache.NewRedisCache(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		// sin Redis se sigue funcionando, solo que sin cache compartida
		lg.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis no disponible")
	}

	// repos
	movieRepo := repository.NewMovieRepository(database)
	ratingRepo := repository.NewRatingRepository(database)
	recRepo := repository.NewRecommendationRepository(database)
	userRepo := repository.NewUserRepository(database)

	// motor
	engineLog := logging.Component("engine")
	eng := engine.New(movieRepo, ratingRepo, redisCache, engine.Options{
		MovieSample:      cfg.MovieSampleSize,
		RatingSample:     cfg.RatingSampleSize,
		SimCacheCapacity: cfg.SimCacheCapacity,
		MaxResults:       cfg.MaxRecommendations,
		PopularTTL:       cfg.CacheTTL,
		Logger:           &engineLog,
	})

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AdminEmails)
	movieSvc := service.NewMovieService(movieRepo, eng, redisCache)
	ratingSvc := service.NewRatingService(ratingRepo, movieRepo)
	recSvc := service.NewRecommendService(eng, movieRepo, recRepo, cfg.MaxRecommendations)
	sysSvc := service.NewSystemService(eng, dbStats(database), redisCache)

	router := handler.NewRouter(handler.RouterConfig{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		RateWindow:  cfg.RateWindow,
	}, handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Movie:     handler.NewMovieHandler(movieSvc, recSvc),
		Rating:    handler.NewRatingHandler(ratingSvc),
		Recommend: handler.NewRecommendHandler(recSvc, eng),
		System:    handler.NewSystemHandler(sysSvc),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// la carga del motor no bloquea el arranque: mientras tanto /api/health
	// responde "initializing" y los endpoints del motor 503
	g.Go(func() error {
		if err := eng.Initialize(gctx); err != nil {
			lg.Error().Err(err).Msg("inicialización fallida, reintentar con POST /api/admin/init")
		}
		return nil
	})

	g.Go(func() error {
		lg.Info().Str("addr", server.Addr).Msg("HTTP escuchando")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		lg.Info().Msg("apagando servidor")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		lg.Error().Err(err).Msg("servidor detenido con error")
		return
	}
	lg.Info().Msg("servidor detenido")
}

func dbStats(d *mongo.Database) service.DBStatsFunc {
	return func(ctx context.Context) (models.DatabaseStats, error) {
		return db.Stats(ctx, d)
	}
}

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movierec/internal/config"
	"movierec/internal/db"
	"movierec/internal/logging"
	"movierec/internal/migrate"
	"movierec/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		lg := logging.Component("config")
		lg.Fatal().Err(err).Msg("no se pudo cargar la configuración")
	}
	dir := flag.String("data", cfg.DataDir, "carpeta con movies.csv, ratings.csv, tags.csv y links.csv")
	batch := flag.Int("batch", cfg.BatchSize, "documentos por InsertMany")
	flag.Parse()

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	lg := logging.Component("migrate")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		lg.Fatal().Err(err).Msg("no se pudo conectar a MongoDB")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	start := time.Now()
	lg.Info().Str("data", *dir).Int("batch", *batch).Msg("iniciando migración")
	if _, err := migrate.New(database, *batch).Run(ctx, *dir); err != nil {
		lg.Error().Err(err).Msg("error durante la migración")
		os.Exit(1)
	}

	ratings, users, err := repository.NewRatingRepository(database).Counts(ctx)
	if err != nil {
		lg.Warn().Err(err).Msg("no se pudieron contar ratings")
	}
	st, err := db.Stats(ctx, database)
	if err != nil {
		lg.Warn().Err(err).Msg("sin dbStats")
	}
	lg.Info().
		Int64("ratings", ratings).
		Int64("users", users).
		Int64("movies", st.Movies).
		Int64("collections", st.Collections).
		Int64("data_size", st.DataSize).
		Int64("storage_size", st.StorageSize).
		Dur("took", time.Since(start)).
		Msg("migración completada")
}

package db

import (
	"context"
	"fmt"
	"time"

	"movierec/internal/logging"
	"movierec/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Nombres de colecciones.
const (
	Movies          = "movies"
	Ratings         = "ratings"
	Users           = "users"
	Recommendations = "recommendations"
	Tags            = "tags"
	Links           = "links"
)

// Connect abre el cliente y hace ping. Quien llama cierra con Disconnect.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo: conectando: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo: ping falló: %w", err)
	}

	lg := logging.Component("mongo")
	lg.Info().Str("db", dbName).Msg("conectado")
	return client, client.Database(dbName), nil
}

// EnsureIndexes crea los índices que usan las consultas del API y la migración.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		Movies: {
			{Keys: bson.D{{Key: "movieId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "title", Value: "text"}}},
			{Keys: bson.D{{Key: "genres", Value: 1}}},
			{Keys: bson.D{{Key: "year", Value: 1}}},
		},
		Ratings: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "movieId", Value: 1}}},
			{Keys: bson.D{{Key: "movieId", Value: 1}, {Key: "rating", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "rating", Value: -1}}},
		},
		Tags: {
			{Keys: bson.D{{Key: "movieId", Value: 1}}},
			{Keys: bson.D{{Key: "tag", Value: 1}}},
		},
		Users: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
		Recommendations: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	lg := logging.Component("mongo")
	for col, idx := range specs {
		names, err := db.Collection(col).Indexes().CreateMany(ctx, idx)
		if err != nil {
			return fmt.Errorf("mongo: índices de %s: %w", col, err)
		}
		lg.Debug().Str("collection", col).Strs("indexes", names).Msg("índices listos")
	}
	return nil
}

// Stats resumen de dbStats más los conteos de las colecciones principales.
func Stats(ctx context.Context, db *mongo.Database) (models.DatabaseStats, error) {
	var out models.DatabaseStats

	var raw bson.M
	if err := db.RunCommand(ctx, bson.D{{Key: "dbStats", Value: 1}}).Decode(&raw); err != nil {
		return out, fmt.Errorf("mongo: dbStats: %w", err)
	}
	out.Collections = asInt64(raw["collections"])
	out.DataSize = asInt64(raw["dataSize"])
	out.StorageSize = asInt64(raw["storageSize"])

	counts := []struct {
		col string
		dst *int64
	}{
		{Movies, &out.Movies},
		{Ratings, &out.Ratings},
		{Users, &out.Users},
	}
	for _, c := range counts {
		n, err := db.Collection(c.col).EstimatedDocumentCount(ctx)
		if err != nil {
			return out, fmt.Errorf("mongo: contando %s: %w", c.col, err)
		}
		*c.dst = n
	}
	return out, nil
}

func asInt64(v any) int64 {
	switch x := v.(type) {
	case int32:
		return int64(x)
	case int64:
		return x
	case float64:
		return int64(x)
	default:
		return 0
	}
}

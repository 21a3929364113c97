// Package migrate carga los CSV de MovieLens (movies, ratings, tags, links)
// en Mongo por lotes.
package migrate

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"movierec/internal/db"
	"movierec/internal/logging"
	"movierec/internal/models"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// "Toy Story (1995)" -> 1995; tolera espacios al final
var yearRe = regexp.MustCompile(`\((\d{4})\)\s*$`)

func parseYear(title string) *int {
	m := yearRe.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &y
}

// rowParser convierte una fila (sin header) en el documento a insertar.
type rowParser func(row []string) (any, error)

func parseMovie(row []string) (any, error) {
	if len(row) < 3 {
		return nil, fmt.Errorf("fila de movies con %d columnas", len(row))
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return nil, fmt.Errorf("movieId %q: %w", row[0], err)
	}
	title := strings.TrimSpace(row[1])
	return models.Movie{
		MovieID: id,
		Title:   title,
		Genres:  row[2],
		Year:    parseYear(title),
	}, nil
}

func parseRating(row []string) (any, error) {
	if len(row) < 4 {
		return nil, fmt.Errorf("fila de ratings con %d columnas", len(row))
	}
	u, err1 := strconv.Atoi(row[0])
	m, err2 := strconv.Atoi(row[1])
	r, err3 := strconv.ParseFloat(row[2], 64)
	ts, err4 := strconv.ParseInt(row[3], 10, 64)
	if err := errors.Join(err1, err2, err3, err4); err != nil {
		return nil, fmt.Errorf("rating %v: %w", row, err)
	}
	return models.Rating{UserID: u, MovieID: m, Rating: r, Timestamp: ts}, nil
}

func parseTag(row []string) (any, error) {
	if len(row) < 4 {
		return nil, fmt.Errorf("fila de tags con %d columnas", len(row))
	}
	u, err1 := strconv.Atoi(row[0])
	m, err2 := strconv.Atoi(row[1])
	ts, err3 := strconv.ParseInt(row[3], 10, 64)
	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, fmt.Errorf("tag %v: %w", row, err)
	}
	return models.Tag{UserID: u, MovieID: m, Tag: row[2], Timestamp: ts}, nil
}

func parseLink(row []string) (any, error) {
	if len(row) < 2 {
		return nil, fmt.Errorf("fila de links con %d columnas", len(row))
	}
	m, err := strconv.Atoi(row[0])
	if err != nil {
		return nil, fmt.Errorf("movieId %q: %w", row[0], err)
	}
	l := models.Link{MovieID: m, ImdbID: row[1]}
	if len(row) > 2 && row[2] != "" {
		if t, err := strconv.Atoi(row[2]); err == nil {
			l.TmdbID = &t
		}
	}
	return l, nil
}

// load lee el CSV (saltando el header) y llama flush cada `batch` filas.
// Las filas que no parsean se cuentan y se saltean.
func load(ctx context.Context, r io.Reader, parse rowParser, batch int, flush func(context.Context, []any) error) (inserted, skipped int, err error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1 // títulos con comas entrecomilladas
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("leyendo header: %w", err)
	}

	buf := make([]any, 0, batch)
	send := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := flush(ctx, buf); err != nil {
			return err
		}
		inserted += len(buf)
		buf = make([]any, 0, batch)
		return nil
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped++
				continue
			}
			return inserted, skipped, err
		}
		doc, err := parse(row)
		if err != nil {
			skipped++
			continue
		}
		buf = append(buf, doc)
		if len(buf) == batch {
			if err := send(); err != nil {
				return inserted, skipped, err
			}
		}
		if ctx.Err() != nil {
			return inserted, skipped, ctx.Err()
		}
	}
	err = send()
	return inserted, skipped, err
}

type source struct {
	file       string
	collection string
	parse      rowParser
	// los links y tags son opcionales en los dumps chicos
	optional bool
}

var sources = []source{
	{"movies.csv", db.Movies, parseMovie, false},
	{"ratings.csv", db.Ratings, parseRating, false},
	{"tags.csv", db.Tags, parseTag, true},
	{"links.csv", db.Links, parseLink, true},
}

type Migrator struct {
	db    *mongo.Database
	batch int
	log   zerolog.Logger
}

func New(d *mongo.Database, batch int) *Migrator {
	if batch <= 0 {
		batch = 1000
	}
	return &Migrator{db: d, batch: batch, log: logging.Component("migrate")}
}

// Result filas insertadas y salteadas por colección.
type Result struct {
	Collection string
	Inserted   int
	Skipped    int
}

// Run crea los índices y migra los CSV de dir. Los duplicados (reejecutar la
// migración) no son error: InsertMany desordenado sigue con el resto.
func (m *Migrator) Run(ctx context.Context, dir string) ([]Result, error) {
	if err := db.EnsureIndexes(ctx, m.db); err != nil {
		return nil, err
	}

	var results []Result
	for _, src := range sources {
		path := filepath.Join(dir, src.file)
		f, err := os.Open(path)
		if err != nil {
			if src.optional && errors.Is(err, os.ErrNotExist) {
				m.log.Warn().Str("file", path).Msg("no existe, se omite")
				continue
			}
			return results, fmt.Errorf("abriendo %s: %w", path, err)
		}

		coll := m.db.Collection(src.collection)
		inserted, skipped, err := load(ctx, f, src.parse, m.batch, func(ctx context.Context, docs []any) error {
			_, err := coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
			if err != nil && !mongo.IsDuplicateKeyError(err) {
				return err
			}
			return nil
		})
		f.Close()
		if err != nil {
			return results, fmt.Errorf("migrando %s: %w", src.file, err)
		}

		m.log.Info().
			Str("collection", src.collection).
			Int("inserted", inserted).
			Int("skipped", skipped).
			Msg("migrada")
		results = append(results, Result{Collection: src.collection, Inserted: inserted, Skipped: skipped})
	}
	return results, nil
}

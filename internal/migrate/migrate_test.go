package migrate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"movierec/internal/models"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		title string
		want  int // 0 = sin año
	}{
		{"Toy Story (1995)", 1995},
		{"City of Lost Children, The (Cité des enfants perdus, La) (1995)", 1995},
		{"Babylon 5 (1994) ", 1994},
		{"Hyena Road", 0},
		{"1984 (Nineteen Eighty-Four)", 0},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := parseYear(tt.title)
			if tt.want == 0 {
				if got != nil {
					t.Errorf("parseYear() = %d, want nil", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("parseYear() = %v, want %d", got, tt.want)
			}
		})
	}
}

func TestParsers(t *testing.T) {
	doc, err := parseMovie([]string{"1", "Toy Story (1995)", "Adventure|Animation"})
	if err != nil {
		t.Fatal(err)
	}
	m := doc.(models.Movie)
	if m.MovieID != 1 || m.Year == nil || *m.Year != 1995 || m.Genres != "Adventure|Animation" {
		t.Errorf("movie = %+v", m)
	}

	doc, err = parseRating([]string{"1", "31", "2.5", "1260759144"})
	if err != nil {
		t.Fatal(err)
	}
	if r := doc.(models.Rating); r.Rating != 2.5 || r.Timestamp != 1260759144 {
		t.Errorf("rating = %+v", r)
	}

	doc, err = parseLink([]string{"1", "0114709", ""})
	if err != nil {
		t.Fatal(err)
	}
	if l := doc.(models.Link); l.ImdbID != "0114709" || l.TmdbID != nil {
		t.Errorf("link = %+v", l)
	}

	bad := []struct {
		name  string
		parse rowParser
		row   []string
	}{
		{"movie id", parseMovie, []string{"x", "t", "g"}},
		{"movie short", parseMovie, []string{"1"}},
		{"rating value", parseRating, []string{"1", "2", "cinco", "0"}},
		{"tag ts", parseTag, []string{"1", "2", "funny", "ayer"}},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.parse(tt.row); err == nil {
				t.Error("expected error")
			}
		})
	}
}

const ratingsCSV = `userId,movieId,rating,timestamp
1,31,2.5,1260759144
1,1029,3.0,1260759179
1,1061,bad,1260759182
2,10,4.0,835355493
2,17,5.0,835355681
`

func TestLoadBatches(t *testing.T) {
	var batches [][]any
	inserted, skipped, err := load(context.Background(), strings.NewReader(ratingsCSV), parseRating, 2,
		func(ctx context.Context, docs []any) error {
			batches = append(batches, docs)
			return nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 4 || skipped != 1 {
		t.Errorf("inserted=%d skipped=%d, want 4/1", inserted, skipped)
	}
	if len(batches) != 2 || len(batches[0]) != 2 || len(batches[1]) != 2 {
		t.Errorf("batch sizes = %v", batches)
	}
}

func TestLoadStopsOnFlushError(t *testing.T) {
	boom := errors.New("mongo down")
	_, _, err := load(context.Background(), strings.NewReader(ratingsCSV), parseRating, 1,
		func(ctx context.Context, docs []any) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	n, _, err := load(context.Background(), strings.NewReader(""), parseMovie, 10,
		func(ctx context.Context, docs []any) error { t.Fatal("flush on empty input"); return nil })
	if err != nil || n != 0 {
		t.Errorf("load(empty) = %d, %v", n, err)
	}
}

package service

import (
	"context"
	"testing"

	"movierec/internal/engine"
	"movierec/internal/models"
)

func TestHealthAndInit(t *testing.T) {
	store, ratings := fixture()
	e := engine.New(store, &fakeRatings{ratings: ratings}, nil, engine.Options{})
	c := newMemCache()
	stats := func(ctx context.Context) (models.DatabaseStats, error) {
		return models.DatabaseStats{Movies: 5}, nil
	}
	svc := NewSystemService(e, stats, c)
	ctx := context.Background()

	h := svc.Health(ctx)
	if h.Status != "initializing" || h.Initialized || h.Cache["status"] != "connected" {
		t.Errorf("cold health = %+v", h)
	}

	steps := []struct {
		force bool
		want  string
	}{
		{false, "initialized"},
		{false, "already_initialized"},
		{true, "reloaded"},
	}
	for _, s := range steps {
		got, err := svc.Init(ctx, s.force)
		if err != nil {
			t.Fatalf("Init(force=%v) error = %v", s.force, err)
		}
		if got != s.want {
			t.Errorf("Init(force=%v) = %q, want %q", s.force, got, s.want)
		}
	}

	if h := svc.Health(ctx); h.Status != "healthy" || !h.Initialized {
		t.Errorf("ready health = %+v", h)
	}

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Database.Movies != 5 || st.Engine.MoviesLoaded != 5 {
		t.Errorf("stats = %+v", st)
	}
}

func TestClearCache(t *testing.T) {
	c := newMemCache()
	c.data["a"] = []byte("1")
	c.data["b"] = []byte("2")
	svc := NewSystemService(engine.New(nil, nil, nil, engine.Options{}), nil, c)

	n, err := svc.ClearCache(context.Background())
	if err != nil || n != 2 {
		t.Errorf("ClearCache() = %d, %v", n, err)
	}

	noCache := NewSystemService(engine.New(nil, nil, nil, engine.Options{}), nil, nil)
	if h := noCache.Health(context.Background()); h.Cache["status"] != "disabled" {
		t.Errorf("cache status = %v", h.Cache)
	}
}

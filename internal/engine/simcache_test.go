package engine

import (
	"sync"
	"testing"

	"movierec/internal/similarity"
)

func TestSimCacheSymmetricKey(t *testing.T) {
	c, err := NewSimCache(100)
	if err != nil {
		t.Fatalf("NewSimCache() error = %v", err)
	}
	defer c.Close()

	c.Set(1, 2, similarity.Cosine, 0.75)
	c.Wait()

	if v, ok := c.Get(2, 1, similarity.Cosine); !ok || v != 0.75 {
		t.Errorf("Get(2, 1) = %v, %v; want 0.75, true", v, ok)
	}
	if _, ok := c.Get(1, 2, similarity.Pearson); ok {
		t.Error("different method must not hit")
	}

	c.Clear()
	if _, ok := c.Get(1, 2, similarity.Cosine); ok {
		t.Error("Clear() should drop entries")
	}
}

func TestSimKey(t *testing.T) {
	if simKey(5, 3, similarity.Euclidean) != simKey(3, 5, similarity.Euclidean) {
		t.Error("simKey should not depend on argument order")
	}
	if simKey(3, 5, similarity.Euclidean) == simKey(3, 5, similarity.Manhattan) {
		t.Error("simKey should include the method")
	}
}

func TestSimCacheUseAfterClose(t *testing.T) {
	c, err := NewSimCache(1000)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				c.Set(w, i, similarity.Cosine, 0.5)
				c.Get(w, i, similarity.Cosine)
			}
		}(w)
	}
	c.Close()
	wg.Wait()

	c.Set(1, 2, similarity.Cosine, 0.9)
	c.Wait()
	if _, ok := c.Get(1, 2, similarity.Cosine); ok {
		t.Error("closed cache should always miss")
	}
	c.Close()
	c.Clear()
}

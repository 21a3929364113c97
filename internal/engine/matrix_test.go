package engine

import (
	"reflect"
	"testing"

	"movierec/internal/models"
)

func TestBuildMatrix(t *testing.T) {
	ratings := []models.Rating{
		{UserID: 3, MovieID: 30, Rating: 5},
		{UserID: 1, MovieID: 10, Rating: 5},
		{UserID: 1, MovieID: 30, Rating: 3},
		{UserID: 2, MovieID: 10, Rating: 4},
		{UserID: 3, MovieID: 20, Rating: 5},
	}

	m := BuildMatrix(ratings)

	if u, mv := m.Shape(); u != 3 || mv != 3 {
		t.Fatalf("Shape() = (%d, %d), want (3, 3)", u, mv)
	}
	if !reflect.DeepEqual(m.Users(), []int{1, 2, 3}) {
		t.Errorf("Users() = %v, want sorted [1 2 3]", m.Users())
	}
	if !reflect.DeepEqual(m.Movies(), []int{10, 20, 30}) {
		t.Errorf("Movies() = %v, want sorted [10 20 30]", m.Movies())
	}
	if got := m.Column(10); !reflect.DeepEqual(got, []float64{5, 4, 0}) {
		t.Errorf("Column(10) = %v, want [5 4 0]", got)
	}
	if got := m.Row(1); !reflect.DeepEqual(got, []float64{5, 0, 3}) {
		t.Errorf("Row(1) = %v, want [5 0 3]", got)
	}
	if got := m.At(2, 30); got != 0 {
		t.Errorf("At(2, 30) = %v, want 0", got)
	}
	if m.Column(99) != nil || m.Row(99) != nil {
		t.Error("unknown ids should return nil vectors")
	}
}

func TestBuildMatrixDeterministic(t *testing.T) {
	a := []models.Rating{
		{UserID: 7, MovieID: 2, Rating: 1},
		{UserID: 5, MovieID: 9, Rating: 2},
		{UserID: 6, MovieID: 2, Rating: 3},
	}
	b := []models.Rating{a[2], a[0], a[1]}

	ma, mb := BuildMatrix(a), BuildMatrix(b)
	if !reflect.DeepEqual(ma.Users(), mb.Users()) || !reflect.DeepEqual(ma.Movies(), mb.Movies()) {
		t.Fatal("index order depends on input order")
	}
	for _, mv := range ma.Movies() {
		if !reflect.DeepEqual(ma.Column(mv), mb.Column(mv)) {
			t.Errorf("Column(%d) differs: %v vs %v", mv, ma.Column(mv), mb.Column(mv))
		}
	}
}

func TestBuildMatrixAveragesDuplicates(t *testing.T) {
	m := BuildMatrix([]models.Rating{
		{UserID: 1, MovieID: 1, Rating: 4},
		{UserID: 1, MovieID: 1, Rating: 2},
	})
	if got := m.At(1, 1); got != 3 {
		t.Errorf("At(1, 1) = %v, want 3", got)
	}
}

func TestBuildMatrixEmpty(t *testing.T) {
	m := BuildMatrix(nil)
	if u, mv := m.Shape(); u != 0 || mv != 0 {
		t.Fatalf("Shape() = (%d, %d), want (0, 0)", u, mv)
	}
	if m.HasMovie(1) || m.Column(1) != nil {
		t.Error("empty matrix should not contain movies")
	}
}

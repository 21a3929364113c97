package engine

import (
	"sort"

	"movierec/internal/models"

	"gonum.org/v1/gonum/mat"
)

// RatingMatrix es la matriz densa usuario x película (0 = sin rating).
// Filas y columnas van ordenadas por id ascendente, así dos muestras iguales
// producen exactamente la misma matriz.
type RatingMatrix struct {
	users    []int
	movies   []int
	userIdx  map[int]int
	movieIdx map[int]int
	data     *mat.Dense // nil si no hubo ratings
}

// BuildMatrix pivotea los ratings en la matriz densa. Si un par
// (usuario, película) aparece más de una vez se promedia.
func BuildMatrix(ratings []models.Rating) *RatingMatrix {
	m := &RatingMatrix{
		userIdx:  make(map[int]int),
		movieIdx: make(map[int]int),
	}

	for _, r := range ratings {
		if _, ok := m.userIdx[r.UserID]; !ok {
			m.userIdx[r.UserID] = -1
			m.users = append(m.users, r.UserID)
		}
		if _, ok := m.movieIdx[r.MovieID]; !ok {
			m.movieIdx[r.MovieID] = -1
			m.movies = append(m.movies, r.MovieID)
		}
	}
	if len(m.users) == 0 {
		return m
	}

	sort.Ints(m.users)
	sort.Ints(m.movies)
	for i, u := range m.users {
		m.userIdx[u] = i
	}
	for j, mv := range m.movies {
		m.movieIdx[mv] = j
	}

	rows, cols := len(m.users), len(m.movies)
	sums := make([]float64, rows*cols)
	counts := make([]int, rows*cols)
	for _, r := range ratings {
		k := m.userIdx[r.UserID]*cols + m.movieIdx[r.MovieID]
		sums[k] += r.Rating
		counts[k]++
	}
	for k, c := range counts {
		if c > 1 {
			sums[k] /= float64(c)
		}
	}

	m.data = mat.NewDense(rows, cols, sums)
	return m
}

func (m *RatingMatrix) Shape() (users, movies int) {
	return len(m.users), len(m.movies)
}

// Users ids de fila en orden.
func (m *RatingMatrix) Users() []int { return m.users }

// Movies ids de columna en orden.
func (m *RatingMatrix) Movies() []int { return m.movies }

func (m *RatingMatrix) HasUser(id int) bool {
	_, ok := m.userIdx[id]
	return ok
}

func (m *RatingMatrix) HasMovie(id int) bool {
	_, ok := m.movieIdx[id]
	return ok
}

// Row copia el vector de ratings del usuario (nil si no existe).
func (m *RatingMatrix) Row(userID int) []float64 {
	i, ok := m.userIdx[userID]
	if !ok {
		return nil
	}
	return mat.Row(nil, i, m.data)
}

// Column copia el vector de ratings de la película (nil si no existe).
func (m *RatingMatrix) Column(movieID int) []float64 {
	j, ok := m.movieIdx[movieID]
	if !ok {
		return nil
	}
	return mat.Col(nil, j, m.data)
}

// At devuelve el rating (0 si no hay).
func (m *RatingMatrix) At(userID, movieID int) float64 {
	i, ok := m.userIdx[userID]
	if !ok {
		return 0
	}
	j, ok := m.movieIdx[movieID]
	if !ok {
		return 0
	}
	return m.data.At(i, j)
}

// rowView devuelve la fila i sin copiar; solo lectura.
func (m *RatingMatrix) rowView(i int) []float64 {
	return m.data.RawRowView(i)
}

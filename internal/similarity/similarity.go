// Package similarity implementa las métricas de similitud entre vectores de
// ratings (cosine, euclidean, manhattan, pearson).
//
// Un valor NaN representa una entrada nula. Antes de calcular se eliminan, en
// ambos vectores a la vez, las posiciones donde cualquiera de los dos es nulo.
package similarity

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Method string

const (
	Cosine    Method = "cosine"
	Euclidean Method = "euclidean"
	Manhattan Method = "manhattan"
	Pearson   Method = "pearson"
)

var ErrInvalidMethod = errors.New("método de similitud no válido")

var methods = []Method{Cosine, Euclidean, Manhattan, Pearson}

// Methods devuelve las métricas disponibles en orden estable.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// Names igual que Methods pero como strings (para la API).
func Names() []string {
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = string(m)
	}
	return out
}

func ParseMethod(s string) (Method, error) {
	for _, m := range methods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (disponibles: %v)", ErrInvalidMethod, s, Names())
}

// Compute calcula la similitud entre a y b con la métrica indicada.
func Compute(a, b []float64, method Method) (float64, error) {
	switch method {
	case Cosine, Euclidean, Manhattan, Pearson:
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}

	x, y := pairwise(a, b)
	if len(x) == 0 {
		return 0, nil
	}

	switch method {
	case Cosine:
		return cosine(x, y), nil
	case Euclidean:
		return inverseDistance(floats.Distance(x, y, 2)), nil
	case Manhattan:
		return inverseDistance(floats.Distance(x, y, 1)), nil
	default:
		return pearson(x, y), nil
	}
}

// pairwise quita las posiciones nulas de ambos vectores a la vez.
// Si los largos difieren solo se considera el prefijo común.
func pairwise(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	x := make([]float64, 0, n)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}

func cosine(x, y []float64) float64 {
	nx := floats.Norm(x, 2)
	ny := floats.Norm(y, 2)
	// coseno indefinido con un vector todo ceros
	if nx == 0 || ny == 0 {
		return 0
	}
	return clamp(floats.Dot(x, y) / (nx * ny))
}

func inverseDistance(d float64) float64 {
	if d == 0 {
		return 1
	}
	return 1 / (1 + d)
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return clamp(r)
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}

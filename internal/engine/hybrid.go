package engine

import (
	"sort"

	"movierec/internal/models"
)

// Pesos de la mezcla híbrida.
const (
	WeightContent       = 0.4
	WeightCollaborative = 0.4
	WeightPopular       = 0.2
)

// WeightedList es la salida rankeada de una estrategia con su peso.
type WeightedList struct {
	Weight float64
	Items  []models.Recommendation
}

// Blend mezcla listas por posición: el ítem en el rank i (base 0) aporta
// (limit - i) * peso, y los aportes se suman por película. Se usa la
// posición y no el score porque los scores de cada estrategia no son
// comparables entre sí. Empates: movieId ascendente.
func Blend(limit int, lists ...WeightedList) []models.Recommendation {
	if limit <= 0 {
		return []models.Recommendation{}
	}

	scores := make(map[int]float64)
	meta := make(map[int]models.Recommendation)
	for _, l := range lists {
		seen := make(map[int]bool, len(l.Items))
		for i, it := range l.Items {
			if seen[it.MovieID] {
				continue
			}
			seen[it.MovieID] = true
			scores[it.MovieID] += float64(limit-i) * l.Weight
			if _, ok := meta[it.MovieID]; !ok {
				meta[it.MovieID] = it
			}
		}
	}

	out := make([]models.Recommendation, 0, len(scores))
	for id, s := range scores {
		it := meta[id]
		out = append(out, models.Recommendation{
			MovieID:     it.MovieID,
			Title:       it.Title,
			Genres:      it.Genres,
			Year:        it.Year,
			Score:       s,
			Strategy:    models.StrategyHybrid,
			HybridScore: s,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].MovieID < out[j].MovieID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
